package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/ayaka01/chimeo-core/internal/apierr"
	"github.com/ayaka01/chimeo-core/internal/models"
	"github.com/ayaka01/chimeo-core/internal/repository"

	"gorm.io/gorm"
)

// MessageService implements send/list-pending/mark-delivered with the
// friendship gate.
type MessageService interface {
	Send(ctx context.Context, sender, recipient, text string) (*models.PendingMessage, error)
	ListPending(ctx context.Context, recipient string) ([]models.PendingMessage, error)
	// MarkDelivered is used by the realtime flush path, where the id set
	// already came from ListPending(recipient) and ownership need not be
	// re-checked.
	MarkDelivered(ctx context.Context, messageID string) (*models.PendingMessage, error)
	// Ack is used by externally triggered acknowledgments (the HTTP
	// endpoint and the inbound realtime ack frame), verifying that
	// recipient owns messageID before deleting it.
	Ack(ctx context.Context, messageID, recipient string) (*models.PendingMessage, error)
}

type messageService struct {
	messages repository.MessageRepository
	users    repository.UserRepository
	social   SocialService
}

func NewMessageService(messages repository.MessageRepository, users repository.UserRepository, social SocialService) MessageService {
	return &messageService{messages: messages, users: users, social: social}
}

func (s *messageService) Send(ctx context.Context, sender, recipient, text string) (*models.PendingMessage, error) {
	if _, err := s.users.FindByUsername(ctx, recipient); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.ErrUserNotFound
		}
		return nil, fmt.Errorf("%w: %v", apierr.ErrDB, err)
	}

	friends, err := s.social.AreFriends(ctx, sender, recipient)
	if err != nil {
		return nil, err
	}
	if !friends {
		return nil, apierr.ErrForbidden
	}

	msg, err := s.messages.Create(ctx, sender, recipient, text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apierr.ErrDB, err)
	}
	return msg, nil
}

// ListPending returns all stored messages addressed to recipient, FIFO by
// created_at; callers must not rely on cross-sender ordering beyond causal
// consistency.
func (s *messageService) ListPending(ctx context.Context, recipient string) ([]models.PendingMessage, error) {
	return s.messages.ListPending(ctx, recipient)
}

// MarkDelivered deletes the message inline; there is no post-delivery
// retention.
func (s *messageService) MarkDelivered(ctx context.Context, messageID string) (*models.PendingMessage, error) {
	msg, err := s.messages.FindAndDelete(ctx, messageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.ErrMessageNotFound
		}
		return nil, fmt.Errorf("%w: %v", apierr.ErrDB, err)
	}
	return msg, nil
}

// Ack deletes messageID only if it is addressed to recipient: wrong
// recipient maps to forbidden, unknown id maps to not-found.
func (s *messageService) Ack(ctx context.Context, messageID, recipient string) (*models.PendingMessage, error) {
	msg, err := s.messages.AckDelivery(ctx, messageID, recipient)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.ErrMessageNotFound
		}
		if errors.Is(err, repository.ErrWrongRecipient) {
			return nil, apierr.ErrForbidden
		}
		return nil, fmt.Errorf("%w: %v", apierr.ErrDB, err)
	}
	return msg, nil
}
