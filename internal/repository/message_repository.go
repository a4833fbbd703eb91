package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/ayaka01/chimeo-core/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrWrongRecipient is returned by AckDelivery when id exists but belongs to
// a different recipient; it is distinct from gorm.ErrRecordNotFound so the
// service layer can map it to 403 instead of 404.
var ErrWrongRecipient = errors.New("message belongs to a different recipient")

type MessageRepository interface {
	Create(ctx context.Context, sender, recipient, text string) (*models.PendingMessage, error)
	ListPending(ctx context.Context, recipient string) ([]models.PendingMessage, error)
	// FindAndDelete loads the message by id and deletes it in one
	// transaction, returning the row that was deleted so the caller can
	// notify the original sender. Used only by the realtime flush, where the
	// id set already came from a ListPending(recipient) query, so no further
	// ownership check is needed.
	FindAndDelete(ctx context.Context, id string) (*models.PendingMessage, error)
	// AckDelivery loads the message by id and, only if its recipient matches
	// recipient, deletes it in the same transaction. Returns
	// gorm.ErrRecordNotFound when the id does not exist, and the distinct
	// ErrWrongRecipient when it belongs to a different recipient, without
	// deleting the row in that case.
	AckDelivery(ctx context.Context, id, recipient string) (*models.PendingMessage, error)
}

type messageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(ctx context.Context, sender, recipient, text string) (*models.PendingMessage, error) {
	msg := &models.PendingMessage{
		ID:                uuid.NewString(),
		SenderUsername:    sender,
		RecipientUsername: recipient,
		Text:              text,
	}
	if err := r.db.WithContext(ctx).Create(msg).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", errDB, err)
	}
	return msg, nil
}

// ListPending returns all messages addressed to recipient, FIFO by
// created_at.
func (r *messageRepository) ListPending(ctx context.Context, recipient string) ([]models.PendingMessage, error) {
	var messages []models.PendingMessage
	err := r.db.WithContext(ctx).
		Where("recipient_username = ?", recipient).
		Order("created_at ASC").
		Find(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errDB, err)
	}
	return messages, nil
}

func (r *messageRepository) FindAndDelete(ctx context.Context, id string) (*models.PendingMessage, error) {
	var msg models.PendingMessage
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&msg).Error; err != nil {
			return err
		}
		return tx.Delete(&models.PendingMessage{}, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

func (r *messageRepository) AckDelivery(ctx context.Context, id, recipient string) (*models.PendingMessage, error) {
	var msg models.PendingMessage
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&msg).Error; err != nil {
			return err
		}
		if msg.RecipientUsername != recipient {
			return ErrWrongRecipient
		}
		return tx.Delete(&models.PendingMessage{}, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}
	return &msg, nil
}
