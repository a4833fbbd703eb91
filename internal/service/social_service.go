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

const searchResultLimit = 20

// SocialService implements the friend request state machine and the
// derived friendship relation.
type SocialService interface {
	Search(ctx context.Context, query, self string) ([]models.Public, error)
	SendRequest(ctx context.Context, sender, recipient string) (*models.FriendRequestResponse, error)
	AcceptRequest(ctx context.Context, requestID, currentUser string) (*models.Public, error)
	RejectRequest(ctx context.Context, requestID, currentUser string) (*models.Public, error)
	ListReceived(ctx context.Context, username string) ([]models.FriendRequestResponse, error)
	ListSent(ctx context.Context, username string) ([]models.FriendRequestResponse, error)
	ListFriends(ctx context.Context, username string) ([]models.Public, error)
	AreFriends(ctx context.Context, a, b string) (bool, error)
}

type socialService struct {
	friends repository.FriendRepository
	users   repository.UserRepository
}

func NewSocialService(friends repository.FriendRepository, users repository.UserRepository) SocialService {
	return &socialService{friends: friends, users: users}
}

func (s *socialService) Search(ctx context.Context, query, self string) ([]models.Public, error) {
	users, err := s.friends.Search(ctx, query, self, searchResultLimit)
	if err != nil {
		return nil, err
	}
	out := make([]models.Public, len(users))
	for i, u := range users {
		out[i] = u.Public()
	}
	return out, nil
}

func (s *socialService) AreFriends(ctx context.Context, a, b string) (bool, error) {
	_, err := s.friends.FindFriendship(ctx, a, b)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return false, fmt.Errorf("%w: %v", apierr.ErrDB, err)
}

// SendRequest implements the full precondition chain, including the
// auto-accept-on-reverse-request branch.
func (s *socialService) SendRequest(ctx context.Context, sender, recipient string) (*models.FriendRequestResponse, error) {
	if sender == recipient {
		return nil, apierr.ErrCannotFriendSelf
	}

	if _, err := s.users.FindByUsername(ctx, recipient); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.ErrUserNotFound
		}
		return nil, fmt.Errorf("%w: %v", apierr.ErrDB, err)
	}

	if already, err := s.AreFriends(ctx, sender, recipient); err != nil {
		return nil, err
	} else if already {
		return nil, apierr.ErrFriendshipAlreadyExists
	}

	if _, err := s.friends.FindRequest(ctx, sender, recipient); err == nil {
		return nil, apierr.ErrFriendRequestAlreadyExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %v", apierr.ErrDB, err)
	}

	reverse, err := s.friends.FindRequest(ctx, recipient, sender)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %v", apierr.ErrDB, err)
	}

	if err == nil && reverse.Status == models.FriendRequestPending {
		var resp *models.FriendRequestResponse
		txErr := s.friends.Transaction(ctx, func(tx *gorm.DB) error {
			if _, cerr := s.friends.CreateFriendship(ctx, tx, sender, recipient); cerr != nil {
				return cerr
			}
			if derr := s.friends.DeleteRequest(ctx, tx, reverse.ID); derr != nil {
				return derr
			}
			resp = &models.FriendRequestResponse{
				ID:                reverse.ID,
				SenderUsername:    sender,
				RecipientUsername: recipient,
				Status:            models.FriendRequestAccepted,
			}
			return nil
		})
		if txErr != nil {
			return nil, fmt.Errorf("%w: %v", apierr.ErrDB, txErr)
		}
		return resp, nil
	}

	req, err := s.friends.CreateRequest(ctx, sender, recipient)
	if err != nil {
		return nil, err
	}
	return &models.FriendRequestResponse{
		ID:                req.ID,
		SenderUsername:    req.SenderUsername,
		RecipientUsername: req.RecipientUsername,
		Status:            req.Status,
	}, nil
}

// AcceptRequest deletes the request row atomically with the Friendship
// creation rather than marking it accepted and retaining it.
func (s *socialService) AcceptRequest(ctx context.Context, requestID, currentUser string) (*models.Public, error) {
	req, err := s.friends.FindRequestByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.ErrFriendRequestNotFound
		}
		return nil, fmt.Errorf("%w: %v", apierr.ErrDB, err)
	}
	if req.RecipientUsername != currentUser {
		return nil, apierr.ErrNotAuthorized
	}
	if req.Status != models.FriendRequestPending {
		return nil, apierr.ErrInvalidFriendRequestState
	}

	txErr := s.friends.Transaction(ctx, func(tx *gorm.DB) error {
		if _, cerr := s.friends.CreateFriendship(ctx, tx, req.SenderUsername, req.RecipientUsername); cerr != nil {
			return cerr
		}
		return s.friends.DeleteRequest(ctx, tx, req.ID)
	})
	if txErr != nil {
		return nil, fmt.Errorf("%w: %v", apierr.ErrDB, txErr)
	}

	other, err := s.users.FindByUsername(ctx, req.SenderUsername)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apierr.ErrDB, err)
	}
	public := other.Public()
	return &public, nil
}

func (s *socialService) RejectRequest(ctx context.Context, requestID, currentUser string) (*models.Public, error) {
	req, err := s.friends.FindRequestByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.ErrFriendRequestNotFound
		}
		return nil, fmt.Errorf("%w: %v", apierr.ErrDB, err)
	}
	if req.RecipientUsername != currentUser {
		return nil, apierr.ErrNotAuthorized
	}
	if req.Status != models.FriendRequestPending {
		return nil, apierr.ErrInvalidFriendRequestState
	}
	if err := s.friends.SetRequestStatus(ctx, req.ID, models.FriendRequestRejected); err != nil {
		return nil, fmt.Errorf("%w: %v", apierr.ErrDB, err)
	}

	other, err := s.users.FindByUsername(ctx, req.SenderUsername)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apierr.ErrDB, err)
	}
	public := other.Public()
	return &public, nil
}

func (s *socialService) ListReceived(ctx context.Context, username string) ([]models.FriendRequestResponse, error) {
	reqs, err := s.friends.ListReceived(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apierr.ErrDB, err)
	}
	return toRequestResponses(reqs), nil
}

func (s *socialService) ListSent(ctx context.Context, username string) ([]models.FriendRequestResponse, error) {
	reqs, err := s.friends.ListSent(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apierr.ErrDB, err)
	}
	return toRequestResponses(reqs), nil
}

func toRequestResponses(reqs []models.FriendRequest) []models.FriendRequestResponse {
	out := make([]models.FriendRequestResponse, len(reqs))
	for i, r := range reqs {
		out[i] = models.FriendRequestResponse{
			ID:                r.ID,
			SenderUsername:    r.SenderUsername,
			RecipientUsername: r.RecipientUsername,
			Status:            r.Status,
		}
	}
	return out
}

func (s *socialService) ListFriends(ctx context.Context, username string) ([]models.Public, error) {
	users, err := s.friends.ListFriends(ctx, username)
	if err != nil {
		return nil, err
	}
	out := make([]models.Public, len(users))
	for i, u := range users {
		out[i] = u.Public()
	}
	return out, nil
}
