package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/ayaka01/chimeo-core/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FriendRepository interface {
	// Search returns up to limit users whose username case-insensitively
	// contains query, excluding self, users self has already sent a request
	// to (any status), and existing friends.
	Search(ctx context.Context, query, self string, limit int) ([]models.User, error)

	FindRequest(ctx context.Context, sender, recipient string) (*models.FriendRequest, error)
	FindRequestByID(ctx context.Context, id string) (*models.FriendRequest, error)
	CreateRequest(ctx context.Context, sender, recipient string) (*models.FriendRequest, error)
	DeleteRequest(ctx context.Context, tx *gorm.DB, id string) error
	SetRequestStatus(ctx context.Context, id, status string) error
	ListReceived(ctx context.Context, username string) ([]models.FriendRequest, error)
	ListSent(ctx context.Context, username string) ([]models.FriendRequest, error)

	FindFriendship(ctx context.Context, a, b string) (*models.Friendship, error)
	CreateFriendship(ctx context.Context, tx *gorm.DB, a, b string) (*models.Friendship, error)
	ListFriends(ctx context.Context, username string) ([]models.User, error)

	// Transaction runs fn inside a single gorm transaction, as required by
	// the accept/auto-accept state transitions.
	Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error
}

var errDB = errors.New("DB_ERROR")

type friendRepository struct {
	db *gorm.DB
}

func NewFriendRepository(db *gorm.DB) FriendRepository {
	return &friendRepository{db: db}
}

func (r *friendRepository) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

// sortedPair returns (user1, user2) with user1 < user2, enforcing the
// Friendship canonical-ordering invariant at the single place that ever
// writes the table.
func sortedPair(a, b string) (string, string) {
	pair := []string{a, b}
	sort.Strings(pair)
	return pair[0], pair[1]
}

func (r *friendRepository) Search(ctx context.Context, query, self string, limit int) ([]models.User, error) {
	db := r.db.WithContext(ctx)

	requested := db.Model(&models.FriendRequest{}).
		Select("recipient_username").
		Where("sender_username = ?", self)

	friendOf1 := db.Model(&models.Friendship{}).
		Select("user2_username").
		Where("user1_username = ?", self)
	friendOf2 := db.Model(&models.Friendship{}).
		Select("user1_username").
		Where("user2_username = ?", self)

	var users []models.User
	err := db.
		Where("username <> ?", self).
		Where("LOWER(username) LIKE ?", "%"+strings.ToLower(query)+"%").
		Where("username NOT IN (?)", requested).
		Where("username NOT IN (?)", friendOf1).
		Where("username NOT IN (?)", friendOf2).
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errDB, err)
	}
	return users, nil
}

func (r *friendRepository) FindRequest(ctx context.Context, sender, recipient string) (*models.FriendRequest, error) {
	var req models.FriendRequest
	err := r.db.WithContext(ctx).
		Where("sender_username = ? AND recipient_username = ?", sender, recipient).
		First(&req).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *friendRepository) FindRequestByID(ctx context.Context, id string) (*models.FriendRequest, error) {
	var req models.FriendRequest
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&req).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *friendRepository) CreateRequest(ctx context.Context, sender, recipient string) (*models.FriendRequest, error) {
	req := &models.FriendRequest{
		ID:                uuid.NewString(),
		SenderUsername:    sender,
		RecipientUsername: recipient,
		Status:            models.FriendRequestPending,
	}
	if err := r.db.WithContext(ctx).Create(req).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", errDB, err)
	}
	return req, nil
}

func (r *friendRepository) DeleteRequest(ctx context.Context, tx *gorm.DB, id string) error {
	return tx.WithContext(ctx).Where("id = ?", id).Delete(&models.FriendRequest{}).Error
}

func (r *friendRepository) SetRequestStatus(ctx context.Context, id, status string) error {
	result := r.db.WithContext(ctx).Model(&models.FriendRequest{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return fmt.Errorf("%w: %v", errDB, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *friendRepository) ListReceived(ctx context.Context, username string) ([]models.FriendRequest, error) {
	var reqs []models.FriendRequest
	err := r.db.WithContext(ctx).
		Where("recipient_username = ? AND status = ?", username, models.FriendRequestPending).
		Order("created_at ASC").
		Find(&reqs).Error
	return reqs, err
}

func (r *friendRepository) ListSent(ctx context.Context, username string) ([]models.FriendRequest, error) {
	var reqs []models.FriendRequest
	err := r.db.WithContext(ctx).
		Where("sender_username = ? AND status = ?", username, models.FriendRequestPending).
		Order("created_at ASC").
		Find(&reqs).Error
	return reqs, err
}

func (r *friendRepository) FindFriendship(ctx context.Context, a, b string) (*models.Friendship, error) {
	u1, u2 := sortedPair(a, b)
	var f models.Friendship
	err := r.db.WithContext(ctx).
		Where("user1_username = ? AND user2_username = ?", u1, u2).
		First(&f).Error
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *friendRepository) CreateFriendship(ctx context.Context, tx *gorm.DB, a, b string) (*models.Friendship, error) {
	u1, u2 := sortedPair(a, b)
	f := &models.Friendship{ID: uuid.NewString(), User1Username: u1, User2Username: u2}
	if err := tx.WithContext(ctx).Create(f).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", errDB, err)
	}
	return f, nil
}

func (r *friendRepository) ListFriends(ctx context.Context, username string) ([]models.User, error) {
	var friendships []models.Friendship
	if err := r.db.WithContext(ctx).
		Where("user1_username = ? OR user2_username = ?", username, username).
		Find(&friendships).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", errDB, err)
	}

	usernames := make([]string, 0, len(friendships))
	for _, f := range friendships {
		if f.User1Username == username {
			usernames = append(usernames, f.User2Username)
		} else {
			usernames = append(usernames, f.User1Username)
		}
	}
	if len(usernames) == 0 {
		return nil, nil
	}

	var users []models.User
	if err := r.db.WithContext(ctx).Where("username IN ?", usernames).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", errDB, err)
	}
	return users, nil
}
