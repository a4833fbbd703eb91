package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ayaka01/chimeo-core/internal/models"

	"gorm.io/gorm"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	SetRefreshToken(ctx context.Context, username, hashedToken string, expireAt time.Time) error
	TouchLastSeen(ctx context.Context, username string, at time.Time) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create persists a new user, failing if the username or email is already
// taken.
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.User
		if err := tx.Where("username = ?", user.Username).First(&existing).Error; err == nil {
			return fmt.Errorf("username already exists")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if err := tx.Where("email = ?", user.Email).First(&existing).Error; err == nil {
			return fmt.Errorf("email already exists")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if err := tx.Create(user).Error; err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		return nil
	})
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// SetRefreshToken persists the hashed refresh token and its expiry atomically.
func (r *userRepository) SetRefreshToken(ctx context.Context, username, hashedToken string, expireAt time.Time) error {
	result := r.db.WithContext(ctx).Model(&models.User{}).
		Where("username = ?", username).
		Updates(map[string]any{
			"hashed_refresh_token":    hashedToken,
			"refresh_token_expire_at": expireAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to persist refresh token: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// TouchLastSeen updates last_seen via a raw statement.
func (r *userRepository) TouchLastSeen(ctx context.Context, username string, at time.Time) error {
	return r.db.WithContext(ctx).Exec(
		"UPDATE users SET last_seen = ? WHERE username = ?", at, username,
	).Error
}
