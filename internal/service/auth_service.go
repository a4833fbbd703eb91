package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ayaka01/chimeo-core/internal/apierr"
	"github.com/ayaka01/chimeo-core/internal/auth"
	"github.com/ayaka01/chimeo-core/internal/models"
	"github.com/ayaka01/chimeo-core/internal/repository"

	"gorm.io/gorm"
)

const minUsernameLength = 3

// AuthService implements register/login/refresh/resolve-bearer.
type AuthService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.Token, error)
	Login(ctx context.Context, req *models.LoginRequest) (*models.Token, error)
	Refresh(ctx context.Context, refreshToken string) (*models.Token, error)
	ResolveBearer(ctx context.Context, accessToken string) (*models.User, error)
}

type authService struct {
	repo     repository.UserRepository
	tokens   *auth.TokenManager
	policy   auth.PasswordPolicy
	lastSeen repository.LastSeenCache
}

func NewAuthService(repo repository.UserRepository, tokens *auth.TokenManager, policy auth.PasswordPolicy, lastSeen repository.LastSeenCache) AuthService {
	return &authService{repo: repo, tokens: tokens, policy: policy, lastSeen: lastSeen}
}

// issueAndPersist mints an access+refresh pair and persists the hashed
// refresh token before returning; if persistence fails, no token is handed
// back to the caller.
func (s *authService) issueAndPersist(ctx context.Context, user *models.User) (*models.Token, error) {
	accessToken, err := s.tokens.IssueAccessToken(user.Username)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apierr.ErrUnexpected, err)
	}

	refreshToken, expireAt, err := s.tokens.IssueRefreshToken(user.Username)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apierr.ErrUnexpected, err)
	}

	hashedRefresh, err := auth.HashRefreshToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apierr.ErrUnexpected, err)
	}

	if err := s.repo.SetRefreshToken(ctx, user.Username, hashedRefresh, expireAt); err != nil {
		return nil, fmt.Errorf("%w: failed to persist refresh token: %v", apierr.ErrDB, err)
	}

	return &models.Token{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		Username:     user.Username,
		DisplayName:  user.DisplayName,
	}, nil
}

func (s *authService) Register(ctx context.Context, req *models.RegisterRequest) (*models.Token, error) {
	if len(req.Username) < minUsernameLength {
		return nil, apierr.ErrUsernameTooShort
	}
	if err := auth.CheckPasswordStrength(s.policy, req.Password); err != nil {
		return nil, err
	}

	if _, err := s.repo.FindByUsername(ctx, req.Username); err == nil {
		return nil, apierr.ErrUsernameExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %v", apierr.ErrDB, err)
	}

	if _, err := s.repo.FindByEmail(ctx, req.Email); err == nil {
		return nil, apierr.ErrEmailExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %v", apierr.ErrDB, err)
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apierr.ErrUnexpected, err)
	}

	user := &models.User{
		Username:       req.Username,
		Email:          req.Email,
		DisplayName:    req.DisplayName,
		HashedPassword: hashedPassword,
		LastSeen:       time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("%w: %v", apierr.ErrDB, err)
	}

	return s.issueAndPersist(ctx, user)
}

func (s *authService) Login(ctx context.Context, req *models.LoginRequest) (*models.Token, error) {
	user, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.ErrEmailNotFound
		}
		return nil, fmt.Errorf("%w: %v", apierr.ErrDB, err)
	}

	if !auth.VerifyPassword(req.Password, user.HashedPassword) {
		return nil, apierr.ErrInvalidCredentials
	}

	if err := s.repo.TouchLastSeen(ctx, user.Username, time.Now().UTC()); err != nil {
		return nil, fmt.Errorf("%w: %v", apierr.ErrDB, err)
	}

	return s.issueAndPersist(ctx, user)
}

// Refresh does not rotate the refresh token by default: the same cleartext
// continues to be accepted until its own expiry.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*models.Token, error) {
	username, err := s.tokens.ParseToken(refreshToken)
	if err != nil {
		return nil, apierr.ErrAuthentication
	}

	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return nil, apierr.ErrAuthentication
	}

	if user.HashedRefreshToken == "" || user.RefreshTokenExpireAt == nil {
		return nil, apierr.ErrAuthentication
	}
	if !auth.VerifyRefreshToken(refreshToken, user.HashedRefreshToken) {
		return nil, apierr.ErrAuthentication
	}
	if time.Now().After(*user.RefreshTokenExpireAt) {
		return nil, apierr.ErrAuthentication
	}

	accessToken, err := s.tokens.IssueAccessToken(user.Username)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apierr.ErrUnexpected, err)
	}

	if s.tokens.Rotate {
		return s.issueAndPersist(ctx, user)
	}

	return &models.Token{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		Username:     user.Username,
		DisplayName:  user.DisplayName,
	}, nil
}

func (s *authService) ResolveBearer(ctx context.Context, accessToken string) (*models.User, error) {
	username, err := s.tokens.ParseToken(accessToken)
	if err != nil {
		return nil, apierr.ErrAuthentication
	}

	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return nil, apierr.ErrAuthentication
	}

	now := time.Now().UTC()
	if err := s.repo.TouchLastSeen(ctx, user.Username, now); err != nil {
		if s.lastSeen != nil {
			if cached, ok := s.lastSeen.Get(ctx, user.Username); ok {
				user.LastSeen = cached
				return user, nil
			}
		}
		return nil, fmt.Errorf("%w: %v", apierr.ErrDB, err)
	}
	user.LastSeen = now
	if s.lastSeen != nil {
		_ = s.lastSeen.Touch(ctx, user.Username, now)
	}

	return user, nil
}
