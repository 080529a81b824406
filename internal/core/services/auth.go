package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/RyanKhPark/sf-asgmt/internal/core/domain"
	"github.com/RyanKhPark/sf-asgmt/internal/core/ports/driven"
	"github.com/RyanKhPark/sf-asgmt/internal/core/ports/driving"
)

// Verify interface compliance
var _ driving.AuthService = (*AuthSvc)(nil)

const minPasswordLength = 8

// AuthSvc implements registration and stateless token authentication.
type AuthSvc struct {
	users    driven.UserStore
	auth     driven.AuthAdapter
	tokenTTL time.Duration
	logger   *slog.Logger
}

func NewAuthService(users driven.UserStore, auth driven.AuthAdapter, tokenTTL time.Duration, logger *slog.Logger) *AuthSvc {
	return &AuthSvc{users: users, auth: auth, tokenTTL: tokenTTL, logger: logger}
}

// Register implements driving.AuthService.
func (s *AuthSvc) Register(ctx context.Context, req domain.RegisterRequest) (*domain.LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: invalid email", domain.ErrInvalidInput)
	}
	if len(req.Password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", domain.ErrInvalidInput, minPasswordLength)
	}

	hash, err := s.auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           domain.GenerateID(),
		Email:        email,
		PasswordHash: hash,
		Name:         strings.TrimSpace(req.Name),
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user registered", "user_id", user.ID)
	return s.issueToken(ctx, user)
}

// Authenticate implements driving.AuthService.
func (s *AuthSvc) Authenticate(ctx context.Context, req domain.LoginRequest) (*domain.LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if err == domain.ErrNotFound {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("looking up user: %w", err)
	}
	if !user.Active {
		return nil, domain.ErrUnauthorized
	}
	if !s.auth.VerifyPassword(req.Password, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	if err := s.users.UpdateLastLogin(ctx, user.ID); err != nil {
		s.logger.Warn("updating last login", "user_id", user.ID, "error", err)
	}
	return s.issueToken(ctx, user)
}

func (s *AuthSvc) issueToken(ctx context.Context, user *domain.User) (*domain.LoginResponse, error) {
	now := time.Now()
	expiresAt := now.Add(s.tokenTTL)

	token, err := s.auth.GenerateToken(&domain.TokenClaims{
		UserID:    user.ID,
		Email:     user.Email,
		Name:      user.Name,
		IssuedAt:  now.Unix(),
		ExpiresAt: expiresAt.Unix(),
	})
	if err != nil {
		return nil, fmt.Errorf("generating token: %w", err)
	}

	return &domain.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      user.ToSummary(),
	}, nil
}

// ValidateToken implements driving.AuthService. The user record is checked
// on every call so deactivated accounts lose access before token expiry.
func (s *AuthSvc) ValidateToken(ctx context.Context, token string) (*domain.AuthContext, error) {
	claims, err := s.auth.ValidateToken(token)
	if err != nil {
		return nil, err
	}

	user, err := s.users.Get(ctx, claims.UserID)
	if err != nil {
		if err == domain.ErrNotFound {
			return nil, domain.ErrUnauthorized
		}
		return nil, fmt.Errorf("looking up user: %w", err)
	}
	if !user.Active {
		return nil, domain.ErrUnauthorized
	}

	return &domain.AuthContext{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
	}, nil
}
