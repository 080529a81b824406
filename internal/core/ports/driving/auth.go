package driving

import (
	"context"

	"github.com/RyanKhPark/sf-asgmt/internal/core/domain"
)

// AuthService handles user registration and authentication
type AuthService interface {
	// Register creates a new account and returns a logged-in response
	Register(ctx context.Context, req domain.RegisterRequest) (*domain.LoginResponse, error)

	// Authenticate validates credentials and issues a token
	Authenticate(ctx context.Context, req domain.LoginRequest) (*domain.LoginResponse, error)

	// ValidateToken validates a JWT token and returns the auth context
	ValidateToken(ctx context.Context, token string) (*domain.AuthContext, error)
}
