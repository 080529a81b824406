package driven

import (
	"context"

	"github.com/RyanKhPark/sf-asgmt/internal/core/domain"
)

// UserStore handles user persistence
type UserStore interface {
	// Create adds a new user
	Create(ctx context.Context, user *domain.User) error

	// Get retrieves a user by ID
	Get(ctx context.Context, id string) (*domain.User, error)

	// GetByEmail retrieves a user by email address
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// UpdateLastLogin records a successful login
	UpdateLastLogin(ctx context.Context, id string) error
}
