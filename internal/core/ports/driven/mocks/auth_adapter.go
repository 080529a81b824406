package mocks

import (
	"fmt"
	"strings"
	"time"

	"github.com/RyanKhPark/sf-asgmt/internal/core/domain"
	"github.com/RyanKhPark/sf-asgmt/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.AuthAdapter = (*MockAuthAdapter)(nil)

// MockAuthAdapter is a transparent AuthAdapter for testing: passwords are
// "hashed" by prefixing and tokens encode the user id directly.
type MockAuthAdapter struct{}

// NewMockAuthAdapter creates a MockAuthAdapter
func NewMockAuthAdapter() *MockAuthAdapter {
	return &MockAuthAdapter{}
}

func (m *MockAuthAdapter) HashPassword(password string) (string, error) {
	return "hashed:" + password, nil
}

func (m *MockAuthAdapter) VerifyPassword(password, hash string) bool {
	return hash == "hashed:"+password
}

func (m *MockAuthAdapter) GenerateToken(claims *domain.TokenClaims) (string, error) {
	return fmt.Sprintf("token:%s:%s:%d", claims.UserID, claims.Email, claims.ExpiresAt), nil
}

func (m *MockAuthAdapter) ValidateToken(token string) (*domain.TokenClaims, error) {
	parts := strings.Split(token, ":")
	if len(parts) != 4 || parts[0] != "token" {
		return nil, domain.ErrTokenInvalid
	}
	var exp int64
	if _, err := fmt.Sscanf(parts[3], "%d", &exp); err != nil {
		return nil, domain.ErrTokenInvalid
	}
	if time.Now().Unix() > exp {
		return nil, domain.ErrTokenExpired
	}
	return &domain.TokenClaims{UserID: parts[1], Email: parts[2], ExpiresAt: exp}, nil
}
