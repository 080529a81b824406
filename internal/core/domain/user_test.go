package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToSummaryOmitsPasswordHash(t *testing.T) {
	now := time.Now()
	u := &User{
		ID:           "user-1",
		Email:        "dev@example.com",
		PasswordHash: "$2a$10$secret",
		Name:         "Dev User",
		Active:       true,
		LastLoginAt:  &now,
	}

	s := u.ToSummary()
	require.NotNil(t, s)
	assert.Equal(t, u.ID, s.ID)
	assert.Equal(t, u.Email, s.Email)
	assert.Equal(t, u.Name, s.Name)
	assert.True(t, s.Active)
	assert.Equal(t, &now, s.LastLoginAt)
}

func TestUserJSONNeverLeaksPasswordHash(t *testing.T) {
	u := &User{ID: "user-1", Email: "dev@example.com", PasswordHash: "$2a$10$secret"}

	data, err := json.Marshal(u)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "secret")
}

func TestCanAnnotate(t *testing.T) {
	assert.True(t, (&User{Active: true}).CanAnnotate())
	assert.False(t, (&User{Active: false}).CanAnnotate())
}
