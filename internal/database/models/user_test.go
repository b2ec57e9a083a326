package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewUser_NormalizesEmailKey(t *testing.T) {
	user := NewUser("Test@Example.COM", RoleUser, StatusActive)

	assert.Equal(t, "Test@Example.COM", user.Email)
	assert.Equal(t, "test@example.com", user.EmailKey)
}

func TestUserRole_Valid(t *testing.T) {
	assert.True(t, RoleUser.Valid())
	assert.True(t, RoleAdmin.Valid())
	assert.False(t, UserRole("OWNER").Valid())
	assert.False(t, UserRole("").Valid())
}

func TestUserStatus_Valid(t *testing.T) {
	assert.True(t, StatusPending.Valid())
	assert.True(t, StatusActive.Valid())
	assert.True(t, StatusDisabled.Valid())
	assert.False(t, UserStatus("ARCHIVED").Valid())
}

func TestUser_SettersRefreshUpdatedAt(t *testing.T) {
	user := NewUser("test@example.com", RoleUser, StatusPending)
	stale := time.Now().Add(-time.Hour)

	tests := []struct {
		name   string
		mutate func(*User)
	}{
		{"SetEmail", func(u *User) { u.SetEmail("new@example.com") }},
		{"SetDisplayName", func(u *User) { u.SetDisplayName("New Name") }},
		{"SetRole", func(u *User) { u.SetRole(RoleAdmin) }},
		{"SetStatus", func(u *User) { u.SetStatus(StatusActive) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user.UpdatedAt = stale
			tt.mutate(user)
			assert.True(t, user.UpdatedAt.After(stale))
		})
	}
}

func TestUser_SetEmailUpdatesKey(t *testing.T) {
	user := NewUser("old@example.com", RoleUser, StatusActive)
	user.SetEmail("New@Example.com")

	assert.Equal(t, "New@Example.com", user.Email)
	assert.Equal(t, "new@example.com", user.EmailKey)
}
