package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func pendingInvite(expiresAt time.Time) *Invite {
	return NewInvite("invitee@example.com", "hashed-token-value", RoleUser, uuid.New(), expiresAt)
}

func TestInvite_IsValid(t *testing.T) {
	now := time.Now()

	t.Run("pending and unexpired", func(t *testing.T) {
		invite := pendingInvite(now.Add(7 * 24 * time.Hour))
		assert.True(t, invite.IsValid(now))
	})

	t.Run("expired", func(t *testing.T) {
		invite := pendingInvite(now.Add(-24 * time.Hour))
		assert.False(t, invite.IsValid(now))
	})

	t.Run("expiring exactly now", func(t *testing.T) {
		invite := pendingInvite(now)
		assert.False(t, invite.IsValid(now))
	})

	t.Run("used", func(t *testing.T) {
		invite := pendingInvite(now.Add(7 * 24 * time.Hour))
		usedAt := now
		invite.UsedAt = &usedAt
		assert.False(t, invite.IsValid(now))
	})

	t.Run("revoked", func(t *testing.T) {
		invite := pendingInvite(now.Add(7 * 24 * time.Hour))
		revokedAt := now
		invite.RevokedAt = &revokedAt
		assert.False(t, invite.IsValid(now))
	})
}

func TestInvite_State(t *testing.T) {
	now := time.Now()
	future := now.Add(7 * 24 * time.Hour)
	past := now.Add(-time.Hour)

	t.Run("pending", func(t *testing.T) {
		assert.Equal(t, InvitePending, pendingInvite(future).State(now))
	})

	t.Run("expired", func(t *testing.T) {
		assert.Equal(t, InviteExpired, pendingInvite(past).State(now))
	})

	t.Run("used wins over expired", func(t *testing.T) {
		invite := pendingInvite(past)
		invite.UsedAt = &past
		assert.Equal(t, InviteUsed, invite.State(now))
	})

	t.Run("revoked wins over expired", func(t *testing.T) {
		invite := pendingInvite(past)
		invite.RevokedAt = &past
		assert.Equal(t, InviteRevoked, invite.State(now))
	})
}
