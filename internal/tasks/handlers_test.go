package tasks

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/echofinder/api/internal/database/models"
	"github.com/echofinder/api/internal/testutil"
	"github.com/echofinder/api/pkg/config"
	"github.com/echofinder/api/pkg/queue"
)

func testHandler(t *testing.T) (*Handler, *testutil.TestSetup) {
	setup := testutil.NewTestContext(t)
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewHandler(setup.DB, logger, "https://app.example.com"), setup
}

func TestHandleInviteEmail_InvalidPayload(t *testing.T) {
	handler, setup := testHandler(t)
	defer setup.Cleanup()

	task := asynq.NewTask(TypeInviteEmail, []byte("invalid json"))

	err := handler.HandleInviteEmail(context.Background(), task)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unmarshal payload")
}

func TestHandleInviteEmail_DeliversPendingInvite(t *testing.T) {
	handler, setup := testHandler(t)
	defer setup.Cleanup()

	invite, rawToken := testutil.CreateTestInvite(t, setup.DB, setup.Hasher, "invitee@example.com", setup.Admin)

	task, err := NewInviteEmailTask(InviteEmailPayload{
		InviteID:  invite.ID,
		Email:     invite.Email,
		Role:      string(invite.InvitedRole),
		Token:     rawToken,
		ExpiresAt: invite.ExpiresAt,
	})
	require.NoError(t, err)

	assert.NoError(t, handler.HandleInviteEmail(context.Background(), task))
}

func TestHandleInviteEmail_SkipsRevokedInvite(t *testing.T) {
	handler, setup := testHandler(t)
	defer setup.Cleanup()

	invite, rawToken := testutil.CreateTestInvite(t, setup.DB, setup.Hasher, "revoked@example.com", setup.Admin)

	now := time.Now()
	require.NoError(t, setup.DB.Model(invite).Update("revoked_at", &now).Error)

	task, err := NewInviteEmailTask(InviteEmailPayload{
		InviteID:  invite.ID,
		Email:     invite.Email,
		Role:      string(invite.InvitedRole),
		Token:     rawToken,
		ExpiresAt: invite.ExpiresAt,
	})
	require.NoError(t, err)

	// Skipped delivery is a success: the task must not be retried.
	assert.NoError(t, handler.HandleInviteEmail(context.Background(), task))
}

func TestHandleInviteEmail_SkipsMissingInvite(t *testing.T) {
	handler, setup := testHandler(t)
	defer setup.Cleanup()

	task, err := NewInviteEmailTask(InviteEmailPayload{
		InviteID:  uuid.New(),
		Email:     "ghost@example.com",
		Role:      string(models.RoleUser),
		Token:     "some-token",
		ExpiresAt: time.Now().Add(time.Hour),
	})
	require.NoError(t, err)

	assert.NoError(t, handler.HandleInviteEmail(context.Background(), task))
}

func TestHandleInviteSweep(t *testing.T) {
	handler, setup := testHandler(t)
	defer setup.Cleanup()

	// One pending invite past its expiry, one still live.
	expired, _ := testutil.CreateTestInvite(t, setup.DB, setup.Hasher, "expired@example.com", setup.Admin)
	require.NoError(t, setup.DB.Model(expired).Update("expires_at", time.Now().Add(-time.Hour)).Error)
	testutil.CreateTestInvite(t, setup.DB, setup.Hasher, "live@example.com", setup.Admin)

	assert.NoError(t, handler.HandleInviteSweep(context.Background(), NewInviteSweepTask()))
}

func TestRegisterPeriodicTasks(t *testing.T) {
	scheduler := queue.NewScheduler(&config.RedisConfig{Host: "localhost", Port: 6379})

	// Registration validates the cron spec locally; a bad spec would fail
	// here long before the scheduler ever ticks.
	require.NoError(t, RegisterPeriodicTasks(scheduler))
}

func TestNewInviteEmailTask_RoundTrip(t *testing.T) {
	payload := InviteEmailPayload{
		InviteID:  uuid.New(),
		Email:     "roundtrip@example.com",
		Role:      string(models.RoleAdmin),
		Token:     "raw-token-value",
		ExpiresAt: time.Now().Add(72 * time.Hour).Truncate(time.Second),
	}

	task, err := NewInviteEmailTask(payload)
	require.NoError(t, err)
	assert.Equal(t, TypeInviteEmail, task.Type())

	var decoded InviteEmailPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &decoded))
	assert.Equal(t, payload.InviteID, decoded.InviteID)
	assert.Equal(t, payload.Token, decoded.Token)
}
