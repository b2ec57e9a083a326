package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"gorm.io/gorm"

	"github.com/echofinder/api/internal/database/models"
)

type Handler struct {
	db      *gorm.DB
	logger  *slog.Logger
	baseURL string
}

func NewHandler(db *gorm.DB, logger *slog.Logger, baseURL string) *Handler {
	return &Handler{
		db:      db,
		logger:  logger,
		baseURL: baseURL,
	}
}

func (h *Handler) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(TypeInviteEmail, h.HandleInviteEmail)
	mux.HandleFunc(TypeInviteSweep, h.HandleInviteSweep)
}

// HandleInviteEmail delivers an invite link. Delivery is a structured log for
// now; the payload already carries everything a real mail provider would
// need, so swapping the log line for an SMTP or API call is a local change.
func (h *Handler) HandleInviteEmail(ctx context.Context, t *asynq.Task) error {
	var payload InviteEmailPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	// The invite may have been revoked between issue and delivery. Re-read it
	// and skip delivery rather than mailing a dead link.
	var invite models.Invite
	err := h.db.WithContext(ctx).First(&invite, "id = ?", payload.InviteID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			h.logger.Warn("invite disappeared before delivery, skipping",
				"invite_id", payload.InviteID,
			)
			return nil
		}
		return fmt.Errorf("loading invite %s: %w", payload.InviteID, err)
	}

	if !invite.IsValid(time.Now()) {
		h.logger.Info("invite no longer valid, skipping delivery",
			"invite_id", invite.ID,
			"state", invite.State(time.Now()),
		)
		return nil
	}

	link := fmt.Sprintf("%s/invites/accept?token=%s", h.baseURL, payload.Token)

	h.logger.Info("delivering invite email",
		"invite_id", payload.InviteID,
		"to", payload.Email,
		"role", payload.Role,
		"link", link,
		"expires_at", payload.ExpiresAt,
	)

	return nil
}

// HandleInviteSweep reports on pending invites that have aged past their
// expiry. Expiry itself is derived from expires_at at read time, so the
// sweep changes nothing; it exists to keep a trail in the logs.
func (h *Handler) HandleInviteSweep(ctx context.Context, t *asynq.Task) error {
	var expired int64
	err := h.db.WithContext(ctx).Model(&models.Invite{}).
		Where("used_at IS NULL AND revoked_at IS NULL AND expires_at <= ?", time.Now()).
		Count(&expired).Error
	if err != nil {
		return fmt.Errorf("counting expired invites: %w", err)
	}

	h.logger.Info("invite sweep complete", "expired_pending", expired)
	return nil
}
