package tasks

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// Task type names
const (
	TypeInviteEmail = "mail:invite_email"
	TypeInviteSweep = "invites:sweep"
)

// InviteEmailPayload carries everything the mailer needs to deliver an
// invite. The raw token lives only here and in the issue response; it is
// never persisted.
type InviteEmailPayload struct {
	InviteID  uuid.UUID `json:"invite_id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

func NewInviteEmailTask(payload InviteEmailPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeInviteEmail, data), nil
}

// InviteSweepPayload is empty - the sweep reports on all expired invites.
type InviteSweepPayload struct{}

func NewInviteSweepTask() *asynq.Task {
	return asynq.NewTask(TypeInviteSweep, nil)
}

// inviteSweepSpec is how often the scheduler enqueues the sweep.
const inviteSweepSpec = "@every 1h"

// RegisterPeriodicTasks adds the recurring entries to the scheduler. The
// worker starts the scheduler next to the task server so a single process
// both enqueues and handles the sweep.
func RegisterPeriodicTasks(s *asynq.Scheduler) error {
	if _, err := s.Register(inviteSweepSpec, NewInviteSweepTask()); err != nil {
		return fmt.Errorf("registering invite sweep: %w", err)
	}
	return nil
}
