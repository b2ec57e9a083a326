package dto

import (
	"time"

	"github.com/echofinder/api/internal/api/validation"
	"github.com/echofinder/api/internal/database/models"
)

type IssueInviteRequest struct {
	Email          string `json:"email"`
	Role           string `json:"role"`
	ExpiresInHours int    `json:"expires_in_hours,omitempty"`
}

func (r IssueInviteRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Email == "" {
		errors["email"] = "Email is required"
	} else if !validation.IsValidEmail(r.Email) {
		errors["email"] = "Email format is invalid"
	}
	if r.Role == "" {
		errors["role"] = "Role is required"
	} else if !models.UserRole(r.Role).Valid() {
		errors["role"] = "Role must be USER or ADMIN"
	}
	if r.ExpiresInHours < 0 {
		errors["expires_in_hours"] = "Expiry must be positive"
	}

	return errors
}

type InviteResponse struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	InvitedRole string     `json:"invited_role"`
	InviterID   string     `json:"inviter_id"`
	State       string     `json:"state"`
	ExpiresAt   time.Time  `json:"expires_at"`
	UsedAt      *time.Time `json:"used_at,omitempty"`
	RevokedAt   *time.Time `json:"revoked_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

func NewInviteResponse(invite *models.Invite) InviteResponse {
	return InviteResponse{
		ID:          invite.ID.String(),
		Email:       invite.Email,
		InvitedRole: string(invite.InvitedRole),
		InviterID:   invite.InviterID.String(),
		State:       string(invite.State(time.Now())),
		ExpiresAt:   invite.ExpiresAt,
		UsedAt:      invite.UsedAt,
		RevokedAt:   invite.RevokedAt,
		CreatedAt:   invite.CreatedAt,
	}
}

// IssuedInviteResponse carries the raw token. It appears here and nowhere
// else; subsequent reads of the invite only ever expose the hash-derived
// metadata.
type IssuedInviteResponse struct {
	Invite InviteResponse `json:"invite"`
	Token  string         `json:"token"`
}

type ValidateInviteRequest struct {
	Token string `json:"token"`
}

func (r ValidateInviteRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Token == "" {
		errors["token"] = "Token is required"
	}

	return errors
}

type ValidateInviteResponse struct {
	Valid bool   `json:"valid"`
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
}

type AcceptInviteRequest struct {
	Token       string `json:"token"`
	DisplayName string `json:"display_name,omitempty"`
}

func (r AcceptInviteRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Token == "" {
		errors["token"] = "Token is required"
	}
	if len(r.DisplayName) > 120 {
		errors["display_name"] = "Display name must be at most 120 characters"
	}

	return errors
}

type AcceptInviteResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}
