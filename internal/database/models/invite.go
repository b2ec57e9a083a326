package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InviteState is the derived lifecycle state of an invite. Used and revoked are
// stored markers; expired is computed from the clock at query time.
type InviteState string

const (
	InvitePending InviteState = "PENDING"
	InviteUsed    InviteState = "USED"
	InviteRevoked InviteState = "REVOKED"
	InviteExpired InviteState = "EXPIRED"
)

// Invite is a pending invitation to create an account. Only the hash of the
// invite token is stored; the raw token exists solely in the invite link.
type Invite struct {
	ID          uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	Email       string     `gorm:"not null" json:"email"`
	TokenHash   string     `gorm:"uniqueIndex;not null" json:"-"`
	InvitedRole UserRole   `gorm:"type:varchar(16);not null" json:"invited_role"`
	InviterID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"inviter_id"`
	ExpiresAt   time.Time  `gorm:"not null" json:"expires_at"`
	UsedAt      *time.Time `json:"used_at,omitempty"`
	RevokedAt   *time.Time `json:"revoked_at,omitempty"`
	CreatedAt   time.Time  `gorm:"not null" json:"created_at"`

	Inviter *User `gorm:"foreignKey:InviterID" json:"-"`
}

func (Invite) TableName() string {
	return "invites"
}

func NewInvite(email, tokenHash string, role UserRole, inviterID uuid.UUID, expiresAt time.Time) *Invite {
	return &Invite{
		Email:       email,
		TokenHash:   tokenHash,
		InvitedRole: role,
		InviterID:   inviterID,
		ExpiresAt:   expiresAt,
	}
}

func (i *Invite) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// IsValid reports whether the invite can still be redeemed: not used, not
// revoked, not expired. Re-evaluated on every call since expiry depends on the
// clock.
func (i *Invite) IsValid(now time.Time) bool {
	return i.UsedAt == nil && i.RevokedAt == nil && i.ExpiresAt.After(now)
}

// State derives the lifecycle state at the given instant. Used and revoked
// take precedence over expiry so an invite that was consumed and later passed
// its expiry still reads as USED.
func (i *Invite) State(now time.Time) InviteState {
	switch {
	case i.UsedAt != nil:
		return InviteUsed
	case i.RevokedAt != nil:
		return InviteRevoked
	case !i.ExpiresAt.After(now):
		return InviteExpired
	}
	return InvitePending
}
