// Package invites owns the invitation lifecycle: issuance, lookup, atomic
// redemption, and revocation. The raw invite token is returned to the caller
// exactly once at issuance; only its salted hash is ever stored.
package invites

import (
	"context"
	"errors"
	"time"

	"github.com/echofinder/api/internal/apperr"
	"github.com/echofinder/api/internal/database/models"
	"github.com/echofinder/api/internal/security"
	"github.com/echofinder/api/internal/users"
	"github.com/echofinder/api/pkg/crypto"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrInviteNotFound  = apperr.NotFound("invite not found")
	ErrTokenHashExists = apperr.Conflict("an invite with this token already exists")
	ErrInviteNotValid  = apperr.Conflict("invite is no longer valid")
)

type Service struct {
	db     *gorm.DB
	hasher *security.TokenHasher
}

func NewService(db *gorm.DB, hasher *security.TokenHasher) *Service {
	return &Service{db: db, hasher: hasher}
}

type IssueInput struct {
	Email     string
	Role      models.UserRole
	InviterID uuid.UUID
	TTL       time.Duration
}

// Issue creates an invite and returns it together with the raw token. The
// token hash carries a unique index; a hash collision (astronomically unlikely
// with fresh random tokens, but possible if an operator re-issues a fixed
// token) surfaces as a conflict rather than overwriting the earlier invite.
func (s *Service) Issue(ctx context.Context, input IssueInput) (*models.Invite, string, error) {
	if input.Email == "" {
		return nil, "", apperr.Validation("email is required")
	}
	if !input.Role.Valid() {
		return nil, "", apperr.Validation("unknown role: " + string(input.Role))
	}
	if input.InviterID == uuid.Nil {
		return nil, "", apperr.Validation("inviter is required")
	}
	if input.TTL <= 0 {
		return nil, "", apperr.Validation("expiry must be in the future")
	}

	rawToken, err := crypto.NewToken()
	if err != nil {
		return nil, "", apperr.Internal("generating invite token", err)
	}

	tokenHash, err := s.hasher.Hash(rawToken)
	if err != nil {
		return nil, "", err
	}

	invite := models.NewInvite(input.Email, tokenHash, input.Role, input.InviterID, time.Now().Add(input.TTL))

	if err := s.db.WithContext(ctx).Create(invite).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, "", ErrTokenHashExists
		}
		return nil, "", apperr.Internal("creating invite", err)
	}

	return invite, rawToken, nil
}

// Lookup resolves a raw token to its invite. Callers decide what a non-valid
// invite means for them; Lookup itself only distinguishes known from unknown.
func (s *Service) Lookup(ctx context.Context, rawToken string) (*models.Invite, error) {
	tokenHash, err := s.hasher.Hash(rawToken)
	if err != nil {
		return nil, err
	}
	return s.getByTokenHash(ctx, tokenHash)
}

// Redeem consumes the invite identified by rawToken and provisions an active
// account with the invited role. The consume step is a single conditional
// update, so two concurrent redemptions of the same invite resolve to exactly
// one winner. A user-email conflict rolls the whole transaction back, leaving
// the invite unconsumed.
func (s *Service) Redeem(ctx context.Context, rawToken, displayName string) (*models.User, *models.Invite, error) {
	invite, err := s.Lookup(ctx, rawToken)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now()
	user := models.NewUser(invite.Email, invite.InvitedRole, models.StatusActive)
	user.DisplayName = displayName

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Invite{}).
			Where("id = ? AND used_at IS NULL AND revoked_at IS NULL AND expires_at > ?", invite.ID, now).
			Update("used_at", now)
		if res.Error != nil {
			return apperr.Internal("consuming invite", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrInviteNotValid
		}

		if err := tx.Create(user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return users.ErrEmailTaken
			}
			return apperr.Internal("creating user", err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	invite.UsedAt = &now
	return user, invite, nil
}

// Revoke cancels a pending invite. Revoking an invite that was already used
// is a no-op: the validity predicate is already false and the usedAt marker
// stays authoritative. Revoking twice is likewise a no-op.
func (s *Service) Revoke(ctx context.Context, id uuid.UUID) (*models.Invite, error) {
	invite, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if invite.UsedAt != nil || invite.RevokedAt != nil {
		return invite, nil
	}

	now := time.Now()
	res := s.db.WithContext(ctx).Model(&models.Invite{}).
		Where("id = ? AND used_at IS NULL AND revoked_at IS NULL", id).
		Update("revoked_at", now)
	if res.Error != nil {
		return nil, apperr.Internal("revoking invite", res.Error)
	}
	if res.RowsAffected == 0 {
		// Lost a race with a redemption or another revoke; re-read the truth.
		return s.Get(ctx, id)
	}

	invite.RevokedAt = &now
	return invite, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Invite, error) {
	var invite models.Invite
	if err := s.db.WithContext(ctx).First(&invite, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInviteNotFound
		}
		return nil, apperr.Internal("looking up invite", err)
	}
	return &invite, nil
}

func (s *Service) List(ctx context.Context, offset, limit int) ([]models.Invite, int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&models.Invite{}).Count(&total).Error; err != nil {
		return nil, 0, apperr.Internal("counting invites", err)
	}

	var list []models.Invite
	err := s.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&list).Error
	if err != nil {
		return nil, 0, apperr.Internal("listing invites", err)
	}

	return list, total, nil
}

func (s *Service) getByTokenHash(ctx context.Context, tokenHash string) (*models.Invite, error) {
	var invite models.Invite
	if err := s.db.WithContext(ctx).First(&invite, "token_hash = ?", tokenHash).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInviteNotFound
		}
		return nil, apperr.Internal("looking up invite", err)
	}
	return &invite, nil
}
