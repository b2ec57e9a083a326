package invites

import (
	"context"

	"github.com/echofinder/api/internal/database/models"
	"github.com/google/uuid"
)

// Issuer defines the interface for the invitation lifecycle.
type Issuer interface {
	Issue(ctx context.Context, input IssueInput) (*models.Invite, string, error)
	Lookup(ctx context.Context, rawToken string) (*models.Invite, error)
	Redeem(ctx context.Context, rawToken, displayName string) (*models.User, *models.Invite, error)
	Revoke(ctx context.Context, id uuid.UUID) (*models.Invite, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Invite, error)
	List(ctx context.Context, offset, limit int) ([]models.Invite, int64, error)
}

// Compile-time interface satisfaction check
var _ Issuer = (*Service)(nil)
