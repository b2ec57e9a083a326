package users

import (
	"context"

	"github.com/echofinder/api/internal/database/models"
	"github.com/google/uuid"
)

// Directory defines the interface for account lookup and mutation.
type Directory interface {
	Create(ctx context.Context, input CreateInput) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, offset, limit int) ([]models.User, int64, error)
	UpdateRole(ctx context.Context, id uuid.UUID, role models.UserRole) (*models.User, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.UserStatus) (*models.User, error)
	UpdateDisplayName(ctx context.Context, id uuid.UUID, name string) (*models.User, error)
}

// Compile-time interface satisfaction check
var _ Directory = (*Service)(nil)
