// Package users owns account provisioning and mutation. Entities never reach
// the database without going through here, which is where the lifecycle rules
// (updatedAt refresh, uniqueness conflicts) are enforced.
package users

import (
	"context"
	"errors"

	"github.com/echofinder/api/internal/apperr"
	"github.com/echofinder/api/internal/database/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound = apperr.NotFound("user not found")
	ErrEmailTaken   = apperr.Conflict("email address is already in use")
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

type CreateInput struct {
	Email       string
	DisplayName string
	Role        models.UserRole
	Status      models.UserStatus
}

// Create provisions a new account. Email uniqueness is case-insensitive and
// enforced by the unique index on the normalized key; a violation surfaces as
// ErrEmailTaken rather than being pre-checked, so concurrent registrations
// serialize on the constraint.
func (s *Service) Create(ctx context.Context, input CreateInput) (*models.User, error) {
	if input.Email == "" {
		return nil, apperr.Validation("email is required")
	}
	if !input.Role.Valid() {
		return nil, apperr.Validation("unknown role: " + string(input.Role))
	}
	if !input.Status.Valid() {
		return nil, apperr.Validation("unknown status: " + string(input.Status))
	}

	user := models.NewUser(input.Email, input.Role, input.Status)
	user.DisplayName = input.DisplayName

	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, apperr.Internal("creating user", err)
	}

	return user, nil
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, apperr.Internal("looking up user", err)
	}
	return &user, nil
}

// GetByEmail matches case-insensitively against the normalized key.
func (s *Service) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	key := models.NormalizeEmail(email)
	if err := s.db.WithContext(ctx).First(&user, "email_key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, apperr.Internal("looking up user", err)
	}
	return &user, nil
}

func (s *Service) List(ctx context.Context, offset, limit int) ([]models.User, int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, 0, apperr.Internal("counting users", err)
	}

	var list []models.User
	err := s.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&list).Error
	if err != nil {
		return nil, 0, apperr.Internal("listing users", err)
	}

	return list, total, nil
}

func (s *Service) UpdateRole(ctx context.Context, id uuid.UUID, role models.UserRole) (*models.User, error) {
	if !role.Valid() {
		return nil, apperr.Validation("unknown role: " + string(role))
	}
	return s.mutate(ctx, id, func(u *models.User) { u.SetRole(role) })
}

func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status models.UserStatus) (*models.User, error) {
	if !status.Valid() {
		return nil, apperr.Validation("unknown status: " + string(status))
	}
	return s.mutate(ctx, id, func(u *models.User) { u.SetStatus(status) })
}

func (s *Service) UpdateDisplayName(ctx context.Context, id uuid.UUID, name string) (*models.User, error) {
	return s.mutate(ctx, id, func(u *models.User) { u.SetDisplayName(name) })
}

func (s *Service) mutate(ctx context.Context, id uuid.UUID, apply func(*models.User)) (*models.User, error) {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	apply(user)

	if err := s.db.WithContext(ctx).Save(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, apperr.Internal("saving user", err)
	}
	return user, nil
}
