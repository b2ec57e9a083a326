package models

import "strings"

type UserRole string

const (
	RoleUser  UserRole = "USER"
	RoleAdmin UserRole = "ADMIN"
)

func (r UserRole) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin:
		return true
	}
	return false
}

type UserStatus string

const (
	StatusPending  UserStatus = "PENDING"
	StatusActive   UserStatus = "ACTIVE"
	StatusDisabled UserStatus = "DISABLED"
)

func (s UserStatus) Valid() bool {
	switch s {
	case StatusPending, StatusActive, StatusDisabled:
		return true
	}
	return false
}

// User is an account. Email uniqueness is case-insensitive: EmailKey holds the
// lowercased form and carries the unique index, while Email preserves the
// casing the user typed.
type User struct {
	Base
	Email       string     `gorm:"not null" json:"email"`
	EmailKey    string     `gorm:"uniqueIndex;not null" json:"-"`
	DisplayName string     `json:"display_name,omitempty"`
	Role        UserRole   `gorm:"type:varchar(16);not null" json:"role"`
	Status      UserStatus `gorm:"type:varchar(16);not null" json:"status"`
}

func (User) TableName() string {
	return "users"
}

func NewUser(email string, role UserRole, status UserStatus) *User {
	return &User{
		Email:    email,
		EmailKey: NormalizeEmail(email),
		Role:     role,
		Status:   status,
	}
}

// NormalizeEmail produces the case-folded lookup key for an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (u *User) SetEmail(email string) {
	u.Email = email
	u.EmailKey = NormalizeEmail(email)
	u.touch()
}

func (u *User) SetDisplayName(name string) {
	u.DisplayName = name
	u.touch()
}

func (u *User) SetRole(role UserRole) {
	u.Role = role
	u.touch()
}

func (u *User) SetStatus(status UserStatus) {
	u.Status = status
	u.touch()
}
