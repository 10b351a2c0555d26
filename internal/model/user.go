package model

import (
	"fmt"

	"github.com/google/uuid"
)

// Role is the fixed set of actor roles. Capability checks switch over it
// exhaustively; handlers never compare raw strings.
type Role string

const (
	RoleCustomer Role = "CUSTOMER"
	RoleStaff    Role = "STAFF"
	RoleAdmin    Role = "ADMIN"
)

// ParseRole validates a role string from external input.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleCustomer, RoleStaff, RoleAdmin:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// IsStaff reports whether the role carries staff-level access.
func (r Role) IsStaff() bool {
	return r == RoleStaff || r == RoleAdmin
}

// Actor is the authenticated identity attached to every request.
type Actor struct {
	ID   uuid.UUID
	Role Role
}

// User represents a system user
type User struct {
	Base
	Email        string  `json:"email" db:"email"`
	FirstName    string  `json:"first_name" db:"first_name"`
	LastName     string  `json:"last_name" db:"last_name"`
	Phone        *string `json:"phone,omitempty" db:"phone"`
	Role         Role    `json:"role" db:"role"`
	IsActive     bool    `json:"is_active" db:"is_active"`
	PasswordHash string  `json:"-" db:"password_hash"`
}

// Summary is the customer-facing projection embedded in order responses.
func (u *User) Summary() *UserSummary {
	return &UserSummary{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Phone:     u.Phone,
	}
}

// UserSummary is a reduced user view without role or account state.
type UserSummary struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Phone     *string   `json:"phone,omitempty"`
}

// UserFilter represents user search parameters
type UserFilter struct {
	Pagination
	Role       string `form:"role"`
	SearchTerm string `form:"search"`
}

// UpdateRoleRequest sets a user's role. Admin only.
type UpdateRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=CUSTOMER STAFF ADMIN"`
}
