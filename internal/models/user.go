package models

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

// UserRole is the closed set of roles in the system. Role checks go through
// exhaustive switches, never substring comparison.
type UserRole string

const (
	UserRoleUser       UserRole = "user"
	UserRoleAdmin      UserRole = "admin"
	UserRoleSuperAdmin UserRole = "super_admin"
)

// User represents a user in the system
type User struct {
	ID           int       `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	FirstName    string    `json:"first_name" db:"first_name"`
	LastName     string    `json:"last_name" db:"last_name"`
	Role         UserRole  `json:"role" db:"role"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// UserCreateRequest represents the data needed to create a new user
type UserCreateRequest struct {
	Email     string   `json:"email"`
	Password  string   `json:"password"`
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	Role      UserRole `json:"role"`
}

var userEmailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// IsValid reports whether the role is one of the known roles.
func (r UserRole) IsValid() bool {
	switch r {
	case UserRoleUser, UserRoleAdmin, UserRoleSuperAdmin:
		return true
	default:
		return false
	}
}

// IsAdmin returns true for the administrative roles.
func (r UserRole) IsAdmin() bool {
	switch r {
	case UserRoleAdmin, UserRoleSuperAdmin:
		return true
	case UserRoleUser:
		return false
	default:
		return false
	}
}

// Validate validates user creation data
func (req *UserCreateRequest) Validate() error {
	if req.Email == "" {
		return errors.New("email is required")
	}
	if !userEmailRegex.MatchString(req.Email) {
		return errors.New("email format is invalid")
	}
	if len(req.Password) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	if strings.TrimSpace(req.FirstName) == "" {
		return errors.New("first name is required")
	}
	if !req.Role.IsValid() {
		return errors.New("invalid user role")
	}
	return nil
}

// FullName returns the user's display name
func (u *User) FullName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Email
	}
	return name
}
