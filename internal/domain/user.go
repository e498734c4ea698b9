package domain

import (
	"strings"
	"time"
)

type UserRole string

const (
	RoleGuest UserRole = "guest"
	RoleHost  UserRole = "host"
	RoleBoth  UserRole = "both"
)

func ParseUserRole(s string) (UserRole, bool) {
	switch UserRole(s) {
	case RoleGuest, RoleHost, RoleBoth:
		return UserRole(s), true
	default:
		return "", false
	}
}

// CanHost reports whether the role allows publishing listings.
func (r UserRole) CanHost() bool {
	return r == RoleHost || r == RoleBoth
}

type User struct {
	ID             int64      `json:"id"`
	Email          string     `json:"email"`
	Username       string     `json:"username"`
	PasswordHash   string     `json:"-"`
	Role           UserRole   `json:"role"`
	Phone          string     `json:"phone"`
	Bio            string     `json:"bio"`
	ProfilePicture string     `json:"profile_picture"`
	DateOfBirth    *time.Time `json:"date_of_birth,omitempty"`
	IsVerified     bool       `json:"is_verified"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Phone    string `json:"phone"`
	Bio      string `json:"bio"`
}

func (r *RegisterRequest) Normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Username = strings.TrimSpace(r.Username)
	r.Phone = strings.TrimSpace(r.Phone)
	if r.Role == "" {
		r.Role = string(RoleGuest)
	}
}

func (r *RegisterRequest) Validate() error {
	if r.Email == "" || !strings.Contains(r.Email, "@") {
		return Validationf("a valid email is required")
	}
	if r.Username == "" {
		return Validationf("username is required")
	}
	if len(r.Password) < 8 {
		return Validationf("password must be at least 8 characters")
	}
	if _, ok := ParseUserRole(r.Role); !ok {
		return Validationf("role must be 'guest', 'host' or 'both'")
	}
	return nil
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

func (r *LoginRequest) Validate() error {
	if r.Email == "" || r.Password == "" {
		return Validationf("email and password are required")
	}
	return nil
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	User        *User  `json:"user"`
}

// UserPatch updates profile metadata; nil fields are left untouched.
type UserPatch struct {
	Phone          *string `json:"phone,omitempty"`
	Bio            *string `json:"bio,omitempty"`
	ProfilePicture *string `json:"profile_picture,omitempty"`
	DateOfBirth    *string `json:"date_of_birth,omitempty"`
}
