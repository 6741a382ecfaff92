package domain

import (
	"time"

	"github.com/google/uuid"
)

// Role controls access to administrative operations.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// ValidRole reports whether r is a role the system knows about.
func ValidRole(r Role) bool {
	return r == RoleUser || r == RoleAdmin
}

// User is an identity that owns at most one account per the business rule
// observed in account opening.
type User struct {
	ID        uuid.UUID
	Username  string
	Email     string
	Password  string // bcrypt hash
	Role      Role
	CreatedAt time.Time
}

// NewUser creates a user with the default role. The password must already be
// hashed by the caller.
func NewUser(username, email, hashedPassword string) *User {
	return &User{
		ID:        uuid.New(),
		Username:  username,
		Email:     email,
		Password:  hashedPassword,
		Role:      RoleUser,
		CreatedAt: time.Now(),
	}
}
