package dto

import (
	"time"

	"github.com/google/uuid"
)

// UserRead is a safe projection of a user record; it never carries the
// password hash.
type UserRead struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Verified  bool      `json:"verified"`
	CreatedAt time.Time `json:"createdAt"`
}

// UserCreate represents the data needed to register a new user.
type UserCreate struct {
	ID       uuid.UUID
	Username string `validate:"required,min=3,max=50"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6"`
}

// UserUpdate is a partial update; nil fields are left untouched. Password
// carries an already-hashed value.
type UserUpdate struct {
	Email    *string
	Role     *string
	Password *string
	Verified *bool
}
