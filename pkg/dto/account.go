package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountRead is a read-optimized projection for account queries and API
// responses. Each store query commits to this fixed shape; nothing is
// inspected by field name at runtime.
type AccountRead struct {
	ID        uuid.UUID       `json:"id"`
	Number    int             `json:"accountNumber"`
	UserID    uuid.UUID       `json:"userId"`
	Balance   decimal.Decimal `json:"balance"`
	CreatedAt time.Time       `json:"createdAt"`
}

// AccountCreate carries the fields needed to insert a new account. The
// account number is assigned by the store.
type AccountCreate struct {
	ID      uuid.UUID
	UserID  uuid.UUID
	Balance decimal.Decimal
}

// AccountOwnerRead joins an account with its owner's contact details, used by
// the admin listing and account detail views.
type AccountOwnerRead struct {
	ID        uuid.UUID       `json:"id"`
	Number    int             `json:"accountNumber"`
	Balance   decimal.Decimal `json:"balance"`
	CreatedAt time.Time       `json:"createdAt"`
	Username  string          `json:"username"`
	Email     string          `json:"email"`
}
