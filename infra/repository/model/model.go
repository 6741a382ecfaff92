// Package model holds the GORM persistence models. They are never exposed
// above the repository layer; queries map them into pkg/dto projections.
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// User represents a user record in the database.
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Username  string    `gorm:"uniqueIndex;not null;size:50"`
	Email     string    `gorm:"uniqueIndex;not null;size:255"`
	Password  string    `gorm:"not null"`
	Role      string    `gorm:"type:varchar(16);not null;default:'user'"`
	Verified  bool      `gorm:"not null;default:false"`
	CreatedAt time.Time
}

// Account represents an account record. The account number carries a unique
// index and is immutable once assigned; the unique index on user_id is what
// makes "one account per user" hold under concurrent opens, not the
// read-before-insert check in the service. The balance column is guarded by
// the conditional update in the account repository and never goes negative.
type Account struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Number    int             `gorm:"column:account_number;uniqueIndex;not null"`
	UserID    uuid.UUID       `gorm:"type:uuid;uniqueIndex;not null"`
	Balance   decimal.Decimal `gorm:"type:decimal(20,2);not null"`
	CreatedAt time.Time
}

// Payment is append-only; rows are inserted complete and never updated.
// The reference number's unique index enforces reconciliation uniqueness.
type Payment struct {
	ID                uuid.UUID  `gorm:"type:uuid;primaryKey"`
	AccountID         uuid.UUID  `gorm:"type:uuid;index;not null"`
	ReceiverAccountID *uuid.UUID `gorm:"type:uuid;index"`
	Amount            decimal.Decimal `gorm:"type:decimal(20,2);not null"`
	Kind              string          `gorm:"type:varchar(16);not null"`
	Description       string
	Method            string `gorm:"type:varchar(64)"`
	Status            string `gorm:"type:varchar(16);not null"`
	ReferenceNumber   int    `gorm:"uniqueIndex;not null"`
	CreatedAt         time.Time
}
