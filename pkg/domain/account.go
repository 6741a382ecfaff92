package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MinOpeningBalance is the smallest balance an account may be opened with.
var MinOpeningBalance = decimal.NewFromInt(100)

// Account represents a user's bank account. The balance is a fixed-point
// decimal and is never negative after a committed operation. The number is
// the externally visible 6-digit account number, distinct from the ID.
type Account struct {
	ID        uuid.UUID
	Number    int
	UserID    uuid.UUID
	Balance   decimal.Decimal
	CreatedAt time.Time
}

// NewAccount creates an account for the given user with an opening balance.
// The account number is assigned by the store on insert.
func NewAccount(userID uuid.UUID, opening decimal.Decimal) (*Account, error) {
	if opening.IsNegative() {
		return nil, ErrInvalidAmount
	}
	if opening.LessThan(MinOpeningBalance) {
		return nil, ErrInitialBalanceTooLow
	}
	return &Account{
		ID:        uuid.New(),
		UserID:    userID,
		Balance:   opening,
		CreatedAt: time.Now(),
	}, nil
}
