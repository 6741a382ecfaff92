// Package events defines the domain events emitted after a ledger operation
// commits. Handlers run outside the atomic unit; their failure never rolls
// back the financial mutation.
package events

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	// PaymentCompletedType identifies a committed debit or transfer.
	PaymentCompletedType = "payment.completed"
)

// PaymentCompleted is emitted once per committed Coordinator invocation.
type PaymentCompleted struct {
	PaymentID         uuid.UUID
	AccountID         uuid.UUID
	ReceiverAccountID *uuid.UUID
	UserID            uuid.UUID
	Amount            decimal.Decimal
	Kind              string
	ReferenceNumber   int
}

// Type implements eventbus.Event.
func (PaymentCompleted) Type() string { return PaymentCompletedType }
