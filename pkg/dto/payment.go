package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentRead is the fixed projection returned for debit history queries and
// as the result of a committed ledger operation.
type PaymentRead struct {
	ID                uuid.UUID  `json:"id"`
	AccountID         uuid.UUID  `json:"accountId"`
	ReceiverAccountID *uuid.UUID `json:"receiverAccountId,omitempty"`

	Amount          decimal.Decimal `json:"amount"`
	Kind            string          `json:"kind"`
	Description     string          `json:"description"`
	Method          string          `json:"method"`
	Status          string          `json:"status"`
	ReferenceNumber int             `json:"referenceNumber"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// TransferRead joins a transfer record with the receiving account, replacing
// the ad-hoc anonymous projections of the query layer with one typed shape.
type TransferRead struct {
	ID              uuid.UUID       `json:"id"`
	AccountID       uuid.UUID       `json:"accountId"`
	ReceiverNumber  int             `json:"receiverAccountNumber"`
	Amount          decimal.Decimal `json:"amount"`
	Description     string          `json:"description"`
	Method          string          `json:"method"`
	Status          string          `json:"status"`
	ReferenceNumber int             `json:"referenceNumber"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// PaymentCreate carries a complete, immutable payment record into the store.
// It is only ever built by the ledger coordinator inside an atomic scope.
type PaymentCreate struct {
	ID                uuid.UUID
	AccountID         uuid.UUID
	ReceiverAccountID *uuid.UUID
	Amount            decimal.Decimal
	Kind              string
	Description       string
	Method            string
	Status            string
	ReferenceNumber   int
}
