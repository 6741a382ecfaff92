package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentKind distinguishes a single-account debit from a two-account transfer.
type PaymentKind string

const (
	KindPayment  PaymentKind = "payment"
	KindTransfer PaymentKind = "transfer"
)

// PaymentStatus is fixed at creation time. A completed payment's balance
// effect has been durably committed in the same atomic unit.
type PaymentStatus string

const (
	StatusCompleted PaymentStatus = "completed"
	StatusFailed    PaymentStatus = "failed"
)

// Payment is an append-only record of a debit or transfer. ReceiverAccountID
// is nil for plain debits. The reference number is a 6-digit identifier for
// reconciliation and display, unique across all payments.
type Payment struct {
	ID                uuid.UUID
	AccountID         uuid.UUID
	ReceiverAccountID *uuid.UUID
	Amount            decimal.Decimal
	Kind              PaymentKind
	Description       string
	Method            string
	Status            PaymentStatus
	ReferenceNumber   int
	CreatedAt         time.Time
}

// NewDebit builds a completed debit record against a single account.
func NewDebit(accountID uuid.UUID, amount decimal.Decimal, method, description string, reference int) (*Payment, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	return &Payment{
		ID:              uuid.New(),
		AccountID:       accountID,
		Amount:          amount,
		Kind:            KindPayment,
		Description:     description,
		Method:          method,
		Status:          StatusCompleted,
		ReferenceNumber: reference,
		CreatedAt:       time.Now(),
	}, nil
}

// NewTransfer builds a completed transfer record spanning two accounts.
func NewTransfer(sourceID, receiverID uuid.UUID, amount decimal.Decimal, method, description string, reference int) (*Payment, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if sourceID == receiverID {
		return nil, ErrSelfTransfer
	}
	recv := receiverID
	return &Payment{
		ID:                uuid.New(),
		AccountID:         sourceID,
		ReceiverAccountID: &recv,
		Amount:            amount,
		Kind:              KindTransfer,
		Description:       description,
		Method:            method,
		Status:            StatusCompleted,
		ReferenceNumber:   reference,
		CreatedAt:         time.Now(),
	}, nil
}
