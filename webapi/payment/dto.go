package payment

import "github.com/shopspring/decimal"

// DebitRequest is the request body for an outgoing payment.
type DebitRequest struct {
	Amount      decimal.Decimal `json:"amount" validate:"required"`
	Method      string          `json:"method" validate:"required,max=50"`
	Description string          `json:"description" validate:"max=255"`
}

// TransferRequest is the request body for a transfer to another account.
type TransferRequest struct {
	ReceiverAccountNumber int             `json:"receiverAccountNumber" validate:"required"`
	Amount                decimal.Decimal `json:"amount" validate:"required"`
	Method                string          `json:"method" validate:"required,max=50"`
	Description           string          `json:"description" validate:"max=255"`
}
