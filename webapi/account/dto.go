package account

import "github.com/shopspring/decimal"

// OpenAccountRequest is the request body for opening an account.
type OpenAccountRequest struct {
	OpeningBalance decimal.Decimal `json:"openingBalance" validate:"required"`
}
