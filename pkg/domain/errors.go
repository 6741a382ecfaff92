package domain

import "errors"

// Common domain errors
var (
	// ErrNotFound is returned when a requested resource is not found.
	ErrNotFound = errors.New("resource not found")
	// ErrAlreadyExists is returned when trying to create a resource that already exists.
	ErrAlreadyExists = errors.New("resource already exists")
	// ErrValidation is returned when input validation fails.
	ErrValidation = errors.New("validation error")
	// ErrUnauthorized is returned when a user is not authenticated.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden is returned when a user is not allowed to perform an action.
	ErrForbidden = errors.New("forbidden")
)

// Ledger errors
var (
	// ErrAccountNotFound is returned when the source account cannot be found.
	ErrAccountNotFound = errors.New("account not found")

	// ErrReceiverNotFound is returned when the receiving account of a transfer
	// cannot be resolved by its account number.
	ErrReceiverNotFound = errors.New("receiver account not found")

	// ErrInvalidAmount is returned when a payment or transfer amount is not positive.
	ErrInvalidAmount = errors.New("amount must be greater than zero")

	// ErrInsufficientFunds is returned when a debit would drive the balance below zero.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrSelfTransfer is returned when a transfer names the sender's own account
	// as the receiver.
	ErrSelfTransfer = errors.New("cannot transfer to own account")

	// ErrConflict is returned when a concurrent-modification conflict persists
	// after bounded retries. The whole operation is safe to retry.
	ErrConflict = errors.New("concurrent modification conflict")

	// ErrDuplicateReference is returned by the payment store when the generated
	// reference number collides with an existing record.
	ErrDuplicateReference = errors.New("duplicate payment reference number")
)

// Account lifecycle errors
var (
	// ErrInitialBalanceTooLow is returned when an account is opened with less
	// than the configured minimum balance.
	ErrInitialBalanceTooLow = errors.New("initial balance below required minimum")

	// ErrBalanceNotZero is returned when deleting an account that still holds funds.
	ErrBalanceNotZero = errors.New("account balance must be zero before deletion")

	// ErrUserHasAccount is returned when deleting a user who still holds an
	// open account.
	ErrUserHasAccount = errors.New("user still holds an open account")
)
