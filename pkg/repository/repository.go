// Package repository defines the store contracts the services and the ledger
// coordinator depend on. Implementations live under infra/repository; every
// query commits to a fixed projection struct from pkg/dto.
package repository

import (
	"context"

	"github.com/gobank/core/pkg/dto"
	"github.com/gobank/core/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountRepository owns account records and their balances.
//
// AdjustBalance is the only mutation entry point for balances. It applies the
// delta atomically with the sufficiency check; no read-then-write window is
// visible to other operations on the same account.
type AccountRepository interface {
	// Create inserts the account and assigns its number. The store enforces
	// at most one account per user; a second insert for the same user fails
	// with domain.ErrAlreadyExists even when a concurrent existence check
	// saw nothing.
	Create(ctx context.Context, create dto.AccountCreate) (*dto.AccountRead, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.AccountRead, error)
	GetByUser(ctx context.Context, userID uuid.UUID) (*dto.AccountRead, error)
	GetByNumber(ctx context.Context, number int) (*dto.AccountRead, error)

	// GetForUpdate reads an account under a row lock. Only valid inside an
	// atomic scope; callers locking two accounts must lock in ascending ID
	// order.
	GetForUpdate(ctx context.Context, id uuid.UUID) (*dto.AccountRead, error)
	GetByNumberForUpdate(ctx context.Context, number int) (*dto.AccountRead, error)

	// AdjustBalance applies delta (negative for debits) and fails with
	// domain.ErrInsufficientFunds if the result would be negative.
	AdjustBalance(ctx context.Context, id uuid.UUID, delta decimal.Decimal) error

	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params pagination.Params) ([]*dto.AccountRead, int64, error)
}

// PaymentRepository is the append-only store of payment history. Records are
// never mutated after creation.
type PaymentRepository interface {
	Create(ctx context.Context, create dto.PaymentCreate) error
	Get(ctx context.Context, id uuid.UUID) (*dto.PaymentRead, error)
	ListByAccount(ctx context.Context, accountID uuid.UUID, params pagination.Params) ([]*dto.PaymentRead, int64, error)
	ListTransfersByAccount(ctx context.Context, accountID uuid.UUID, params pagination.Params) ([]*dto.TransferRead, int64, error)
	ListAll(ctx context.Context, params pagination.Params) ([]*dto.PaymentRead, int64, error)
	ListAllTransfers(ctx context.Context, params pagination.Params) ([]*dto.TransferRead, int64, error)
}

// UserRepository owns identity records.
type UserRepository interface {
	Create(ctx context.Context, create dto.UserCreate, hashedPassword string) (*dto.UserRead, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.UserRead, error)
	GetByIdentity(ctx context.Context, identity string) (*dto.UserRead, error)
	// GetCredentials returns the stored password hash for login checks.
	GetCredentials(ctx context.Context, identity string) (*dto.UserRead, string, error)
	Update(ctx context.Context, id uuid.UUID, update dto.UserUpdate) error
	ListByRole(ctx context.Context, role string, params pagination.Params) ([]*dto.UserRead, int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
