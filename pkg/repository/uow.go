package repository

import "context"

// UnitOfWork is the atomic scope handle. Do runs fn inside one transaction
// boundary; every repository obtained from the passed UnitOfWork shares that
// transaction's session, so a debit, a credit and the payment insert either
// all commit or none do. If fn returns an error, or the context is cancelled,
// the transaction is rolled back on every exit path.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(uow UnitOfWork) error) error

	AccountRepository() (AccountRepository, error)
	PaymentRepository() (PaymentRepository, error)
	UserRepository() (UserRepository, error)
}
