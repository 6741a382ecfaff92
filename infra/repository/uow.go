// Package repository implements the pkg/repository contracts on GORM.
package repository

import (
	"context"

	accountrepo "github.com/gobank/core/infra/repository/account"
	paymentrepo "github.com/gobank/core/infra/repository/payment"
	userrepo "github.com/gobank/core/infra/repository/user"
	"github.com/gobank/core/pkg/repository"
	"gorm.io/gorm"
)

// UoW provides the transaction boundary and repository access in one
// abstraction. Every repository obtained inside Do is bound to the same DB
// transaction, which is what makes a debit, a credit and the payment insert
// a single atomic unit.
type UoW struct {
	db *gorm.DB
	tx *gorm.DB
}

// NewUoW creates a new UoW for the given *gorm.DB.
func NewUoW(db *gorm.DB) *UoW {
	return &UoW{db: db}
}

// Do runs fn inside one database transaction. A returned error, a panic, or
// context cancellation rolls the transaction back; otherwise it commits.
// A nested Do joins the open transaction through a savepoint.
func (u *UoW) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	return u.session().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&UoW{db: u.db, tx: tx})
	})
}

// session returns the transaction if one is open, else the root connection.
func (u *UoW) session() *gorm.DB {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}

// AccountRepository returns the account store bound to the current session.
func (u *UoW) AccountRepository() (repository.AccountRepository, error) {
	return accountrepo.New(u.session()), nil
}

// PaymentRepository returns the payment store bound to the current session.
func (u *UoW) PaymentRepository() (repository.PaymentRepository, error) {
	return paymentrepo.New(u.session()), nil
}

// UserRepository returns the user store bound to the current session.
func (u *UoW) UserRepository() (repository.UserRepository, error) {
	return userrepo.New(u.session()), nil
}

var _ repository.UnitOfWork = (*UoW)(nil)
