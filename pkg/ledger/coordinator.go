// Package ledger implements the transaction coordinator: the single
// component allowed to move money. Each operation runs as one atomic scope
// spanning the account store and the payment store; on any failure the scope
// rolls back and no partial state is visible.
package ledger

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gobank/core/pkg/config"
	"github.com/gobank/core/pkg/domain"
	"github.com/gobank/core/pkg/dto"
	"github.com/gobank/core/pkg/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Coordinator executes debits and transfers as all-or-nothing units with
// serializable behavior per account. Transient conflicts are retried a
// bounded number of times with fresh state before surfacing ErrConflict.
type Coordinator struct {
	uow          repository.UnitOfWork
	logger       *slog.Logger
	maxRetries   int
	maxRefDraws  int
	newReference func() (int, error)
}

// New creates a Coordinator bound to the given unit of work.
func New(uow repository.UnitOfWork, cfg config.LedgerConfig, logger *slog.Logger) *Coordinator {
	maxRetries := cfg.MaxRetries
	if maxRetries < 1 {
		maxRetries = 1
	}
	maxRefDraws := cfg.MaxReferenceAttempts
	if maxRefDraws < 1 {
		maxRefDraws = 1
	}
	return &Coordinator{
		uow:          uow,
		logger:       logger.With("component", "ledger"),
		maxRetries:   maxRetries,
		maxRefDraws:  maxRefDraws,
		newReference: RandomReference,
	}
}

// Debit removes amount from a single account and records a completed payment
// with no receiver. Validation failures are detected before any state is
// touched; in-scope failures roll the whole unit back.
func (c *Coordinator) Debit(
	ctx context.Context,
	accountID uuid.UUID,
	amount decimal.Decimal,
	method, description string,
) (*dto.PaymentRead, error) {
	if !amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}
	logger := c.logger.With("op", "debit", "accountID", accountID, "amount", amount)

	var rec *domain.Payment
	err := c.withRetries(ctx, logger, func() error {
		return c.uow.Do(ctx, func(uow repository.UnitOfWork) error {
			accounts, err := uow.AccountRepository()
			if err != nil {
				return err
			}
			payments, err := uow.PaymentRepository()
			if err != nil {
				return err
			}

			acct, err := accounts.GetForUpdate(ctx, accountID)
			if err != nil {
				return err
			}
			if err := accounts.AdjustBalance(ctx, acct.ID, amount.Neg()); err != nil {
				return err
			}

			ref, err := c.drawReference()
			if err != nil {
				return err
			}
			rec, err = domain.NewDebit(acct.ID, amount, method, description, ref)
			if err != nil {
				return err
			}
			return payments.Create(ctx, paymentCreate(rec))
		})
	})
	if err != nil {
		logger.Error("debit failed", "error", err)
		return nil, err
	}
	logger.Info("debit committed", "reference", rec.ReferenceNumber)
	return paymentRead(rec), nil
}

// Transfer moves amount from the source account to the account identified by
// receiverNumber. The debit and credit both succeed or neither takes effect.
// Both rows are locked in ascending ID order so two opposite transfers
// between the same pair cannot deadlock.
func (c *Coordinator) Transfer(
	ctx context.Context,
	sourceID uuid.UUID,
	receiverNumber int,
	amount decimal.Decimal,
	method, description string,
) (*dto.PaymentRead, error) {
	if !amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}
	logger := c.logger.With(
		"op", "transfer",
		"sourceID", sourceID,
		"receiverNumber", receiverNumber,
		"amount", amount,
	)

	var rec *domain.Payment
	err := c.withRetries(ctx, logger, func() error {
		return c.uow.Do(ctx, func(uow repository.UnitOfWork) error {
			accounts, err := uow.AccountRepository()
			if err != nil {
				return err
			}
			payments, err := uow.PaymentRepository()
			if err != nil {
				return err
			}

			src, err := accounts.Get(ctx, sourceID)
			if err != nil {
				return err
			}
			recv, err := accounts.GetByNumber(ctx, receiverNumber)
			if err != nil {
				if errors.Is(err, domain.ErrAccountNotFound) {
					return domain.ErrReceiverNotFound
				}
				return err
			}
			if src.ID == recv.ID {
				return domain.ErrSelfTransfer
			}

			// Row locks in a fixed global order.
			if err := lockPair(ctx, accounts, src.ID, recv.ID); err != nil {
				return err
			}
			if err := accounts.AdjustBalance(ctx, src.ID, amount.Neg()); err != nil {
				return err
			}
			if err := accounts.AdjustBalance(ctx, recv.ID, amount); err != nil {
				return err
			}

			ref, err := c.drawReference()
			if err != nil {
				return err
			}
			rec, err = domain.NewTransfer(src.ID, recv.ID, amount, method, description, ref)
			if err != nil {
				return err
			}
			return payments.Create(ctx, paymentCreate(rec))
		})
	})
	if err != nil {
		logger.Error("transfer failed", "error", err)
		return nil, err
	}
	logger.Info("transfer committed", "reference", rec.ReferenceNumber)
	return paymentRead(rec), nil
}

// withRetries reruns fn on transient failures, re-reading fresh state each
// attempt. Serialization conflicts are bounded by maxRetries, reference
// collisions by maxRefDraws; each rerun draws a new reference. Validation and
// storage errors pass through untouched.
func (c *Coordinator) withRetries(ctx context.Context, logger *slog.Logger, fn func() error) error {
	conflicts, refDraws := 0, 0
	for {
		err := fn()
		switch {
		case err == nil:
			return nil
		case errors.Is(err, domain.ErrDuplicateReference):
			refDraws++
			if refDraws >= c.maxRefDraws {
				return fmt.Errorf("%w: %v", domain.ErrConflict, err)
			}
		case errors.Is(err, domain.ErrConflict):
			conflicts++
			if conflicts >= c.maxRetries {
				return fmt.Errorf("%w: %v", domain.ErrConflict, err)
			}
		default:
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		logger.Warn("retrying after conflict",
			"conflicts", conflicts, "referenceDraws", refDraws, "error", err)
	}
}

// drawReference produces a candidate reference number. The store's unique
// index has the final say; a duplicate-key insert comes back as
// ErrDuplicateReference and reruns the whole scope with a fresh draw.
func (c *Coordinator) drawReference() (int, error) {
	return c.newReference()
}

// lockPair acquires row locks on both accounts in ascending ID order.
func lockPair(ctx context.Context, accounts repository.AccountRepository, a, b uuid.UUID) error {
	first, second := a, b
	if bytes.Compare(b[:], a[:]) < 0 {
		first, second = b, a
	}
	if _, err := accounts.GetForUpdate(ctx, first); err != nil {
		return err
	}
	_, err := accounts.GetForUpdate(ctx, second)
	return err
}

func paymentCreate(p *domain.Payment) dto.PaymentCreate {
	return dto.PaymentCreate{
		ID:                p.ID,
		AccountID:         p.AccountID,
		ReceiverAccountID: p.ReceiverAccountID,
		Amount:            p.Amount,
		Kind:              string(p.Kind),
		Description:       p.Description,
		Method:            p.Method,
		Status:            string(p.Status),
		ReferenceNumber:   p.ReferenceNumber,
	}
}

func paymentRead(p *domain.Payment) *dto.PaymentRead {
	return &dto.PaymentRead{
		ID:                p.ID,
		AccountID:         p.AccountID,
		ReceiverAccountID: p.ReceiverAccountID,

		Amount:          p.Amount,
		Kind:            string(p.Kind),
		Description:     p.Description,
		Method:          p.Method,
		Status:          string(p.Status),
		ReferenceNumber: p.ReferenceNumber,
		CreatedAt:       p.CreatedAt,
	}
}
