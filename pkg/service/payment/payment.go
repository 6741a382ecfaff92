// Package payment provides the use-case layer over the ledger coordinator.
// It resolves the caller's identity to an account, performs the validation
// that needs no locking, and translates coordinator outcomes for the
// surrounding application. It never touches storage directly.
package payment

import (
	"context"
	"log/slog"

	"github.com/gobank/core/pkg/domain"
	"github.com/gobank/core/pkg/domain/events"
	"github.com/gobank/core/pkg/dto"
	"github.com/gobank/core/pkg/eventbus"
	"github.com/gobank/core/pkg/ledger"
	"github.com/gobank/core/pkg/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Service executes debit and transfer use cases on behalf of a user.
type Service struct {
	uow         repository.UnitOfWork
	coordinator *ledger.Coordinator
	bus         eventbus.Bus
	logger      *slog.Logger
}

// New creates the payment service.
func New(uow repository.UnitOfWork, coordinator *ledger.Coordinator, bus eventbus.Bus, logger *slog.Logger) *Service {
	return &Service{
		uow:         uow,
		coordinator: coordinator,
		bus:         bus,
		logger:      logger.With("service", "payment"),
	}
}

// Debit pays amount out of the caller's account. The notification event is
// emitted only after the coordinator has committed; its handlers cannot roll
// the payment back.
func (s *Service) Debit(
	ctx context.Context,
	userID uuid.UUID,
	amount decimal.Decimal,
	method, description string,
) (*dto.PaymentRead, error) {
	logger := s.logger.With("op", "debit", "userID", userID, "amount", amount)
	if !amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}

	acct, err := s.callerAccount(ctx, userID)
	if err != nil {
		logger.Error("debit failed: account lookup", "error", err)
		return nil, err
	}

	rec, err := s.coordinator.Debit(ctx, acct.ID, amount, method, description)
	if err != nil {
		return nil, err
	}

	s.emitCompleted(ctx, rec, userID)
	logger.Info("debit successful", "reference", rec.ReferenceNumber)
	return rec, nil
}

// Transfer moves amount from the caller's account to the account identified
// by receiverNumber. Transfers to the caller's own account number are
// rejected before any state is touched.
func (s *Service) Transfer(
	ctx context.Context,
	userID uuid.UUID,
	receiverNumber int,
	amount decimal.Decimal,
	method, description string,
) (*dto.PaymentRead, error) {
	logger := s.logger.With(
		"op", "transfer",
		"userID", userID,
		"receiverNumber", receiverNumber,
		"amount", amount,
	)
	if !amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}

	acct, err := s.callerAccount(ctx, userID)
	if err != nil {
		logger.Error("transfer failed: account lookup", "error", err)
		return nil, err
	}
	if acct.Number == receiverNumber {
		return nil, domain.ErrSelfTransfer
	}

	rec, err := s.coordinator.Transfer(ctx, acct.ID, receiverNumber, amount, method, description)
	if err != nil {
		return nil, err
	}

	s.emitCompleted(ctx, rec, userID)
	logger.Info("transfer successful", "reference", rec.ReferenceNumber)
	return rec, nil
}

// callerAccount resolves the account owned by the authenticated user.
func (s *Service) callerAccount(ctx context.Context, userID uuid.UUID) (*dto.AccountRead, error) {
	accounts, err := s.uow.AccountRepository()
	if err != nil {
		return nil, err
	}
	return accounts.GetByUser(ctx, userID)
}

func (s *Service) emitCompleted(ctx context.Context, rec *dto.PaymentRead, userID uuid.UUID) {
	if s.bus == nil {
		return
	}
	err := s.bus.Emit(ctx, events.PaymentCompleted{
		PaymentID:         rec.ID,
		AccountID:         rec.AccountID,
		ReceiverAccountID: rec.ReceiverAccountID,
		UserID:            userID,
		Amount:            rec.Amount,
		Kind:              rec.Kind,
		ReferenceNumber:   rec.ReferenceNumber,
	})
	if err != nil {
		// The money has already moved; the event is best-effort.
		s.logger.Warn("payment event emit failed", "paymentID", rec.ID, "error", err)
	}
}
