package payment

import (
	"context"

	"github.com/gobank/core/pkg/domain"
	"github.com/gobank/core/pkg/dto"
	"github.com/gobank/core/pkg/pagination"
	"github.com/google/uuid"
)

// History returns the caller's debit payments, newest first.
func (s *Service) History(ctx context.Context, userID uuid.UUID, params pagination.Params) (pagination.Page[*dto.PaymentRead], error) {
	var page pagination.Page[*dto.PaymentRead]
	acct, err := s.callerAccount(ctx, userID)
	if err != nil {
		return page, err
	}
	payments, err := s.uow.PaymentRepository()
	if err != nil {
		return page, err
	}
	items, total, err := payments.ListByAccount(ctx, acct.ID, params)
	if err != nil {
		return page, err
	}
	return pagination.NewPage(items, params, total), nil
}

// Transfers returns the transfers sent from the caller's account, joined with
// the receiving account number.
func (s *Service) Transfers(ctx context.Context, userID uuid.UUID, params pagination.Params) (pagination.Page[*dto.TransferRead], error) {
	var page pagination.Page[*dto.TransferRead]
	acct, err := s.callerAccount(ctx, userID)
	if err != nil {
		return page, err
	}
	payments, err := s.uow.PaymentRepository()
	if err != nil {
		return page, err
	}
	items, total, err := payments.ListTransfersByAccount(ctx, acct.ID, params)
	if err != nil {
		return page, err
	}
	return pagination.NewPage(items, params, total), nil
}

// Get returns a single payment record. Non-admin callers may only read
// records belonging to their own account.
func (s *Service) Get(ctx context.Context, userID, paymentID uuid.UUID, admin bool) (*dto.PaymentRead, error) {
	payments, err := s.uow.PaymentRepository()
	if err != nil {
		return nil, err
	}
	rec, err := payments.Get(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if admin {
		return rec, nil
	}
	acct, err := s.callerAccount(ctx, userID)
	if err != nil {
		return nil, err
	}
	if rec.AccountID != acct.ID {
		return nil, domain.ErrForbidden
	}
	return rec, nil
}

// AllPayments returns every payment in the ledger. The handler layer
// restricts this to admins.
func (s *Service) AllPayments(ctx context.Context, params pagination.Params) (pagination.Page[*dto.PaymentRead], error) {
	var page pagination.Page[*dto.PaymentRead]
	payments, err := s.uow.PaymentRepository()
	if err != nil {
		return page, err
	}
	items, total, err := payments.ListAll(ctx, params)
	if err != nil {
		return page, err
	}
	return pagination.NewPage(items, params, total), nil
}

// AllTransfers returns every transfer in the ledger. Admin only.
func (s *Service) AllTransfers(ctx context.Context, params pagination.Params) (pagination.Page[*dto.TransferRead], error) {
	var page pagination.Page[*dto.TransferRead]
	payments, err := s.uow.PaymentRepository()
	if err != nil {
		return page, err
	}
	items, total, err := payments.ListAllTransfers(ctx, params)
	if err != nil {
		return page, err
	}
	return pagination.NewPage(items, params, total), nil
}
