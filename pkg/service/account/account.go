// Package account implements account lifecycle use cases: opening, lookup,
// listing and closing. Balance mutation is not done here; that belongs to the
// ledger coordinator.
package account

import (
	"context"
	"errors"
	"log/slog"

	"github.com/gobank/core/pkg/domain"
	"github.com/gobank/core/pkg/dto"
	"github.com/gobank/core/pkg/pagination"
	"github.com/gobank/core/pkg/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Service manages accounts. Each user holds at most one account.
type Service struct {
	uow    repository.UnitOfWork
	logger *slog.Logger
}

// New creates the account service.
func New(uow repository.UnitOfWork, logger *slog.Logger) *Service {
	return &Service{uow: uow, logger: logger.With("service", "account")}
}

// Open creates an account for the user with the given opening balance. The
// existence check and the insert run in one atomic scope so a user cannot end
// up with two accounts.
func (s *Service) Open(ctx context.Context, userID uuid.UUID, opening decimal.Decimal) (*dto.AccountRead, error) {
	logger := s.logger.With("op", "open", "userID", userID)

	acct, err := domain.NewAccount(userID, opening)
	if err != nil {
		return nil, err
	}

	var created *dto.AccountRead
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		accounts, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		_, err = accounts.GetByUser(ctx, userID)
		if err == nil {
			return domain.ErrAlreadyExists
		}
		if !errors.Is(err, domain.ErrAccountNotFound) {
			return err
		}
		created, err = accounts.Create(ctx, dto.AccountCreate{
			ID:      acct.ID,
			UserID:  acct.UserID,
			Balance: acct.Balance,
		})
		return err
	})
	if err != nil {
		logger.Error("account opening failed", "error", err)
		return nil, err
	}
	logger.Info("account opened", "number", created.Number)
	return created, nil
}

// Get returns the caller's own account.
func (s *Service) Get(ctx context.Context, userID uuid.UUID) (*dto.AccountRead, error) {
	accounts, err := s.uow.AccountRepository()
	if err != nil {
		return nil, err
	}
	return accounts.GetByUser(ctx, userID)
}

// Balance returns the caller's current balance.
func (s *Service) Balance(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	acct, err := s.Get(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}
	return acct.Balance, nil
}

// ByNumber returns the account with the given number joined with its owner.
func (s *Service) ByNumber(ctx context.Context, number int) (*dto.AccountOwnerRead, error) {
	accounts, err := s.uow.AccountRepository()
	if err != nil {
		return nil, err
	}
	acct, err := accounts.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	return s.withOwner(ctx, acct)
}

// ByIdentity returns the account owned by the user matching the username or
// email.
func (s *Service) ByIdentity(ctx context.Context, identity string) (*dto.AccountOwnerRead, error) {
	users, err := s.uow.UserRepository()
	if err != nil {
		return nil, err
	}
	owner, err := users.GetByIdentity(ctx, identity)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}
	accounts, err := s.uow.AccountRepository()
	if err != nil {
		return nil, err
	}
	acct, err := accounts.GetByUser(ctx, owner.ID)
	if err != nil {
		return nil, err
	}
	return ownerRead(acct, owner), nil
}

// List returns all accounts joined with their owners, ordered by account
// number. The handler layer restricts this to admins.
func (s *Service) List(ctx context.Context, params pagination.Params) (pagination.Page[*dto.AccountOwnerRead], error) {
	var page pagination.Page[*dto.AccountOwnerRead]
	accounts, err := s.uow.AccountRepository()
	if err != nil {
		return page, err
	}
	rows, total, err := accounts.List(ctx, params)
	if err != nil {
		return page, err
	}
	items := make([]*dto.AccountOwnerRead, 0, len(rows))
	for _, acct := range rows {
		item, err := s.withOwner(ctx, acct)
		if err != nil {
			return page, err
		}
		items = append(items, item)
	}
	return pagination.NewPage(items, params, total), nil
}

// Close deletes an account. Accounts still holding funds are refused.
func (s *Service) Close(ctx context.Context, id uuid.UUID) error {
	logger := s.logger.With("op", "close", "accountID", id)
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		accounts, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		acct, err := accounts.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if !acct.Balance.IsZero() {
			return domain.ErrBalanceNotZero
		}
		return accounts.Delete(ctx, id)
	})
	if err != nil {
		logger.Error("account close failed", "error", err)
		return err
	}
	logger.Info("account closed")
	return nil
}

func (s *Service) withOwner(ctx context.Context, acct *dto.AccountRead) (*dto.AccountOwnerRead, error) {
	users, err := s.uow.UserRepository()
	if err != nil {
		return nil, err
	}
	owner, err := users.Get(ctx, acct.UserID)
	if err != nil {
		return nil, err
	}
	return ownerRead(acct, owner), nil
}

func ownerRead(acct *dto.AccountRead, owner *dto.UserRead) *dto.AccountOwnerRead {
	return &dto.AccountOwnerRead{
		ID:        acct.ID,
		Number:    acct.Number,
		Balance:   acct.Balance,
		CreatedAt: acct.CreatedAt,
		Username:  owner.Username,
		Email:     owner.Email,
	}
}
