// Package admin implements user administration: role assignment, role-based
// listing and user removal. The handler layer restricts every operation here
// to callers holding the admin role.
package admin

import (
	"context"
	"errors"
	"log/slog"

	"github.com/gobank/core/pkg/domain"
	"github.com/gobank/core/pkg/dto"
	"github.com/gobank/core/pkg/pagination"
	"github.com/gobank/core/pkg/repository"
	"github.com/google/uuid"
)

// Service manages user roles.
type Service struct {
	uow    repository.UnitOfWork
	logger *slog.Logger
}

// New creates the admin service.
func New(uow repository.UnitOfWork, logger *slog.Logger) *Service {
	return &Service{uow: uow, logger: logger.With("service", "admin")}
}

// SetRole assigns a role to a user.
func (s *Service) SetRole(ctx context.Context, userID uuid.UUID, role domain.Role) error {
	logger := s.logger.With("op", "setRole", "userID", userID, "role", role)
	if !domain.ValidRole(role) {
		return domain.ErrValidation
	}
	users, err := s.uow.UserRepository()
	if err != nil {
		return err
	}
	r := string(role)
	if err := users.Update(ctx, userID, dto.UserUpdate{Role: &r}); err != nil {
		logger.Error("role assignment failed", "error", err)
		return err
	}
	logger.Info("role assigned")
	return nil
}

// DeleteUser removes a user record. A user still holding an open account
// cannot be deleted; the account must be closed first. The account check and
// the delete run in one atomic scope.
func (s *Service) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	logger := s.logger.With("op", "deleteUser", "userID", userID)
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		accounts, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		_, err = accounts.GetByUser(ctx, userID)
		if err == nil {
			return domain.ErrUserHasAccount
		}
		if !errors.Is(err, domain.ErrAccountNotFound) {
			return err
		}
		users, err := uow.UserRepository()
		if err != nil {
			return err
		}
		return users.Delete(ctx, userID)
	})
	if err != nil {
		logger.Error("user deletion failed", "error", err)
		return err
	}
	logger.Info("user deleted")
	return nil
}

// ListByRole returns users holding the given role; an empty role lists all
// users.
func (s *Service) ListByRole(ctx context.Context, role string, params pagination.Params) (pagination.Page[*dto.UserRead], error) {
	var page pagination.Page[*dto.UserRead]
	if role != "" && !domain.ValidRole(domain.Role(role)) {
		return page, domain.ErrValidation
	}
	users, err := s.uow.UserRepository()
	if err != nil {
		return page, err
	}
	items, total, err := users.ListByRole(ctx, role, params)
	if err != nil {
		return page, err
	}
	return pagination.NewPage(items, params, total), nil
}
