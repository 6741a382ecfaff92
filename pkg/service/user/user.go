// Package user implements profile use cases for the authenticated user.
package user

import (
	"context"
	"log/slog"

	"github.com/gobank/core/pkg/domain"
	"github.com/gobank/core/pkg/dto"
	"github.com/gobank/core/pkg/repository"
	"github.com/gobank/core/pkg/utils"
	"github.com/google/uuid"
)

// Service reads and updates user profiles.
type Service struct {
	uow    repository.UnitOfWork
	logger *slog.Logger
}

// New creates the user service.
func New(uow repository.UnitOfWork, logger *slog.Logger) *Service {
	return &Service{uow: uow, logger: logger.With("service", "user")}
}

// Get returns the user's profile.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*dto.UserRead, error) {
	users, err := s.uow.UserRepository()
	if err != nil {
		return nil, err
	}
	return users.Get(ctx, id)
}

// UpdateEmail changes the user's email address.
func (s *Service) UpdateEmail(ctx context.Context, id uuid.UUID, email string) error {
	logger := s.logger.With("op", "updateEmail", "userID", id)
	if !utils.IsEmail(email) {
		return domain.ErrValidation
	}
	users, err := s.uow.UserRepository()
	if err != nil {
		return err
	}
	if err := users.Update(ctx, id, dto.UserUpdate{Email: &email}); err != nil {
		logger.Error("email update failed", "error", err)
		return err
	}
	logger.Info("email updated")
	return nil
}
