// Package auth implements registration, login, JWT issuance and the
// email-verification and password-reset flows.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gobank/core/pkg/config"
	"github.com/gobank/core/pkg/domain"
	"github.com/gobank/core/pkg/dto"
	"github.com/gobank/core/pkg/repository"
	"github.com/gobank/core/pkg/utils"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// dummyHash keeps the bcrypt cost of a failed login independent of whether
// the identity exists.
const dummyHash = "$2a$14$7zFqzDbD3RrlkMTczbXG9OWZ0FLOXjIxXzSZ.QZxkVXjXcx7QZQiC"

// Confirmation and reset codes are single-purpose JWTs. They are signed with
// a key derived from the access-token secret and the purpose, so a code is
// not a valid bearer token and the two code kinds cannot stand in for each
// other.
const (
	purposeEmailConfirm  = "email_confirm"
	purposePasswordReset = "password_reset"

	confirmTokenTTL = 48 * time.Hour
	resetTokenTTL   = time.Hour
)

// Sender delivers one email. Nil disables the email-based flows.
type Sender interface {
	Send(to, subject, body string) error
}

// Service authenticates users and signs access tokens.
type Service struct {
	uow    repository.UnitOfWork
	cfg    config.JwtConfig
	sender Sender
	logger *slog.Logger
}

// New creates the auth service.
func New(uow repository.UnitOfWork, cfg config.JwtConfig, sender Sender, logger *slog.Logger) *Service {
	return &Service{uow: uow, cfg: cfg, sender: sender, logger: logger.With("service", "auth")}
}

// Register creates a new user with the default role and, when a sender is
// configured, emails a confirmation code. The password is hashed before it
// reaches the store; a failed confirmation email never fails the
// registration.
func (s *Service) Register(ctx context.Context, create dto.UserCreate) (*dto.UserRead, error) {
	logger := s.logger.With("op", "register", "username", create.Username)
	if !utils.IsEmail(create.Email) {
		return nil, domain.ErrValidation
	}
	hashed, err := utils.HashPassword(create.Password)
	if err != nil {
		return nil, err
	}
	u := domain.NewUser(create.Username, create.Email, hashed)
	if create.ID != uuid.Nil {
		u.ID = create.ID
	}

	users, err := s.uow.UserRepository()
	if err != nil {
		return nil, err
	}
	user, err := users.Create(ctx, dto.UserCreate{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
	}, u.Password)
	if err != nil {
		logger.Error("registration failed", "error", err)
		return nil, err
	}

	s.sendConfirmation(user)
	logger.Info("user registered", "userID", user.ID)
	return user, nil
}

// ConfirmEmail marks the user behind a confirmation code as verified.
func (s *Service) ConfirmEmail(ctx context.Context, code string) error {
	userID, err := s.parsePurposeToken(code, purposeEmailConfirm)
	if err != nil {
		return err
	}
	users, err := s.uow.UserRepository()
	if err != nil {
		return err
	}
	verified := true
	if err := users.Update(ctx, userID, dto.UserUpdate{Verified: &verified}); err != nil {
		return err
	}
	s.logger.Info("email confirmed", "userID", userID)
	return nil
}

// SendPasswordReset emails a reset code to the user behind a username or
// email. An unknown identity is not an error; reporting it would reveal
// which identities exist.
func (s *Service) SendPasswordReset(ctx context.Context, identity string) error {
	logger := s.logger.With("op", "passwordReset", "identity", identity)
	users, err := s.uow.UserRepository()
	if err != nil {
		return err
	}
	user, err := users.GetByIdentity(ctx, identity)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			logger.Info("password reset requested for unknown identity")
			return nil
		}
		return err
	}
	if s.sender == nil {
		logger.Warn("password reset requested but no email sender configured")
		return nil
	}

	code, err := s.signPurposeToken(user.ID, purposePasswordReset, resetTokenTTL)
	if err != nil {
		return err
	}
	body := fmt.Sprintf("Hello %s. Reset your password with this code: %s", user.Username, code)
	if err := s.sender.Send(user.Email, "Password reset", body); err != nil {
		logger.Error("password reset email failed", "error", err)
		return err
	}
	logger.Info("password reset email sent", "userID", user.ID)
	return nil
}

// ConfirmPasswordReset sets a new password for the user behind a reset code.
func (s *Service) ConfirmPasswordReset(ctx context.Context, code, newPassword string) error {
	if len(newPassword) < 6 {
		return domain.ErrValidation
	}
	userID, err := s.parsePurposeToken(code, purposePasswordReset)
	if err != nil {
		return err
	}
	hashed, err := utils.HashPassword(newPassword)
	if err != nil {
		return err
	}
	users, err := s.uow.UserRepository()
	if err != nil {
		return err
	}
	if err := users.Update(ctx, userID, dto.UserUpdate{Password: &hashed}); err != nil {
		return err
	}
	s.logger.Info("password reset completed", "userID", userID)
	return nil
}

// Login verifies the password for a username or email and returns the user.
func (s *Service) Login(ctx context.Context, identity, password string) (*dto.UserRead, error) {
	logger := s.logger.With("op", "login", "identity", identity)
	users, err := s.uow.UserRepository()
	if err != nil {
		return nil, err
	}

	user, hash, err := users.GetCredentials(ctx, identity)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			utils.CheckPasswordHash(password, dummyHash)
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}
	if !utils.CheckPasswordHash(password, hash) {
		logger.Warn("login rejected")
		return nil, domain.ErrUnauthorized
	}
	logger.Info("login successful", "userID", user.ID)
	return user, nil
}

// GenerateToken signs a JWT carrying the user's identity and role.
func (s *Service) GenerateToken(user *dto.UserRead) (string, error) {
	token := jwt.New(jwt.SigningMethodHS256)
	claims := token.Claims.(jwt.MapClaims)
	claims["user_id"] = user.ID.String()
	claims["username"] = user.Username
	claims["role"] = user.Role
	claims["exp"] = time.Now().Add(s.cfg.Expiry).Unix()
	return token.SignedString([]byte(s.cfg.Secret))
}

func (s *Service) sendConfirmation(user *dto.UserRead) {
	if s.sender == nil {
		return
	}
	logger := s.logger.With("op", "emailConfirmation", "userID", user.ID)
	code, err := s.signPurposeToken(user.ID, purposeEmailConfirm, confirmTokenTTL)
	if err != nil {
		logger.Error("confirmation code signing failed", "error", err)
		return
	}
	body := fmt.Sprintf("Welcome %s. Confirm your email address with this code: %s", user.Username, code)
	if err := s.sender.Send(user.Email, "Confirm your email", body); err != nil {
		logger.Error("confirmation email failed", "error", err)
		return
	}
	logger.Info("confirmation email sent")
}

func (s *Service) purposeKey(purpose string) []byte {
	return []byte(s.cfg.Secret + ":" + purpose)
}

func (s *Service) signPurposeToken(userID uuid.UUID, purpose string, ttl time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID.String(),
		"purpose": purpose,
		"exp":     time.Now().Add(ttl).Unix(),
	})
	return token.SignedString(s.purposeKey(purpose))
}

func (s *Service) parsePurposeToken(signed, purpose string) (uuid.UUID, error) {
	token, err := jwt.Parse(signed, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.purposeKey(purpose), nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, domain.ErrUnauthorized
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || claims["purpose"] != purpose {
		return uuid.Nil, domain.ErrUnauthorized
	}
	raw, _ := claims["user_id"].(string)
	userID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, domain.ErrUnauthorized
	}
	return userID, nil
}

// CurrentUserID extracts the authenticated user's ID from a verified token.
func CurrentUserID(token *jwt.Token) (uuid.UUID, error) {
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, domain.ErrUnauthorized
	}
	raw, ok := claims["user_id"].(string)
	if !ok {
		return uuid.Nil, domain.ErrUnauthorized
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, domain.ErrUnauthorized
	}
	return id, nil
}

// IsAdmin reports whether a verified token carries the admin role.
func IsAdmin(token *jwt.Token) bool {
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return false
	}
	role, _ := claims["role"].(string)
	return role == string(domain.RoleAdmin)
}
