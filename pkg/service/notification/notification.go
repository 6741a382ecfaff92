// Package notification emails users about committed payments. It subscribes
// to the event bus; by the time a handler runs the money has already moved,
// so a failed email is logged and dropped.
package notification

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gobank/core/pkg/domain"
	"github.com/gobank/core/pkg/domain/events"
	"github.com/gobank/core/pkg/eventbus"
	"github.com/gobank/core/pkg/repository"
)

// Sender delivers one email. infra/mailer provides the SMTP implementation.
type Sender interface {
	Send(to, subject, body string) error
}

// Service turns payment events into emails.
type Service struct {
	uow    repository.UnitOfWork
	sender Sender
	logger *slog.Logger
}

// New creates the notification service.
func New(uow repository.UnitOfWork, sender Sender, logger *slog.Logger) *Service {
	return &Service{uow: uow, sender: sender, logger: logger.With("service", "notification")}
}

// Register subscribes the service to the bus.
func (s *Service) Register(bus eventbus.Bus) {
	bus.Register(events.PaymentCompletedType, s.onPaymentCompleted)
}

func (s *Service) onPaymentCompleted(ctx context.Context, e eventbus.Event) error {
	evt, ok := e.(events.PaymentCompleted)
	if !ok {
		return fmt.Errorf("unexpected event payload for %s", e.Type())
	}
	logger := s.logger.With("paymentID", evt.PaymentID, "userID", evt.UserID)

	users, err := s.uow.UserRepository()
	if err != nil {
		return err
	}
	user, err := users.Get(ctx, evt.UserID)
	if err != nil {
		logger.Error("notification skipped: user lookup failed", "error", err)
		return err
	}

	subject, body := compose(evt)
	if err := s.sender.Send(user.Email, subject, body); err != nil {
		logger.Error("notification email failed", "error", err)
		return err
	}
	logger.Info("notification sent", "to", user.Email)
	return nil
}

func compose(evt events.PaymentCompleted) (subject, body string) {
	switch evt.Kind {
	case string(domain.KindTransfer):
		subject = "Transfer completed"
		body = fmt.Sprintf(
			"Your transfer of %s was completed. Reference number: %d.",
			evt.Amount.StringFixed(2), evt.ReferenceNumber,
		)
	default:
		subject = "Payment completed"
		body = fmt.Sprintf(
			"Your payment of %s was completed. Reference number: %d.",
			evt.Amount.StringFixed(2), evt.ReferenceNumber,
		)
	}
	return subject, body
}
