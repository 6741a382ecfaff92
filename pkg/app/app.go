// Package app wires the services together from their shared dependencies.
package app

import (
	"log/slog"

	"github.com/gobank/core/pkg/config"
	"github.com/gobank/core/pkg/eventbus"
	"github.com/gobank/core/pkg/ledger"
	"github.com/gobank/core/pkg/repository"
	"github.com/gobank/core/pkg/service/account"
	"github.com/gobank/core/pkg/service/admin"
	"github.com/gobank/core/pkg/service/auth"
	"github.com/gobank/core/pkg/service/notification"
	"github.com/gobank/core/pkg/service/payment"
	"github.com/gobank/core/pkg/service/user"
)

// Deps contains the shared infrastructure the services are built from.
type Deps struct {
	Uow         repository.UnitOfWork
	EventBus    eventbus.Bus
	EmailSender notification.Sender
	Logger      *slog.Logger
}

// App bundles the wired services behind one handle.
type App struct {
	Deps   *Deps
	Config *config.AppConfig

	Coordinator    *ledger.Coordinator
	AuthService    *auth.Service
	UserService    *user.Service
	AccountService *account.Service
	PaymentService *payment.Service
	AdminService   *admin.Service
}

// New builds the application. The notification service is subscribed to the
// event bus when an email sender is configured.
func New(deps *Deps, cfg *config.AppConfig) *App {
	a := &App{Deps: deps, Config: cfg}

	a.Coordinator = ledger.New(deps.Uow, cfg.Ledger, deps.Logger)
	a.AuthService = auth.New(deps.Uow, cfg.Jwt, deps.EmailSender, deps.Logger)
	a.UserService = user.New(deps.Uow, deps.Logger)
	a.AccountService = account.New(deps.Uow, deps.Logger)
	a.PaymentService = payment.New(deps.Uow, a.Coordinator, deps.EventBus, deps.Logger)
	a.AdminService = admin.New(deps.Uow, deps.Logger)

	if deps.EmailSender != nil && deps.EventBus != nil {
		notification.New(deps.Uow, deps.EmailSender, deps.Logger).Register(deps.EventBus)
	}
	return a
}
