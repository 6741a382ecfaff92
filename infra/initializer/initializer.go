// Package initializer builds the application dependencies from configuration.
package initializer

import (
	"fmt"

	"github.com/gobank/core/infra"
	"github.com/gobank/core/infra/mailer"
	infrarepository "github.com/gobank/core/infra/repository"
	"github.com/gobank/core/infra/repository/model"
	"github.com/gobank/core/pkg/app"
	"github.com/gobank/core/pkg/config"
	"github.com/gobank/core/pkg/eventbus"
)

// InitializeDependencies connects the database, runs migrations and wires the
// shared infrastructure.
func InitializeDependencies(cfg *config.AppConfig) (*app.Deps, error) {
	deps := &app.Deps{}
	logger := setupLogger(cfg.Log)
	deps.Logger = logger

	db, err := infra.NewDBConnection(cfg.DB, cfg.Server.Env)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.AutoMigrate(&model.User{}, &model.Account{}, &model.Payment{}); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	deps.Uow = infrarepository.NewUoW(db)
	deps.EventBus = eventbus.NewMemoryBus(logger)
	if cfg.Email.Enabled {
		deps.EmailSender = mailer.NewSMTPSender(cfg.Email)
	}
	return deps, nil
}
