package main

import (
	"fmt"
	"log/slog"

	"github.com/charmbracelet/log"
	"github.com/gobank/core/infra/initializer"
	"github.com/gobank/core/pkg/app"
	"github.com/gobank/core/pkg/config"
	"github.com/gobank/core/webapi"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load(slog.Default())
	if err != nil {
		return fmt.Errorf("failed to load application configuration: %w", err)
	}

	deps, err := initializer.InitializeDependencies(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}

	a := app.New(deps, cfg)
	fiberApp := webapi.SetupApp(a)

	deps.Logger.Info("starting server",
		"env", cfg.Server.Env,
		"address", cfg.Server.Addr,
	)
	return fiberApp.Listen(cfg.Server.Addr)
}
