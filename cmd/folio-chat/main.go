package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/PabloGalante/folio-agent/internal/adapters/terminal"
	"github.com/PabloGalante/folio-agent/internal/app/bootstrap"
	"github.com/PabloGalante/folio-agent/internal/config"
	"github.com/PabloGalante/folio-agent/internal/observability"
	"github.com/PabloGalante/folio-agent/internal/render"
)

func main() {
	if err := run(); err != nil {
		observability.Logger().Error("folio chat stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	// keep the JSON log out of the conversation unless asked for
	if os.Getenv("FOLIO_LOG_LEVEL") == "" {
		cfg.LogLevel = "error"
	}
	observability.SetLevel(cfg.LogLevel)

	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	return terminal.NewShell(app.Chat, os.Stdin, os.Stdout, render.Terminal).Run(ctx)
}
