package main

import (
	"log"
	"log/slog"
	"os"

	"github.com/Jacobbrewer1/tickets/cmd/bot/config"
	"github.com/Jacobbrewer1/tickets/pkg/logging"
)

func main() {
	// Variables from .env must be present before the logger reads its level.
	if err := config.LoadEnvFiles(); err != nil {
		log.Fatalln(err)
	}

	a, err := InitializeApp()
	if err != nil {
		log.Fatalln(err)
	}

	cfg, err := config.Parse(a.Log())
	if err != nil {
		a.Error("Error parsing configuration", slog.String(logging.KeyError, err.Error()))
		os.Exit(1)
	}

	a.Info("Starting application")
	if err := a.Run(cfg); err != nil {
		a.Error("Error running application", slog.String(logging.KeyError, err.Error()))
		os.Exit(1)
	}
}
