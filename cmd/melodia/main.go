package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"melodia/internal/apperr"
	"melodia/internal/config"
	"melodia/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	logger := logging.New(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: os.Stderr,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := NewRunner(RunnerOpts{Config: cfg, Logger: &logger})
	if err := runner.newApp().Run(ctx, os.Args); err != nil {
		kind := apperr.KindOf(err)
		logger.Error().
			Err(err).
			Str("kind", kind.String()).
			Int("status", kind.Status()).
			Str("field", apperr.FieldOf(err)).
			Msg("command failed")
		stop()
		os.Exit(1)
	}
}
