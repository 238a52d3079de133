package main

import (
	"database/sql"
	"os"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"melodia/internal/config"
	"melodia/internal/logging"
	"melodia/internal/store/migrations"
)

func main() {
	if len(os.Args) != 2 || (os.Args[1] != "up" && os.Args[1] != "down") {
		log.Fatal().Msg("usage: migrate [up|down]")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	logger := logging.New(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format, Output: os.Stderr})

	if err := cfg.RequireDatabase(); err != nil {
		logger.Fatal().Err(err).Msg("database config")
	}

	db, err := sql.Open("postgres", cfg.Database.URL)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect to database")
	}
	defer db.Close()

	if os.Args[1] == "up" {
		if err := migrations.Up(db); err != nil {
			logger.Fatal().Err(err).Msg("apply migrations")
		}
		logger.Info().Msg("migrations applied")
		return
	}

	if err := migrations.Down(db); err != nil {
		logger.Fatal().Err(err).Msg("roll back migrations")
	}
	logger.Info().Msg("migrations rolled back")
}
