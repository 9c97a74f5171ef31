package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/retailhub/backoffice/pkg/config"
	"github.com/retailhub/backoffice/pkg/database"
	"github.com/retailhub/backoffice/pkg/logger"
)

func main() {
	cfg, err := config.LoadWithValidation("backoffice-service")
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	log := logger.New("migrate", cfg.Server.Environment)

	db, err := database.New(&cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := database.Migrate(ctx, db); err != nil {
		log.Error().Err(err).Msg("migration failed")
		os.Exit(1)
	}

	log.Info().Int("statements", len(database.Schema())).Msg("schema applied")
}
