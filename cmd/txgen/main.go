// Command txgen reseeds the placeholder_transactions table with synthetic
// activity spread over the last month. It runs once by default; with
// --schedule (or TXGEN_SCHEDULE) it keeps running and reseeds on a cron
// schedule.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"

	"fleet-stats-backend/config"
	"fleet-stats-backend/database"
	"fleet-stats-backend/internal/placeholder"
	"fleet-stats-backend/internal/postgres"
	"fleet-stats-backend/internal/repository"
)

const (
	seedTotal      = 103
	seedWindowDays = 31
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	schedule := pflag.String("schedule", "", "cron expression; when set, reseed on this schedule instead of once")
	pflag.Parse()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if *schedule == "" {
		*schedule = cfg.Txgen.Schedule
	}

	ctx := context.Background()
	pool, err := database.NewPool(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pool.Close()

	repo, err := postgres.NewPlaceholderRepository(pool)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create placeholder repository")
	}

	if *schedule == "" {
		if err := reseed(ctx, repo); err != nil {
			log.Fatal().Err(err).Msg("Seeding placeholder transactions failed")
		}
		return
	}

	c := cron.New()
	if _, err := c.AddFunc(*schedule, func() {
		if err := reseed(context.Background(), repo); err != nil {
			log.Error().Err(err).Msg("Scheduled reseed failed")
		}
	}); err != nil {
		log.Fatal().Err(err).Str("schedule", *schedule).Msg("Invalid cron schedule")
	}

	log.Info().Str("schedule", *schedule).Msg("Starting txgen scheduler")
	c.Start()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info().Msg("Stopping txgen scheduler")
	<-c.Stop().Done()
}

func reseed(ctx context.Context, repo repository.PlaceholderRepository) error {
	txs := placeholder.SeedTransactions(time.Now().UTC(), seedTotal, seedWindowDays)
	if err := repo.ReplaceTransactions(ctx, txs); err != nil {
		return err
	}
	log.Info().Int("count", len(txs)).Msg("Seeded placeholder transactions")
	return nil
}
