package importer

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"

	"fleet-stats-backend/config"
	"fleet-stats-backend/database"
)

// CLIMain is the shared entry point for the import binaries. It parses flags,
// loads configuration, connects to the database (unless dry-running) and runs
// one import, translating the outcome into a process exit code.
func CLIMain(d Domain, usage string) {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	dryRun := pflag.Bool("dry-run", false, "parse and validate only, write nothing")
	clear := pflag.Bool("clear", false, "truncate the target table before importing")
	pflag.Parse()

	if pflag.NArg() != 1 {
		log.Error().Msgf("Usage: %s [--dry-run] [--clear] <input file>", usage)
		os.Exit(1)
	}
	path := pflag.Arg(0)

	ctx := context.Background()
	runner := NewRunner(nil)

	if !*dryRun {
		cfg, err := config.NewConfig()
		if err != nil {
			log.Error().Err(err).Msg("Failed to load configuration")
			os.Exit(1)
		}
		pool, err := database.NewPool(ctx, cfg)
		if err != nil {
			log.Error().Err(err).Msg("Failed to connect to database")
			os.Exit(1)
		}
		defer pool.Close()
		runner = NewRunner(pool)
	}

	err := runner.Run(ctx, d, path, Options{
		DryRun: *dryRun,
		Clear:  *clear,
		Stdin:  os.Stdin,
	})
	if errors.Is(err, ErrConfirmationDeclined) {
		return
	}
	if err != nil {
		log.Error().Err(err).Msgf("Import of %s failed", d.Name())
		os.Exit(1)
	}
}
