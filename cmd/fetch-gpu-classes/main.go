// Command fetch-gpu-classes pulls the published GPU pricing classes from the
// Strapi CMS and upserts them into the gpu_classes table.
package main

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"

	"fleet-stats-backend/config"
	"fleet-stats-backend/database"
	"fleet-stats-backend/internal/cms"
	"fleet-stats-backend/internal/importer"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	dryRun := pflag.Bool("dry-run", false, "fetch and report only, write nothing")
	pflag.Parse()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if cfg.Strapi.URL == "" {
		log.Fatal().Msg("STRAPIURL is not configured")
	}

	ctx := context.Background()
	client := cms.NewClient(cfg.Strapi)

	jwt, err := client.Authenticate(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Strapi authentication failed")
	}

	remote, err := client.GetGPUClasses(ctx, jwt)
	if err != nil {
		log.Fatal().Err(err).Msg("Fetching GPU classes failed")
	}
	log.Info().Int("count", len(remote)).Msg("Fetched GPU classes from CMS")

	classes := make([]importer.GPUClass, 0, len(remote))
	for uuid, rc := range remote {
		classes = append(classes, importer.GPUClass{
			ID:          uuid,
			BatchPrice:  rc.BatchPrice,
			LowPrice:    rc.LowPrice,
			MediumPrice: rc.MediumPrice,
			HighPrice:   rc.HighPrice,
			GPUType:     rc.GPUType,
			Name:        rc.Name,
		})
	}

	if *dryRun {
		for _, c := range classes {
			name := "N/A"
			if c.Name != nil {
				name = *c.Name
			}
			log.Info().Str("uuid", c.ID).Str("name", name).Msg("DRY RUN - would upsert")
		}
		return
	}

	pool, err := database.NewPool(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pool.Close()

	if err := importer.UpsertGPUClasses(ctx, pool, classes); err != nil {
		log.Fatal().Err(err).Msg("Upserting GPU classes failed")
	}
	log.Info().Int("count", len(classes)).Msg("GPU classes synced")
}
