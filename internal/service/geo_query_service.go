package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"fleet-stats-backend/internal/model"
	"fleet-stats-backend/internal/repository"
)

// countryRowLimit caps the country endpoint. Country rows are not filtered to
// a single snapshot timestamp the way city rows are.
const countryRowLimit = 1000

type GeoQueryService interface {
	// GetCityCounts returns the rows of the single most recent city snapshot.
	GetCityCounts(ctx context.Context) ([]model.GeoSnapshot, error)

	// GetCountryCounts returns up to 1000 most recent country rows, newest
	// first, possibly spanning several snapshot timestamps.
	GetCountryCounts(ctx context.Context) ([]model.GeoSnapshot, error)
}

type geoQueryService struct {
	geoRepo repository.GeoRepository
}

func NewGeoQueryService(geoRepo repository.GeoRepository) GeoQueryService {
	return &geoQueryService{geoRepo: geoRepo}
}

func (s *geoQueryService) GetCityCounts(ctx context.Context) ([]model.GeoSnapshot, error) {
	snapshots, err := s.geoRepo.LatestCitySnapshot(ctx)
	if err != nil {
		return nil, model.NewDatabaseError(err)
	}
	log.Info().Int("cities", len(snapshots)).Msg("Fetched latest city snapshot")
	return snapshots, nil
}

func (s *geoQueryService) GetCountryCounts(ctx context.Context) ([]model.GeoSnapshot, error) {
	snapshots, err := s.geoRepo.RecentCountryCounts(ctx, countryRowLimit)
	if err != nil {
		return nil, model.NewDatabaseError(err)
	}
	log.Info().Int("countries", len(snapshots)).Msg("Fetched recent country counts")
	return snapshots, nil
}
