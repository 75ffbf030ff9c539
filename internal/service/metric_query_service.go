package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"fleet-stats-backend/internal/model"
	"fleet-stats-backend/internal/period"
	"fleet-stats-backend/internal/repository"
)

// fleetMetrics is the fixed set assembled by the composite stats endpoint.
var fleetMetrics = []string{
	"total_time_seconds",
	"total_invoice_amount",
	"total_ram_hours",
	"total_cpu_hours",
	"total_transaction_count",
}

type MetricQueryService interface {
	// GetStats resolves all five fleet metrics for one period and merges them
	// into a single mapping keyed by metric name. A metric with no rows maps
	// to an empty list; the request as a whole does not fail for it.
	GetStats(ctx context.Context, p period.Period) (map[string]model.Series, error)

	// GetUniqueNodes returns distinct node counts. An empty window yields an
	// empty series, not an error.
	GetUniqueNodes(ctx context.Context, p period.Period) (model.Series, error)

	// GetScalarTrend returns a scalar-metrics series. An empty result is a
	// NotFound error on this path; the divergence from GetStats/GetUniqueNodes
	// is part of the observed contract.
	GetScalarTrend(ctx context.Context, metricName string, p period.Period) (model.Series, error)
}

type metricQueryService struct {
	metricRepo repository.MetricRepository
	now        func() time.Time
}

func NewMetricQueryService(metricRepo repository.MetricRepository) MetricQueryService {
	return &metricQueryService{
		metricRepo: metricRepo,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (s *metricQueryService) GetStats(ctx context.Context, p period.Period) (map[string]model.Series, error) {
	src := period.ResolveFleet(p)
	since := s.now().Add(-src.Lookback)

	log.Info().Str("period", string(p)).Time("since", since).Msg("Assembling fleet stats")

	// Sequential fan-out; each metric is an independent query against the
	// same resolved source.
	assembled := make(map[string]model.Series, len(fleetMetrics))
	for _, metric := range fleetMetrics {
		series, err := s.metricRepo.FleetSeries(ctx, metric, src, since)
		if err != nil {
			return nil, model.NewDatabaseError(fmt.Errorf("fleet metric %s: %w", metric, err))
		}
		if series == nil {
			series = model.Series{}
		}
		assembled[metric] = series
	}
	return assembled, nil
}

func (s *metricQueryService) GetUniqueNodes(ctx context.Context, p period.Period) (model.Series, error) {
	src := period.ResolveDistinct(p)
	since := s.now().Add(-src.Lookback)

	log.Info().Str("period", string(p)).Str("table", src.Table).Msg("Getting unique node counts")

	series, err := s.metricRepo.UniqueNodeCounts(ctx, src, since)
	if err != nil {
		return nil, model.NewDatabaseError(err)
	}
	return series, nil
}

func (s *metricQueryService) GetScalarTrend(ctx context.Context, metricName string, p period.Period) (model.Series, error) {
	since := s.now().Add(-period.ScalarLookback(p))

	log.Info().Str("metric", metricName).Str("period", string(p)).Time("since", since).Msg("Getting scalar trend")

	series, err := s.metricRepo.ScalarTrend(ctx, metricName, since)
	if err != nil {
		return nil, model.NewDatabaseError(err)
	}
	if len(series) == 0 {
		return nil, model.NewNotFound(fmt.Sprintf("No data found for %s", metricName))
	}
	return series, nil
}
