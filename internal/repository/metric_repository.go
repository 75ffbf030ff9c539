package repository

import (
	"context"
	"time"

	"fleet-stats-backend/internal/model"
	"fleet-stats-backend/internal/period"
)

// MetricRepository reads the pre-aggregated time-series tables.
type MetricRepository interface {
	// FleetSeries returns one fleet metric for the 'all' gpu_group from the
	// resolved source, ascending by ts. When src.AggregateByDay is set the
	// rows are calendar-day SUMs of the hourly values.
	FleetSeries(ctx context.Context, metric string, src period.FleetSource, since time.Time) (model.Series, error)

	// ScalarTrend returns rows from the generic scalar-metrics table for one
	// metric_name, ascending by ts.
	ScalarTrend(ctx context.Context, metricName string, since time.Time) (model.Series, error)

	// UniqueNodeCounts returns distinct node counts from the resolved
	// distinct-count table, ascending by ts.
	UniqueNodeCounts(ctx context.Context, src period.DistinctSource, since time.Time) (model.Series, error)
}

// GeoRepository reads the geographic snapshot tables.
type GeoRepository interface {
	// LatestCitySnapshot returns all rows of the single most recent city
	// snapshot timestamp.
	LatestCitySnapshot(ctx context.Context) ([]model.GeoSnapshot, error)

	// RecentCountryCounts returns the most recent rows ordered ts DESC with
	// no snapshot-timestamp filtering; results may mix timestamps.
	RecentCountryCounts(ctx context.Context, limit int) ([]model.GeoSnapshot, error)
}

// LoadStatRepository appends node load samples. This is the API's only write
// path; everything else is written by importers or an external collector.
type LoadStatRepository interface {
	InsertLoadStat(ctx context.Context, stat model.LoadStat) error
}

// PlaceholderRepository stores the synthetic transactions seeded by txgen.
type PlaceholderRepository interface {
	// ReplaceTransactions truncates the placeholder table and writes txs in
	// one transaction.
	ReplaceTransactions(ctx context.Context, txs []model.PlaceholderTransaction) error
}
