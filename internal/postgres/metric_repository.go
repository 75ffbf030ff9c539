package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"fleet-stats-backend/internal/model"
	"fleet-stats-backend/internal/period"
	"fleet-stats-backend/internal/repository"
)

// fleetMetricColumns is the closed set of columns that may be selected from
// the hourly fleet-stats table.
var fleetMetricColumns = map[string]bool{
	"total_time_seconds":      true,
	"total_invoice_amount":    true,
	"total_ram_hours":         true,
	"total_cpu_hours":         true,
	"total_transaction_count": true,
}

type metricRepository struct {
	pool *pgxpool.Pool
}

func NewMetricRepository(pool *pgxpool.Pool) (repository.MetricRepository, error) {
	if pool == nil {
		return nil, errors.New("PostgreSQL connection pool is required for MetricRepository")
	}
	return &metricRepository{pool: pool}, nil
}

func (r *metricRepository) FleetSeries(ctx context.Context, metric string, src period.FleetSource, since time.Time) (model.Series, error) {
	if !fleetMetricColumns[metric] {
		return nil, fmt.Errorf("unknown fleet metric column: %s", metric)
	}

	var querySQL string
	if src.AggregateByDay {
		querySQL = fmt.Sprintf(`
SELECT DATE(%s) AS day, SUM(%s) AS value
FROM %s
WHERE gpu_group = $1 AND %s >= $2
GROUP BY day
ORDER BY day ASC`,
			src.BucketColumn, metric, src.Table, src.BucketColumn)
	} else {
		querySQL = fmt.Sprintf(`
SELECT %s, %s
FROM %s
WHERE gpu_group = $1 AND %s >= $2
ORDER BY %s ASC`,
			src.BucketColumn, metric, src.Table, src.BucketColumn, src.BucketColumn)
	}

	log.Debug().Str("metric", metric).Str("table", src.Table).Time("since", since).Msg("Executing fleet series query")

	rows, err := r.pool.Query(ctx, querySQL, gpuGroupAll, since)
	if err != nil {
		return nil, fmt.Errorf("fleet series query failed: %w", err)
	}
	defer rows.Close()
	return scanSeries(rows)
}

func (r *metricRepository) ScalarTrend(ctx context.Context, metricName string, since time.Time) (model.Series, error) {
	rows, err := r.pool.Query(ctx, queryScalarTrend, metricName, since)
	if err != nil {
		return nil, fmt.Errorf("scalar trend query failed: %w", err)
	}
	defer rows.Close()
	return scanSeries(rows)
}

func (r *metricRepository) UniqueNodeCounts(ctx context.Context, src period.DistinctSource, since time.Time) (model.Series, error) {
	querySQL := fmt.Sprintf(`
SELECT %s, unique_node_count
FROM %s
WHERE gpu_group = $1 AND %s >= $2
ORDER BY %s ASC`,
		src.BucketColumn, src.Table, src.BucketColumn, src.BucketColumn)

	rows, err := r.pool.Query(ctx, querySQL, gpuGroupAll, since)
	if err != nil {
		return nil, fmt.Errorf("unique node counts query failed: %w", err)
	}
	defer rows.Close()
	return scanSeries(rows)
}

// scanSeries reads (timestamp, nullable numeric) rows into the uniform series
// shape, preserving database order.
func scanSeries(rows pgx.Rows) (model.Series, error) {
	series := make(model.Series, 0)
	for rows.Next() {
		var point model.SeriesPoint
		if err := rows.Scan(&point.TS, &point.Value); err != nil {
			return nil, fmt.Errorf("failed to scan series row: %w", err)
		}
		series = append(series, point)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating series rows: %w", err)
	}
	return series, nil
}
