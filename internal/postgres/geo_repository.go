package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fleet-stats-backend/internal/model"
	"fleet-stats-backend/internal/repository"
)

type geoRepository struct {
	pool *pgxpool.Pool
}

func NewGeoRepository(pool *pgxpool.Pool) (repository.GeoRepository, error) {
	if pool == nil {
		return nil, errors.New("PostgreSQL connection pool is required for GeoRepository")
	}
	return &geoRepository{pool: pool}, nil
}

func (r *geoRepository) LatestCitySnapshot(ctx context.Context) ([]model.GeoSnapshot, error) {
	rows, err := r.pool.Query(ctx, queryLatestCitySnapshot)
	if err != nil {
		return nil, fmt.Errorf("city snapshot query failed: %w", err)
	}
	defer rows.Close()
	return scanGeoSnapshots(rows)
}

func (r *geoRepository) RecentCountryCounts(ctx context.Context, limit int) ([]model.GeoSnapshot, error) {
	rows, err := r.pool.Query(ctx, queryRecentCountryCounts, limit)
	if err != nil {
		return nil, fmt.Errorf("country counts query failed: %w", err)
	}
	defer rows.Close()
	return scanGeoSnapshots(rows)
}

func scanGeoSnapshots(rows pgx.Rows) ([]model.GeoSnapshot, error) {
	snapshots := make([]model.GeoSnapshot, 0)
	for rows.Next() {
		var s model.GeoSnapshot
		if err := rows.Scan(&s.Name, &s.Count, &s.Lat, &s.Lon); err != nil {
			return nil, fmt.Errorf("failed to scan geo snapshot row: %w", err)
		}
		snapshots = append(snapshots, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating geo snapshot rows: %w", err)
	}
	return snapshots, nil
}
