package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"fleet-stats-backend/internal/model"
	"fleet-stats-backend/internal/repository"
)

type loadStatRepository struct {
	pool *pgxpool.Pool
}

func NewLoadStatRepository(pool *pgxpool.Pool) (repository.LoadStatRepository, error) {
	if pool == nil {
		return nil, errors.New("PostgreSQL connection pool is required for LoadStatRepository")
	}
	return &loadStatRepository{pool: pool}, nil
}

func (r *loadStatRepository) InsertLoadStat(ctx context.Context, stat model.LoadStat) error {
	_, err := r.pool.Exec(ctx, queryInsertLoadStat, stat.NodeID, stat.CPULoad, stat.MemoryLoad, stat.TS)
	if err != nil {
		return fmt.Errorf("load stat insert failed: %w", err)
	}
	return nil
}
