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

type placeholderRepository struct {
	pool *pgxpool.Pool
}

func NewPlaceholderRepository(pool *pgxpool.Pool) (repository.PlaceholderRepository, error) {
	if pool == nil {
		return nil, errors.New("PostgreSQL connection pool is required for PlaceholderRepository")
	}
	return &placeholderRepository{pool: pool}, nil
}

func (r *placeholderRepository) ReplaceTransactions(ctx context.Context, txs []model.PlaceholderTransaction) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "TRUNCATE placeholder_transactions"); err != nil {
		return fmt.Errorf("clearing placeholder transactions: %w", err)
	}

	batch := &pgx.Batch{}
	for _, t := range txs {
		batch.Queue(queryInsertPlaceholderTransaction,
			t.TS, t.ProviderWallet, t.RequesterWallet, t.Tx,
			t.GPU, t.RAM, t.VCPUs, t.Duration, t.InvoicedGLM, t.InvoicedDollar)
	}
	results := tx.SendBatch(ctx, batch)
	for range txs {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return fmt.Errorf("inserting placeholder transaction: %w", err)
		}
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("closing batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing placeholder transactions: %w", err)
	}
	return nil
}
