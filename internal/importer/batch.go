package importer

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// pageSize bounds the number of statements pipelined per batch send. Paging
// is for throughput only; atomicity comes from the enclosing transaction.
const pageSize = 1000

// sendInPages queues one statement per row via queue and sends them to the
// database in pipelined pages inside tx.
func sendInPages(ctx context.Context, tx pgx.Tx, n int, queue func(batch *pgx.Batch, i int)) error {
	for offset := 0; offset < n; offset += pageSize {
		end := offset + pageSize
		if end > n {
			end = n
		}

		batch := &pgx.Batch{}
		for i := offset; i < end; i++ {
			queue(batch, i)
		}

		results := tx.SendBatch(ctx, batch)
		var execErr error
		for i := offset; i < end && execErr == nil; i++ {
			_, execErr = results.Exec()
		}
		closeErr := results.Close()
		if execErr != nil {
			return execErr
		}
		if closeErr != nil {
			return closeErr
		}
	}
	return nil
}
