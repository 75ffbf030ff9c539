// Package importer implements the shared runtime for the one-shot batch
// import tools. Each importer reads one external file, validates rows with a
// skip-and-continue policy, and upserts into its target table in a single
// transaction. Partial row errors never fail a run; file-load and database
// errors do.
package importer

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// ErrConfirmationDeclined signals that the operator answered no to the
// --clear prompt. Callers exit cleanly with status zero.
var ErrConfirmationDeclined = errors.New("import cancelled")

// RowError records a parse or validation failure for one input row. The row
// is skipped; the rest of the file still imports.
type RowError struct {
	Row int
	Err error
}

func (e RowError) Error() string {
	return fmt.Sprintf("Row %d: %v", e.Row, e.Err)
}

// Batch is a parsed set of rows ready for insertion.
type Batch interface {
	Len() int
	// Preview returns a one-line description of row i for dry-run output.
	Preview(i int) string
	// Insert writes every row inside tx. Implementations use multi-row
	// batched statements for throughput; atomicity comes from the enclosing
	// transaction.
	Insert(ctx context.Context, tx pgx.Tx) error
}

// Domain describes one import target: how to parse its file and which table
// it lands in.
type Domain interface {
	Name() string
	Table() string
	// Load parses the input file. Row-level failures are returned as
	// RowErrors; only a file-level failure returns a non-nil error.
	Load(path string) (Batch, []RowError, error)
}

// Options control a single import run.
type Options struct {
	DryRun bool
	Clear  bool
	// Stdin is read for the --clear confirmation prompt.
	Stdin io.Reader
	// Confirmed skips the prompt (for non-interactive use in tests).
	Confirmed bool
}

// Runner executes one import end to end.
type Runner struct {
	pool *pgxpool.Pool
}

func NewRunner(pool *pgxpool.Pool) *Runner {
	return &Runner{pool: pool}
}

// Run performs the import. Returns ErrConfirmationDeclined when the operator
// declines the --clear prompt; any other error means the run failed.
func (r *Runner) Run(ctx context.Context, d Domain, path string, opts Options) error {
	// batchID identifies this run in every log line, so skipped-row reports
	// can be correlated with the import that produced them.
	batchID := uuid.New()

	if opts.Clear && !opts.DryRun && !opts.Confirmed {
		ok, err := confirm(opts.Stdin, fmt.Sprintf("This will DELETE all existing %s data. Continue? (y/N): ", d.Name()))
		if err != nil {
			return fmt.Errorf("reading confirmation: %w", err)
		}
		if !ok {
			log.Info().Msg("Import cancelled")
			return ErrConfirmationDeclined
		}
	}

	batch, rowErrs, err := d.Load(path)
	if err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}

	log.Info().
		Str("batch_id", batchID.String()).
		Str("file", path).
		Int("parsed", batch.Len()).
		Int("row_errors", len(rowErrs)).
		Msgf("Parsed %s file", d.Name())

	if batch.Len() == 0 {
		log.Warn().Str("batch_id", batchID.String()).Msgf("No %s data to import", d.Name())
		reportRowErrors(batchID, rowErrs, 5)
		return nil
	}

	if opts.DryRun {
		log.Info().Msgf("DRY RUN - would import %d %s rows:", batch.Len(), d.Name())
		for i := 0; i < batch.Len() && i < 5; i++ {
			log.Info().Msgf("  %d. %s", i+1, batch.Preview(i))
		}
		if batch.Len() > 5 {
			log.Info().Msgf("  ... and %d more", batch.Len()-5)
		}
		reportRowErrors(batchID, rowErrs, 3)
		log.Info().Msg("Dry run completed - no data was modified")
		return nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if opts.Clear {
		log.Info().Str("table", d.Table()).Msg("Clearing existing data...")
		if _, err := tx.Exec(ctx, "TRUNCATE "+d.Table()+" RESTART IDENTITY CASCADE"); err != nil {
			return fmt.Errorf("truncate %s: %w", d.Table(), err)
		}
	}

	if err := batch.Insert(ctx, tx); err != nil {
		return fmt.Errorf("importing %s: %w", d.Name(), err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	var total int64
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM "+d.Table()).Scan(&total); err != nil {
		log.Warn().Err(err).Msg("Failed to count rows after import")
	}

	log.Info().
		Str("batch_id", batchID.String()).
		Int("imported", batch.Len()).
		Int("skipped", len(rowErrs)).
		Int64("table_total", total).
		Msgf("%s import completed", d.Name())
	reportRowErrors(batchID, rowErrs, 5)
	return nil
}

func reportRowErrors(batchID uuid.UUID, rowErrs []RowError, limit int) {
	if len(rowErrs) == 0 {
		return
	}
	log.Warn().Str("batch_id", batchID.String()).Msgf("Skipped %d rows with errors:", len(rowErrs))
	for i := 0; i < len(rowErrs) && i < limit; i++ {
		log.Warn().Msgf("  %s", rowErrs[i].Error())
	}
	if len(rowErrs) > limit {
		log.Warn().Msgf("  ... and %d more", len(rowErrs)-limit)
	}
}

func confirm(stdin io.Reader, prompt string) (bool, error) {
	if stdin == nil {
		return false, errors.New("no input available for confirmation")
	}
	fmt.Print(prompt)
	line, err := bufio.NewReader(stdin).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}
