package placeholder_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleet-stats-backend/internal/placeholder"
)

func TestRandomTransactions(t *testing.T) {
	end := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	start := end.Add(-24 * time.Hour)

	txs := placeholder.RandomTransactions(start, end, 25)
	require.Len(t, txs, 25)

	for _, tx := range txs {
		assert.False(t, tx.TS.Before(start), "ts %v before window start", tx.TS)
		assert.False(t, tx.TS.After(end.Add(time.Second)), "ts %v after window end", tx.TS)
		assert.True(t, strings.HasPrefix(tx.ProviderWallet, "0x"))
		assert.True(t, strings.HasPrefix(tx.Tx, "0x"))
		assert.GreaterOrEqual(t, tx.InvoicedGLM, 0.5)
		assert.LessOrEqual(t, tx.InvoicedGLM, 10.0)
		assert.NotEmpty(t, tx.GPU)
		assert.NotZero(t, tx.RAM)
		assert.NotZero(t, tx.VCPUs)
		assert.Regexp(t, `^\d+:\d{2}:00$`, tx.Duration)
	}
}

func TestRandomTransactionsDegenerateWindow(t *testing.T) {
	// start == end must not panic; all timestamps collapse to the instant.
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	txs := placeholder.RandomTransactions(at, at, 3)
	require.Len(t, txs, 3)
}

func TestSeedTransactions(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	txs := placeholder.SeedTransactions(now, 103, 31)
	require.Len(t, txs, 103)

	windowStart := now.AddDate(0, 0, -31)
	for i, tx := range txs {
		assert.False(t, tx.TS.Before(windowStart))
		assert.False(t, tx.TS.After(now))
		if i > 0 {
			// Evenly spaced seed rows never go backwards.
			assert.False(t, tx.TS.Before(txs[i-1].TS))
		}
		assert.Len(t, tx.Tx, 66)
		assert.Len(t, tx.ProviderWallet, 42)
	}

	// Hashes are generated per row, not drawn from a fixed pool.
	seen := make(map[string]bool)
	for _, tx := range txs {
		assert.False(t, seen[tx.Tx], "duplicate tx hash %s", tx.Tx)
		seen[tx.Tx] = true
	}
}
