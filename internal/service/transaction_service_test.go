package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleet-stats-backend/internal/dto"
	"fleet-stats-backend/internal/model"
)

func TestGetTransactionsLimitBounds(t *testing.T) {
	svc := &transactionService{now: fixedNow}

	for _, limit := range []int{0, -1, 101} {
		_, err := svc.GetTransactions(dto.TransactionsRequest{Limit: limit})
		require.Error(t, err, "limit %d", limit)
		apiErr, ok := model.AsAPIError(err)
		require.True(t, ok)
		assert.Equal(t, model.KindBadRequest, apiErr.Kind)
	}

	for _, limit := range []int{1, 10, 100} {
		txs, err := svc.GetTransactions(dto.TransactionsRequest{Limit: limit})
		require.NoError(t, err, "limit %d", limit)
		assert.Len(t, txs, limit)
	}
}

func TestGetTransactionsDefaultWindow(t *testing.T) {
	svc := &transactionService{now: fixedNow}

	txs, err := svc.GetTransactions(dto.TransactionsRequest{Limit: 20})
	require.NoError(t, err)

	// Default window is the day ending now.
	start := fixedNow().Add(-24 * time.Hour)
	for _, tx := range txs {
		assert.False(t, tx.TS.Before(start))
		assert.False(t, tx.TS.After(fixedNow().Add(time.Second)))
	}
}

func TestGetTransactionsExplicitWindow(t *testing.T) {
	svc := &transactionService{now: fixedNow}

	end := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	start := end.Add(-2 * time.Hour)
	txs, err := svc.GetTransactions(dto.TransactionsRequest{Limit: 15, Start: start, End: end})
	require.NoError(t, err)
	for _, tx := range txs {
		assert.False(t, tx.TS.Before(start))
		assert.False(t, tx.TS.After(end.Add(time.Second)))
	}
}
