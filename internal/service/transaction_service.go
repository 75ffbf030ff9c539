package service

import (
	"time"

	"fleet-stats-backend/internal/dto"
	"fleet-stats-backend/internal/model"
	"fleet-stats-backend/internal/placeholder"
)

type TransactionService interface {
	// GetTransactions returns synthetic placeholder records for demo use.
	// Nothing is read from the database on this path.
	GetTransactions(req dto.TransactionsRequest) ([]model.PlaceholderTransaction, error)
}

type transactionService struct {
	now func() time.Time
}

func NewTransactionService() TransactionService {
	return &transactionService{
		now: func() time.Time { return time.Now().UTC() },
	}
}

func (s *transactionService) GetTransactions(req dto.TransactionsRequest) ([]model.PlaceholderTransaction, error) {
	if req.Limit < 1 || req.Limit > 100 {
		return nil, model.NewBadRequest("limit must be between 1 and 100")
	}

	end := req.End
	if end.IsZero() {
		end = s.now()
	}
	start := req.Start
	if start.IsZero() {
		start = end.Add(-24 * time.Hour)
	}

	return placeholder.RandomTransactions(start, end, req.Limit), nil
}
