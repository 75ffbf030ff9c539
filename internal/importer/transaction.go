package importer

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
)

// GLMTransaction is one on-chain transaction parsed from a CSV export.
// Columns: id,tx_hash,block_number,block_timestamp,from_address,to_address,
// value_wei,value_glm,gas_used,gas_price_wei,tx_type,created_at
// The leading id and trailing created_at are ignored.
type GLMTransaction struct {
	TxHash         string
	BlockNumber    *int64
	BlockTimestamp *string
	FromAddress    string
	ToAddress      string
	ValueWei       *string
	ValueGLM       float64
	GasUsed        *int64
	GasPriceWei    *string
	TxType         string
}

const queryUpsertTransaction = `
INSERT INTO glm_transactions
(tx_hash, block_number, block_timestamp, from_address, to_address, value_wei, value_glm, gas_used, gas_price_wei, tx_type)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
ON CONFLICT (tx_hash) DO UPDATE SET
	block_number = EXCLUDED.block_number,
	block_timestamp = EXCLUDED.block_timestamp,
	from_address = EXCLUDED.from_address,
	to_address = EXCLUDED.to_address,
	value_wei = EXCLUDED.value_wei,
	value_glm = EXCLUDED.value_glm,
	gas_used = EXCLUDED.gas_used,
	gas_price_wei = EXCLUDED.gas_price_wei,
	tx_type = EXCLUDED.tx_type`

type TransactionDomain struct{}

func (TransactionDomain) Name() string  { return "transactions" }
func (TransactionDomain) Table() string { return "glm_transactions" }

func (TransactionDomain) Load(path string) (Batch, []RowError, error) {
	records, rowErrs, rowNums, err := readCSVRows(path, 11)
	if err != nil {
		return nil, nil, err
	}

	txs := make([]GLMTransaction, 0, len(records))
	for i, record := range records {
		tx, err := parseTransactionRow(record)
		if err != nil {
			rowErrs = append(rowErrs, RowError{Row: rowNums[i], Err: err})
			continue
		}
		txs = append(txs, tx)
	}
	return transactionBatch(txs), rowErrs, nil
}

func parseTransactionRow(record []string) (GLMTransaction, error) {
	var tx GLMTransaction
	var err error

	tx.TxHash = strings.TrimSpace(record[1])
	if !strings.HasPrefix(tx.TxHash, "0x") || len(tx.TxHash) < 66 {
		return tx, fmt.Errorf("invalid transaction hash: %s", tx.TxHash)
	}

	if tx.BlockNumber, err = optInt(record[2]); err != nil {
		return tx, fmt.Errorf("block_number: %w", err)
	}
	// Blank timestamp/wei cells become NULL; an empty string would not cast.
	tx.BlockTimestamp = optStr(record[3])
	tx.FromAddress = strings.ToLower(strings.TrimSpace(record[4]))
	tx.ToAddress = strings.ToLower(strings.TrimSpace(record[5]))
	tx.ValueWei = optStr(record[6])

	glm, err := optFloat(record[7])
	if err != nil {
		return tx, fmt.Errorf("value_glm: %w", err)
	}
	if glm != nil {
		tx.ValueGLM = *glm
	}

	if tx.GasUsed, err = optInt(record[8]); err != nil {
		return tx, fmt.Errorf("gas_used: %w", err)
	}
	tx.GasPriceWei = optStr(record[9])
	tx.TxType = strings.TrimSpace(record[10])

	if tx.FromAddress == "" || tx.ToAddress == "" {
		return tx, fmt.Errorf("missing required fields")
	}
	return tx, nil
}

type transactionBatch []GLMTransaction

func (b transactionBatch) Len() int { return len(b) }

func (b transactionBatch) Preview(i int) string {
	tx := b[i]
	return fmt.Sprintf("%s... - %.6f GLM (%s)", tx.TxHash[:16], tx.ValueGLM, tx.TxType)
}

func (b transactionBatch) Insert(ctx context.Context, tx pgx.Tx) error {
	return sendInPages(ctx, tx, len(b), func(batch *pgx.Batch, i int) {
		t := b[i]
		batch.Queue(queryUpsertTransaction,
			t.TxHash, t.BlockNumber, t.BlockTimestamp, t.FromAddress, t.ToAddress,
			t.ValueWei, t.ValueGLM, t.GasUsed, t.GasPriceWei, t.TxType)
	})
}
