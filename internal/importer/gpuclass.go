package importer

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// GPUClass is one pricing class parsed from a CSV export.
// Columns: gpu_class_id,batch_price,low_price,medium_price,high_price,
// gpu_type,gpu_class_name,vram_gb
type GPUClass struct {
	ID          string
	BatchPrice  *float64
	LowPrice    *float64
	MediumPrice *float64
	HighPrice   *float64
	GPUType     *string
	Name        *string
	VRAMGB      *int64
}

const queryUpsertGPUClass = `
INSERT INTO gpu_classes
(gpu_class_id, batch_price, low_price, medium_price, high_price, gpu_type, gpu_class_name, vram_gb)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (gpu_class_id) DO UPDATE SET
	batch_price = EXCLUDED.batch_price,
	low_price = EXCLUDED.low_price,
	medium_price = EXCLUDED.medium_price,
	high_price = EXCLUDED.high_price,
	gpu_type = EXCLUDED.gpu_type,
	gpu_class_name = EXCLUDED.gpu_class_name,
	vram_gb = EXCLUDED.vram_gb`

type GPUClassDomain struct{}

func (GPUClassDomain) Name() string  { return "GPU classes" }
func (GPUClassDomain) Table() string { return "gpu_classes" }

func (GPUClassDomain) Load(path string) (Batch, []RowError, error) {
	records, rowErrs, rowNums, err := readCSVRows(path, 8)
	if err != nil {
		return nil, nil, err
	}

	classes := make([]GPUClass, 0, len(records))
	for i, record := range records {
		class, err := parseGPUClassRow(record)
		if err != nil {
			rowErrs = append(rowErrs, RowError{Row: rowNums[i], Err: err})
			continue
		}
		classes = append(classes, class)
	}
	return gpuClassBatch(classes), rowErrs, nil
}

func parseGPUClassRow(record []string) (GPUClass, error) {
	var class GPUClass
	var err error

	id := optStr(record[0])
	if id == nil {
		return class, fmt.Errorf("missing required gpu_class_id")
	}
	class.ID = *id

	if class.BatchPrice, err = optFloat(record[1]); err != nil {
		return class, fmt.Errorf("batch_price: %w", err)
	}
	if class.LowPrice, err = optFloat(record[2]); err != nil {
		return class, fmt.Errorf("low_price: %w", err)
	}
	if class.MediumPrice, err = optFloat(record[3]); err != nil {
		return class, fmt.Errorf("medium_price: %w", err)
	}
	if class.HighPrice, err = optFloat(record[4]); err != nil {
		return class, fmt.Errorf("high_price: %w", err)
	}
	class.GPUType = optStr(record[5])
	class.Name = optStr(record[6])
	if class.VRAMGB, err = optInt(record[7]); err != nil {
		return class, fmt.Errorf("vram_gb: %w", err)
	}
	return class, nil
}

type gpuClassBatch []GPUClass

func (b gpuClassBatch) Len() int { return len(b) }

func (b gpuClassBatch) Preview(i int) string {
	c := b[i]
	name := "N/A"
	if c.Name != nil {
		name = *c.Name
	}
	vram := "N/A"
	if c.VRAMGB != nil {
		vram = fmt.Sprintf("%dGB", *c.VRAMGB)
	}
	price := "N/A"
	if c.MediumPrice != nil {
		price = fmt.Sprintf("$%.3f", *c.MediumPrice)
	}
	return fmt.Sprintf("%s - %s - %s", name, vram, price)
}

func (b gpuClassBatch) Insert(ctx context.Context, tx pgx.Tx) error {
	return sendInPages(ctx, tx, len(b), func(batch *pgx.Batch, i int) {
		c := b[i]
		batch.Queue(queryUpsertGPUClass,
			c.ID, c.BatchPrice, c.LowPrice, c.MediumPrice, c.HighPrice, c.GPUType, c.Name, c.VRAMGB)
	})
}

// UpsertGPUClasses writes classes in one transaction. Used by the CMS fetch
// tool, which gets its classes from Strapi rather than a CSV file.
func UpsertGPUClasses(ctx context.Context, pool *pgxpool.Pool, classes []GPUClass) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := gpuClassBatch(classes).Insert(ctx, tx); err != nil {
		return fmt.Errorf("upserting gpu classes: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing gpu classes: %w", err)
	}
	return nil
}
