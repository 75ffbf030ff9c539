package importer

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

// NodePlan is one rental plan parsed from a CSV export.
// Columns: id,org_name,node_id,json_import_file_id,start_at,stop_at,
// invoice_amount,usd_per_hour,gpu_class_id,ram,cpu
// The leading id column is ignored; node_plan has its own serial key.
type NodePlan struct {
	OrgName          *string
	NodeID           string
	JSONImportFileID *int64
	StartAt          *int64
	StopAt           *int64
	InvoiceAmount    *float64
	USDPerHour       *float64
	GPUClassID       *string
	RAM              *float64
	CPU              *float64
}

const (
	// Plans have no natural key; re-imports rely on conflict-free inserts.
	queryInsertNodePlan = `
INSERT INTO node_plan
(org_name, node_id, json_import_file_id, start_at, stop_at, invoice_amount, usd_per_hour, gpu_class_id, ram, cpu)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
ON CONFLICT DO NOTHING`

	querySelectImportFileIDs = `SELECT id FROM json_import_file WHERE id = ANY($1)`

	queryInsertImportFile = `
INSERT INTO json_import_file (id, file_name)
VALUES ($1, $2)
ON CONFLICT (id) DO NOTHING`
)

type NodePlanDomain struct{}

func (NodePlanDomain) Name() string  { return "node plans" }
func (NodePlanDomain) Table() string { return "node_plan" }

func (NodePlanDomain) Load(path string) (Batch, []RowError, error) {
	records, rowErrs, rowNums, err := readCSVRows(path, 11)
	if err != nil {
		return nil, nil, err
	}

	plans := make([]NodePlan, 0, len(records))
	for i, record := range records {
		plan, err := parseNodePlanRow(record)
		if err != nil {
			rowErrs = append(rowErrs, RowError{Row: rowNums[i], Err: err})
			continue
		}
		plans = append(plans, plan)
	}
	return &nodePlanBatch{plans: plans, sourceFile: filepath.Base(path)}, rowErrs, nil
}

func parseNodePlanRow(record []string) (NodePlan, error) {
	var plan NodePlan
	var err error

	plan.OrgName = optStr(record[1])
	nodeID := optStr(record[2])
	if nodeID == nil {
		return plan, fmt.Errorf("missing required node_id")
	}
	plan.NodeID = *nodeID

	if plan.JSONImportFileID, err = optInt(record[3]); err != nil {
		return plan, fmt.Errorf("json_import_file_id: %w", err)
	}
	if plan.StartAt, err = optInt(record[4]); err != nil {
		return plan, fmt.Errorf("start_at: %w", err)
	}
	if plan.StopAt, err = optInt(record[5]); err != nil {
		return plan, fmt.Errorf("stop_at: %w", err)
	}
	if plan.InvoiceAmount, err = optFloat(record[6]); err != nil {
		return plan, fmt.Errorf("invoice_amount: %w", err)
	}
	if plan.USDPerHour, err = optFloat(record[7]); err != nil {
		return plan, fmt.Errorf("usd_per_hour: %w", err)
	}
	plan.GPUClassID = optStr(record[8])
	if plan.RAM, err = optFloat(record[9]); err != nil {
		return plan, fmt.Errorf("ram: %w", err)
	}
	if plan.CPU, err = optFloat(record[10]); err != nil {
		return plan, fmt.Errorf("cpu: %w", err)
	}

	if plan.StartAt != nil && plan.StopAt != nil && *plan.StartAt >= *plan.StopAt {
		return plan, fmt.Errorf("invalid time range (start_at >= stop_at)")
	}
	return plan, nil
}

type nodePlanBatch struct {
	plans      []NodePlan
	sourceFile string
}

func (b *nodePlanBatch) Len() int { return len(b.plans) }

func (b *nodePlanBatch) Preview(i int) string {
	p := b.plans[i]
	org := "N/A"
	if p.OrgName != nil {
		org = *p.OrgName
	}
	amount := 0.0
	if p.InvoiceAmount != nil {
		amount = *p.InvoiceAmount
	}
	var durationHours float64
	if p.StartAt != nil && p.StopAt != nil {
		durationHours = float64(*p.StopAt-*p.StartAt) / (1000 * 60 * 60)
	}
	return fmt.Sprintf("%s/%s - $%.2f (%.1fh)", org, truncateID(p.NodeID), amount, durationHours)
}

func (b *nodePlanBatch) Insert(ctx context.Context, tx pgx.Tx) error {
	// Plans reference json_import_file rows that may not exist yet; create
	// the missing parents first so the foreign key holds.
	if err := b.ensureImportFiles(ctx, tx); err != nil {
		return err
	}

	return sendInPages(ctx, tx, len(b.plans), func(batch *pgx.Batch, i int) {
		p := b.plans[i]
		batch.Queue(queryInsertNodePlan,
			p.OrgName, p.NodeID, p.JSONImportFileID, p.StartAt, p.StopAt,
			p.InvoiceAmount, p.USDPerHour, p.GPUClassID, p.RAM, p.CPU)
	})
}

func (b *nodePlanBatch) ensureImportFiles(ctx context.Context, tx pgx.Tx) error {
	referenced := make(map[int64]bool)
	for _, p := range b.plans {
		if p.JSONImportFileID != nil {
			referenced[*p.JSONImportFileID] = true
		}
	}
	if len(referenced) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(referenced))
	for id := range referenced {
		ids = append(ids, id)
	}

	rows, err := tx.Query(ctx, querySelectImportFileIDs, ids)
	if err != nil {
		return fmt.Errorf("querying json_import_file: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return fmt.Errorf("scanning json_import_file id: %w", err)
		}
		delete(referenced, id)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating json_import_file ids: %w", err)
	}
	rows.Close()

	if len(referenced) == 0 {
		return nil
	}

	missing := make([]int64, 0, len(referenced))
	for id := range referenced {
		missing = append(missing, id)
	}
	sort.Slice(missing, func(i, j int) bool { return missing[i] < missing[j] })
	log.Info().Ints64("ids", missing).Msg("Creating missing json_import_file records")

	for _, id := range missing {
		fileName := fmt.Sprintf("%s_batch_%d", b.sourceFile, id)
		if id == 0 {
			fileName = "unknown_import.csv"
		}
		if _, err := tx.Exec(ctx, queryInsertImportFile, id, fileName); err != nil {
			return fmt.Errorf("inserting json_import_file %d: %w", id, err)
		}
	}
	return nil
}

func truncateID(id string) string {
	if len(id) > 8 {
		return id[:8] + "..."
	}
	return id
}
