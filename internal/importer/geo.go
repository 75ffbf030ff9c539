package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5"
)

// CitySnapshot is one geographic aggregate row parsed from a JSON backup.
type CitySnapshot struct {
	Name  string
	Count int64
	Lat   float64
	Lon   float64
}

const queryUpsertCitySnapshot = `
INSERT INTO city_snapshots (ts, name, count, lat, long)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (ts, name) DO UPDATE
SET count = EXCLUDED.count,
	lat = EXCLUDED.lat,
	long = EXCLUDED.long`

// GeoDomain loads city snapshots from JSON export files. Three layouts are
// accepted: the full export ({"tables": {"city_snapshots": {"data": [...]}}}),
// the simple export ({"data": [...]}), and a bare array of records.
type GeoDomain struct {
	// Now is the shared snapshot timestamp assigned to the whole import;
	// defaults to the wall clock.
	Now func() time.Time
}

func (GeoDomain) Name() string  { return "city" }
func (GeoDomain) Table() string { return "city_snapshots" }

func (d GeoDomain) Load(path string) (Batch, []RowError, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}

	records, err := extractCityRecords(raw)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now().UTC()
	if d.Now != nil {
		now = d.Now().UTC()
	}

	var rowErrs []RowError
	snapshots := make([]CitySnapshot, 0, len(records))
	for i, record := range records {
		snapshot, err := parseCityRecord(record)
		if err != nil {
			rowErrs = append(rowErrs, RowError{Row: i + 1, Err: err})
			continue
		}
		snapshots = append(snapshots, snapshot)
	}
	return &citySnapshotBatch{snapshots: snapshots, ts: now}, rowErrs, nil
}

func extractCityRecords(raw []byte) ([]map[string]json.RawMessage, error) {
	// Bare array of records.
	var asArray []map[string]json.RawMessage
	if err := json.Unmarshal(raw, &asArray); err == nil {
		return asArray, nil
	}

	var export struct {
		Tables map[string]struct {
			Data []map[string]json.RawMessage `json:"data"`
		} `json:"tables"`
		Data []map[string]json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &export); err != nil {
		return nil, fmt.Errorf("invalid JSON file: %w", err)
	}

	if table, ok := export.Tables["city_snapshots"]; ok && len(table.Data) > 0 {
		return table.Data, nil
	}
	if len(export.Data) > 0 {
		return export.Data, nil
	}
	return nil, fmt.Errorf("no city data found in JSON file")
}

func parseCityRecord(record map[string]json.RawMessage) (CitySnapshot, error) {
	var snapshot CitySnapshot

	// Exports name their columns inconsistently; accept the known aliases.
	name := jsonString(record, "city", "city_name", "name")
	if name == "" {
		return snapshot, fmt.Errorf("missing city name")
	}
	snapshot.Name = name

	if count, ok := jsonNumber(record, "count"); ok {
		snapshot.Count = int64(count)
	}

	lat, latOK := jsonNumber(record, "lat")
	lon, lonOK := jsonNumber(record, "lon", "long")
	if !latOK || !lonOK {
		return snapshot, fmt.Errorf("missing coordinates for %s", name)
	}
	snapshot.Lat = lat
	snapshot.Lon = lon
	return snapshot, nil
}

func jsonString(record map[string]json.RawMessage, keys ...string) string {
	for _, key := range keys {
		raw, ok := record[key]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil && s != "" {
			return s
		}
	}
	return ""
}

// jsonNumber reads the first present key as a number, tolerating values
// exported as quoted strings.
func jsonNumber(record map[string]json.RawMessage, keys ...string) (float64, bool) {
	for _, key := range keys {
		raw, ok := record[key]
		if !ok {
			continue
		}
		var f float64
		if err := json.Unmarshal(raw, &f); err == nil {
			return f, true
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			if _, err := fmt.Sscanf(s, "%g", &f); err == nil {
				return f, true
			}
		}
	}
	return 0, false
}

type citySnapshotBatch struct {
	snapshots []CitySnapshot
	ts        time.Time
}

func (b *citySnapshotBatch) Len() int { return len(b.snapshots) }

func (b *citySnapshotBatch) Preview(i int) string {
	s := b.snapshots[i]
	return fmt.Sprintf("%s - %d nodes (%.4f, %.4f)", s.Name, s.Count, s.Lat, s.Lon)
}

func (b *citySnapshotBatch) Insert(ctx context.Context, tx pgx.Tx) error {
	return sendInPages(ctx, tx, len(b.snapshots), func(batch *pgx.Batch, i int) {
		s := b.snapshots[i]
		batch.Queue(queryUpsertCitySnapshot, b.ts, s.Name, s.Count, s.Lat, s.Lon)
	})
}
