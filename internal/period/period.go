// Package period maps the requested reporting period to a lookback window and
// a concrete source table/column pair. There are two independent mappings:
// one for the hourly fleet-stats table and one for the distinct-node-count
// tables. Their month semantics differ (client-side re-aggregation vs a
// pre-aggregated daily table), so they are kept as separate lookup tables.
package period

import (
	"fmt"
	"time"
)

type Period string

const (
	Day   Period = "day"
	Week  Period = "week"
	Month Period = "month"
)

// Allowed is the literal list echoed in validation errors.
var Allowed = []Period{Day, Week, Month}

// Parse validates a period query parameter. An empty value defaults to day.
func Parse(s string) (Period, error) {
	switch Period(s) {
	case "":
		return Day, nil
	case Day, Week, Month:
		return Period(s), nil
	default:
		return "", fmt.Errorf("invalid period %q, allowed values: %v", s, Allowed)
	}
}

// FleetSource resolves a period against the hourly fleet-stats table.
type FleetSource struct {
	Lookback     time.Duration
	Table        string
	BucketColumn string
	// AggregateByDay re-aggregates hourly rows into calendar-day SUMs.
	// Month results are day-granularity sums, not hourly samples.
	AggregateByDay bool
}

var fleetSources = map[Period]FleetSource{
	Day:   {Lookback: 24 * time.Hour, Table: "hourly_gpu_stats", BucketColumn: "hour"},
	Week:  {Lookback: 7 * 24 * time.Hour, Table: "hourly_gpu_stats", BucketColumn: "hour"},
	Month: {Lookback: 31 * 24 * time.Hour, Table: "hourly_gpu_stats", BucketColumn: "hour", AggregateByDay: true},
}

// ResolveFleet returns the fleet-stats source for p. p must already be
// validated by Parse.
func ResolveFleet(p Period) FleetSource {
	return fleetSources[p]
}

// ScalarLookback returns the lookback window for the generic scalar-metrics
// table. The windows are intentionally asymmetric with the fleet path
// (365 days for day and month, 365 weeks for week); downstream consumers
// depend on the existing behavior.
func ScalarLookback(p Period) time.Duration {
	switch p {
	case Week:
		return 365 * 7 * 24 * time.Hour
	default:
		return 365 * 24 * time.Hour
	}
}

// DistinctSource resolves a period against the distinct-node-count tables.
// Unlike the fleet path, month reads a pre-aggregated daily table instead of
// re-aggregating hourly rows.
type DistinctSource struct {
	Lookback     time.Duration
	Table        string
	BucketColumn string
}

var distinctSources = map[Period]DistinctSource{
	Day:   {Lookback: 24 * time.Hour, Table: "hourly_distinct_counts", BucketColumn: "hour"},
	Week:  {Lookback: 7 * 24 * time.Hour, Table: "hourly_distinct_counts", BucketColumn: "hour"},
	Month: {Lookback: 31 * 24 * time.Hour, Table: "daily_distinct_counts", BucketColumn: "day"},
}

// ResolveDistinct returns the distinct-node-count source for p.
func ResolveDistinct(p Period) DistinctSource {
	return distinctSources[p]
}
