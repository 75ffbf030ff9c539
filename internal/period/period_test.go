package period_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleet-stats-backend/internal/period"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    period.Period
		expectError bool
	}{
		{name: "Day", input: "day", expected: period.Day},
		{name: "Week", input: "week", expected: period.Week},
		{name: "Month", input: "month", expected: period.Month},
		{name: "Empty Defaults To Day", input: "", expected: period.Day},
		{name: "Invalid Value", input: "year", expectError: true},
		{name: "Case Sensitive", input: "Day", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := period.Parse(tt.input)
			if tt.expectError {
				require.Error(t, err)
				// The error must list the allowed values verbatim.
				assert.Contains(t, err.Error(), "[day week month]")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, p)
		})
	}
}

func TestResolveFleet(t *testing.T) {
	day := period.ResolveFleet(period.Day)
	assert.Equal(t, 24*time.Hour, day.Lookback)
	assert.Equal(t, "hourly_gpu_stats", day.Table)
	assert.Equal(t, "hour", day.BucketColumn)
	assert.False(t, day.AggregateByDay)

	week := period.ResolveFleet(period.Week)
	assert.Equal(t, 7*24*time.Hour, week.Lookback)
	assert.Equal(t, "hourly_gpu_stats", week.Table)
	assert.False(t, week.AggregateByDay)

	// Month reads the same hourly table but re-aggregates by calendar day.
	month := period.ResolveFleet(period.Month)
	assert.Equal(t, 31*24*time.Hour, month.Lookback)
	assert.Equal(t, "hourly_gpu_stats", month.Table)
	assert.True(t, month.AggregateByDay)
}

func TestScalarLookback(t *testing.T) {
	// The scalar-metric path uses fixed 365-unit windows, not the fleet
	// windows. week is 365 *weeks*; this asymmetry is load-bearing.
	assert.Equal(t, 365*24*time.Hour, period.ScalarLookback(period.Day))
	assert.Equal(t, 365*7*24*time.Hour, period.ScalarLookback(period.Week))
	assert.Equal(t, 365*24*time.Hour, period.ScalarLookback(period.Month))
}

func TestResolveDistinct(t *testing.T) {
	day := period.ResolveDistinct(period.Day)
	assert.Equal(t, "hourly_distinct_counts", day.Table)
	assert.Equal(t, "hour", day.BucketColumn)
	assert.Equal(t, 24*time.Hour, day.Lookback)

	week := period.ResolveDistinct(period.Week)
	assert.Equal(t, "hourly_distinct_counts", week.Table)
	assert.Equal(t, 7*24*time.Hour, week.Lookback)

	// Month switches to the pre-aggregated daily table; no client-side
	// re-aggregation on this path.
	month := period.ResolveDistinct(period.Month)
	assert.Equal(t, "daily_distinct_counts", month.Table)
	assert.Equal(t, "day", month.BucketColumn)
	assert.Equal(t, 31*24*time.Hour, month.Lookback)
}
