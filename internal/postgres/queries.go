// Package postgres implements the repository interfaces over a pgx pool.
// Table and column names are taken from the closed period resolvers, never
// from caller input; only values go through bind placeholders.
package postgres

const (
	// gpuGroupAll is the fixed dimension filter for fleet and distinct-count
	// queries. All current endpoints read the aggregate group.
	gpuGroupAll = "all"

	queryScalarTrend = `
SELECT ts, value FROM metrics_scalar
WHERE metric_name = $1 AND ts >= $2
ORDER BY ts ASC`

	// queryLatestCitySnapshot serves exactly one snapshot timestamp: the
	// maximum. The country query below intentionally does not do this.
	queryLatestCitySnapshot = `
SELECT name, count, lat, long
FROM city_snapshots
WHERE ts = (SELECT MAX(ts) FROM city_snapshots)`

	// queryRecentCountryCounts returns the newest rows regardless of snapshot
	// timestamp, so results may span several snapshots.
	queryRecentCountryCounts = `
SELECT name, count, lat, long
FROM country_snapshots
ORDER BY ts DESC
LIMIT $1`

	queryInsertLoadStat = `
INSERT INTO load_stats (node_id, cpu_load, memory_load, ts)
VALUES ($1, $2, $3, $4)`

	queryInsertPlaceholderTransaction = `
INSERT INTO placeholder_transactions
  (ts, provider_wallet, requester_wallet, tx, gpu, ram, vcpus, duration, invoiced_glm, invoiced_dollar)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
)
