package dto

import "time"

// LoadStatsRequest is the POST /metrics/load body. Timestamp is optional; the
// server assigns its own clock when it is absent.
type LoadStatsRequest struct {
	NodeID     string  `json:"node_id"`
	CPULoad    float64 `json:"cpu_load"`
	MemoryLoad float64 `json:"memory_load"`
	Timestamp  *string `json:"timestamp"`
}

// TransactionsRequest carries the validated query parameters of the demo
// transactions endpoint.
type TransactionsRequest struct {
	Limit int
	Start time.Time
	End   time.Time
}
