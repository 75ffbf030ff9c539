package model

import "time"

// SeriesPoint is one sample of a metric series. Value is nullable: a row can
// exist for an instant with no recorded value.
type SeriesPoint struct {
	TS    time.Time `json:"ts"`
	Value *float64  `json:"value"`
}

// Series is ordered ascending by TS. No gaps are synthesized; instants with
// no underlying row simply have no point.
type Series []SeriesPoint

// GeoSnapshot is one point-in-time geographic aggregate row, keyed by
// (ts, name) in the snapshot tables.
type GeoSnapshot struct {
	Name  string
	Count int64
	Lat   float64
	Lon   float64
}

// LoadStat is a node's instantaneous CPU/memory load sample.
type LoadStat struct {
	NodeID     string
	CPULoad    float64
	MemoryLoad float64
	TS         time.Time
}

// PlaceholderTransaction is a synthetic transaction record served by the demo
// transactions endpoint and seeded by the txgen tool.
type PlaceholderTransaction struct {
	TS              time.Time `json:"ts"`
	ProviderWallet  string    `json:"provider_wallet"`
	RequesterWallet string    `json:"requester_wallet"`
	Tx              string    `json:"tx"`
	GPU             string    `json:"gpu"`
	RAM             int       `json:"ram"`
	VCPUs           int       `json:"vcpus"`
	Duration        string    `json:"duration"`
	InvoicedGLM     float64   `json:"invoiced_glm"`
	InvoicedDollar  float64   `json:"invoiced_dollar"`
}
