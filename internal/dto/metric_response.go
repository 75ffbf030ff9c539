package dto

import "fleet-stats-backend/internal/model"

// SeriesResponse is the uniform series envelope: a single metric key mapped
// to an ordered list of {ts, value} points. Every series endpoint returns
// this shape; it is never nested or flattened differently.
type SeriesResponse map[string]model.Series

// NewSeriesResponse builds the single-key envelope, normalizing a nil series
// to an empty list so the JSON is [] rather than null.
func NewSeriesResponse(key string, series model.Series) SeriesResponse {
	if series == nil {
		series = model.Series{}
	}
	return SeriesResponse{key: series}
}

type CityCount struct {
	City  string  `json:"city"`
	Count int64   `json:"count"`
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
}

type CountryCount struct {
	Country string  `json:"country"`
	Count   int64   `json:"count"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

type TransactionsResponse struct {
	Transactions []model.PlaceholderTransaction `json:"transactions"`
}

type LoadStatsResponse struct {
	Status string `json:"status"`
}
