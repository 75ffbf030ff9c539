package controller_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleet-stats-backend/internal/controller"
	"fleet-stats-backend/internal/dto"
	"fleet-stats-backend/internal/model"
	"fleet-stats-backend/internal/period"
	"fleet-stats-backend/internal/placeholder"
)

type fakeMetricQueryService struct {
	stats       map[string]model.Series
	statsErr    error
	unique      model.Series
	uniqueErr   error
	trend       model.Series
	trendErr    error
	trendMetric string
	period      period.Period
}

func (f *fakeMetricQueryService) GetStats(_ context.Context, p period.Period) (map[string]model.Series, error) {
	f.period = p
	return f.stats, f.statsErr
}

func (f *fakeMetricQueryService) GetUniqueNodes(_ context.Context, p period.Period) (model.Series, error) {
	f.period = p
	return f.unique, f.uniqueErr
}

func (f *fakeMetricQueryService) GetScalarTrend(_ context.Context, metricName string, p period.Period) (model.Series, error) {
	f.trendMetric = metricName
	f.period = p
	return f.trend, f.trendErr
}

type fakeGeoQueryService struct {
	cities    []model.GeoSnapshot
	countries []model.GeoSnapshot
	err       error
}

func (f *fakeGeoQueryService) GetCityCounts(context.Context) ([]model.GeoSnapshot, error) {
	return f.cities, f.err
}

func (f *fakeGeoQueryService) GetCountryCounts(context.Context) ([]model.GeoSnapshot, error) {
	return f.countries, f.err
}

type fakeLoadStatService struct {
	req dto.LoadStatsRequest
	err error
}

func (f *fakeLoadStatService) RecordLoadStat(_ context.Context, req dto.LoadStatsRequest) error {
	f.req = req
	return f.err
}

type fakeTransactionService struct {
	req dto.TransactionsRequest
}

func (f *fakeTransactionService) GetTransactions(req dto.TransactionsRequest) ([]model.PlaceholderTransaction, error) {
	f.req = req
	if req.Limit < 1 || req.Limit > 100 {
		return nil, model.NewBadRequest("limit must be between 1 and 100")
	}
	end := req.End
	if end.IsZero() {
		end = time.Now().UTC()
	}
	start := req.Start
	if start.IsZero() {
		start = end.Add(-24 * time.Hour)
	}
	return placeholder.RandomTransactions(start, end, req.Limit), nil
}

type fixture struct {
	router  *gin.Engine
	metrics *fakeMetricQueryService
	geo     *fakeGeoQueryService
	load    *fakeLoadStatService
	txs     *fakeTransactionService
}

func newFixture() *fixture {
	gin.SetMode(gin.TestMode)
	f := &fixture{
		metrics: &fakeMetricQueryService{},
		geo:     &fakeGeoQueryService{},
		load:    &fakeLoadStatService{},
		txs:     &fakeTransactionService{},
	}
	f.router = gin.New()
	c := controller.NewMetricController(f.metrics, f.geo, f.load, f.txs)
	controller.RegisterMetricRoutes(f.router, c)
	return f
}

func (f *fixture) do(method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func ptr(v float64) *float64 { return &v }

func TestInvalidPeriodIs400WithAllowedValues(t *testing.T) {
	f := newFixture()
	f.metrics.trend = model.Series{{TS: time.Now(), Value: ptr(1)}}

	for _, path := range []string{
		"/metrics/stats?period=year",
		"/metrics/unique_nodes?period=hourly",
		"/metrics/total_nodes?period=bogus",
		"/metrics/cpu_cores?period=quarter",
	} {
		w := f.do(http.MethodGet, path, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, path)
		assert.Contains(t, w.Body.String(), "[day week month]", path)
	}
}

func TestPeriodDefaultsToDay(t *testing.T) {
	f := newFixture()
	f.metrics.stats = map[string]model.Series{}

	w := f.do(http.MethodGet, "/metrics/stats", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, period.Day, f.metrics.period)
}

func TestGetStatsShape(t *testing.T) {
	f := newFixture()
	ts := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	f.metrics.stats = map[string]model.Series{
		"total_cpu_hours":    {{TS: ts, Value: ptr(12.5)}, {TS: ts.Add(time.Hour), Value: nil}},
		"total_ram_hours":    {},
		"total_time_seconds": {},
	}

	w := f.do(http.MethodGet, "/metrics/stats?period=week", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, period.Week, f.metrics.period)

	var body map[string][]map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	cpu := body["total_cpu_hours"]
	require.Len(t, cpu, 2)
	assert.Equal(t, 12.5, cpu[0]["value"])
	assert.Nil(t, cpu[1]["value"])

	// Empty metrics serialize as [] rather than null.
	require.Contains(t, body, "total_ram_hours")
	assert.NotNil(t, body["total_ram_hours"])
	assert.Empty(t, body["total_ram_hours"])
}

// The empty-result behavior intentionally diverges between endpoint families:
// scalar trends 404, unique_nodes returns 200 with an empty list. This is
// observed behavior of the existing contract, kept for compatibility.
func TestEmptyResultDivergence(t *testing.T) {
	f := newFixture()
	f.metrics.trendErr = model.NewNotFound("No data found for total_nodes")
	f.metrics.unique = model.Series{}

	w := f.do(http.MethodGet, "/metrics/total_nodes", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = f.do(http.MethodGet, "/metrics/unique_nodes", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"unique_nodes": []}`, w.Body.String())
}

func TestScalarTrendEndpointsMapMetricNames(t *testing.T) {
	tests := []struct {
		path   string
		metric string
		key    string
	}{
		{"/metrics/total_cpu_cores", "total_cores", "total_cpu_cores"},
		{"/metrics/cpu_cores", "total_cores", "cpu_cores"},
		{"/metrics/total_memory", "total_memory", "total_memory"},
		{"/metrics/total_nodes", "total_nodes", "total_nodes"},
		{"/metrics/total_disk", "total_disk", "total_disk"},
		{"/metrics/running_replica_count", "running_replica_count", "running_replica_count"},
		{"/metrics/running_min_disk", "running_min_disk", "running_min_disk"},
		{"/metrics/running_min_cpu", "running_min_cpu", "running_min_cpu"},
		{"/metrics/running_min_ram", "running_min_ram", "running_min_ram"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			f := newFixture()
			ts := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
			f.metrics.trend = model.Series{{TS: ts, Value: ptr(3)}}

			w := f.do(http.MethodGet, tt.path, "")
			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.metric, f.metrics.trendMetric)

			var body map[string][]map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			require.Contains(t, body, tt.key)
			require.Len(t, body[tt.key], 1)
		})
	}
}

func TestGetCityCounts(t *testing.T) {
	f := newFixture()
	f.geo.cities = []model.GeoSnapshot{
		{Name: "Berlin", Count: 12, Lat: 52.52, Lon: 13.405},
		{Name: "Warsaw", Count: 7, Lat: 52.23, Lon: 21.01},
	}

	w := f.do(http.MethodGet, "/metrics/city_counts", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body, 2)
	assert.Equal(t, "Berlin", body[0]["city"])
	assert.Equal(t, float64(12), body[0]["count"])
	assert.Equal(t, 13.405, body[0]["lon"])
}

func TestGetCountryCounts(t *testing.T) {
	f := newFixture()
	f.geo.countries = []model.GeoSnapshot{
		{Name: "Germany", Count: 40, Lat: 51.17, Lon: 10.45},
	}

	w := f.do(http.MethodGet, "/metrics/country_counts", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body, 1)
	assert.Equal(t, "Germany", body[0]["country"])
}

func TestGetTransactions(t *testing.T) {
	f := newFixture()

	w := f.do(http.MethodGet, "/metrics/transactions?limit=5", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Transactions []map[string]interface{} `json:"transactions"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body.Transactions, 5)

	w = f.do(http.MethodGet, "/metrics/transactions?limit=0", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(http.MethodGet, "/metrics/transactions?limit=101", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(http.MethodGet, "/metrics/transactions?limit=abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(http.MethodGet, "/metrics/transactions?start=not-a-date", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetTransactionsWindowParams(t *testing.T) {
	f := newFixture()

	w := f.do(http.MethodGet, "/metrics/transactions?limit=3&start=2026-01-01T00:00:00Z&end=2026-01-02T00:00:00Z", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), f.txs.req.Start)
	assert.Equal(t, time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC), f.txs.req.End)
}

func TestPostLoadStats(t *testing.T) {
	f := newFixture()

	w := f.do(http.MethodPost, "/metrics/load", `{"node_id":"n1","cpu_load":0.5,"memory_load":0.7}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.Equal(t, "n1", f.load.req.NodeID)
	assert.Equal(t, 0.5, f.load.req.CPULoad)

	w = f.do(http.MethodPost, "/metrics/load", `{not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	f.load.err = model.NewBadRequest("node_id is required")
	w = f.do(http.MethodPost, "/metrics/load", `{"cpu_load":0.5}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDatabaseErrorIs500(t *testing.T) {
	f := newFixture()
	f.metrics.statsErr = model.NewDatabaseError(assert.AnError)

	w := f.do(http.MethodGet, "/metrics/stats", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
