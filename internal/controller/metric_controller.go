package controller

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"fleet-stats-backend/internal/dto"
	"fleet-stats-backend/internal/model"
	"fleet-stats-backend/internal/period"
	"fleet-stats-backend/internal/service"
	"fleet-stats-backend/internal/util"
)

type MetricController struct {
	metricQueryService service.MetricQueryService
	geoQueryService    service.GeoQueryService
	loadStatService    service.LoadStatService
	transactionService service.TransactionService
}

func NewMetricController(
	metricQueryService service.MetricQueryService,
	geoQueryService service.GeoQueryService,
	loadStatService service.LoadStatService,
	transactionService service.TransactionService,
) *MetricController {
	return &MetricController{
		metricQueryService: metricQueryService,
		geoQueryService:    geoQueryService,
		loadStatService:    loadStatService,
		transactionService: transactionService,
	}
}

// scalarTrendEndpoints maps URL suffix -> (metrics_scalar name, response key).
// total_cpu_cores and cpu_cores both read the total_cores metric; they differ
// only in the response key.
var scalarTrendEndpoints = []struct {
	path       string
	metricName string
	key        string
}{
	{"total_cpu_cores", "total_cores", "total_cpu_cores"},
	{"total_memory", "total_memory", "total_memory"},
	{"total_nodes", "total_nodes", "total_nodes"},
	{"total_disk", "total_disk", "total_disk"},
	{"running_replica_count", "running_replica_count", "running_replica_count"},
	{"running_min_disk", "running_min_disk", "running_min_disk"},
	{"running_min_cpu", "running_min_cpu", "running_min_cpu"},
	{"running_min_ram", "running_min_ram", "running_min_ram"},
	{"cpu_cores", "total_cores", "cpu_cores"},
}

func RegisterMetricRoutes(router *gin.Engine, controller *MetricController) {
	metrics := router.Group("/metrics")
	{
		metrics.GET("/stats", controller.GetStats)
		metrics.GET("/unique_nodes", controller.GetUniqueNodes)
		for _, ep := range scalarTrendEndpoints {
			metrics.GET("/"+ep.path, controller.scalarTrendHandler(ep.metricName, ep.key))
		}
		metrics.GET("/city_counts", controller.GetCityCounts)
		metrics.GET("/country_counts", controller.GetCountryCounts)
		metrics.GET("/transactions", controller.GetTransactions)
		metrics.POST("/load", controller.PostLoadStats)
	}
}

// GetStats returns the composite mapping of the five fixed fleet metrics to
// their series for the requested period. Metrics without rows come back as
// empty lists with HTTP 200.
func (c *MetricController) GetStats(ctx *gin.Context) {
	p, ok := c.parsePeriod(ctx)
	if !ok {
		return
	}

	result, err := c.metricQueryService.GetStats(ctx.Request.Context(), p)
	if err != nil {
		respondError(ctx, err, "Failed to get fleet stats")
		return
	}
	ctx.JSON(http.StatusOK, result)
}

// GetUniqueNodes returns distinct node counts. An empty window is HTTP 200
// with an empty list, unlike the scalar trend endpoints.
func (c *MetricController) GetUniqueNodes(ctx *gin.Context) {
	p, ok := c.parsePeriod(ctx)
	if !ok {
		return
	}

	series, err := c.metricQueryService.GetUniqueNodes(ctx.Request.Context(), p)
	if err != nil {
		respondError(ctx, err, "Failed to get unique node counts")
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSeriesResponse("unique_nodes", series))
}

// scalarTrendHandler builds the handler for one scalar-metrics endpoint.
// These endpoints return 404 when the window holds no rows.
func (c *MetricController) scalarTrendHandler(metricName, key string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		p, ok := c.parsePeriod(ctx)
		if !ok {
			return
		}

		series, err := c.metricQueryService.GetScalarTrend(ctx.Request.Context(), metricName, p)
		if err != nil {
			respondError(ctx, err, "Failed to get "+key)
			return
		}
		ctx.JSON(http.StatusOK, dto.NewSeriesResponse(key, series))
	}
}

func (c *MetricController) GetCityCounts(ctx *gin.Context) {
	snapshots, err := c.geoQueryService.GetCityCounts(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err, "Failed to get city counts")
		return
	}

	counts := make([]dto.CityCount, 0, len(snapshots))
	for _, s := range snapshots {
		counts = append(counts, dto.CityCount{City: s.Name, Count: s.Count, Lat: s.Lat, Lon: s.Lon})
	}
	ctx.JSON(http.StatusOK, counts)
}

func (c *MetricController) GetCountryCounts(ctx *gin.Context) {
	snapshots, err := c.geoQueryService.GetCountryCounts(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err, "Failed to get country counts")
		return
	}

	counts := make([]dto.CountryCount, 0, len(snapshots))
	for _, s := range snapshots {
		counts = append(counts, dto.CountryCount{Country: s.Name, Count: s.Count, Lat: s.Lat, Lon: s.Lon})
	}
	ctx.JSON(http.StatusOK, counts)
}

// GetTransactions serves synthetic placeholder transactions for demos.
func (c *MetricController) GetTransactions(ctx *gin.Context) {
	limitStr := ctx.DefaultQuery("limit", "10")
	limit, err := strconv.Atoi(limitStr)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, model.NewResponse("limit must be an integer", nil))
		return
	}

	var start, end time.Time
	if s := ctx.Query("start"); s != "" {
		start, err = util.ParseTimeFlexible(s)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, model.NewResponse("invalid start format. Use ISO 8601 or epoch milliseconds", nil))
			return
		}
	}
	if e := ctx.Query("end"); e != "" {
		end, err = util.ParseTimeFlexible(e)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, model.NewResponse("invalid end format. Use ISO 8601 or epoch milliseconds", nil))
			return
		}
	}

	txs, err := c.transactionService.GetTransactions(dto.TransactionsRequest{Limit: limit, Start: start, End: end})
	if err != nil {
		respondError(ctx, err, "Failed to get transactions")
		return
	}
	ctx.JSON(http.StatusOK, dto.TransactionsResponse{Transactions: txs})
}

// PostLoadStats appends one node load sample with a server-assigned timestamp
// unless the body carries one.
func (c *MetricController) PostLoadStats(ctx *gin.Context) {
	var req dto.LoadStatsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, model.NewResponse("invalid request body", nil))
		return
	}

	if err := c.loadStatService.RecordLoadStat(ctx.Request.Context(), req); err != nil {
		respondError(ctx, err, "Failed to record load stats")
		return
	}
	ctx.JSON(http.StatusOK, dto.LoadStatsResponse{Status: "ok"})
}

// parsePeriod validates the period query parameter, writing the 400 response
// (with the allowed-values list) itself on failure.
func (c *MetricController) parsePeriod(ctx *gin.Context) (period.Period, bool) {
	p, err := period.Parse(ctx.DefaultQuery("period", "day"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, model.NewResponse(err.Error(), nil))
		return "", false
	}
	return p, true
}

func respondError(ctx *gin.Context, err error, fallback string) {
	if apiErr, ok := model.AsAPIError(err); ok {
		if apiErr.Kind == model.KindDatabase {
			log.Error().Err(err).Msg(fallback)
			ctx.JSON(apiErr.Status(), model.NewResponse(fallback, nil))
			return
		}
		ctx.JSON(apiErr.Status(), model.NewResponse(apiErr.Message, nil))
		return
	}
	log.Error().Err(err).Msg(fallback)
	ctx.JSON(http.StatusInternalServerError, model.NewResponse(fallback, nil))
}
