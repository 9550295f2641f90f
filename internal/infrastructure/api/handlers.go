package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/k-shtanenko/temperature-archive/internal/domain/entities"
	"github.com/k-shtanenko/temperature-archive/internal/domain/ports"
	"github.com/k-shtanenko/temperature-archive/internal/infrastructure/metrics"
	"github.com/k-shtanenko/temperature-archive/internal/pkg/logger"
)

const (
	opByStation          = "by_station"
	opByDate             = "by_date"
	opByMultipleStations = "by_multiple_stations"
	opAdvancedAnalysis   = "advanced_analysis"
	opExport             = "export"

	maxBodyBytes = 1 << 20
)

type APIHandler struct {
	service       ports.TemperatureService
	exporter      ports.PivotExporter
	scheduler     ports.Scheduler
	metrics       *metrics.Metrics
	healthTimeout time.Duration
	logger        logger.Logger
}

// NewAPIHandler accepts a nil exporter or scheduler; the related features are then off.
func NewAPIHandler(service ports.TemperatureService, exporter ports.PivotExporter, scheduler ports.Scheduler, m *metrics.Metrics, healthTimeout time.Duration, log logger.Logger) *APIHandler {
	return &APIHandler{
		service:       service,
		exporter:      exporter,
		scheduler:     scheduler,
		metrics:       m,
		healthTimeout: healthTimeout,
		logger:        log.WithField("component", "api_handler"),
	}
}

func (h *APIHandler) ByStation(c *gin.Context) {
	records, err := h.service.ByStation(c.Request.Context(), c.Query("station"), c.Query("start"), c.Query("end"))
	if err != nil {
		h.respondError(c, opByStation, err)
		return
	}
	h.respondSuccess(c, opByStation, len(records), toRecordResponses(records))
}

func (h *APIHandler) ByDate(c *gin.Context) {
	records, err := h.service.ByDate(c.Request.Context(), c.Query("date"))
	if err != nil {
		h.respondError(c, opByDate, err)
		return
	}
	h.respondSuccess(c, opByDate, len(records), toRecordResponses(records))
}

func (h *APIHandler) ByMultipleStations(c *gin.Context) {
	rows, err := h.service.ByMultipleStations(c.Request.Context(), c.Query("stations"), c.Query("start"), c.Query("end"))
	if err != nil {
		h.respondError(c, opByMultipleStations, err)
		return
	}
	h.respondSuccess(c, opByMultipleStations, len(rows), rows)
}

func (h *APIHandler) AdvancedAnalysis(c *gin.Context) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes))
	if err != nil {
		h.respondError(c, opAdvancedAnalysis, entities.InvalidBody("Invalid request body", err))
		return
	}

	records, err := h.service.AdvancedAnalysis(c.Request.Context(), body)
	if err != nil {
		h.respondError(c, opAdvancedAnalysis, err)
		return
	}
	h.respondSuccess(c, opAdvancedAnalysis, len(records), toAnalysisResponses(records))
}

// ExportMultipleStations serves the multi-station pivot table as a spreadsheet.
func (h *APIHandler) ExportMultipleStations(c *gin.Context) {
	ctx := c.Request.Context()

	rows, err := h.service.ByMultipleStations(ctx, c.Query("stations"), c.Query("start"), c.Query("end"))
	if err != nil {
		h.respondError(c, opExport, err)
		return
	}

	data, err := h.exporter.ExportPivotTable(ctx, rows)
	if err != nil {
		h.respondError(c, opExport, entities.Internal(fmt.Errorf("export pivot table: %w", err)))
		return
	}

	h.metrics.QueryOutcome(opExport, "ok")
	h.metrics.RowsReturned(opExport, len(rows))

	fileName := fmt.Sprintf("stations_%s.xlsx", time.Now().UTC().Format("20060102_150405"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", fileName))
	c.Data(http.StatusOK, h.exporter.ContentType(), data)
}

func (h *APIHandler) Stations(c *gin.Context) {
	c.JSON(http.StatusOK, SuccessResponse{Success: true, Data: h.service.Stations()})
}

func (h *APIHandler) HealthCheck(c *gin.Context) {
	ctx := c.Request.Context()
	if h.healthTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.healthTimeout)
		defer cancel()
	}

	health := HealthResponse{
		Status: "healthy",
		Time:   time.Now().UTC(),
		Services: map[string]string{
			"api": "healthy",
		},
	}

	if err := h.service.HealthCheck(ctx); err != nil {
		h.logger.Warnf("Store health check failed: %v", err)
		health.Status = "degraded"
		health.Services["store"] = "unhealthy"
	} else {
		health.Services["store"] = "healthy"
	}

	if h.scheduler != nil {
		if err := h.scheduler.HealthCheck(ctx); err != nil {
			h.logger.Warnf("Scheduler health check failed: %v", err)
			health.Status = "degraded"
			health.Services["scheduler"] = "unhealthy"
		} else {
			health.Services["scheduler"] = "healthy"
		}
	}

	status := http.StatusOK
	if health.Status != "healthy" {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, health)
}

func (h *APIHandler) MethodNotAllowed(c *gin.Context) {
	h.writeError(c, entities.MethodNotAllowed())
}

func (h *APIHandler) NotFound(c *gin.Context) {
	h.writeError(c, entities.NotFound("Not found"))
}

func (h *APIHandler) respondSuccess(c *gin.Context, operation string, rows int, data interface{}) {
	h.metrics.QueryOutcome(operation, "ok")
	h.metrics.RowsReturned(operation, rows)
	c.JSON(http.StatusOK, SuccessResponse{Success: true, Data: data})
}

// respondError writes the failure envelope. Internal details are logged and never
// sent to the client.
func (h *APIHandler) respondError(c *gin.Context, operation string, err error) {
	qe := entities.AsQueryError(err)
	h.metrics.QueryOutcome(operation, string(qe.Kind))

	log := h.logger.WithFields(map[string]interface{}{
		"operation":  operation,
		requestIDKey: c.GetString(requestIDKey),
	})
	if qe.Kind == entities.KindInternal {
		log.Errorf("Request failed: %v", err)
	} else {
		log.Debugf("Request rejected: %v", qe)
	}

	h.writeError(c, qe)
}

func (h *APIHandler) writeError(c *gin.Context, qe *entities.QueryError) {
	c.JSON(qe.Kind.HTTPStatus(), ErrorResponse{Success: false, Error: qe.Message})
}
