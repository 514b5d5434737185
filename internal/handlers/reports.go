package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"campus-kpi-tracker/internal/metrics"
	"campus-kpi-tracker/internal/models"
	"campus-kpi-tracker/internal/report"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ReportHandler renders downloadable KPI reports
type ReportHandler struct {
	builder *report.Builder
	log     *zap.Logger
}

func NewReportHandler(builder *report.Builder, log *zap.Logger) *ReportHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &ReportHandler{builder: builder, log: log.Named("reports")}
}

// Export serves /api/reports/:file where file is <metric>.pdf or <metric>.xlsx
func (h *ReportHandler) Export(c *gin.Context) {
	name, format, ok := strings.Cut(c.Param("file"), ".")
	if !ok || (format != report.FormatPDF && format != report.FormatXLSX) {
		respondError(c, models.Invalid("file", "expected <metric>.pdf or <metric>.xlsx"))
		return
	}
	kind, ok := models.ParseMetricKind(name)
	if !ok {
		respondError(c, models.Invalid("metric", "unknown metric %q", name))
		return
	}
	year, err := queryYear(c)
	if err != nil {
		respondError(c, err)
		return
	}

	start := time.Now()
	rep, err := h.builder.Build(c.Request.Context(), report.Request{
		Metric:   kind,
		Year:     year,
		Location: strings.TrimSpace(c.Query("location")),
		From:     c.Query("from"),
		To:       c.Query("to"),
	})
	if err != nil {
		metrics.ObserveExport(format, start, err)
		respondError(c, err)
		return
	}

	var body []byte
	if format == report.FormatPDF {
		body, err = report.RenderPDF(rep)
	} else {
		body, err = report.RenderXLSX(rep)
	}
	metrics.ObserveExport(format, start, err)
	if err != nil {
		respondError(c, fmt.Errorf("render %s report: %w", format, err))
		return
	}

	h.log.Info("Reports: exported",
		zap.String("metric", string(kind)),
		zap.String("format", format),
		zap.Int("records", len(rep.Records)),
		zap.Int("bytes", len(body)))

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, report.Filename(rep, format)))
	c.Data(http.StatusOK, report.ContentType(format), body)
}
