package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rentledger/rentledger/internal/apperrors"
	"github.com/rentledger/rentledger/internal/core/domain"
	portssvc "github.com/rentledger/rentledger/internal/core/ports/services"
	"github.com/rentledger/rentledger/internal/export"
	"github.com/rentledger/rentledger/internal/middleware"
)

// reportingHandler handles HTTP requests for the read-only report surface,
// JSON and CSV download alike.
type reportingHandler struct {
	reportingService portssvc.ReportingService
	renderer         *export.Renderer
}

// registerReportingRoutes registers routes related to financial reports.
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingService, currencyCode string) {
	h := &reportingHandler{
		reportingService: reportingService,
		renderer:         export.NewRenderer(currencyCode),
	}

	reports := rg.Group("/reports")
	{
		reports.GET("/profit-loss", h.profitLoss)
		reports.GET("/profit-loss/export", h.profitLossExport)
		reports.GET("/net-profit", h.netProfit)
		reports.GET("/net-profit/export", h.netProfitExport)
		reports.GET("/roe", h.returnOnEquity)
		reports.GET("/roe/export", h.returnOnEquityExport)
		reports.GET("/trend/income", h.incomeTrend)
		reports.GET("/trend/expense", h.expenseTrend)
		reports.GET("/trend/income/export", h.incomeTrendExport)
		reports.GET("/trend/expense/export", h.expenseTrendExport)
	}
}

func (h *reportingHandler) writeCSV(c *gin.Context, table export.Table) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", table.Name+".csv"))
	c.Status(http.StatusOK)
	if err := h.renderer.WriteCSV(c.Writer, table); err != nil {
		logger.Error("Failed to stream report csv", slog.String("error", err.Error()))
	}
}

func (h *reportingHandler) profitLossReport(c *gin.Context) (*domain.ProfitLossReport, bool) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	from, err := time.Parse("2006-01-02", c.Query("from"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or missing 'from' date, want YYYY-MM-DD"})
		return nil, false
	}
	to, err := time.Parse("2006-01-02", c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or missing 'to' date, want YYYY-MM-DD"})
		return nil, false
	}

	report, err := h.reportingService.ProfitLossByProperty(c.Request.Context(), from, to, c.Query("propertyID"))
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to build profit and loss report", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build report"})
		}
		return nil, false
	}
	return report, true
}

// profitLoss godoc
// @Summary Profit and loss by property
// @Description Totals income and expenses per property over a date range
// @Tags reports
// @Produce  json
// @Param   from query string true "Inclusive start date (2006-01-02)"
// @Param   to query string true "Inclusive end date (2006-01-02)"
// @Param   propertyID query string false "Limit to one property"
// @Success 200 {object} domain.ProfitLossReport
// @Failure 400 {object} map[string]string "Invalid dates"
// @Failure 500 {object} map[string]string "Failed to build report"
// @Security BearerAuth
// @Router /reports/profit-loss [get]
func (h *reportingHandler) profitLoss(c *gin.Context) {
	report, ok := h.profitLossReport(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, report)
}

// profitLossExport godoc
// @Summary Profit and loss CSV download
// @Tags reports
// @Produce  text/csv
// @Param   from query string true "Inclusive start date (2006-01-02)"
// @Param   to query string true "Inclusive end date (2006-01-02)"
// @Param   propertyID query string false "Limit to one property"
// @Success 200 {string} string "CSV payload"
// @Security BearerAuth
// @Router /reports/profit-loss/export [get]
func (h *reportingHandler) profitLossExport(c *gin.Context) {
	report, ok := h.profitLossReport(c)
	if !ok {
		return
	}
	h.writeCSV(c, export.ProfitLossTable(*report))
}

func (h *reportingHandler) netProfitReport(c *gin.Context) (*domain.NetProfitReport, bool) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	lookbackYears := 0
	if raw := c.Query("lookbackYears"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'lookbackYears'"})
			return nil, false
		}
		lookbackYears = n
	}

	anchor := time.Now().UTC()
	if raw := c.Query("anchor"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'anchor' date, want YYYY-MM-DD"})
			return nil, false
		}
		anchor = t
	}

	var report *domain.NetProfitReport
	var err error
	if propertyID := c.Query("propertyID"); propertyID != "" {
		report, err = h.reportingService.NetProfitForProperty(c.Request.Context(), propertyID, lookbackYears, anchor)
	} else {
		report, err = h.reportingService.NetProfitByProperty(c.Request.Context(), lookbackYears, anchor)
	}
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to build net profit report", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build report"})
		}
		return nil, false
	}
	return report, true
}

// netProfit godoc
// @Summary Net profit ranking
// @Description Ranks properties by net profit over a lookback window of whole years
// @Tags reports
// @Produce  json
// @Param   lookbackYears query int false "Window in years (0, 1, 3, 5, 10, 15); 0 means all history"
// @Param   anchor query string false "Anchor date (2006-01-02), defaults to today"
// @Param   propertyID query string false "Limit to one property"
// @Success 200 {object} domain.NetProfitReport
// @Failure 400 {object} map[string]string "Invalid window or anchor"
// @Failure 500 {object} map[string]string "Failed to build report"
// @Security BearerAuth
// @Router /reports/net-profit [get]
func (h *reportingHandler) netProfit(c *gin.Context) {
	report, ok := h.netProfitReport(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, report)
}

// netProfitExport godoc
// @Summary Net profit CSV download
// @Tags reports
// @Produce  text/csv
// @Param   lookbackYears query int false "Window in years; 0 means all history"
// @Param   anchor query string false "Anchor date (2006-01-02), defaults to today"
// @Param   propertyID query string false "Limit to one property"
// @Success 200 {string} string "CSV payload"
// @Security BearerAuth
// @Router /reports/net-profit/export [get]
func (h *reportingHandler) netProfitExport(c *gin.Context) {
	report, ok := h.netProfitReport(c)
	if !ok {
		return
	}
	h.writeCSV(c, export.NetProfitTable(*report))
}

func (h *reportingHandler) roeReport(c *gin.Context) (*domain.ReturnOnEquityReport, bool) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or missing 'year'"})
		return nil, false
	}

	source := domain.ValuationSource(c.DefaultQuery("source", string(domain.ValuationZillow)))

	report, err := h.reportingService.ReturnOnEquity(c.Request.Context(), year, source, c.Query("propertyID"))
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to build ROE report", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build report"})
		}
		return nil, false
	}
	return report, true
}

// returnOnEquity godoc
// @Summary Return on equity by property
// @Description Computes per-property ROE for one year against one valuation source
// @Tags reports
// @Produce  json
// @Param   year query int true "Calendar year"
// @Param   source query string false "Valuation source (ZILLOW or REDFIN), default ZILLOW"
// @Param   propertyID query string false "Limit to one property"
// @Success 200 {object} domain.ReturnOnEquityReport
// @Failure 400 {object} map[string]string "Invalid year or source"
// @Failure 500 {object} map[string]string "Failed to build report"
// @Security BearerAuth
// @Router /reports/roe [get]
func (h *reportingHandler) returnOnEquity(c *gin.Context) {
	report, ok := h.roeReport(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, report)
}

// returnOnEquityExport godoc
// @Summary Return on equity CSV download
// @Tags reports
// @Produce  text/csv
// @Param   year query int true "Calendar year"
// @Param   source query string false "Valuation source (ZILLOW or REDFIN), default ZILLOW"
// @Param   propertyID query string false "Limit to one property"
// @Success 200 {string} string "CSV payload"
// @Security BearerAuth
// @Router /reports/roe/export [get]
func (h *reportingHandler) returnOnEquityExport(c *gin.Context) {
	report, ok := h.roeReport(c)
	if !ok {
		return
	}
	h.writeCSV(c, export.ReturnOnEquityTable(*report))
}

func (h *reportingHandler) trendReport(c *gin.Context, expense bool) (*domain.CategoryTrendReport, bool) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	categoryID := c.Query("categoryID")
	propertyID := c.Query("propertyID")

	var report *domain.CategoryTrendReport
	var err error
	if expense {
		report, err = h.reportingService.ExpenseTrendByYear(c.Request.Context(), categoryID, propertyID)
	} else {
		report, err = h.reportingService.IncomeTrendByYear(c.Request.Context(), categoryID, propertyID)
	}
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to build trend report", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build report"})
		}
		return nil, false
	}
	return report, true
}

// incomeTrend godoc
// @Summary Income category trend by year
// @Tags reports
// @Produce  json
// @Param   categoryID query string true "Category ID"
// @Param   propertyID query string false "Limit to one property"
// @Success 200 {object} domain.CategoryTrendReport
// @Failure 400 {object} map[string]string "Missing categoryID"
// @Failure 500 {object} map[string]string "Failed to build report"
// @Security BearerAuth
// @Router /reports/trend/income [get]
func (h *reportingHandler) incomeTrend(c *gin.Context) {
	report, ok := h.trendReport(c, false)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, report)
}

// expenseTrend godoc
// @Summary Expense category trend by year
// @Description Display values flip expense magnitudes positive for charting
// @Tags reports
// @Produce  json
// @Param   categoryID query string true "Category ID"
// @Param   propertyID query string false "Limit to one property"
// @Success 200 {object} domain.CategoryTrendReport
// @Failure 400 {object} map[string]string "Missing categoryID"
// @Failure 500 {object} map[string]string "Failed to build report"
// @Security BearerAuth
// @Router /reports/trend/expense [get]
func (h *reportingHandler) expenseTrend(c *gin.Context) {
	report, ok := h.trendReport(c, true)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, report)
}

// incomeTrendExport godoc
// @Summary Income trend CSV download
// @Tags reports
// @Produce  text/csv
// @Param   categoryID query string true "Category ID"
// @Param   propertyID query string false "Limit to one property"
// @Success 200 {string} string "CSV payload"
// @Security BearerAuth
// @Router /reports/trend/income/export [get]
func (h *reportingHandler) incomeTrendExport(c *gin.Context) {
	report, ok := h.trendReport(c, false)
	if !ok {
		return
	}
	h.writeCSV(c, export.CategoryTrendTable(*report))
}

// expenseTrendExport godoc
// @Summary Expense trend CSV download
// @Tags reports
// @Produce  text/csv
// @Param   categoryID query string true "Category ID"
// @Param   propertyID query string false "Limit to one property"
// @Success 200 {string} string "CSV payload"
// @Security BearerAuth
// @Router /reports/trend/expense/export [get]
func (h *reportingHandler) expenseTrendExport(c *gin.Context) {
	report, ok := h.trendReport(c, true)
	if !ok {
		return
	}
	h.writeCSV(c, export.CategoryTrendTable(*report))
}
