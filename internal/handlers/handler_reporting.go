package handlers

import (
	"net/http"

	portssvc "github.com/bluestar-trading/erp_backend/internal/core/ports/services"
	"github.com/bluestar-trading/erp_backend/internal/dto"
	"github.com/gin-gonic/gin"
)

// reportingHandler handles HTTP requests for aggregate views
type reportingHandler struct {
	reportingService portssvc.ReportingService
}

// newReportingHandler creates a new reportingHandler
func newReportingHandler(rs portssvc.ReportingService) *reportingHandler {
	return &reportingHandler{
		reportingService: rs,
	}
}

// registerReportingRoutes registers dashboard routes
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingService) {
	h := newReportingHandler(reportingService)

	dashboard := rg.Group("/dashboard")
	{
		dashboard.GET("/summary", h.getDashboardSummary)
	}
}

// getDashboardSummary godoc
// @Summary Dashboard summary
// @Description Receivables, payables, voucher counts by status and the number of low-stock items
// @Tags dashboard
// @Produce json
// @Success 200 {object} dto.DashboardSummaryResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Failed to build summary"
// @Security BearerAuth
// @Router /dashboard/summary [get]
func (h *reportingHandler) getDashboardSummary(c *gin.Context) {
	summary, err := h.reportingService.GetDashboardSummary(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to build summary")
		return
	}
	c.JSON(http.StatusOK, dto.ToDashboardSummaryResponse(summary))
}
