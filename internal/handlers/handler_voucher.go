package handlers

import (
	"log/slog"
	"net/http"

	"github.com/bluestar-trading/erp_backend/internal/core/domain"
	portssvc "github.com/bluestar-trading/erp_backend/internal/core/ports/services"
	"github.com/bluestar-trading/erp_backend/internal/dto"
	"github.com/bluestar-trading/erp_backend/internal/middleware"
	"github.com/bluestar-trading/erp_backend/internal/utils"
	"github.com/gin-gonic/gin"
)

const defaultPageSize = 20

// voucherHandler handles HTTP requests related to vouchers.
type voucherHandler struct {
	voucherService portssvc.VoucherSvcFacade
	policy         middleware.Policy
	posthog        *utils.PosthogClientWrapper
}

func newVoucherHandler(vs portssvc.VoucherSvcFacade, policy middleware.Policy, posthog *utils.PosthogClientWrapper) *voucherHandler {
	return &voucherHandler{
		voucherService: vs,
		policy:         policy,
		posthog:        posthog,
	}
}

// registerVoucherRoutes registers routes related to vouchers.
func registerVoucherRoutes(rg *gin.RouterGroup, vs portssvc.VoucherSvcFacade, policy middleware.Policy, posthog *utils.PosthogClientWrapper) {
	h := newVoucherHandler(vs, policy, posthog)

	vouchers := rg.Group("/vouchers")
	{
		vouchers.POST("", h.createVoucher)
		vouchers.GET("", h.listVouchers)
		vouchers.GET("/:id", h.getVoucher)
		vouchers.PATCH("/:id", h.updateVoucher)
	}
}

// createVoucher godoc
// @Summary Create a voucher
// @Description Creates a challan, invoice, bill or quotation. Totals are computed server side.
// @Description Creating a voucher directly as issued applies its ledger and stock impact immediately.
// @Tags vouchers
// @Accept json
// @Produce json
// @Param voucher body dto.CreateVoucherRequest true "Voucher details"
// @Success 201 {object} dto.VoucherResponse
// @Failure 400 {object} ErrorResponse "Invalid input format"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Role may not issue vouchers"
// @Failure 404 {object} ErrorResponse "Party, trip or item not found"
// @Failure 409 {object} ErrorResponse "Voucher number already used"
// @Failure 422 {object} ErrorResponse "Validation error"
// @Failure 500 {object} ErrorResponse "Failed to create voucher"
// @Security BearerAuth
// @Router /vouchers [post]
func (h *voucherHandler) createVoucher(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateVoucherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	if req.Status != "" && req.Status != domain.VoucherDraft {
		if !h.policy.Authorize(c, "vouchers", middleware.ActionIssue) {
			return
		}
	}

	logger.Info("Received request to create voucher",
		slog.String("voucher_type", string(req.VoucherType)),
		slog.String("party_id", req.PartyID),
		slog.Int("lines", len(req.Items)))

	voucher, err := h.voucherService.CreateVoucher(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, err, "Failed to create voucher")
		return
	}

	if voucher.Status == domain.VoucherIssued {
		h.trackIssued(c, voucher)
	}

	logger.Info("Voucher created", slog.String("voucher_id", voucher.VoucherID), slog.String("voucher_number", voucher.VoucherNumber))
	c.JSON(http.StatusCreated, dto.ToVoucherResponse(voucher))
}

// getVoucher godoc
// @Summary Get a voucher by ID
// @Description Retrieves a voucher with its line items
// @Tags vouchers
// @Produce json
// @Param id path string true "Voucher ID"
// @Success 200 {object} dto.VoucherResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Voucher not found"
// @Failure 500 {object} ErrorResponse "Failed to retrieve voucher"
// @Security BearerAuth
// @Router /vouchers/{id} [get]
func (h *voucherHandler) getVoucher(c *gin.Context) {
	voucher, err := h.voucherService.GetVoucher(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve voucher")
		return
	}
	c.JSON(http.StatusOK, dto.ToVoucherResponse(voucher))
}

// listVouchers godoc
// @Summary List vouchers
// @Description Lists vouchers newest first, optionally filtered by type
// @Tags vouchers
// @Produce json
// @Param skip query int false "Offset" default(0)
// @Param limit query int false "Page size" default(20)
// @Param type query string false "Voucher type" Enums(challan, invoice, bill, quotation)
// @Success 200 {object} dto.ListVouchersResponse
// @Failure 400 {object} ErrorResponse "Invalid query parameters"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Failed to list vouchers"
// @Security BearerAuth
// @Router /vouchers [get]
func (h *voucherHandler) listVouchers(c *gin.Context) {
	var params dto.ListVouchersParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, err)
		return
	}
	if params.Limit == 0 {
		params.Limit = defaultPageSize
	}

	var voucherType *domain.VoucherType
	if params.Type != "" {
		t := domain.VoucherType(params.Type)
		voucherType = &t
	}

	vouchers, err := h.voucherService.ListVouchers(c.Request.Context(), voucherType, params.Limit, params.Skip)
	if err != nil {
		respondError(c, err, "Failed to list vouchers")
		return
	}

	c.JSON(http.StatusOK, dto.ListVouchersResponse{
		Vouchers: dto.ToVoucherResponses(vouchers),
		Skip:     params.Skip,
		Limit:    params.Limit,
		Count:    len(vouchers),
	})
}

// updateVoucher godoc
// @Summary Update a voucher
// @Description Changes status and/or notes. Moving a draft to issued or cancelled is
// @Description restricted to admins and managers; leaving draft applies the voucher's impact exactly once.
// @Tags vouchers
// @Accept json
// @Produce json
// @Param id path string true "Voucher ID"
// @Param voucher body dto.UpdateVoucherRequest true "Fields to update"
// @Success 200 {object} dto.VoucherResponse
// @Failure 400 {object} ErrorResponse "Invalid input format"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Role may not issue vouchers"
// @Failure 404 {object} ErrorResponse "Voucher not found"
// @Failure 422 {object} ErrorResponse "Invalid status transition"
// @Failure 500 {object} ErrorResponse "Failed to update voucher"
// @Security BearerAuth
// @Router /vouchers/{id} [patch]
func (h *voucherHandler) updateVoucher(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	voucherID := c.Param("id")

	var req dto.UpdateVoucherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	if req.Status != nil && *req.Status != domain.VoucherDraft {
		if !h.policy.Authorize(c, "vouchers", middleware.ActionIssue) {
			return
		}
		current, err := h.voucherService.GetVoucher(c.Request.Context(), voucherID)
		if err != nil {
			respondError(c, err, "Failed to update voucher")
			return
		}
		// the approver is whoever took the voucher out of draft
		if current.Status == domain.VoucherDraft {
			req.ApprovedBy = &userID
		}
	}

	logger = logger.With(slog.String("voucher_id", voucherID))
	logger.Info("Received request to update voucher")

	voucher, err := h.voucherService.UpdateVoucher(c.Request.Context(), voucherID, req, userID)
	if err != nil {
		respondError(c, err, "Failed to update voucher")
		return
	}

	if req.Status != nil && *req.Status == domain.VoucherIssued {
		h.trackIssued(c, voucher)
	}

	logger.Info("Voucher updated", slog.String("status", string(voucher.Status)))
	c.JSON(http.StatusOK, dto.ToVoucherResponse(voucher))
}

func (h *voucherHandler) trackIssued(c *gin.Context, v *domain.Voucher) {
	middleware.PosthogEvent(c, h.posthog, "voucher_issued", map[string]any{
		"voucher_id":   v.VoucherID,
		"voucher_type": string(v.VoucherType),
		"grand_total":  v.GrandTotal.String(),
	})
}
