package handlers

import (
	"log/slog"
	"net/http"

	"github.com/bluestar-trading/erp_backend/internal/core/domain"
	portssvc "github.com/bluestar-trading/erp_backend/internal/core/ports/services"
	"github.com/bluestar-trading/erp_backend/internal/dto"
	"github.com/bluestar-trading/erp_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// partyHandler handles HTTP requests related to customers and suppliers.
type partyHandler struct {
	partyService       portssvc.PartySvcFacade
	transactionService portssvc.TransactionReaderSvc
}

func newPartyHandler(ps portssvc.PartySvcFacade, ts portssvc.TransactionReaderSvc) *partyHandler {
	return &partyHandler{
		partyService:       ps,
		transactionService: ts,
	}
}

// registerPartyRoutes registers routes related to parties.
func registerPartyRoutes(rg *gin.RouterGroup, ps portssvc.PartySvcFacade, ts portssvc.TransactionReaderSvc, policy middleware.Policy) {
	h := newPartyHandler(ps, ts)

	parties := rg.Group("/parties")
	{
		parties.POST("", h.createParty)
		parties.GET("", h.listParties)
		parties.GET("/:id", h.getParty)
		parties.PUT("/:id", policy.RequirePolicy("parties", middleware.ActionUpdate), h.updateParty)
		parties.GET("/:id/transactions", h.listPartyTransactions)
	}
}

// createParty godoc
// @Summary Create a party
// @Description Creates a customer or supplier. The party code (P-001...) is generated.
// @Tags parties
// @Accept json
// @Produce json
// @Param party body dto.CreatePartyRequest true "Party details"
// @Success 201 {object} dto.PartyResponse
// @Failure 400 {object} ErrorResponse "Invalid input format"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 422 {object} ErrorResponse "Validation error"
// @Failure 500 {object} ErrorResponse "Failed to create party"
// @Security BearerAuth
// @Router /parties [post]
func (h *partyHandler) createParty(c *gin.Context) {
	var req dto.CreatePartyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	party, err := h.partyService.CreateParty(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, err, "Failed to create party")
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Party created",
		slog.String("party_id", party.PartyID), slog.String("code", party.Code))
	c.JSON(http.StatusCreated, dto.ToPartyResponse(party))
}

// getParty godoc
// @Summary Get a party by ID
// @Tags parties
// @Produce json
// @Param id path string true "Party ID"
// @Success 200 {object} dto.PartyResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Party not found"
// @Failure 500 {object} ErrorResponse "Failed to retrieve party"
// @Security BearerAuth
// @Router /parties/{id} [get]
func (h *partyHandler) getParty(c *gin.Context) {
	party, err := h.partyService.GetParty(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve party")
		return
	}
	c.JSON(http.StatusOK, dto.ToPartyResponse(party))
}

// listParties godoc
// @Summary List parties
// @Tags parties
// @Produce json
// @Param skip query int false "Offset" default(0)
// @Param limit query int false "Page size" default(20)
// @Param type query string false "Party type" Enums(customer, supplier, both)
// @Success 200 {array} dto.PartyResponse
// @Failure 400 {object} ErrorResponse "Invalid query parameters"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Failed to list parties"
// @Security BearerAuth
// @Router /parties [get]
func (h *partyHandler) listParties(c *gin.Context) {
	var params dto.ListPartiesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, err)
		return
	}
	if params.Limit == 0 {
		params.Limit = defaultPageSize
	}

	var partyType *domain.PartyType
	if params.Type != "" {
		t := domain.PartyType(params.Type)
		partyType = &t
	}

	parties, err := h.partyService.ListParties(c.Request.Context(), partyType, params.Limit, params.Skip)
	if err != nil {
		respondError(c, err, "Failed to list parties")
		return
	}
	c.JSON(http.StatusOK, dto.ToPartyResponses(parties))
}

// updateParty godoc
// @Summary Update a party
// @Description Updates contact details, credit limit or status. The balance is never written here.
// @Tags parties
// @Accept json
// @Produce json
// @Param id path string true "Party ID"
// @Param party body dto.UpdatePartyRequest true "Fields to update"
// @Success 200 {object} dto.PartyResponse
// @Failure 400 {object} ErrorResponse "Invalid input format"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Failure 404 {object} ErrorResponse "Party not found"
// @Failure 500 {object} ErrorResponse "Failed to update party"
// @Security BearerAuth
// @Router /parties/{id} [put]
func (h *partyHandler) updateParty(c *gin.Context) {
	var req dto.UpdatePartyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	party, err := h.partyService.UpdateParty(c.Request.Context(), c.Param("id"), req, userID)
	if err != nil {
		respondError(c, err, "Failed to update party")
		return
	}
	c.JSON(http.StatusOK, dto.ToPartyResponse(party))
}

// listPartyTransactions godoc
// @Summary Party statement
// @Description Lists ledger rows for a party newest first using token-based pagination
// @Tags parties
// @Produce json
// @Param id path string true "Party ID"
// @Param limit query int false "Page size" default(20)
// @Param nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListTransactionsResponse
// @Failure 400 {object} ErrorResponse "Invalid query parameters"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 422 {object} ErrorResponse "Malformed token"
// @Failure 500 {object} ErrorResponse "Failed to list transactions"
// @Security BearerAuth
// @Router /parties/{id}/transactions [get]
func (h *partyHandler) listPartyTransactions(c *gin.Context) {
	var params dto.ListPartyTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, err)
		return
	}
	if params.Limit == 0 {
		params.Limit = defaultPageSize
	}

	txns, next, err := h.transactionService.ListPartyTransactions(c.Request.Context(), c.Param("id"), params.Limit, params.NextToken)
	if err != nil {
		respondError(c, err, "Failed to list transactions")
		return
	}
	c.JSON(http.StatusOK, dto.ListTransactionsResponse{
		Transactions: dto.ToTransactionResponses(txns),
		NextToken:    next,
	})
}
