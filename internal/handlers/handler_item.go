package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/bluestar-trading/erp_backend/internal/core/ports/services"
	"github.com/bluestar-trading/erp_backend/internal/dto"
	"github.com/bluestar-trading/erp_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// itemHandler handles catalog, stock and pricing requests.
type itemHandler struct {
	inventoryService portssvc.InventorySvcFacade
}

func newItemHandler(is portssvc.InventorySvcFacade) *itemHandler {
	return &itemHandler{inventoryService: is}
}

// registerItemRoutes registers routes related to items and customer rates.
func registerItemRoutes(rg *gin.RouterGroup, is portssvc.InventorySvcFacade, policy middleware.Policy) {
	h := newItemHandler(is)

	items := rg.Group("/items")
	{
		items.POST("", h.createItem)
		items.GET("", h.listItems)
		items.GET("/low-stock", h.listLowStock)
		items.GET("/:id", h.getItem)
		items.PUT("/:id", policy.RequirePolicy("items", middleware.ActionUpdate), h.updateItem)
		items.POST("/:id/stock", policy.RequirePolicy("stock", middleware.ActionAdjust), h.adjustStock)
		items.GET("/:id/price", h.getEffectivePrice)
	}

	rates := rg.Group("/rates")
	{
		rates.POST("", policy.RequirePolicy("rates", middleware.ActionCreate), h.setCustomerRate)
		rates.GET("", h.listCustomerRates)
	}
}

// createItem godoc
// @Summary Create an item
// @Description Adds goods or a service to the catalog with optional opening stock. Later changes go through the stock endpoint.
// @Tags items
// @Accept json
// @Produce json
// @Param item body dto.CreateItemRequest true "Item details"
// @Success 201 {object} dto.ItemResponse
// @Failure 400 {object} ErrorResponse "Invalid input format"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Failed to create item"
// @Security BearerAuth
// @Router /items [post]
func (h *itemHandler) createItem(c *gin.Context) {
	var req dto.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	item, err := h.inventoryService.CreateItem(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, err, "Failed to create item")
		return
	}
	c.JSON(http.StatusCreated, dto.ToItemResponse(item))
}

// getItem godoc
// @Summary Get an item by ID
// @Tags items
// @Produce json
// @Param id path string true "Item ID"
// @Success 200 {object} dto.ItemResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Item not found"
// @Failure 500 {object} ErrorResponse "Failed to retrieve item"
// @Security BearerAuth
// @Router /items/{id} [get]
func (h *itemHandler) getItem(c *gin.Context) {
	item, err := h.inventoryService.GetItem(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve item")
		return
	}
	c.JSON(http.StatusOK, dto.ToItemResponse(item))
}

// listItems godoc
// @Summary List items
// @Tags items
// @Produce json
// @Param skip query int false "Offset" default(0)
// @Param limit query int false "Page size" default(20)
// @Success 200 {array} dto.ItemResponse
// @Failure 400 {object} ErrorResponse "Invalid query parameters"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Failed to list items"
// @Security BearerAuth
// @Router /items [get]
func (h *itemHandler) listItems(c *gin.Context) {
	var params dto.ListItemsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, err)
		return
	}
	if params.Limit == 0 {
		params.Limit = defaultPageSize
	}

	items, err := h.inventoryService.ListItems(c.Request.Context(), params.Limit, params.Skip)
	if err != nil {
		respondError(c, err, "Failed to list items")
		return
	}
	c.JSON(http.StatusOK, dto.ToItemResponses(items))
}

// listLowStock godoc
// @Summary List low-stock goods
// @Description Active goods whose stock is at or below the minimum level
// @Tags items
// @Produce json
// @Success 200 {array} dto.ItemResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Failed to list items"
// @Security BearerAuth
// @Router /items/low-stock [get]
func (h *itemHandler) listLowStock(c *gin.Context) {
	items, err := h.inventoryService.ListLowStockItems(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to list items")
		return
	}
	c.JSON(http.StatusOK, dto.ToItemResponses(items))
}

// updateItem godoc
// @Summary Update an item
// @Description Updates catalog fields. Stock is never changed here.
// @Tags items
// @Accept json
// @Produce json
// @Param id path string true "Item ID"
// @Param item body dto.UpdateItemRequest true "Fields to update"
// @Success 200 {object} dto.ItemResponse
// @Failure 400 {object} ErrorResponse "Invalid input format"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Failure 404 {object} ErrorResponse "Item not found"
// @Failure 500 {object} ErrorResponse "Failed to update item"
// @Security BearerAuth
// @Router /items/{id} [put]
func (h *itemHandler) updateItem(c *gin.Context) {
	var req dto.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	item, err := h.inventoryService.UpdateItem(c.Request.Context(), c.Param("id"), req, userID)
	if err != nil {
		respondError(c, err, "Failed to update item")
		return
	}
	c.JSON(http.StatusOK, dto.ToItemResponse(item))
}

// adjustStock godoc
// @Summary Adjust stock manually
// @Description Applies a signed delta to the item's stock. Stock may go negative.
// @Tags items
// @Accept json
// @Produce json
// @Param id path string true "Item ID"
// @Param adjustment body dto.AdjustStockRequest true "Signed delta and reason"
// @Success 200 {object} dto.ItemResponse
// @Failure 400 {object} ErrorResponse "Invalid input format"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Failure 404 {object} ErrorResponse "Item not found"
// @Failure 422 {object} ErrorResponse "Zero delta"
// @Failure 500 {object} ErrorResponse "Failed to adjust stock"
// @Security BearerAuth
// @Router /items/{id}/stock [post]
func (h *itemHandler) adjustStock(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	itemID := c.Param("id")
	logger.Info("Manual stock adjustment",
		slog.String("item_id", itemID),
		slog.String("delta", req.Delta.String()),
		slog.String("reason", req.Reason))

	item, err := h.inventoryService.AdjustStock(c.Request.Context(), itemID, req.Delta, userID)
	if err != nil {
		respondError(c, err, "Failed to adjust stock")
		return
	}
	c.JSON(http.StatusOK, dto.ToItemResponse(item))
}

// getEffectivePrice godoc
// @Summary Effective price for a party
// @Description Returns the party's override for the item at the location, or the item's base price
// @Tags items
// @Produce json
// @Param id path string true "Item ID"
// @Param partyID query string true "Party ID"
// @Param location query string false "Delivery location"
// @Success 200 {object} dto.EffectivePriceResponse
// @Failure 400 {object} ErrorResponse "partyID missing"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Item not found"
// @Failure 500 {object} ErrorResponse "Failed to resolve price"
// @Security BearerAuth
// @Router /items/{id}/price [get]
func (h *itemHandler) getEffectivePrice(c *gin.Context) {
	itemID := c.Param("id")
	partyID := c.Query("partyID")
	if partyID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "partyID query parameter required"})
		return
	}
	location := c.Query("location")

	price, err := h.inventoryService.EffectivePrice(c.Request.Context(), itemID, partyID, location)
	if err != nil {
		respondError(c, err, "Failed to resolve price")
		return
	}
	c.JSON(http.StatusOK, dto.EffectivePriceResponse{
		ItemID:   itemID,
		PartyID:  partyID,
		Location: location,
		Price:    price,
	})
}

// setCustomerRate godoc
// @Summary Set a customer rate
// @Description Creates or replaces the price override for (item, party, location)
// @Tags rates
// @Accept json
// @Produce json
// @Param rate body dto.SetCustomerRateRequest true "Rate details"
// @Success 200 {object} dto.CustomerRateResponse
// @Failure 400 {object} ErrorResponse "Invalid input format"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Failure 404 {object} ErrorResponse "Item or party not found"
// @Failure 500 {object} ErrorResponse "Failed to save rate"
// @Security BearerAuth
// @Router /rates [post]
func (h *itemHandler) setCustomerRate(c *gin.Context) {
	var req dto.SetCustomerRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	rate, err := h.inventoryService.SetCustomerRate(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, err, "Failed to save rate")
		return
	}
	c.JSON(http.StatusOK, dto.ToCustomerRateResponse(rate))
}

// listCustomerRates godoc
// @Summary List a party's rates
// @Tags rates
// @Produce json
// @Param partyID query string true "Party ID"
// @Success 200 {array} dto.CustomerRateResponse
// @Failure 400 {object} ErrorResponse "partyID missing"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Failed to list rates"
// @Security BearerAuth
// @Router /rates [get]
func (h *itemHandler) listCustomerRates(c *gin.Context) {
	partyID := c.Query("partyID")
	if partyID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "partyID query parameter required"})
		return
	}

	rates, err := h.inventoryService.ListCustomerRates(c.Request.Context(), partyID)
	if err != nil {
		respondError(c, err, "Failed to list rates")
		return
	}
	out := make([]dto.CustomerRateResponse, len(rates))
	for i := range rates {
		out[i] = dto.ToCustomerRateResponse(&rates[i])
	}
	c.JSON(http.StatusOK, out)
}
