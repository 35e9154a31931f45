package handlers

import (
	"net/http"

	portssvc "github.com/bluestar-trading/erp_backend/internal/core/ports/services"
	"github.com/bluestar-trading/erp_backend/internal/dto"
	"github.com/gin-gonic/gin"
)

type notificationHandler struct {
	notificationService portssvc.NotificationSvcFacade
}

func newNotificationHandler(ns portssvc.NotificationSvcFacade) *notificationHandler {
	return &notificationHandler{notificationService: ns}
}

func registerNotificationRoutes(rg *gin.RouterGroup, ns portssvc.NotificationSvcFacade) {
	h := newNotificationHandler(ns)

	notifications := rg.Group("/notifications")
	{
		notifications.GET("", h.listNotifications)
		notifications.POST("/:id/read", h.markRead)
	}
}

// listNotifications godoc
// @Summary In-app notifications
// @Description The caller's notifications plus broadcasts, newest first
// @Tags notifications
// @Produce json
// @Param unreadOnly query bool false "Only unread"
// @Param limit query int false "Page size" default(20)
// @Success 200 {array} dto.NotificationResponse
// @Failure 400 {object} ErrorResponse "Invalid query parameters"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Failed to list notifications"
// @Security BearerAuth
// @Router /notifications [get]
func (h *notificationHandler) listNotifications(c *gin.Context) {
	var params dto.ListNotificationsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, err)
		return
	}
	if params.Limit == 0 {
		params.Limit = defaultPageSize
	}
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	ns, err := h.notificationService.ListNotifications(c.Request.Context(), userID, params.UnreadOnly, params.Limit)
	if err != nil {
		respondError(c, err, "Failed to list notifications")
		return
	}
	c.JSON(http.StatusOK, dto.ToNotificationResponses(ns))
}

// markRead godoc
// @Summary Mark a notification read
// @Tags notifications
// @Param id path string true "Notification ID"
// @Success 204 "Marked"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Notification not found"
// @Failure 500 {object} ErrorResponse "Failed to update notification"
// @Security BearerAuth
// @Router /notifications/{id}/read [post]
func (h *notificationHandler) markRead(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	if err := h.notificationService.MarkNotificationRead(c.Request.Context(), c.Param("id"), userID); err != nil {
		respondError(c, err, "Failed to update notification")
		return
	}
	c.Status(http.StatusNoContent)
}
