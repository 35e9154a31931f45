package middleware

import (
	"net/http"
	"strings"

	"github.com/bluestar-trading/erp_backend/internal/utils"
	"github.com/gin-gonic/gin"
)

// untrackedRoutes are high-frequency or long-lived routes kept out of analytics.
// Drivers post a fix every few seconds and streams stay open for the whole trip.
var untrackedRoutes = map[string]bool{
	"/health":                        true,
	"/api/v1/trips/:id/location":     true,
	"/api/v1/trips/:id/stream":       true,
	"/api/v1/notifications":          true,
	"/api/v1/notifications/:id/read": true,
}

// apiEventName turns "/api/v1/vouchers/:id" into "api_vouchers_get" style names:
// the first resource segment plus the HTTP verb.
func apiEventName(c *gin.Context) string {
	route := strings.TrimPrefix(c.FullPath(), "/api/v1/")
	if route == "" || route == c.FullPath() {
		return ""
	}
	resource, _, _ := strings.Cut(route, "/")
	return "api_" + resource + "_" + strings.ToLower(c.Request.Method)
}

// PosthogMiddleware records one analytics event per successful API call.
func PosthogMiddleware(posthogClient *utils.PosthogClientWrapper) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if !posthogClient.IsInitialized() || untrackedRoutes[c.FullPath()] {
			return
		}
		if len(c.Errors) > 0 || c.Writer.Status() >= http.StatusBadRequest {
			return
		}
		userID, ok := GetUserIDFromContext(c)
		if !ok {
			return
		}
		event := apiEventName(c)
		if event == "" {
			return
		}

		props := map[string]any{
			"route":       c.FullPath(),
			"status_code": c.Writer.Status(),
		}
		if role, ok := GetRoleFromContext(c); ok {
			props["role"] = string(role)
		}
		if id := c.Param("id"); id != "" {
			props["entity_id"] = id
		}
		posthogClient.Enqueue(userID, event, props)
	}
}

// PosthogEvent sends a business event (for example voucher_issued) on behalf of
// the authenticated user.
func PosthogEvent(c *gin.Context, posthogClient *utils.PosthogClientWrapper, eventName string, properties map[string]any) {
	if !posthogClient.IsInitialized() {
		return
	}
	userID, ok := GetUserIDFromContext(c)
	if !ok {
		return
	}
	if properties == nil {
		properties = map[string]any{}
	}
	if role, ok := GetRoleFromContext(c); ok {
		properties["role"] = string(role)
	}
	posthogClient.Enqueue(userID, eventName, properties)
}
