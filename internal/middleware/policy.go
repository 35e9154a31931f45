package middleware

import (
	"log/slog"
	"net/http"

	"github.com/bluestar-trading/erp_backend/internal/core/domain"
	"github.com/gin-gonic/gin"
)

// Action names a guarded operation on a resource.
type Action string

const (
	ActionCreate Action = "create"
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionIssue  Action = "issue"
	ActionAdjust Action = "adjust"
)

// PolicyKey identifies one row of the access table.
type PolicyKey struct {
	Method   string
	Resource string
	Action   Action
}

// Policy maps guarded operations to the roles allowed to perform them.
// Keys that are not listed are open to any authenticated role.
type Policy map[PolicyKey][]domain.Role

// DefaultPolicy is the access table used by the API.
func DefaultPolicy() Policy {
	managers := []domain.Role{domain.RoleAdmin, domain.RoleManager}
	admins := []domain.Role{domain.RoleAdmin}
	return Policy{
		{http.MethodPatch, "vouchers", ActionIssue}:  managers,
		{http.MethodPost, "vouchers", ActionIssue}:   managers,
		{http.MethodPost, "stock", ActionAdjust}:     managers,
		{http.MethodPut, "items", ActionUpdate}:      managers,
		{http.MethodPost, "rates", ActionCreate}:     managers,
		{http.MethodPost, "users", ActionCreate}:     admins,
		{http.MethodGet, "users", ActionRead}:        admins,
		{http.MethodPut, "parties", ActionUpdate}:    managers,
		{http.MethodPatch, "trips", ActionUpdate}:    {domain.RoleAdmin, domain.RoleManager, domain.RoleDriver},
		{http.MethodPost, "trips", ActionAdjust}:     {domain.RoleAdmin, domain.RoleManager, domain.RoleDriver},
	}
}

// Allows reports whether role may perform the keyed operation.
func (p Policy) Allows(key PolicyKey, role domain.Role) bool {
	roles, guarded := p[key]
	if !guarded {
		return true
	}
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

// Authorize checks the caller's role against the policy and writes a 403 when
// denied. Handlers call it for checks that depend on the request body.
func (p Policy) Authorize(c *gin.Context, resource string, action Action) bool {
	role, ok := GetRoleFromContext(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return false
	}
	key := PolicyKey{Method: c.Request.Method, Resource: resource, Action: action}
	if p.Allows(key, role) {
		return true
	}
	GetLoggerFromCtx(c.Request.Context()).Warn("Access denied by policy",
		slog.String("resource", resource),
		slog.String("action", string(action)),
		slog.String("role", string(role)))
	c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "You do not have permission to perform this action"})
	return false
}

// RequirePolicy guards a whole route.
func (p Policy) RequirePolicy(resource string, action Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !p.Authorize(c, resource, action) {
			return
		}
		c.Next()
	}
}
