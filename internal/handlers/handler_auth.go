package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/bluestar-trading/erp_backend/internal/core/ports/services"
	"github.com/bluestar-trading/erp_backend/internal/dto"
	"github.com/bluestar-trading/erp_backend/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
)

// authHandler handles authentication related requests.
type authHandler struct {
	userService portssvc.AuthSvc
}

func newAuthHandler(us portssvc.AuthSvc) *authHandler {
	return &authHandler{userService: us}
}

// registerAuthRoutes sets up the public authentication routes. Login is rate
// limited per client IP.
func registerAuthRoutes(r *gin.Engine, userService portssvc.AuthSvc, loginLimiter *limiter.Limiter) {
	h := newAuthHandler(userService)

	chain := []gin.HandlerFunc{}
	if loginLimiter != nil {
		chain = append(chain, middleware.RateLimit(loginLimiter))
	}
	chain = append(chain, h.login)

	auth := r.Group("/api/v1/auth")
	{
		auth.POST("/login", chain...)
	}
}

// login godoc
// @Summary User login
// @Description Authenticates a user and returns a JWT carrying the user's role.
// @Tags auth
// @Accept json
// @Produce json
// @Param login body dto.LoginRequest true "Login Credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/login [post]
func (h *authHandler) login(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	token, expiresAt, user, err := h.userService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, err, "Failed to sign in")
		return
	}

	logger.Info("User signed in", slog.String("user_id", user.UserID), slog.String("role", string(user.Role)))
	c.JSON(http.StatusOK, dto.LoginResponse{Token: token, ExpiresAt: expiresAt, Role: user.Role})
}
