package handlers

import (
	"net/http"

	"homecook-backend/internal/middleware"
	"homecook-backend/pkg/auth"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type SessionHandler struct {
	jwtManager *auth.JWTManager
	carts      CartProvider
}

func NewSessionHandler(jwtManager *auth.JWTManager, carts CartProvider) *SessionHandler {
	return &SessionHandler{
		jwtManager: jwtManager,
		carts:      carts,
	}
}

// RegisterRoutes registers guest session routes
func (h *SessionHandler) RegisterRoutes(router *gin.RouterGroup, authMiddleware *middleware.AuthMiddleware) {
	router.POST("/sessions", h.CreateSession)
	router.DELETE("/sessions", authMiddleware.AuthRequired(), h.EndSession)
}

type SessionResponse struct {
	SessionID string `json:"session_id"`
	Token     string `json:"token"`
}

// CreateSession issues a customer token for a new guest session
func (h *SessionHandler) CreateSession(c *gin.Context) {
	sessionID := uuid.NewString()
	token, err := h.jwtManager.GenerateToken(sessionID, auth.RoleCustomer, "", "")
	if err != nil {
		respondError(c, err, "Failed to create session")
		return
	}

	c.JSON(http.StatusCreated, SessionResponse{
		SessionID: sessionID,
		Token:     token,
	})
}

// EndSession flushes the session's cart and releases it from memory. The
// stored cart survives and is loaded again on the next request.
func (h *SessionHandler) EndSession(c *gin.Context) {
	if err := h.carts.Evict(c.Request.Context(), middleware.GetSessionID(c)); err != nil {
		respondError(c, err, "Failed to end session")
		return
	}
	c.Status(http.StatusNoContent)
}
