package handlers

import (
	"net/http"

	"homecook-backend/internal/middleware"
	"homecook-backend/internal/models"
	"homecook-backend/internal/services"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	carts    CartProvider
	checkout CheckoutServiceInterface
}

func NewOrderHandler(carts CartProvider, checkout CheckoutServiceInterface) *OrderHandler {
	return &OrderHandler{
		carts:    carts,
		checkout: checkout,
	}
}

// RegisterRoutes registers checkout and order tracking routes
func (h *OrderHandler) RegisterRoutes(router *gin.RouterGroup, authMiddleware *middleware.AuthMiddleware) {
	authed := router.Group("", authMiddleware.AuthRequired())
	{
		authed.POST("/cart/checkout", h.Checkout)
		authed.GET("/orders", h.ListOrders)
		authed.GET("/orders/:order_id", h.GetOrder)
	}
}

type CheckoutResponse struct {
	Orders []models.Order `json:"orders"`
}

// Checkout godoc
// @Summary Place orders from the cart
// @Description Creates one pending order per cook and removes the ordered lines from the cart
// @Tags orders
// @Accept json
// @Produce json
// @Param checkout body services.PlaceOrderRequest false "Delivery and payment details"
// @Success 201 {object} CheckoutResponse
// @Failure 409 {object} ErrorResponse
// @Router /cart/checkout [post]
func (h *OrderHandler) Checkout(c *gin.Context) {
	var req services.PlaceOrderRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
	}

	ctx := c.Request.Context()
	sessionID := middleware.GetSessionID(c)
	orders, err := h.checkout.PlaceOrder(ctx, sessionID, h.carts.Get(ctx, sessionID), &req)
	if err != nil {
		respondError(c, err, "Failed to checkout")
		return
	}

	c.JSON(http.StatusCreated, CheckoutResponse{Orders: orders})
}

func (h *OrderHandler) ListOrders(c *gin.Context) {
	limit, offset := pagination(c)
	orders, err := h.checkout.ListOrders(c.Request.Context(), middleware.GetSessionID(c), limit, offset)
	if err != nil {
		respondError(c, err, "Failed to list orders")
		return
	}

	if orders == nil {
		orders = []models.Order{}
	}
	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"limit":  limit,
		"offset": offset,
	})
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	order, err := h.checkout.GetOrder(c.Request.Context(), middleware.GetSessionID(c), c.Param("order_id"))
	if err != nil {
		respondError(c, err, "Failed to get order")
		return
	}
	c.JSON(http.StatusOK, order)
}
