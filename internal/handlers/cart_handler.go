package handlers

import (
	"net/http"

	"homecook-backend/internal/middleware"
	"homecook-backend/internal/models"

	"github.com/gin-gonic/gin"
)

type CartHandler struct {
	carts   CartProvider
	catalog CatalogServiceInterface
}

func NewCartHandler(carts CartProvider, catalog CatalogServiceInterface) *CartHandler {
	return &CartHandler{
		carts:   carts,
		catalog: catalog,
	}
}

// RegisterRoutes registers the routes for cart management
func (h *CartHandler) RegisterRoutes(router *gin.RouterGroup, authMiddleware *middleware.AuthMiddleware) {
	cart := router.Group("/cart", authMiddleware.AuthRequired())
	{
		cart.GET("", h.GetCart)
		cart.DELETE("", h.ClearCart)
		cart.POST("/items", h.AddItem)
		cart.PUT("/items/:line_id", h.UpdateQuantity)
		cart.PATCH("/items/:line_id/instructions", h.UpdateInstructions)
		cart.DELETE("/items/:line_id", h.RemoveItem)
		cart.GET("/products/:product_id/quantity", h.GetProductQuantity)
	}
}

type AddItemRequest struct {
	ProductID           string `json:"product_id" binding:"required"`
	Quantity            int    `json:"quantity"`
	SpecialInstructions string `json:"special_instructions"`
}

type UpdateQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

type UpdateInstructionsRequest struct {
	SpecialInstructions *string `json:"special_instructions" binding:"required"`
}

type AddItemResponse struct {
	Item models.CartLineItem `json:"item"`
	Cart models.CartSummary  `json:"cart"`
}

type ProductQuantityResponse struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// GetCart returns the session's line items with count and total
func (h *CartHandler) GetCart(c *gin.Context) {
	cart := h.carts.Get(c.Request.Context(), middleware.GetSessionID(c))
	c.JSON(http.StatusOK, cart.Summary())
}

// AddItem godoc
// @Summary Add item to cart
// @Description Merges into the existing line of the product or appends a new line
// @Tags cart
// @Accept json
// @Produce json
// @Param item body AddItemRequest true "Cart item data"
// @Success 200 {object} AddItemResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /cart/items [post]
func (h *CartHandler) AddItem(c *gin.Context) {
	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	ctx := c.Request.Context()
	product, err := h.catalog.GetOrderableProduct(ctx, req.ProductID)
	if err != nil {
		respondError(c, err, "Failed to add item to cart")
		return
	}

	cart := h.carts.Get(ctx, middleware.GetSessionID(c))
	item, err := cart.AddItem(product.CartProduct(), req.Quantity, req.SpecialInstructions)
	if err != nil {
		respondError(c, err, "Failed to add item to cart")
		return
	}

	c.JSON(http.StatusOK, AddItemResponse{
		Item: item,
		Cart: cart.Summary(),
	})
}

// UpdateQuantity sets the quantity of a line; zero or less removes it
func (h *CartHandler) UpdateQuantity(c *gin.Context) {
	var req UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	cart := h.carts.Get(c.Request.Context(), middleware.GetSessionID(c))
	cart.UpdateQuantity(c.Param("line_id"), *req.Quantity)
	c.JSON(http.StatusOK, cart.Summary())
}

func (h *CartHandler) UpdateInstructions(c *gin.Context) {
	var req UpdateInstructionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	cart := h.carts.Get(c.Request.Context(), middleware.GetSessionID(c))
	if !cart.UpdateInstructions(c.Param("line_id"), *req.SpecialInstructions) {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "Cart item not found",
			Message: "No cart line with this ID",
		})
		return
	}
	c.JSON(http.StatusOK, cart.Summary())
}

// RemoveItem deletes a line; unknown lines are ignored
func (h *CartHandler) RemoveItem(c *gin.Context) {
	cart := h.carts.Get(c.Request.Context(), middleware.GetSessionID(c))
	cart.RemoveItem(c.Param("line_id"))
	c.JSON(http.StatusOK, cart.Summary())
}

func (h *CartHandler) ClearCart(c *gin.Context) {
	h.carts.Get(c.Request.Context(), middleware.GetSessionID(c)).Clear()
	c.Status(http.StatusNoContent)
}

func (h *CartHandler) GetProductQuantity(c *gin.Context) {
	productID := c.Param("product_id")
	cart := h.carts.Get(c.Request.Context(), middleware.GetSessionID(c))
	c.JSON(http.StatusOK, ProductQuantityResponse{
		ProductID: productID,
		Quantity:  cart.QuantityFor(productID),
	})
}
