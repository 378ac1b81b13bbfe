package handlers

import (
	"net/http"

	"homecook-backend/internal/middleware"
	"homecook-backend/internal/models"
	"homecook-backend/internal/services"

	"github.com/gin-gonic/gin"
)

type ProductHandler struct {
	catalog CatalogServiceInterface
}

func NewProductHandler(catalog CatalogServiceInterface) *ProductHandler {
	return &ProductHandler{catalog: catalog}
}

// RegisterRoutes registers menu browsing and cook menu management routes
func (h *ProductHandler) RegisterRoutes(router *gin.RouterGroup, authMiddleware *middleware.AuthMiddleware) {
	router.GET("/products/:product_id", h.GetProduct)
	router.GET("/vendors/:vendor_id/products", h.ListVendorProducts)

	cook := router.Group("/products", authMiddleware.AuthRequired(), authMiddleware.CookRequired())
	{
		cook.POST("", h.CreateProduct)
		cook.PATCH("/:product_id/availability", h.SetAvailability)
	}
}

type SetAvailabilityRequest struct {
	Available *bool `json:"available" binding:"required"`
}

func (h *ProductHandler) GetProduct(c *gin.Context) {
	product, err := h.catalog.GetProduct(c.Request.Context(), c.Param("product_id"))
	if err != nil {
		respondError(c, err, "Failed to get product")
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) ListVendorProducts(c *gin.Context) {
	limit, offset := pagination(c)
	products, err := h.catalog.ListVendorProducts(c.Request.Context(), c.Param("vendor_id"), limit, offset)
	if err != nil {
		respondError(c, err, "Failed to list products")
		return
	}

	if products == nil {
		products = []models.Product{}
	}
	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"limit":    limit,
		"offset":   offset,
	})
}

// CreateProduct adds a menu item for the cook's own vendor
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req services.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	vendorID, vendorName := middleware.GetVendor(c)
	product, err := h.catalog.CreateProduct(c.Request.Context(), vendorID, vendorName, &req)
	if err != nil {
		respondError(c, err, "Failed to create product")
		return
	}
	c.JSON(http.StatusCreated, product)
}

func (h *ProductHandler) SetAvailability(c *gin.Context) {
	var req SetAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	vendorID, _ := middleware.GetVendor(c)
	product, err := h.catalog.SetAvailability(c.Request.Context(), vendorID, c.Param("product_id"), *req.Available)
	if err != nil {
		respondError(c, err, "Failed to update product")
		return
	}
	c.JSON(http.StatusOK, product)
}
