package handlers

import (
	"net/http"

	"homecook-backend/internal/middleware"
	"homecook-backend/pkg/auth"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type RouterDeps struct {
	Logger     *zap.Logger
	JWTManager *auth.JWTManager
	Carts      CartProvider
	Catalog    CatalogServiceInterface
	Checkout   CheckoutServiceInterface
}

// NewRouter wires middleware and every handler onto a fresh gin engine.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware(deps.Logger))
	router.Use(middleware.RecoveryMiddleware(deps.Logger))
	router.Use(middleware.CORSMiddleware())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "homecook-backend",
		})
	})

	authMiddleware := middleware.NewAuthMiddleware(deps.JWTManager)
	api := router.Group("/api/v1")

	NewSessionHandler(deps.JWTManager, deps.Carts).RegisterRoutes(api, authMiddleware)
	NewProductHandler(deps.Catalog).RegisterRoutes(api, authMiddleware)
	NewCartHandler(deps.Carts, deps.Catalog).RegisterRoutes(api, authMiddleware)
	NewOrderHandler(deps.Carts, deps.Checkout).RegisterRoutes(api, authMiddleware)

	return router
}
