package httpserver

import (
	"fmt"
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"vendormart/internal/domain"
	"vendormart/internal/metrics"
)

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps, m *metrics.ServerMetrics) (*gin.Engine, error) {
	if deps.Auth == nil || deps.Catalog == nil || deps.Cart == nil ||
		deps.Orders == nil || deps.Addresses == nil || deps.Payments == nil {
		return nil, fmt.Errorf("httpserver: all services must be configured")
	}

	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Authorization", "Content-Type"},
	}))
	if m != nil {
		router.Use(observeRequests(m))
	}

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := router.Group("/api")

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", registerUserHandler(deps.Auth))
		authGroup.POST("/login", loginUserHandler(deps.Auth))
		authGroup.POST("/vendor/register", registerVendorHandler(deps.Auth))
		authGroup.POST("/vendor/login", loginVendorHandler(deps.Auth))
	}

	products := api.Group("/products")
	{
		products.GET("", listProductsHandler(deps.Catalog))
		products.GET("/:id", getProductHandler(deps.Catalog))
	}

	profile := api.Group("/profile", requireAuth(deps.Auth))
	{
		profile.GET("", getProfileHandler(deps.Auth))
		profile.PUT("", updateProfileHandler(deps.Auth))
	}

	cart := api.Group("/cart", requireAuth(deps.Auth), requireRole(domain.RoleUser, domain.RoleAdmin))
	{
		cart.GET("", getCartHandler(deps.Cart))
		cart.POST("/items", addCartItemHandler(deps.Cart))
		cart.PATCH("/items/:lineId", updateCartItemHandler(deps.Cart))
		cart.DELETE("/items/:lineId", removeCartItemHandler(deps.Cart))
		cart.DELETE("", clearCartHandler(deps.Cart))
	}

	orders := api.Group("/orders", requireAuth(deps.Auth), requireRole(domain.RoleUser, domain.RoleAdmin))
	{
		orders.POST("", createOrderHandler(deps.Orders))
		orders.POST("/checkout", checkoutHandler(deps.Orders))
		orders.GET("", listOrdersHandler(deps.Orders))
		orders.GET("/:id", getOrderHandler(deps.Orders))
		orders.POST("/:id/cancel", cancelOrderHandler(deps.Orders))
	}

	addresses := api.Group("/addresses", requireAuth(deps.Auth))
	{
		addresses.GET("", listAddressesHandler(deps.Addresses))
		addresses.POST("", addAddressHandler(deps.Addresses))
		addresses.PATCH("/:id/default", setDefaultAddressHandler(deps.Addresses))
		addresses.DELETE("/:id", deleteAddressHandler(deps.Addresses))
	}

	payments := api.Group("/payments", requireAuth(deps.Auth))
	{
		payments.POST("/orders/:id", createProviderOrderHandler(deps.Payments))
		payments.POST("/verify", verifyPaymentHandler(deps.Payments))
		payments.GET("/invoices", listInvoicesHandler(deps.Payments))
		payments.GET("/invoices/:id", getInvoiceHandler(deps.Payments))
		payments.POST("/invoices/:paymentId/regenerate", regenerateInvoiceHandler(deps.Payments))
	}

	vendor := api.Group("/vendor", requireAuth(deps.Auth), requireRole(domain.RoleVendor))
	{
		vendor.GET("/products", listVendorProductsHandler(deps.Catalog))
		vendor.POST("/products", createProductHandler(deps.Catalog))
		vendor.PUT("/products/:id", updateProductHandler(deps.Catalog))
		vendor.DELETE("/products/:id", deleteProductHandler(deps.Catalog))
		vendor.POST("/products/:id/images", uploadProductImageHandler(deps.Catalog))
		vendor.DELETE("/products/:id/images", removeProductImageHandler(deps.Catalog))
		vendor.GET("/orders", listVendorOrdersHandler(deps.Orders))
		vendor.GET("/orders/:id", getOrderHandler(deps.Orders))
		vendor.PATCH("/orders/:id/status", updateOrderStatusHandler(deps.Orders))
	}

	admin := api.Group("/admin", requireAuth(deps.Auth), requireRole(domain.RoleAdmin))
	{
		admin.GET("/orders", listAllOrdersHandler(deps.Orders))
		admin.PATCH("/orders/:id/status", updateOrderStatusHandler(deps.Orders))
	}

	return router, nil
}
