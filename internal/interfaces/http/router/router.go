package router

import (
	"net/http"

	"github.com/distriflow/backend/internal/domain/order"
	"github.com/distriflow/backend/internal/infrastructure/auth"
	"github.com/distriflow/backend/internal/infrastructure/logger"
	"github.com/distriflow/backend/internal/interfaces/http/handler"
	"github.com/distriflow/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Dependencies wires the handlers and cross-cutting services the router
// needs.
type Dependencies struct {
	Logger    *zap.Logger
	Tokens    *auth.TokenService
	Orders    *handler.OrderHandler
	Inventory *handler.InventoryHandler
	CORS      *middleware.CORSConfig
	// HealthCheck reports backing-service readiness; nil means always ready
	HealthCheck func() error
}

// New builds the gin engine with the full middleware chain and all
// application routes.
func New(deps Dependencies) *gin.Engine {
	middleware.SetupValidator()

	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.Use(logger.RequestLogger(deps.Logger))
	engine.Use(logger.Recovery(deps.Logger))

	cors := middleware.DefaultCORSConfig()
	if deps.CORS != nil {
		cors = *deps.CORS
	}
	engine.Use(middleware.CORSWithConfig(cors))

	engine.GET("/health", healthHandler(deps.HealthCheck))

	api := engine.Group("/api/v1")
	api.Use(middleware.Auth(middleware.AuthConfig{
		Tokens: deps.Tokens,
		Logger: deps.Logger,
	}))

	orders := api.Group("/orders")
	{
		orders.POST("", deps.Orders.Create)
		orders.GET("", deps.Orders.List)
		orders.GET("/:id", deps.Orders.Get)
		orders.POST("/:id/items", deps.Orders.AddItem)
		orders.POST("/:id/items/batch", deps.Orders.AddItems)
		orders.POST("/:id/lines", deps.Orders.AddLines)
		orders.PUT("/:id/items", deps.Orders.UpdateItems)
		orders.PUT("/:id/items/:itemId", deps.Orders.UpdateItem)
		orders.POST("/:id/cancel", deps.Orders.Cancel)
	}

	admin := api.Group("/admin")
	admin.Use(middleware.RequireRoles(order.RoleAdmin))
	{
		admin.GET("/orders", deps.Orders.ListByStatus)
		admin.POST("/orders/:id/prepare", deps.Orders.Prepare)
		admin.POST("/orders/:id/ship", deps.Orders.Ship)
		admin.POST("/orders/:id/deliver", deps.Orders.Deliver)
		admin.POST("/orders/:id/approve", deps.Orders.Approve)
		admin.GET("/products/:id/movements", deps.Inventory.ListMovements)
		admin.GET("/stock/alerts", deps.Inventory.ListLowStock)
	}

	return engine
}

func healthHandler(check func() error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if check != nil {
			if err := check(); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{
					"status": "unavailable",
					"error":  err.Error(),
				})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
