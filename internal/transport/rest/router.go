package rest

import (
	"net/http"
	"time"

	"modora-be/internal/config"
	"modora-be/internal/logger"
	"modora-be/internal/metrics"
	"modora-be/internal/middleware"
	"modora-be/internal/payment/webhook"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Cart    *CartHandler
	Order   *OrderHandler
	Product *ProductHandler
	User    *UserHandler
	Webhook *webhook.Handler
}

func NewRouter(cfg *config.Config, h Handlers, m *metrics.ServerMetrics) *gin.Engine {
	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.RequestID())
	r.Use(logger.AccessLog())
	if m != nil {
		r.Use(middleware.Instrument(m))
	}
	r.Use(middleware.RateLimit())

	corsCfg := cors.DefaultConfig()
	if cfg.ClientOrigin != "" {
		corsCfg.AllowOrigins = []string{cfg.ClientOrigin}
	} else {
		corsCfg.AllowAllOrigins = true
	}
	corsCfg.AllowCredentials = cfg.ClientOrigin != ""
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization", GuestIDHeader)
	corsCfg.ExposeHeaders = append(corsCfg.ExposeHeaders, GuestIDHeader)
	corsCfg.MaxAge = 12 * time.Hour
	r.Use(cors.New(corsCfg))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if m != nil {
		r.GET("/metrics", gin.WrapH(metrics.Handler()))
	}

	api := r.Group("/api")

	users := api.Group("/users")
	{
		users.POST("/register", h.User.Register)
		users.POST("/login", h.User.Login)
		users.POST("/logout", h.User.Logout)
		users.GET("/profile", middleware.RequireAuth(), h.User.Profile)
	}

	products := api.Group("/products")
	{
		products.GET("", h.Product.List)
		products.GET("/:id", h.Product.Get)
	}

	// Cart routes serve guests and users alike; identity is optional.
	carts := api.Group("/cart", middleware.OptionalAuth())
	{
		carts.GET("", h.Cart.Get)
		carts.POST("", h.Cart.AddItem)
		carts.PUT("", h.Cart.UpdateItem)
		carts.DELETE("", h.Cart.RemoveItem)
		carts.POST("/merge", middleware.RequireAuth(), h.Cart.Merge)
	}

	api.POST("/checkout", middleware.RequireAuth(), h.Order.Checkout)

	orders := api.Group("/orders", middleware.RequireAuth())
	{
		orders.GET("/my-orders", h.Order.MyOrders)
		orders.GET("/:id", h.Order.Get)
	}

	api.POST("/webhooks/payment", h.Webhook.Handle)

	admin := api.Group("/admin", middleware.RequireAuth(), middleware.RequireAdmin())
	{
		admin.GET("/orders", h.Order.ListAll)
		admin.PUT("/orders/:id", h.Order.UpdateStatus)
		admin.DELETE("/orders/:id", h.Order.Delete)

		admin.GET("/users", h.User.List)
		admin.POST("/users", h.User.Create)
		admin.PUT("/users/:id", h.User.Update)
		admin.DELETE("/users/:id", h.User.Delete)

		admin.POST("/products", h.Product.Create)
		admin.PUT("/products/:id", h.Product.Update)
		admin.DELETE("/products/:id", h.Product.Delete)
	}

	return r
}
