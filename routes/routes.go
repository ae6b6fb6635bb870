package routes

import (
	"storefront-backend/cache"
	"storefront-backend/config"
	"storefront-backend/handlers"
	"storefront-backend/merch"
	"storefront-backend/middleware"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Deps carries what the handlers share. Cache and RateLimiter are optional.
type Deps struct {
	DB          *gorm.DB
	Cache       cache.Cache
	Config      *config.Config
	Log         logrus.FieldLogger
	RateLimiter *middleware.RateLimiter
}

func SetupRoutes(r *gin.Engine, deps Deps) {
	cfg := deps.Config
	if cfg == nil {
		cfg = &config.Config{}
	}
	db := deps.DB
	slots := handlers.AdSlots{Horizontal: cfg.HorizontalAdSlots, Vertical: cfg.VerticalAdSlots}

	// One allocator so events and both ad kinds share its per-class locks
	allocator := merch.NewAllocator(db)
	landing := &handlers.Landing{
		DB:    db,
		Cache: deps.Cache,
		Log:   deps.Log,
		Limit: cfg.LandingEventLimit,
		TTL:   cfg.LandingCacheTTL,
	}

	// Initialize handlers
	productHandler := &handlers.ProductHandler{DB: db, Landing: landing, Log: deps.Log}
	eventHandler := &handlers.EventHandler{DB: db, Allocator: allocator, Landing: landing, Log: deps.Log}
	adHandler := &handlers.AdvertisementHandler{DB: db, Allocator: allocator, Slots: slots, Log: deps.Log}
	storefrontHandler := &handlers.StorefrontHandler{DB: db, Landing: landing, Slots: slots, Log: deps.Log}
	cartHandler := &handlers.CartHandler{DB: db, Log: deps.Log}

	// Public routes
	api := r.Group("/api")
	if deps.RateLimiter != nil {
		api.Use(deps.RateLimiter.Middleware())
	}
	{
		// Public product routes
		api.GET("/products", productHandler.GetProducts)
		api.GET("/products/:id", productHandler.GetProduct)

		// Public event routes
		api.GET("/events", eventHandler.GetEvents)
		api.GET("/events/landing", eventHandler.GetLandingEvents)
		api.GET("/events/:id", eventHandler.GetEvent)

		api.GET("/advertisements", adHandler.GetAdvertisements)
		api.GET("/storefront", storefrontHandler.GetStorefront)
	}

	// Protected routes (require authentication)
	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware())
	{
		// Cart routes
		protected.GET("/cart", cartHandler.GetCart)
		protected.POST("/cart", cartHandler.AddToCart)
		protected.PUT("/cart/:id", cartHandler.UpdateCartItem)
		protected.DELETE("/cart/:id", cartHandler.RemoveFromCart)
		protected.DELETE("/cart", cartHandler.ClearCart)
	}

	// Admin routes (require admin role)
	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware())
	admin.Use(middleware.AdminMiddleware())
	{
		// Product management
		admin.POST("/products", productHandler.CreateProduct)
		admin.PUT("/products/:id", productHandler.UpdateProduct)
		admin.DELETE("/products/:id", productHandler.DeleteProduct)
		admin.GET("/products", productHandler.GetProductsPaginated)

		// Event management
		admin.GET("/events", eventHandler.GetAllEvents)
		admin.POST("/events", eventHandler.CreateEvent)
		admin.PUT("/events/reorder", eventHandler.ReorderEvents)
		admin.PUT("/events/:id", eventHandler.UpdateEvent)
		admin.DELETE("/events/:id", eventHandler.DeleteEvent)

		// Advertisement management. Reorder is keyed by kind, so it sits
		// under its own prefix rather than beside :id.
		admin.GET("/advertisements", adHandler.GetAllAdvertisements)
		admin.POST("/advertisements", adHandler.CreateAdvertisement)
		admin.PUT("/advertisements/reorder/:kind", adHandler.ReorderAdvertisements)
		admin.PUT("/advertisements/:id", adHandler.UpdateAdvertisement)
		admin.DELETE("/advertisements/:id", adHandler.DeleteAdvertisement)
	}

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
}
