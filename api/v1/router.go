package v1

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"offerhub/api/v1/app_config"
	"offerhub/api/v1/auth"
	"offerhub/api/v1/landing_pages"
	"offerhub/api/v1/middleware"
	"offerhub/api/v1/orders"
	"offerhub/api/v1/pages"
	"offerhub/api/v1/products"
	"offerhub/api/v1/shipping"
	statshandler "offerhub/api/v1/stats"
	"offerhub/api/v1/stripe_keys"
	"offerhub/api/v1/tenant_config"
	"offerhub/api/v1/uploads"
	"offerhub/internal/config"
	"offerhub/internal/httpx"
	"offerhub/internal/keys"
	"offerhub/internal/stats"
)

// SetupRouter sets up the API v1 routes
func SetupRouter(r *gin.Engine, db *gorm.DB, cfg *config.Config, sealer *keys.Sealer, logger *logrus.Entry) {
	keyStore := keys.NewStore(db, sealer)
	statsService := stats.NewService(stats.RedisStore{},
		time.Duration(cfg.Stats.CacheSeconds)*time.Second, logger)

	landingPagesHandler := landing_pages.NewHandler(db, cfg, keyStore, logger)
	productsHandler := products.NewHandler(keyStore, logger)
	ordersHandler := orders.NewHandler(db, logger)
	shippingHandler := shipping.NewHandler(db, sealer, logger)
	keysHandler := stripe_keys.NewHandler(keyStore, logger)
	tenantConfigHandler := tenant_config.NewHandler(db, keyStore, cfg.Environment, logger)
	appConfigHandler := app_config.NewHandler(db, cfg.Environment, logger)
	statsHandler := statshandler.NewHandler(statsService, keyStore, logger)
	pagesHandler := pages.NewHandler(db, cfg, keyStore, logger)
	uploadsHandler := uploads.NewHandler(cfg, logger)

	// Public page serving (outside /api, mirrors the published URL shape)
	r.GET("/pages/:client/:seo", pagesHandler.Serve)

	v1 := r.Group("/api/v1")
	{
		// Public routes (no authentication required)
		v1.GET("/ping", pingHandler)

		// Auth routes
		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/login", auth.LoginHandler(db, cfg))
		}

		// Public config routes
		public := v1.Group("/public")
		{
			public.GET("/tenant-config", tenantConfigHandler.PublicGet)
			public.GET("/config", appConfigHandler.PublicGet)
		}

		// Protected routes (authentication required)
		protected := v1.Group("")
		protected.Use(middleware.AuthRequired())
		{
			protected.GET("/me", meHandler)

			// Admin routes (tenant scope from X-Client-Id)
			admin := protected.Group("/admin")
			admin.Use(middleware.TenantRequired(db))
			{
				// Landing pages routes
				lpGroup := admin.Group("/landing-pages")
				{
					lpGroup.GET("", landingPagesHandler.List)
					lpGroup.POST("", landingPagesHandler.Create)
					lpGroup.GET("/:id", landingPagesHandler.Get)
					lpGroup.PUT("/:id", landingPagesHandler.Update)
					lpGroup.DELETE("/:id", landingPagesHandler.Delete)
					lpGroup.POST("/:id/preview", landingPagesHandler.Preview)
					lpGroup.POST("/:id/publish", landingPagesHandler.Publish)
				}

				// Product catalog routes
				productsGroup := admin.Group("/products")
				{
					productsGroup.GET("", productsHandler.List)
					productsGroup.POST("", productsHandler.Create)
					productsGroup.GET("/:id", productsHandler.Get)
					productsGroup.PUT("/:id", productsHandler.Update)
					productsGroup.DELETE("/:id", productsHandler.Delete)
				}
				admin.PUT("/prices/:id", productsHandler.ReplacePrice)

				// Orders routes
				ordersGroup := admin.Group("/orders")
				{
					ordersGroup.GET("", ordersHandler.List)
					ordersGroup.GET("/:id", ordersHandler.Get)
					ordersGroup.PUT("/:id", ordersHandler.Update)
				}

				// Shipping routes
				admin.GET("/shipping-config", shippingHandler.GetConfig)
				admin.PUT("/shipping-config", shippingHandler.UpdateConfig)
				shippingGroup := admin.Group("/shipping")
				{
					shippingGroup.POST("/rates", shippingHandler.Rates)
					shippingGroup.POST("/label", shippingHandler.Label)
					shippingGroup.POST("/test", shippingHandler.Test)
				}

				// Credential routes
				admin.GET("/keys", keysHandler.Get)
				admin.PUT("/keys", keysHandler.Update)
				admin.POST("/verify", keysHandler.Verify)

				// Config routes
				admin.GET("/tenant-config", tenantConfigHandler.Get)
				admin.PUT("/tenant-config", tenantConfigHandler.Update)
				admin.GET("/app-config", appConfigHandler.List)
				admin.GET("/app-config/:key", appConfigHandler.Get)
				admin.PUT("/app-config", appConfigHandler.Upsert)

				// Stats routes
				admin.GET("/stats", statsHandler.Get)
				admin.GET("/stats/transactions", statsHandler.Transactions)

				// Upload tracking
				admin.POST("/uploads/watch", uploadsHandler.Watch)
			}
		}
	}
}

// pingHandler handles the ping request using unified response
func pingHandler(c *gin.Context) {
	httpx.OK(c, gin.H{
		"pong": true,
	})
}

// meHandler returns current user information
func meHandler(c *gin.Context) {
	uid, _ := c.Get("uid")
	username, _ := c.Get("username")
	role, _ := c.Get("role")
	tenantID, _ := c.Get("tokenTenantId")

	httpx.OK(c, gin.H{
		"uid":      uid,
		"username": username,
		"role":     role,
		"tenantId": tenantID,
	})
}
