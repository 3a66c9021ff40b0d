package main

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"dealhub.backend/internal/config"
	"dealhub.backend/internal/domain/entities"
	"dealhub.backend/internal/interfaces/http/handlers"
	"dealhub.backend/internal/interfaces/http/middleware"
	"dealhub.backend/pkg/metrics"
)

type routeDeps struct {
	authHandler       *handlers.AuthHandler
	dealHandler       *handlers.DealHandler
	redemptionHandler *handlers.RedemptionHandler
	restaurantHandler *handlers.RestaurantHandler
	adminHandler      *handlers.AdminHandler
	healthHandler     *handlers.HealthHandler
	authMiddleware    gin.HandlerFunc
	activeUser        gin.HandlerFunc
	optionalAuth      gin.HandlerFunc
	idempotency       gin.HandlerFunc
}

func newRouter(cfg *config.Config, d routeDeps, m *metrics.Metrics, gatherer prometheus.Gatherer) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())
	r.Use(middleware.MetricsMiddleware(m))

	applyCORSMiddleware(r, cfg.CORS.AllowedOrigins)
	registerHealthRoute(r, d.healthHandler)
	registerMetricsRoute(r, gatherer)
	registerAPIV1Routes(r, d)
	return r
}

// applyCORSMiddleware allows browser calls from origins. With no origins
// configured only same-origin requests work.
func applyCORSMiddleware(r *gin.Engine, origins []string) {
	if len(origins) == 0 {
		return
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{
			"Origin", "Content-Type", "Authorization",
			middleware.SessionIDHeader, middleware.RequestIDHeader, middleware.IdempotencyHeader,
		},
		ExposeHeaders:    []string{middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}

func registerHealthRoute(r *gin.Engine, h *handlers.HealthHandler) {
	r.GET("/health", h.Health)
}

func registerMetricsRoute(r *gin.Engine, gatherer prometheus.Gatherer) {
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
}

func registerAPIV1Routes(r *gin.Engine, d routeDeps) {
	ownerOrAdmin := middleware.RequireOwnerOrAdmin()

	v1 := r.Group("/api/v1")
	{
		// Auth routes (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/register", d.authHandler.Register)
			auth.POST("/login", d.authHandler.Login)
			auth.POST("/refresh", d.authHandler.RefreshToken)
			auth.POST("/logout", d.authHandler.Logout)
			auth.GET("/me", d.authMiddleware, d.authHandler.GetMe)
		}

		// Deal routes (public read, protected write). Writes also re-check the
		// account since access tokens outlive a deactivation.
		deals := v1.Group("/deals")
		{
			deals.GET("", d.optionalAuth, d.dealHandler.ListDeals)
			deals.GET("/:id", d.optionalAuth, d.dealHandler.GetDeal)
			deals.POST("", d.authMiddleware, d.activeUser, ownerOrAdmin, d.dealHandler.CreateDeal)
			deals.PUT("/:id", d.authMiddleware, d.activeUser, ownerOrAdmin, d.dealHandler.UpdateDeal)
			deals.DELETE("/:id", d.authMiddleware, d.activeUser, ownerOrAdmin, d.dealHandler.DeleteDeal)
			deals.POST("/:id/claim", d.authMiddleware, d.activeUser, d.idempotency, d.redemptionHandler.ClaimDeal)
		}

		// Redemption routes (protected)
		redemptions := v1.Group("/redemptions")
		redemptions.Use(d.authMiddleware)
		{
			redemptions.GET("", d.redemptionHandler.ListMyRedemptions)
			redemptions.GET("/:id", d.redemptionHandler.GetRedemption)
			redemptions.POST("/:id/confirm", d.activeUser, ownerOrAdmin, d.redemptionHandler.ConfirmRedemption)
			redemptions.POST("/:id/reject", d.activeUser, ownerOrAdmin, d.redemptionHandler.RejectRedemption)
		}

		// Restaurant routes
		restaurants := v1.Group("/restaurants")
		{
			restaurants.POST("", d.authMiddleware, d.activeUser, ownerOrAdmin, d.restaurantHandler.CreateRestaurant)
			restaurants.GET("/mine", d.authMiddleware, middleware.RequireRole(entities.UserRoleRestaurantOwner), d.restaurantHandler.ListMyRestaurants)
			restaurants.GET("/:id", d.restaurantHandler.GetRestaurant)
			restaurants.GET("/:id/deals", d.authMiddleware, ownerOrAdmin, d.dealHandler.ListRestaurantDeals)
		}

		// Admin routes (protected)
		admin := v1.Group("/admin")
		admin.Use(d.authMiddleware, middleware.RequireAdmin())
		{
			admin.GET("/restaurants", d.adminHandler.ListRestaurants)
			admin.PUT("/restaurants/:id/status", d.activeUser, d.adminHandler.UpdateRestaurantStatus)
			admin.PUT("/restaurants/:id/tier", d.activeUser, d.adminHandler.UpdateRestaurantTier)
			admin.PUT("/users/:id/deactivate", d.activeUser, d.adminHandler.DeactivateUser)
		}
	}
}
