package routes

import (
	"github.com/Alicia-Alexia/sub-manager/internal/app"
	"github.com/Alicia-Alexia/sub-manager/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRoutes configures every API route on the Gin router.
func SetupRoutes(router *gin.Engine, app *app.App, registry *prometheus.Registry, log *logger.Logger) {
	router.Use(app.LoggerMiddleware)
	router.Use(gin.Recovery())

	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	api := router.Group("/api/v1")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{"status": "ok"})
		})

		auth := api.Group("")
		auth.Use(app.AuthMiddleware.RequireAuth())

		subscriptions := auth.Group("/subscriptions")
		{
			subscriptions.POST("", app.SubscriptionHandler.Create)
			subscriptions.GET("", app.SubscriptionHandler.List)
			subscriptions.GET("/:subscription_id", app.SubscriptionHandler.Get)
			subscriptions.PUT("/:subscription_id", app.SubscriptionHandler.Update)
			subscriptions.DELETE("/:subscription_id", app.SubscriptionHandler.Delete)
			subscriptions.POST("/:subscription_id/pay", app.SubscriptionHandler.MarkPaid)
		}

		auth.GET("/dashboard", app.SubscriptionHandler.Dashboard)

		budgets := auth.Group("/budgets")
		{
			budgets.PUT("", app.BudgetHandler.Upsert)
			budgets.GET("", app.BudgetHandler.List)
			budgets.DELETE("/:budget_id", app.BudgetHandler.Delete)
		}

		auth.GET("/categories", app.CategoryHandler.List)
	}

	log.Infow("API routes successfully configured")
}
