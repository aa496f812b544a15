package app

import (
	"github.com/Alicia-Alexia/sub-manager/internal/config"
	"github.com/Alicia-Alexia/sub-manager/internal/http/handlers"
	"github.com/Alicia-Alexia/sub-manager/internal/middleware"
	"github.com/Alicia-Alexia/sub-manager/internal/repository"
	"github.com/Alicia-Alexia/sub-manager/internal/service"
	"github.com/Alicia-Alexia/sub-manager/pkg/logger"
	"github.com/gin-gonic/gin"
)

// App is the container holding every wired component of the API server.
type App struct {
	Config              *config.Config
	SubscriptionService service.SubscriptionService
	BudgetService       service.BudgetService
	SubscriptionHandler *handlers.SubscriptionHandler
	BudgetHandler       *handlers.BudgetHandler
	CategoryHandler     *handlers.CategoryHandler
	AuthMiddleware      *middleware.JWTMiddleware
	LoggerMiddleware    gin.HandlerFunc
	Logger              *logger.Logger
}

// NewApp wires the handlers and middleware around already-built services.
func NewApp(
	cfg *config.Config,
	subscriptionService service.SubscriptionService,
	budgetService service.BudgetService,
	categoryRepo repository.CategoryRepository,
	log *logger.Logger,
) *App {
	subscriptionHandler := handlers.NewSubscriptionHandler(subscriptionService, log)
	budgetHandler := handlers.NewBudgetHandler(budgetService, log)
	categoryHandler := handlers.NewCategoryHandler(categoryRepo, log)

	authMiddleware := middleware.NewJWTMiddleware(log, &middleware.DefaultTokenValidator{
		Secret: []byte(cfg.Auth.JWTSecret),
	})

	return &App{
		Config:              cfg,
		SubscriptionService: subscriptionService,
		BudgetService:       budgetService,
		SubscriptionHandler: subscriptionHandler,
		BudgetHandler:       budgetHandler,
		CategoryHandler:     categoryHandler,
		AuthMiddleware:      authMiddleware,
		LoggerMiddleware:    middleware.RequestLogger(log),
		Logger:              log,
	}
}
