package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pageza/ladlehub/backend/config"
	"github.com/pageza/ladlehub/backend/internal/api"
	"github.com/pageza/ladlehub/backend/internal/middleware"
	"github.com/pageza/ladlehub/backend/internal/service"
)

// Server wires the HTTP surface to the service layer.
type Server struct {
	router *gin.Engine
	http   *http.Server
	logger *zap.Logger
}

// Deps carries everything the server needs; redisClient and s3Config may be
// nil in development.
type Deps struct {
	DB          *gorm.DB
	RedisClient *redis.Client
	S3Config    *config.S3Config
	Logger      *zap.Logger
}

// New builds the router and all handlers.
func New(cfg *config.Config, deps Deps) *Server {
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	localizer := service.NewLocalizer()
	shoppingListService := service.NewShoppingListService(deps.DB, deps.RedisClient, localizer, deps.Logger)
	markingService := service.NewMarkingService(deps.DB, shoppingListService)
	recipeService := service.NewRecipeService(deps.DB, markingService)
	ingredientService := service.NewIngredientService(deps.DB)
	tagService := service.NewTagService(deps.DB)
	subscriptionService := service.NewSubscriptionService(deps.DB)
	authService := service.NewAuthService(deps.DB, cfg.JWTSecret)
	imageService := service.NewImageService(deps.S3Config)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(nil))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")

	limiter := middleware.NewRateLimiter(deps.RedisClient, middleware.RateLimitConfig{
		Window: time.Minute,
		Limit:  120,
	})
	v1.Use(limiter.Middleware())

	api.NewAuthHandler(authService).RegisterRoutes(v1)
	api.NewTagHandler(tagService, authService).RegisterRoutes(v1)
	api.NewIngredientHandler(ingredientService, authService).RegisterRoutes(v1)
	api.NewRecipeHandler(recipeService, markingService, imageService, authService).RegisterRoutes(v1)
	api.NewShoppingListHandler(shoppingListService, authService).RegisterRoutes(v1)
	api.NewUserHandler(subscriptionService, authService).RegisterRoutes(v1)

	return &Server{
		router: router,
		http: &http.Server{
			Addr:    cfg.ServerHost + ":" + cfg.ServerPort,
			Handler: router,
		},
		logger: deps.Logger,
	}
}

// Start blocks serving HTTP until Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("starting server", zap.String("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
