package api

import (
	"strings"
	"time"

	api_utils "github.com/ethanbaker/api/pkg/utils"
	"github.com/ethanbaker/catfacts/pkg/facts"
	"github.com/ethanbaker/catfacts/pkg/utils"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	facts_module "github.com/ethanbaker/catfacts/internal/api/modules/facts"
	health_module "github.com/ethanbaker/catfacts/internal/api/modules/health"
	likes_module "github.com/ethanbaker/catfacts/internal/api/modules/likes"
)

// Upstream is the external fact api client, reporting its breaker state to health checks
type Upstream interface {
	facts_module.Fetcher
	health_module.Breaker
}

// Dependencies are the services the API modules are built on. A nil Fetcher disables the
// fetch endpoint.
type Dependencies struct {
	Facts    *facts.Coordinator
	Fetcher  Upstream
	Database health_module.Pinger
	Cache    health_module.Pinger
}

// NewEngine builds the gin engine with every module registered
func NewEngine(cfg *utils.Config, deps Dependencies) *gin.Engine {
	engine := gin.New()
	engine.Use(RequestID(), RequestLogger(), gin.Recovery())
	engine.NoRoute(api_utils.NoRouteHandler)

	// Add trusted proxies
	engine.SetTrustedProxies(nil)

	// Add CORS using gin-contrib/cors (https://github.com/gin-contrib/cors for documentation)
	engine.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Split(cfg.GetWithDefault("CORS_ALLOWED_ORIGINS", "*"), ","),
		AllowMethods:     []string{"OPTIONS", "GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	// Base group '/api' for all API routes
	baseGroup := engine.Group("/api")

	var (
		fetcher facts_module.Fetcher
		breaker health_module.Breaker
	)
	if deps.Fetcher != nil {
		fetcher, breaker = deps.Fetcher, deps.Fetcher
	}

	health_module.RegisterRoutes(baseGroup, health_module.NewController(deps.Database, deps.Cache, breaker))
	facts_module.RegisterRoutes(baseGroup, facts_module.NewController(deps.Facts, fetcher))
	likes_module.RegisterRoutes(baseGroup, likes_module.NewController(deps.Facts))

	return engine
}

// Start builds the engine and serves it on API_PORT
func Start(cfg *utils.Config, deps Dependencies) error {
	port := cfg.GetWithDefault("API_PORT", "8080")

	engine := NewEngine(cfg, deps)

	utils.GetLogger().WithField("port", port).Info("[API-MAIN]: starting server")
	return engine.Run(":" + port)
}
