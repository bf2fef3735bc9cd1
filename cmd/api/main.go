package main

import (
	"github.com/ethanbaker/catfacts/internal/api"
	"github.com/ethanbaker/catfacts/pkg/cache"
	"github.com/ethanbaker/catfacts/pkg/catfact"
	"github.com/ethanbaker/catfacts/pkg/facts"
	"github.com/ethanbaker/catfacts/pkg/utils"
	"github.com/sirupsen/logrus"
)

// Start the API server
func main() {
	// Load global config
	cfg := utils.NewConfigFromEnv(utils.EnvFile())
	utils.SetLogLevel(cfg.GetWithDefault("LOG_LEVEL", "info"))
	log := utils.GetLogger()

	// Open the fact store
	db, err := facts.OpenDatabase(cfg)
	if err != nil {
		log.Fatalf("[API-MAIN]: Failed to open database: %v", err)
	}

	store, err := facts.NewStore(db)
	if err != nil {
		log.Fatalf("[API-MAIN]: Failed to initialize fact store: %v", err)
	}
	defer store.Close()

	// Connect the cache. An unreachable cache is not fatal, reads fall back to the store.
	redisCache := cache.NewRedisCache(cache.NewRedisClient(cfg))
	defer redisCache.Close()
	log.WithFields(logrus.Fields{
		"addr": redisCache.Addr(),
		"db":   redisCache.DB(),
	}).Info("[API-MAIN]: Using redis cache")

	coordinator := facts.NewCoordinator(store, redisCache, facts.CoordinatorOptions{
		TTL:       cfg.GetDurationWithDefault("CACHE_TTL", cache.DefaultTTL),
		ListLimit: cfg.GetIntWithDefault("FACTS_LIST_LIMIT", facts.DefaultListLimit),
	})

	// Start
	err = api.Start(cfg, api.Dependencies{
		Facts:    coordinator,
		Fetcher:  catfact.NewClientFromConfig(cfg),
		Database: store,
		Cache:    redisCache,
	})
	if err != nil {
		log.Fatalf("[API-MAIN]: Failed to start server: %v", err)
	}
}
