package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ethanbaker/catfacts/pkg/cache"
	"github.com/ethanbaker/catfacts/pkg/catfact"
	"github.com/ethanbaker/catfacts/pkg/facts"
	"github.com/ethanbaker/catfacts/pkg/importer"
	"github.com/ethanbaker/catfacts/pkg/utils"
	"github.com/sirupsen/logrus"
)

// Import facts from the external api, once or on a schedule
func main() {
	cfg := utils.NewConfigFromEnv(utils.EnvFile())
	utils.SetLogLevel(cfg.GetWithDefault("LOG_LEVEL", "info"))
	log := utils.GetLogger()

	opts, err := importer.LoadOptions(cfg.GetWithDefault("IMPORT_CONFIG_PATH", "import.yaml"))
	if err != nil {
		log.Fatalf("[IMPORT]: Failed to load import options: %v", err)
	}

	db, err := facts.OpenDatabase(cfg)
	if err != nil {
		log.Fatalf("[IMPORT]: Failed to open database: %v", err)
	}

	store, err := facts.NewStore(db)
	if err != nil {
		log.Fatalf("[IMPORT]: Failed to initialize fact store: %v", err)
	}
	defer store.Close()

	// Insert through the coordinator so a running API sees the new facts
	redisCache := cache.NewRedisCache(cache.NewRedisClient(cfg))
	defer redisCache.Close()
	coordinator := facts.NewCoordinator(store, redisCache, facts.CoordinatorOptions{
		TTL:       cfg.GetDurationWithDefault("CACHE_TTL", cache.DefaultTTL),
		ListLimit: cfg.GetIntWithDefault("FACTS_LIST_LIMIT", facts.DefaultListLimit),
	})

	imp := importer.New(catfact.NewClientFromConfig(cfg), coordinator, opts)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := imp.Run(ctx)
	if err != nil {
		log.Fatalf("[IMPORT]: Import failed: %v", err)
	}
	log.WithFields(logrus.Fields{
		"added":      report.Added,
		"duplicates": report.Duplicates,
		"failures":   report.Failures,
		"attempts":   report.Attempts,
	}).Info("[IMPORT]: Import finished")

	if opts.Schedule == "" {
		return
	}

	scheduler, err := importer.NewScheduler(imp, opts.Schedule)
	if err != nil {
		log.Fatalf("[IMPORT]: %v", err)
	}

	log.WithField("schedule", opts.Schedule).Info("[IMPORT]: Running on schedule, interrupt to stop")
	scheduler.Start(ctx)
}
