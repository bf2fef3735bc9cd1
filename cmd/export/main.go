package main

import (
	"context"
	"flag"
	"os"

	"github.com/ethanbaker/catfacts/pkg/export"
	"github.com/ethanbaker/catfacts/pkg/facts"
	"github.com/ethanbaker/catfacts/pkg/utils"
)

// Export every stored fact to a CSV file
func main() {
	output := flag.String("o", "cat_facts_export.csv", "path of the CSV file to write")
	flag.Parse()

	cfg := utils.NewConfigFromEnv(utils.EnvFile())
	utils.SetLogLevel(cfg.GetWithDefault("LOG_LEVEL", "info"))
	log := utils.GetLogger()

	db, err := facts.OpenDatabase(cfg)
	if err != nil {
		log.Fatalf("[EXPORT]: Failed to open database: %v", err)
	}

	store, err := facts.NewStore(db)
	if err != nil {
		log.Fatalf("[EXPORT]: Failed to initialize fact store: %v", err)
	}
	defer store.Close()

	file, err := os.Create(*output)
	if err != nil {
		log.Fatalf("[EXPORT]: Failed to create %s: %v", *output, err)
	}

	rows, err := export.WriteCSV(context.Background(), store, file)
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		log.Fatalf("[EXPORT]: Failed to write %s: %v", *output, err)
	}

	log.WithField("rows", rows).Infof("[EXPORT]: Exported facts to %s", *output)
}
