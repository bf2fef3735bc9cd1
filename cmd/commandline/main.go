package main

import (
	"os"

	"github.com/ethanbaker/catfacts/pkg/sdk"
	"github.com/ethanbaker/catfacts/pkg/utils"
)

// Command line client for the cat facts API
func main() {
	cfg := utils.NewConfigFromEnv(utils.EnvFile())
	client := sdk.NewClient(cfg.GetWithDefault("CATFACTS_API_URL", "http://localhost:8080"))

	if err := newRootCmd(client, os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}
