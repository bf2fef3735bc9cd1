package importer

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/ethanbaker/catfacts/pkg/facts"
	"github.com/ethanbaker/catfacts/pkg/utils"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Fetcher returns one fact from an external source
type Fetcher interface {
	FetchOne(ctx context.Context) (string, error)
}

// Inserter stores a fact
type Inserter interface {
	Insert(ctx context.Context, text string) (facts.InsertResult, error)
}

// Options controls an import run
type Options struct {
	Target      int    `yaml:"target"`       // Number of new facts to add
	MaxAttempts int    `yaml:"max_attempts"` // Upper bound on fetches per run
	Schedule    string `yaml:"schedule"`     // Optional cron spec for recurring runs
}

// DefaultOptions returns the settings used when no config file exists
func DefaultOptions() Options {
	return Options{Target: 5, MaxAttempts: 15}
}

// LoadOptions reads import settings from a YAML file. A missing file yields the defaults.
func LoadOptions(path string) (Options, error) {
	opts := DefaultOptions()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return opts, nil
	}
	if err != nil {
		return opts, fmt.Errorf("failed to read import config file: %w", err)
	}

	if err := yaml.Unmarshal(data, &opts); err != nil {
		return opts, fmt.Errorf("failed to parse import config file: %w", err)
	}

	if opts.Target <= 0 {
		return opts, fmt.Errorf("target must be positive, got %d", opts.Target)
	}
	if opts.MaxAttempts < opts.Target {
		return opts, fmt.Errorf("max_attempts (%d) must be at least target (%d)", opts.MaxAttempts, opts.Target)
	}

	return opts, nil
}

// Report summarizes an import run
type Report struct {
	Added      int `json:"added"`
	Duplicates int `json:"duplicates"`
	Failures   int `json:"failures"`
	Attempts   int `json:"attempts"`
}

// Importer pulls facts from a Fetcher into an Inserter
type Importer struct {
	fetcher  Fetcher
	inserter Inserter
	opts     Options
	log      *logrus.Entry
}

// New creates an importer
func New(fetcher Fetcher, inserter Inserter, opts Options) *Importer {
	return &Importer{
		fetcher:  fetcher,
		inserter: inserter,
		opts:     opts,
		log:      utils.GetLogger().WithField("component", "importer"),
	}
}

// Run fetches until Target new facts were added or MaxAttempts fetches were made.
// Failed fetches and duplicates use up an attempt. Only storage errors and context
// cancellation abort the run.
func (i *Importer) Run(ctx context.Context) (Report, error) {
	var report Report

	for report.Added < i.opts.Target && report.Attempts < i.opts.MaxAttempts {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		report.Attempts++

		fact, err := i.fetcher.FetchOne(ctx)
		if err != nil {
			report.Failures++
			i.log.WithError(err).Warn("no fact received")
			continue
		}

		result, err := i.inserter.Insert(ctx, fact)
		if errors.Is(err, facts.ErrEmptyText) {
			report.Failures++
			continue
		}
		if err != nil {
			return report, fmt.Errorf("failed to insert fact: %w", err)
		}

		switch result {
		case facts.Inserted:
			report.Added++
			i.log.WithField("fact", fact).Info("inserted")
		case facts.InsertDuplicate:
			report.Duplicates++
			i.log.WithField("fact", fact).Info("skipped duplicate")
		}
	}

	if report.Added < i.opts.Target {
		i.log.WithFields(logrus.Fields{
			"added":    report.Added,
			"attempts": report.Attempts,
		}).Warn("fewer unique facts than requested")
	}

	return report, nil
}
