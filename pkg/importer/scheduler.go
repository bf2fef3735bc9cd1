package importer

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Scheduler repeats an import on a cron schedule
type Scheduler struct {
	importer *Importer
	cron     *cron.Cron
	reports  chan Report
}

// NewScheduler registers importer under spec (standard five-field cron syntax or descriptors like "@hourly")
func NewScheduler(importer *Importer, spec string) (*Scheduler, error) {
	s := &Scheduler{
		importer: importer,
		cron:     cron.New(),
		reports:  make(chan Report, 16),
	}

	if _, err := s.cron.AddFunc(spec, s.runOnce); err != nil {
		return nil, fmt.Errorf("invalid import schedule %q: %w", spec, err)
	}

	return s, nil
}

// Reports delivers the outcome of each scheduled run. Reports are dropped when nobody reads them.
func (s *Scheduler) Reports() <-chan Report {
	return s.reports
}

// Start runs the schedule until ctx is done, then waits for a running import to finish
func (s *Scheduler) Start(ctx context.Context) {
	s.cron.Start()
	<-ctx.Done()
	<-s.cron.Stop().Done()
}

func (s *Scheduler) runOnce() {
	report, err := s.importer.Run(context.Background())
	if err != nil {
		s.importer.log.WithError(err).Error("scheduled import failed")
		return
	}

	s.importer.log.WithFields(logrus.Fields{
		"added":      report.Added,
		"duplicates": report.Duplicates,
		"failures":   report.Failures,
	}).Info("scheduled import finished")

	select {
	case s.reports <- report:
	default:
	}
}
