package exporter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/promhippie/jenkins_client/pkg/internal/storage"
	"github.com/promhippie/jenkins_client/pkg/jenkins"
)

// BuildCollector tracks the last completed build of every job known to
// the discovery, working off the local inventory instead of walking the
// controller on every scrape.
type BuildCollector struct {
	client *jenkins.Client
	repo   *storage.JobRepo
	logger *slog.Logger

	mu         sync.RWMutex
	lastResult *prometheus.GaugeVec
}

// NewBuildCollector returns a new BuildCollector.
func NewBuildCollector(client *jenkins.Client, repo *storage.JobRepo, logger *slog.Logger) *BuildCollector {
	return &BuildCollector{
		client: client,
		repo:   repo,
		logger: logger.With("collector", "build"),
		lastResult: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "jenkins_build_last_result",
				Help: "Always 1, the status label carries the result of the last completed build",
			},
			[]string{"name", "class", "status"},
		),
	}
}

// Describe sends the super-set of all possible descriptors of metrics collected by this Collector.
func (c *BuildCollector) Describe(ch chan<- *prometheus.Desc) {
	c.lastResult.Describe(ch)
}

// Collect is called by the Prometheus registry when collecting metrics.
func (c *BuildCollector) Collect(ch chan<- prometheus.Metric) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	c.lastResult.Collect(ch)
}

// Start runs the collection loop until the context gets canceled.
func (c *BuildCollector) Start(ctx context.Context, interval time.Duration) error {
	c.logger.Info("Starting build collector",
		"interval", interval,
	)

	if err := c.collectOnce(ctx); err != nil {
		c.logger.Warn("Initial collection failed",
			"err", err,
		)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("Stopping build collector",
				"reason", ctx.Err(),
			)

			return ctx.Err()
		case <-ticker.C:
			if err := c.collectOnce(ctx); err != nil {
				if errors.Is(err, context.Canceled) {
					continue
				}

				c.logger.Warn("Collection failed",
					"err", err,
				)
			}
		}
	}
}

func (c *BuildCollector) collectOnce(ctx context.Context) error {
	jobs, err := c.repo.ListEnabledJobs()

	if err != nil {
		return fmt.Errorf("failed to list tracked jobs: %w", err)
	}

	if len(jobs) == 0 {
		c.logger.Debug("No tracked jobs to collect")
		return nil
	}

	c.mu.Lock()
	c.lastResult.Reset()
	c.mu.Unlock()

	for _, job := range jobs {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if err := c.processJob(ctx, job); err != nil {
			if errors.Is(err, context.Canceled) {
				return err
			}

			c.logger.Warn("Failed to process job",
				"job", job.FullName,
				"err", err,
			)
		}
	}

	return nil
}

func (c *BuildCollector) processJob(ctx context.Context, tracked storage.Job) error {
	job, err := c.client.GetJob(ctx, tracked.FullName)

	if err != nil {
		return err
	}

	last, err := job.LastCompletedBuild()

	if err != nil {
		// Jobs of unmodeled classes cannot report builds, skip them.
		var unsupported *jenkins.UnsupportedVariantError

		if errors.As(err, &unsupported) {
			c.logger.Debug("Skipping unsupported job",
				"job", tracked.FullName,
				"class", job.Class(),
			)

			return nil
		}

		return err
	}

	if last == nil {
		c.setStatus(tracked, "not_built")
		return nil
	}

	build, err := last.GetFull(ctx, c.client)

	if err != nil {
		return err
	}

	status := "unknown"

	if result, err := build.Result(); err == nil {
		status = statusLabel(result)
	}

	if building, err := build.Building(); err == nil && building {
		status = "in_progress"
	}

	c.setStatus(tracked, status)

	if last.Number > tracked.LastSeenBuild {
		if err := c.repo.UpdateLastSeen(tracked.FullName, last.Number); err != nil {
			return err
		}
	}

	return nil
}

func (c *BuildCollector) setStatus(tracked storage.Job, status string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lastResult.DeletePartialMatch(prometheus.Labels{"name": tracked.FullName})
	c.lastResult.WithLabelValues(tracked.FullName, tracked.Class, status).Set(1.0)
}

func statusLabel(result jenkins.BuildStatus) string {
	switch result {
	case jenkins.StatusSuccess:
		return "success"
	case jenkins.StatusUnstable:
		return "unstable"
	case jenkins.StatusFailure:
		return "failure"
	case jenkins.StatusAborted:
		return "aborted"
	case jenkins.StatusNotBuilt, "":
		return "not_built"
	default:
		return "unknown"
	}
}
