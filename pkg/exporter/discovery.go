package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/promhippie/jenkins_client/pkg/internal/storage"
	"github.com/promhippie/jenkins_client/pkg/jenkins"
)

// StartDiscovery periodically syncs the top-level jobs of the controller
// into the local inventory until the context gets canceled.
func StartDiscovery(ctx context.Context, client *jenkins.Client, repo *storage.JobRepo, interval time.Duration, logger *slog.Logger) error {
	logger = logger.With("component", "discovery")

	logger.Info("Starting job discovery",
		"interval", interval,
	)

	if err := syncJobsOnce(ctx, client, repo, logger); err != nil {
		logger.Warn("Initial sync failed",
			"err", err,
		)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Stopping job discovery",
				"reason", ctx.Err(),
			)

			return ctx.Err()
		case <-ticker.C:
			if err := syncJobsOnce(ctx, client, repo, logger); err != nil {
				logger.Warn("Sync failed",
					"err", err,
				)
			}
		}
	}
}

func syncJobsOnce(ctx context.Context, client *jenkins.Client, repo *storage.JobRepo, logger *slog.Logger) error {
	home, err := client.Root(ctx)

	if err != nil {
		return fmt.Errorf("failed to fetch jobs: %w", err)
	}

	jobs := make([]storage.SyncedJob, 0, len(home.Jobs))

	for _, job := range home.Jobs {
		if job.Name == "" {
			continue
		}

		jobs = append(jobs, storage.SyncedJob{
			FullName: job.Name,
			Class:    job.Class,
		})
	}

	if err := repo.SyncJobs(jobs); err != nil {
		return fmt.Errorf("failed to sync jobs: %w", err)
	}

	logger.Debug("Synced jobs",
		"count", len(jobs),
	)

	return nil
}
