package storage

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"
)

// Job is a discovered job as tracked in the database.
type Job struct {
	FullName      string
	Class         string
	Enabled       bool
	LastSeenBuild int64
	LastSyncTime  *time.Time
	CreatedAt     time.Time
}

// JobRepo provides access to the tracked jobs.
type JobRepo struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewJobRepo initializes a new JobRepo.
func NewJobRepo(db *sql.DB, logger *slog.Logger) *JobRepo {
	return &JobRepo{
		db:     db,
		logger: logger.With("component", "job_repo"),
	}
}

// ListEnabledJobs returns all jobs still present on the controller.
func (r *JobRepo) ListEnabledJobs() ([]Job, error) {
	query := `
		SELECT full_name, class, enabled, last_seen_build, last_sync_time, created_at
		FROM jobs
		WHERE enabled = 1
		ORDER BY full_name`

	rows, err := r.db.Query(query)

	if err != nil {
		return nil, fmt.Errorf("failed to query enabled jobs: %w", err)
	}

	defer rows.Close()

	var jobs []Job

	for rows.Next() {
		var (
			job                     Job
			lastSyncTime, createdAt sql.NullInt64
		)

		if err := rows.Scan(
			&job.FullName,
			&job.Class,
			&job.Enabled,
			&job.LastSeenBuild,
			&lastSyncTime,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}

		if lastSyncTime.Valid {
			t := time.Unix(lastSyncTime.Int64, 0)
			job.LastSyncTime = &t
		}

		if createdAt.Valid {
			job.CreatedAt = time.Unix(createdAt.Int64, 0)
		}

		jobs = append(jobs, job)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate jobs: %w", err)
	}

	return jobs, nil
}

// UpdateLastSeen records the last build number observed for a job.
func (r *JobRepo) UpdateLastSeen(fullName string, buildNumber int64) error {
	result, err := r.db.Exec(
		`UPDATE jobs SET last_seen_build = ? WHERE full_name = ?`,
		buildNumber,
		fullName,
	)

	if err != nil {
		return fmt.Errorf("failed to update last seen build: %w", err)
	}

	affected, err := result.RowsAffected()

	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}

	if affected == 0 {
		r.logger.Warn("job vanished before update",
			"job", fullName,
		)
	}

	return nil
}

// SyncedJob is one job as reported by the controller during discovery.
type SyncedJob struct {
	FullName string
	Class    string
}

// SyncJobs reconciles the tracked jobs with the list reported by the
// controller. New jobs get inserted, vanished jobs get disabled, and the
// rest refresh their sync time. Changes land in the audit table.
func (r *JobRepo) SyncJobs(current []SyncedJob) error {
	tx, err := r.db.Begin()

	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer tx.Rollback()

	known := make(map[string]bool, len(current))

	for _, job := range current {
		known[job.FullName] = true
	}

	existing, err := listEnabledNamesInTx(tx)

	if err != nil {
		return fmt.Errorf("failed to list tracked jobs: %w", err)
	}

	now := time.Now().Unix()
	added := 0
	removed := 0

	for _, job := range current {
		if jobExistsInTx(tx, job.FullName) {
			if _, err := tx.Exec(
				`UPDATE jobs SET last_sync_time = ?, class = ?, enabled = 1 WHERE full_name = ?`,
				now,
				job.Class,
				job.FullName,
			); err != nil {
				return fmt.Errorf("failed to refresh job %s: %w", job.FullName, err)
			}

			continue
		}

		if _, err := tx.Exec(
			`INSERT INTO jobs(full_name, class, enabled, last_seen_build, last_sync_time, created_at)
			 VALUES (?, ?, 1, 0, ?, ?)`,
			job.FullName,
			job.Class,
			now,
			now,
		); err != nil {
			return fmt.Errorf("failed to insert job %s: %w", job.FullName, err)
		}

		if err := recordChangeInTx(tx, job.FullName, "ADD", now); err != nil {
			return fmt.Errorf("failed to record change for %s: %w", job.FullName, err)
		}

		added++
	}

	for _, name := range existing {
		if known[name] {
			continue
		}

		if _, err := tx.Exec(
			`UPDATE jobs SET enabled = 0 WHERE full_name = ?`,
			name,
		); err != nil {
			return fmt.Errorf("failed to disable job %s: %w", name, err)
		}

		if err := recordChangeInTx(tx, name, "REMOVE", now); err != nil {
			return fmt.Errorf("failed to record change for %s: %w", name, err)
		}

		removed++
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	r.logger.Debug("synced jobs",
		"total", len(current),
		"added", added,
		"removed", removed,
	)

	return nil
}

func listEnabledNamesInTx(tx *sql.Tx) ([]string, error) {
	rows, err := tx.Query(`SELECT full_name FROM jobs WHERE enabled = 1`)

	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var names []string

	for rows.Next() {
		var name string

		if err := rows.Scan(&name); err != nil {
			return nil, err
		}

		names = append(names, name)
	}

	return names, rows.Err()
}

func jobExistsInTx(tx *sql.Tx, fullName string) bool {
	var exists int

	err := tx.QueryRow(
		`SELECT 1 FROM jobs WHERE full_name = ? LIMIT 1`,
		fullName,
	).Scan(&exists)

	return err == nil
}

func recordChangeInTx(tx *sql.Tx, fullName, action string, eventTime int64) error {
	_, err := tx.Exec(
		`INSERT INTO job_changes(full_name, action, event_time) VALUES (?, ?, ?)`,
		fullName,
		action,
		eventTime,
	)

	return err
}
