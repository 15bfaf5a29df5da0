package storage

import (
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) *JobRepo {
	t.Helper()

	logger := slog.New(slog.DiscardHandler)

	db, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewJobRepo(db, logger)
}

func TestSyncJobsInsertsNewJobs(t *testing.T) {
	repo := newTestRepo(t)

	require.NoError(t, repo.SyncJobs([]SyncedJob{
		{FullName: "job1", Class: "hudson.model.FreeStyleProject"},
		{FullName: "folder/child", Class: "org.jenkinsci.plugins.workflow.job.WorkflowJob"},
	}))

	jobs, err := repo.ListEnabledJobs()
	require.NoError(t, err)
	require.Len(t, jobs, 2)

	assert.Equal(t, "folder/child", jobs[0].FullName)
	assert.Equal(t, "org.jenkinsci.plugins.workflow.job.WorkflowJob", jobs[0].Class)
	assert.Equal(t, "job1", jobs[1].FullName)
	assert.NotNil(t, jobs[0].LastSyncTime)
}

func TestSyncJobsDisablesVanishedJobs(t *testing.T) {
	repo := newTestRepo(t)

	require.NoError(t, repo.SyncJobs([]SyncedJob{
		{FullName: "job1"},
		{FullName: "job2"},
	}))

	require.NoError(t, repo.SyncJobs([]SyncedJob{
		{FullName: "job1"},
	}))

	jobs, err := repo.ListEnabledJobs()
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "job1", jobs[0].FullName)
}

func TestSyncJobsReenablesReturnedJobs(t *testing.T) {
	repo := newTestRepo(t)

	require.NoError(t, repo.SyncJobs([]SyncedJob{{FullName: "job1"}}))
	require.NoError(t, repo.SyncJobs([]SyncedJob{}))
	require.NoError(t, repo.SyncJobs([]SyncedJob{{FullName: "job1"}}))

	jobs, err := repo.ListEnabledJobs()
	require.NoError(t, err)
	require.Len(t, jobs, 1)
}

func TestUpdateLastSeen(t *testing.T) {
	repo := newTestRepo(t)

	require.NoError(t, repo.SyncJobs([]SyncedJob{{FullName: "job1"}}))
	require.NoError(t, repo.UpdateLastSeen("job1", 42))

	jobs, err := repo.ListEnabledJobs()
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, int64(42), jobs[0].LastSeenBuild)

	// Unknown jobs are logged, not failed.
	require.NoError(t, repo.UpdateLastSeen("missing", 1))
}
