package jenkins

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingTransport counts the requests passing through so tests can
// prove that a code path never talked to the server.
type countingTransport struct {
	next     http.RoundTripper
	requests int
}

func (t *countingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	t.requests++
	return t.next.RoundTrip(req)
}

func newTestClient(t *testing.T, handler http.Handler) (*Client, *countingTransport) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	transport := &countingTransport{next: http.DefaultTransport}

	client, err := NewClient(
		WithEndpoint(server.URL),
		WithUsername("admin"),
		WithPassword("secret"),
		WithHTTPClient(&http.Client{Transport: transport}),
	)

	require.NoError(t, err)
	return client, transport
}

func TestNewClientRequiresEndpoint(t *testing.T) {
	_, err := NewClient()
	require.Error(t, err)
}

func TestClientGetJob(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/job/normal%20job/api/json", r.URL.EscapedPath())
		assert.Equal(t, "1", r.URL.Query().Get("depth"))

		username, password, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "admin", username)
		assert.Equal(t, "secret", password)

		w.Write([]byte(`{"_class": "hudson.model.FreeStyleProject", "name": "normal job", "buildable": true}`))
	}))

	job, err := client.GetJob(context.Background(), "normal job")
	require.NoError(t, err)

	name, err := job.Name()
	require.NoError(t, err)
	assert.Equal(t, "normal job", name)
}

func TestClientGetNestedJob(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/job/folder/job/child/api/json", r.URL.EscapedPath())
		w.Write([]byte(`{"_class": "org.jenkinsci.plugins.workflow.job.WorkflowJob", "name": "child"}`))
	}))

	job, err := client.GetJob(context.Background(), "folder/child")
	require.NoError(t, err)

	name, err := job.Name()
	require.NoError(t, err)
	assert.Equal(t, "child", name)
}

func TestClientRoot(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/json", r.URL.EscapedPath())
		w.Write([]byte(`{
			"_class": "hudson.model.Hudson",
			"jobs": [{"_class": "hudson.model.FreeStyleProject", "name": "job1", "url": "http://x/job/job1/", "color": "blue"}],
			"views": [{"_class": "hudson.model.AllView", "name": "all", "url": "http://x/"}]
		}`))
	}))

	home, err := client.Root(context.Background())
	require.NoError(t, err)
	require.Len(t, home.Jobs, 1)
	assert.Equal(t, "job1", home.Jobs[0].Name)
	require.Len(t, home.Views, 1)
}

func TestClientStatusError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))

	_, err := client.GetJob(context.Background(), "missing")
	require.Error(t, err)

	var status *StatusError
	require.ErrorAs(t, err, &status)
	assert.Equal(t, http.StatusNotFound, status.Code)
}

func TestShortJobGetFull(t *testing.T) {
	client, transport := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/job/job1/api/json", r.URL.EscapedPath())
		w.Write([]byte(`{"_class": "hudson.model.FreeStyleProject", "name": "job1"}`))
	}))

	short := ShortJob{
		Class: "hudson.model.FreeStyleProject",
		Name:  "job1",
		URL:   client.Endpoint() + "/job/job1/",
	}

	job, err := short.GetFull(context.Background(), client)
	require.NoError(t, err)
	assert.Equal(t, 1, transport.requests)

	name, err := job.Name()
	require.NoError(t, err)
	assert.Equal(t, "job1", name)
}

func TestShortJobGetFullKindMismatch(t *testing.T) {
	client, transport := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	}))

	short := ShortJob{
		Name: "job1",
		URL:  client.Endpoint() + "/queue/item/17/",
	}

	_, err := short.GetFull(context.Background(), client)
	require.Error(t, err)

	var invalid *InvalidURLError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, ExpectJob, invalid.Expected)
	assert.Zero(t, transport.requests)
}

func TestShortBuildGetFullKindMismatch(t *testing.T) {
	client, transport := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	}))

	short := ShortBuild{
		Number: 3,
		URL:    client.Endpoint() + "/job/job1/",
	}

	_, err := short.GetFull(context.Background(), client)

	var invalid *InvalidURLError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, ExpectBuild, invalid.Expected)
	assert.Zero(t, transport.requests)
}

func TestClientTriggerJob(t *testing.T) {
	var client *Client

	client, _ = newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/job/job1/build", r.URL.EscapedPath())

		w.Header().Set("Location", client.Endpoint()+"/queue/item/42/")
		w.WriteHeader(http.StatusCreated)
	}))

	item, err := client.TriggerJob(context.Background(), "job1")
	require.NoError(t, err)
	assert.Equal(t, int64(42), item.ID)
}

func TestClientTriggerJobBadLocation(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Location", "http://elsewhere.example.com/queue/item/42/")
		w.WriteHeader(http.StatusCreated)
	}))

	_, err := client.TriggerJob(context.Background(), "job1")

	var invalid *InvalidURLError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, ExpectQueueItem, invalid.Expected)
}

func TestClientEnableDisableJob(t *testing.T) {
	var paths []string

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		paths = append(paths, r.URL.EscapedPath())
	}))

	ctx := context.Background()
	require.NoError(t, client.EnableJob(ctx, "job1"))
	require.NoError(t, client.DisableJob(ctx, "job1"))
	require.NoError(t, client.PollSCMJob(ctx, "job1"))

	assert.Equal(t, []string{"/job/job1/enable", "/job/job1/disable", "/job/job1/polling"}, paths)
}

func TestClientViewActions(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/view/view1/addJobToView", r.URL.EscapedPath())
		assert.Equal(t, "job one", r.URL.Query().Get("name"))
	}))

	require.NoError(t, client.AddJobToView(context.Background(), "view1", "job one"))
}

func TestClientGetQueue(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/queue/api/json", r.URL.EscapedPath())
		w.Write([]byte(`{
			"_class": "hudson.model.Queue",
			"items": [
				{
					"_class": "hudson.model.Queue$WaitingItem",
					"id": 17,
					"why": "In the quiet period.",
					"task": {"_class": "hudson.model.FreeStyleProject", "name": "job1"}
				}
			]
		}`))
	}))

	queue, err := client.GetQueue(context.Background())
	require.NoError(t, err)
	require.Len(t, queue.Items, 1)
	assert.Equal(t, int64(17), queue.Items[0].ID)
	require.NotNil(t, queue.Items[0].Why)
	assert.Equal(t, "In the quiet period.", *queue.Items[0].Why)
	assert.Equal(t, "job1", queue.Items[0].Task.Name)
}

func TestQueueItemGetBuildPending(t *testing.T) {
	client, transport := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	}))

	item := QueueItem{ID: 17, URL: client.Endpoint() + "/queue/item/17/"}

	_, err := item.GetBuild(context.Background(), client)

	var invalid *InvalidURLError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, ExpectBuild, invalid.Expected)
	assert.Zero(t, transport.requests)
}

func TestClientGetConsoleText(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/job/job1/42/consoleText", r.URL.EscapedPath())
		w.Write([]byte("Started by user admin\nFinished: SUCCESS\n"))
	}))

	text, err := client.GetConsoleText(context.Background(), "job1", ByNumber(42))
	require.NoError(t, err)
	assert.Contains(t, text, "Finished: SUCCESS")
}

func TestClientGetMavenArtifacts(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/job/mvn/1/mavenArtifacts/api/json", r.URL.EscapedPath())
		w.Write([]byte(`{
			"_class": "hudson.maven.reporters.MavenArtifactRecord",
			"mainArtifact": {"artifactId": "lib", "groupId": "com.example", "version": "1.0.0", "type": "jar"}
		}`))
	}))

	record, err := client.GetMavenArtifacts(context.Background(), "mvn", 1)
	require.NoError(t, err)
	assert.Equal(t, "lib", record.MainArtifact.ArtifactID)
	assert.Equal(t, "jar", record.MainArtifact.ArtifactType)
}
