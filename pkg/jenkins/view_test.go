package jenkins

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewDecodeListView(t *testing.T) {
	payload := `{
		"_class": "hudson.model.ListView",
		"name": "view1",
		"url": "http://jenkins.example.com/view/view1/",
		"jobs": [
			{"_class": "hudson.model.FreeStyleProject", "name": "job1", "url": "http://jenkins.example.com/job/job1/", "color": "blue"}
		]
	}`

	view := &View{}
	require.NoError(t, json.Unmarshal([]byte(payload), view))

	name, err := view.Name()
	require.NoError(t, err)
	assert.Equal(t, "view1", name)

	jobs, err := view.Jobs()
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, ColorBlue, jobs[0].Color)
}

func TestViewDecodeUnknownClass(t *testing.T) {
	view := &View{}
	require.NoError(t, json.Unmarshal([]byte(`{"_class": "hudson.plugins.view.dashboard.Dashboard", "name": "dash"}`), view))

	_, err := view.Jobs()

	var unsupported *UnsupportedVariantError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, ExpectView, unsupported.Object)
	assert.Equal(t, "hudson.plugins.view.dashboard.Dashboard", unsupported.Variant)
}

func TestClientGetView(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/view/view%20one/api/json", r.URL.EscapedPath())
		w.Write([]byte(`{"_class": "hudson.model.ListView", "name": "view one"}`))
	}))

	view, err := client.GetView(context.Background(), "view one")
	require.NoError(t, err)

	name, err := view.Name()
	require.NoError(t, err)
	assert.Equal(t, "view one", name)
}

func TestShortViewGetFullKindMismatch(t *testing.T) {
	client, transport := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	}))

	short := ShortView{
		Name: "all",
		URL:  client.Endpoint() + "/",
	}

	_, err := short.GetFull(context.Background(), client)

	var invalid *InvalidURLError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, ExpectView, invalid.Expected)
	assert.Zero(t, transport.requests)
}

func TestViewAddRemoveJob(t *testing.T) {
	var paths []string

	var client *Client

	client, _ = newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			paths = append(paths, r.URL.EscapedPath())
			return
		}

		w.Write([]byte(`{"_class": "hudson.model.ListView", "name": "view1", "url": "` + client.Endpoint() + `/view/view1/"}`))
	}))

	view, err := client.GetView(context.Background(), "view1")
	require.NoError(t, err)

	require.NoError(t, view.AddJob(context.Background(), client, "job1"))
	require.NoError(t, view.RemoveJob(context.Background(), client, "job1"))

	assert.Equal(t, []string{"/view/view1/addJobToView", "/view/view1/removeJobFromView"}, paths)
}
