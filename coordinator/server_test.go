package coordinator

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BaSui01/researchflow/search"
	"github.com/BaSui01/researchflow/state"
)

func newAPIServer(t *testing.T) (*httptest.Server, state.Store) {
	t.Helper()
	store := state.NewMemoryStore()
	f := newFleet(t, store, scriptedProvider, search.NewStaticProvider(search.Result{Title: "T", Body: "b"}))
	c := newTestCoordinator(t, f)

	srv := httptest.NewServer(NewServer(c, store, nil))
	t.Cleanup(srv.Close)
	return srv, store
}

func TestServer_StartResearch(t *testing.T) {
	srv, store := newAPIServer(t)

	resp, err := http.Post(srv.URL+"/start_research?topic=quantum+computing&max_iterations=1", "", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var started map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&started))
	require.NotEmpty(t, started["task_id"])
	assert.Equal(t, "started", started["status"])

	require.Eventually(t, func() bool {
		task, err := store.Get(context.Background(), started["task_id"])
		return err == nil && task.IsTerminal()
	}, 10*time.Second, 10*time.Millisecond)
}

func TestServer_StartResearch_MissingTopic(t *testing.T) {
	srv, _ := newAPIServer(t)

	resp, err := http.Post(srv.URL+"/start_research", "", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServer_StartResearch_BadMaxIterations(t *testing.T) {
	srv, _ := newAPIServer(t)

	resp, err := http.Post(srv.URL+"/start_research?topic=x&max_iterations=zero", "", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServer_Task(t *testing.T) {
	srv, store := newAPIServer(t)

	task := state.NewTaskState("t-42", "topic", 2)
	task.Status = state.StatusCompleted
	require.NoError(t, store.Set(context.Background(), "t-42", task))

	resp, err := http.Get(srv.URL + "/task/t-42")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got state.TaskState
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, "t-42", got.TaskID)
	assert.Equal(t, state.StatusCompleted, got.Status)
}

func TestServer_Task_NotFound(t *testing.T) {
	srv, _ := newAPIServer(t)

	resp, err := http.Get(srv.URL + "/task/missing")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_Agents(t *testing.T) {
	srv, _ := newAPIServer(t)

	resp, err := http.Get(srv.URL + "/agents")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var listing struct {
		Agents []struct {
			URI      string `json:"uri"`
			Endpoint string `json:"endpoint"`
		} `json:"agents"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&listing))
	assert.Len(t, listing.Agents, 5)
	for _, entry := range listing.Agents {
		assert.NotEmpty(t, entry.URI)
		assert.NotEmpty(t, entry.Endpoint)
	}
}

func TestServer_Health(t *testing.T) {
	srv, _ := newAPIServer(t)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var health map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	assert.Equal(t, "healthy", health["status"])
}
