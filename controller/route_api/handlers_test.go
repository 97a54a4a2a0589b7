package route_api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"routing/executor"
	"routing/graph"
	"routing/planner"
)

func newTestServer(t *testing.T) (*Server, *graph.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s := graph.NewStore()
	require.NoError(t, s.AddRoad("R1", "A", "B", 1.0, 100, 60))
	require.NoError(t, s.AddRoad("R2", "B", "C", 1.0, 100, 60))
	require.NoError(t, s.AddRoad("R3", "A", "C", 2.2, 100, 60))

	exec, err := executor.New(planner.New(s), 2, 4, time.Second)
	require.NoError(t, err)
	t.Cleanup(exec.Close)

	return NewServer(s, exec, "0"), s
}

func doJSON(t *testing.T, router *gin.Engine, method, url string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRequestPath(t *testing.T) {
	srv, _ := newTestServer(t)
	router := srv.Router()

	w := doJSON(t, router, http.MethodPost, "/api/request_path",
		PathRequest{StartNode: "A", EndNode: "C"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp PathResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []string{"A", "B", "C"}, resp.Path)
	assert.Len(t, resp.AllPaths, 2)
	assert.Greater(t, resp.Weight, 0.0)
}

func TestRequestPathErrors(t *testing.T) {
	srv, _ := newTestServer(t)
	router := srv.Router()

	tests := []struct {
		name string
		body interface{}
		code int
	}{
		{name: "missing fields", body: map[string]string{"start_node": "A"}, code: http.StatusBadRequest},
		{name: "same node", body: PathRequest{StartNode: "A", EndNode: "A"}, code: http.StatusBadRequest},
		{name: "unknown node", body: PathRequest{StartNode: "A", EndNode: "Z"}, code: http.StatusBadRequest},
		{name: "unknown vehicle", body: PathRequest{StartNode: "A", EndNode: "C", VehicleType: "boat"}, code: http.StatusBadRequest},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := doJSON(t, router, http.MethodPost, "/api/request_path", tc.body)
			assert.Equal(t, tc.code, w.Code)
		})
	}
}

func TestRequestPathNoRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	s := graph.NewStore()
	require.NoError(t, s.AddRoad("R1", "A", "B", 1.0, 100, 60))
	require.NoError(t, s.AddRoad("R2", "C", "D", 1.0, 100, 60))
	exec, err := executor.New(planner.New(s), 2, 4, time.Second)
	require.NoError(t, err)
	t.Cleanup(exec.Close)
	router := NewServer(s, exec, "0").Router()

	w := doJSON(t, router, http.MethodPost, "/api/request_path",
		PathRequest{StartNode: "A", EndNode: "D"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAsyncRoundTrip(t *testing.T) {
	srv, _ := newTestServer(t)
	router := srv.Router()

	w := doJSON(t, router, http.MethodPost, "/api/request_path_async",
		PathRequest{StartNode: "A", EndNode: "C"})
	require.Equal(t, http.StatusAccepted, w.Code)

	var submitted TaskSubmitResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &submitted))
	require.NotEmpty(t, submitted.TaskID)

	require.Eventually(t, func() bool {
		w := doJSON(t, router, http.MethodGet, "/api/task/"+submitted.TaskID, nil)
		if w.Code != http.StatusOK {
			return false
		}
		var status TaskStatusResponse
		if err := json.Unmarshal(w.Body.Bytes(), &status); err != nil {
			return false
		}
		return status.Status == executor.StatusCompleted
	}, time.Second, 10*time.Millisecond)

	w = doJSON(t, router, http.MethodGet, "/api/task/"+submitted.TaskID, nil)
	var status TaskStatusResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	require.NotNil(t, status.Result)
	assert.Equal(t, []string{"A", "B", "C"}, status.Result.Path)
	require.NotNil(t, status.CompletedAt)
}

func TestTaskStatusUnknownID(t *testing.T) {
	srv, _ := newTestServer(t)
	router := srv.Router()

	w := doJSON(t, router, http.MethodGet, "/api/task/task-0-999999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTrafficUpdate(t *testing.T) {
	srv, _ := newTestServer(t)
	router := srv.Router()

	body := map[string]interface{}{
		"intersection_id": "A",
		"roads": []map[string]interface{}{
			{"road_id": "R1", "vehicle_count": 80, "average_speed": 20},
			{"road_id": "R99", "vehicle_count": 10, "average_speed": 50},
		},
	}
	w := doJSON(t, router, http.MethodPost, "/api/traffic_update", body)
	require.Equal(t, http.StatusOK, w.Code)

	var outcome struct {
		Updated int      `json:"roads_updated"`
		Skipped []string `json:"skipped_road_ids"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &outcome))
	assert.Equal(t, 1, outcome.Updated)
	assert.Equal(t, []string{"R99"}, outcome.Skipped)

	// The update is immediately visible on the roads listing.
	w = doJSON(t, router, http.MethodGet, "/api/roads", nil)
	var roads RoadsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &roads))
	for _, r := range roads.Roads {
		if r.ID == "R1" {
			assert.Equal(t, 80.0, r.Flow)
		}
	}
}

func TestTrafficUpdateMissingIntersection(t *testing.T) {
	srv, _ := newTestServer(t)
	router := srv.Router()

	w := doJSON(t, router, http.MethodPost, "/api/traffic_update",
		map[string]interface{}{"roads": []map[string]interface{}{}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestNodesAndRoads(t *testing.T) {
	srv, _ := newTestServer(t)
	router := srv.Router()

	w := doJSON(t, router, http.MethodGet, "/api/nodes", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var nodes NodesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &nodes))
	assert.Equal(t, []string{"A", "B", "C"}, nodes.Nodes)
	assert.Equal(t, 3, nodes.Count)

	w = doJSON(t, router, http.MethodGet, "/api/roads", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var roads RoadsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &roads))
	assert.Len(t, roads.Roads, 3)
}

func TestStats(t *testing.T) {
	srv, _ := newTestServer(t)
	router := srv.Router()

	// Complete one plan so the counters move.
	w := doJSON(t, router, http.MethodPost, "/api/request_path",
		PathRequest{StartNode: "A", EndNode: "C"})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var stats StatsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, 2, stats.ThreadPool.MaxWorkers)
	assert.Equal(t, int64(1), stats.ThreadPool.TotalSubmitted)
	assert.Equal(t, int64(1), stats.ThreadPool.TotalCompleted)
	assert.Equal(t, 3, stats.Network.TotalNodes)
	assert.Equal(t, 3, stats.Network.TotalRoads)
}
