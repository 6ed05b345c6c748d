package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	s, err := NewServer(2, nil, nil)
	require.NoError(t, err)
	return s
}

func do(s *Server, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func insert(t *testing.T, s *Server, key float64, value string) {
	t.Helper()
	rec := do(s, http.MethodPost, "/api/insert", fmt.Sprintf(`{"key":%v,"value":%q}`, key, value))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestNewServerRejectsBadDegree(t *testing.T) {
	_, err := NewServer(1, nil, nil)
	require.Error(t, err)
}

func TestInsertSearchPredict(t *testing.T) {
	s := newTestServer(t)

	for _, k := range []float64{10, 20, 5, 6} {
		insert(t, s, k, fmt.Sprintf("v%v", k))
	}
	insert(t, s, 6, "second")

	rec := do(s, http.MethodGet, "/api/search?key=6", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var search struct {
		Found bool `json:"found"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &search))
	require.True(t, search.Found)

	rec = do(s, http.MethodGet, "/api/search?key=7", "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &search))
	require.False(t, search.Found)

	rec = do(s, http.MethodGet, "/api/predict?key=6", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var predict struct {
		Value string `json:"value"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &predict))
	require.Equal(t, "v6", predict.Value)

	rec = do(s, http.MethodGet, "/api/predict?key=7", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBadRequests(t *testing.T) {
	s := newTestServer(t)

	require.Equal(t, http.StatusMethodNotAllowed, do(s, http.MethodGet, "/api/insert", "").Code)
	require.Equal(t, http.StatusBadRequest, do(s, http.MethodPost, "/api/insert", "{").Code)
	require.Equal(t, http.StatusBadRequest, do(s, http.MethodPost, "/api/insert", `{"value":"x"}`).Code)
	require.Equal(t, http.StatusBadRequest, do(s, http.MethodGet, "/api/search?key=abc", "").Code)
	require.Equal(t, http.StatusBadRequest, do(s, http.MethodGet, "/api/predict", "").Code)

	for _, key := range []string{"NaN", "Inf", "-Inf", "%2BInf", "1e400"} {
		for _, path := range []string{"/api/search", "/api/predict"} {
			rec := do(s, http.MethodGet, path+"?key="+key, "")
			require.Equal(t, http.StatusBadRequest, rec.Code, "%s key=%s", path, key)
			require.NotEmpty(t, rec.Body.String())
		}
	}
	require.Equal(t, http.StatusBadRequest, do(s, http.MethodPost, "/api/insert", `{"key":1e400,"value":"x"}`).Code)

	s.mu.RLock()
	defer s.mu.RUnlock()
	require.Zero(t, s.tree.Len())
}

func TestLevelsAndStats(t *testing.T) {
	s := newTestServer(t)
	for _, k := range []float64{10, 20, 5, 6} {
		insert(t, s, k, "")
	}

	rec := do(s, http.MethodGet, "/api/levels", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var levels struct {
		Levels [][]struct {
			Keys []float64 `json:"keys"`
		} `json:"levels"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &levels))
	require.Len(t, levels.Levels, 2)
	require.Equal(t, []float64{10}, levels.Levels[0][0].Keys)
	require.Equal(t, []float64{5, 6}, levels.Levels[1][0].Keys)
	require.Equal(t, []float64{20}, levels.Levels[1][1].Keys)

	do(s, http.MethodGet, "/api/search?key=5", "")
	rec = do(s, http.MethodGet, "/api/stats", "")
	var stats map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	require.Equal(t, 2.0, stats["height"])
	require.Equal(t, 4.0, stats["items"])
	require.Equal(t, 3.0, stats["nodes"])
	require.Equal(t, 1.0, stats["hit_ratio"])
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)
	insert(t, s, 1, "one")
	do(s, http.MethodGet, "/api/search?key=1", "")
	do(s, http.MethodGet, "/api/predict?key=2", "")

	rec := do(s, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	for _, m := range []string{
		`indexbench_tree_operations_total{op="insert",result="hit"} 1`,
		`indexbench_tree_operations_total{op="search",result="hit"} 1`,
		`indexbench_tree_operations_total{op="predict",result="miss"} 1`,
		"indexbench_tree_height 1",
		"indexbench_tree_items 1",
	} {
		require.Contains(t, body, m)
	}
}

func TestConcurrentClients(t *testing.T) {
	s := newTestServer(t)

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				key := w*1000 + i
				do(s, http.MethodPost, "/api/insert", fmt.Sprintf(`{"key":%d,"value":"x"}`, key))
				do(s, http.MethodGet, fmt.Sprintf("/api/search?key=%d", key), "")
			}
		}(w)
	}
	wg.Wait()

	s.mu.RLock()
	defer s.mu.RUnlock()
	require.Equal(t, 400, s.tree.Len())
	for w := 0; w < 8; w++ {
		require.True(t, s.tree.Search(float64(w*1000+49)))
	}
}
