package api

import (
	"encoding/json"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"indexbench/pkg/btree"
	"indexbench/pkg/logging"
	"indexbench/pkg/monitor"
)

// Server exposes one in-memory tree over HTTP. The tree is not safe for
// concurrent mutation, so every insert holds mu exclusively and lookups
// share it.
type Server struct {
	mu      sync.RWMutex
	tree    *btree.Tree[float64, string]
	metrics *monitor.Metrics
	logger  *zap.Logger
	mux     *http.ServeMux
}

func NewServer(degree int, metrics *monitor.Metrics, logger *zap.Logger) (*Server, error) {
	tree, err := btree.New[float64, string](degree)
	if err != nil {
		return nil, err
	}
	if metrics == nil {
		metrics = monitor.NewMetrics()
	}

	s := &Server{
		tree:    tree,
		metrics: metrics,
		logger:  logging.OrNop(logger),
		mux:     http.NewServeMux(),
	}
	s.mux.HandleFunc("/api/insert", s.handleInsert)
	s.mux.HandleFunc("/api/search", s.handleSearch)
	s.mux.HandleFunc("/api/predict", s.handlePredict)
	s.mux.HandleFunc("/api/levels", s.handleLevels)
	s.mux.HandleFunc("/api/stats", s.handleStats)
	s.mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))
	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	s.mux.ServeHTTP(w, r)
}

func (s *Server) Start(addr string) error {
	s.logger.Info("api server listening", zap.String("addr", addr), zap.Int("degree", s.tree.Degree()))
	return http.ListenAndServe(addr, s)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("encode response", zap.Int("status", status), zap.Error(err))
	}
}

// finite reports whether key can be ordered and encoded as JSON.
func finite(key float64) bool {
	return !math.IsNaN(key) && !math.IsInf(key, 0)
}

func parseKey(r *http.Request) (float64, bool) {
	key, err := strconv.ParseFloat(r.URL.Query().Get("key"), 64)
	return key, err == nil && finite(key)
}

func (s *Server) handleInsert(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Key   *float64 `json:"key"`
		Value string   `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Key == nil || !finite(*req.Key) {
		http.Error(w, "Invalid body", http.StatusBadRequest)
		return
	}

	start := time.Now()
	s.mu.Lock()
	s.tree.Insert(*req.Key, req.Value)
	height, items := s.tree.Height(), s.tree.Len()
	s.mu.Unlock()
	duration := time.Since(start)

	s.metrics.CountOp(monitor.OpInsert, true)
	s.metrics.SetTreeShape(height, items)

	s.writeJSON(w, http.StatusOK, map[string]any{
		"key":        *req.Key,
		"height":     height,
		"items":      items,
		"latency_ns": duration.Nanoseconds(),
	})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	key, ok := parseKey(r)
	if !ok {
		http.Error(w, "Invalid key", http.StatusBadRequest)
		return
	}

	start := time.Now()
	s.mu.RLock()
	found := s.tree.Search(key)
	s.mu.RUnlock()
	duration := time.Since(start)

	s.metrics.CountOp(monitor.OpSearch, found)
	s.writeJSON(w, http.StatusOK, map[string]any{
		"key":        key,
		"found":      found,
		"latency_ns": duration.Nanoseconds(),
	})
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	key, ok := parseKey(r)
	if !ok {
		http.Error(w, "Invalid key", http.StatusBadRequest)
		return
	}

	start := time.Now()
	s.mu.RLock()
	val, found := s.tree.Predict(key)
	s.mu.RUnlock()
	duration := time.Since(start)

	s.metrics.CountOp(monitor.OpPredict, found)
	if !found {
		http.Error(w, "Key not found", http.StatusNotFound)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"key":        key,
		"value":      val,
		"found":      true,
		"latency_ns": duration.Nanoseconds(),
	})
}

type levelNode struct {
	Keys []float64 `json:"keys"`
}

func (s *Server) handleLevels(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	levels := s.tree.LevelOrder()
	s.mu.RUnlock()

	out := make([][]levelNode, len(levels))
	for i, level := range levels {
		out[i] = make([]levelNode, len(level))
		for j, items := range level {
			keys := make([]float64, len(items))
			for k, it := range items {
				keys[k] = it.Key
			}
			out[i][j] = levelNode{Keys: keys}
		}
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"levels": out})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	stats := map[string]any{
		"degree":     s.tree.Degree(),
		"height":     s.tree.Height(),
		"items":      s.tree.Len(),
		"nodes":      s.tree.NodeCount(),
		"reads":      s.metrics.Reads(),
		"writes":     s.metrics.Writes(),
		"hit_ratio":  s.metrics.HitRatio(),
		"rw_ratio":   s.metrics.ReadWriteRatio(),
		"concurrent": "single writer, shared readers",
	}
	s.mu.RUnlock()
	s.writeJSON(w, http.StatusOK, stats)
}
