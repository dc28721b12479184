package server

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bom-yield/internal/catalog"
	"bom-yield/internal/store"
	"bom-yield/internal/yield"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func newServer(t *testing.T, src Source, opts Options) *Server {
	t.Helper()

	opts.DevMode = true
	opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))

	return New(src, opts)
}

func seededStore(t *testing.T) *store.Store {
	t.Helper()

	s, err := store.New(filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.Seed(context.Background(), store.BicycleFile()))

	return s
}

func get(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	return w
}

func TestMaxBundlesDefaultBundle(t *testing.T) {
	s := newServer(t, seededStore(t), Options{})

	w := get(t, s, "/maxBundles")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp MaxBundlesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "1", resp.Bundle)
	assert.Equal(t, 17, resp.MaxBundles)
	assert.Empty(t, resp.Warnings)
	assert.Contains(t, w.Body.String(), `"strategy":"greedy"`)
}

func TestMaxBundlesFreshSnapshotPerRequest(t *testing.T) {
	s := newServer(t, seededStore(t), Options{})

	for range 3 {
		w := get(t, s, "/maxBundles?bundle=1")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"maxBundles":17`)
	}
}

func TestMaxBundlesStrategies(t *testing.T) {
	cat := catalog.MustNew(
		[]catalog.Part{{ID: "A", Inventory: 10}, {ID: "B", Inventory: 3}},
		[]catalog.Bundle{
			{ID: "T", Bundles: []catalog.Requirement{{ID: "P", Quantity: 1}, {ID: "Q", Quantity: 1}}},
			{ID: "P", Parts: []catalog.Requirement{{ID: "A", Quantity: 1}}},
			{ID: "Q", Parts: []catalog.Requirement{{ID: "A", Quantity: 1}, {ID: "B", Quantity: 1}}},
		},
	)
	s := newServer(t, StaticSource{Catalog: cat}, Options{DefaultBundle: "T"})

	w := get(t, s, "/maxBundles")
	assert.Contains(t, w.Body.String(), `"maxBundles":0`)

	w = get(t, s, "/maxBundles?strategy=explode")
	assert.Contains(t, w.Body.String(), `"maxBundles":3`)

	s = newServer(t, StaticSource{Catalog: cat}, Options{DefaultBundle: "T", Strategy: yield.StrategyExplode})
	w = get(t, s, "/maxBundles")
	assert.Contains(t, w.Body.String(), `"maxBundles":3`)
}

func TestMaxBundlesErrors(t *testing.T) {
	cyclic := catalog.MustNew(nil, []catalog.Bundle{
		{ID: "a", Bundles: []catalog.Requirement{{ID: "b", Quantity: 1}}},
		{ID: "b", Bundles: []catalog.Requirement{{ID: "a", Quantity: 1}}},
	})

	tests := []struct {
		name   string
		src    Source
		target string
		status int
		errMsg string
	}{
		{
			name:   "unknown bundle",
			src:    seededStore(t),
			target: "/maxBundles?bundle=99",
			status: http.StatusNotFound,
			errMsg: "unknown target bundle",
		},
		{
			name:   "cycle",
			src:    StaticSource{Catalog: cyclic},
			target: "/maxBundles?bundle=a",
			status: http.StatusUnprocessableEntity,
			errMsg: "cyclic dependency",
		},
		{
			name:   "bad strategy",
			src:    seededStore(t),
			target: "/maxBundles?strategy=optimal",
			status: http.StatusBadRequest,
			errMsg: "unknown strategy",
		},
		{
			name:   "unreadable catalog",
			src:    FileSource{Path: filepath.Join(t.TempDir(), "absent.yaml")},
			target: "/maxBundles",
			status: http.StatusInternalServerError,
			errMsg: "absent.yaml",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(t, newServer(t, tt.src, Options{}), tt.target)
			assert.Equal(t, tt.status, w.Code)

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Contains(t, resp.Error, tt.errMsg)
		})
	}
}

func TestMaxBundlesWarnings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
parts:
  - id: bolt
    inventory: 5
bundles:
  - id: kit
    parts: {bolt: 1, ghost: 1}
`), 0o644))

	s := newServer(t, FileSource{Path: path}, Options{DefaultBundle: "kit"})

	w := get(t, s, "/maxBundles")
	require.Equal(t, http.StatusOK, w.Code)

	var resp MaxBundlesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.MaxBundles)
	require.Len(t, resp.Warnings, 1)
	assert.Contains(t, resp.Warnings[0], "unknown_part")

	metrics := get(t, s, "/metrics").Body.String()
	assert.Contains(t, metrics, `bomyield_resolution_warnings_total{code="unknown_part"} 1`)
}

func TestBundles(t *testing.T) {
	s := newServer(t, seededStore(t), Options{})

	w := get(t, s, "/bundles?strategy=explode")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"strategy":"explode","yields":{"1":17,"2":35}}`, w.Body.String())
}

func TestHealthAndMetrics(t *testing.T) {
	s := newServer(t, seededStore(t), Options{})

	w := get(t, s, "/healthz")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	get(t, s, "/maxBundles")
	get(t, s, "/maxBundles?bundle=99")

	body := get(t, s, "/metrics").Body.String()
	assert.Contains(t, body, `bomyield_resolutions_total{outcome="ok",strategy="greedy"} 1`)
	assert.Contains(t, body, `bomyield_resolutions_total{outcome="404",strategy="greedy"} 1`)
	assert.Contains(t, body, `bomyield_last_yield_units{bundle="1",strategy="greedy"} 17`)
	assert.True(t, strings.Contains(body, "bomyield_resolution_duration_seconds_bucket"))
}

func TestHealthUnavailable(t *testing.T) {
	st := seededStore(t)
	s := newServer(t, st, Options{})
	require.NoError(t, st.Close())

	w := get(t, s, "/healthz")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestRunShutsDown(t *testing.T) {
	s := newServer(t, seededStore(t), Options{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() { done <- s.Run(ctx, "127.0.0.1:0") }()

	cancel()
	assert.NoError(t, <-done)
}
