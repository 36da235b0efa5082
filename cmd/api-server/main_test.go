package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"numerology/internal/chart"
	"numerology/internal/feed"
	"numerology/pkg/database"
)

func TestHealthAndReady(t *testing.T) {
	gin.SetMode(gin.TestMode)
	path := filepath.Join(t.TempDir(), "api.db")
	db, err := database.OpenAndMigrate(database.Config{Path: path})
	require.NoError(t, err)

	hub := feed.NewHub(nil)
	router := newRouter(db, path, &chart.Service{Repo: chart.NewRepo(db)}, hub, zap.NewNop())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var ready map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ready))
	assert.Equal(t, "ready", ready["status"])
	assert.Equal(t, float64(0), ready["ws_clients"])

	require.NoError(t, db.Close())
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestRouterMountsChartRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	path := filepath.Join(t.TempDir(), "api.db")
	db, err := database.OpenAndMigrate(database.Config{Path: path})
	require.NoError(t, err)
	defer db.Close()

	router := newRouter(db, path, &chart.Service{Repo: chart.NewRepo(db)}, feed.NewHub(nil), zap.NewNop())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/systems", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
