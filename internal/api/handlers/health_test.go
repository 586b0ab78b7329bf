package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthCheckWithoutDatabase(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/health", HealthCheck(nil))

	req, err := http.NewRequest("GET", "/health", nil)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err = json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Equal(t, "healthy", response["status"])
	db, ok := response["database"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "disabled", db["status"])
}

func TestGetMetrics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := NewMetricsHandler("test-version")
	router.GET("/api/metrics", handler.GetMetrics)

	req, err := http.NewRequest("GET", "/api/metrics", nil)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var response MetricsResponse
	err = json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Equal(t, "healthy", response.Status)
	assert.Equal(t, "test-version", response.Version)
	assert.NotEmpty(t, response.Uptime)
	assert.NotEmpty(t, response.System.GoVersion)
	assert.Positive(t, response.System.NumGoroutine)
}
