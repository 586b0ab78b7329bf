package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/celestial-audio/starsong-api/internal/models"
	"github.com/celestial-audio/starsong-api/internal/sonify"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupScoreRouter builds a minimal router around the score handler with no
// database, so generation runs from inline star records only.
func setupScoreRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := NewScoreHandler(nil, nil)
	router.POST("/api/v1/scores", handler.Generate)
	router.GET("/api/v1/scores", handler.ListScores)
	router.GET("/api/v1/scores/:id", handler.GetScore)
	return router
}

func postScore(t *testing.T, router *gin.Engine, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	jsonBody, err := json.Marshal(body)
	require.NoError(t, err)

	req, err := http.NewRequest("POST", "/api/v1/scores", bytes.NewBuffer(jsonBody))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func siriusRequest(seed uint32) models.GenerateScoreRequest {
	return models.GenerateScoreRequest{
		Star: &sonify.Star{
			ID:   "HIP 32349",
			RA:   101.287,
			Dec:  -16.716,
			Mag:  -1.46,
			Dist: 2.64,
			Spec: "A1V",
			Temp: 9940,
		},
		Seed: &seed,
	}
}

func TestGenerateScoreInlineStar(t *testing.T) {
	router := setupScoreRouter()

	w := postScore(t, router, siriusRequest(42))
	require.Equal(t, http.StatusOK, w.Code, "Expected 200 OK, got %d: %s", w.Code, w.Body.String())

	var response models.GenerateScoreResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	require.NotNil(t, response.Score)
	assert.Equal(t, uint32(42), response.Score.Seed)
	assert.NotEmpty(t, response.Score.Events)
	assert.NotEmpty(t, response.Score.Voices)
	// No database, so nothing was persisted
	assert.Zero(t, response.RecordID)
}

func TestGenerateScoreDeterministic(t *testing.T) {
	router := setupScoreRouter()

	first := postScore(t, router, siriusRequest(7))
	second := postScore(t, router, siriusRequest(7))

	require.Equal(t, http.StatusOK, first.Code)
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, first.Body.String(), second.Body.String())
}

func TestGenerateScoreDefaultSeedIsStable(t *testing.T) {
	router := setupScoreRouter()

	req := siriusRequest(0)
	req.Seed = nil

	first := postScore(t, router, req)
	second := postScore(t, router, req)

	require.Equal(t, http.StatusOK, first.Code)
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, first.Body.String(), second.Body.String())
}

func TestGenerateScoreValidation(t *testing.T) {
	router := setupScoreRouter()

	tests := []struct {
		name string
		body models.GenerateScoreRequest
	}{
		{
			name: "neither star nor star_id",
			body: models.GenerateScoreRequest{},
		},
		{
			name: "missing star id",
			body: models.GenerateScoreRequest{
				Star: &sonify.Star{RA: 10, Dec: 20, Mag: 1},
			},
		},
		{
			name: "ra out of range",
			body: models.GenerateScoreRequest{
				Star: &sonify.Star{ID: "X", RA: 360, Dec: 0, Mag: 1},
			},
		},
		{
			name: "dec out of range",
			body: models.GenerateScoreRequest{
				Star: &sonify.Star{ID: "X", RA: 10, Dec: -90.5, Mag: 1},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postScore(t, router, tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code, "body: %s", w.Body.String())
		})
	}
}

func TestGenerateScoreCatalogLookupWithoutDatabase(t *testing.T) {
	router := setupScoreRouter()

	id := uint(1)
	w := postScore(t, router, models.GenerateScoreRequest{StarID: &id})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestScoreHistoryWithoutDatabase(t *testing.T) {
	router := setupScoreRouter()

	for _, path := range []string{"/api/v1/scores", "/api/v1/scores/1"} {
		req, err := http.NewRequest("GET", path, nil)
		require.NoError(t, err)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code, "path %s: %s", path, w.Body.String())
	}
}

func TestGenerateScoreSparseStar(t *testing.T) {
	router := setupScoreRouter()

	w := postScore(t, router, models.GenerateScoreRequest{
		Star: &sonify.Star{ID: "HD 0", RA: 0, Dec: 0, Mag: 5},
	})
	require.Equal(t, http.StatusOK, w.Code, "body: %s", w.Body.String())

	var response models.GenerateScoreResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)
	require.NotNil(t, response.Score)
	assert.NotEmpty(t, response.Score.Events)
}
