package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/celestial-audio/starsong-api/internal/logger"
	"github.com/celestial-audio/starsong-api/internal/metrics"
	"github.com/celestial-audio/starsong-api/internal/models"
	"github.com/celestial-audio/starsong-api/internal/sonify"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	defaultScorePageSize = 20
	maxScorePageSize     = 100
)

type ScoreHandler struct {
	db            *gorm.DB
	sentryMetrics *metrics.SentryMetrics
	cwMetrics     *metrics.Client
}

func NewScoreHandler(db *gorm.DB, cwMetrics *metrics.Client) *ScoreHandler {
	return &ScoreHandler{
		db:            db,
		sentryMetrics: metrics.NewSentryMetrics(),
		cwMetrics:     cwMetrics,
	}
}

// Generate produces a score for a star. The star can be a catalog row
// (star_id) or an inline record; the seed is optional and defaults to the
// star's identity hash so repeat calls replay the same score.
func (h *ScoreHandler) Generate(c *gin.Context) {
	var req models.GenerateScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if (req.StarID == nil) == (req.Star == nil) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Exactly one of star_id or star must be set"})
		return
	}

	var star sonify.Star
	if req.StarID != nil {
		if h.db == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Catalog lookups are unavailable without a database"})
			return
		}
		var row models.Star
		if err := h.db.First(&row, *req.StarID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Star not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get star"})
			return
		}
		star = row.ToSonify()
	} else {
		if req.Star.ID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "star.id is required"})
			return
		}
		if err := validateCoordinates(req.Star.RA, req.Star.Dec); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		star = *req.Star
	}

	start := time.Now()
	var score *sonify.Score
	var err error
	if req.Seed != nil {
		score, err = sonify.Generate(star, *req.Seed)
	} else {
		score, err = sonify.GenerateDefault(star)
	}
	if err != nil {
		logger.Error("Score generation failed", err, logger.WithContext(c))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Score generation failed"})
		return
	}
	elapsed := time.Since(start)

	logger.LogGeneration(star.ID, score.Seed, score.Config.Scale.Name, len(score.Events), elapsed)
	h.sentryMetrics.RecordGeneration(c.Request.Context(), score.Config.Scale.Name, len(score.Events), elapsed)
	if h.cwMetrics != nil {
		h.cwMetrics.RecordGeneration(score.Config.Scale.Name, len(score.Events), elapsed)
	}

	resp := models.GenerateScoreResponse{Score: score}

	if h.db != nil {
		payload, marshalErr := json.Marshal(score)
		if marshalErr != nil {
			logger.Error("Failed to marshal score payload", marshalErr, logger.Fields{"star_id": star.ID})
		} else {
			record := models.ScoreRecord{
				StarDesignation: star.ID,
				Seed:            int64(score.Seed),
				ScaleName:       score.Config.Scale.Name,
				Tempo:           score.Config.Tempo,
				EventCount:      len(score.Events),
				Payload:         string(payload),
			}
			if err := h.db.Create(&record).Error; err != nil {
				logger.Error("Failed to persist score record", err, logger.Fields{"star_id": star.ID})
			} else {
				resp.RecordID = record.ID
			}
		}
	}

	c.JSON(http.StatusOK, resp)
}

// ListScores returns paginated generation history, optionally filtered by star
func (h *ScoreHandler) ListScores(c *gin.Context) {
	if !databaseAvailable(c, h.db) {
		return
	}

	page := 1
	if pageStr := c.Query("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			page = p
		}
	}

	pageSize := defaultScorePageSize
	if sizeStr := c.Query("page_size"); sizeStr != "" {
		if s, err := strconv.Atoi(sizeStr); err == nil && s > 0 {
			pageSize = s
			if pageSize > maxScorePageSize {
				pageSize = maxScorePageSize
			}
		}
	}

	offset := (page - 1) * pageSize

	query := h.db.Model(&models.ScoreRecord{})
	if star := c.Query("star"); star != "" {
		query = query.Where("star_designation = ?", star)
	}

	var records []models.ScoreRecord
	if err := query.Order("created_at DESC").Limit(pageSize).Offset(offset).Find(&records).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list scores"})
		return
	}

	var totalCount int64
	countQuery := h.db.Model(&models.ScoreRecord{})
	if star := c.Query("star"); star != "" {
		countQuery = countQuery.Where("star_designation = ?", star)
	}
	if err := countQuery.Count(&totalCount).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count scores"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"scores": records,
		"pagination": gin.H{
			"page":        page,
			"page_size":   pageSize,
			"total_count": totalCount,
			"total_pages": (totalCount + int64(pageSize) - 1) / int64(pageSize),
		},
	})
}

// GetScore returns one stored score with its full payload
func (h *ScoreHandler) GetScore(c *gin.Context) {
	if !databaseAvailable(c, h.db) {
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid score id"})
		return
	}

	var record models.ScoreRecord
	if err := h.db.First(&record, uint(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Score not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get score"})
		return
	}

	var score sonify.Score
	if err := json.Unmarshal([]byte(record.Payload), &score); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Stored score payload is corrupt"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"record": record,
		"score":  score,
	})
}
