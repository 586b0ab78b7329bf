package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/celestial-audio/starsong-api/internal/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	defaultStarPageSize = 50
	maxStarPageSize     = 200

	minRA  = 0.0
	maxRA  = 360.0
	minDec = -90.0
	maxDec = 90.0
)

type StarHandler struct {
	db *gorm.DB
}

func NewStarHandler(db *gorm.DB) *StarHandler {
	return &StarHandler{db: db}
}

// databaseAvailable replies 503 when the service runs without persistence
// (DATABASE_URL unset), so catalog and history endpoints fail cleanly
// instead of dereferencing a nil connection.
func databaseAvailable(c *gin.Context, db *gorm.DB) bool {
	if db == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Endpoint requires a database"})
		return false
	}
	return true
}

type CreateStarRequest struct {
	Designation string   `json:"designation" binding:"required"`
	Name        string   `json:"name"`
	RA          float64  `json:"ra"`
	Dec         float64  `json:"dec"`
	Mag         float64  `json:"mag"`
	Dist        *float64 `json:"dist"`
	Spec        *string  `json:"spec"`
	Temp        *float64 `json:"temp"`
}

// validateCoordinates rejects out-of-range positions at the boundary so the
// generation core only ever sees valid coordinates.
func validateCoordinates(ra, dec float64) error {
	if ra < minRA || ra >= maxRA {
		return errors.New("ra must be in [0, 360)")
	}
	if dec < minDec || dec > maxDec {
		return errors.New("dec must be in [-90, 90]")
	}
	return nil
}

// ListStars returns a page of catalog rows
func (h *StarHandler) ListStars(c *gin.Context) {
	if !databaseAvailable(c, h.db) {
		return
	}

	page := 1
	if pageStr := c.Query("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			page = p
		}
	}

	pageSize := defaultStarPageSize
	if sizeStr := c.Query("page_size"); sizeStr != "" {
		if s, err := strconv.Atoi(sizeStr); err == nil && s > 0 {
			pageSize = s
			if pageSize > maxStarPageSize {
				pageSize = maxStarPageSize
			}
		}
	}

	offset := (page - 1) * pageSize

	var stars []models.Star
	query := h.db.Order("designation ASC").Limit(pageSize).Offset(offset)
	if search := c.Query("q"); search != "" {
		query = query.Where("designation ILIKE ? OR name ILIKE ?", "%"+search+"%", "%"+search+"%")
	}
	if err := query.Find(&stars).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list stars"})
		return
	}

	var totalCount int64
	if err := h.db.Model(&models.Star{}).Count(&totalCount).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count stars"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"stars": stars,
		"pagination": gin.H{
			"page":        page,
			"page_size":   pageSize,
			"total_count": totalCount,
			"total_pages": (totalCount + int64(pageSize) - 1) / int64(pageSize),
		},
	})
}

// GetStar returns a single catalog row by id
func (h *StarHandler) GetStar(c *gin.Context) {
	if !databaseAvailable(c, h.db) {
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid star id"})
		return
	}

	var star models.Star
	if err := h.db.First(&star, uint(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Star not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get star"})
		return
	}

	c.JSON(http.StatusOK, star)
}

// CreateStar inserts a catalog row
func (h *StarHandler) CreateStar(c *gin.Context) {
	if !databaseAvailable(c, h.db) {
		return
	}

	var req CreateStarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := validateCoordinates(req.RA, req.Dec); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	star := models.Star{
		Designation: req.Designation,
		Name:        req.Name,
		RA:          req.RA,
		Dec:         req.Dec,
		Mag:         req.Mag,
		Dist:        req.Dist,
		Spec:        req.Spec,
		Temp:        req.Temp,
	}

	if err := h.db.Create(&star).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{"error": "Designation already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create star"})
		return
	}

	c.JSON(http.StatusCreated, star)
}

// UpdateStar replaces the mutable fields of a catalog row
func (h *StarHandler) UpdateStar(c *gin.Context) {
	if !databaseAvailable(c, h.db) {
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid star id"})
		return
	}

	var req CreateStarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := validateCoordinates(req.RA, req.Dec); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var star models.Star
	if err := h.db.First(&star, uint(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Star not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get star"})
		return
	}

	star.Designation = req.Designation
	star.Name = req.Name
	star.RA = req.RA
	star.Dec = req.Dec
	star.Mag = req.Mag
	star.Dist = req.Dist
	star.Spec = req.Spec
	star.Temp = req.Temp

	if err := h.db.Save(&star).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update star"})
		return
	}

	c.JSON(http.StatusOK, star)
}

// DeleteStar soft-deletes a catalog row
func (h *StarHandler) DeleteStar(c *gin.Context) {
	if !databaseAvailable(c, h.db) {
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid star id"})
		return
	}

	result := h.db.Delete(&models.Star{}, uint(id))
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete star"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Star not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
