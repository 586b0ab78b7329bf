package models

import (
	"time"

	"github.com/celestial-audio/starsong-api/internal/sonify"
	"gorm.io/gorm"
)

// ScoreRecord stores one generated score for history queries. The full score
// payload is kept as JSON; the indexed columns cover the common lookups.
type ScoreRecord struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	StarDesignation string  `gorm:"index;not null" json:"star_designation"`
	Seed            int64   `gorm:"not null" json:"seed"`
	ScaleName       string  `json:"scale_name"`
	Tempo           float64 `json:"tempo"`
	EventCount      int     `json:"event_count"`
	Payload         string  `gorm:"type:jsonb" json:"-"`
}

// GenerateScoreRequest wraps the generation parameters. Exactly one of
// StarID (catalog lookup) or Star (inline record) must be set.
type GenerateScoreRequest struct {
	StarID *uint        `json:"star_id,omitempty"`
	Star   *sonify.Star `json:"star,omitempty"`
	Seed   *uint32      `json:"seed,omitempty"` // Optional seed for reproducibility
}

// GenerateScoreResponse returns the score plus the persisted record id.
type GenerateScoreResponse struct {
	RecordID uint          `json:"record_id,omitempty"`
	Score    *sonify.Score `json:"score"`
}
