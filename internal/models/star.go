package models

import (
	"time"

	"github.com/celestial-audio/starsong-api/internal/sonify"
	"gorm.io/gorm"
)

// Star is a catalog row. Catalog identifiers (HIP/HD designations) are
// unique; optional physical fields are nullable so sparse survey data loads
// without fabricated values.
type Star struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Designation string   `gorm:"uniqueIndex;not null" json:"designation"`
	Name        string   `json:"name"`
	RA          float64  `gorm:"not null" json:"ra"`  // degrees, [0,360)
	Dec         float64  `gorm:"not null" json:"dec"` // degrees, [-90,90]
	Mag         float64  `gorm:"not null" json:"mag"` // apparent magnitude
	Dist        *float64 `json:"dist,omitempty"`      // parsecs
	Spec        *string  `json:"spec,omitempty"`      // spectral class, e.g. "A1V"
	Temp        *float64 `json:"temp,omitempty"`      // Kelvin
}

// ToSonify converts a catalog row to the generation core's input record.
func (s *Star) ToSonify() sonify.Star {
	star := sonify.Star{
		ID:  s.Designation,
		RA:  s.RA,
		Dec: s.Dec,
		Mag: s.Mag,
	}
	if s.Dist != nil {
		star.Dist = *s.Dist
	}
	if s.Spec != nil {
		star.Spec = *s.Spec
	}
	if s.Temp != nil {
		star.Temp = *s.Temp
	}
	return star
}
