package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// HealthCheck returns the health status of the API
func HealthCheck(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		dbStatus := "disabled"
		if db != nil {
			dbStatus = "connected"
			if sqlDB, err := db.DB(); err != nil || sqlDB.Ping() != nil {
				dbStatus = "unreachable"
			}
		}

		status := http.StatusOK
		if dbStatus == "unreachable" {
			status = http.StatusServiceUnavailable
		}

		c.JSON(status, gin.H{
			"status": "healthy",
			"database": gin.H{
				"status": dbStatus,
			},
		})
	}
}
