package handler

import (
	"net/http"

	"marketplace-settlement/internal/core/ports"

	"github.com/gin-gonic/gin"
)

// HealthCheck pings every dependency and answers 503 when any of them is down.
func HealthCheck(checkers ...ports.HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		statuses, ok := ports.CheckAll(c.Request.Context(), checkers...)

		status := "healthy"
		httpCode := http.StatusOK
		if !ok {
			status = "degraded"
			httpCode = http.StatusServiceUnavailable
		}

		c.JSON(httpCode, gin.H{
			"status":       status,
			"dependencies": statuses,
		})
	}
}
