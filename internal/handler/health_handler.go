package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Health reports liveness.
// @Summary      Health check
// @Tags         Health
// @Produce      json
// @Success      200 {object} map[string]string
// @Router       /health [get]
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
