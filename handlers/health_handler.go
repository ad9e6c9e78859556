package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"rpgroster/services"
)

type HealthHandler struct {
	playerService *services.PlayerService
	log           *zap.Logger
}

func NewHealthHandler(playerService *services.PlayerService, log *zap.Logger) *HealthHandler {
	return &HealthHandler{playerService: playerService, log: log}
}

// Health reports ok when the player store answers a ping.
func (h *HealthHandler) Health(c *gin.Context) {
	if err := h.playerService.Ping(c.Request.Context()); err != nil {
		h.log.Warn("health check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "store": "down"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "store": "up"})
}
