package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/Conceptual-Machines/magda-melody/internal/api/middleware"
	"github.com/Conceptual-Machines/magda-melody/internal/logger"
	"github.com/Conceptual-Machines/magda-melody/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type HistoryHandler struct {
	logs *services.GenerationLogService
}

func NewHistoryHandler(logs *services.GenerationLogService) *HistoryHandler {
	return &HistoryHandler{logs: logs}
}

// List returns the caller's latest generations with aggregate stats
func (h *HistoryHandler) List(c *gin.Context) {
	if !h.logs.Enabled() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": services.ErrLoggingDisabled.Error()})
		return
	}

	limit := defaultHistoryPageSize
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > maxHistoryPageSize {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and 100"})
			return
		}
		limit = n
	}

	userID, _ := middleware.GetUserIDFromGateway(c)
	ctx := c.Request.Context()

	logs, err := h.logs.Recent(ctx, userID, limit)
	if err != nil {
		logger.Error("Failed to load generation history", err, logger.WithContext(c))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load history"})
		return
	}

	stats, err := h.logs.Stats(ctx, userID, time.Time{}, time.Time{})
	if err != nil {
		logger.Error("Failed to load generation stats", err, logger.WithContext(c))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"generations": logs,
		"stats":       stats,
	})
}

// Get returns one of the caller's stored generations, including the seed that
// reproduces it. Other users' generations are reported as not found.
func (h *HistoryHandler) Get(c *gin.Context) {
	if !h.logs.Enabled() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": services.ErrLoggingDisabled.Error()})
		return
	}

	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid generation id"})
		return
	}

	userID, _ := middleware.GetUserIDFromGateway(c)
	entry, err := h.logs.Find(c.Request.Context(), userID, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Generation not found"})
		return
	}
	if err != nil {
		logger.Error("Failed to load generation", err, logger.WithContext(c))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load generation"})
		return
	}

	c.JSON(http.StatusOK, entry)
}
