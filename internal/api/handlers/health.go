package handlers

import (
	"net/http"

	"github.com/Conceptual-Machines/magda-melody/internal/database"
	"github.com/Conceptual-Machines/magda-melody/internal/music/library"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type HealthHandler struct {
	db      *gorm.DB
	learned library.LearnedPatterns
}

func NewHealthHandler(db *gorm.DB, learned library.LearnedPatterns) *HealthHandler {
	return &HealthHandler{db: db, learned: learned}
}

// HealthCheck returns the health status of the API. An unreachable database
// degrades the status but is still reported with 200, since generation works
// without it.
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	status := "healthy"
	dbStatus := "disabled"
	if h.db != nil {
		dbStatus = "connected"
		if err := database.Ping(h.db); err != nil {
			dbStatus = "unreachable"
			status = "degraded"
		}
	}

	patternStatus := "disabled"
	if !h.learned.IsEmpty() {
		patternStatus = "loaded"
	}

	c.JSON(http.StatusOK, gin.H{
		"status": status,
		"database": gin.H{
			"status": dbStatus,
		},
		"learned_patterns": gin.H{
			"status": patternStatus,
			"motifs": len(h.learned.Motifs),
			"shapes": len(h.learned.Shapes),
		},
	})
}
