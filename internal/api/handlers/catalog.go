package handlers

import (
	"net/http"

	"github.com/Conceptual-Machines/magda-melody/internal/music/catalog"
	"github.com/gin-gonic/gin"
)

// Catalog returns the names accepted by the melody endpoints
func Catalog(c *gin.Context) {
	c.JSON(http.StatusOK, catalog.Build())
}
