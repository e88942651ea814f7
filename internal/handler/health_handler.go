package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	db            *sqlx.DB
	sheetsEnabled bool
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(db *sqlx.DB, sheetsEnabled bool) *HealthHandler {
	return &HealthHandler{db: db, sheetsEnabled: sheetsEnabled}
}

// Liveness handles GET /healthz
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness handles GET /readyz. The spreadsheet mirror is reported but
// never fails readiness: the API works without it.
func (h *HealthHandler) Readiness(c *gin.Context) {
	if err := h.db.PingContext(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unavailable",
			"error":  "database not reachable",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":        "ok",
		"sheets_mirror": h.sheetsEnabled,
	})
}
