package handlers

import (
	"net/http"
	"sync"

	intdb "autotrust/internal/db"

	"github.com/gin-gonic/gin"
)

var (
	routerMu sync.RWMutex
	router   *gin.Engine
)

// SetRouter stores the active gin engine for later inspection (e.g., /api/routes).
func SetRouter(r *gin.Engine) {
	routerMu.Lock()
	defer routerMu.Unlock()
	router = r
}

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "AutoTrust booking API is running"})
}

func (h *Handlers) DBCheck(c *gin.Context) {
	if h.DB == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"message": "Database not configured"})
		return
	}
	var count int
	if err := h.DB.QueryRowContext(c.Request.Context(), "SELECT COUNT(*) FROM bookings").Scan(&count); err != nil {
		logFailure(c, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Database query failed"})
		return
	}
	missing := intdb.New(h.DB, 0).MissingTables(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"message": "Database connection OK", "bookings_in_db": count, "missing_tables": missing})
}

func Routes(c *gin.Context) {
	routerMu.RLock()
	r := router
	routerMu.RUnlock()
	if r == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"message": "router not ready"})
		return
	}

	routes := r.Routes()
	out := make([]gin.H, 0, len(routes))
	for _, rt := range routes {
		out = append(out, gin.H{
			"method":  rt.Method,
			"path":    rt.Path,
			"handler": rt.Handler,
		})
	}
	c.JSON(http.StatusOK, gin.H{"routes": out})
}
