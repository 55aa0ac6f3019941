package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GET /api/package/:type returns the checkout price and name. Only the
// exact ids basic, standard and premium are accepted.
func (h *Handlers) GetPackageQuote(c *gin.Context) {
	quote, err := h.Catalog.Quote(c.Param("type"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid package type"})
		return
	}
	c.JSON(http.StatusOK, quote)
}

// GET /api/packages
func (h *Handlers) ListPackages(c *gin.Context) {
	c.JSON(http.StatusOK, h.Catalog.All())
}
