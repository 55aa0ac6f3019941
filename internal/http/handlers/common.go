package handlers

import (
	"net/http"

	"autotrust/internal/http/middleware"
	"autotrust/internal/utils"

	"github.com/gin-gonic/gin"
)

func adminOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

func adminFail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "error": message, "request_id": middleware.GetRequestID(c)})
}

func logFailure(c *gin.Context, err error) {
	utils.Event(middleware.GetRequestID(c), "http", c.FullPath()).WithError(err).Error("request failed")
}
