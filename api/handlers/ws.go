package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// StateStream - websocket с событиями изменений кешей
func StateStream(c *gin.Context) {
	if stateHub == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "State stream is disabled"})
		return
	}
	stateHub.ServeWS(c.Writer, c.Request)
}
