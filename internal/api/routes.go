package api

import (
	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all API routes on the given router
func SetupRoutes(router *gin.Engine, handler *Handler, hub *Hub) {
	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// System endpoints
		v1.GET("/status", handler.GetStatus)
		v1.GET("/config", handler.GetConfig)

		// Session endpoints
		v1.GET("/sessions", handler.GetSessions)
		v1.GET("/sessions/:name", handler.GetSession)
		v1.GET("/sessions/:name/stats", handler.GetSessionStats)
		v1.GET("/sessions/:name/metrics", handler.GetSessionMetrics)
		v1.GET("/sessions/:name/history", handler.GetSessionHistory)
		v1.POST("/sessions/:name/risk", handler.AssessSessionRisk)

		// WebSocket endpoint
		if hub != nil {
			v1.GET("/ws", ServeWebSocket(hub))
		}
	}

	// Health check endpoint (outside versioned API)
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "healthy"})
	})
}
