package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/iamasit07/connect4/engine/internal/transport/http/middleware"
)

// NewRouter wires the read-only spectator API. ws may be nil when only the
// JSON endpoints are wanted.
func NewRouter(watch *WatchHandler, ws http.HandlerFunc, allowedOrigins []string, log *zap.Logger) *gin.Engine {
	if log == nil {
		log = zap.NewNop()
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware(allowedOrigins, log))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	{
		api.GET("/games", watch.GetLiveGames)
		api.GET("/games/:id", watch.GetGame)
		api.POST("/games/:id/watch", watch.IssueToken)
	}

	if ws != nil {
		router.GET("/ws", gin.WrapF(ws))
	}

	return router
}
