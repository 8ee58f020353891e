package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Xieruu-29/Realtime-ChatApp/internal/config"
	"github.com/Xieruu-29/Realtime-ChatApp/internal/core"
)

// NewServer wires the WebSocket endpoint, the health probe and the REST
// read surface into one HTTP server.
func NewServer(hub *core.Hub, cfg *config.Config, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(LoggerMiddleware(logger), gin.Recovery())

	router.GET("/health", healthHandler)
	router.GET("/ws", gin.WrapH(NewWSHandler(hub, cfg, logger)))

	api := NewAPIHandlers(hub, logger)
	group := router.Group("/api")
	{
		group.GET("/history", api.History)
		group.GET("/online", api.Online)
		group.GET("/stats", api.Stats)
	}

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

func healthHandler(c *gin.Context) {
	c.JSON(stdhttp.StatusOK, gin.H{"status": "ok"})
}
