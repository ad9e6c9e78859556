package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"rpgroster/handlers"
	"rpgroster/services"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func SetupRoutes(
	router *gin.Engine,
	playerHandler *handlers.PlayerHandler,
	healthHandler *handlers.HealthHandler,
	hub *services.Hub,
	log *zap.Logger,
) {
	rest := router.Group("/rest")
	{
		players := rest.Group("/players")
		{
			players.GET("", playerHandler.ListPlayers)
			players.POST("", playerHandler.CreatePlayer)
			players.GET("/count", playerHandler.CountPlayers)
			players.GET("/:id", playerHandler.GetPlayer)
			players.POST("/:id", playerHandler.UpdatePlayer)
			players.PATCH("/:id", playerHandler.UpdatePlayer)
			players.DELETE("/:id", playerHandler.DeletePlayer)
		}
	}

	// player change feed
	router.GET("/ws/players", func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			// Upgrade has already written the error response.
			log.Info("websocket upgrade failed", zap.Error(err))
			return
		}
		hub.RegisterClient(conn)
	})

	router.GET("/health", healthHandler.Health)
}
