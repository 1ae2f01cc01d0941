package routes

import (
	"log/slog"
	"net/http"

	"forca/handlers"
	"forca/middleware"
	"forca/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func SetupRoutes(
	router *gin.Engine,
	roomHandler *handlers.RoomHandler,
	wordHandler *handlers.WordHandler,
	rankingHandler *handlers.RankingHandler,
	hub *services.Hub,
	jwtSecret string,
	logger *slog.Logger,
) {
	api := router.Group("/api")
	{
		rooms := api.Group("/rooms")
		{
			rooms.GET("", roomHandler.ListRooms)
			rooms.GET("/:code", roomHandler.GetRoom)
		}

		api.GET("/categories", wordHandler.Categories)

		ranking := api.Group("/ranking")
		{
			ranking.GET("", rankingHandler.Top)
			ranking.GET("/me", middleware.AuthMiddleware(jwtSecret), rankingHandler.Me)
		}
	}

	// The token query parameter is optional. When present and valid it fixes
	// the player id used for this connection's joins.
	router.GET("/ws", func(c *gin.Context) {
		var playerID string
		if token := c.Query("token"); token != "" {
			id, err := middleware.ParseToken(token, jwtSecret)
			if err != nil {
				logger.Debug("websocket token rejected", "error", err)
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
				return
			}
			playerID = id
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.Warn("websocket upgrade failed", "remote", c.ClientIP(), "error", err)
			return
		}

		client := hub.ServeClient(conn, playerID)
		logger.Debug("websocket connected", "conn", client.ID(), "remote", c.ClientIP(), "player_id", playerID)
	})

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "clients": hub.ClientCount()})
	})
}
