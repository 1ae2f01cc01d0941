package handlers

import (
	"net/http"

	"forca/game"

	"github.com/gin-gonic/gin"
)

type RoomHandler struct {
	registry *game.Registry
}

func NewRoomHandler(registry *game.Registry) *RoomHandler {
	return &RoomHandler{registry: registry}
}

func (h *RoomHandler) ListRooms(c *gin.Context) {
	c.JSON(http.StatusOK, h.registry.Summaries())
}

func (h *RoomHandler) GetRoom(c *gin.Context) {
	code := game.NormalizeCode(c.Param("code"))
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Room code required"})
		return
	}

	room, ok := h.registry.Get(code)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Room not found"})
		return
	}

	c.JSON(http.StatusOK, room.Summary())
}
