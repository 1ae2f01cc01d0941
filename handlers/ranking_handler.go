package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"forca/game"
	"forca/middleware"
	"forca/services"

	"github.com/gin-gonic/gin"
)

type Ranking interface {
	TopPlayers(ctx context.Context, limit int) ([]services.RankingEntry, error)
	Standing(ctx context.Context, playerID string) (services.RankingEntry, error)
}

type RankingHandler struct {
	ranking Ranking
	logger  *slog.Logger
}

func NewRankingHandler(ranking Ranking, logger *slog.Logger) *RankingHandler {
	return &RankingHandler{ranking: ranking, logger: logger}
}

func (h *RankingHandler) Top(c *gin.Context) {
	limit := services.DefaultRankingLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		limit = n
	}

	entries, err := h.ranking.TopPlayers(c.Request.Context(), limit)
	if err != nil {
		h.logger.Error("failed to load ranking", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load ranking"})
		return
	}
	if entries == nil {
		entries = []services.RankingEntry{}
	}

	c.JSON(http.StatusOK, entries)
}

func (h *RankingHandler) Me(c *gin.Context) {
	playerID := c.GetString(middleware.PlayerIDKey)
	if playerID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Player not authenticated"})
		return
	}

	entry, err := h.ranking.Standing(c.Request.Context(), playerID)
	if errors.Is(err, game.ErrPlayerNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Player not found"})
		return
	}
	if err != nil {
		h.logger.Error("failed to load standing", "player_id", playerID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load standing"})
		return
	}

	c.JSON(http.StatusOK, entry)
}
