package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"forca/services"

	"github.com/gin-gonic/gin"
)

type CategoryLister interface {
	Categories(ctx context.Context) ([]services.CategoryCount, error)
}

type WordHandler struct {
	words  CategoryLister
	logger *slog.Logger
}

func NewWordHandler(words CategoryLister, logger *slog.Logger) *WordHandler {
	return &WordHandler{words: words, logger: logger}
}

func (h *WordHandler) Categories(c *gin.Context) {
	categories, err := h.words.Categories(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to list categories", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list categories"})
		return
	}
	if categories == nil {
		categories = []services.CategoryCount{}
	}

	c.JSON(http.StatusOK, categories)
}
