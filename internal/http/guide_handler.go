package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"gitgpt/internal/service"
)

// GuideHandler expone el flag de la guía del editor de código.
type GuideHandler struct {
	logger *zap.Logger
	store  service.GuideStore
}

func NewGuideHandler(logger *zap.Logger, store service.GuideStore) *GuideHandler {
	return &GuideHandler{logger: logger, store: store}
}

// GetGuide maneja GET /guide.
func (h *GuideHandler) GetGuide(c *gin.Context) {
	seen, err := h.store.Seen(c.Request.Context())
	if err != nil {
		h.logger.Error("read guide flag failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not read guide flag"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"seen": seen})
}

// MarkSeen maneja POST /guide/seen (guía mostrada o descartada).
func (h *GuideHandler) MarkSeen(c *gin.Context) {
	if err := h.store.MarkSeen(c.Request.Context()); err != nil {
		h.logger.Error("write guide flag failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not write guide flag"})
		return
	}
	c.Status(http.StatusNoContent)
}
