package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"gitgpt/internal/catalog"
	"gitgpt/internal/service"
)

// ChatHandler mantiene dependencias para los endpoints de sesiones y mensajes.
type ChatHandler struct {
	logger  *zap.Logger
	chat    *service.ChatService
	catalog *catalog.Catalog
}

// NewChatHandler crea una instancia de ChatHandler con dependencias necesarias.
func NewChatHandler(logger *zap.Logger, chat *service.ChatService, repos *catalog.Catalog) *ChatHandler {
	return &ChatHandler{
		logger:  logger,
		chat:    chat,
		catalog: repos,
	}
}

// ListRepositories maneja GET /repositories.
func (h *ChatHandler) ListRepositories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"repositories": h.catalog.All()})
}

// CreateSession maneja POST /sessions.
func (h *ChatHandler) CreateSession(c *gin.Context) {
	session, err := h.chat.CreateSession()
	if err != nil {
		h.writeError(c, "create session failed", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"session": session})
}

// GetMessages maneja GET /sessions/:id/messages.
func (h *ChatHandler) GetMessages(c *gin.Context) {
	session, err := h.chat.Messages(c.Param("id"))
	if err != nil {
		h.writeError(c, "list messages failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"messages": session.Messages,
		"loading":  session.Loading,
	})
}

// PostMessage maneja POST /sessions/:id/messages.
func (h *ChatHandler) PostMessage(c *gin.Context) {
	var req struct {
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid post message request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	msgs, err := h.chat.Send(c.Request.Context(), c.Param("id"), req.Content)
	if err != nil {
		h.writeError(c, "send message failed", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"messages": msgs})
}

// ResetMessages maneja DELETE /sessions/:id/messages.
func (h *ChatHandler) ResetMessages(c *gin.Context) {
	if err := h.chat.Reset(c.Param("id")); err != nil {
		h.writeError(c, "reset messages failed", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// RenderMessage maneja GET /sessions/:id/messages/:messageId/render.
func (h *ChatHandler) RenderMessage(c *gin.Context) {
	session, err := h.chat.Messages(c.Param("id"))
	if err != nil {
		h.writeError(c, "render message failed", err)
		return
	}
	messageID := c.Param("messageId")
	for _, msg := range session.Messages {
		if msg.ID == messageID {
			c.JSON(http.StatusOK, gin.H{
				"message_id": msg.ID,
				"nodes":      service.RenderMessage(msg),
			})
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "message not found"})
}

// ImportRepository maneja POST /sessions/:id/repositories/import.
func (h *ChatHandler) ImportRepository(c *gin.Context) {
	msgs, err := h.chat.ImportRepository(c.Param("id"))
	if err != nil {
		h.writeError(c, "import repository failed", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"messages": msgs})
}

// SelectRepository maneja POST /sessions/:id/repositories/select.
func (h *ChatHandler) SelectRepository(c *gin.Context) {
	var req struct {
		RepositoryID string `json:"repository_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid select repository request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	msgs, err := h.chat.SelectRepository(c.Request.Context(), c.Param("id"), req.RepositoryID)
	if err != nil {
		h.writeError(c, "select repository failed", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"messages": msgs})
}

func (h *ChatHandler) writeError(c *gin.Context, msg string, err error) {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
	case errors.Is(err, service.ErrRepositoryNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "repository not found"})
	case errors.Is(err, service.ErrSessionBusy):
		c.JSON(http.StatusConflict, gin.H{"error": "a request is already in flight"})
	case errors.Is(err, service.ErrEmptyMessage):
		c.JSON(http.StatusBadRequest, gin.H{"error": "message is empty"})
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		h.logger.Warn(msg, zap.Error(err))
		c.JSON(http.StatusRequestTimeout, gin.H{"error": "request cancelled"})
	default:
		h.logger.Error(msg, zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
