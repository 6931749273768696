package http

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"gitgpt/internal/llm"
	"gitgpt/internal/service"
)

const proxyFailureText = "Something went wrong!"

// ProxyHandler reenvía conversaciones al proveedor LLM con el modelo fijo del servidor.
type ProxyHandler struct {
	logger   *zap.Logger
	upstream llm.Upstream
	limiter  service.RateLimiter
}

// NewProxyHandler crea el handler del proxy. limiter puede ser nil.
func NewProxyHandler(logger *zap.Logger, upstream llm.Upstream, limiter service.RateLimiter) *ProxyHandler {
	return &ProxyHandler{
		logger:   logger,
		upstream: upstream,
		limiter:  limiter,
	}
}

type proxyMessage struct {
	Role    string `json:"role" binding:"required,oneof=user assistant"`
	Content string `json:"content"`
}

// Chat maneja POST /api/chat.
func (h *ProxyHandler) Chat(c *gin.Context) {
	if !h.allow(c) {
		return
	}

	var req struct {
		Messages []proxyMessage `json:"messages" binding:"required,min=1,dive"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid chat proxy request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	messages := make([]llm.ChatMessage, 0, len(req.Messages))
	for _, m := range req.Messages {
		messages = append(messages, llm.ChatMessage{Role: m.Role, Content: m.Content})
	}

	body, err := h.upstream.Forward(c.Request.Context(), messages)
	if err != nil {
		h.logger.Error("chat proxy failed", zap.Error(err))
		c.String(http.StatusInternalServerError, proxyFailureText)
		return
	}

	c.Data(http.StatusOK, "application/json", body)
}

// allow aplica el límite por IP y escribe los encabezados X-RateLimit-*.
// Con el límite excedido responde 429 con Retry-After.
func (h *ProxyHandler) allow(c *gin.Context) bool {
	if h.limiter == nil {
		return true
	}
	decision := h.limiter.Allow(c.Request.Context(), c.ClientIP())
	if decision.Limit > 0 {
		c.Header("X-RateLimit-Limit", strconv.Itoa(decision.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
	}
	if decision.Allowed {
		return true
	}

	c.Header("Retry-After", strconv.Itoa(retryAfterSeconds(decision.RetryAfter)))
	h.logger.Warn("chat proxy rate limited",
		zap.String("client_ip", c.ClientIP()),
		zap.Int("limit", decision.Limit),
		zap.Duration("retry_after", decision.RetryAfter),
	)
	c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
	return false
}

func retryAfterSeconds(d time.Duration) int {
	return max(int(math.Ceil(d.Seconds())), 1)
}
