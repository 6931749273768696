package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter configura el router de Gin con middlewares y rutas.
func NewRouter(
	logger *zap.Logger,
	chatH *ChatHandler,
	proxyH *ProxyHandler,
	guideH *GuideHandler,
) *gin.Engine {
	r := gin.New()

	r.Use(zapLoggerMiddleware(logger), gin.Recovery())

	// El proxy responde con el JSON del proveedor o con texto plano.
	r.POST("/api/chat", proxyH.Chat)

	api := r.Group("")
	api.Use(jsonContentTypeMiddleware())

	api.GET("/repositories", chatH.ListRepositories)

	sessions := api.Group("/sessions")
	sessions.POST("", chatH.CreateSession)
	sessions.GET("/:id/messages", chatH.GetMessages)
	sessions.POST("/:id/messages", chatH.PostMessage)
	sessions.DELETE("/:id/messages", chatH.ResetMessages)
	sessions.GET("/:id/messages/:messageId/render", chatH.RenderMessage)
	sessions.POST("/:id/repositories/import", chatH.ImportRepository)
	sessions.POST("/:id/repositories/select", chatH.SelectRepository)

	api.GET("/guide", guideH.GetGuide)
	api.POST("/guide/seen", guideH.MarkSeen)

	return r
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}
