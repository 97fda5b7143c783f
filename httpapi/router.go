package httpapi

import (
	"chat-core/domain"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// NewRouter wires the routes onto a gin engine. The "reaction" binding rule
// rejects emoji outside the fixed set before the request reaches a service.
func NewRouter(handlers *Handlers, secret []byte, log *slog.Logger) *gin.Engine {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("reaction", func(fl validator.FieldLevel) bool {
			return domain.AllowedReaction(fl.Field().String())
		})
	}

	engine := gin.New()
	engine.Use(gin.Recovery(), RequestLogger(log), IdentityMiddleware(secret))

	engine.POST("/users/sync", handlers.upsertUser)
	engine.GET("/users/me", handlers.currentUser)
	engine.GET("/users/search", handlers.searchUsers)
	engine.POST("/presence/touch", handlers.touchPresence)

	engine.POST("/conversations/dm", handlers.createDm)
	engine.POST("/conversations/group", handlers.createGroup)
	engine.GET("/conversations", handlers.listConversations)
	engine.GET("/conversations/:id", handlers.conversationPreview)
	engine.POST("/conversations/:id/read", handlers.markRead)

	engine.POST("/conversations/:id/messages", handlers.sendMessage)
	engine.GET("/conversations/:id/messages", handlers.listMessages)
	engine.DELETE("/messages/:id", handlers.deleteMessage)
	engine.POST("/messages/:id/reactions", handlers.toggleReaction)

	engine.POST("/conversations/:id/typing", handlers.setTyping)
	engine.GET("/conversations/:id/typing", handlers.listTyping)

	return engine
}
