package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/PactInteractive/dbchat/internal/handlers"
)

type ChatRoutes struct {
	handler *handlers.ChatHandler
}

func NewChatRoutes(handler *handlers.ChatHandler) *ChatRoutes {
	return &ChatRoutes{handler: handler}
}

func (r *ChatRoutes) RegisterRoutes(router *gin.RouterGroup) {
	chats := router.Group("/chats")
	{
		chats.GET("", r.handler.GetAll)
		chats.GET("/:id", r.handler.GetByID)
		chats.DELETE("/:id", r.handler.Delete)
		chats.GET("/:id/messages", r.handler.GetMessages)
		chats.POST("/:id/results", r.handler.AddResults)
		chats.POST("/:id/prompt", r.handler.Prompt)
	}
}
