package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/PactInteractive/dbchat/internal/handlers"
)

type APIKeyRoutes struct {
	handler *handlers.APIKeyHandler
}

func NewAPIKeyRoutes(handler *handlers.APIKeyHandler) *APIKeyRoutes {
	return &APIKeyRoutes{handler: handler}
}

func (r *APIKeyRoutes) RegisterRoutes(router *gin.RouterGroup) {
	apiKeys := router.Group("/api-keys")
	{
		apiKeys.POST("", r.handler.Create)
		apiKeys.GET("", r.handler.GetAll)
		apiKeys.GET("/:id", r.handler.GetByID)
		apiKeys.DELETE("/:id", r.handler.Delete)
	}
}
