package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/PactInteractive/dbchat/internal/handlers"
)

type SettingsRoutes struct {
	handler *handlers.SettingsHandler
}

func NewSettingsRoutes(handler *handlers.SettingsHandler) *SettingsRoutes {
	return &SettingsRoutes{handler: handler}
}

func (r *SettingsRoutes) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/settings", r.handler.Get)
}
