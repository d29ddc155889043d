package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/PactInteractive/dbchat/internal/handlers"
)

func RegisterRoutes(
	router *gin.Engine,
	pingHandler *handlers.PingHandler,
	apiKeyHandler *handlers.APIKeyHandler,
	databaseHandler *handlers.DatabaseHandler,
	chatHandler *handlers.ChatHandler,
	queryHandler *handlers.QueryHandler,
	settingsHandler *handlers.SettingsHandler,
) {
	api := router.Group("/api")

	api.GET("/ping", pingHandler.Ping)

	apiKeyRoutes := NewAPIKeyRoutes(apiKeyHandler)
	apiKeyRoutes.RegisterRoutes(api)

	databaseRoutes := NewDatabaseRoutes(databaseHandler)
	databaseRoutes.RegisterRoutes(api)

	chatRoutes := NewChatRoutes(chatHandler)
	chatRoutes.RegisterRoutes(api)

	queryRoutes := NewQueryRoutes(queryHandler)
	queryRoutes.RegisterRoutes(api)

	settingsRoutes := NewSettingsRoutes(settingsHandler)
	settingsRoutes.RegisterRoutes(api)
}
