package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/PactInteractive/dbchat/internal/handlers"
)

type DatabaseRoutes struct {
	handler *handlers.DatabaseHandler
}

func NewDatabaseRoutes(handler *handlers.DatabaseHandler) *DatabaseRoutes {
	return &DatabaseRoutes{handler: handler}
}

func (r *DatabaseRoutes) RegisterRoutes(router *gin.RouterGroup) {
	databases := router.Group("/databases")
	{
		databases.POST("/test", r.handler.TestConnection)
		databases.POST("", r.handler.Create)
		databases.GET("", r.handler.GetAll)
		databases.GET("/:id", r.handler.GetByID)
		databases.PUT("/:id", r.handler.Update)
		databases.DELETE("/:id", r.handler.Delete)
	}
}
