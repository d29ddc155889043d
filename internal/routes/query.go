package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/PactInteractive/dbchat/internal/handlers"
)

type QueryRoutes struct {
	handler *handlers.QueryHandler
}

func NewQueryRoutes(handler *handlers.QueryHandler) *QueryRoutes {
	return &QueryRoutes{handler: handler}
}

func (r *QueryRoutes) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/query", r.handler.Execute)
}
