package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/PactInteractive/dbchat/internal/apperrors"
	"github.com/PactInteractive/dbchat/internal/responses"
	"github.com/PactInteractive/dbchat/internal/services"
)

type QueryHandler struct {
	queries *services.QueryService
}

func NewQueryHandler(queries *services.QueryService) *QueryHandler {
	return &QueryHandler{queries: queries}
}

// Execute runs user-written SQL against a stored connection profile.
func (h *QueryHandler) Execute(c *gin.Context) {
	var req services.ExecuteQueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Error(c, apperrors.Validation(err))
		return
	}

	rows, err := h.queries.Execute(c.Request.Context(), req)
	if err != nil {
		responses.Error(c, err)
		return
	}
	responses.Success(c, http.StatusOK, rows, "Query executed")
}
