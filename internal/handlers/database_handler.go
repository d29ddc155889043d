package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/PactInteractive/dbchat/internal/apperrors"
	"github.com/PactInteractive/dbchat/internal/responses"
	"github.com/PactInteractive/dbchat/internal/services"
)

type DatabaseHandler struct {
	databases *services.DatabaseService
}

func NewDatabaseHandler(databases *services.DatabaseService) *DatabaseHandler {
	return &DatabaseHandler{databases: databases}
}

func (h *DatabaseHandler) Create(c *gin.Context) {
	var req services.ConnectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Error(c, apperrors.Validation(err))
		return
	}

	profile, err := h.databases.Create(c.Request.Context(), req)
	if err != nil {
		responses.Error(c, err)
		return
	}
	responses.Success(c, http.StatusCreated, profile, "Database created")
}

func (h *DatabaseHandler) GetAll(c *gin.Context) {
	profiles, err := h.databases.GetAll(c.Request.Context())
	if err != nil {
		responses.Error(c, err)
		return
	}
	responses.Success(c, http.StatusOK, profiles, "")
}

func (h *DatabaseHandler) GetByID(c *gin.Context) {
	profile, err := h.databases.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		responses.Error(c, err)
		return
	}
	responses.Success(c, http.StatusOK, profile, "")
}

func (h *DatabaseHandler) Update(c *gin.Context) {
	var req services.ConnectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Error(c, apperrors.Validation(err))
		return
	}

	profile, err := h.databases.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		responses.Error(c, err)
		return
	}
	responses.Success(c, http.StatusOK, profile, "Database updated")
}

func (h *DatabaseHandler) Delete(c *gin.Context) {
	if err := h.databases.Delete(c.Request.Context(), c.Param("id")); err != nil {
		responses.Error(c, err)
		return
	}
	responses.Success(c, http.StatusOK, nil, "Database deleted")
}

// TestConnection always answers 200; reachability is reported in the
// payload so the client form can show it inline.
func (h *DatabaseHandler) TestConnection(c *gin.Context) {
	var req services.ConnectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Error(c, apperrors.Validation(err))
		return
	}

	result := h.databases.TestConnection(c.Request.Context(), req)
	responses.Success(c, http.StatusOK, result, "")
}
