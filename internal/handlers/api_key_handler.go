package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/PactInteractive/dbchat/internal/apperrors"
	"github.com/PactInteractive/dbchat/internal/responses"
	"github.com/PactInteractive/dbchat/internal/services"
)

type APIKeyHandler struct {
	apiKeys *services.APIKeyService
}

func NewAPIKeyHandler(apiKeys *services.APIKeyService) *APIKeyHandler {
	return &APIKeyHandler{apiKeys: apiKeys}
}

func (h *APIKeyHandler) Create(c *gin.Context) {
	var req services.CreateAPIKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Error(c, apperrors.Validation(err))
		return
	}

	key, err := h.apiKeys.Create(c.Request.Context(), req)
	if err != nil {
		responses.Error(c, err)
		return
	}
	responses.Success(c, http.StatusCreated, key, "API key created")
}

func (h *APIKeyHandler) GetAll(c *gin.Context) {
	keys, err := h.apiKeys.GetAll(c.Request.Context())
	if err != nil {
		responses.Error(c, err)
		return
	}
	responses.Success(c, http.StatusOK, keys, "")
}

func (h *APIKeyHandler) GetByID(c *gin.Context) {
	key, err := h.apiKeys.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		responses.Error(c, err)
		return
	}
	responses.Success(c, http.StatusOK, key, "")
}

func (h *APIKeyHandler) Delete(c *gin.Context) {
	if err := h.apiKeys.Delete(c.Request.Context(), c.Param("id")); err != nil {
		responses.Error(c, err)
		return
	}
	responses.Success(c, http.StatusOK, nil, "API key deleted")
}
