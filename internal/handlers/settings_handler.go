package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/PactInteractive/dbchat/internal/responses"
	"github.com/PactInteractive/dbchat/internal/services"
)

type SettingsHandler struct {
	settings *services.SettingsService
}

func NewSettingsHandler(settings *services.SettingsService) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

// Get returns the last-used selection, or the defaults on first launch.
func (h *SettingsHandler) Get(c *gin.Context) {
	settings, err := h.settings.Get(c.Request.Context())
	if err != nil {
		responses.Error(c, err)
		return
	}
	responses.Success(c, http.StatusOK, settings, "")
}
