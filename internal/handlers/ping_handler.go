package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/PactInteractive/dbchat/internal/responses"
)

type PingHandler struct{}

func NewPingHandler() *PingHandler {
	return &PingHandler{}
}

// Ping reports liveness and the server clock.
func (h *PingHandler) Ping(c *gin.Context) {
	responses.Success(c, http.StatusOK, gin.H{"now": time.Now().UTC().Format(time.RFC3339)}, "pong")
}
