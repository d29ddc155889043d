package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/PactInteractive/dbchat/internal/apperrors"
	"github.com/PactInteractive/dbchat/internal/responses"
	"github.com/PactInteractive/dbchat/internal/services"
)

type ChatHandler struct {
	chats *services.ChatService
}

func NewChatHandler(chats *services.ChatService) *ChatHandler {
	return &ChatHandler{chats: chats}
}

func (h *ChatHandler) GetAll(c *gin.Context) {
	chats, err := h.chats.GetAll(c.Request.Context())
	if err != nil {
		responses.Error(c, err)
		return
	}
	responses.Success(c, http.StatusOK, chats, "")
}

func (h *ChatHandler) GetByID(c *gin.Context) {
	chat, err := h.chats.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		responses.Error(c, err)
		return
	}
	responses.Success(c, http.StatusOK, chat, "")
}

func (h *ChatHandler) Delete(c *gin.Context) {
	if err := h.chats.Delete(c.Request.Context(), c.Param("id")); err != nil {
		responses.Error(c, err)
		return
	}
	responses.Success(c, http.StatusOK, nil, "Chat deleted")
}

func (h *ChatHandler) GetMessages(c *gin.Context) {
	messages, err := h.chats.GetMessages(c.Request.Context(), c.Param("id"))
	if err != nil {
		responses.Error(c, err)
		return
	}
	responses.Success(c, http.StatusOK, messages, "")
}

func (h *ChatHandler) AddResults(c *gin.Context) {
	var req services.AddResultsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Error(c, apperrors.Validation(err))
		return
	}

	message, err := h.chats.AddResults(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		responses.Error(c, err)
		return
	}
	responses.Success(c, http.StatusCreated, message, "Results added")
}

// Prompt streams the AI response as raw text chunks. Every fallible
// step runs before the first byte is written, so resolution errors
// still get proper statuses; after that, failures are in-band.
func (h *ChatHandler) Prompt(c *gin.Context) {
	var req services.PromptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Error(c, apperrors.Validation(err))
		return
	}

	stream, err := h.chats.PreparePrompt(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		responses.Error(c, err)
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Status(http.StatusOK)
	c.Writer.Flush()

	// Errors are already written into the stream and logged.
	_ = stream.Run(c.Request.Context(), func(token string) error {
		if _, err := c.Writer.WriteString(token); err != nil {
			return err
		}
		c.Writer.Flush()
		return nil
	})
}
