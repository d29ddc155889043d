package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/PactInteractive/dbchat/internal/ai"
	"github.com/PactInteractive/dbchat/internal/apperrors"
	"github.com/PactInteractive/dbchat/internal/models"
	"github.com/PactInteractive/dbchat/internal/repositories"
)

// promptMaxSteps bounds provider-internal tool-call round trips.
const promptMaxSteps = 3

// PromptRequest is one user turn plus the full provider selection. The
// selection travels with every prompt so switching databases or models
// mid-conversation needs no separate endpoint.
type PromptRequest struct {
	DatabaseID string `json:"database_id" binding:"required"`
	APIKeyID   string `json:"api_key_id" binding:"required"`
	Model      string `json:"model" binding:"required"`
	Prompt     string `json:"prompt" binding:"required"`
}

// AddResultsRequest shares console query results into a chat.
type AddResultsRequest struct {
	Text string `json:"text" binding:"required"`
}

// ChatService manages conversations and orchestrates prompts.
type ChatService struct {
	chats    *repositories.ChatRepository
	messages *repositories.MessageRepository
	apiKeys  *APIKeyService
	database *DatabaseService
	settings *SettingsService
	schema   *SchemaService
	logger   zerolog.Logger

	// resolveProvider is swappable so orchestration can be tested
	// without real provider endpoints.
	resolveProvider func(kind models.ProviderKind, apiKey string) (ai.Provider, error)
}

func NewChatService(
	chats *repositories.ChatRepository,
	messages *repositories.MessageRepository,
	apiKeys *APIKeyService,
	database *DatabaseService,
	settings *SettingsService,
	schema *SchemaService,
	logger zerolog.Logger,
) *ChatService {
	return &ChatService{
		chats:           chats,
		messages:        messages,
		apiKeys:         apiKeys,
		database:        database,
		settings:        settings,
		schema:          schema,
		logger:          logger,
		resolveProvider: ai.Resolve,
	}
}

func (s *ChatService) GetAll(ctx context.Context) ([]models.Chat, error) {
	return s.chats.GetAll(ctx)
}

// GetByID resolves a chat. The "new" sentinel yields an unsaved chat
// with a fresh id; nothing is persisted until the first prompt.
func (s *ChatService) GetByID(ctx context.Context, id string) (models.Chat, error) {
	if id == models.NewChatID {
		return models.Chat{ID: uuid.NewString(), Title: "", CreatedAt: time.Now().UTC()}, nil
	}

	chat, err := s.chats.GetByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return models.Chat{}, apperrors.NotFoundf("Chat %s not found", id)
	}
	return chat, err
}

func (s *ChatService) Delete(ctx context.Context, id string) error {
	return s.chats.Delete(ctx, id)
}

func (s *ChatService) GetMessages(ctx context.Context, chatID string) ([]models.Message, error) {
	return s.messages.GetByChatID(ctx, chatID)
}

// AddResults stores user-shared query results as a message. Results
// carry no model.
func (s *ChatService) AddResults(ctx context.Context, chatID string, req AddResultsRequest) (models.Message, error) {
	return s.messages.Create(ctx, models.MessageResults, req.Text, nil, chatID)
}

// PreparePrompt runs every fallible step of a prompt request that must
// complete before the response starts streaming: resolving the chat,
// profile, key and provider, persisting the prompt message and
// assembling the system prompt. Errors returned here can still become
// proper HTTP statuses; once the returned stream runs, they cannot.
func (s *ChatService) PreparePrompt(ctx context.Context, chatID string, req PromptRequest) (*PromptStream, error) {
	s.logger.Info().Str("chat_id", chatID).Msg("prompt received")

	var chat models.Chat
	var err error
	if chatID == models.NewChatID {
		// The sentinel never names a stored chat; the conversation
		// starts under a fresh identity.
		chat, err = s.chats.Create(ctx, uuid.NewString(), "")
	} else {
		chat, err = s.chats.GetByID(ctx, chatID)
		if errors.Is(err, repositories.ErrNotFound) {
			chat, err = s.chats.Create(ctx, chatID, "")
		}
	}
	if err != nil {
		return nil, err
	}

	profile, err := s.database.GetByID(ctx, req.DatabaseID)
	if err != nil {
		return nil, err
	}

	apiKey, err := s.apiKeys.GetByID(ctx, req.APIKeyID)
	if err != nil {
		return nil, err
	}

	provider, err := s.resolveProvider(apiKey.Kind, apiKey.Value)
	if err != nil {
		return nil, apperrors.NotFoundf("AI model %s not found", req.Model)
	}

	s.settings.Remember(models.Settings{
		DatabaseID: req.DatabaseID,
		APIKeyID:   req.APIKeyID,
		Model:      req.Model,
	})

	if _, err := s.messages.Create(ctx, models.MessagePrompt, req.Prompt, &req.Model, chat.ID); err != nil {
		return nil, apperrors.Internalf("Failed to create prompt message")
	}

	history, err := s.messages.GetByChatID(ctx, chat.ID)
	if err != nil {
		return nil, err
	}

	return &PromptStream{
		service: s,
		chatID:  chat.ID,
		model:   req.Model,
		request: ai.ChatRequest{
			Model:    req.Model,
			System:   s.schema.SystemPrompt(ctx, profile),
			Messages: historyToMessages(history),
			MaxSteps: promptMaxSteps,
		},
		provider: provider,
	}, nil
}

// historyToMessages maps stored messages onto provider roles. Prompts
// and shared results are both user turns.
func historyToMessages(history []models.Message) []ai.Message {
	messages := make([]ai.Message, 0, len(history))
	for _, m := range history {
		role := "assistant"
		if m.Kind == models.MessagePrompt || m.Kind == models.MessageResults {
			role = "user"
		}
		messages = append(messages, ai.Message{Role: role, Content: m.Text})
	}
	return messages
}

// PromptStream is a prepared prompt ready to stream. Run is called
// after the transport has committed to a streaming response, so all of
// its failures are reported in-band.
type PromptStream struct {
	service  *ChatService
	chatID   string
	model    string
	request  ai.ChatRequest
	provider ai.Provider
}

// Run streams the completion through emit, accumulating the text. On
// success the full response is persisted; an empty stream emits a
// warning instead and stores nothing. Mid-stream failures emit an
// in-band error marker and leave no response message behind.
func (ps *PromptStream) Run(ctx context.Context, emit func(token string) error) error {
	logger := ps.service.logger.With().Str("chat_id", ps.chatID).Str("model", ps.model).Logger()
	logger.Info().Str("provider", ps.provider.Name()).Msg("stream started")

	var response strings.Builder
	err := ps.provider.Stream(ctx, ps.request, func(token string) error {
		if err := emit(token); err != nil {
			return err
		}
		response.WriteString(token)
		return nil
	})
	if err != nil {
		logger.Error().Err(err).Msg("stream failed")
		if emitErr := emit(fmt.Sprintf("[ERROR] %s", err.Error())); emitErr != nil {
			logger.Error().Err(emitErr).Msg("failed to report stream error to client")
		}
		return err
	}

	if response.Len() == 0 {
		warning := fmt.Sprintf("[WARN] No response received. Please check if your API key has access to the selected model %s.", ps.model)
		logger.Warn().Msg(warning)
		return emit(warning)
	}

	if _, err := ps.service.messages.Create(ctx, models.MessageResponse, response.String(), &ps.model, ps.chatID); err != nil {
		logger.Error().Err(err).Msg("failed to persist response message")
		if emitErr := emit(fmt.Sprintf("[ERROR] %s", err.Error())); emitErr != nil {
			logger.Error().Err(emitErr).Msg("failed to report stream error to client")
		}
		return err
	}

	logger.Info().Int("bytes", response.Len()).Msg("stream finished")
	return nil
}
