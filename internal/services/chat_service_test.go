package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/PactInteractive/dbchat/internal/adapters"
	"github.com/PactInteractive/dbchat/internal/ai"
	"github.com/PactInteractive/dbchat/internal/apperrors"
	"github.com/PactInteractive/dbchat/internal/models"
	"github.com/PactInteractive/dbchat/internal/repositories"
)

// fakeProvider emits a fixed token sequence, or fails after emitting a
// prefix of it.
type fakeProvider struct {
	tokens    []string
	failAfter int
	err       error
	lastReq   ai.ChatRequest
}

func (p *fakeProvider) Name() string { return "fake" }

func (p *fakeProvider) Stream(ctx context.Context, req ai.ChatRequest, emit func(token string) error) error {
	p.lastReq = req
	for i, token := range p.tokens {
		if p.err != nil && i >= p.failAfter {
			return p.err
		}
		if err := emit(token); err != nil {
			return err
		}
	}
	return p.err
}

type chatFixture struct {
	service  *ChatService
	messages *repositories.MessageRepository
	provider *fakeProvider
	chatID   string
	request  PromptRequest
}

func newChatFixture(t *testing.T, provider *fakeProvider) *chatFixture {
	t.Helper()
	ctx := context.Background()

	store, err := repositories.Open(t.TempDir())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	logger := zerolog.Nop()
	registry := adapters.NewRegistry(logger)
	chatRepo := repositories.NewChatRepository(store)
	messageRepo := repositories.NewMessageRepository(store)
	databaseRepo := repositories.NewDatabaseRepository(store)
	apiKeyRepo := repositories.NewAPIKeyRepository(store)
	settingsRepo := repositories.NewSettingsRepository(store)

	apiKeys := NewAPIKeyService(apiKeyRepo)
	databases := NewDatabaseService(databaseRepo, registry, logger)
	settings := NewSettingsService(settingsRepo, logger)
	schema := NewSchemaService(registry, logger)

	service := NewChatService(chatRepo, messageRepo, apiKeys, databases, settings, schema, logger)
	service.resolveProvider = func(kind models.ProviderKind, apiKey string) (ai.Provider, error) {
		return provider, nil
	}

	// The profile's engine is deliberately unsupported so the system
	// prompt degrades to the schema fallback instead of dialing out.
	profile, err := databaseRepo.Create(ctx, models.ConnectionProfile{
		Label: "local", Engine: models.Engine("none"),
		Host: "localhost", Port: "1", User: "u", Password: "p", Database: "shop",
	})
	if err != nil {
		t.Fatalf("create database: %v", err)
	}
	key, err := apiKeyRepo.Create(ctx, models.ProviderXAI, "secret")
	if err != nil {
		t.Fatalf("create api key: %v", err)
	}

	return &chatFixture{
		service:  service,
		messages: messageRepo,
		provider: provider,
		chatID:   "chat-under-test",
		request: PromptRequest{
			DatabaseID: profile.ID,
			APIKeyID:   key.ID,
			Model:      "grok-3",
			Prompt:     "how many orders last week?",
		},
	}
}

func collectTokens(t *testing.T, stream *PromptStream) ([]string, error) {
	t.Helper()
	var tokens []string
	err := stream.Run(context.Background(), func(token string) error {
		tokens = append(tokens, token)
		return nil
	})
	return tokens, err
}

func TestPromptCreatesChatAndPersistsRoundTrip(t *testing.T) {
	ctx := context.Background()
	f := newChatFixture(t, &fakeProvider{tokens: []string{"SELECT ", "COUNT(*)"}})

	stream, err := f.service.PreparePrompt(ctx, f.chatID, f.request)
	if err != nil {
		t.Fatalf("prepare prompt: %v", err)
	}

	tokens, err := collectTokens(t, stream)
	if err != nil {
		t.Fatalf("run stream: %v", err)
	}
	if strings.Join(tokens, "") != "SELECT COUNT(*)" {
		t.Fatalf("streamed %v", tokens)
	}

	chat, err := f.service.GetByID(ctx, f.chatID)
	if err != nil {
		t.Fatalf("chat was not created: %v", err)
	}
	if chat.Title != f.request.Prompt {
		t.Fatalf("title = %q, want derived from prompt", chat.Title)
	}

	stored, err := f.messages.GetByChatID(ctx, f.chatID)
	if err != nil {
		t.Fatalf("get messages: %v", err)
	}
	if len(stored) != 2 {
		t.Fatalf("messages = %d, want prompt and response", len(stored))
	}
	if stored[0].Kind != models.MessagePrompt || stored[0].Text != f.request.Prompt {
		t.Fatalf("first message = %+v", stored[0])
	}
	if stored[1].Kind != models.MessageResponse || stored[1].Text != "SELECT COUNT(*)" {
		t.Fatalf("second message = %+v", stored[1])
	}
	if stored[1].Model == nil || *stored[1].Model != "grok-3" {
		t.Fatalf("response model = %v, want grok-3", stored[1].Model)
	}
}

func TestPromptWithNewChatSentinelCreatesFreshChat(t *testing.T) {
	ctx := context.Background()
	f := newChatFixture(t, &fakeProvider{tokens: []string{"answer"}})

	stream, err := f.service.PreparePrompt(ctx, models.NewChatID, f.request)
	if err != nil {
		t.Fatalf("prepare prompt: %v", err)
	}
	if _, err := collectTokens(t, stream); err != nil {
		t.Fatalf("run stream: %v", err)
	}

	chats, err := f.service.GetAll(ctx)
	if err != nil {
		t.Fatalf("get all: %v", err)
	}
	if len(chats) != 1 {
		t.Fatalf("chats = %d, want 1", len(chats))
	}
	if chats[0].ID == models.NewChatID || chats[0].ID == "" {
		t.Fatalf("chat id = %q, want a fresh identity", chats[0].ID)
	}

	// The conversation must be reachable under its generated id.
	stored, err := f.messages.GetByChatID(ctx, chats[0].ID)
	if err != nil {
		t.Fatalf("get messages: %v", err)
	}
	if len(stored) != 2 {
		t.Fatalf("messages = %d, want prompt and response", len(stored))
	}

	if n, err := f.messages.CountByChatID(ctx, models.NewChatID); err != nil || n != 0 {
		t.Fatalf("messages under sentinel id = %d (err %v), want none", n, err)
	}
}

func TestPromptSendsHistoryWithRoles(t *testing.T) {
	ctx := context.Background()
	provider := &fakeProvider{tokens: []string{"ok"}}
	f := newChatFixture(t, provider)

	// Seed an existing conversation.
	if _, err := f.service.chats.Create(ctx, f.chatID, ""); err != nil {
		t.Fatalf("create chat: %v", err)
	}
	model := "grok-3"
	if _, err := f.messages.Create(ctx, models.MessagePrompt, "first question", &model, f.chatID); err != nil {
		t.Fatalf("seed prompt: %v", err)
	}
	if _, err := f.messages.Create(ctx, models.MessageResponse, "first answer", &model, f.chatID); err != nil {
		t.Fatalf("seed response: %v", err)
	}
	if _, err := f.messages.Create(ctx, models.MessageResults, "| n |\n| 3 |", nil, f.chatID); err != nil {
		t.Fatalf("seed results: %v", err)
	}

	stream, err := f.service.PreparePrompt(ctx, f.chatID, f.request)
	if err != nil {
		t.Fatalf("prepare prompt: %v", err)
	}
	if _, err := collectTokens(t, stream); err != nil {
		t.Fatalf("run stream: %v", err)
	}

	req := provider.lastReq
	if req.Model != "grok-3" || req.MaxSteps != promptMaxSteps {
		t.Fatalf("request = %+v", req)
	}
	if req.System == "" {
		t.Fatal("system prompt missing")
	}

	wantRoles := []string{"user", "assistant", "user", "user"}
	if len(req.Messages) != len(wantRoles) {
		t.Fatalf("history = %d messages, want %d", len(req.Messages), len(wantRoles))
	}
	for i, want := range wantRoles {
		if req.Messages[i].Role != want {
			t.Fatalf("message %d role = %q, want %q", i, req.Messages[i].Role, want)
		}
	}
	if req.Messages[len(req.Messages)-1].Content != f.request.Prompt {
		t.Fatal("new prompt missing from history")
	}
}

func TestPromptEmptyStreamWarnsAndStoresNothing(t *testing.T) {
	ctx := context.Background()
	f := newChatFixture(t, &fakeProvider{})

	stream, err := f.service.PreparePrompt(ctx, f.chatID, f.request)
	if err != nil {
		t.Fatalf("prepare prompt: %v", err)
	}

	tokens, err := collectTokens(t, stream)
	if err != nil {
		t.Fatalf("run stream: %v", err)
	}
	if len(tokens) != 1 || !strings.HasPrefix(tokens[0], "[WARN] No response received.") {
		t.Fatalf("tokens = %v, want single warning", tokens)
	}
	if !strings.Contains(tokens[0], "grok-3") {
		t.Fatalf("warning does not name the model: %q", tokens[0])
	}

	stored, err := f.messages.GetByChatID(ctx, f.chatID)
	if err != nil {
		t.Fatalf("get messages: %v", err)
	}
	if len(stored) != 1 || stored[0].Kind != models.MessagePrompt {
		t.Fatalf("stored = %+v, want only the prompt", stored)
	}
}

func TestPromptMidStreamFailureReportsInBand(t *testing.T) {
	ctx := context.Background()
	f := newChatFixture(t, &fakeProvider{
		tokens:    []string{"partial ", "answer"},
		failAfter: 1,
		err:       errors.New("provider exploded"),
	})

	stream, err := f.service.PreparePrompt(ctx, f.chatID, f.request)
	if err != nil {
		t.Fatalf("prepare prompt: %v", err)
	}

	tokens, err := collectTokens(t, stream)
	if err == nil {
		t.Fatal("expected stream error")
	}
	last := tokens[len(tokens)-1]
	if !strings.HasPrefix(last, "[ERROR] ") || !strings.Contains(last, "provider exploded") {
		t.Fatalf("last token = %q, want in-band error", last)
	}

	stored, err := f.messages.GetByChatID(ctx, f.chatID)
	if err != nil {
		t.Fatalf("get messages: %v", err)
	}
	for _, m := range stored {
		if m.Kind == models.MessageResponse {
			t.Fatalf("partial response was persisted: %+v", m)
		}
	}
}

func TestPromptUnknownDatabase(t *testing.T) {
	ctx := context.Background()
	f := newChatFixture(t, &fakeProvider{tokens: []string{"ok"}})

	req := f.request
	req.DatabaseID = "missing"
	_, err := f.service.PreparePrompt(ctx, f.chatID, req)

	var notFound *apperrors.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("err = %v, want NotFoundError", err)
	}

	// Nothing may be persisted when resolution fails.
	stored, err := f.messages.GetByChatID(ctx, f.chatID)
	if err != nil {
		t.Fatalf("get messages: %v", err)
	}
	if len(stored) != 0 {
		t.Fatalf("stored = %+v, want none", stored)
	}
}

func TestPromptUnresolvableProvider(t *testing.T) {
	ctx := context.Background()
	f := newChatFixture(t, &fakeProvider{})
	f.service.resolveProvider = func(kind models.ProviderKind, apiKey string) (ai.Provider, error) {
		return nil, errors.New("no such provider")
	}

	_, err := f.service.PreparePrompt(ctx, f.chatID, f.request)
	var notFound *apperrors.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("err = %v, want NotFoundError", err)
	}
	if !strings.Contains(err.Error(), f.request.Model) {
		t.Fatalf("error does not name the model: %v", err)
	}
}

func TestGetByIDNewChatSentinel(t *testing.T) {
	f := newChatFixture(t, &fakeProvider{})

	first, err := f.service.GetByID(context.Background(), models.NewChatID)
	if err != nil {
		t.Fatalf("get new chat: %v", err)
	}
	if first.ID == "" || first.ID == models.NewChatID {
		t.Fatalf("id = %q, want fresh id", first.ID)
	}
	if first.Title != "" {
		t.Fatalf("title = %q, want empty", first.Title)
	}

	second, err := f.service.GetByID(context.Background(), models.NewChatID)
	if err != nil {
		t.Fatalf("get new chat: %v", err)
	}
	if second.ID == first.ID {
		t.Fatal("sentinel returned the same id twice")
	}

	// The sentinel never persists anything.
	chats, err := f.service.GetAll(context.Background())
	if err != nil {
		t.Fatalf("get all: %v", err)
	}
	if len(chats) != 0 {
		t.Fatalf("chats = %+v, want none", chats)
	}
}

func TestAddResults(t *testing.T) {
	ctx := context.Background()
	f := newChatFixture(t, &fakeProvider{})

	if _, err := f.service.chats.Create(ctx, f.chatID, ""); err != nil {
		t.Fatalf("create chat: %v", err)
	}

	message, err := f.service.AddResults(ctx, f.chatID, AddResultsRequest{Text: "| count |\n| 42 |"})
	if err != nil {
		t.Fatalf("add results: %v", err)
	}
	if message.Kind != models.MessageResults {
		t.Fatalf("kind = %q, want results", message.Kind)
	}
	if message.Model != nil {
		t.Fatalf("model = %v, want nil", message.Model)
	}
}
