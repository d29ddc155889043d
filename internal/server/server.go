// Package server wires repositories, services, handlers and the HTTP
// stack into one runnable unit.
package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	_ "github.com/joho/godotenv/autoload"
	"github.com/rs/zerolog"

	"github.com/PactInteractive/dbchat/internal/adapters"
	"github.com/PactInteractive/dbchat/internal/apperrors"
	"github.com/PactInteractive/dbchat/internal/config"
	"github.com/PactInteractive/dbchat/internal/handlers"
	"github.com/PactInteractive/dbchat/internal/repositories"
	"github.com/PactInteractive/dbchat/internal/responses"
	"github.com/PactInteractive/dbchat/internal/routes"
	"github.com/PactInteractive/dbchat/internal/services"
)

type Server struct {
	store *repositories.Store
	http  *http.Server
}

func New(cfg *config.Config, logger zerolog.Logger) (*Server, error) {
	store, err := repositories.Open(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	// Repositories
	apiKeyRepo := repositories.NewAPIKeyRepository(store)
	databaseRepo := repositories.NewDatabaseRepository(store)
	chatRepo := repositories.NewChatRepository(store)
	messageRepo := repositories.NewMessageRepository(store)
	settingsRepo := repositories.NewSettingsRepository(store)

	// Services
	registry := adapters.NewRegistry(logger)
	apiKeyService := services.NewAPIKeyService(apiKeyRepo)
	databaseService := services.NewDatabaseService(databaseRepo, registry, logger)
	settingsService := services.NewSettingsService(settingsRepo, logger)
	schemaService := services.NewSchemaService(registry, logger)
	queryService := services.NewQueryService(databaseRepo, settingsService, registry, logger)
	chatService := services.NewChatService(chatRepo, messageRepo, apiKeyService, databaseService, settingsService, schemaService, logger)

	// Handlers
	pingHandler := handlers.NewPingHandler()
	apiKeyHandler := handlers.NewAPIKeyHandler(apiKeyService)
	databaseHandler := handlers.NewDatabaseHandler(databaseService)
	chatHandler := handlers.NewChatHandler(chatService)
	queryHandler := handlers.NewQueryHandler(queryService)
	settingsHandler := handlers.NewSettingsHandler(settingsService)

	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(logger))
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept"},
		MaxAge:          12 * time.Hour,
	}))

	router.HandleMethodNotAllowed = true
	router.NoMethod(func(c *gin.Context) {
		responses.Error(c, &apperrors.MethodNotAllowedError{Method: c.Request.Method})
	})
	router.NoRoute(func(c *gin.Context) {
		responses.Error(c, apperrors.NotFoundf("Route %s not found", c.Request.URL.Path))
	})

	routes.RegisterRoutes(router, pingHandler, apiKeyHandler, databaseHandler, chatHandler, queryHandler, settingsHandler)

	return &Server{
		store: store,
		http: &http.Server{
			Addr:        fmt.Sprintf(":%d", cfg.Port),
			Handler:     router,
			IdleTimeout: time.Minute,
			ReadTimeout: 10 * time.Second,
			// Prompt responses stream for as long as the provider
			// keeps producing tokens, so no write deadline.
			WriteTimeout: 0,
		},
	}, nil
}

func (s *Server) HTTP() *http.Server {
	return s.http
}

func (s *Server) Close() error {
	return s.store.Close()
}

func requestLogger(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Msg("request")
	}
}
