package builder

import (
	"fmt"
	"net/http"
	"time"

	"github.com/genie-legal/intake-backend/internal/api"
	chatapi "github.com/genie-legal/intake-backend/internal/api/chat"
	conversationapi "github.com/genie-legal/intake-backend/internal/api/conversation"
	"github.com/genie-legal/intake-backend/internal/config"
	"github.com/genie-legal/intake-backend/internal/integration/llm"
	"github.com/genie-legal/intake-backend/internal/pkg/formatter"
	"github.com/genie-legal/intake-backend/internal/pkg/validator"
	"github.com/genie-legal/intake-backend/internal/repository"
	"github.com/genie-legal/intake-backend/internal/usecase/conversation"
	"github.com/genie-legal/intake-backend/internal/usecase/workbench"
	"go.uber.org/zap"
)

func Build() (*App, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := setupLogger(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}

	logger.Info("Building application",
		zap.String("environment", cfg.Environment),
		zap.String("server_addr", cfg.ServerAddr),
	)

	// Initialize the in-memory conversation store
	store := repository.NewConversationCache(cfg.ConversationTTL, cfg.ConversationCleanupInterval)
	logger.Info("Conversation store initialized",
		zap.Duration("ttl", cfg.ConversationTTL),
		zap.Duration("cleanup_interval", cfg.ConversationCleanupInterval),
	)

	// Initialize the collaborator connector (with mock support)
	var llmConnector conversation.Collaborator
	if cfg.EnableMocks {
		logger.Info("Using mock connector for the collaborator")
		llmConnector = llm.NewMockConnector(logger)
	} else {
		logger.Info("Using real connector for the collaborator")
		llmConnector = llm.NewConnector(cfg.LLMConnectorCfg, logger)
	}

	// Initialize validators
	reqValidator := validator.New()
	logger.Info("Validators initialized")

	// Initialize use cases
	conversationUC := conversation.NewUsecase(store, llmConnector, cfg.FlowCfg)
	workbenchUC := workbench.NewUsecase(store, formatter.NewFactory())
	logger.Info("Use cases initialized")

	// Setup API handlers
	chatHandler := chatapi.NewHandler(llmConnector, reqValidator)
	conversationHandler := conversationapi.NewHandler(conversationUC, workbenchUC, reqValidator)
	logger.Info("API handlers initialized")

	// Setup router
	router := api.SetupRouter(chatHandler, conversationHandler, logger)
	logger.Info("HTTP router configured")

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("Application built successfully",
		zap.String("environment", cfg.Environment),
	)

	return &App{
		server: server,
		store:  store,
		logger: logger,
	}, nil
}
