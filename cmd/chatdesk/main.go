package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"chatdesk/internal/api"
	"chatdesk/internal/api/handlers"
	"chatdesk/internal/repository"
	"chatdesk/internal/service"
	"chatdesk/pkg/auth"
	"chatdesk/pkg/config"
	"chatdesk/pkg/logger"
	"chatdesk/pkg/postgres"

	"go.uber.org/zap"
)

// @title Chatdesk API
// @version 1.0
// @description Customer-support chat router with keyword and LLM-backed department classification
// @contact.name API Support
// @contact.email support@chatdesk.local
// @license.name MIT
// @license.url https://opensource.org/licenses/MIT
// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logger.Level); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	appLogger := logger.Get()
	appLogger.Info("Starting chatdesk service")

	ctx := context.Background()
	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Repositories
	clientRepo := repository.NewClientRepository(db, appLogger)
	adminRepo := repository.NewAdminRepository(db, appLogger)
	deptRepo := repository.NewDepartmentRepository(db, appLogger)
	transcriptRepo := repository.NewTranscriptRepository(db, appLogger)
	deptCache := repository.NewDepartmentCache(deptRepo, cfg.Chat.RegistryTTL)

	// JWT manager
	jwtManager := auth.NewJWTManager(cfg.JWT.SecretKey, cfg.JWT.Expiration, cfg.JWT.RefreshExp)

	// Services
	authService := service.NewAuthService(adminRepo, jwtManager, appLogger)
	deptService := service.NewDepartmentService(deptRepo, deptCache, appLogger)

	// The generator serves both the semantic classifier and
	// knowledge-grounded answers. Without an API key the router still
	// runs: classification falls back to keywords and responses to
	// canned text.
	var generator service.Generator
	if cfg.GigaChat.APIKey != "" {
		llmService, err := service.NewLLMService(&cfg.GigaChat, appLogger)
		if err != nil {
			appLogger.Fatal("Failed to initialize LLM service", zap.Error(err))
		}
		defer llmService.Close()
		generator = llmService
	} else {
		appLogger.Warn("GIGACHAT_API_KEY not set, running without a generator")
	}

	var classifier service.Classifier
	if cfg.Chat.Strategy == "semantic" && generator != nil {
		classifier = service.NewSemanticClassifier(generator, appLogger)
		appLogger.Info("Using semantic classifier")
	} else {
		classifier = service.NewKeywordClassifier()
		appLogger.Info("Using keyword classifier")
	}

	responder := service.NewResponder(generator, &cfg.Chat, appLogger)
	notifier := service.NewMailNotifier(&cfg.SMTP, appLogger)
	routerService := service.NewRouterService(deptCache, transcriptRepo, notifier, classifier, responder, &cfg.Chat, appLogger)

	// Handlers
	chatHandler := handlers.NewChatHandler(routerService, appLogger)
	wsHandler := handlers.NewWSHandler(routerService, appLogger)
	deptHandler := handlers.NewDepartmentHandler(deptService, transcriptRepo, appLogger)
	authHandler := handlers.NewAuthHandler(authService, appLogger)

	app := api.SetupRouter(chatHandler, wsHandler, deptHandler, authHandler, clientRepo, jwtManager, appLogger)

	go func() {
		addr := ":" + cfg.Server.Port
		appLogger.Info("Server starting", zap.String("address", addr))
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server")
	if err := app.Shutdown(); err != nil {
		appLogger.Error("Server shutdown error", zap.Error(err))
	}
}
