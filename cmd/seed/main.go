package main

import (
	"context"
	"errors"
	"log"
	"time"

	"chatdesk/internal/models"
	"chatdesk/internal/repository"
	"chatdesk/pkg/auth"
	"chatdesk/pkg/config"
	"chatdesk/pkg/logger"
	"chatdesk/pkg/postgres"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	demoAPIKey     = "DEMO_KEY"
	demoClientName = "Demo Corp"
	demoAdminEmail = "admin@demo.com"
	demoAdminPass  = "changeme123"
)

// Demo departments in priority order. Earlier departments win on
// ambiguous input.
var demoDepartments = []struct {
	name      string
	keywords  []string
	canned    string
	recipient string
}{
	{
		name:      "SALES",
		keywords:  []string{"buy", "price", "cost", "upgrade", "demo"},
		canned:    "We have great deals today. I've notified a sales rep.",
		recipient: "sales@demo.com",
	},
	{
		name:      "SUPPORT",
		keywords:  []string{"error", "bug", "crash", "help", "login", "reset"},
		canned:    "Sorry to hear that. I've flagged this for tech support.",
		recipient: "tech@demo.com",
	},
	{
		name:      "BILLING",
		keywords:  []string{"refund", "invoice", "charge", "payment", "cancel"},
		canned:    "I've sent this request to our accounts team.",
		recipient: "bill@demo.com",
	},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Logger.Level); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	appLogger := logger.Get()

	ctx := context.Background()
	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	clientRepo := repository.NewClientRepository(db, appLogger)
	adminRepo := repository.NewAdminRepository(db, appLogger)
	deptRepo := repository.NewDepartmentRepository(db, appLogger)

	appLogger.Info("Starting database seeding...")

	client, err := clientRepo.GetByAPIKey(ctx, demoAPIKey)
	if err != nil && !errors.Is(err, repository.ErrClientNotFound) {
		appLogger.Fatal("Failed to look up demo client", zap.Error(err))
	}
	if client != nil {
		appLogger.Info("Demo client already seeded, nothing to do")
		return
	}

	now := time.Now()
	client = &models.Client{
		ID:        uuid.New(),
		APIKey:    demoAPIKey,
		Name:      demoClientName,
		CreatedAt: now,
	}
	if err := clientRepo.Create(ctx, client); err != nil {
		appLogger.Fatal("Failed to create demo client", zap.Error(err))
	}

	hash, err := auth.HashPassword(demoAdminPass)
	if err != nil {
		appLogger.Fatal("Failed to hash admin password", zap.Error(err))
	}
	admin := &models.AdminUser{
		ID:        uuid.New(),
		ClientID:  client.ID,
		Username:  "admin",
		Email:     demoAdminEmail,
		Password:  hash,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := adminRepo.Create(ctx, admin); err != nil {
		appLogger.Fatal("Failed to create demo admin", zap.Error(err))
	}

	for i, d := range demoDepartments {
		dept := &models.Department{
			ID:             uuid.New(),
			ClientID:       client.ID,
			Name:           d.name,
			Keywords:       d.keywords,
			CannedResponse: d.canned,
			Recipient:      d.recipient,
			Position:       i,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if err := deptRepo.Create(ctx, dept); err != nil {
			appLogger.Fatal("Failed to create department",
				zap.String("name", d.name),
				zap.Error(err),
			)
		}
		appLogger.Info("Seeded department", zap.String("name", d.name))
	}

	appLogger.Info("Database seeding completed successfully!",
		zap.String("api_key", demoAPIKey),
		zap.String("admin_email", demoAdminEmail),
	)
}
