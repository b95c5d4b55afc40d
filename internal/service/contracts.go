package service

import (
	"context"

	"chatdesk/internal/models"

	"github.com/google/uuid"
)

// DepartmentRegistry is the router's read-only view of a client's
// departments.
type DepartmentRegistry interface {
	List(ctx context.Context, clientID uuid.UUID) ([]models.Department, error)
	GetByName(ctx context.Context, clientID uuid.UUID, name string) (*models.Department, error)
}

// TranscriptStore appends chat log entries. Durability is the store's
// contract; the router treats writes as fire-and-forget.
type TranscriptStore interface {
	Append(ctx context.Context, entry *models.TranscriptEntry) error
}

// Notifier delivers hand-off alerts to a department's recipient.
// Best effort: failures are logged by the caller, never raised.
type Notifier interface {
	Notify(ctx context.Context, recipient, subject, body string) error
}

// Generator is a single request/response text completion. It may fail or
// time out; callers degrade to fallback text.
type Generator interface {
	Complete(ctx context.Context, systemContext, userText string) (string, error)
}

// DepartmentStore is the admin write side of the registry, implemented
// by repository.DepartmentRepository.
type DepartmentStore interface {
	Create(ctx context.Context, dept *models.Department) error
	Update(ctx context.Context, dept *models.Department) error
	Delete(ctx context.Context, clientID, id uuid.UUID) error
	List(ctx context.Context, clientID uuid.UUID) ([]models.Department, error)
}

// RegistryInvalidator drops cached registry entries after a write so the
// router never routes on stale departments.
type RegistryInvalidator interface {
	Invalidate(clientID uuid.UUID)
}
