package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"chatdesk/internal/models"
	"chatdesk/pkg/config"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Action string

const (
	ActionStay     Action = "stay"
	ActionTransfer Action = "transfer"
)

// RoutingDecision is the router's complete answer to one inbound message.
// ActionTransfer tells the caller to persist Department as the session's
// new state; ActionStay leaves it unchanged.
type RoutingDecision struct {
	Department string
	Message    string
	Action     Action
}

// resetKeywords return a routed session to GENERAL from any state.
// Matched against the lowercased, trimmed text, exact only.
var resetKeywords = map[string]struct{}{
	"exit":      {},
	"quit":      {},
	"menu":      {},
	"main menu": {},
	"back":      {},
	"reset":     {},
}

// RouterService is the department-routing state machine. It carries no
// session state itself: the caller supplies current_department each turn
// and persists it between turns.
type RouterService struct {
	registry    DepartmentRegistry
	transcripts TranscriptStore
	notifier    Notifier
	classifier  Classifier
	responder   *Responder
	cfg         *config.ChatConfig
	logger      *zap.Logger
}

func NewRouterService(
	registry DepartmentRegistry,
	transcripts TranscriptStore,
	notifier Notifier,
	classifier Classifier,
	responder *Responder,
	cfg *config.ChatConfig,
	logger *zap.Logger,
) *RouterService {
	return &RouterService{
		registry:    registry,
		transcripts: transcripts,
		notifier:    notifier,
		classifier:  classifier,
		responder:   responder,
		cfg:         cfg,
		logger:      logger,
	}
}

// Process runs one transition of the state machine.
//
// Precedence: reset keywords first, in every state. In GENERAL the
// classifier picks a department (transfer + notify) or the session stays
// with the clarification prompt. In a routed department the session
// stays and the department is NOT re-notified: the recipient was alerted
// once, on the transfer that routed the session.
//
// Every call writes a user entry before classification and a bot entry
// after; the reset branch writes a system entry in between. Transcript
// and notification failures are logged and contained, never surfaced.
func (s *RouterService) Process(ctx context.Context, clientID uuid.UUID, sessionID, currentDepartment, text string) *RoutingDecision {
	current := strings.TrimSpace(currentDepartment)
	if current == "" {
		current = models.GeneralDepartment
	}

	s.append(ctx, clientID, sessionID, models.SenderUser, text, current)

	normalized := strings.ToLower(strings.TrimSpace(text))
	if _, ok := resetKeywords[normalized]; ok {
		s.append(ctx, clientID, sessionID, models.SenderSystem, "Session reset to main menu", models.GeneralDepartment)
		s.append(ctx, clientID, sessionID, models.SenderBot, s.cfg.ResetMessage, models.GeneralDepartment)
		return &RoutingDecision{
			Department: models.GeneralDepartment,
			Message:    s.cfg.ResetMessage,
			Action:     ActionTransfer,
		}
	}

	if strings.EqualFold(current, models.GeneralDepartment) {
		return s.processUnrouted(ctx, clientID, sessionID, text)
	}
	return s.processRouted(ctx, clientID, sessionID, current, text)
}

func (s *RouterService) processUnrouted(ctx context.Context, clientID uuid.UUID, sessionID, text string) *RoutingDecision {
	departments, err := s.registry.List(ctx, clientID)
	if err != nil {
		s.logger.Error("Failed to load department registry", zap.Error(err))
		departments = nil
	}

	dept := s.classifier.Classify(ctx, text, departments)
	if dept == nil {
		message := s.responder.Respond(ctx, nil, text)
		s.append(ctx, clientID, sessionID, models.SenderBot, message, models.GeneralDepartment)
		return &RoutingDecision{
			Department: models.GeneralDepartment,
			Message:    message,
			Action:     ActionStay,
		}
	}

	opening := s.responder.Respond(ctx, dept, text)
	message := fmt.Sprintf("I see this is about %s. %s", dept.Name, opening)

	s.notify(ctx, dept,
		fmt.Sprintf("New chat routed to %s", dept.Name),
		fmt.Sprintf("Session %s was routed to %s.\n\nCustomer message:\n%s", sessionID, dept.Name, text),
	)

	s.append(ctx, clientID, sessionID, models.SenderBot, message, dept.Name)
	return &RoutingDecision{
		Department: dept.Name,
		Message:    message,
		Action:     ActionTransfer,
	}
}

func (s *RouterService) processRouted(ctx context.Context, clientID uuid.UUID, sessionID, current, text string) *RoutingDecision {
	dept, err := s.registry.GetByName(ctx, clientID, current)
	if err != nil {
		// Stale session state referencing a deleted department degrades
		// to the generic prompt, never a hard fault.
		s.logger.Warn("Routed department not found",
			zap.String("department", current),
			zap.Error(err),
		)
		s.append(ctx, clientID, sessionID, models.SenderBot, s.cfg.GenericPrompt, current)
		return &RoutingDecision{
			Department: current,
			Message:    s.cfg.GenericPrompt,
			Action:     ActionStay,
		}
	}

	message := s.responder.Respond(ctx, dept, text)
	s.append(ctx, clientID, sessionID, models.SenderBot, message, dept.Name)
	return &RoutingDecision{
		Department: dept.Name,
		Message:    message,
		Action:     ActionStay,
	}
}

// Transfer forces a session into a target department, bypassing the
// classifier. A missing target degrades to the generic prompt. No
// notification is sent on manual transfer.
func (s *RouterService) Transfer(ctx context.Context, clientID uuid.UUID, sessionID, target string) *RoutingDecision {
	s.append(ctx, clientID, sessionID, models.SenderSystem,
		fmt.Sprintf("Manual transfer to %s", target), target)

	message := s.cfg.GenericPrompt
	dept, err := s.registry.GetByName(ctx, clientID, target)
	if err != nil {
		s.logger.Warn("Manual transfer to unknown department",
			zap.String("department", target),
			zap.Error(err),
		)
	} else {
		message = dept.CannedResponse
	}

	s.append(ctx, clientID, sessionID, models.SenderBot, message, target)
	return &RoutingDecision{
		Department: target,
		Message:    message,
		Action:     ActionTransfer,
	}
}

func (s *RouterService) append(ctx context.Context, clientID uuid.UUID, sessionID string, sender models.Sender, message, department string) {
	entry := &models.TranscriptEntry{
		ID:         uuid.New(),
		ClientID:   clientID,
		SessionID:  sessionID,
		Sender:     sender,
		Message:    message,
		Department: department,
		CreatedAt:  time.Now(),
	}
	if err := s.transcripts.Append(ctx, entry); err != nil {
		s.logger.Error("Failed to append transcript entry",
			zap.String("session_id", sessionID),
			zap.String("sender", string(sender)),
			zap.Error(err),
		)
	}
}

func (s *RouterService) notify(ctx context.Context, dept *models.Department, subject, body string) {
	if dept.Recipient == "" {
		return
	}
	if err := s.notifier.Notify(ctx, dept.Recipient, subject, body); err != nil {
		s.logger.Warn("Department notification failed",
			zap.String("department", dept.Name),
			zap.String("recipient", dept.Recipient),
			zap.Error(err),
		)
	}
}
