package service

import (
	"context"
	"fmt"

	"chatdesk/internal/models"
	"chatdesk/pkg/config"

	"go.uber.org/zap"
)

// Responder produces the reply text for a matched (or unmatched)
// department. Departments with a knowledge base get a grounded generated
// answer, the rest get their canned response with no external call.
type Responder struct {
	generator Generator
	cfg       *config.ChatConfig
	logger    *zap.Logger
}

func NewResponder(generator Generator, cfg *config.ChatConfig, logger *zap.Logger) *Responder {
	return &Responder{
		generator: generator,
		cfg:       cfg,
		logger:    logger,
	}
}

func (r *Responder) Respond(ctx context.Context, dept *models.Department, text string) string {
	if dept == nil {
		return r.cfg.Clarification
	}

	if dept.KnowledgeBase == "" || r.generator == nil {
		return dept.CannedResponse
	}

	system := fmt.Sprintf(`You are a support assistant for the %s department.
Answer the customer's message using ONLY the facts below.
If the facts are not sufficient to answer, reply with exactly:
%s

Facts:
%s`, dept.Name, dept.CannedResponse, dept.KnowledgeBase)

	answer, err := r.generator.Complete(ctx, system, text)
	if err != nil || answer == "" {
		r.logger.Warn("Answer generation failed, using fallback message",
			zap.String("department", dept.Name),
			zap.Error(err),
		)
		return r.cfg.FallbackMessage
	}

	return answer
}
