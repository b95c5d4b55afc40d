package service

import (
	"context"
	"errors"
	"testing"

	"chatdesk/internal/models"
	"chatdesk/pkg/config"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func testChatConfig() *config.ChatConfig {
	return &config.ChatConfig{
		Strategy:        "keyword",
		Clarification:   "Could you clarify if this is Sales, Support, or Billing?",
		ResetMessage:    "You are back at the main menu.",
		FallbackMessage: "Sorry, something went wrong on our side.",
		GenericPrompt:   "You are connected with our team. How can we help?",
	}
}

func TestResponderNilDepartment(t *testing.T) {
	gen := &fakeGenerator{reply: "should not be used"}
	responder := NewResponder(gen, testChatConfig(), zap.NewNop())

	got := responder.Respond(context.Background(), nil, "hello")

	assert.Equal(t, testChatConfig().Clarification, got)
	assert.Zero(t, gen.calls)
}

func TestResponderCannedWithoutKnowledgeBase(t *testing.T) {
	gen := &fakeGenerator{reply: "should not be used"}
	responder := NewResponder(gen, testChatConfig(), zap.NewNop())
	dept := &models.Department{Name: "SALES", CannedResponse: "We have great deals today."}

	got := responder.Respond(context.Background(), dept, "how much is it?")

	assert.Equal(t, "We have great deals today.", got)
	assert.Zero(t, gen.calls, "empty knowledge base must not call the generator")
}

func TestResponderGroundedAnswer(t *testing.T) {
	gen := &fakeGenerator{reply: "The basic plan costs $10 a month."}
	responder := NewResponder(gen, testChatConfig(), zap.NewNop())
	dept := &models.Department{
		Name:           "SALES",
		CannedResponse: "We have great deals today.",
		KnowledgeBase:  "Basic plan: $10/month. Pro plan: $30/month.",
	}

	got := responder.Respond(context.Background(), dept, "how much is the basic plan?")

	assert.Equal(t, "The basic plan costs $10 a month.", got)
	assert.Equal(t, 1, gen.calls)
}

func TestResponderGenerationFailureFallsBack(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("upstream unavailable")}
	responder := NewResponder(gen, testChatConfig(), zap.NewNop())
	dept := &models.Department{
		Name:           "SALES",
		CannedResponse: "We have great deals today.",
		KnowledgeBase:  "Basic plan: $10/month.",
	}

	got := responder.Respond(context.Background(), dept, "how much?")

	assert.Equal(t, testChatConfig().FallbackMessage, got)
}

func TestResponderNilGeneratorFallsBackToCanned(t *testing.T) {
	responder := NewResponder(nil, testChatConfig(), zap.NewNop())
	dept := &models.Department{
		Name:           "SALES",
		CannedResponse: "We have great deals today.",
		KnowledgeBase:  "Basic plan: $10/month.",
	}

	got := responder.Respond(context.Background(), dept, "how much?")

	assert.Equal(t, "We have great deals today.", got)
}
