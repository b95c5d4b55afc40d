package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"chatdesk/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var errNotFound = errors.New("department not found")

type fakeRegistry struct {
	departments []models.Department
	listErr     error
}

func (f *fakeRegistry) List(_ context.Context, _ uuid.UUID) ([]models.Department, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.departments, nil
}

func (f *fakeRegistry) GetByName(_ context.Context, _ uuid.UUID, name string) (*models.Department, error) {
	for i := range f.departments {
		if strings.EqualFold(f.departments[i].Name, name) {
			return &f.departments[i], nil
		}
	}
	return nil, errNotFound
}

type fakeTranscripts struct {
	entries []models.TranscriptEntry
	err     error
}

func (f *fakeTranscripts) Append(_ context.Context, entry *models.TranscriptEntry) error {
	if f.err != nil {
		return f.err
	}
	f.entries = append(f.entries, *entry)
	return nil
}

type notification struct {
	recipient string
	subject   string
	body      string
}

type fakeNotifier struct {
	sent []notification
	err  error
}

func (f *fakeNotifier) Notify(_ context.Context, recipient, subject, body string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, notification{recipient: recipient, subject: subject, body: body})
	return nil
}

func routerDepartments() []models.Department {
	return []models.Department{
		{
			Name:           "SALES",
			Keywords:       []string{"buy", "price"},
			CannedResponse: "We have great deals today.",
			Recipient:      "sales@demo.com",
		},
		{
			Name:           "SUPPORT",
			Keywords:       []string{"error", "bug"},
			CannedResponse: "Sorry to hear that.",
			Recipient:      "tech@demo.com",
		},
	}
}

func newTestRouter(registry *fakeRegistry, transcripts *fakeTranscripts, notifier *fakeNotifier) *RouterService {
	cfg := testChatConfig()
	responder := NewResponder(nil, cfg, zap.NewNop())
	return NewRouterService(registry, transcripts, notifier, NewKeywordClassifier(), responder, cfg, zap.NewNop())
}

func senders(entries []models.TranscriptEntry) []models.Sender {
	out := make([]models.Sender, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Sender)
	}
	return out
}

func TestProcessRoutesKeywordMatch(t *testing.T) {
	registry := &fakeRegistry{departments: routerDepartments()}
	transcripts := &fakeTranscripts{}
	notifier := &fakeNotifier{}
	router := newTestRouter(registry, transcripts, notifier)
	clientID := uuid.New()

	decision := router.Process(context.Background(), clientID, "sess-1", models.GeneralDepartment, "I want to buy this")

	assert.Equal(t, "SALES", decision.Department)
	assert.Equal(t, ActionTransfer, decision.Action)
	assert.Contains(t, decision.Message, "SALES")
	assert.Contains(t, decision.Message, "We have great deals today.")

	require.Len(t, notifier.sent, 1)
	assert.Equal(t, "sales@demo.com", notifier.sent[0].recipient)
	assert.Contains(t, notifier.sent[0].body, "I want to buy this")

	// Exactly two entries: user before classification, bot after.
	require.Len(t, transcripts.entries, 2)
	assert.Equal(t, []models.Sender{models.SenderUser, models.SenderBot}, senders(transcripts.entries))
	assert.Equal(t, "I want to buy this", transcripts.entries[0].Message)
	assert.Equal(t, decision.Message, transcripts.entries[1].Message)
}

func TestProcessNoMatchStaysInGeneral(t *testing.T) {
	registry := &fakeRegistry{departments: routerDepartments()}
	transcripts := &fakeTranscripts{}
	notifier := &fakeNotifier{}
	router := newTestRouter(registry, transcripts, notifier)
	clientID := uuid.New()

	decision := router.Process(context.Background(), clientID, "sess-1", models.GeneralDepartment, "hello there")

	assert.Equal(t, models.GeneralDepartment, decision.Department)
	assert.Equal(t, ActionStay, decision.Action)
	assert.Equal(t, testChatConfig().Clarification, decision.Message)
	assert.Empty(t, notifier.sent)
	require.Len(t, transcripts.entries, 2)
	assert.Equal(t, []models.Sender{models.SenderUser, models.SenderBot}, senders(transcripts.entries))
}

func TestProcessNoMatchIsIdempotent(t *testing.T) {
	registry := &fakeRegistry{departments: routerDepartments()}
	router := newTestRouter(registry, &fakeTranscripts{}, &fakeNotifier{})
	clientID := uuid.New()

	first := router.Process(context.Background(), clientID, "sess-1", models.GeneralDepartment, "hello there")
	second := router.Process(context.Background(), clientID, "sess-1", models.GeneralDepartment, "hello there")

	assert.Equal(t, first, second)
}

func TestProcessResetFromRoutedState(t *testing.T) {
	registry := &fakeRegistry{departments: routerDepartments()}
	transcripts := &fakeTranscripts{}
	notifier := &fakeNotifier{}
	router := newTestRouter(registry, transcripts, notifier)
	clientID := uuid.New()

	decision := router.Process(context.Background(), clientID, "sess-1", "SALES", "menu")

	assert.Equal(t, models.GeneralDepartment, decision.Department)
	assert.Equal(t, ActionTransfer, decision.Action)
	assert.Equal(t, testChatConfig().ResetMessage, decision.Message)
	assert.Empty(t, notifier.sent)

	// Reset writes three entries: user, system marker, bot.
	require.Len(t, transcripts.entries, 3)
	assert.Equal(t, []models.Sender{models.SenderUser, models.SenderSystem, models.SenderBot}, senders(transcripts.entries))
}

func TestProcessResetPreemptsKeywordRouting(t *testing.T) {
	// "reset" is both an exit keyword and a SUPPORT keyword; the reset
	// check has precedence in every state.
	registry := &fakeRegistry{departments: routerDepartments()}
	router := newTestRouter(registry, &fakeTranscripts{}, &fakeNotifier{})

	decision := router.Process(context.Background(), uuid.New(), "sess-1", models.GeneralDepartment, "  Reset ")

	assert.Equal(t, models.GeneralDepartment, decision.Department)
	assert.Equal(t, ActionTransfer, decision.Action)
}

func TestProcessRoutedStaysWithoutRenotifying(t *testing.T) {
	registry := &fakeRegistry{departments: routerDepartments()}
	transcripts := &fakeTranscripts{}
	notifier := &fakeNotifier{}
	router := newTestRouter(registry, transcripts, notifier)
	clientID := uuid.New()

	decision := router.Process(context.Background(), clientID, "sess-1", "SALES", "do you ship abroad?")

	assert.Equal(t, "SALES", decision.Department)
	assert.Equal(t, ActionStay, decision.Action)
	assert.Equal(t, "We have great deals today.", decision.Message)
	assert.Empty(t, notifier.sent, "routed sessions must not re-notify")
	require.Len(t, transcripts.entries, 2)
}

func TestProcessRoutedKeywordOfOtherDepartmentStays(t *testing.T) {
	// Once routed, text-driven transfer only happens via reset; a SUPPORT
	// keyword inside a SALES session does not move the session.
	registry := &fakeRegistry{departments: routerDepartments()}
	router := newTestRouter(registry, &fakeTranscripts{}, &fakeNotifier{})

	decision := router.Process(context.Background(), uuid.New(), "sess-1", "SALES", "I found a bug")

	assert.Equal(t, "SALES", decision.Department)
	assert.Equal(t, ActionStay, decision.Action)
}

func TestProcessStaleRoutedDepartmentDegrades(t *testing.T) {
	registry := &fakeRegistry{departments: routerDepartments()}
	transcripts := &fakeTranscripts{}
	router := newTestRouter(registry, transcripts, &fakeNotifier{})

	decision := router.Process(context.Background(), uuid.New(), "sess-1", "DELETED_DEPT", "anyone there?")

	assert.Equal(t, "DELETED_DEPT", decision.Department)
	assert.Equal(t, ActionStay, decision.Action)
	assert.Equal(t, testChatConfig().GenericPrompt, decision.Message)
}

func TestProcessEmptyCurrentDefaultsToGeneral(t *testing.T) {
	registry := &fakeRegistry{departments: routerDepartments()}
	router := newTestRouter(registry, &fakeTranscripts{}, &fakeNotifier{})

	decision := router.Process(context.Background(), uuid.New(), "sess-1", "", "what is the price?")

	assert.Equal(t, "SALES", decision.Department)
	assert.Equal(t, ActionTransfer, decision.Action)
}

func TestProcessRegistryFailureDegradesToClarification(t *testing.T) {
	registry := &fakeRegistry{listErr: errors.New("db down")}
	transcripts := &fakeTranscripts{}
	router := newTestRouter(registry, transcripts, &fakeNotifier{})

	decision := router.Process(context.Background(), uuid.New(), "sess-1", models.GeneralDepartment, "I want to buy")

	assert.Equal(t, models.GeneralDepartment, decision.Department)
	assert.Equal(t, ActionStay, decision.Action)
	assert.Equal(t, testChatConfig().Clarification, decision.Message)
}

func TestProcessNotifierFailureIsContained(t *testing.T) {
	registry := &fakeRegistry{departments: routerDepartments()}
	notifier := &fakeNotifier{err: errors.New("smtp refused")}
	router := newTestRouter(registry, &fakeTranscripts{}, notifier)

	decision := router.Process(context.Background(), uuid.New(), "sess-1", models.GeneralDepartment, "I want to buy")

	assert.Equal(t, "SALES", decision.Department)
	assert.Equal(t, ActionTransfer, decision.Action)
}

func TestProcessTranscriptFailureIsContained(t *testing.T) {
	registry := &fakeRegistry{departments: routerDepartments()}
	transcripts := &fakeTranscripts{err: errors.New("disk full")}
	router := newTestRouter(registry, transcripts, &fakeNotifier{})

	decision := router.Process(context.Background(), uuid.New(), "sess-1", models.GeneralDepartment, "I want to buy")

	assert.Equal(t, "SALES", decision.Department)
}

func TestManualTransfer(t *testing.T) {
	registry := &fakeRegistry{departments: routerDepartments()}
	transcripts := &fakeTranscripts{}
	notifier := &fakeNotifier{}
	router := newTestRouter(registry, transcripts, notifier)

	decision := router.Transfer(context.Background(), uuid.New(), "sess-1", "SUPPORT")

	assert.Equal(t, "SUPPORT", decision.Department)
	assert.Equal(t, ActionTransfer, decision.Action)
	assert.Equal(t, "Sorry to hear that.", decision.Message)
	assert.Empty(t, notifier.sent, "manual transfer must not notify")

	require.Len(t, transcripts.entries, 2)
	assert.Equal(t, []models.Sender{models.SenderSystem, models.SenderBot}, senders(transcripts.entries))
	assert.Contains(t, transcripts.entries[0].Message, "SUPPORT")
}

func TestManualTransferUnknownTarget(t *testing.T) {
	registry := &fakeRegistry{departments: routerDepartments()}
	transcripts := &fakeTranscripts{}
	router := newTestRouter(registry, transcripts, &fakeNotifier{})

	decision := router.Transfer(context.Background(), uuid.New(), "sess-1", "LEGAL")

	assert.Equal(t, "LEGAL", decision.Department)
	assert.Equal(t, ActionTransfer, decision.Action)
	assert.Equal(t, testChatConfig().GenericPrompt, decision.Message)
	require.Len(t, transcripts.entries, 2)
}
