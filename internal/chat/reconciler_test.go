package chat

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/guylavee-07/Base44-AI-Finance-Iadvice/models"
)

type fakeSessionStore struct {
	created []models.ChatSession
	updated map[string][]models.ConversationTurn
	titles  map[string]string
	fail    error
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{
		updated: map[string][]models.ConversationTurn{},
		titles:  map[string]string{},
	}
}

func (f *fakeSessionStore) CreateSession(ctx context.Context, session models.ChatSession) (models.ChatSession, error) {
	if f.fail != nil {
		return models.ChatSession{}, f.fail
	}
	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	f.created = append(f.created, session)
	return session, nil
}

func (f *fakeSessionStore) UpdateSessionTurns(ctx context.Context, sessionID, title string, turns []models.ConversationTurn) error {
	if f.fail != nil {
		return f.fail
	}
	f.updated[sessionID] = turns
	f.titles[sessionID] = title
	return nil
}

func userTurn(content string) models.ConversationTurn {
	return models.ConversationTurn{Role: models.RoleUser, Content: content}
}

func assistantTurn(content string) models.ConversationTurn {
	return models.ConversationTurn{Role: models.RoleAssistant, Content: content}
}

func TestReconcileRejectsEmptyConversation(t *testing.T) {
	r := NewReconciler(newFakeSessionStore())
	_, err := r.Reconcile(context.Background(), "u@example.com", models.Conversation{}, nil)
	if !errors.Is(err, ErrEmptyConversation) {
		t.Fatalf("expected ErrEmptyConversation, got %v", err)
	}
}

func TestReconcileCreatesWhenNoMatch(t *testing.T) {
	fs := newFakeSessionStore()
	r := NewReconciler(fs)

	live := models.Conversation{
		ID:    uuid.NewString(),
		Turns: []models.ConversationTurn{userTurn("How do bonds work?"), assistantTurn("Bonds are debt instruments.")},
	}
	session, err := r.Reconcile(context.Background(), "u@example.com", live, nil)
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if len(fs.created) != 1 || len(fs.updated) != 0 {
		t.Fatalf("expected one create, got %d creates %d updates", len(fs.created), len(fs.updated))
	}
	if session.Title != "How do bonds work?" {
		t.Fatalf("unexpected title %q", session.Title)
	}
	if session.ConversationID != live.ID {
		t.Fatalf("conversation id not carried: %q", session.ConversationID)
	}
	for i, turn := range session.Turns {
		if turn.Timestamp.IsZero() {
			t.Fatalf("turn %d not stamped", i)
		}
	}
}

func TestReconcileUpdatesByConversationID(t *testing.T) {
	fs := newFakeSessionStore()
	r := NewReconciler(fs)

	convID := uuid.NewString()
	known := []models.ChatSession{{
		ID:             "sess-1",
		UserEmail:      "u@example.com",
		ConversationID: convID,
		Title:          "old title",
		Turns:          []models.ConversationTurn{userTurn("original question")},
	}}
	live := models.Conversation{
		ID: convID,
		Turns: []models.ConversationTurn{
			userTurn("original question"),
			assistantTurn("an answer"),
			userTurn("a follow-up"),
		},
	}

	session, err := r.Reconcile(context.Background(), "u@example.com", live, known)
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if len(fs.created) != 0 {
		t.Fatalf("expected no creates, got %d", len(fs.created))
	}
	if got := fs.updated["sess-1"]; len(got) != 3 {
		t.Fatalf("expected wholesale 3-turn update, got %d turns", len(got))
	}
	if session.ID != "sess-1" {
		t.Fatalf("expected existing session id, got %q", session.ID)
	}
}

func TestReconcileFallsBackToFirstTurnContent(t *testing.T) {
	fs := newFakeSessionStore()
	r := NewReconciler(fs)

	known := []models.ChatSession{{
		ID:        "sess-legacy",
		UserEmail: "u@example.com",
		Turns:     []models.ConversationTurn{userTurn("legacy question")},
	}}
	live := models.Conversation{
		ID:    uuid.NewString(),
		Turns: []models.ConversationTurn{userTurn("legacy question"), assistantTurn("reply")},
	}

	if _, err := r.Reconcile(context.Background(), "u@example.com", live, known); err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if len(fs.created) != 0 || len(fs.updated["sess-legacy"]) != 2 {
		t.Fatalf("expected update of legacy session, got creates=%d", len(fs.created))
	}
}

func TestReconcileIdempotent(t *testing.T) {
	fs := newFakeSessionStore()
	r := NewReconciler(fs)

	live := models.Conversation{
		ID:    uuid.NewString(),
		Turns: []models.ConversationTurn{userTurn("only once, please")},
	}
	first, err := r.Reconcile(context.Background(), "u@example.com", live, nil)
	if err != nil {
		t.Fatalf("first Reconcile: %v", err)
	}

	if _, err := r.Reconcile(context.Background(), "u@example.com", live, []models.ChatSession{first}); err != nil {
		t.Fatalf("second Reconcile: %v", err)
	}
	if len(fs.created) != 1 {
		t.Fatalf("repeat reconcile created a duplicate session")
	}
	if len(fs.updated[first.ID]) != 1 {
		t.Fatalf("repeat reconcile should update in place")
	}
}

func TestDeriveTitle(t *testing.T) {
	long := strings.Repeat("a", 60)
	cases := []struct {
		name  string
		turns []models.ConversationTurn
		want  string
	}{
		{"short", []models.ConversationTurn{userTurn("short question")}, "short question"},
		{"exactly fifty", []models.ConversationTurn{userTurn(strings.Repeat("b", 50))}, strings.Repeat("b", 50)},
		{"truncated", []models.ConversationTurn{userTurn(long)}, strings.Repeat("a", 50) + "..."},
		{"skips assistant", []models.ConversationTurn{assistantTurn("ignored"), userTurn("real")}, "real"},
		{"no user turn", []models.ConversationTurn{assistantTurn("hello")}, DefaultTitle},
	}
	for _, tc := range cases {
		if got := DeriveTitle(tc.turns); got != tc.want {
			t.Fatalf("%s: DeriveTitle = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestStampTurnsLeavesExistingTimestamps(t *testing.T) {
	old := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	turns := []models.ConversationTurn{
		{Role: models.RoleUser, Content: "a", Timestamp: old},
		{Role: models.RoleAssistant, Content: "b"},
	}

	stamped := StampTurns(turns, now)
	if !stamped[0].Timestamp.Equal(old) {
		t.Fatalf("existing timestamp overwritten: %v", stamped[0].Timestamp)
	}
	if !stamped[1].Timestamp.Equal(now) {
		t.Fatalf("missing timestamp not filled: %v", stamped[1].Timestamp)
	}
	if !turns[1].Timestamp.IsZero() {
		t.Fatalf("input slice mutated")
	}

	again := StampTurns(stamped, now.Add(time.Hour))
	if !again[1].Timestamp.Equal(now) {
		t.Fatalf("re-stamping changed a timestamp: %v", again[1].Timestamp)
	}
}
