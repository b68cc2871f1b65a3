package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/guylavee-07/Base44-AI-Finance-Iadvice/models"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "iadvice.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestUserRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if _, err := s.GetUser(ctx, "nobody@example.com"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	user := models.User{
		Email:            "client@example.com",
		FullName:         "Dana Client",
		ProfileCompleted: true,
		ProfileCompletedAt: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
		InvestmentProfile: &models.InvestmentProfile{
			RiskLevel:           models.RiskMedium,
			AvailableAmount:     decimal.NewFromInt(50000),
			InvestmentTimeframe: models.TimeframeLong,
			KnowledgeLevel:      models.KnowledgeBeginner,
		},
	}
	if err := s.UpsertUser(ctx, user); err != nil {
		t.Fatalf("UpsertUser: %v", err)
	}

	got, err := s.GetUser(ctx, user.Email)
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if got.FullName != "Dana Client" || !got.ProfileCompleted {
		t.Fatalf("unexpected user: %+v", got)
	}
	if got.InvestmentProfile == nil || got.InvestmentProfile.RiskLevel != models.RiskMedium {
		t.Fatalf("investment profile not restored: %+v", got.InvestmentProfile)
	}
	if !got.InvestmentProfile.AvailableAmount.Equal(decimal.NewFromInt(50000)) {
		t.Fatalf("amount mismatch: %s", got.InvestmentProfile.AvailableAmount)
	}

	user.FullName = "Dana R. Client"
	if err := s.UpsertUser(ctx, user); err != nil {
		t.Fatalf("UpsertUser update: %v", err)
	}
	got, err = s.GetUser(ctx, user.Email)
	if err != nil {
		t.Fatalf("GetUser after update: %v", err)
	}
	if got.FullName != "Dana R. Client" {
		t.Fatalf("update not applied: %s", got.FullName)
	}
}

func TestSessionLifecycle(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	turns := []models.ConversationTurn{
		{Role: models.RoleUser, Content: "Should I buy index funds?", Timestamp: time.Now().UTC()},
		{Role: models.RoleAssistant, Content: "Index funds are a common core holding.", Timestamp: time.Now().UTC()},
	}
	created, err := s.CreateSession(ctx, models.ChatSession{
		UserEmail:      "client@example.com",
		ConversationID: "conv-1",
		Title:          "Should I buy index funds?",
		Turns:          turns,
	})
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if created.ID == "" {
		t.Fatalf("expected generated session id")
	}

	got, err := s.GetSession(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if len(got.Turns) != 2 || got.Turns[0].Content != turns[0].Content {
		t.Fatalf("turns not restored: %+v", got.Turns)
	}

	turns = append(turns, models.ConversationTurn{
		Role: models.RoleUser, Content: "What about bonds?", Timestamp: time.Now().UTC(),
	})
	if err := s.UpdateSessionTurns(ctx, created.ID, got.Title, turns); err != nil {
		t.Fatalf("UpdateSessionTurns: %v", err)
	}
	got, err = s.GetSession(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetSession after update: %v", err)
	}
	if len(got.Turns) != 3 {
		t.Fatalf("expected 3 turns, got %d", len(got.Turns))
	}
	if !got.UpdatedAt.After(got.CreatedAt) && !got.UpdatedAt.Equal(got.CreatedAt) {
		t.Fatalf("updated_at not refreshed: %v vs %v", got.UpdatedAt, got.CreatedAt)
	}

	if err := s.DeleteSession(ctx, created.ID); err != nil {
		t.Fatalf("DeleteSession: %v", err)
	}
	if _, err := s.GetSession(ctx, created.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestListSessionsNewestFirst(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		_, err := s.CreateSession(ctx, models.ChatSession{
			UserEmail: "client@example.com",
			Title:     "session",
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
			UpdatedAt: base.Add(time.Duration(i) * time.Hour),
		})
		if err != nil {
			t.Fatalf("CreateSession %d: %v", i, err)
		}
	}

	sessions, err := s.ListSessions(ctx, "client@example.com", 2)
	if err != nil {
		t.Fatalf("ListSessions: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(sessions))
	}
	if sessions[0].UpdatedAt.Before(sessions[1].UpdatedAt) {
		t.Fatalf("sessions not in newest-first order")
	}
}

func TestAlertsAndPreferences(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if _, err := s.CreateAlert(ctx, models.Alert{
		UserEmail: "client@example.com",
		Title:     "bad",
		Type:      "bogus",
		Priority:  models.PriorityLow,
	}); err == nil {
		t.Fatalf("expected error for unknown alert type")
	}

	alert, err := s.CreateAlert(ctx, models.Alert{
		UserEmail: "client@example.com",
		Title:     "Market moved",
		Message:   "SPY up 1.2% today.",
		Type:      models.AlertMarketUpdate,
		Priority:  models.PriorityMedium,
	})
	if err != nil {
		t.Fatalf("CreateAlert: %v", err)
	}

	alerts, err := s.ListAlerts(ctx, "client@example.com", 20)
	if err != nil {
		t.Fatalf("ListAlerts: %v", err)
	}
	if len(alerts) != 1 || alerts[0].IsRead {
		t.Fatalf("unexpected alerts: %+v", alerts)
	}

	count, err := s.UnreadAlertCount(ctx, "client@example.com")
	if err != nil {
		t.Fatalf("UnreadAlertCount: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 unread, got %d", count)
	}

	if err := s.MarkAlertRead(ctx, alert.ID); err != nil {
		t.Fatalf("MarkAlertRead: %v", err)
	}
	count, _ = s.UnreadAlertCount(ctx, "client@example.com")
	if count != 0 {
		t.Fatalf("expected 0 unread after mark, got %d", count)
	}

	if _, err := s.GetPreferences(ctx, "client@example.com"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing preferences, got %v", err)
	}

	prefs := models.DefaultAlertPreferences("client@example.com")
	prefs.Sectors = []string{"tech", "energy"}
	saved, err := s.SavePreferences(ctx, prefs)
	if err != nil {
		t.Fatalf("SavePreferences: %v", err)
	}
	if saved.ID == "" || len(saved.Sectors) != 2 {
		t.Fatalf("unexpected saved preferences: %+v", saved)
	}

	saved.News = false
	saved.MinPriority = models.PriorityMedium
	again, err := s.SavePreferences(ctx, saved)
	if err != nil {
		t.Fatalf("SavePreferences update: %v", err)
	}
	if again.News || again.MinPriority != models.PriorityMedium {
		t.Fatalf("preferences update not applied: %+v", again)
	}
	if again.ID != saved.ID {
		t.Fatalf("preferences id changed on update: %s vs %s", again.ID, saved.ID)
	}
}
