package cli

import (
	"strings"
	"testing"
	"time"

	"github.com/guylavee-07/Base44-AI-Finance-Iadvice/config"
	"github.com/guylavee-07/Base44-AI-Finance-Iadvice/models"
)

func TestLoadRootConfigUsesManagedFile(t *testing.T) {
	dir := t.TempDir()
	seed := config.DefaultConfigWithRoot(dir)
	mgr, err := config.NewManager(config.WithConfigDir(dir), config.WithInitialConfig(seed))
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	config.SetDefaultManager(mgr)
	defer config.SetDefaultManager(nil)

	t.Setenv("IADVICE_STORE_PATH", "")
	t.Setenv("IADVICE_USER", "env@example.com")

	cfg, got := loadRootConfig()
	if got != mgr {
		t.Fatalf("expected the default manager to be returned")
	}
	if cfg.StorePath != seed.StorePath {
		t.Fatalf("store path not taken from the managed file: %q", cfg.StorePath)
	}
	if cfg.ActiveUser != "env@example.com" {
		t.Fatalf("environment should layer over the file: %q", cfg.ActiveUser)
	}
}

func TestApplyPendingConfig(t *testing.T) {
	cfg := config.DefaultConfigWithRoot(t.TempDir())
	app := &App{cfg: cfg}

	app.applyPendingConfig()
	if cfg.AdvisorName != "Iadvice Business Consulting" {
		t.Fatalf("no-op apply changed the config: %q", cfg.AdvisorName)
	}

	updated := *cfg
	updated.AdvisorName = "Updated Advisory"
	app.QueueConfig(updated)
	app.applyPendingConfig()
	if cfg.AdvisorName != "Updated Advisory" {
		t.Fatalf("queued config not applied: %q", cfg.AdvisorName)
	}
}

func TestOptionKey(t *testing.T) {
	cases := map[string]string{
		"low - conservative, capital preservation": "low",
		"b - ₪5,000-10,000":                        "b",
		"plain":                                    "plain",
	}
	for in, want := range cases {
		if got := optionKey(in); got != want {
			t.Fatalf("optionKey(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRefreshKnown(t *testing.T) {
	known := []models.ChatSession{
		{ID: "a", Title: "first"},
		{ID: "b", Title: "second"},
	}

	updated := refreshKnown(known, models.ChatSession{ID: "b", Title: "second, updated"})
	if len(updated) != 2 {
		t.Fatalf("in-place update should not grow the list: %d", len(updated))
	}
	if updated[1].Title != "second, updated" {
		t.Fatalf("session not replaced: %+v", updated[1])
	}

	grown := refreshKnown(updated, models.ChatSession{ID: "c", Title: "third"})
	if len(grown) != 3 || grown[0].ID != "c" {
		t.Fatalf("new session should be prepended: %+v", grown)
	}
}

func TestRenderSessionLine(t *testing.T) {
	session := models.ChatSession{
		Title:     "Bonds 101",
		UpdatedAt: time.Date(2025, 7, 1, 9, 30, 0, 0, time.UTC),
	}
	line := RenderSessionLine(3, session)
	if !strings.Contains(line, "Bonds 101") || !strings.Contains(line, " 3.") {
		t.Fatalf("unexpected line %q", line)
	}

	session.Title = ""
	if line := RenderSessionLine(1, session); !strings.Contains(line, "(untitled)") {
		t.Fatalf("untitled fallback missing: %q", line)
	}
}

func TestRenderAlertMarksUnread(t *testing.T) {
	alert := models.Alert{
		Title:    "Market moved",
		Message:  "SPY up",
		Type:     models.AlertMarketUpdate,
		Priority: models.PriorityHigh,
	}
	line := RenderAlert(alert)
	if !strings.Contains(line, "Market moved") || !strings.Contains(line, "market_update") {
		t.Fatalf("unexpected alert line %q", line)
	}

	alert.IsRead = true
	read := RenderAlert(alert)
	if read == line {
		t.Fatalf("read and unread alerts should render differently")
	}
}
