package cli

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/guylavee-07/Base44-AI-Finance-Iadvice/config"
	"github.com/guylavee-07/Base44-AI-Finance-Iadvice/internal/advisor"
	"github.com/guylavee-07/Base44-AI-Finance-Iadvice/internal/alerts"
	"github.com/guylavee-07/Base44-AI-Finance-Iadvice/internal/chat"
	"github.com/guylavee-07/Base44-AI-Finance-Iadvice/internal/dataflows"
	"github.com/guylavee-07/Base44-AI-Finance-Iadvice/internal/identity"
	"github.com/guylavee-07/Base44-AI-Finance-Iadvice/internal/llm"
	"github.com/guylavee-07/Base44-AI-Finance-Iadvice/internal/store"
	"github.com/guylavee-07/Base44-AI-Finance-Iadvice/models"
)

// App wires the gateways together for the command handlers.
type App struct {
	cfg      *config.Config
	store    *store.Store
	identity *identity.Provider
	market   *dataflows.MarketClient
	news     *dataflows.NewsClient

	llmClient  *llm.Client
	advisorSvc *advisor.Service

	// Config updates from the file watcher, applied between exchanges so
	// only the command goroutine ever touches cfg.
	pending atomic.Pointer[config.Config]
}

// QueueConfig stages a reloaded config for the next exchange.
func (a *App) QueueConfig(cfg config.Config) {
	a.pending.Store(&cfg)
}

func (a *App) applyPendingConfig() {
	if cfg := a.pending.Swap(nil); cfg != nil {
		*a.cfg = *cfg
	}
}

func newApp(cfg *config.Config) (*App, error) {
	s, err := store.Open(cfg.StorePath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	return &App{
		cfg:      cfg,
		store:    s,
		identity: identity.NewProvider(s, cfg.ActiveUser),
		market:   dataflows.NewMarketClient(cfg.DataCacheDir, cfg.CacheEnabled),
		news:     dataflows.NewNewsClient(cfg.DataCacheDir, cfg.CacheEnabled),
	}, nil
}

func (a *App) Close() error {
	return a.store.Close()
}

// Advisor lazily constructs the LLM-backed advisory service, so commands
// that never talk to the model work without an API key.
func (a *App) Advisor(ctx context.Context) (*advisor.Service, error) {
	if a.advisorSvc != nil {
		return a.advisorSvc, nil
	}
	client, err := llm.New(ctx, a.cfg)
	if err != nil {
		return nil, fmt.Errorf("create llm client: %w", err)
	}
	a.llmClient = client
	a.advisorSvc = advisor.NewService(client, a.cfg.AdvisorName)
	return a.advisorSvc, nil
}

// Feed builds the alert feed for the active user.
func (a *App) Feed() (*alerts.Feed, error) {
	email, err := a.identity.Email()
	if err != nil {
		return nil, err
	}
	return alerts.NewFeed(a.store, email, a.cfg.AlertFeedLimit), nil
}

// Preferences loads the active user's alert preferences, creating defaults
// on first load.
func (a *App) Preferences(ctx context.Context) (models.AlertPreferences, error) {
	email, err := a.identity.Email()
	if err != nil {
		return models.AlertPreferences{}, err
	}
	prefs, err := a.store.GetPreferences(ctx, email)
	if err == nil {
		return *prefs, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return models.AlertPreferences{}, err
	}
	return a.store.SavePreferences(ctx, models.DefaultAlertPreferences(email))
}

// Reconciler returns the session reconciler.
func (a *App) Reconciler() *chat.Reconciler {
	return chat.NewReconciler(a.store)
}
