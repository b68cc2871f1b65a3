package alerts

import (
	"context"
	"fmt"
	"strings"

	"github.com/guylavee-07/Base44-AI-Finance-Iadvice/internal/advisor"
	"github.com/guylavee-07/Base44-AI-Finance-Iadvice/internal/dataflows"
	"github.com/guylavee-07/Base44-AI-Finance-Iadvice/models"
)

// AlertWriter persists generated alerts.
type AlertWriter interface {
	CreateAlert(ctx context.Context, alert models.Alert) (models.Alert, error)
}

// LLM is the model surface the generator needs.
type LLM interface {
	InvokeJSON(ctx context.Context, systemPrompt, userPrompt string, out any) error
}

// Generator produces alerts from the model, live quotes and scraped
// headlines, filtered through the user's preferences.
type Generator struct {
	writer AlertWriter
	llm    LLM
	market *dataflows.MarketClient
	news   *dataflows.NewsClient
}

func NewGenerator(writer AlertWriter, llm LLM, market *dataflows.MarketClient, news *dataflows.NewsClient) *Generator {
	return &Generator{writer: writer, llm: llm, market: market, news: news}
}

type generatedAlert struct {
	Title    string `json:"title"`
	Message  string `json:"message"`
	Type     string `json:"type"`
	Priority string `json:"priority"`
}

type generatedAlerts struct {
	Alerts []generatedAlert `json:"alerts"`
}

// GeneratePersonalized asks the model for three alerts fitted to the profile
// and preferred sectors, then persists the ones the preferences allow.
func (g *Generator) GeneratePersonalized(ctx context.Context, userEmail string, profile *models.InvestmentProfile, prefs models.AlertPreferences) ([]models.Alert, error) {
	profileBlock := ""
	if profile != nil {
		profileBlock = advisor.FormatProfileContext(*profile)
	}
	sectors := "all sectors"
	if len(prefs.Sectors) > 0 {
		sectors = strings.Join(prefs.Sectors, ", ")
	}

	prompt := fmt.Sprintf(`Based on the following client profile:
%s
and the preferred sectors: %s

Create 3 personalized alerts for the client. Each alert needs:
- a short, clear title
- a detailed message with an insight or recommendation
- a type (one of: market_update, opportunity, risk_alert, news, personal)
- a priority (low, medium, high)

Reply with a single JSON object and nothing else:
{"alerts":[{"title":"","message":"","type":"","priority":""}]}`, profileBlock, sectors)

	var out generatedAlerts
	if err := g.llm.InvokeJSON(ctx, "", prompt, &out); err != nil {
		return nil, fmt.Errorf("generate alerts: %w", err)
	}

	var created []models.Alert
	for _, raw := range out.Alerts {
		alert := models.Alert{
			UserEmail: userEmail,
			Title:     strings.TrimSpace(raw.Title),
			Message:   strings.TrimSpace(raw.Message),
			Type:      normalizeType(raw.Type),
			Priority:  normalizePriority(raw.Priority),
		}
		if alert.Title == "" {
			continue
		}
		if !AllowedByPreferences(prefs, alert) {
			continue
		}
		saved, err := g.writer.CreateAlert(ctx, alert)
		if err != nil {
			return created, fmt.Errorf("persist alert: %w", err)
		}
		created = append(created, saved)
	}
	return created, nil
}

// MarketUpdate builds one market_update alert from live quote snapshots of
// the watched symbols. Nothing is created when quotes are unavailable or the
// preferences exclude market updates.
func (g *Generator) MarketUpdate(ctx context.Context, userEmail string, symbols []string, prefs models.AlertPreferences) (*models.Alert, error) {
	if !prefs.MarketUpdates {
		return nil, nil
	}
	snapshots := g.market.GetQuotes(symbols)
	if len(snapshots) == 0 {
		return nil, fmt.Errorf("no quotes available")
	}

	var lines []string
	for _, snap := range snapshots {
		lines = append(lines, fmt.Sprintf("%s %s (%s%%)", snap.Symbol, snap.Price.StringFixed(2), snap.ChangePercent.StringFixed(2)))
	}

	alert := models.Alert{
		UserEmail: userEmail,
		Title:     "Market update",
		Message:   "Latest quotes: " + strings.Join(lines, ", "),
		Type:      models.AlertMarketUpdate,
		Priority:  models.PriorityLow,
	}
	if !AllowedByPreferences(prefs, alert) {
		return nil, nil
	}
	saved, err := g.writer.CreateAlert(ctx, alert)
	if err != nil {
		return nil, fmt.Errorf("persist market update: %w", err)
	}
	return &saved, nil
}

// NewsAlerts turns up to limit scraped headlines into news alerts.
func (g *Generator) NewsAlerts(ctx context.Context, userEmail string, query string, limit int, prefs models.AlertPreferences) ([]models.Alert, error) {
	if !prefs.News {
		return nil, nil
	}
	if limit <= 0 {
		limit = 3
	}
	headlines, err := g.news.GetHeadlines(query, limit)
	if err != nil {
		return nil, fmt.Errorf("fetch headlines: %w", err)
	}

	var created []models.Alert
	for _, headline := range headlines {
		alert := models.Alert{
			UserEmail: userEmail,
			Title:     headline.Title,
			Message:   headline.Summary,
			Type:      models.AlertNews,
			Priority:  models.PriorityLow,
		}
		if !AllowedByPreferences(prefs, alert) {
			continue
		}
		saved, err := g.writer.CreateAlert(ctx, alert)
		if err != nil {
			return created, fmt.Errorf("persist news alert: %w", err)
		}
		created = append(created, saved)
	}
	return created, nil
}

// AllowedByPreferences applies the per-type toggles and the minimum
// priority. Personal alerts are always allowed.
func AllowedByPreferences(prefs models.AlertPreferences, alert models.Alert) bool {
	switch alert.Type {
	case models.AlertMarketUpdate:
		if !prefs.MarketUpdates {
			return false
		}
	case models.AlertOpportunity:
		if !prefs.Opportunities {
			return false
		}
	case models.AlertRisk:
		if !prefs.RiskAlerts {
			return false
		}
	case models.AlertNews:
		if !prefs.News {
			return false
		}
	}
	if models.ValidAlertPriority(prefs.MinPriority) {
		return models.PriorityRank(alert.Priority) >= models.PriorityRank(prefs.MinPriority)
	}
	return true
}

func normalizeType(raw string) models.AlertType {
	t := models.AlertType(strings.ToLower(strings.TrimSpace(raw)))
	if models.ValidAlertType(t) {
		return t
	}
	return models.AlertPersonal
}

func normalizePriority(raw string) models.AlertPriority {
	p := models.AlertPriority(strings.ToLower(strings.TrimSpace(raw)))
	if models.ValidAlertPriority(p) {
		return p
	}
	return models.PriorityMedium
}
