package advisor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/guylavee-07/Base44-AI-Finance-Iadvice/models"
)

type fakeLLM struct {
	reply     string
	jsonReply string
	err       error
	prompt    string
}

func (f *fakeLLM) Invoke(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	f.prompt = userPrompt
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func (f *fakeLLM) InvokeJSON(ctx context.Context, systemPrompt, userPrompt string, out any) error {
	f.prompt = userPrompt
	if f.err != nil {
		return f.err
	}
	return json.Unmarshal([]byte(f.jsonReply), out)
}

func TestAskEmbedsProfileAndTranscript(t *testing.T) {
	llm := &fakeLLM{reply: "consider index funds"}
	svc := NewService(llm, "Iadvice Business Consulting")

	profile := &models.InvestmentProfile{
		RiskLevel:       models.RiskLow,
		AvailableAmount: decimal.NewFromInt(25000),
	}
	// The turn list already carries the new question; the prompt shows it
	// both inside the history block and restated at the end.
	turns := []models.ConversationTurn{
		{Role: models.RoleUser, Content: "What is a bond?"},
		{Role: models.RoleAssistant, Content: "A bond is a loan to an issuer."},
		{Role: models.RoleUser, Content: "And what about stocks?"},
	}

	turn := svc.Ask(context.Background(), profile, turns, "And what about stocks?")
	if turn.Role != models.RoleAssistant || turn.Content != "consider index funds" {
		t.Fatalf("unexpected turn: %+v", turn)
	}

	for _, want := range []string{
		"Iadvice Business Consulting",
		"• Risk level: low",
		"₪25,000",
		"Client: What is a bond?",
		"Advisor: A bond is a loan to an issuer.",
		"Client: And what about stocks?",
		"The client's new question: And what about stocks?",
	} {
		if !strings.Contains(llm.prompt, want) {
			t.Fatalf("prompt missing %q:\n%s", want, llm.prompt)
		}
	}
}

func TestAskSubstitutesApologyOnFailure(t *testing.T) {
	llm := &fakeLLM{err: fmt.Errorf("upstream down")}
	svc := NewService(llm, "Iadvice")

	turn := svc.Ask(context.Background(), nil, nil, "hello?")
	if turn.Role != models.RoleAssistant || turn.Content != ApologyMessage {
		t.Fatalf("expected apology turn, got %+v", turn)
	}
}

func TestAnalyzePatterns(t *testing.T) {
	llm := &fakeLLM{jsonReply: `{
		"main_topics": [{"topic": "pensions", "frequency": "often", "insight": "retirement focus"}],
		"knowledge_level": "beginner",
		"concerns": ["fees"],
		"trends": "growing interest in passive investing",
		"recommendations": ["learn about index funds"]
	}`}
	svc := NewService(llm, "Iadvice")

	sessions := []models.ChatSession{{
		Turns: []models.ConversationTurn{
			{Role: models.RoleUser, Content: "How do pensions work?"},
			{Role: models.RoleAssistant, Content: "..."},
		},
	}}
	analysis, err := svc.AnalyzePatterns(context.Background(), sessions)
	if err != nil {
		t.Fatalf("AnalyzePatterns: %v", err)
	}
	if len(analysis.MainTopics) != 1 || analysis.MainTopics[0].Topic != "pensions" {
		t.Fatalf("unexpected analysis: %+v", analysis)
	}
	if !strings.Contains(llm.prompt, "- How do pensions work?") {
		t.Fatalf("prompt missing user question:\n%s", llm.prompt)
	}
}

func TestAnalyzePatternsRequiresSessions(t *testing.T) {
	svc := NewService(&fakeLLM{}, "Iadvice")
	if _, err := svc.AnalyzePatterns(context.Background(), nil); err == nil {
		t.Fatalf("expected error for empty session list")
	}
}

func TestRecommendationsCapsTitles(t *testing.T) {
	llm := &fakeLLM{jsonReply: `{"opportunities": [], "warnings": [], "tips": ["diversify"]}`}
	svc := NewService(llm, "Iadvice")

	titles := make([]string, 15)
	for i := range titles {
		titles[i] = fmt.Sprintf("title-%02d", i)
	}
	recs, err := svc.Recommendations(context.Background(), nil, titles)
	if err != nil {
		t.Fatalf("Recommendations: %v", err)
	}
	if len(recs.Tips) != 1 {
		t.Fatalf("unexpected recs: %+v", recs)
	}
	if strings.Contains(llm.prompt, "title-10") {
		t.Fatalf("prompt should include at most 10 titles:\n%s", llm.prompt)
	}
}

func TestNewsIncludesHeadlines(t *testing.T) {
	llm := &fakeLLM{jsonReply: `{"news_items": [{"headline": "h", "summary": "s", "impact": "i", "relevance": "r"}], "market_outlook": "calm", "watch_list": ["SPY"]}`}
	svc := NewService(llm, "Iadvice")

	digest, err := svc.News(context.Background(), nil, []string{"Rates held steady"})
	if err != nil {
		t.Fatalf("News: %v", err)
	}
	if digest.MarketOutlook != "calm" || len(digest.NewsItems) != 1 {
		t.Fatalf("unexpected digest: %+v", digest)
	}
	if !strings.Contains(llm.prompt, "Rates held steady") {
		t.Fatalf("prompt missing headline:\n%s", llm.prompt)
	}
}
