package advisor

import (
	"context"
	"fmt"
	"strings"

	"github.com/guylavee-07/Base44-AI-Finance-Iadvice/models"
)

// PatternAnalysis summarizes what the client keeps asking about.
type PatternAnalysis struct {
	MainTopics []struct {
		Topic     string `json:"topic"`
		Frequency string `json:"frequency"`
		Insight   string `json:"insight"`
	} `json:"main_topics"`
	KnowledgeLevel  string   `json:"knowledge_level"`
	Concerns        []string `json:"concerns"`
	Trends          string   `json:"trends"`
	Recommendations []string `json:"recommendations"`
}

// RecommendationSet is the personalized opportunities/warnings/tips bundle.
type RecommendationSet struct {
	Opportunities []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		RiskLevel   string `json:"risk_level"`
		Potential   string `json:"potential"`
	} `json:"opportunities"`
	Warnings []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	} `json:"warnings"`
	Tips []string `json:"tips"`
}

// NewsDigest is the profile-fitted financial news summary.
type NewsDigest struct {
	NewsItems []struct {
		Headline  string `json:"headline"`
		Summary   string `json:"summary"`
		Impact    string `json:"impact"`
		Relevance string `json:"relevance"`
	} `json:"news_items"`
	MarketOutlook string   `json:"market_outlook"`
	WatchList     []string `json:"watch_list"`
}

const jsonOnlyDirective = "Reply with a single JSON object matching this shape and nothing else:\n"

// AnalyzePatterns inspects the client's saved session titles and transcripts
// for recurring themes.
func (s *Service) AnalyzePatterns(ctx context.Context, sessions []models.ChatSession) (*PatternAnalysis, error) {
	if len(sessions) == 0 {
		return nil, fmt.Errorf("no sessions to analyze")
	}

	var questions []string
	for _, session := range sessions {
		for _, turn := range session.Turns {
			if turn.Role == models.RoleUser {
				questions = append(questions, "- "+turn.Content)
			}
		}
	}

	prompt := fmt.Sprintf(`Analyze the following questions a client asked about finance and investing, and identify patterns and trends:

%s

Identify:
1. The main topics and how often they recur
2. The client's estimated knowledge level
3. Concerns the questions reveal
4. How the client's interest shifted over time
5. Topics worth studying further

%s{"main_topics":[{"topic":"","frequency":"","insight":""}],"knowledge_level":"","concerns":[""],"trends":"","recommendations":[""]}`,
		strings.Join(questions, "\n"), jsonOnlyDirective)

	var analysis PatternAnalysis
	if err := s.llm.InvokeJSON(ctx, "", prompt, &analysis); err != nil {
		return nil, fmt.Errorf("analyze patterns: %w", err)
	}
	return &analysis, nil
}

// Recommendations produces opportunities, warnings and tips fitted to the
// profile and recent session titles.
func (s *Service) Recommendations(ctx context.Context, profile *models.InvestmentProfile, sessionTitles []string) (*RecommendationSet, error) {
	profileBlock := ""
	directives := ""
	if profile != nil {
		profileBlock = FormatProfileContext(*profile)
		directives = ProfileDirectives(*profile)
	}
	if len(sessionTitles) > 10 {
		sessionTitles = sessionTitles[:10]
	}

	prompt := fmt.Sprintf(`Based on the profile and data below, provide personalized investment recommendations and warnings:
%s
Recent interests: %s

Profile fit, very important:
%s

Provide:
1. 3-5 potential investment opportunities fitting this specific profile
2. 2-3 warnings or risks to watch for given the profile
3. Practical portfolio tips matched to the knowledge level

Note: recommendations are general and are not professional investment advice.

%s{"opportunities":[{"title":"","description":"","risk_level":"","potential":""}],"warnings":[{"title":"","description":""}],"tips":[""]}`,
		profileBlock, strings.Join(sessionTitles, ", "), directives, jsonOnlyDirective)

	var recs RecommendationSet
	if err := s.llm.InvokeJSON(ctx, "", prompt, &recs); err != nil {
		return nil, fmt.Errorf("generate recommendations: %w", err)
	}
	return &recs, nil
}

// News produces a financial news digest biased toward the profile.
func (s *Service) News(ctx context.Context, profile *models.InvestmentProfile, headlines []string) (*NewsDigest, error) {
	profileBlock := ""
	if profile != nil {
		profileBlock = FormatProfileContext(*profile)
	}
	headlineBlock := ""
	if len(headlines) > 0 {
		headlineBlock = "\nCurrent headlines:\n- " + strings.Join(headlines, "\n- ") + "\n"
	}

	prompt := fmt.Sprintf(`Provide a current, relevant financial news summary fitted to the client's profile.
%s%s
For each item give the headline, a short summary, its likely impact, and why it is relevant to this client. Close with an overall market outlook and a short watch list.

%s{"news_items":[{"headline":"","summary":"","impact":"","relevance":""}],"market_outlook":"","watch_list":[""]}`,
		profileBlock, headlineBlock, jsonOnlyDirective)

	var digest NewsDigest
	if err := s.llm.InvokeJSON(ctx, "", prompt, &digest); err != nil {
		return nil, fmt.Errorf("summarize news: %w", err)
	}
	return &digest, nil
}
