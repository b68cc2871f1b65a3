package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/guylavee-07/Base44-AI-Finance-Iadvice/config"
)

func newInsightsCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "insights",
		Short: "AI analysis of your questions, recommendations and news",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "patterns",
		Short: "Analyze recurring themes in your saved sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cfg)
			if err != nil {
				return err
			}
			defer app.Close()
			return showPatternAnalysis(cmd.Context(), app)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "recommendations",
		Short: "Personalized opportunities, warnings and tips",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cfg)
			if err != nil {
				return err
			}
			defer app.Close()
			return showRecommendations(cmd.Context(), app)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "news",
		Short: "Financial news digest fitted to your profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cfg)
			if err != nil {
				return err
			}
			defer app.Close()
			return showNewsDigest(cmd.Context(), app)
		},
	})

	return cmd
}

func showPatternAnalysis(ctx context.Context, app *App) error {
	user, err := app.identity.CurrentUser(ctx)
	if err != nil {
		return err
	}
	sessions, err := app.store.ListSessions(ctx, user.Email, app.cfg.SessionHistoryLimit)
	if err != nil {
		return err
	}
	if len(sessions) == 0 {
		PrintHint("No saved sessions to analyze yet.")
		return nil
	}

	svc, err := app.Advisor(ctx)
	if err != nil {
		return err
	}
	analysis, err := svc.AnalyzePatterns(ctx, sessions)
	if err != nil {
		return err
	}

	fmt.Println(titleStyle.Render("Question patterns"))
	for _, topic := range analysis.MainTopics {
		fmt.Printf("  %s (%s)\n", topic.Topic, topic.Frequency)
		if topic.Insight != "" {
			PrintHint("    %s", topic.Insight)
		}
	}
	if analysis.KnowledgeLevel != "" {
		fmt.Printf("Estimated knowledge level: %s\n", analysis.KnowledgeLevel)
	}
	if len(analysis.Concerns) > 0 {
		fmt.Println("Concerns:")
		for _, concern := range analysis.Concerns {
			fmt.Printf("  - %s\n", concern)
		}
	}
	if analysis.Trends != "" {
		fmt.Printf("Trends: %s\n", analysis.Trends)
	}
	if len(analysis.Recommendations) > 0 {
		fmt.Println("Worth studying next:")
		for _, rec := range analysis.Recommendations {
			fmt.Printf("  - %s\n", rec)
		}
	}
	return nil
}

func showRecommendations(ctx context.Context, app *App) error {
	user, err := app.identity.CurrentUser(ctx)
	if err != nil {
		return err
	}
	sessions, err := app.store.ListSessions(ctx, user.Email, app.cfg.SessionHistoryLimit)
	if err != nil {
		return err
	}
	titles := make([]string, 0, len(sessions))
	for _, session := range sessions {
		if session.Title != "" {
			titles = append(titles, session.Title)
		}
	}

	svc, err := app.Advisor(ctx)
	if err != nil {
		return err
	}
	recs, err := svc.Recommendations(ctx, user.InvestmentProfile, titles)
	if err != nil {
		return err
	}

	fmt.Println(titleStyle.Render("Opportunities"))
	for _, op := range recs.Opportunities {
		fmt.Printf("  %s [risk: %s, potential: %s]\n", op.Title, op.RiskLevel, op.Potential)
		PrintHint("    %s", op.Description)
	}
	fmt.Println(titleStyle.Render("Warnings"))
	for _, warning := range recs.Warnings {
		fmt.Printf("  %s\n", warning.Title)
		PrintHint("    %s", warning.Description)
	}
	if len(recs.Tips) > 0 {
		fmt.Println(titleStyle.Render("Tips"))
		for _, tip := range recs.Tips {
			fmt.Printf("  - %s\n", tip)
		}
	}
	return nil
}

func showNewsDigest(ctx context.Context, app *App) error {
	user, err := app.identity.CurrentUser(ctx)
	if err != nil {
		return err
	}

	var headlines []string
	if items, err := app.news.GetHeadlines("stock market investing", 5); err != nil {
		PrintHint("live headlines unavailable: %v", err)
	} else {
		for _, item := range items {
			headlines = append(headlines, item.Title)
		}
	}

	svc, err := app.Advisor(ctx)
	if err != nil {
		return err
	}
	digest, err := svc.News(ctx, user.InvestmentProfile, headlines)
	if err != nil {
		return err
	}

	fmt.Println(titleStyle.Render("Financial news digest"))
	for _, item := range digest.NewsItems {
		fmt.Printf("  %s\n", item.Headline)
		PrintHint("    %s", item.Summary)
		if item.Impact != "" {
			PrintHint("    impact: %s", item.Impact)
		}
		if item.Relevance != "" {
			PrintHint("    relevance: %s", item.Relevance)
		}
	}
	if digest.MarketOutlook != "" {
		fmt.Printf("Market outlook: %s\n", digest.MarketOutlook)
	}
	if len(digest.WatchList) > 0 {
		fmt.Printf("Watch list: %v\n", digest.WatchList)
	}
	return nil
}
