package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/guylavee-07/Base44-AI-Finance-Iadvice/config"
	"github.com/guylavee-07/Base44-AI-Finance-Iadvice/internal/alerts"
	"github.com/guylavee-07/Base44-AI-Finance-Iadvice/internal/debug"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cfg, mgr := loadRootConfig()

	rootCmd := &cobra.Command{
		Use:   "iadvice",
		Short: "Iadvice - personal AI investment advisor",
		Long: `Iadvice is a personal AI investment advisory assistant.
It answers financial questions fitted to your investment profile, keeps your
conversation history, and watches the market for personalized alerts.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.EnsureDirectories(); err != nil {
				return fmt.Errorf("failed to create directories: %w", err)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cfg, mgr)
		},
	}

	rootCmd.AddCommand(newChatCmd(cfg, mgr))
	rootCmd.AddCommand(newProfileCmd(cfg))
	rootCmd.AddCommand(newAlertsCmd(cfg))
	rootCmd.AddCommand(newInsightsCmd(cfg))
	rootCmd.AddCommand(newAgreementCmd(cfg))
	rootCmd.AddCommand(newHistoryCmd(cfg))
	rootCmd.AddCommand(newConfigCmd(cfg))
	rootCmd.AddCommand(newVersionCmd())

	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug mode")

	return rootCmd
}

func newChatCmd(cfg *config.Config, mgr *config.Manager) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start an advisory chat session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cfg, mgr)
		},
	}
}

// loadRootConfig reads the managed config file, with environment values
// layered on top. Falls back to env-only defaults when the manager cannot
// be created.
func loadRootConfig() (*config.Config, *config.Manager) {
	mgr := config.DefaultManager()
	if mgr == nil {
		return config.DefaultConfig(), nil
	}
	cfg := mgr.Get()
	cfg.ApplyEnvOverrides()
	return &cfg, mgr
}

func newProfileCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Investment profile management",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "edit",
		Short: "Fill in or update your investment profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cfg)
			if err != nil {
				return err
			}
			defer app.Close()
			return runProfileForm(cmd.Context(), app)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the stored investment profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cfg)
			if err != nil {
				return err
			}
			defer app.Close()
			return showProfile(cmd.Context(), app)
		},
	})

	return cmd
}

func newAlertsCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "alerts",
		Short: "Personalized alert feed",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Show the newest alerts",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cfg)
			if err != nil {
				return err
			}
			defer app.Close()
			return listAlerts(cmd.Context(), app)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "read [ID]",
		Short: "Mark one alert read, or all with no argument",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cfg)
			if err != nil {
				return err
			}
			defer app.Close()
			id := ""
			if len(args) == 1 {
				id = args[0]
			}
			return markAlertsRead(cmd.Context(), app, id)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "generate",
		Short: "Generate fresh personalized alerts",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cfg)
			if err != nil {
				return err
			}
			defer app.Close()
			return generateAlerts(cmd.Context(), app)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "prefs",
		Short: "Edit alert preferences",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cfg)
			if err != nil {
				return err
			}
			defer app.Close()
			return runPreferencesForm(cmd.Context(), app)
		},
	})

	return cmd
}

func newAgreementCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "agreement",
		Short: "Fill in and send the service agreement",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cfg)
			if err != nil {
				return err
			}
			defer app.Close()
			return runAgreementForm(cmd.Context(), app)
		},
	}
}

func newHistoryCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Saved chat sessions",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List saved sessions, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cfg)
			if err != nil {
				return err
			}
			defer app.Close()
			return listSessions(cmd.Context(), app)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show [N]",
		Short: "Show the transcript of session number N from the list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cfg)
			if err != nil {
				return err
			}
			defer app.Close()
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("session number must be an integer")
			}
			return showSession(cmd.Context(), app, n)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete [N]",
		Short: "Delete session number N from the list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cfg)
			if err != nil {
				return err
			}
			defer app.Close()
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("session number must be an integer")
			}
			return deleteSession(cmd.Context(), app, n)
		},
	})

	return cmd
}

func newConfigCmd(cfg *config.Config) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
	}

	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Run: func(cmd *cobra.Command, args []string) {
			showConfig(cfg)
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Validate(); err != nil {
				return err
			}
			fmt.Println("Configuration is valid.")
			return nil
		},
	})

	return configCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("Iadvice v1.0.0")
			fmt.Println("Personal AI investment advisory assistant")
		},
	}
}

func showConfig(cfg *config.Config) {
	shown := *cfg
	// API keys and gateway secrets stay out of terminal output.
	if shown.DeepSeekAPIKey != "" {
		shown.DeepSeekAPIKey = "***"
	}
	if shown.OpenAIAPIKey != "" {
		shown.OpenAIAPIKey = "***"
	}
	if shown.EmailAPIKey != "" {
		shown.EmailAPIKey = "***"
	}
	data, _ := json.MarshalIndent(shown, "", "  ")
	fmt.Println(string(data))
}

func listAlerts(ctx context.Context, app *App) error {
	feed, err := app.Feed()
	if err != nil {
		return err
	}
	if err := feed.Load(ctx); err != nil {
		return err
	}

	list := feed.Alerts()
	if len(list) == 0 {
		PrintHint("No alerts yet. Try: iadvice alerts generate")
		return nil
	}
	for _, alert := range list {
		fmt.Println(RenderAlert(alert))
		PrintHint("    id=%s  %s", alert.ID, alert.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
	PrintHint("%d unread", feed.UnreadCount())
	return nil
}

func markAlertsRead(ctx context.Context, app *App, id string) error {
	feed, err := app.Feed()
	if err != nil {
		return err
	}
	if err := feed.Load(ctx); err != nil {
		return err
	}
	if id == "" {
		feed.MarkAllRead(ctx)
		fmt.Println("All alerts marked read.")
		return nil
	}
	feed.MarkRead(ctx, id)
	fmt.Println("Alert marked read.")
	return nil
}

func generateAlerts(ctx context.Context, app *App) error {
	user, err := app.identity.CurrentUser(ctx)
	if err != nil {
		return err
	}
	prefs, err := app.Preferences(ctx)
	if err != nil {
		return err
	}
	if _, err := app.Advisor(ctx); err != nil {
		return err
	}

	generator := alerts.NewGenerator(app.store, app.llmClient, app.market, app.news)

	created, err := generator.GeneratePersonalized(ctx, user.Email, user.InvestmentProfile, prefs)
	if err != nil {
		PrintError("personalized alerts failed: %v", err)
	}

	if marketAlert, err := generator.MarketUpdate(ctx, user.Email, app.cfg.WatchSymbols, prefs); err != nil {
		PrintHint("market update skipped: %v", err)
	} else if marketAlert != nil {
		created = append(created, *marketAlert)
	}

	if newsAlerts, err := generator.NewsAlerts(ctx, user.Email, "stock market investing", 3, prefs); err != nil {
		PrintHint("news alerts skipped: %v", err)
	} else {
		created = append(created, newsAlerts...)
	}

	fmt.Printf("Created %d alerts.\n", len(created))
	for _, alert := range created {
		fmt.Println(RenderAlert(alert))
	}
	return nil
}

func listSessions(ctx context.Context, app *App) error {
	email, err := app.identity.Email()
	if err != nil {
		return err
	}
	sessions, err := app.store.ListSessions(ctx, email, app.cfg.SessionHistoryLimit)
	if err != nil {
		return err
	}
	if len(sessions) == 0 {
		PrintHint("No saved sessions.")
		return nil
	}
	for i, session := range sessions {
		fmt.Println(RenderSessionLine(i+1, session))
	}
	return nil
}

func sessionByNumber(ctx context.Context, app *App, n int) (string, error) {
	email, err := app.identity.Email()
	if err != nil {
		return "", err
	}
	sessions, err := app.store.ListSessions(ctx, email, app.cfg.SessionHistoryLimit)
	if err != nil {
		return "", err
	}
	if n < 1 || n > len(sessions) {
		return "", fmt.Errorf("session number %d out of range (1-%d)", n, len(sessions))
	}
	return sessions[n-1].ID, nil
}

func showSession(ctx context.Context, app *App, n int) error {
	id, err := sessionByNumber(ctx, app, n)
	if err != nil {
		return err
	}
	session, err := app.store.GetSession(ctx, id)
	if err != nil {
		return err
	}
	fmt.Println(titleStyle.Render(session.Title))
	for _, turn := range session.Turns {
		fmt.Println(RenderTurn(turn))
		fmt.Println()
	}
	return nil
}

func deleteSession(ctx context.Context, app *App, n int) error {
	id, err := sessionByNumber(ctx, app, n)
	if err != nil {
		return err
	}
	if err := app.store.DeleteSession(ctx, id); err != nil {
		return err
	}
	fmt.Println("Session deleted.")
	return nil
}

func runChat(cfg *config.Config, mgr *config.Manager) error {
	app, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	debugger := debug.NewEinoDebugger(cfg)
	if err := debugger.Initialize(); err != nil {
		PrintHint("eino debug disabled: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if mgr != nil {
		err := mgr.Watch(ctx, func(updated config.Config) {
			updated.ApplyEnvOverrides()
			app.QueueConfig(updated)
			log.Printf("config: reloaded from %s", mgr.Path())
		})
		if err != nil {
			PrintHint("config reload disabled: %v", err)
		}
	}

	return runInteractiveChat(ctx, app)
}
