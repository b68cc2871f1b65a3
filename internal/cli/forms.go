package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/shopspring/decimal"

	"github.com/guylavee-07/Base44-AI-Finance-Iadvice/internal/advisor"
	"github.com/guylavee-07/Base44-AI-Finance-Iadvice/internal/agreement"
	"github.com/guylavee-07/Base44-AI-Finance-Iadvice/models"
)

func runProfileForm(ctx context.Context, app *App) error {
	var riskChoice string
	if err := survey.AskOne(&survey.Select{
		Message: "What risk level suits you?",
		Options: []string{
			"low - conservative, capital preservation",
			"medium - balanced growth",
			"high - growth, tolerates volatility",
		},
	}, &riskChoice); err != nil {
		return err
	}

	var amountStr string
	if err := survey.AskOne(&survey.Input{
		Message: "How much is available to invest (₪)?",
		Help:    "A whole number, for example 50000",
	}, &amountStr, survey.WithValidator(func(val interface{}) error {
		str := strings.TrimSpace(val.(string))
		if str == "" {
			return fmt.Errorf("amount cannot be empty")
		}
		d, err := decimal.NewFromString(str)
		if err != nil {
			return fmt.Errorf("amount must be a number")
		}
		if d.IsNegative() {
			return fmt.Errorf("amount cannot be negative")
		}
		return nil
	})); err != nil {
		return err
	}
	amount, err := decimal.NewFromString(strings.TrimSpace(amountStr))
	if err != nil {
		return fmt.Errorf("parse amount: %w", err)
	}

	var timeframeChoice string
	if err := survey.AskOne(&survey.Select{
		Message: "What is your investment timeframe?",
		Options: []string{
			"immediate - need the money liquid",
			"short - up to a year",
			"medium - 1-5 years",
			"long - 5+ years",
		},
	}, &timeframeChoice); err != nil {
		return err
	}

	var knowledgeChoice string
	if err := survey.AskOne(&survey.Select{
		Message: "How much investing experience do you have?",
		Options: []string{
			"beginner - first investment",
			"intermediate - holds other investments",
			"advanced - active, experienced investor",
		},
	}, &knowledgeChoice); err != nil {
		return err
	}

	profile := &models.InvestmentProfile{
		RiskLevel:           models.RiskLevel(optionKey(riskChoice)),
		AvailableAmount:     amount,
		InvestmentTimeframe: models.Timeframe(optionKey(timeframeChoice)),
		KnowledgeLevel:      models.KnowledgeLevel(optionKey(knowledgeChoice)),
	}

	completed := true
	now := time.Now().UTC()
	if _, err := app.identity.UpdateCurrentUser(ctx, models.UserUpdate{
		ProfileCompleted:   &completed,
		ProfileCompletedAt: &now,
		InvestmentProfile:  profile,
	}); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}

	fmt.Println("Profile saved.")
	return nil
}

// optionKey extracts the enum key from an "key - description" option.
func optionKey(option string) string {
	key, _, _ := strings.Cut(option, " - ")
	return strings.TrimSpace(key)
}

func showProfile(ctx context.Context, app *App) error {
	user, err := app.identity.CurrentUser(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Email: %s\n", user.Email)
	if user.FullName != "" {
		fmt.Printf("Name: %s\n", user.FullName)
	}
	if user.InvestmentProfile == nil {
		PrintHint("No investment profile yet. Run: iadvice profile edit")
		return nil
	}
	fmt.Print(advisor.FormatProfileContext(*user.InvestmentProfile))
	if !user.ProfileCompletedAt.IsZero() {
		PrintHint("Completed %s", user.ProfileCompletedAt.Local().Format("2006-01-02"))
	}
	return nil
}

func runPreferencesForm(ctx context.Context, app *App) error {
	prefs, err := app.Preferences(ctx)
	if err != nil {
		return err
	}

	toggles := []struct {
		label string
		value *bool
	}{
		{"Receive market updates?", &prefs.MarketUpdates},
		{"Receive investment opportunities?", &prefs.Opportunities},
		{"Receive risk alerts?", &prefs.RiskAlerts},
		{"Receive news alerts?", &prefs.News},
	}
	for _, toggle := range toggles {
		if err := survey.AskOne(&survey.Confirm{Message: toggle.label, Default: *toggle.value}, toggle.value); err != nil {
			return err
		}
	}

	var priority string
	if err := survey.AskOne(&survey.Select{
		Message: "Minimum alert priority:",
		Options: []string{"low", "medium", "high"},
		Default: string(prefs.MinPriority),
	}, &priority); err != nil {
		return err
	}
	prefs.MinPriority = models.AlertPriority(priority)

	var sectors string
	if err := survey.AskOne(&survey.Input{
		Message: "Preferred sectors (comma separated, empty for all):",
		Default: strings.Join(prefs.Sectors, ", "),
	}, &sectors); err != nil {
		return err
	}
	prefs.Sectors = nil
	for _, s := range strings.Split(sectors, ",") {
		if s = strings.TrimSpace(s); s != "" {
			prefs.Sectors = append(prefs.Sectors, s)
		}
	}

	if _, err := app.store.SavePreferences(ctx, prefs); err != nil {
		return err
	}
	fmt.Println("Preferences saved.")
	return nil
}

func runAgreementForm(ctx context.Context, app *App) error {
	form := &agreement.Form{
		DateSigned: time.Now().Format("2006-01-02"),
	}

	required := survey.WithValidator(survey.Required)

	contactQuestions := []struct {
		message string
		target  *string
	}{
		{"Full name:", &form.ClientFullName},
		{"ID number:", &form.ClientID},
		{"Address:", &form.ClientAddress},
		{"Email:", &form.ClientEmail},
		{"Monthly management fee (₪, before VAT):", &form.ManagementFee},
	}
	for _, q := range contactQuestions {
		if err := survey.AskOne(&survey.Input{Message: q.message}, q.target, required); err != nil {
			return err
		}
	}

	type choiceQuestion struct {
		message string
		field   string
		target  *string
		keys    []string
	}
	questions := []choiceQuestion{
		{"1. Monthly household income:", "q1_monthly_income", &form.MonthlyIncome, []string{"a", "b", "c", "d", "e"}},
		{"2. Value of assets and savings:", "q2_asset_value", &form.AssetValue, []string{"a", "b", "c", "d", "e"}},
		{"3. Value of liabilities:", "q3_liability_value", &form.LiabilityValue, []string{"a", "b", "c", "d", "e"}},
		{"5. Expected one-time expenses:", "q5_one_time_expenses", &form.OneTimeExpenses, []string{"a", "b", "c", "d", "e"}},
		{"6. Share of financial assets to invest:", "q6_investment_ratio", &form.InvestmentRatio, []string{"a", "b", "c", "d"}},
		{"7. Expected investment period:", "q7_investment_period", &form.InvestmentPeriod, []string{"a", "b", "c"}},
		{"8. Investment goal:", "q8_investment_goal", &form.InvestmentGoal, []string{"a", "b", "c", "d"}},
		{"9. Market experience and knowledge:", "q9_market_knowledge", &form.MarketKnowledge, []string{"a", "b", "c", "d"}},
		{"10. Familiarity with financial instruments:", "q10_financial_instruments_knowledge", &form.InstrumentsKnowledge, []string{"a", "b", "c", "d"}},
		{"11. Risk tolerance:", "q11_risk_tolerance", &form.RiskTolerance, []string{"a", "b", "c", "d"}},
		{"12. Reaction to a 15% loss:", "q12_reaction_to_loss", &form.ReactionToLoss, []string{"a", "b", "c", "d"}},
	}

	askChoice := func(q choiceQuestion) error {
		options := make([]string, len(q.keys))
		for i, key := range q.keys {
			options[i] = key + " - " + agreement.AnswerLabel(q.field, key)
		}
		var choice string
		if err := survey.AskOne(&survey.Select{Message: q.message, Options: options}, &choice); err != nil {
			return err
		}
		*q.target = optionKey(choice)
		return nil
	}

	for i, q := range questions {
		if err := askChoice(q); err != nil {
			return err
		}
		// Question 4 is free text, asked in order between 3 and 5.
		if i == 2 {
			if err := survey.AskOne(&survey.Input{
				Message: "4. Describe your assets versus your liabilities:",
			}, &form.AssetsVsLiabilities, required); err != nil {
				return err
			}
		}
		if q.field == "q8_investment_goal" && form.InvestmentGoal == "d" {
			if err := survey.AskOne(&survey.Input{Message: "Describe the other goal:"}, &form.OtherGoal); err != nil {
				return err
			}
		}
	}

	if err := survey.AskOne(&survey.Input{
		Message: "Type your full name to sign:",
	}, &form.Signature, required); err != nil {
		return err
	}

	if err := form.Validate(); err != nil {
		return err
	}

	mailer := agreement.NewMailer(app.cfg.EmailEndpoint, app.cfg.EmailAPIKey)
	contact := agreement.AdvisorContact{
		Name:  app.cfg.AdvisorName,
		Email: app.cfg.AdvisorEmail,
		Phone: app.cfg.AdvisorPhone,
	}
	if err := mailer.Send(ctx, form, contact); err != nil {
		PrintError("The agreement could not be sent: %v", err)
		return nil
	}

	fmt.Println("The agreement was sent successfully. The advisor will get back to you soon.")
	return nil
}
