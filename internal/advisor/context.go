package advisor

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/guylavee-07/Base44-AI-Finance-Iadvice/models"
)

// NotSetLabel renders in place of any profile field the client never filled.
const NotSetLabel = "not set"

var riskLabels = map[models.RiskLevel]string{
	models.RiskLow:    "low",
	models.RiskMedium: "medium",
	models.RiskHigh:   "high",
}

var timeframeLabels = map[models.Timeframe]string{
	models.TimeframeImmediate: "immediate liquidity",
	models.TimeframeShort:     "short term (up to a year)",
	models.TimeframeMedium:    "medium term (1-5 years)",
	models.TimeframeLong:      "long term (5+ years)",
}

var knowledgeLabels = map[models.KnowledgeLevel]string{
	models.KnowledgeBeginner:     "first-time investor",
	models.KnowledgeIntermediate: "has experience, holds other investments",
	models.KnowledgeAdvanced:     "active, experienced investor",
}

var currencyPrinter = message.NewPrinter(language.English)

// FormatProfileContext renders the profile as the fixed block embedded in
// advisory prompts. Unknown enum values pass through verbatim, empty ones
// render as NotSetLabel. It never fails.
func FormatProfileContext(p models.InvestmentProfile) string {
	var b strings.Builder
	b.WriteString("\n\n=== Client investment profile ===\n")
	fmt.Fprintf(&b, "• Risk level: %s\n", labelOrRaw(riskLabels, p.RiskLevel))
	fmt.Fprintf(&b, "• Available amount to invest: %s\n", FormatAmount(p.AvailableAmount))
	fmt.Fprintf(&b, "• Preferred investment timeframe: %s\n", labelOrRaw(timeframeLabels, p.InvestmentTimeframe))
	fmt.Fprintf(&b, "• Investment knowledge: %s\n", labelOrRaw(knowledgeLabels, p.KnowledgeLevel))
	b.WriteString("========================\n")
	return b.String()
}

// FormatAmount prints the amount as whole shekels with thousands grouping.
// A zero amount prints as ₪0 rather than a missing-value label.
func FormatAmount(amount decimal.Decimal) string {
	f, _ := amount.Float64()
	return currencyPrinter.Sprintf("₪%.0f", f)
}

func labelOrRaw[K ~string](labels map[K]string, value K) string {
	if label, ok := labels[value]; ok {
		return label
	}
	if value == "" {
		return NotSetLabel
	}
	return string(value)
}
