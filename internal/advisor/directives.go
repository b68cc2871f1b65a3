package advisor

import (
	"strings"

	"github.com/guylavee-07/Base44-AI-Finance-Iadvice/models"
)

var riskDirectives = map[models.RiskLevel]string{
	models.RiskLow:    "The client chose a low risk level: recommend conservative instruments only.",
	models.RiskMedium: "The client chose a medium risk level: balance growth against safety.",
	models.RiskHigh:   "The client chose a high risk level: higher-yield options with more volatility may be suggested.",
}

var timeframeDirectives = map[models.Timeframe]string{
	models.TimeframeImmediate: "The client needs immediate liquidity: only liquid instruments.",
	models.TimeframeShort:     "The investment horizon is short: stick to conservative, easily exited positions.",
	models.TimeframeMedium:    "The investment horizon is medium: less liquid positions with better yield are acceptable.",
	models.TimeframeLong:      "The investment horizon is long: less liquid positions with better yield are acceptable.",
}

var knowledgeDirectives = map[models.KnowledgeLevel]string{
	models.KnowledgeBeginner:     "The client is a first-time investor: explain concepts simply and avoid jargon.",
	models.KnowledgeIntermediate: "The client has some investing experience: normal depth is fine.",
	models.KnowledgeAdvanced:     "The client is an experienced investor: advanced strategies may be discussed in depth.",
}

// ProfileDirectives turns the profile into per-field instructions for the
// model, concatenated in a stable order: risk, amount, timeframe, knowledge.
// Unset fields contribute nothing.
func ProfileDirectives(p models.InvestmentProfile) string {
	var lines []string
	if d, ok := riskDirectives[p.RiskLevel]; ok {
		lines = append(lines, d)
	}
	if !p.AvailableAmount.IsZero() {
		lines = append(lines, "Fit every recommendation to the client's available amount of "+FormatAmount(p.AvailableAmount)+"; never suggest investments requiring more.")
	}
	if d, ok := timeframeDirectives[p.InvestmentTimeframe]; ok {
		lines = append(lines, d)
	}
	if d, ok := knowledgeDirectives[p.KnowledgeLevel]; ok {
		lines = append(lines, d)
	}
	return strings.Join(lines, "\n")
}
