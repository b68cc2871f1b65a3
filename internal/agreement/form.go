package agreement

import (
	"fmt"
	"strings"
)

// Form is the signed service agreement: contact details plus the
// twelve-question suitability questionnaire.
type Form struct {
	DateSigned      string `json:"date_signed"`
	ClientFullName  string `json:"client_full_name"`
	ClientID        string `json:"client_id"`
	ClientAddress   string `json:"client_address"`
	ClientEmail     string `json:"client_email"`
	ManagementFee   string `json:"management_fee_nis"`

	MonthlyIncome        string `json:"q1_monthly_income"`
	AssetValue           string `json:"q2_asset_value"`
	LiabilityValue       string `json:"q3_liability_value"`
	AssetsVsLiabilities  string `json:"q4_assets_vs_liabilities"`
	OneTimeExpenses      string `json:"q5_one_time_expenses"`
	InvestmentRatio      string `json:"q6_investment_ratio"`
	InvestmentPeriod     string `json:"q7_investment_period"`
	InvestmentGoal       string `json:"q8_investment_goal"`
	OtherGoal            string `json:"q8_other_goal"`
	MarketKnowledge      string `json:"q9_market_knowledge"`
	InstrumentsKnowledge string `json:"q10_financial_instruments_knowledge"`
	RiskTolerance        string `json:"q11_risk_tolerance"`
	ReactionToLoss       string `json:"q12_reaction_to_loss"`

	Signature string `json:"signature"`
}

// answerLabels maps each questionnaire field's option key to its label.
// q4 and q8_other are free text and have no table.
var answerLabels = map[string]map[string]string{
	"q1_monthly_income": {
		"a": "up to ₪5,000", "b": "₪5,000-10,000", "c": "₪10,000-40,000",
		"d": "₪40,000-100,000", "e": "over ₪100,000",
	},
	"q2_asset_value": {
		"a": "no assets", "b": "up to ₪100,000", "c": "₪100,000-400,000",
		"d": "₪400,000-1,000,000", "e": "over ₪1,000,000",
	},
	"q3_liability_value": {
		"a": "no liabilities", "b": "up to ₪100,000", "c": "₪100,000-400,000",
		"d": "₪400,000-1,000,000", "e": "over ₪1,000,000",
	},
	"q5_one_time_expenses": {
		"a": "none expected", "b": "up to ₪15,000", "c": "₪15,000-50,000",
		"d": "₪50,000-100,000", "e": "over ₪100,000",
	},
	"q6_investment_ratio": {
		"a": "less than 15%", "b": "15%-40%", "c": "40%-70%", "d": "more than 70%",
	},
	"q7_investment_period": {
		"a": "up to two years", "b": "2-5 years", "c": "over 5 years",
	},
	"q8_investment_goal": {
		"a": "future purchase", "b": "retirement savings", "c": "family future", "d": "other",
	},
	"q9_market_knowledge": {
		"a": "no experience", "b": "basic knowledge", "c": "moderate knowledge", "d": "broad knowledge",
	},
	"q10_financial_instruments_knowledge": {
		"a": "no familiarity", "b": "familiar without experience", "c": "some experience", "d": "extensive experience",
	},
	"q11_risk_tolerance": {
		"a": "very low", "b": "low", "c": "medium", "d": "high",
	},
	"q12_reaction_to_loss": {
		"a": "would sell immediately", "b": "would be worried",
		"c": "short-term volatility is fine", "d": "calm through long volatility",
	},
}

// AnswerLabel resolves a questionnaire answer key to its label. Unknown keys
// pass through verbatim, mirroring free-text answers.
func AnswerLabel(question, value string) string {
	if labels, ok := answerLabels[question]; ok {
		if label, ok := labels[value]; ok {
			return label
		}
	}
	return value
}

// requiredFields pairs field names with accessors, in form order.
var requiredFields = []struct {
	name string
	get  func(*Form) string
}{
	{"date_signed", func(f *Form) string { return f.DateSigned }},
	{"client_full_name", func(f *Form) string { return f.ClientFullName }},
	{"client_id", func(f *Form) string { return f.ClientID }},
	{"client_address", func(f *Form) string { return f.ClientAddress }},
	{"client_email", func(f *Form) string { return f.ClientEmail }},
	{"management_fee_nis", func(f *Form) string { return f.ManagementFee }},
	{"q1_monthly_income", func(f *Form) string { return f.MonthlyIncome }},
	{"q2_asset_value", func(f *Form) string { return f.AssetValue }},
	{"q3_liability_value", func(f *Form) string { return f.LiabilityValue }},
	{"q4_assets_vs_liabilities", func(f *Form) string { return f.AssetsVsLiabilities }},
	{"q5_one_time_expenses", func(f *Form) string { return f.OneTimeExpenses }},
	{"q6_investment_ratio", func(f *Form) string { return f.InvestmentRatio }},
	{"q7_investment_period", func(f *Form) string { return f.InvestmentPeriod }},
	{"q8_investment_goal", func(f *Form) string { return f.InvestmentGoal }},
	{"q9_market_knowledge", func(f *Form) string { return f.MarketKnowledge }},
	{"q10_financial_instruments_knowledge", func(f *Form) string { return f.InstrumentsKnowledge }},
	{"q11_risk_tolerance", func(f *Form) string { return f.RiskTolerance }},
	{"q12_reaction_to_loss", func(f *Form) string { return f.ReactionToLoss }},
}

// Validate checks every required field plus the typed signature. q8_other is
// optional and only meaningful when the goal is "other".
func (f *Form) Validate() error {
	for _, field := range requiredFields {
		if strings.TrimSpace(field.get(f)) == "" {
			return fmt.Errorf("field %s is required", field.name)
		}
	}
	if strings.TrimSpace(f.Signature) == "" {
		return fmt.Errorf("signature is required")
	}
	return nil
}
