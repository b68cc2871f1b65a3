package agreement

import (
	"context"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// AdvisorContact identifies the receiving advisor. Values come from config,
// never from code.
type AdvisorContact struct {
	Name  string
	Email string
	Phone string
}

var agreementTemplate = template.Must(template.New("agreement").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<style>
body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 800px; margin: 0 auto; padding: 20px; }
h1 { color: #0066cc; border-bottom: 3px solid #0066cc; padding-bottom: 10px; }
h2 { color: #0066cc; margin-top: 30px; border-bottom: 2px solid #e0e0e0; padding-bottom: 5px; }
.info-box { background: #f5f5f5; padding: 15px; border-left: 4px solid #0066cc; margin: 20px 0; }
.signature-box { border: 2px solid #0066cc; padding: 20px; margin: 20px 0; text-align: center; }
table { width: 100%; border-collapse: collapse; margin: 15px 0; }
td { padding: 8px; border-bottom: 1px solid #e0e0e0; }
td:first-child { font-weight: bold; width: 40%; }
.footer { margin-top: 40px; padding-top: 20px; border-top: 2px solid #e0e0e0; text-align: center; color: #666; }
</style>
</head>
<body>
<h1>Investment Advisory Agreement</h1>

<h2>Parties</h2>
<div class="info-box">
<h3>Advisor</h3>
<table>
<tr><td>Name:</td><td>{{.Advisor.Name}}</td></tr>
<tr><td>Email:</td><td>{{.Advisor.Email}}</td></tr>
<tr><td>Phone:</td><td>{{.Advisor.Phone}}</td></tr>
</table>
</div>

<div class="info-box">
<h3>Client</h3>
<table>
<tr><td>Full name:</td><td><strong>{{.Form.ClientFullName}}</strong></td></tr>
<tr><td>ID number:</td><td>{{.Form.ClientID}}</td></tr>
<tr><td>Address:</td><td>{{.Form.ClientAddress}}</td></tr>
<tr><td>Email:</td><td>{{.Form.ClientEmail}}</td></tr>
<tr><td>Date signed:</td><td>{{.Form.DateSigned}}</td></tr>
<tr><td>Management fee:</td><td><strong>₪{{.Form.ManagementFee}} + VAT</strong></td></tr>
</table>
</div>

<h2>Recitals</h2>
<p>Whereas the client wishes to receive investment advisory services from the advisor;</p>
<p>and whereas the advisor holds an investment advisory license;</p>
<p>and whereas the advisor declares the competence and knowledge to provide these services;</p>
<p><strong>the parties therefore agree as follows:</strong></p>

<h2>Annex A: Client Needs Questionnaire</h2>

<h3>Financial situation and preferences</h3>
<table>
<tr><td>1. Monthly household income:</td><td>{{.A1}}</td></tr>
<tr><td>2. Value of assets and savings:</td><td>{{.A2}}</td></tr>
<tr><td>3. Value of liabilities:</td><td>{{.A3}}</td></tr>
<tr><td>4. Assets versus liabilities:</td><td>{{.Form.AssetsVsLiabilities}}</td></tr>
<tr><td>5. Expected one-time expenses:</td><td>{{.A5}}</td></tr>
<tr><td>6. Share of financial assets to invest:</td><td>{{.A6}}</td></tr>
<tr><td>7. Expected investment period:</td><td>{{.A7}}</td></tr>
<tr><td>8. Investment goal:</td><td>{{.A8}}{{if .Form.OtherGoal}} - {{.Form.OtherGoal}}{{end}}</td></tr>
</table>

<h3>Capital market experience</h3>
<table>
<tr><td>9. Market experience and knowledge:</td><td>{{.A9}}</td></tr>
<tr><td>10. Familiarity with financial instruments:</td><td>{{.A10}}</td></tr>
</table>

<h3>Risk attitude</h3>
<table>
<tr><td>11. Risk tolerance:</td><td>{{.A11}}</td></tr>
<tr><td>12. Reaction to a 15% loss:</td><td>{{.A12}}</td></tr>
</table>

<h2>Client signature</h2>
<div class="signature-box">
<p><strong>Signed by:</strong> {{.Form.Signature}}</p>
<p style="margin-top: 15px; color: #666;">Date: {{.Form.DateSigned}}</p>
</div>

<div class="footer">
<p>This agreement was signed digitally through the {{.Advisor.Name}} advisory system</p>
<p>{{.Advisor.Email}}{{if .Advisor.Phone}} | {{.Advisor.Phone}}{{end}}</p>
</div>
</body>
</html>
`))

type templateData struct {
	Form    *Form
	Advisor AdvisorContact
	A1, A2, A3, A5, A6, A7, A8, A9, A10, A11, A12 string
}

// RenderHTML produces the HTML document mailed to the advisor.
func RenderHTML(form *Form, advisor AdvisorContact) (string, error) {
	data := templateData{
		Form:    form,
		Advisor: advisor,
		A1:      AnswerLabel("q1_monthly_income", form.MonthlyIncome),
		A2:      AnswerLabel("q2_asset_value", form.AssetValue),
		A3:      AnswerLabel("q3_liability_value", form.LiabilityValue),
		A5:      AnswerLabel("q5_one_time_expenses", form.OneTimeExpenses),
		A6:      AnswerLabel("q6_investment_ratio", form.InvestmentRatio),
		A7:      AnswerLabel("q7_investment_period", form.InvestmentPeriod),
		A8:      AnswerLabel("q8_investment_goal", form.InvestmentGoal),
		A9:      AnswerLabel("q9_market_knowledge", form.MarketKnowledge),
		A10:     AnswerLabel("q10_financial_instruments_knowledge", form.InstrumentsKnowledge),
		A11:     AnswerLabel("q11_risk_tolerance", form.RiskTolerance),
		A12:     AnswerLabel("q12_reaction_to_loss", form.ReactionToLoss),
	}

	var b strings.Builder
	if err := agreementTemplate.Execute(&b, data); err != nil {
		return "", fmt.Errorf("render agreement: %w", err)
	}
	return b.String(), nil
}

// Mailer posts rendered agreements to an HTTP email gateway.
type Mailer struct {
	client   *resty.Client
	endpoint string
	apiKey   string
}

func NewMailer(endpoint, apiKey string) *Mailer {
	client := resty.New()
	client.SetTimeout(30 * time.Second)
	return &Mailer{client: client, endpoint: endpoint, apiKey: apiKey}
}

// Send validates, renders and dispatches the agreement to the advisor.
func (m *Mailer) Send(ctx context.Context, form *Form, advisor AdvisorContact) error {
	if err := form.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(m.endpoint) == "" {
		return fmt.Errorf("email endpoint is not configured")
	}
	if strings.TrimSpace(advisor.Email) == "" {
		return fmt.Errorf("advisor email is not configured")
	}

	body, err := RenderHTML(form, advisor)
	if err != nil {
		return err
	}

	req := m.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]string{
			"to":      advisor.Email,
			"subject": fmt.Sprintf("Investment advisory agreement - %s", form.ClientFullName),
			"body":    body,
		})
	if m.apiKey != "" {
		req.SetHeader("Authorization", "Bearer "+m.apiKey)
	}

	resp, err := req.Post(m.endpoint)
	if err != nil {
		return fmt.Errorf("send agreement: %w", err)
	}
	if resp.StatusCode() >= 300 {
		return fmt.Errorf("email gateway returned status %d", resp.StatusCode())
	}
	return nil
}
