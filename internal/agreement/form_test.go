package agreement

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func completeForm() *Form {
	return &Form{
		DateSigned:           "2025-09-01",
		ClientFullName:       "Dana Client",
		ClientID:             "123456789",
		ClientAddress:        "1 Example St, Tel Aviv",
		ClientEmail:          "dana@example.com",
		ManagementFee:        "500",
		MonthlyIncome:        "c",
		AssetValue:           "d",
		LiabilityValue:       "a",
		AssetsVsLiabilities:  "assets exceed liabilities",
		OneTimeExpenses:      "b",
		InvestmentRatio:      "b",
		InvestmentPeriod:     "c",
		InvestmentGoal:       "b",
		MarketKnowledge:      "b",
		InstrumentsKnowledge: "c",
		RiskTolerance:        "c",
		ReactionToLoss:       "c",
		Signature:            "Dana Client",
	}
}

func TestValidateComplete(t *testing.T) {
	if err := completeForm().Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestValidateMissingFields(t *testing.T) {
	f := completeForm()
	f.ClientEmail = ""
	if err := f.Validate(); err == nil || !strings.Contains(err.Error(), "client_email") {
		t.Fatalf("expected client_email error, got %v", err)
	}

	f = completeForm()
	f.RiskTolerance = " "
	if err := f.Validate(); err == nil || !strings.Contains(err.Error(), "q11_risk_tolerance") {
		t.Fatalf("expected q11 error, got %v", err)
	}

	f = completeForm()
	f.Signature = ""
	if err := f.Validate(); err == nil || !strings.Contains(err.Error(), "signature") {
		t.Fatalf("expected signature error, got %v", err)
	}
}

func TestValidateOtherGoalOptional(t *testing.T) {
	f := completeForm()
	f.InvestmentGoal = "d"
	f.OtherGoal = ""
	if err := f.Validate(); err != nil {
		t.Fatalf("other goal should be optional: %v", err)
	}
}

func TestAnswerLabel(t *testing.T) {
	if got := AnswerLabel("q1_monthly_income", "a"); got != "up to ₪5,000" {
		t.Fatalf("unexpected label %q", got)
	}
	if got := AnswerLabel("q12_reaction_to_loss", "d"); got != "calm through long volatility" {
		t.Fatalf("unexpected label %q", got)
	}
	// Free-text and unknown keys pass through.
	if got := AnswerLabel("q4_assets_vs_liabilities", "my own words"); got != "my own words" {
		t.Fatalf("free text should pass through, got %q", got)
	}
	if got := AnswerLabel("q7_investment_period", "z"); got != "z" {
		t.Fatalf("unknown key should pass through, got %q", got)
	}
}

func TestRenderHTML(t *testing.T) {
	form := completeForm()
	form.InvestmentGoal = "d"
	form.OtherGoal = "buying a boat"

	html, err := RenderHTML(form, AdvisorContact{Name: "Iadvice", Email: "advisor@iadvice.example", Phone: "00-0000000"})
	if err != nil {
		t.Fatalf("RenderHTML: %v", err)
	}

	for _, want := range []string{
		"Dana Client",
		"₪10,000-40,000",
		"other - buying a boat",
		"₪500 + VAT",
		"advisor@iadvice.example",
	} {
		if !strings.Contains(html, want) {
			t.Fatalf("rendered agreement missing %q", want)
		}
	}
}

func TestRenderHTMLEscapes(t *testing.T) {
	form := completeForm()
	form.ClientFullName = `<script>alert("x")</script>`
	html, err := RenderHTML(form, AdvisorContact{Name: "Iadvice", Email: "a@b.c"})
	if err != nil {
		t.Fatalf("RenderHTML: %v", err)
	}
	if strings.Contains(html, "<script>") {
		t.Fatalf("client input not escaped")
	}
}

func TestMailerSend(t *testing.T) {
	var received map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer secret" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	m := NewMailer(srv.URL, "secret")
	advisor := AdvisorContact{Name: "Iadvice", Email: "advisor@iadvice.example"}
	if err := m.Send(context.Background(), completeForm(), advisor); err != nil {
		t.Fatalf("Send: %v", err)
	}

	if received["to"] != "advisor@iadvice.example" {
		t.Fatalf("unexpected recipient %q", received["to"])
	}
	if !strings.Contains(received["subject"], "Dana Client") {
		t.Fatalf("unexpected subject %q", received["subject"])
	}
	if !strings.Contains(received["body"], "Investment Advisory Agreement") {
		t.Fatalf("body missing agreement heading")
	}
}

func TestMailerSendRejectsInvalidForm(t *testing.T) {
	m := NewMailer("http://unused.example", "")
	form := completeForm()
	form.ClientFullName = ""
	if err := m.Send(context.Background(), form, AdvisorContact{Email: "a@b.c"}); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestMailerSendGatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	m := NewMailer(srv.URL, "")
	if err := m.Send(context.Background(), completeForm(), AdvisorContact{Email: "a@b.c"}); err == nil {
		t.Fatalf("expected gateway error")
	}
}
