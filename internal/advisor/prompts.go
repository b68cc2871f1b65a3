package advisor

import (
	"fmt"
	"strings"

	"github.com/guylavee-07/Base44-AI-Finance-Iadvice/models"
)

// FormatTranscript renders the conversation so far as role-labelled lines
// for inclusion in the system prompt.
func FormatTranscript(turns []models.ConversationTurn) string {
	if len(turns) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("\n\nConversation history:\n")
	for _, turn := range turns {
		label := "Advisor"
		if turn.Role == models.RoleUser {
			label = "Client"
		}
		fmt.Fprintf(&b, "%s: %s\n\n", label, turn.Content)
	}
	return b.String()
}

// BuildAdvisorPrompt assembles the full system prompt for one advisory
// exchange: firm identity, profile context, per-field directives, the
// transcript including the new question, and the question restated last.
func BuildAdvisorPrompt(advisorName string, profile *models.InvestmentProfile, turns []models.ConversationTurn, question string) string {
	profileContext := ""
	directives := ""
	if profile != nil {
		profileContext = FormatProfileContext(*profile)
		directives = ProfileDirectives(*profile)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are a professional, empathetic business and investment advisor representing %q.\n", advisorName)
	b.WriteString(profileContext)
	b.WriteString(FormatTranscript(turns))
	b.WriteString("\nYour role:\n")
	b.WriteString("- Answer questions about investments, savings, stocks, interest rates, pensions, insurance and any financial topic\n")
	b.WriteString("- Tailor every answer to the client's personal profile\n")
	if directives != "" {
		b.WriteString("\nProfile fit, very important:\n")
		b.WriteString(directives)
		b.WriteString("\n")
	}
	b.WriteString("\nImportant:\n")
	b.WriteString("- Answers are general recommendations only, not binding professional advice\n")
	b.WriteString("- Encourage consulting a licensed advisor for significant decisions\n")
	b.WriteString("- Be friendly, clear and supportive\n")
	b.WriteString("- Use numeric examples scaled to the client's available amount\n")
	b.WriteString("- Respect the conversation history; never ask for information already given\n")
	b.WriteString("- Summarize the key points at the end of the answer\n")
	fmt.Fprintf(&b, "\nThe client's new question: %s", question)
	return b.String()
}
