package advisor

import (
	"context"
	"log"

	"github.com/guylavee-07/Base44-AI-Finance-Iadvice/models"
)

// ApologyMessage replaces the assistant reply when the model call fails.
const ApologyMessage = "Sorry, something went wrong. Please try again."

// LLM is the gateway surface the advisor needs.
type LLM interface {
	Invoke(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	InvokeJSON(ctx context.Context, systemPrompt, userPrompt string, out any) error
}

// Service answers client questions with profile-aware prompts.
type Service struct {
	llm         LLM
	advisorName string
}

func NewService(llm LLM, advisorName string) *Service {
	return &Service{llm: llm, advisorName: advisorName}
}

// Ask sends one question with the conversation so far and returns the
// assistant turn. A model failure yields the fixed apology turn, not an
// error; there is no retry.
func (s *Service) Ask(ctx context.Context, profile *models.InvestmentProfile, turns []models.ConversationTurn, question string) models.ConversationTurn {
	prompt := BuildAdvisorPrompt(s.advisorName, profile, turns, question)
	reply, err := s.llm.Invoke(ctx, "", prompt)
	if err != nil {
		log.Printf("advisor: model call failed: %v", err)
		return models.ConversationTurn{Role: models.RoleAssistant, Content: ApologyMessage}
	}
	return models.ConversationTurn{Role: models.RoleAssistant, Content: reply}
}
