package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

type Timeframe string

const (
	TimeframeImmediate Timeframe = "immediate"
	TimeframeShort     Timeframe = "short"
	TimeframeMedium    Timeframe = "medium"
	TimeframeLong      Timeframe = "long"
)

type KnowledgeLevel string

const (
	KnowledgeBeginner     KnowledgeLevel = "beginner"
	KnowledgeIntermediate KnowledgeLevel = "intermediate"
	KnowledgeAdvanced     KnowledgeLevel = "advanced"
)

// InvestmentProfile is the structured risk/timeframe/knowledge/amount data
// used to bias advisory output. Mutated only through an explicit save.
type InvestmentProfile struct {
	RiskLevel           RiskLevel       `json:"risk_level"`
	AvailableAmount     decimal.Decimal `json:"available_amount"`
	InvestmentTimeframe Timeframe       `json:"investment_timeframe"`
	KnowledgeLevel      KnowledgeLevel  `json:"knowledge_level"`
}

// User is the identity record. The investment profile lives on the user
// entity and is cleared only by overwrite.
type User struct {
	Email              string             `json:"email"`
	FullName           string             `json:"full_name"`
	ProfileCompleted   bool               `json:"profile_completed"`
	ProfileCompletedAt time.Time          `json:"profile_completed_date,omitempty"`
	InvestmentProfile  *InvestmentProfile `json:"investment_profile,omitempty"`
}

// UserUpdate is a partial update applied to the current user. Nil fields are
// left untouched.
type UserUpdate struct {
	FullName           *string
	ProfileCompleted   *bool
	ProfileCompletedAt *time.Time
	InvestmentProfile  *InvestmentProfile
}
