package models

import "time"

type AlertType string

const (
	AlertMarketUpdate AlertType = "market_update"
	AlertOpportunity  AlertType = "opportunity"
	AlertRisk         AlertType = "risk_alert"
	AlertNews         AlertType = "news"
	AlertPersonal     AlertType = "personal"
)

type AlertPriority string

const (
	PriorityLow    AlertPriority = "low"
	PriorityMedium AlertPriority = "medium"
	PriorityHigh   AlertPriority = "high"
)

// ValidAlertType reports whether t is one of the known alert types.
func ValidAlertType(t AlertType) bool {
	switch t {
	case AlertMarketUpdate, AlertOpportunity, AlertRisk, AlertNews, AlertPersonal:
		return true
	}
	return false
}

// ValidAlertPriority reports whether p is one of the known priorities.
func ValidAlertPriority(p AlertPriority) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// PriorityRank orders priorities for minimum-priority filtering.
// Unknown values rank lowest.
func PriorityRank(p AlertPriority) int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	}
	return 0
}

// Alert is a user-facing notification. It is created by a generation process
// and mutated only to flip IsRead.
type Alert struct {
	ID        string        `json:"id"`
	UserEmail string        `json:"user_email"`
	Title     string        `json:"title"`
	Message   string        `json:"message"`
	Type      AlertType     `json:"type"`
	Priority  AlertPriority `json:"priority"`
	IsRead    bool          `json:"is_read"`
	CreatedAt time.Time     `json:"created_date"`
}

// AlertPreferences controls which alert categories a user receives.
type AlertPreferences struct {
	ID            string        `json:"id"`
	UserEmail     string        `json:"user_email"`
	MarketUpdates bool          `json:"market_updates"`
	Opportunities bool          `json:"opportunities"`
	RiskAlerts    bool          `json:"risk_alerts"`
	News          bool          `json:"news"`
	MinPriority   AlertPriority `json:"min_priority"`
	Sectors       []string      `json:"sectors"`
}

// DefaultAlertPreferences returns the preferences created for a user on
// first load: everything enabled, no sector filter.
func DefaultAlertPreferences(userEmail string) AlertPreferences {
	return AlertPreferences{
		UserEmail:     userEmail,
		MarketUpdates: true,
		Opportunities: true,
		RiskAlerts:    true,
		News:          true,
		MinPriority:   PriorityLow,
		Sectors:       nil,
	}
}
