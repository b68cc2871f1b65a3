package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/guylavee-07/Base44-AI-Finance-Iadvice/models"
)

// UI styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#0EA5E9")).
			Padding(0, 1).
			MarginBottom(1)

	clientStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#3B82F6"))

	advisorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981"))

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EF4444")).
			Bold(true)

	alertHighStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EF4444")).
			Bold(true)

	alertMediumStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#F59E0B"))

	alertLowStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280"))

	unreadStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#0EA5E9"))
)

// DisplayWelcomeBanner shows the chat welcome header.
func DisplayWelcomeBanner(advisorName string) {
	fmt.Println(titleStyle.Render("Iadvice - " + advisorName))
	fmt.Println(hintStyle.Render("Ask anything about investments, savings, pensions or insurance."))
	fmt.Println(hintStyle.Render("Commands: /new  /history  /load <n>  /alerts  /quit"))
	fmt.Println()
}

// RenderTurn formats one conversation turn for the terminal.
func RenderTurn(turn models.ConversationTurn) string {
	if turn.Role == models.RoleUser {
		return clientStyle.Render("You: ") + turn.Content
	}
	return advisorStyle.Render("Advisor: ") + turn.Content
}

// RenderAlert formats one alert line, priority-colored, unread marked.
func RenderAlert(alert models.Alert) string {
	style := alertLowStyle
	switch alert.Priority {
	case models.PriorityHigh:
		style = alertHighStyle
	case models.PriorityMedium:
		style = alertMediumStyle
	}

	marker := "  "
	if !alert.IsRead {
		marker = unreadStyle.Render("● ")
	}
	line := fmt.Sprintf("[%s] %s", alert.Type, alert.Title)
	if alert.Message != "" {
		line += " - " + alert.Message
	}
	return marker + style.Render(line)
}

// RenderSessionLine formats one history entry.
func RenderSessionLine(index int, session models.ChatSession) string {
	title := session.Title
	if title == "" {
		title = "(untitled)"
	}
	return fmt.Sprintf("%2d. %s  %s", index, session.UpdatedAt.Local().Format("2006-01-02 15:04"), title)
}

// PrintError prints a styled error line.
func PrintError(format string, args ...any) {
	fmt.Println(errorStyle.Render(fmt.Sprintf(format, args...)))
}

// PrintHint prints a muted helper line.
func PrintHint(format string, args ...any) {
	fmt.Println(hintStyle.Render(fmt.Sprintf(format, args...)))
}

// Divider prints a soft separator.
func Divider() {
	fmt.Println(hintStyle.Render(strings.Repeat("─", 60)))
}
