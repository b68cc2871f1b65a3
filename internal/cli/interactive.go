package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/guylavee-07/Base44-AI-Finance-Iadvice/internal/alerts"
	"github.com/guylavee-07/Base44-AI-Finance-Iadvice/internal/identity"
	"github.com/guylavee-07/Base44-AI-Finance-Iadvice/models"
)

// runInteractiveChat is the main advisory loop. Each completed exchange is
// folded into the stored session list before the next prompt.
func runInteractiveChat(ctx context.Context, app *App) error {
	user, err := app.identity.CurrentUser(ctx)
	if err != nil {
		if errors.Is(err, identity.ErrUnauthenticated) {
			PrintError("No user is signed in. Set IADVICE_USER to your email address.")
			return nil
		}
		return err
	}

	// Chat requires a completed profile; mirror of the profile redirect.
	if !user.ProfileCompleted {
		PrintHint("Your investment profile is not complete yet. A few questions first.")
		if err := runProfileForm(ctx, app); err != nil {
			return err
		}
		user, err = app.identity.CurrentUser(ctx)
		if err != nil {
			return err
		}
	}

	svc, err := app.Advisor(ctx)
	if err != nil {
		return err
	}

	feed, err := app.Feed()
	if err != nil {
		return err
	}
	chatCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	poller := alerts.NewPoller(feed, time.Duration(app.cfg.AlertRefreshSeconds)*time.Second)
	poller.Start(chatCtx)
	defer poller.Stop()

	known, err := app.store.ListSessions(ctx, user.Email, app.cfg.SessionHistoryLimit)
	if err != nil {
		return err
	}

	DisplayWelcomeBanner(app.cfg.AdvisorName)
	if unread := feed.UnreadCount(); unread > 0 {
		PrintHint("You have %d unread alerts. Type /alerts to see them.", unread)
	}

	reconciler := app.Reconciler()
	conversation := models.Conversation{ID: uuid.NewString()}

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	for {
		app.applyPendingConfig()
		fmt.Print(clientStyle.Render("> "))
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			done, err := handleChatCommand(ctx, app, feed, &conversation, &known, line)
			if err != nil {
				PrintError("%v", err)
			}
			if done {
				return nil
			}
			continue
		}

		conversation.Turns = append(conversation.Turns, models.ConversationTurn{
			Role:    models.RoleUser,
			Content: line,
		})

		reply := svc.Ask(ctx, user.InvestmentProfile, conversation.Turns, line)
		conversation.Turns = append(conversation.Turns, reply)
		fmt.Println(RenderTurn(reply))
		fmt.Println()

		session, err := reconciler.Reconcile(ctx, user.Email, conversation, known)
		if err != nil {
			// The in-memory conversation stays intact; just note the failure.
			PrintHint("session not saved: %v", err)
			continue
		}
		known = refreshKnown(known, session)
	}
}

// refreshKnown replaces or prepends the reconciled session in the cached
// list, so the next reconcile matches by id.
func refreshKnown(known []models.ChatSession, session models.ChatSession) []models.ChatSession {
	for i := range known {
		if known[i].ID == session.ID {
			known[i] = session
			return known
		}
	}
	return append([]models.ChatSession{session}, known...)
}

func handleChatCommand(ctx context.Context, app *App, feed *alerts.Feed, conversation *models.Conversation, known *[]models.ChatSession, line string) (bool, error) {
	fields := strings.Fields(line)
	switch fields[0] {
	case "/quit", "/exit":
		return true, nil

	case "/new":
		*conversation = models.Conversation{ID: uuid.NewString()}
		PrintHint("Started a new conversation.")
		return false, nil

	case "/history":
		if len(*known) == 0 {
			PrintHint("No saved sessions.")
			return false, nil
		}
		for i, session := range *known {
			fmt.Println(RenderSessionLine(i+1, session))
		}
		return false, nil

	case "/load":
		if len(fields) != 2 {
			return false, fmt.Errorf("usage: /load <n>")
		}
		n, err := strconv.Atoi(fields[1])
		if err != nil || n < 1 || n > len(*known) {
			return false, fmt.Errorf("session number out of range (1-%d)", len(*known))
		}
		loaded := (*known)[n-1]
		*conversation = models.Conversation{ID: loaded.ConversationID, Turns: loaded.Turns}
		if conversation.ID == "" {
			conversation.ID = uuid.NewString()
		}
		Divider()
		for _, turn := range loaded.Turns {
			fmt.Println(RenderTurn(turn))
			fmt.Println()
		}
		Divider()
		return false, nil

	case "/alerts":
		if err := feed.Load(ctx); err != nil {
			PrintHint("using cached alerts: %v", err)
		}
		list := feed.Alerts()
		if len(list) == 0 {
			PrintHint("No alerts.")
			return false, nil
		}
		for _, alert := range list {
			fmt.Println(RenderAlert(alert))
		}
		feed.MarkAllRead(ctx)
		return false, nil

	default:
		return false, fmt.Errorf("unknown command %s", fields[0])
	}
}
