package chat

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/guylavee-07/Base44-AI-Finance-Iadvice/models"
)

// DefaultTitle names sessions whose first user turn cannot be found.
const DefaultTitle = "New conversation"

const titleRuneLimit = 50

// ErrEmptyConversation is returned when a reconcile is attempted on a
// conversation with no turns.
var ErrEmptyConversation = errors.New("chat: conversation has no turns")

// SessionStore is the persistence surface the reconciler needs.
type SessionStore interface {
	CreateSession(ctx context.Context, session models.ChatSession) (models.ChatSession, error)
	UpdateSessionTurns(ctx context.Context, sessionID, title string, turns []models.ConversationTurn) error
}

// Reconciler folds a live in-memory conversation into the stored session
// list: the matching stored session is overwritten wholesale, and a new
// session is created when none matches.
type Reconciler struct {
	store SessionStore
	now   func() time.Time
}

func NewReconciler(store SessionStore) *Reconciler {
	return &Reconciler{store: store, now: time.Now}
}

// Reconcile persists live against known, the user's already-loaded sessions.
// Matching tries the conversation id first and falls back to comparing the
// first turn's content, which keeps sessions saved before ids existed
// updatable. The returned session reflects what is now stored.
func (r *Reconciler) Reconcile(ctx context.Context, userEmail string, live models.Conversation, known []models.ChatSession) (models.ChatSession, error) {
	if len(live.Turns) == 0 {
		return models.ChatSession{}, ErrEmptyConversation
	}

	turns := StampTurns(live.Turns, r.now())
	title := DeriveTitle(turns)

	if existing := matchSession(live, known); existing != nil {
		if err := r.store.UpdateSessionTurns(ctx, existing.ID, title, turns); err != nil {
			return models.ChatSession{}, fmt.Errorf("update session: %w", err)
		}
		updated := *existing
		updated.Title = title
		updated.Turns = turns
		updated.UpdatedAt = r.now().UTC()
		return updated, nil
	}

	created, err := r.store.CreateSession(ctx, models.ChatSession{
		UserEmail:      userEmail,
		ConversationID: live.ID,
		Title:          title,
		Turns:          turns,
	})
	if err != nil {
		return models.ChatSession{}, fmt.Errorf("create session: %w", err)
	}
	return created, nil
}

func matchSession(live models.Conversation, known []models.ChatSession) *models.ChatSession {
	if live.ID != "" {
		for i := range known {
			if known[i].ConversationID == live.ID {
				return &known[i]
			}
		}
	}
	firstContent := live.Turns[0].Content
	for i := range known {
		if len(known[i].Turns) > 0 && known[i].Turns[0].Content == firstContent {
			return &known[i]
		}
	}
	return nil
}

// DeriveTitle takes the first user turn's content, truncated to 50 runes
// with a trailing ellipsis when longer. Conversations without a user turn
// get DefaultTitle.
func DeriveTitle(turns []models.ConversationTurn) string {
	for _, turn := range turns {
		if turn.Role != models.RoleUser {
			continue
		}
		content := turn.Content
		if utf8.RuneCountInString(content) <= titleRuneLimit {
			return content
		}
		runes := []rune(content)
		return string(runes[:titleRuneLimit]) + "..."
	}
	return DefaultTitle
}

// StampTurns fills in missing timestamps with now and leaves existing ones
// alone, so re-stamping is idempotent.
func StampTurns(turns []models.ConversationTurn, now time.Time) []models.ConversationTurn {
	stamped := make([]models.ConversationTurn, len(turns))
	copy(stamped, turns)
	for i := range stamped {
		if stamped[i].Timestamp.IsZero() {
			stamped[i].Timestamp = now.UTC()
		}
	}
	return stamped
}
