package models

import "time"

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ConversationTurn is one message in a conversation. Turns are append-only
// and never mutated after creation, except for stamping a missing timestamp.
type ConversationTurn struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp,omitempty"`
}

// Conversation is the live, in-memory message list of one logical chat.
// The ID is generated client-side when the conversation starts and is
// carried through every persist call.
type Conversation struct {
	ID    string             `json:"id"`
	Turns []ConversationTurn `json:"turns"`
}

// ChatSession is the persisted counterpart of a conversation: a titled,
// ordered turn list belonging to one user. Turns are replaced wholesale on
// every save of the same logical conversation.
type ChatSession struct {
	ID             string             `json:"id"`
	UserEmail      string             `json:"user_email"`
	ConversationID string             `json:"conversation_id,omitempty"`
	Title          string             `json:"title"`
	Turns          []ConversationTurn `json:"messages"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
}
