package models

import "time"

// NewChatID is the sentinel chat id the UI sends when the user starts a
// conversation that has not been persisted yet.
const NewChatID = "new"

// Chat is one conversation. Title is lazily derived from the first
// message when it was never set explicitly; the store query handles
// that, so Title is already resolved on reads.
type Chat struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

// MessageKind identifies who produced a message and how.
type MessageKind string

const (
	MessagePrompt   MessageKind = "prompt"   // user turn
	MessageResponse MessageKind = "response" // assistant turn
	MessageResults  MessageKind = "results"  // query results shared by the user
)

// Message is one immutable turn in a chat. Model is set only on prompt
// and response kinds.
type Message struct {
	ID        string      `json:"id"`
	Kind      MessageKind `json:"type"`
	Text      string      `json:"text"`
	Model     *string     `json:"model"`
	ChatID    string      `json:"chat_id"`
	CreatedAt time.Time   `json:"created_at"`
}
