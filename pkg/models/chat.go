package models

import "time"

// ChatSchemaVersion is the current chat snapshot schema. Sessions
// persisted under an older version are migrated on read.
const ChatSchemaVersion = 1

// ChatRole is the author of a chat message.
type ChatRole string

const (
	ChatRoleUser ChatRole = "user"
	ChatRoleBot  ChatRole = "bot"
)

// ChatSession is a persisted conversation between a user and the
// assistant. It replaces the unversioned client-local history blob
// with an explicit, versioned snapshot.
type ChatSession struct {
	ID            string        `json:"id"`
	UserID        int64         `json:"user_id"`
	Title         string        `json:"title"`
	SchemaVersion int           `json:"schema_version"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
	Messages      []ChatMessage `json:"messages,omitempty"`
}

// ChatMessage is a single utterance within a chat session.
type ChatMessage struct {
	ID        int64     `json:"id"`
	ChatID    string    `json:"chat_id"`
	Role      ChatRole  `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
