package gorm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/krishimitra/advisory/pkg/models"
)

// ChatStore persists chat sessions and their messages.
type ChatStore struct {
	db    *gorm.DB
	store *Store
}

// NewChatStore creates a new chat store.
func NewChatStore(store *Store) *ChatStore {
	return &ChatStore{db: store.DB, store: store}
}

// CreateChat inserts a new chat session for the user. A missing ID is
// generated; a missing title gets the default.
func (s *ChatStore) CreateChat(ctx context.Context, userID int64, title string) (*models.ChatSession, error) {
	row := &ChatSession{
		ID:            uuid.NewString(),
		UserID:        userID,
		SchemaVersion: models.ChatSchemaVersion,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	if title != "" {
		row.Title = title
	} else {
		row.Title = "New chat"
	}

	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, fmt.Errorf("create chat: %w", err)
	}
	return toModelChatSession(row), nil
}

// GetChat fetches a session with its messages in chronological order.
// Sessions stored under an older schema version are upgraded on read.
func (s *ChatStore) GetChat(ctx context.Context, id string) (*models.ChatSession, error) {
	var row ChatSession
	err := s.db.WithContext(ctx).First(&row, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get chat: %w", err)
	}

	if row.SchemaVersion < models.ChatSchemaVersion {
		if err := s.migrateChat(ctx, &row); err != nil {
			return nil, err
		}
	}

	var msgRows []ChatMessage
	err = s.db.WithContext(ctx).
		Where("chat_id = ?", id).
		Order("created_at ASC, id ASC").
		Find(&msgRows).Error
	if err != nil {
		return nil, fmt.Errorf("get chat messages: %w", err)
	}

	chat := toModelChatSession(&row)
	chat.Messages = make([]models.ChatMessage, 0, len(msgRows))
	for i := range msgRows {
		chat.Messages = append(chat.Messages, *toModelChatMessage(&msgRows[i]))
	}
	return chat, nil
}

// migrateChat upgrades a session row to the current schema version.
// Version 1 is the first versioned schema, so today this only stamps
// the version; future versions hang their data migrations here.
func (s *ChatStore) migrateChat(ctx context.Context, row *ChatSession) error {
	row.SchemaVersion = models.ChatSchemaVersion
	err := s.db.WithContext(ctx).
		Model(&ChatSession{}).
		Where("id = ?", row.ID).
		Update("schema_version", row.SchemaVersion).Error
	if err != nil {
		return fmt.Errorf("migrate chat schema: %w", err)
	}
	return nil
}

// ListChats returns a user's sessions, most recently updated first,
// without messages.
func (s *ChatStore) ListChats(ctx context.Context, userID int64) ([]*models.ChatSession, error) {
	var rows []ChatSession
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list chats: %w", err)
	}

	out := make([]*models.ChatSession, 0, len(rows))
	for i := range rows {
		out = append(out, toModelChatSession(&rows[i]))
	}
	return out, nil
}

// AppendMessage adds a message to a session and bumps its updated_at,
// in one transaction.
func (s *ChatStore) AppendMessage(ctx context.Context, chatID string, role models.ChatRole, content string) (*models.ChatMessage, error) {
	row := &ChatMessage{
		ChatID:    chatID,
		Role:      string(role),
		Content:   content,
		CreatedAt: time.Now(),
	}

	err := s.store.Transaction(ctx, "append_chat_message", func(tx *gorm.DB) error {
		result := tx.Model(&ChatSession{}).
			Where("id = ?", chatID).
			Update("updated_at", time.Now())
		if result.Error != nil {
			return fmt.Errorf("touch chat: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		if err := tx.Create(row).Error; err != nil {
			return fmt.Errorf("insert message: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toModelChatMessage(row), nil
}

// DeleteChat removes a session and its messages.
func (s *ChatStore) DeleteChat(ctx context.Context, id string) error {
	return s.store.Transaction(ctx, "delete_chat", func(tx *gorm.DB) error {
		if err := tx.Where("chat_id = ?", id).Delete(&ChatMessage{}).Error; err != nil {
			return fmt.Errorf("delete messages: %w", err)
		}
		result := tx.Where("id = ?", id).Delete(&ChatSession{})
		if result.Error != nil {
			return fmt.Errorf("delete chat: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
