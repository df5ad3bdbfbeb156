package gorm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/krishimitra/advisory/pkg/models"
)

// NotificationStore provides notification persistence.
type NotificationStore struct {
	db *gorm.DB
}

// NewNotificationStore creates a new notification store.
func NewNotificationStore(store *Store) *NotificationStore {
	return &NotificationStore{db: store.DB}
}

// Create inserts a standalone notification. Escalate/Resolve create
// theirs transactionally; this path serves the reminder sweep.
func (s *NotificationStore) Create(ctx context.Context, n *models.Notification) (*models.Notification, error) {
	row := &Notification{
		UserID:            n.UserID,
		Message:           n.Message,
		RelatedQuestionID: nullInt64(n.RelatedQuestionID),
		CreatedAt:         time.Now(),
	}
	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, fmt.Errorf("create notification: %w", err)
	}
	return toModelNotification(row), nil
}

// ListByUser returns all notifications for a user, newest first.
func (s *NotificationStore) ListByUser(ctx context.Context, userID int64) ([]*models.Notification, error) {
	var rows []Notification
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}

	out := make([]*models.Notification, 0, len(rows))
	for i := range rows {
		out = append(out, toModelNotification(&rows[i]))
	}
	return out, nil
}

// MarkRead sets the read flag on a single notification.
func (s *NotificationStore) MarkRead(ctx context.Context, id int64) error {
	result := s.db.WithContext(ctx).
		Model(&Notification{}).
		Where("id = ?", id).
		Update("read", true)
	if result.Error != nil {
		return fmt.Errorf("mark read: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkAllRead sets the read flag on every notification for a user.
func (s *NotificationStore) MarkAllRead(ctx context.Context, userID int64) error {
	err := s.db.WithContext(ctx).
		Model(&Notification{}).
		Where("user_id = ? AND read = false", userID).
		Update("read", true).Error
	if err != nil {
		return fmt.Errorf("mark all read: %w", err)
	}
	return nil
}

// UnreadCount returns how many unread notifications a user has.
func (s *NotificationStore) UnreadCount(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&Notification{}).
		Where("user_id = ? AND read = false", userID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("unread count: %w", err)
	}
	return count, nil
}

// HasReminderSince reports whether a reminder notification referencing
// the question was already created after the cutoff. Used by the sweep
// to avoid duplicate reminders.
func (s *NotificationStore) HasReminderSince(ctx context.Context, questionID int64, since time.Time) (bool, error) {
	var row Notification
	err := s.db.WithContext(ctx).
		Where("related_question_id = ? AND created_at > ?", questionID, since).
		Order("created_at DESC").
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check reminder: %w", err)
	}
	return true, nil
}
