package gorm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/krishimitra/advisory/pkg/models"
)

// QuestionStore provides escalated-question persistence. The
// escalate and resolve operations pair the question write with its
// notification insert inside one transaction, so a crash can never
// leave a question without its user-facing alert.
type QuestionStore struct {
	db    *gorm.DB
	store *Store
}

// NewQuestionStore creates a new question store.
func NewQuestionStore(store *Store) *QuestionStore {
	return &QuestionStore{db: store.DB, store: store}
}

// Escalate inserts a pending question assigned to officerID together
// with the officer's notification. Returns the created question and
// notification.
func (s *QuestionStore) Escalate(ctx context.Context, q *models.EscalatedQuestion, notifMessage string) (*models.EscalatedQuestion, *models.Notification, error) {
	row := &EscalatedQuestion{
		UserID:    q.UserID,
		OfficerID: q.OfficerID,
		Title:     q.Title,
		Details:   q.Details,
		Category:  q.Category,
		Status:    string(models.StatusPending),
		CreatedAt: time.Now(),
	}
	notif := &Notification{
		UserID:    q.OfficerID,
		Message:   notifMessage,
		CreatedAt: time.Now(),
	}

	err := s.store.Transaction(ctx, "escalate_question", func(tx *gorm.DB) error {
		if err := tx.Create(row).Error; err != nil {
			return fmt.Errorf("insert question: %w", err)
		}
		notif.RelatedQuestionID = nullInt64(row.ID)
		if err := tx.Create(notif).Error; err != nil {
			return fmt.Errorf("insert notification: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return toModelQuestion(row), toModelNotification(notif), nil
}

// Resolve marks the question resolved with the given answer and
// inserts a notification for the original asker, in one transaction.
// Returns ErrNotFound for an unknown id and ErrAlreadyResolved when
// the question was resolved before; neither mutates any row.
func (s *QuestionStore) Resolve(ctx context.Context, questionID int64, answer, notifMessage string) (*models.EscalatedQuestion, *models.Notification, error) {
	var row EscalatedQuestion
	var notif *Notification

	err := s.store.Transaction(ctx, "resolve_question", func(tx *gorm.DB) error {
		err := tx.Clauses(lockForUpdate()).First(&row, questionID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("fetch question: %w", err)
		}

		if row.Status == string(models.StatusResolved) {
			return ErrAlreadyResolved
		}

		now := time.Now()
		row.Status = string(models.StatusResolved)
		row.Answer = nullString(answer)
		row.ResolvedAt.Time = now
		row.ResolvedAt.Valid = true
		if err := tx.Model(&EscalatedQuestion{}).
			Where("id = ?", questionID).
			Updates(map[string]interface{}{
				"status":      row.Status,
				"answer":      answer,
				"resolved_at": now,
			}).Error; err != nil {
			return fmt.Errorf("update question: %w", err)
		}

		notif = &Notification{
			UserID:            row.UserID,
			Message:           notifMessage,
			RelatedQuestionID: nullInt64(questionID),
			CreatedAt:         now,
		}
		if err := tx.Create(notif).Error; err != nil {
			return fmt.Errorf("insert notification: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return toModelQuestion(&row), toModelNotification(notif), nil
}

// GetByID fetches a single question.
func (s *QuestionStore) GetByID(ctx context.Context, id int64) (*models.EscalatedQuestion, error) {
	var row EscalatedQuestion
	err := s.db.WithContext(ctx).First(&row, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get question: %w", err)
	}
	return toModelQuestion(&row), nil
}

// List returns questions matching the filter, newest first.
func (s *QuestionStore) List(ctx context.Context, filter models.QuestionFilter) ([]*models.EscalatedQuestion, error) {
	q := s.db.WithContext(ctx).Model(&EscalatedQuestion{})

	if filter.UserID != 0 {
		q = q.Where("user_id = ?", filter.UserID)
	}
	if filter.OfficerID != 0 {
		q = q.Where("officer_id = ?", filter.OfficerID)
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", string(filter.Status))
	}
	if filter.District != "" {
		q = q.Joins("JOIN users ON users.id = escalated_questions.user_id").
			Where("users.district = ?", filter.District)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}

	var rows []EscalatedQuestion
	if err := q.Order("escalated_questions.created_at DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}

	out := make([]*models.EscalatedQuestion, 0, len(rows))
	for i := range rows {
		out = append(out, toModelQuestion(&rows[i]))
	}
	return out, nil
}

// SearchResolved finds the best resolved question matching the query
// text using PostgreSQL full-text search over title and details.
// GORM cannot express tsvector queries, so this goes through raw SQL.
// Returns (nil, nil) when nothing matches.
func (s *QuestionStore) SearchResolved(ctx context.Context, query string) (*models.EscalatedQuestion, error) {
	timeoutCtx, cancel := s.store.WithTimeout(ctx, DefaultQueryTimeout, "search_resolved")
	defer cancel()

	var rows []EscalatedQuestion
	err := s.db.WithContext(timeoutCtx).Raw(
		`SELECT * FROM escalated_questions
		 WHERE status = 'resolved'
		   AND answer IS NOT NULL
		   AND to_tsvector('simple', title || ' ' || details) @@ plainto_tsquery('simple', ?)
		 ORDER BY ts_rank(to_tsvector('simple', title || ' ' || details),
		                  plainto_tsquery('simple', ?)) DESC,
		          resolved_at DESC
		 LIMIT 1`,
		query, query,
	).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("search resolved questions: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return toModelQuestion(&rows[0]), nil
}

// ListStalePending returns pending questions created before the
// cutoff, for the reminder sweep.
func (s *QuestionStore) ListStalePending(ctx context.Context, cutoff time.Time) ([]*models.EscalatedQuestion, error) {
	var rows []EscalatedQuestion
	err := s.db.WithContext(ctx).
		Where("status = ? AND created_at < ?", string(models.StatusPending), cutoff).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list stale pending: %w", err)
	}

	out := make([]*models.EscalatedQuestion, 0, len(rows))
	for i := range rows {
		out = append(out, toModelQuestion(&rows[i]))
	}
	return out, nil
}
