// Package scheduler runs the periodic background jobs: reminding
// officers about stale pending questions and nightly database
// maintenance.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/krishimitra/advisory/internal/i18n"
	"github.com/krishimitra/advisory/pkg/models"
)

// QuestionLister finds pending questions older than a cutoff.
type QuestionLister interface {
	ListStalePending(ctx context.Context, cutoff time.Time) ([]*models.EscalatedQuestion, error)
}

// ReminderStore creates reminder notifications and guards against
// duplicates within a sweep window.
type ReminderStore interface {
	Create(ctx context.Context, n *models.Notification) (*models.Notification, error)
	HasReminderSince(ctx context.Context, questionID int64, since time.Time) (bool, error)
}

// Maintainer runs periodic database upkeep.
type Maintainer interface {
	Optimize(ctx context.Context) error
}

// Notifier pushes a notification to connected clients.
type Notifier interface {
	BroadcastToUser(userID int64, data interface{})
}

// Scheduler owns the cron runner and its jobs.
type Scheduler struct {
	cron          *cron.Cron
	questions     QuestionLister
	notifications ReminderStore
	maintainer    Maintainer
	notifier      Notifier
	reminderAge   time.Duration
}

// Config wires the scheduler's dependencies.
type Config struct {
	Questions     QuestionLister
	Notifications ReminderStore
	Maintainer    Maintainer
	Notifier      Notifier

	// ReminderSpec is the cron expression for the reminder sweep.
	ReminderSpec string
	// ReminderAge is how long a question may sit pending before the
	// assigned officer is reminded.
	ReminderAge time.Duration
}

// New builds a scheduler and registers its jobs. Call Start to begin.
func New(cfg Config) (*Scheduler, error) {
	s := &Scheduler{
		cron:          cron.New(),
		questions:     cfg.Questions,
		notifications: cfg.Notifications,
		maintainer:    cfg.Maintainer,
		notifier:      cfg.Notifier,
		reminderAge:   cfg.ReminderAge,
	}

	if _, err := s.cron.AddFunc(cfg.ReminderSpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := s.SweepPending(ctx); err != nil {
			log.Error().Err(err).Msg("Reminder sweep failed")
		}
	}); err != nil {
		return nil, fmt.Errorf("register reminder job: %w", err)
	}

	if s.maintainer != nil {
		if _, err := s.cron.AddFunc("30 2 * * *", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
			defer cancel()
			if err := s.maintainer.Optimize(ctx); err != nil {
				log.Error().Err(err).Msg("Database maintenance failed")
			}
		}); err != nil {
			return nil, fmt.Errorf("register maintenance job: %w", err)
		}
	}

	return s, nil
}

// Start launches the cron runner in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
	log.Info().Msg("Scheduler started")
}

// Stop halts the cron runner and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Info().Msg("Scheduler stopped")
}

// SweepPending reminds officers about questions that have been pending
// longer than the configured age. A question gets at most one reminder
// per age window.
func (s *Scheduler) SweepPending(ctx context.Context) error {
	cutoff := time.Now().Add(-s.reminderAge)

	stale, err := s.questions.ListStalePending(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("list stale questions: %w", err)
	}

	var reminded int
	for _, q := range stale {
		already, err := s.notifications.HasReminderSince(ctx, q.ID, cutoff)
		if err != nil {
			return fmt.Errorf("check reminder for question %d: %w", q.ID, err)
		}
		if already {
			continue
		}

		message := fmt.Sprintf("%s %q", i18n.T(i18n.English, i18n.KeyPendingReminder), q.Title)
		notification, err := s.notifications.Create(ctx, &models.Notification{
			UserID:            q.OfficerID,
			Message:           message,
			RelatedQuestionID: q.ID,
		})
		if err != nil {
			return fmt.Errorf("create reminder for question %d: %w", q.ID, err)
		}

		if s.notifier != nil {
			s.notifier.BroadcastToUser(q.OfficerID, notification)
		}
		reminded++
	}

	if reminded > 0 {
		log.Info().Int("count", reminded).Msg("Sent pending-question reminders")
	}
	return nil
}
