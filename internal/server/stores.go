package server

import (
	"context"

	"github.com/krishimitra/advisory/internal/assistant"
	db "github.com/krishimitra/advisory/internal/db/gorm"
	"github.com/krishimitra/advisory/internal/weather"
	"github.com/krishimitra/advisory/pkg/models"
)

// Handler-facing store interfaces. The gorm package provides the
// production implementations; tests substitute in-memory fakes.

// UserStore provides account persistence.
type UserStore interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByMobile(ctx context.Context, mobileNumber string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	ListOfficersByDistrict(ctx context.Context, district string) ([]*models.User, error)
}

// QuestionStore provides escalated-question persistence.
type QuestionStore interface {
	Escalate(ctx context.Context, q *models.EscalatedQuestion, notifMessage string) (*models.EscalatedQuestion, *models.Notification, error)
	Resolve(ctx context.Context, questionID int64, answer, notifMessage string) (*models.EscalatedQuestion, *models.Notification, error)
	GetByID(ctx context.Context, id int64) (*models.EscalatedQuestion, error)
	List(ctx context.Context, filter models.QuestionFilter) ([]*models.EscalatedQuestion, error)
	SearchResolved(ctx context.Context, query string) (*models.EscalatedQuestion, error)
}

// NotificationStore provides notification persistence.
type NotificationStore interface {
	ListByUser(ctx context.Context, userID int64) ([]*models.Notification, error)
	MarkRead(ctx context.Context, id int64) error
	MarkAllRead(ctx context.Context, userID int64) error
	UnreadCount(ctx context.Context, userID int64) (int64, error)
}

// SoilStore reads externally ingested soil reports.
type SoilStore interface {
	LatestByUser(ctx context.Context, userID int64) (*models.SoilReport, error)
}

// ChatStore persists chat sessions.
type ChatStore interface {
	CreateChat(ctx context.Context, userID int64, title string) (*models.ChatSession, error)
	GetChat(ctx context.Context, id string) (*models.ChatSession, error)
	ListChats(ctx context.Context, userID int64) ([]*models.ChatSession, error)
	AppendMessage(ctx context.Context, chatID string, role models.ChatRole, content string) (*models.ChatMessage, error)
	DeleteChat(ctx context.Context, id string) error
}

// Advisor answers chat turns the expert lookup cannot.
type Advisor interface {
	Ask(ctx context.Context, req assistant.Request) (*assistant.Reply, error)
}

// WeatherAPI fetches conditions from the upstream weather provider.
type WeatherAPI interface {
	Current(ctx context.Context, lat, lon float64, lang string) (*weather.Current, error)
	Forecast(ctx context.Context, lat, lon float64, lang string) (*weather.Forecast, error)
	Full(ctx context.Context, lat, lon float64, lang string) (*weather.Bundle, error)
}

// HealthChecker reports database round-trip latency and pool
// saturation for the health endpoint.
type HealthChecker interface {
	HealthCheck(ctx context.Context) *db.HealthInfo
}
