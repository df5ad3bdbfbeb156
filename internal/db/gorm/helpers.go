package gorm

import (
	"database/sql"
	"time"

	"gorm.io/gorm/clause"

	"github.com/krishimitra/advisory/pkg/models"
)

// lockForUpdate returns a SELECT ... FOR UPDATE clause so concurrent
// resolves of the same question serialize on the row.
func lockForUpdate() clause.Locking {
	return clause.Locking{Strength: "UPDATE"}
}

// Converters between GORM rows and domain types.

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullInt64(n int64) sql.NullInt64 {
	if n == 0 {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: n, Valid: true}
}

func toModelUser(u *User) *models.User {
	return &models.User{
		ID:           u.ID,
		MobileNumber: u.MobileNumber,
		FirstName:    u.FirstName,
		LastName:     u.LastName.String,
		State:        u.State.String,
		District:     u.District.String,
		Taluka:       u.Taluka.String,
		Village:      u.Village.String,
		Language:     u.Language.String,
		Role:         models.Role(u.Role),
		OfficerCode:  u.OfficerCode.String,
		CreatedAt:    u.CreatedAt,
	}
}

func fromModelUser(u *models.User) *User {
	return &User{
		ID:           u.ID,
		MobileNumber: u.MobileNumber,
		FirstName:    u.FirstName,
		LastName:     nullString(u.LastName),
		State:        nullString(u.State),
		District:     nullString(u.District),
		Taluka:       nullString(u.Taluka),
		Village:      nullString(u.Village),
		Language:     nullString(u.Language),
		Role:         string(u.Role),
		OfficerCode:  nullString(u.OfficerCode),
		CreatedAt:    u.CreatedAt,
	}
}

func toModelQuestion(q *EscalatedQuestion) *models.EscalatedQuestion {
	var resolvedAt *time.Time
	if q.ResolvedAt.Valid {
		t := q.ResolvedAt.Time
		resolvedAt = &t
	}
	return &models.EscalatedQuestion{
		ID:         q.ID,
		UserID:     q.UserID,
		OfficerID:  q.OfficerID,
		Title:      q.Title,
		Details:    q.Details,
		Category:   q.Category,
		Status:     models.QuestionStatus(q.Status),
		Answer:     q.Answer.String,
		CreatedAt:  q.CreatedAt,
		ResolvedAt: resolvedAt,
	}
}

func toModelNotification(n *Notification) *models.Notification {
	return &models.Notification{
		ID:                n.ID,
		UserID:            n.UserID,
		Message:           n.Message,
		RelatedQuestionID: n.RelatedQuestionID.Int64,
		Read:              n.Read,
		CreatedAt:         n.CreatedAt,
	}
}

func toModelSoilReport(r *SoilReport) *models.SoilReport {
	return &models.SoilReport{
		ID:         r.ID,
		UserID:     r.UserID,
		PH:         r.PH,
		Nitrogen:   r.Nitrogen,
		Phosphorus: r.Phosphorus,
		Potassium:  r.Potassium,
		Moisture:   r.Moisture,
		CreatedAt:  r.CreatedAt,
	}
}

func toModelChatSession(c *ChatSession) *models.ChatSession {
	return &models.ChatSession{
		ID:            c.ID,
		UserID:        c.UserID,
		Title:         c.Title,
		SchemaVersion: c.SchemaVersion,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

func toModelChatMessage(m *ChatMessage) *models.ChatMessage {
	return &models.ChatMessage{
		ID:        m.ID,
		ChatID:    m.ChatID,
		Role:      models.ChatRole(m.Role),
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
	}
}
