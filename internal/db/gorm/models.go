package gorm

import (
	"database/sql"
	"time"

	"gorm.io/gorm"

	"github.com/krishimitra/advisory/pkg/models"
)

// GORM models. Domain types live in pkg/models; helpers.go converts
// between the two.

// User is an account row keyed by a unique mobile number.
type User struct {
	ID           int64  `gorm:"primaryKey;autoIncrement"`
	MobileNumber string `gorm:"uniqueIndex;not null"`
	FirstName    string `gorm:"not null"`
	LastName     sql.NullString
	State        sql.NullString
	District     sql.NullString `gorm:"index:idx_users_district_role,priority:1"`
	Taluka       sql.NullString
	Village      sql.NullString
	Language     sql.NullString
	Role         string         `gorm:"type:text;check:role IN ('user', 'agri-officer');default:'user';index:idx_users_district_role,priority:2"`
	OfficerCode  sql.NullString
	CreatedAt    time.Time `gorm:"not null"`
}

func (User) TableName() string { return "users" }

// EscalatedQuestion routes a farmer's question to one officer.
type EscalatedQuestion struct {
	ID         int64  `gorm:"primaryKey;autoIncrement"`
	UserID     int64  `gorm:"index;not null"`
	OfficerID  int64  `gorm:"index;not null"`
	Title      string `gorm:"type:text;not null"`
	Details    string `gorm:"type:text;not null"`
	Category   string `gorm:"index"`
	Status     string `gorm:"type:text;check:status IN ('pending', 'resolved');default:'pending';index:idx_questions_status_created,priority:1"`
	Answer     sql.NullString `gorm:"type:text"`
	CreatedAt  time.Time      `gorm:"index:idx_questions_status_created,priority:2,sort:desc;not null"`
	ResolvedAt sql.NullTime

	User    User `gorm:"foreignKey:UserID;references:ID"`
	Officer User `gorm:"foreignKey:OfficerID;references:ID"`
}

func (EscalatedQuestion) TableName() string { return "escalated_questions" }

// Notification is a message for one recipient user.
type Notification struct {
	ID                int64  `gorm:"primaryKey;autoIncrement"`
	UserID            int64  `gorm:"index:idx_notifications_user_created,priority:1;not null"`
	Message           string `gorm:"type:text;not null"`
	RelatedQuestionID sql.NullInt64
	Read              bool      `gorm:"default:false"`
	CreatedAt         time.Time `gorm:"index:idx_notifications_user_created,priority:2,sort:desc;not null"`
}

func (Notification) TableName() string { return "notifications" }

// SoilReport is an externally ingested nutrient snapshot.
type SoilReport struct {
	ID         int64 `gorm:"primaryKey;autoIncrement"`
	UserID     int64 `gorm:"index:idx_soil_reports_user_created,priority:1;not null"`
	PH         float64
	Nitrogen   float64
	Phosphorus float64
	Potassium  float64
	Moisture   float64
	CreatedAt  time.Time `gorm:"index:idx_soil_reports_user_created,priority:2,sort:desc;not null"`
}

func (SoilReport) TableName() string { return "soil_reports" }

// ChatSession is a versioned conversation snapshot.
type ChatSession struct {
	ID            string `gorm:"type:char(36);primaryKey"`
	UserID        int64  `gorm:"index;not null"`
	Title         string `gorm:"not null;default:'New chat'"`
	SchemaVersion int    `gorm:"not null;default:1"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (ChatSession) TableName() string { return "chat_sessions" }

// BeforeCreate stamps the current schema version on new sessions.
func (c *ChatSession) BeforeCreate(tx *gorm.DB) error {
	if c.SchemaVersion == 0 {
		c.SchemaVersion = models.ChatSchemaVersion
	}
	return nil
}

// ChatMessage is one utterance within a chat session.
type ChatMessage struct {
	ID        int64  `gorm:"primaryKey;autoIncrement"`
	ChatID    string `gorm:"type:char(36);index:idx_chat_messages_chat,priority:1;not null"`
	Role      string `gorm:"type:text;check:role IN ('user', 'bot');not null"`
	Content   string `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"index:idx_chat_messages_chat,priority:2;not null"`

	Chat ChatSession `gorm:"foreignKey:ChatID;references:ID;constraint:OnDelete:CASCADE"`
}

func (ChatMessage) TableName() string { return "chat_messages" }
