package models

import "time"

// Notification is a message for a recipient user, optionally tied to an
// escalated question. Rows are retained indefinitely; only the read
// flag is ever mutated.
type Notification struct {
	ID                int64     `json:"id"`
	UserID            int64     `json:"user_id"`
	Message           string    `json:"message"`
	RelatedQuestionID int64     `json:"related_question_id,omitempty"`
	Read              bool      `json:"read"`
	CreatedAt         time.Time `json:"created_at"`
}

// SoilReport is a snapshot of soil nutrient measurements for a user.
// Reports are produced by an external ingestion path; the application
// only reads them, and only the most recent row per user matters for
// chat context.
type SoilReport struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	PH         float64   `json:"ph"`
	Nitrogen   float64   `json:"nitrogen"`
	Phosphorus float64   `json:"phosphorus"`
	Potassium  float64   `json:"potassium"`
	Moisture   float64   `json:"moisture"`
	CreatedAt  time.Time `json:"created_at"`
}
