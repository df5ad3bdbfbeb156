package models

import "time"

// QuestionStatus is the lifecycle state of an escalated question.
// Transitions are one-directional: pending -> resolved.
type QuestionStatus string

const (
	StatusPending  QuestionStatus = "pending"
	StatusResolved QuestionStatus = "resolved"
)

// EscalatedQuestion is a farmer's question routed to a specific
// agricultural officer. Exactly one officer is assigned at creation
// time, chosen from the officers sharing the asker's district.
type EscalatedQuestion struct {
	ID         int64          `json:"id"`
	UserID     int64          `json:"user_id"`
	OfficerID  int64          `json:"officer_id"`
	Title      string         `json:"title"`
	Details    string         `json:"details"`
	Category   string         `json:"category"`
	Status     QuestionStatus `json:"status"`
	Answer     string         `json:"answer,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	ResolvedAt *time.Time     `json:"resolved_at,omitempty"`
}

// Resolved reports whether the question has been answered.
func (q *EscalatedQuestion) Resolved() bool {
	return q.Status == StatusResolved
}

// QuestionFilter narrows a question listing. Zero values mean "any".
type QuestionFilter struct {
	UserID    int64
	OfficerID int64
	District  string
	Category  string
	Status    QuestionStatus
	Limit     int
}
