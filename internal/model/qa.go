package model

import "time"

// QAStatus enumerates the moderation states of an audience question.
type QAStatus string

const (
	QAStatusPending  QAStatus = "pending"
	QAStatusApproved QAStatus = "approved"
	QAStatusAnswered QAStatus = "answered"
	QAStatusRejected QAStatus = "rejected"
)

// QAQuestion is an audience question flowing through the moderation queue.
type QAQuestion struct {
	ID        int64     `json:"id"`
	UserEmail string    `json:"user_email"`
	UserName  string    `json:"user_name"`
	Question  string    `json:"question"`
	Status    QAStatus  `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateQAQuestionRequest is the public ask-a-question payload.
type CreateQAQuestionRequest struct {
	UserEmail string `json:"user_email" binding:"required,email"`
	UserName  string `json:"user_name" binding:"omitempty,max=255"`
	Question  string `json:"question" binding:"required,min=1,max=2000"`
}

// UpdateQAStatusRequest is the moderation status-transition payload.
type UpdateQAStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending approved answered rejected"`
}
