package realtime

import (
	"time"

	"github.com/evenza/eventdesk-backend/internal/model"
)

// NewResponseEvent is pushed to form subscribers when a submission lands.
// Score is null for non-quiz categories.
type NewResponseEvent struct {
	Type        string    `json:"type"`
	FormID      int64     `json:"form_id"`
	UserName    string    `json:"user_name"`
	UserEmail   string    `json:"user_email"`
	Score       *int      `json:"score"`
	TimeTaken   int       `json:"time_taken"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// NewResponse builds the event for a stored response.
func NewResponse(resp *model.FormResponse, isQuiz bool) NewResponseEvent {
	ev := NewResponseEvent{
		Type:        "new_response",
		FormID:      resp.FormID,
		UserName:    resp.UserName,
		UserEmail:   resp.UserEmail,
		TimeTaken:   resp.TimeTaken,
		SubmittedAt: resp.SubmittedAt,
	}
	if isQuiz {
		score := resp.Score
		ev.Score = &score
	}
	return ev
}

// QAStatusEvent is pushed to the asking attendee when moderation changes
// their question's status.
type QAStatusEvent struct {
	Type       string         `json:"type"`
	QuestionID int64          `json:"question_id"`
	Question   string         `json:"question"`
	Status     model.QAStatus `json:"status"`
}

// QAStatus builds the moderation event for a question.
func QAStatus(q *model.QAQuestion) QAStatusEvent {
	return QAStatusEvent{
		Type:       "question_status",
		QuestionID: q.ID,
		Question:   q.Question,
		Status:     q.Status,
	}
}
