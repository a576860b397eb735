package model

import (
	"fmt"
	"strings"
	"time"
)

// AnswerSet maps question IDs (as strings) to submitted answer values.
// Values are strings, string slices (multiple choice) or JSON numbers,
// depending on the question type.
type AnswerSet map[string]interface{}

// StringValue renders a scalar answer for comparison and tallying.
// Slices return "" — they never match a scalar correct answer or option.
func (a AnswerSet) StringValue(questionID int64) string {
	v, ok := a[fmt.Sprintf("%d", questionID)]
	if !ok {
		return ""
	}
	return answerToString(v)
}

// Values returns every scalar value submitted for a question. Slice answers
// (multiple choice) are flattened into their elements.
func (a AnswerSet) Values(questionID int64) []string {
	v, ok := a[fmt.Sprintf("%d", questionID)]
	if !ok {
		return nil
	}
	switch vv := v.(type) {
	case []interface{}:
		out := make([]string, 0, len(vv))
		for _, item := range vv {
			out = append(out, answerToString(item))
		}
		return out
	case []string:
		return vv
	default:
		return []string{answerToString(v)}
	}
}

// Has reports whether an answer was submitted for a question.
func (a AnswerSet) Has(questionID int64) bool {
	_, ok := a[fmt.Sprintf("%d", questionID)]
	return ok
}

func answerToString(v interface{}) string {
	switch vv := v.(type) {
	case string:
		return vv
	case float64:
		// JSON numbers decode as float64; render integers without a fraction.
		if vv == float64(int64(vv)) {
			return fmt.Sprintf("%d", int64(vv))
		}
		return fmt.Sprintf("%v", vv)
	case bool:
		return fmt.Sprintf("%t", vv)
	case nil:
		return ""
	default:
		return ""
	}
}

// FormResponse is one user's submission to a form. Responses are immutable
// once created: at most one exists per (form, user email), enforced by a
// database uniqueness constraint.
type FormResponse struct {
	ID          int64     `json:"id"`
	FormID      int64     `json:"form_id"`
	UserEmail   string    `json:"user_email"`
	UserName    string    `json:"user_name"`
	Answers     AnswerSet `json:"responses"`
	Score       int       `json:"score"`
	TimeTaken   int       `json:"time_taken"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// SubmitRequest is the public submission payload.
type SubmitRequest struct {
	UserEmail      string    `json:"user_email" binding:"required,email"`
	UserName       string    `json:"user_name" binding:"required,min=1,max=255"`
	RegistrationID string    `json:"registration_id" binding:"omitempty,max=100"`
	Responses      AnswerSet `json:"responses" binding:"required"`
	TimeTaken      int       `json:"time_taken" binding:"omitempty,min=0"`
}

// SubmitResult is the submission outcome returned to the client. Score and
// TotalPoints are present for quiz forms only.
type SubmitResult struct {
	Message     string `json:"message"`
	Score       *int   `json:"score,omitempty"`
	TotalPoints *int   `json:"total_points,omitempty"`
}

// TrimmedLen returns the length of the trimmed string form of v.
func TrimmedLen(v string) int {
	return len(strings.TrimSpace(v))
}
