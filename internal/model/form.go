package model

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// FormCategory enumerates the supported form types. The category governs
// scoring and validation rules and is immutable after creation — changing
// it would invalidate already-scored responses.
type FormCategory string

const (
	FormCategoryQuiz       FormCategory = "quiz"
	FormCategoryPoll       FormCategory = "poll"
	FormCategoryFeedback   FormCategory = "feedback"
	FormCategoryAttendance FormCategory = "attendance"
)

// Valid reports whether c is one of the known categories.
func (c FormCategory) Valid() bool {
	switch c {
	case FormCategoryQuiz, FormCategoryPoll, FormCategoryFeedback, FormCategoryAttendance:
		return true
	}
	return false
}

// Form represents a form definition.
type Form struct {
	ID           int64           `json:"id"`
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	Category     FormCategory    `json:"type"`
	Settings     json.RawMessage `json:"settings"`
	Handle       string          `json:"form_hash"`
	IsActive     bool            `json:"is_active"`
	CreatedBy    string          `json:"created_by"`
	EventID      *int64          `json:"event_id,omitempty"`
	RegisterLink string          `json:"register_link,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ComputeHandle derives the public handle for a form: a short, stable,
// non-reversible digest of (id, creation time, title). It is computed once
// at creation and persisted in an indexed column; it is never recomputed
// for lookup.
func ComputeHandle(id int64, createdAt time.Time, title string) string {
	sum := md5.Sum([]byte(fmt.Sprintf("%d_%d_%s", id, createdAt.UTC().Unix(), title)))
	return hex.EncodeToString(sum[:])[:12]
}

// FormSettings is the typed view of a form's free-form settings JSON.
// Settings are normalized here exactly once, at form load, so that every
// consumer (analytics ceilings in particular) sees the same structure.
type FormSettings struct {
	// TimeLimitMinutes is the quiz time limit ("timeLimit" key), 0 if unset.
	TimeLimitMinutes int
}

// ParseSettings decodes the raw settings JSON tolerantly. Legacy rows may
// hold a doubly-encoded JSON string; the time limit may be a number or a
// numeric string. Unknown keys are ignored. Malformed input yields the
// zero value rather than an error — settings are advisory.
func ParseSettings(raw json.RawMessage) FormSettings {
	var s FormSettings
	if len(raw) == 0 {
		return s
	}

	data := []byte(raw)

	// Unwrap a doubly-encoded settings object.
	var asString string
	if err := json.Unmarshal(data, &asString); err == nil {
		data = []byte(asString)
	}

	var obj map[string]interface{}
	if err := json.Unmarshal(data, &obj); err != nil {
		return s
	}

	switch v := obj["timeLimit"].(type) {
	case float64:
		s.TimeLimitMinutes = int(v)
	case string:
		var n int
		if _, err := fmt.Sscanf(v, "%d", &n); err == nil {
			s.TimeLimitMinutes = n
		}
	}
	return s
}

// CreateFormRequest is the payload for creating a new form.
type CreateFormRequest struct {
	Title        string                 `json:"title" binding:"required,min=1,max=255"`
	Description  string                 `json:"description" binding:"omitempty,max=2000"`
	Category     string                 `json:"type" binding:"required,oneof=quiz poll feedback attendance"`
	Questions    []QuestionInput        `json:"questions" binding:"omitempty,dive"`
	Settings     map[string]interface{} `json:"settings" binding:"omitempty"`
	EventID      *int64                 `json:"event_id" binding:"omitempty"`
	RegisterLink string                 `json:"register_link" binding:"omitempty,max=512"`
}

// UpdateFormRequest is the payload for updating an existing form.
// The category is intentionally absent: it is immutable.
type UpdateFormRequest struct {
	Title        *string                `json:"title" binding:"omitempty,min=1,max=255"`
	Description  *string                `json:"description" binding:"omitempty,max=2000"`
	IsActive     *bool                  `json:"is_active" binding:"omitempty"`
	Questions    []QuestionInput        `json:"questions" binding:"omitempty,dive"`
	Settings     map[string]interface{} `json:"settings" binding:"omitempty"`
	RegisterLink *string                `json:"register_link" binding:"omitempty,max=512"`
}

// FormSummary is a list-view item including the denormalized response count
// and the shareable fill link.
type FormSummary struct {
	ID            int64        `json:"id"`
	Title         string       `json:"title"`
	Description   string       `json:"description"`
	Category      FormCategory `json:"type"`
	IsActive      bool         `json:"is_active"`
	ResponseCount int          `json:"response_count"`
	Handle        string       `json:"form_hash"`
	FormLink      string       `json:"form_link"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// PublicForm is the payload served on the public fill path. Correct answers
// are stripped and points are zeroed for non-quiz categories.
type PublicForm struct {
	ID           int64            `json:"id"`
	Title        string           `json:"title"`
	Description  string           `json:"description"`
	Category     FormCategory     `json:"type"`
	Settings     json.RawMessage  `json:"settings"`
	RegisterLink string           `json:"register_link,omitempty"`
	Questions    []PublicQuestion `json:"questions"`
}
