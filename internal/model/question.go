package model

// QuestionType enumerates the supported question kinds.
type QuestionType string

const (
	QuestionTypeMultipleChoice QuestionType = "multiple_choice"
	QuestionTypeSingleChoice   QuestionType = "single_choice"
	QuestionTypeText           QuestionType = "text"
	QuestionTypeRating         QuestionType = "rating"
	QuestionTypeYesNo          QuestionType = "yes_no"
)

// IsChoice reports whether the type carries a declared option list.
func (t QuestionType) IsChoice() bool {
	return t == QuestionTypeMultipleChoice || t == QuestionTypeSingleChoice || t == QuestionTypeYesNo
}

// Question represents a single form question. Order indices are unique
// within a form and contiguous from 0 (assigned from list position).
type Question struct {
	ID            int64        `json:"id"`
	FormID        int64        `json:"form_id"`
	QuestionText  string       `json:"question_text"`
	QuestionType  QuestionType `json:"question_type"`
	Options       []string     `json:"options"`
	IsRequired    bool         `json:"is_required"`
	Points        int          `json:"points"`
	CorrectAnswer string       `json:"correct_answer,omitempty"`
	OrderIndex    int          `json:"order_index"`
}

// QuestionInput is the question payload inside form create/update requests.
type QuestionInput struct {
	QuestionText  string   `json:"question_text" binding:"required,min=1,max=2000"`
	QuestionType  string   `json:"question_type" binding:"required,oneof=multiple_choice single_choice text rating yes_no"`
	Options       []string `json:"options" binding:"omitempty,max=20"`
	IsRequired    bool     `json:"is_required"`
	Points        int      `json:"points" binding:"omitempty,min=0,max=1000"`
	CorrectAnswer string   `json:"correct_answer" binding:"omitempty,max=2000"`
}

// PublicQuestion is a question as served on the public fill path: no
// correct answer, and points only visible for quiz forms.
type PublicQuestion struct {
	ID           int64        `json:"id"`
	QuestionText string       `json:"question_text"`
	QuestionType QuestionType `json:"question_type"`
	Options      []string     `json:"options"`
	IsRequired   bool         `json:"is_required"`
	Points       int          `json:"points"`
	OrderIndex   int          `json:"order_index"`
}
