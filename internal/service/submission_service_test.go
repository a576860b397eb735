package service

import (
	"strings"
	"testing"

	"github.com/evenza/eventdesk-backend/internal/model"
)

func TestScoreQuiz(t *testing.T) {
	questions := []model.Question{
		{ID: 1, QuestionType: model.QuestionTypeSingleChoice, Points: 5, CorrectAnswer: "Paris"},
		{ID: 2, QuestionType: model.QuestionTypeText, Points: 3, CorrectAnswer: "42"},
		{ID: 3, QuestionType: model.QuestionTypeSingleChoice, Points: 2, CorrectAnswer: "Blue"},
	}

	tests := []struct {
		name      string
		answers   model.AnswerSet
		wantScore int
	}{
		{"all correct", model.AnswerSet{"1": "Paris", "2": "42", "3": "Blue"}, 10},
		{"partially correct", model.AnswerSet{"1": "Paris", "2": "41", "3": "blue"}, 5},
		{"numeric answer matches string key", model.AnswerSet{"2": float64(42)}, 3},
		{"whitespace trimmed", model.AnswerSet{"1": "  Paris  "}, 5},
		{"no answers", model.AnswerSet{}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, total := scoreQuiz(questions, tt.answers)
			if score != tt.wantScore {
				t.Errorf("score = %d, want %d", score, tt.wantScore)
			}
			if total != 10 {
				t.Errorf("totalPoints = %d, want 10", total)
			}
		})
	}
}

func TestScoreQuizUnansweredEarnsNothing(t *testing.T) {
	// A question whose correct answer is blank must not match a blank
	// submission.
	questions := []model.Question{{ID: 1, Points: 5, CorrectAnswer: ""}}
	score, _ := scoreQuiz(questions, model.AnswerSet{})
	if score != 0 {
		t.Errorf("score = %d, want 0", score)
	}
}

func TestFeedbackTextLength(t *testing.T) {
	questions := []model.Question{
		{ID: 1, QuestionType: model.QuestionTypeText},
		{ID: 2, QuestionType: model.QuestionTypeRating},
		{ID: 3, QuestionType: model.QuestionTypeText},
	}
	answers := model.AnswerSet{
		"1": "  " + strings.Repeat("a", 100) + "  ",
		"2": "5",                    // rating: never counted
		"3": strings.Repeat("b", 50),
	}

	if got := feedbackTextLength(questions, answers); got != 150 {
		t.Errorf("feedbackTextLength = %d, want 150", got)
	}
}

func TestFeedbackTextLengthBoundary(t *testing.T) {
	questions := []model.Question{{ID: 1, QuestionType: model.QuestionTypeText}}

	// Exactly the threshold counts as substantive.
	answers := model.AnswerSet{"1": strings.Repeat("x", feedbackMinLength)}
	if got := feedbackTextLength(questions, answers); got < feedbackMinLength {
		t.Errorf("got %d, want >= %d", got, feedbackMinLength)
	}

	answers = model.AnswerSet{"1": strings.Repeat("x", feedbackMinLength-1)}
	if got := feedbackTextLength(questions, answers); got >= feedbackMinLength {
		t.Errorf("got %d, want < %d", got, feedbackMinLength)
	}
}

func TestMissingRequired(t *testing.T) {
	questions := []model.Question{
		{ID: 1, IsRequired: true},
		{ID: 2, IsRequired: false},
		{ID: 3, IsRequired: true},
		{ID: 4, IsRequired: true},
	}
	answers := model.AnswerSet{
		"1": "answered",
		"3": "   ", // blank does not satisfy a required question
	}

	missing := missingRequired(questions, answers)
	if len(missing) != 2 {
		t.Fatalf("got %d missing, want 2: %v", len(missing), missing)
	}
	if _, ok := missing["3"]; !ok {
		t.Error("expected question 3 to be missing")
	}
	if _, ok := missing["4"]; !ok {
		t.Error("expected question 4 to be missing")
	}
}

func TestMissingRequiredAllAnswered(t *testing.T) {
	questions := []model.Question{{ID: 1, IsRequired: true}}
	answers := model.AnswerSet{"1": []interface{}{"Go"}}

	if missing := missingRequired(questions, answers); missing != nil {
		t.Errorf("missing = %v, want nil", missing)
	}
}
