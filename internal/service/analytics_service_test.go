package service

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/evenza/eventdesk-backend/internal/model"
)

func quizForm(settings string) *model.Form {
	f := &model.Form{ID: 1, Category: model.FormCategoryQuiz}
	if settings != "" {
		f.Settings = json.RawMessage(settings)
	}
	return f
}

func respWith(score, timeTaken int) model.FormResponse {
	return model.FormResponse{Score: score, TimeTaken: timeTaken, SubmittedAt: time.Now()}
}

func TestOutlierCeiling(t *testing.T) {
	tests := []struct {
		name     string
		category model.FormCategory
		settings model.FormSettings
		want     int
	}{
		{"attendance", model.FormCategoryAttendance, model.FormSettings{}, 300},
		{"quiz with limit", model.FormCategoryQuiz, model.FormSettings{TimeLimitMinutes: 30}, 3600},
		{"quiz without limit", model.FormCategoryQuiz, model.FormSettings{}, 7200},
		{"feedback", model.FormCategoryFeedback, model.FormSettings{}, 7200},
		{"poll", model.FormCategoryPoll, model.FormSettings{}, 7200},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := outlierCeiling(tt.category, tt.settings); got != tt.want {
				t.Errorf("outlierCeiling = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestComputeSummaryQuiz(t *testing.T) {
	form := quizForm("")
	responses := []model.FormResponse{
		respWith(5, 100),
		respWith(4, 200),
		respWith(2, 0),    // no time recorded: excluded from time average
		respWith(0, 9000), // above default ceiling: excluded from time average
	}

	s := computeSummary(form, responses)

	if s.TotalResponses != 4 {
		t.Errorf("TotalResponses = %d, want 4", s.TotalResponses)
	}
	// Score average keeps all four responses: (5+4+2+0)/4.
	if s.AverageScore != "2.75" {
		t.Errorf("AverageScore = %s, want 2.75", s.AverageScore)
	}
	// Time average keeps only the two plausible times: (100+200)/2.
	if s.AverageTime != 150 {
		t.Errorf("AverageTime = %d, want 150", s.AverageTime)
	}
}

func TestComputeSummaryQuizTimeLimitCeiling(t *testing.T) {
	form := quizForm(`{"timeLimit": 5}`)
	responses := []model.FormResponse{
		respWith(1, 500),
		respWith(1, 601), // over 5*60*2: excluded
	}

	s := computeSummary(form, responses)
	if s.AverageTime != 500 {
		t.Errorf("AverageTime = %d, want 500", s.AverageTime)
	}
}

func TestComputeSummaryNonQuizScoreStaysZero(t *testing.T) {
	form := &model.Form{ID: 2, Category: model.FormCategoryPoll}
	responses := []model.FormResponse{respWith(3, 60)}

	s := computeSummary(form, responses)
	if s.AverageScore != "0.00" {
		t.Errorf("AverageScore = %s, want 0.00", s.AverageScore)
	}
	if s.AverageTime != 60 {
		t.Errorf("AverageTime = %d, want 60", s.AverageTime)
	}
}

func TestComputeSummaryEmpty(t *testing.T) {
	s := computeSummary(quizForm(""), nil)
	if s.TotalResponses != 0 || s.AverageScore != "0.00" || s.AverageTime != 0 {
		t.Errorf("empty summary = %+v", s)
	}
}

func TestComputeSummaryAllTimesFiltered(t *testing.T) {
	form := &model.Form{ID: 3, Category: model.FormCategoryAttendance}
	responses := []model.FormResponse{respWith(0, 301), respWith(0, -5), respWith(0, 0)}

	s := computeSummary(form, responses)
	if s.AverageTime != 0 {
		t.Errorf("AverageTime = %d, want 0 when every time is filtered", s.AverageTime)
	}
	if s.TotalResponses != 3 {
		t.Errorf("TotalResponses = %d, want 3", s.TotalResponses)
	}
}

func TestCompletionRate(t *testing.T) {
	tests := []struct {
		name     string
		category model.FormCategory
		total    int
		want     float64
	}{
		{"zero responses", model.FormCategoryQuiz, 0, 0},
		{"quiz", model.FormCategoryQuiz, 100, 76.9},              // 100/130
		{"feedback", model.FormCategoryFeedback, 100, 80},        // 100/125
		{"poll", model.FormCategoryPoll, 100, 87},                // 100/115
		{"attendance", model.FormCategoryAttendance, 100, 90.9},  // 100/110
		{"single response", model.FormCategoryQuiz, 1, 100},      // int(1*1.3)=1
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := completionRate(tt.category, tt.total); got != tt.want {
				t.Errorf("completionRate(%s, %d) = %v, want %v", tt.category, tt.total, got, tt.want)
			}
		})
	}
}

func TestBuildQuestionStatsChoice(t *testing.T) {
	questions := []model.Question{{
		ID: 1, QuestionType: model.QuestionTypeSingleChoice,
		QuestionText: "Favorite track?",
		Options:      []string{"Backend", "Frontend"},
	}}
	responses := []model.FormResponse{
		{Answers: model.AnswerSet{"1": "Backend"}},
		{Answers: model.AnswerSet{"1": " Backend "}}, // trimmed before tallying
		{Answers: model.AnswerSet{"1": "Frontend"}},
		{Answers: model.AnswerSet{"1": "DevOps"}}, // undeclared: ignored
		{Answers: model.AnswerSet{"1": "backend"}}, // case-sensitive: ignored
	}

	stats := buildQuestionStats(model.FormCategoryPoll, questions, responses)
	if len(stats) != 1 {
		t.Fatalf("got %d stats", len(stats))
	}
	counts := stats[0].OptionCounts
	if counts["Backend"] != 2 || counts["Frontend"] != 1 {
		t.Errorf("OptionCounts = %v", counts)
	}
}

func TestBuildQuestionStatsMultipleChoiceFlattens(t *testing.T) {
	questions := []model.Question{{
		ID: 1, QuestionType: model.QuestionTypeMultipleChoice,
		Options: []string{"Go", "Rust", "Zig"},
	}}
	responses := []model.FormResponse{
		{Answers: model.AnswerSet{"1": []interface{}{"Go", "Rust"}}},
		{Answers: model.AnswerSet{"1": []interface{}{"Go"}}},
	}

	stats := buildQuestionStats(model.FormCategoryPoll, questions, responses)
	counts := stats[0].OptionCounts
	if counts["Go"] != 2 || counts["Rust"] != 1 || counts["Zig"] != 0 {
		t.Errorf("OptionCounts = %v", counts)
	}
}

func TestBuildQuestionStatsRating(t *testing.T) {
	questions := []model.Question{{ID: 1, QuestionType: model.QuestionTypeRating}}
	responses := []model.FormResponse{
		{Answers: model.AnswerSet{"1": float64(5)}},
		{Answers: model.AnswerSet{"1": "4"}},
		{Answers: model.AnswerSet{"1": "9"}},   // out of range: ignored
		{Answers: model.AnswerSet{"1": "meh"}}, // non-numeric: ignored
	}

	stats := buildQuestionStats(model.FormCategoryFeedback, questions, responses)
	st := stats[0]
	if st.AverageRating == nil || *st.AverageRating != 4.5 {
		t.Fatalf("AverageRating = %v, want 4.5", st.AverageRating)
	}
	if st.RatingDistribution["5"] != 1 || st.RatingDistribution["4"] != 1 || st.RatingDistribution["1"] != 0 {
		t.Errorf("RatingDistribution = %v", st.RatingDistribution)
	}
}

func TestBuildQuestionStatsText(t *testing.T) {
	long := make([]byte, 150)
	for i := range long {
		long[i] = 'a'
	}

	questions := []model.Question{{ID: 1, QuestionType: model.QuestionTypeText}}
	responses := []model.FormResponse{
		{Answers: model.AnswerSet{"1": string(long)}},
		{Answers: model.AnswerSet{"1": "short"}},
		{Answers: model.AnswerSet{"1": "   "}}, // blank: not counted
	}

	stats := buildQuestionStats(model.FormCategoryFeedback, questions, responses)
	st := stats[0]
	if st.ResponseCount == nil || *st.ResponseCount != 2 {
		t.Fatalf("ResponseCount = %v, want 2", st.ResponseCount)
	}
	if st.ValidResponses == nil || *st.ValidResponses != 1 {
		t.Fatalf("ValidResponses = %v, want 1", st.ValidResponses)
	}
	if len(st.Responses) != 2 {
		t.Errorf("sample size = %d, want 2", len(st.Responses))
	}

	// Outside feedback forms the substantive-answer count is omitted.
	stats = buildQuestionStats(model.FormCategoryPoll, questions, responses)
	if stats[0].ValidResponses != nil {
		t.Error("ValidResponses set on non-feedback form")
	}
}

func TestBuildQuestionStatsTextSampleCap(t *testing.T) {
	questions := []model.Question{{ID: 1, QuestionType: model.QuestionTypeText}}
	var responses []model.FormResponse
	for i := 0; i < 15; i++ {
		responses = append(responses, model.FormResponse{Answers: model.AnswerSet{"1": "answer"}})
	}

	stats := buildQuestionStats(model.FormCategoryPoll, questions, responses)
	if len(stats[0].Responses) != 10 {
		t.Errorf("sample size = %d, want 10", len(stats[0].Responses))
	}
	if *stats[0].ResponseCount != 15 {
		t.Errorf("ResponseCount = %d, want 15", *stats[0].ResponseCount)
	}
}

func TestBuildTimeline(t *testing.T) {
	day1 := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 4, 2, 9, 0, 0, 0, time.UTC)
	responses := []model.FormResponse{
		{SubmittedAt: day1},
		{SubmittedAt: day1.Add(4 * time.Hour)},
		{SubmittedAt: day2},
	}

	timeline := buildTimeline(responses)
	if timeline["2026-04-01"] != 2 || timeline["2026-04-02"] != 1 {
		t.Errorf("timeline = %v", timeline)
	}
}

func TestRecentResponsesNewestFirst(t *testing.T) {
	base := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	var responses []model.FormResponse
	for i := 0; i < 12; i++ {
		responses = append(responses, model.FormResponse{
			UserName:    string(rune('a' + i)),
			SubmittedAt: base.Add(time.Duration(i) * time.Minute),
		})
	}

	recent := recentResponses(responses, 10)
	if len(recent) != 10 {
		t.Fatalf("got %d recent responses, want 10", len(recent))
	}
	if recent[0].UserName != "l" || recent[9].UserName != "c" {
		t.Errorf("unexpected order: first=%s last=%s", recent[0].UserName, recent[9].UserName)
	}
}
