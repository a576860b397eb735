package model

import "time"

// AnalyticsSummary holds the denormalized running aggregates for one form.
// It is a cache over the response log, created alongside the form and
// recoverable at any time by full recomputation.
type AnalyticsSummary struct {
	FormID         int64     `json:"form_id"`
	TotalResponses int       `json:"total_responses"`
	AverageScore   string    `json:"average_score"`
	AverageTime    int       `json:"average_time"`
	LastUpdated    time.Time `json:"last_updated"`
}

// QuestionStats is the per-question analytics breakdown. Which fields are
// populated depends on the question type.
type QuestionStats struct {
	QuestionText string       `json:"question_text"`
	QuestionType QuestionType `json:"question_type"`

	// Choice / yes-no questions.
	OptionCounts map[string]int `json:"option_counts,omitempty"`

	// Rating questions.
	AverageRating      *float64       `json:"average_rating,omitempty"`
	RatingDistribution map[string]int `json:"rating_distribution,omitempty"`

	// Text questions. ValidResponses counts answers meeting the feedback
	// length threshold and is set for feedback forms only. Responses is
	// capped at the first 10 raw answers.
	ResponseCount  *int     `json:"response_count,omitempty"`
	ValidResponses *int     `json:"valid_responses,omitempty"`
	Responses      []string `json:"responses,omitempty"`
}

// TopStudent is a leaderboard entry for quiz forms.
type TopStudent struct {
	UserName    string    `json:"user_name"`
	UserEmail   string    `json:"user_email"`
	Score       int       `json:"score"`
	College     string    `json:"college"`
	TimeTaken   int       `json:"time_taken"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// ResponseDigest is a compact view of a response for recent-activity lists.
type ResponseDigest struct {
	UserName    string    `json:"user_name"`
	UserEmail   string    `json:"user_email"`
	Score       int       `json:"score"`
	TimeTaken   int       `json:"time_taken"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// AnalyticsReport is the full dashboard analytics payload for one form.
// CompletionRate is estimated at read time from per-category drop-off
// multipliers — it is a documented heuristic, not a measurement, until
// real access tracking exists.
type AnalyticsReport struct {
	FormTitle        string           `json:"form_title"`
	FormType         FormCategory     `json:"form_type"`
	TotalResponses   int              `json:"total_responses"`
	AverageScore     string           `json:"average_score"`
	AverageTime      int              `json:"average_time"`
	CompletionRate   float64          `json:"completion_rate"`
	QuestionStats    []QuestionStats  `json:"question_analytics"`
	ResponseTimeline map[string]int   `json:"response_timeline"`
	TopStudents      []TopStudent     `json:"top_students"`
	RecentResponses  []ResponseDigest `json:"recent_responses"`
}
