package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/evenza/eventdesk-backend/internal/model"
	"github.com/evenza/eventdesk-backend/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

const (
	// defaultTimeCeiling caps plausible completion times when no tighter
	// bound applies. Times above the ceiling are treated as left-open tabs
	// and excluded from the average.
	defaultTimeCeiling = 7200
	// attendanceTimeCeiling bounds attendance check-ins, which take seconds.
	attendanceTimeCeiling = 300

	// feedbackMinLength is the combined trimmed length of text answers a
	// feedback submission must reach to count as substantive.
	feedbackMinLength = 150

	leaderboardSize = 10
	recentSize      = 10
)

// AnalyticsService maintains the denormalized per-form aggregates and
// builds the full dashboard report.
type AnalyticsService struct {
	formRepo      *repository.FormRepository
	questionRepo  *repository.QuestionRepository
	responseRepo  *repository.ResponseRepository
	analyticsRepo *repository.AnalyticsRepository
	log           zerolog.Logger
}

// NewAnalyticsService creates a new AnalyticsService.
func NewAnalyticsService(
	formRepo *repository.FormRepository,
	questionRepo *repository.QuestionRepository,
	responseRepo *repository.ResponseRepository,
	analyticsRepo *repository.AnalyticsRepository,
	log zerolog.Logger,
) *AnalyticsService {
	return &AnalyticsService{
		formRepo:      formRepo,
		questionRepo:  questionRepo,
		responseRepo:  responseRepo,
		analyticsRepo: analyticsRepo,
		log:           log.With().Str("component", "analytics_service").Logger(),
	}
}

// Recompute rebuilds a form's aggregates from its full response log and
// persists them. Both the per-submission trigger and the batch repair tool
// funnel through here, so the outlier filter can never diverge between the
// incremental and batch paths.
func (s *AnalyticsService) Recompute(ctx context.Context, formID int64) (*model.AnalyticsSummary, error) {
	form, err := s.formRepo.GetByID(ctx, formID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrFormNotFound
		}
		return nil, err
	}

	responses, err := s.responseRepo.ListByForm(ctx, formID)
	if err != nil {
		return nil, err
	}

	summary := computeSummary(form, responses)
	if err := s.analyticsRepo.Upsert(ctx, summary); err != nil {
		return nil, err
	}
	return summary, nil
}

// RepairAll recomputes aggregates for every form. Returns the number of
// forms whose stored row actually changed.
func (s *AnalyticsService) RepairAll(ctx context.Context) (int, error) {
	ids, err := s.formRepo.ListIDs(ctx)
	if err != nil {
		return 0, err
	}

	repaired := 0
	for _, id := range ids {
		before, beforeErr := s.analyticsRepo.Get(ctx, id)
		after, err := s.Recompute(ctx, id)
		if err != nil {
			s.log.Warn().Err(err).Int64("form_id", id).Msg("Recompute failed, skipping")
			continue
		}
		if beforeErr != nil || summariesDiffer(before, after) {
			repaired++
		}
	}

	s.log.Info().Int("forms", len(ids)).Int("repaired", repaired).Msg("Analytics repair complete")
	return repaired, nil
}

// Discrepancy describes one stored aggregate that disagrees with the value
// recomputed from the response log.
type Discrepancy struct {
	FormID   int64  `json:"form_id"`
	Field    string `json:"field"`
	Stored   string `json:"stored"`
	Computed string `json:"computed"`
}

// Validate recomputes every form's aggregates without writing anything and
// reports the differences against the stored rows.
func (s *AnalyticsService) Validate(ctx context.Context) ([]Discrepancy, error) {
	ids, err := s.formRepo.ListIDs(ctx)
	if err != nil {
		return nil, err
	}

	var discrepancies []Discrepancy
	for _, id := range ids {
		form, err := s.formRepo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		responses, err := s.responseRepo.ListByForm(ctx, id)
		if err != nil {
			return nil, err
		}
		computed := computeSummary(form, responses)

		stored, err := s.analyticsRepo.Get(ctx, id)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				discrepancies = append(discrepancies, Discrepancy{
					FormID: id, Field: "row", Stored: "missing",
					Computed: fmt.Sprintf("%d responses", computed.TotalResponses),
				})
				continue
			}
			return nil, err
		}

		if stored.TotalResponses != computed.TotalResponses {
			discrepancies = append(discrepancies, Discrepancy{
				FormID: id, Field: "total_responses",
				Stored:   strconv.Itoa(stored.TotalResponses),
				Computed: strconv.Itoa(computed.TotalResponses),
			})
		}
		if stored.AverageScore != computed.AverageScore {
			discrepancies = append(discrepancies, Discrepancy{
				FormID: id, Field: "average_score",
				Stored: stored.AverageScore, Computed: computed.AverageScore,
			})
		}
		if stored.AverageTime != computed.AverageTime {
			discrepancies = append(discrepancies, Discrepancy{
				FormID: id, Field: "average_time",
				Stored:   strconv.Itoa(stored.AverageTime),
				Computed: strconv.Itoa(computed.AverageTime),
			})
		}
	}
	return discrepancies, nil
}

// BuildReport assembles the full analytics payload for one form.
func (s *AnalyticsService) BuildReport(ctx context.Context, formID int64) (*model.AnalyticsReport, error) {
	form, err := s.formRepo.GetByID(ctx, formID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrFormNotFound
		}
		return nil, err
	}

	questions, err := s.questionRepo.ListByForm(ctx, formID)
	if err != nil {
		return nil, err
	}
	responses, err := s.responseRepo.ListByForm(ctx, formID)
	if err != nil {
		return nil, err
	}

	summary, err := s.analyticsRepo.Get(ctx, formID)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		// Row lost to manual meddling; heal it.
		if summary, err = s.Recompute(ctx, formID); err != nil {
			return nil, err
		}
	}

	report := &model.AnalyticsReport{
		FormTitle:        form.Title,
		FormType:         form.Category,
		TotalResponses:   summary.TotalResponses,
		AverageScore:     summary.AverageScore,
		AverageTime:      summary.AverageTime,
		CompletionRate:   completionRate(form.Category, summary.TotalResponses),
		QuestionStats:    buildQuestionStats(form.Category, questions, responses),
		ResponseTimeline: buildTimeline(responses),
		RecentResponses:  recentResponses(responses, recentSize),
	}

	if form.Category == model.FormCategoryQuiz {
		top, err := s.responseRepo.TopByScore(ctx, formID, leaderboardSize)
		if err != nil {
			return nil, err
		}
		report.TopStudents = top
	}

	return report, nil
}

func summariesDiffer(a, b *model.AnalyticsSummary) bool {
	return a.TotalResponses != b.TotalResponses ||
		a.AverageScore != b.AverageScore ||
		a.AverageTime != b.AverageTime
}

// ────────────────────────────────────────────────────────────────────────────
// Aggregation
// ────────────────────────────────────────────────────────────────────────────

// outlierCeiling returns the maximum plausible completion time in seconds
// for a form. Quiz forms with a time limit get twice the limit as slack;
// attendance check-ins get a tight bound; everything else gets the default.
func outlierCeiling(category model.FormCategory, settings model.FormSettings) int {
	switch {
	case category == model.FormCategoryAttendance:
		return attendanceTimeCeiling
	case category == model.FormCategoryQuiz && settings.TimeLimitMinutes > 0:
		return settings.TimeLimitMinutes * 60 * 2
	default:
		return defaultTimeCeiling
	}
}

// computeSummary derives the stored aggregates from the full response log.
// The average time excludes non-positive and above-ceiling times; the
// average score is only meaningful for quizzes and reads "0.00" elsewhere.
func computeSummary(form *model.Form, responses []model.FormResponse) *model.AnalyticsSummary {
	summary := &model.AnalyticsSummary{
		FormID:         form.ID,
		TotalResponses: len(responses),
		AverageScore:   "0.00",
	}

	if form.Category == model.FormCategoryQuiz && len(responses) > 0 {
		scoreSum := 0
		for _, r := range responses {
			scoreSum += r.Score
		}
		summary.AverageScore = fmt.Sprintf("%.2f", float64(scoreSum)/float64(len(responses)))
	}

	ceiling := outlierCeiling(form.Category, model.ParseSettings(form.Settings))
	timeSum, timeCount := 0, 0
	for _, r := range responses {
		if r.TimeTaken > 0 && r.TimeTaken <= ceiling {
			timeSum += r.TimeTaken
			timeCount++
		}
	}
	if timeCount > 0 {
		summary.AverageTime = timeSum / timeCount
	}

	return summary
}

// completionRate estimates how many of the people who opened a form went on
// to submit it. Access counts are not tracked, so the denominator is the
// response count inflated by a per-category drop-off factor. The result is
// a heuristic, clamped to [0,100] and rounded to one decimal.
func completionRate(category model.FormCategory, total int) float64 {
	if total == 0 {
		return 0
	}

	multiplier := 1.15
	switch category {
	case model.FormCategoryAttendance:
		multiplier = 1.1
	case model.FormCategoryQuiz:
		multiplier = 1.3
	case model.FormCategoryFeedback:
		multiplier = 1.25
	}

	accessed := int(float64(total) * multiplier)
	if accessed < total {
		accessed = total
	}

	rate := float64(total) / float64(accessed) * 100
	if rate > 100 {
		rate = 100
	}
	if rate < 0 {
		rate = 0
	}
	return math.Round(rate*10) / 10
}

// buildQuestionStats produces the per-question breakdown. Choice questions
// tally only declared options; rating questions report a mean and a 1..5
// histogram; text questions report counts and a sample, with the
// substantive-answer count added on feedback forms.
func buildQuestionStats(category model.FormCategory, questions []model.Question, responses []model.FormResponse) []model.QuestionStats {
	stats := make([]model.QuestionStats, 0, len(questions))
	for _, q := range questions {
		st := model.QuestionStats{
			QuestionText: q.QuestionText,
			QuestionType: q.QuestionType,
		}

		switch {
		case q.QuestionType.IsChoice():
			counts := make(map[string]int, len(q.Options))
			for _, opt := range q.Options {
				counts[opt] = 0
			}
			for _, r := range responses {
				for _, v := range r.Answers.Values(q.ID) {
					v = strings.TrimSpace(v)
					if _, declared := counts[v]; declared {
						counts[v]++
					}
				}
			}
			st.OptionCounts = counts

		case q.QuestionType == model.QuestionTypeRating:
			dist := map[string]int{"1": 0, "2": 0, "3": 0, "4": 0, "5": 0}
			sum, n := 0, 0
			for _, r := range responses {
				v := strings.TrimSpace(r.Answers.StringValue(q.ID))
				rating, err := strconv.Atoi(v)
				if err != nil || rating < 1 || rating > 5 {
					continue
				}
				dist[v]++
				sum += rating
				n++
			}
			st.RatingDistribution = dist
			if n > 0 {
				avg := math.Round(float64(sum)/float64(n)*100) / 100
				st.AverageRating = &avg
			}

		case q.QuestionType == model.QuestionTypeText:
			count, valid := 0, 0
			var sample []string
			for _, r := range responses {
				v := strings.TrimSpace(r.Answers.StringValue(q.ID))
				if v == "" {
					continue
				}
				count++
				if len(v) >= feedbackMinLength {
					valid++
				}
				if len(sample) < 10 {
					sample = append(sample, v)
				}
			}
			st.ResponseCount = &count
			st.Responses = sample
			if category == model.FormCategoryFeedback {
				st.ValidResponses = &valid
			}
		}

		stats = append(stats, st)
	}
	return stats
}

// buildTimeline buckets responses by submission date.
func buildTimeline(responses []model.FormResponse) map[string]int {
	timeline := make(map[string]int)
	for _, r := range responses {
		timeline[r.SubmittedAt.Format("2006-01-02")]++
	}
	return timeline
}

// recentResponses returns the newest n responses, newest first. Input is
// ordered oldest first.
func recentResponses(responses []model.FormResponse, n int) []model.ResponseDigest {
	digests := make([]model.ResponseDigest, 0, n)
	for i := len(responses) - 1; i >= 0 && len(digests) < n; i-- {
		r := responses[i]
		digests = append(digests, model.ResponseDigest{
			UserName:    r.UserName,
			UserEmail:   r.UserEmail,
			Score:       r.Score,
			TimeTaken:   r.TimeTaken,
			SubmittedAt: r.SubmittedAt,
		})
	}
	return digests
}
