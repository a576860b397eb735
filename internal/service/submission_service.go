package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/evenza/eventdesk-backend/internal/model"
	"github.com/evenza/eventdesk-backend/internal/realtime"
	"github.com/evenza/eventdesk-backend/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// Submission errors.
var (
	ErrNotRegistered        = errors.New("email is not registered for the event")
	ErrRegistrationMismatch = errors.New("registration id does not match")
	ErrInsufficientDetail   = errors.New("feedback does not meet the minimum combined length")
	ErrDuplicateSubmission  = errors.New("a response for this form and email already exists")
	ErrAttendanceMarked     = errors.New("attendance already marked")
)

// FieldErrors carries per-question validation failures up to the handler.
type FieldErrors map[string]string

func (f FieldErrors) Error() string {
	return fmt.Sprintf("%d field(s) failed validation", len(f))
}

// SubmissionService runs the public submission pipeline: category-specific
// validation, scoring, storage, then asynchronous aggregate refresh and
// realtime fan-out.
type SubmissionService struct {
	formRepo         *repository.FormRepository
	questionRepo     *repository.QuestionRepository
	responseRepo     *repository.ResponseRepository
	registrationRepo *repository.RegistrationRepository
	analytics        *AnalyticsService
	hub              *realtime.Hub
	log              zerolog.Logger
}

// NewSubmissionService creates a new SubmissionService.
func NewSubmissionService(
	formRepo *repository.FormRepository,
	questionRepo *repository.QuestionRepository,
	responseRepo *repository.ResponseRepository,
	registrationRepo *repository.RegistrationRepository,
	analytics *AnalyticsService,
	hub *realtime.Hub,
	log zerolog.Logger,
) *SubmissionService {
	return &SubmissionService{
		formRepo:         formRepo,
		questionRepo:     questionRepo,
		responseRepo:     responseRepo,
		registrationRepo: registrationRepo,
		analytics:        analytics,
		hub:              hub,
		log:              log.With().Str("component", "submission_service").Logger(),
	}
}

// Submit validates and stores one submission against the form behind the
// given public handle. The stored response is the commit point: analytics
// and the live feed are refreshed asynchronously afterwards and may lag a
// successful submission.
func (s *SubmissionService) Submit(ctx context.Context, handle string, req *model.SubmitRequest) (*model.SubmitResult, error) {
	form, err := s.formRepo.GetActiveByHandle(ctx, handle)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrFormNotFound
		}
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(req.UserEmail))

	// Every submission, whatever the category, must come from a registered
	// attendee.
	if err := s.checkRegistration(ctx, email, req.RegistrationID); err != nil {
		return nil, err
	}

	questions, err := s.questionRepo.ListByForm(ctx, form.ID)
	if err != nil {
		return nil, err
	}

	if missing := missingRequired(questions, req.Responses); len(missing) > 0 {
		return nil, missing
	}

	if form.Category == model.FormCategoryFeedback {
		if feedbackTextLength(questions, req.Responses) < feedbackMinLength {
			return nil, ErrInsufficientDetail
		}
	}

	// Duplicates are checked after the content gates so an invalid resubmit
	// reports its real problem. Early rejection only; the unique constraint
	// on insert is the real guard.
	if exists, err := s.responseRepo.ExistsByFormAndEmail(ctx, form.ID, email); err != nil {
		return nil, err
	} else if exists {
		if form.Category == model.FormCategoryAttendance {
			return nil, ErrAttendanceMarked
		}
		return nil, ErrDuplicateSubmission
	}

	resp := &model.FormResponse{
		FormID:    form.ID,
		UserEmail: email,
		UserName:  strings.TrimSpace(req.UserName),
		Answers:   req.Responses,
		TimeTaken: req.TimeTaken,
	}

	result := &model.SubmitResult{Message: "Response submitted successfully"}
	if form.Category == model.FormCategoryQuiz {
		score, totalPoints := scoreQuiz(questions, req.Responses)
		resp.Score = score
		result.Score = &score
		result.TotalPoints = &totalPoints
	}
	if form.Category == model.FormCategoryAttendance {
		result.Message = "Attendance marked successfully"
	}

	if err := s.responseRepo.Create(ctx, resp); err != nil {
		if errors.Is(err, repository.ErrDuplicateResponse) {
			if form.Category == model.FormCategoryAttendance {
				return nil, ErrAttendanceMarked
			}
			return nil, ErrDuplicateSubmission
		}
		return nil, err
	}

	s.log.Info().
		Int64("form_id", form.ID).
		Str("category", string(form.Category)).
		Int("score", resp.Score).
		Msg("Response stored")

	// Post-commit work runs detached from the request context: a client
	// hangup must not lose the aggregate refresh.
	go s.afterSubmit(form, resp)

	return result, nil
}

func (s *SubmissionService) afterSubmit(form *model.Form, resp *model.FormResponse) {
	ctx := context.Background()
	if _, err := s.analytics.Recompute(ctx, form.ID); err != nil {
		s.log.Error().Err(err).Int64("form_id", form.ID).Msg("Post-submit analytics refresh failed")
	}
	s.hub.BroadcastToForm(form.ID, realtime.NewResponse(resp, form.Category == model.FormCategoryQuiz))
}

// HasSubmitted reports whether a response exists for the form behind the
// handle and the given email. Used by clients to pre-empt duplicates.
func (s *SubmissionService) HasSubmitted(ctx context.Context, handle, email string) (bool, error) {
	form, err := s.formRepo.GetActiveByHandle(ctx, handle)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, ErrFormNotFound
		}
		return false, err
	}
	email = strings.ToLower(strings.TrimSpace(email))
	return s.responseRepo.ExistsByFormAndEmail(ctx, form.ID, email)
}

// ListResponses retrieves a form's responses for the dashboard, newest
// first.
func (s *SubmissionService) ListResponses(ctx context.Context, formID int64) ([]model.FormResponse, error) {
	if _, err := s.formRepo.GetByID(ctx, formID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrFormNotFound
		}
		return nil, err
	}
	responses, err := s.responseRepo.ListByFormNewestFirst(ctx, formID)
	if err != nil {
		return nil, err
	}
	if responses == nil {
		responses = []model.FormResponse{}
	}
	return responses, nil
}

// checkRegistration verifies the submitter against the registration list.
// A registration id, when supplied, must match the stored one.
func (s *SubmissionService) checkRegistration(ctx context.Context, email, registrationID string) error {
	reg, err := s.registrationRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotRegistered
		}
		return err
	}
	if registrationID != "" && reg.RegistrationID != registrationID {
		return ErrRegistrationMismatch
	}
	return nil
}

// ────────────────────────────────────────────────────────────────────────────
// Validation and scoring
// ────────────────────────────────────────────────────────────────────────────

// missingRequired returns a field error for every required question without
// a usable answer.
func missingRequired(questions []model.Question, answers model.AnswerSet) FieldErrors {
	missing := FieldErrors{}
	for _, q := range questions {
		if !q.IsRequired {
			continue
		}
		answered := false
		for _, v := range answers.Values(q.ID) {
			if strings.TrimSpace(v) != "" {
				answered = true
				break
			}
		}
		if !answered {
			missing[fmt.Sprintf("%d", q.ID)] = "This question is required."
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return missing
}

// feedbackTextLength sums the trimmed lengths of all text-question answers.
func feedbackTextLength(questions []model.Question, answers model.AnswerSet) int {
	total := 0
	for _, q := range questions {
		if q.QuestionType != model.QuestionTypeText {
			continue
		}
		total += model.TrimmedLen(answers.StringValue(q.ID))
	}
	return total
}

// scoreQuiz grades a quiz submission. An answer earns the question's points
// on an exact string match with the correct answer, after trimming. The
// returned total is the maximum attainable.
func scoreQuiz(questions []model.Question, answers model.AnswerSet) (score, totalPoints int) {
	for _, q := range questions {
		totalPoints += q.Points
		if q.CorrectAnswer == "" {
			continue
		}
		given := strings.TrimSpace(answers.StringValue(q.ID))
		if given != "" && given == strings.TrimSpace(q.CorrectAnswer) {
			score += q.Points
		}
	}
	return score, totalPoints
}
