package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/evenza/eventdesk-backend/internal/config"
	"github.com/evenza/eventdesk-backend/internal/model"
	"github.com/evenza/eventdesk-backend/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Domain Errors
var (
	ErrFormNotFound         = errors.New("form not found")
	ErrQuestionsRequired    = errors.New("at least one question is required")
	ErrOptionsRequired      = errors.New("choice questions require a non-empty options list")
	ErrCorrectAnswerMissing = errors.New("quiz questions require a correct answer")
)

// publicPayloadTTL bounds staleness of the cached public form payload.
// Updates and deletes invalidate eagerly; the TTL covers everything else.
const publicPayloadTTL = 10 * time.Minute

// FormService handles form lifecycle and the public payload cache.
type FormService struct {
	formRepo     *repository.FormRepository
	questionRepo *repository.QuestionRepository
	rdb          *redis.Client
	cfg          *config.Config
	log          zerolog.Logger
}

// NewFormService creates a new FormService.
func NewFormService(
	formRepo *repository.FormRepository,
	questionRepo *repository.QuestionRepository,
	rdb *redis.Client,
	cfg *config.Config,
	log zerolog.Logger,
) *FormService {
	return &FormService{
		formRepo:     formRepo,
		questionRepo: questionRepo,
		rdb:          rdb,
		cfg:          cfg,
		log:          log.With().Str("component", "form_service").Logger(),
	}
}

// FormLink builds the shareable fill URL for a handle.
func (s *FormService) FormLink(handle string) string {
	return fmt.Sprintf("%s/form/%s", s.cfg.PublicBaseURL, handle)
}

// List retrieves all forms with response counts and fill links, newest first.
func (s *FormService) List(ctx context.Context) ([]model.FormSummary, error) {
	forms, err := s.formRepo.ListSummaries(ctx)
	if err != nil {
		return nil, err
	}
	if forms == nil {
		forms = []model.FormSummary{}
	}
	for i := range forms {
		forms[i].FormLink = s.FormLink(forms[i].Handle)
	}
	return forms, nil
}

// Create builds a form from the request and stores it with its questions.
// New forms are active immediately. Attendance forms may be question-free;
// every other category needs at least one question to be fillable.
func (s *FormService) Create(ctx context.Context, createdBy string, req *model.CreateFormRequest) (*model.Form, error) {
	category := model.FormCategory(req.Category)

	if len(req.Questions) == 0 && category != model.FormCategoryAttendance {
		return nil, ErrQuestionsRequired
	}

	questions, err := buildQuestions(category, req.Questions)
	if err != nil {
		return nil, err
	}

	form := &model.Form{
		Title:        req.Title,
		Description:  req.Description,
		Category:     category,
		Settings:     marshalSettings(req.Settings),
		IsActive:     true,
		CreatedBy:    createdBy,
		EventID:      req.EventID,
		RegisterLink: req.RegisterLink,
	}

	if err := s.formRepo.CreateWithQuestions(ctx, form, questions); err != nil {
		return nil, err
	}

	s.log.Info().
		Int64("form_id", form.ID).
		Str("category", string(form.Category)).
		Int("questions", len(questions)).
		Msg("Form created")
	return form, nil
}

// GetWithQuestions retrieves a form and its questions by internal id.
func (s *FormService) GetWithQuestions(ctx context.Context, id int64) (*model.Form, []model.Question, error) {
	form, err := s.formRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, ErrFormNotFound
		}
		return nil, nil, err
	}
	questions, err := s.questionRepo.ListByForm(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return form, questions, nil
}

// Update applies partial changes to a form. A questions list, when present,
// replaces the form's full question set. The category is immutable.
func (s *FormService) Update(ctx context.Context, id int64, req *model.UpdateFormRequest) (*model.Form, error) {
	form, err := s.formRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrFormNotFound
		}
		return nil, err
	}

	if req.Title != nil {
		form.Title = *req.Title
	}
	if req.Description != nil {
		form.Description = *req.Description
	}
	if req.IsActive != nil {
		form.IsActive = *req.IsActive
	}
	if req.RegisterLink != nil {
		form.RegisterLink = *req.RegisterLink
	}
	if req.Settings != nil {
		form.Settings = marshalSettings(req.Settings)
	}

	var questions []model.Question
	replaceQuestions := req.Questions != nil
	if replaceQuestions {
		questions, err = buildQuestions(form.Category, req.Questions)
		if err != nil {
			return nil, err
		}
	}

	if err := s.formRepo.Update(ctx, form, questions, replaceQuestions); err != nil {
		return nil, err
	}

	s.invalidatePublicPayload(ctx, form.Handle)
	s.log.Info().Int64("form_id", form.ID).Bool("questions_replaced", replaceQuestions).Msg("Form updated")
	return form, nil
}

// Delete removes a form and everything hanging off it.
func (s *FormService) Delete(ctx context.Context, id int64) error {
	form, err := s.formRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrFormNotFound
		}
		return err
	}

	if err := s.formRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidatePublicPayload(ctx, form.Handle)
	s.log.Info().Int64("form_id", id).Msg("Form deleted")
	return nil
}

// Clone copies a form and its questions into a new inactive form with a
// fresh handle. Responses and analytics are not carried over.
func (s *FormService) Clone(ctx context.Context, id int64, createdBy string) (*model.Form, error) {
	src, questions, err := s.GetWithQuestions(ctx, id)
	if err != nil {
		return nil, err
	}

	copies := make([]model.Question, len(questions))
	for i, q := range questions {
		copies[i] = q
		copies[i].ID = 0
		copies[i].FormID = 0
	}

	clone := &model.Form{
		Title:        src.Title + " (Copy)",
		Description:  src.Description,
		Category:     src.Category,
		Settings:     src.Settings,
		IsActive:     false,
		CreatedBy:    createdBy,
		EventID:      src.EventID,
		RegisterLink: src.RegisterLink,
	}

	if err := s.formRepo.CreateWithQuestions(ctx, clone, copies); err != nil {
		return nil, err
	}

	s.log.Info().Int64("source_form_id", id).Int64("form_id", clone.ID).Msg("Form cloned")
	return clone, nil
}

// GetPublicByHandle serves the public fill payload, cache-first. Inactive
// and unknown handles both come back as ErrFormNotFound.
func (s *FormService) GetPublicByHandle(ctx context.Context, handle string) (*model.PublicForm, error) {
	key := config.CacheKey.FormPayloadKey(handle)

	data, err := s.rdb.Get(ctx, key).Bytes()
	if err == nil {
		var payload model.PublicForm
		if err := json.Unmarshal(data, &payload); err == nil {
			return &payload, nil
		}
		// Corrupt cache entry; fall through to the database.
		s.rdb.Del(ctx, key)
	} else if !errors.Is(err, redis.Nil) {
		s.log.Warn().Err(err).Str("handle", handle).Msg("Payload cache read failed")
	}

	form, err := s.formRepo.GetActiveByHandle(ctx, handle)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrFormNotFound
		}
		return nil, err
	}
	questions, err := s.questionRepo.ListByForm(ctx, form.ID)
	if err != nil {
		return nil, err
	}

	payload := buildPublicForm(form, questions)

	if raw, err := json.Marshal(payload); err == nil {
		if err := s.rdb.Set(ctx, key, raw, publicPayloadTTL).Err(); err != nil {
			s.log.Warn().Err(err).Str("handle", handle).Msg("Payload cache write failed")
		}
	}

	return payload, nil
}

func (s *FormService) invalidatePublicPayload(ctx context.Context, handle string) {
	if err := s.rdb.Del(ctx, config.CacheKey.FormPayloadKey(handle)).Err(); err != nil {
		s.log.Warn().Err(err).Str("handle", handle).Msg("Payload cache invalidation failed")
	}
}

// ────────────────────────────────────────────────────────────────────────────
// Helpers
// ────────────────────────────────────────────────────────────────────────────

func marshalSettings(settings map[string]interface{}) json.RawMessage {
	if settings == nil {
		return json.RawMessage(`{}`)
	}
	raw, err := json.Marshal(settings)
	if err != nil {
		return json.RawMessage(`{}`)
	}
	return raw
}

// buildQuestions converts request question inputs into model questions,
// enforcing per-type structural rules the binding layer cannot express.
func buildQuestions(category model.FormCategory, inputs []model.QuestionInput) ([]model.Question, error) {
	questions := make([]model.Question, len(inputs))
	for i, in := range inputs {
		qType := model.QuestionType(in.QuestionType)

		options := in.Options
		if qType == model.QuestionTypeYesNo && len(options) == 0 {
			options = []string{"Yes", "No"}
		}
		if qType.IsChoice() && len(options) == 0 {
			return nil, ErrOptionsRequired
		}

		points := in.Points
		correct := in.CorrectAnswer
		if category == model.FormCategoryQuiz {
			if points == 0 {
				points = 1
			}
			if correct == "" {
				return nil, ErrCorrectAnswerMissing
			}
		} else {
			// Scoring fields are meaningless outside quizzes.
			points = 0
			correct = ""
		}

		questions[i] = model.Question{
			QuestionText:  in.QuestionText,
			QuestionType:  qType,
			Options:       options,
			IsRequired:    in.IsRequired,
			Points:        points,
			CorrectAnswer: correct,
			OrderIndex:    i,
		}
	}
	return questions, nil
}

func buildPublicForm(form *model.Form, questions []model.Question) *model.PublicForm {
	public := make([]model.PublicQuestion, len(questions))
	for i, q := range questions {
		points := q.Points
		if form.Category != model.FormCategoryQuiz {
			points = 0
		}
		public[i] = model.PublicQuestion{
			ID:           q.ID,
			QuestionText: q.QuestionText,
			QuestionType: q.QuestionType,
			Options:      q.Options,
			IsRequired:   q.IsRequired,
			Points:       points,
			OrderIndex:   q.OrderIndex,
		}
	}
	return &model.PublicForm{
		ID:           form.ID,
		Title:        form.Title,
		Description:  form.Description,
		Category:     form.Category,
		Settings:     form.Settings,
		RegisterLink: form.RegisterLink,
		Questions:    public,
	}
}
