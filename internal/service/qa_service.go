package service

import (
	"context"
	"errors"
	"strings"

	"github.com/evenza/eventdesk-backend/internal/model"
	"github.com/evenza/eventdesk-backend/internal/realtime"
	"github.com/evenza/eventdesk-backend/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// ErrQuestionNotFound is returned when a Q&A question id does not exist.
var ErrQuestionNotFound = errors.New("question not found")

// QAService handles the audience question queue and its moderation flow.
type QAService struct {
	qaRepo *repository.QARepository
	hub    *realtime.Hub
	log    zerolog.Logger
}

// NewQAService creates a new QAService.
func NewQAService(qaRepo *repository.QARepository, hub *realtime.Hub, log zerolog.Logger) *QAService {
	return &QAService{
		qaRepo: qaRepo,
		hub:    hub,
		log:    log.With().Str("component", "qa_service").Logger(),
	}
}

// Ask stores a new audience question in pending state. The email is
// lowercased so moderation pushes find the live connection registered by
// the Q&A stream.
func (s *QAService) Ask(ctx context.Context, req *model.CreateQAQuestionRequest) (*model.QAQuestion, error) {
	q := &model.QAQuestion{
		UserEmail: strings.ToLower(strings.TrimSpace(req.UserEmail)),
		UserName:  req.UserName,
		Question:  req.Question,
		Status:    model.QAStatusPending,
	}
	if err := s.qaRepo.Create(ctx, q); err != nil {
		return nil, err
	}
	s.log.Info().Int64("question_id", q.ID).Msg("Audience question received")
	return q, nil
}

// List retrieves questions for moderation, optionally filtered by status.
func (s *QAService) List(ctx context.Context, status model.QAStatus) ([]model.QAQuestion, error) {
	questions, err := s.qaRepo.List(ctx, status)
	if err != nil {
		return nil, err
	}
	if questions == nil {
		questions = []model.QAQuestion{}
	}
	return questions, nil
}

// UpdateStatus moves a question to a new moderation state and pushes the
// change to the asker's live connection, if one is open.
func (s *QAService) UpdateStatus(ctx context.Context, id int64, status model.QAStatus) (*model.QAQuestion, error) {
	q, err := s.qaRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrQuestionNotFound
		}
		return nil, err
	}

	if err := s.qaRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	q.Status = status

	s.hub.SendToUser(q.UserEmail, realtime.QAStatus(q))
	s.log.Info().Int64("question_id", id).Str("status", string(status)).Msg("Question status updated")
	return q, nil
}
