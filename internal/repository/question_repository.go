package repository

import (
	"context"

	"github.com/evenza/eventdesk-backend/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

// QuestionRepository handles question read access.
type QuestionRepository struct {
	pool *pgxpool.Pool
}

// NewQuestionRepository creates a new QuestionRepository.
func NewQuestionRepository(pool *pgxpool.Pool) *QuestionRepository {
	return &QuestionRepository{pool: pool}
}

// ListByForm retrieves a form's questions in display order.
func (r *QuestionRepository) ListByForm(ctx context.Context, formID int64) ([]model.Question, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, form_id, question_text, question_type, options, is_required, points, correct_answer, order_index
		 FROM questions WHERE form_id = $1
		 ORDER BY order_index`, formID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []model.Question
	for rows.Next() {
		var q model.Question
		if err := rows.Scan(&q.ID, &q.FormID, &q.QuestionText, &q.QuestionType, &q.Options,
			&q.IsRequired, &q.Points, &q.CorrectAnswer, &q.OrderIndex); err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}
