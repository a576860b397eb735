package repository

import (
	"context"

	"github.com/evenza/eventdesk-backend/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

// QARepository handles audience Q&A data access.
type QARepository struct {
	pool *pgxpool.Pool
}

// NewQARepository creates a new QARepository.
func NewQARepository(pool *pgxpool.Pool) *QARepository {
	return &QARepository{pool: pool}
}

// Create inserts a new audience question in pending state.
func (r *QARepository) Create(ctx context.Context, q *model.QAQuestion) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO qa_questions (user_email, user_name, question, status)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		q.UserEmail, q.UserName, q.Question, q.Status,
	).Scan(&q.ID, &q.CreatedAt)
}

// GetByID retrieves a question by id.
func (r *QARepository) GetByID(ctx context.Context, id int64) (*model.QAQuestion, error) {
	q := &model.QAQuestion{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, user_email, user_name, question, status, created_at
		 FROM qa_questions WHERE id = $1`, id,
	).Scan(&q.ID, &q.UserEmail, &q.UserName, &q.Question, &q.Status, &q.CreatedAt)
	if err != nil {
		return nil, err
	}
	return q, nil
}

// List retrieves questions newest first, optionally filtered by status.
func (r *QARepository) List(ctx context.Context, status model.QAStatus) ([]model.QAQuestion, error) {
	query := `SELECT id, user_email, user_name, question, status, created_at FROM qa_questions`
	var args []interface{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []model.QAQuestion
	for rows.Next() {
		var q model.QAQuestion
		if err := rows.Scan(&q.ID, &q.UserEmail, &q.UserName, &q.Question, &q.Status, &q.CreatedAt); err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// UpdateStatus moves a question to a new moderation state.
func (r *QARepository) UpdateStatus(ctx context.Context, id int64, status model.QAStatus) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE qa_questions SET status = $1 WHERE id = $2`, status, id)
	return err
}
