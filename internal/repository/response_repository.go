package repository

import (
	"context"
	"errors"

	"github.com/evenza/eventdesk-backend/internal/model"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrDuplicateResponse is returned when a second submission arrives for the
// same (form, email) pair. The uniqueness constraint in the database is the
// authoritative guard; pre-checks only exist for friendlier messages.
var ErrDuplicateResponse = errors.New("response already submitted for this form")

// ResponseRepository handles response data access.
type ResponseRepository struct {
	pool *pgxpool.Pool
}

// NewResponseRepository creates a new ResponseRepository.
func NewResponseRepository(pool *pgxpool.Pool) *ResponseRepository {
	return &ResponseRepository{pool: pool}
}

// Create inserts a response. Returns ErrDuplicateResponse when the
// (form_id, user_email) uniqueness constraint fires.
func (r *ResponseRepository) Create(ctx context.Context, resp *model.FormResponse) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO responses (form_id, user_email, user_name, answers, score, time_taken)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, submitted_at`,
		resp.FormID, resp.UserEmail, resp.UserName, resp.Answers, resp.Score, resp.TimeTaken,
	).Scan(&resp.ID, &resp.SubmittedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateResponse
		}
		return err
	}
	return nil
}

// ExistsByFormAndEmail reports whether a response already exists for the
// given form and attendee email.
func (r *ResponseRepository) ExistsByFormAndEmail(ctx context.Context, formID int64, email string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM responses WHERE form_id = $1 AND user_email = $2)`,
		formID, email,
	).Scan(&exists)
	return exists, err
}

// ListByForm retrieves all responses for a form, oldest first. Analytics
// recomputation and reporting both walk this list.
func (r *ResponseRepository) ListByForm(ctx context.Context, formID int64) ([]model.FormResponse, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, form_id, user_email, user_name, answers, score, time_taken, submitted_at
		 FROM responses WHERE form_id = $1
		 ORDER BY submitted_at ASC`, formID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var responses []model.FormResponse
	for rows.Next() {
		var resp model.FormResponse
		if err := rows.Scan(&resp.ID, &resp.FormID, &resp.UserEmail, &resp.UserName,
			&resp.Answers, &resp.Score, &resp.TimeTaken, &resp.SubmittedAt); err != nil {
			return nil, err
		}
		responses = append(responses, resp)
	}
	return responses, rows.Err()
}

// ListByFormNewestFirst retrieves a form's responses for the dashboard,
// most recent submission first.
func (r *ResponseRepository) ListByFormNewestFirst(ctx context.Context, formID int64) ([]model.FormResponse, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, form_id, user_email, user_name, answers, score, time_taken, submitted_at
		 FROM responses WHERE form_id = $1
		 ORDER BY submitted_at DESC`, formID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var responses []model.FormResponse
	for rows.Next() {
		var resp model.FormResponse
		if err := rows.Scan(&resp.ID, &resp.FormID, &resp.UserEmail, &resp.UserName,
			&resp.Answers, &resp.Score, &resp.TimeTaken, &resp.SubmittedAt); err != nil {
			return nil, err
		}
		responses = append(responses, resp)
	}
	return responses, rows.Err()
}

// TopByScore retrieves the quiz leaderboard: highest score first, earliest
// submission breaking ties, with the registrant's college joined in where
// one exists.
func (r *ResponseRepository) TopByScore(ctx context.Context, formID int64, limit int) ([]model.TopStudent, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT resp.user_name, resp.user_email, resp.score,
		        COALESCE(reg.college_name, 'N/A'), resp.time_taken, resp.submitted_at
		 FROM responses resp
		 LEFT JOIN registrations reg ON reg.email = resp.user_email
		 WHERE resp.form_id = $1
		 ORDER BY resp.score DESC, resp.submitted_at ASC
		 LIMIT $2`, formID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var students []model.TopStudent
	for rows.Next() {
		var s model.TopStudent
		if err := rows.Scan(&s.UserName, &s.UserEmail, &s.Score, &s.College, &s.TimeTaken, &s.SubmittedAt); err != nil {
			return nil, err
		}
		students = append(students, s)
	}
	return students, rows.Err()
}
