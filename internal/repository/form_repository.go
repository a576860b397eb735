package repository

import (
	"context"

	"github.com/evenza/eventdesk-backend/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// FormRepository handles form and question data access.
type FormRepository struct {
	pool *pgxpool.Pool
}

// NewFormRepository creates a new FormRepository.
func NewFormRepository(pool *pgxpool.Pool) *FormRepository {
	return &FormRepository{pool: pool}
}

const formColumns = `id, title, description, category, settings, handle, is_active,
	        created_by, event_id, register_link, created_at, updated_at`

func scanForm(row pgx.Row) (*model.Form, error) {
	f := &model.Form{}
	err := row.Scan(&f.ID, &f.Title, &f.Description, &f.Category, &f.Settings, &f.Handle,
		&f.IsActive, &f.CreatedBy, &f.EventID, &f.RegisterLink, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// CreateWithQuestions inserts a form, its questions and an empty analytics
// row in a single transaction. The public handle is derived from the
// database-assigned id and creation timestamp and persisted before commit,
// so a form is never visible without its handle.
func (r *FormRepository) CreateWithQuestions(ctx context.Context, f *model.Form, questions []model.Question) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		`INSERT INTO forms (title, description, category, settings, handle, is_active, created_by, event_id, register_link)
		 VALUES ($1, $2, $3, $4, '', $5, $6, $7, $8)
		 RETURNING id, created_at, updated_at`,
		f.Title, f.Description, f.Category, f.Settings, f.IsActive, f.CreatedBy, f.EventID, f.RegisterLink,
	).Scan(&f.ID, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return err
	}

	f.Handle = model.ComputeHandle(f.ID, f.CreatedAt, f.Title)
	if _, err := tx.Exec(ctx, `UPDATE forms SET handle = $1 WHERE id = $2`, f.Handle, f.ID); err != nil {
		return err
	}

	if err := insertQuestionsTx(ctx, tx, f.ID, questions); err != nil {
		return err
	}

	// Analytics row exists from birth so incremental updates never race
	// against row creation.
	if _, err := tx.Exec(ctx,
		`INSERT INTO form_analytics (form_id, total_responses, average_score, average_time)
		 VALUES ($1, 0, '0.00', 0)`, f.ID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func insertQuestionsTx(ctx context.Context, tx pgx.Tx, formID int64, questions []model.Question) error {
	for i := range questions {
		q := &questions[i]
		q.FormID = formID
		q.OrderIndex = i
		err := tx.QueryRow(ctx,
			`INSERT INTO questions (form_id, question_text, question_type, options, is_required, points, correct_answer, order_index)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			 RETURNING id`,
			q.FormID, q.QuestionText, q.QuestionType, q.Options, q.IsRequired, q.Points, q.CorrectAnswer, q.OrderIndex,
		).Scan(&q.ID)
		if err != nil {
			return err
		}
	}
	return nil
}

// GetByID retrieves a form by its internal id, regardless of active state.
func (r *FormRepository) GetByID(ctx context.Context, id int64) (*model.Form, error) {
	return scanForm(r.pool.QueryRow(ctx,
		`SELECT `+formColumns+` FROM forms WHERE id = $1`, id))
}

// GetActiveByHandle retrieves a form by its public handle. Inactive forms
// are indistinguishable from missing ones on this path.
func (r *FormRepository) GetActiveByHandle(ctx context.Context, handle string) (*model.Form, error) {
	return scanForm(r.pool.QueryRow(ctx,
		`SELECT `+formColumns+` FROM forms WHERE handle = $1 AND is_active = TRUE`, handle))
}

// ListSummaries retrieves all forms with their response counts, newest first.
func (r *FormRepository) ListSummaries(ctx context.Context) ([]model.FormSummary, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT f.id, f.title, f.description, f.category, f.is_active, f.handle,
		        COALESCE(a.total_responses, 0), f.created_at, f.updated_at
		 FROM forms f
		 LEFT JOIN form_analytics a ON a.form_id = f.id
		 ORDER BY f.created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var forms []model.FormSummary
	for rows.Next() {
		var s model.FormSummary
		if err := rows.Scan(&s.ID, &s.Title, &s.Description, &s.Category, &s.IsActive,
			&s.Handle, &s.ResponseCount, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		forms = append(forms, s)
	}
	return forms, rows.Err()
}

// ListIDs returns every form id. Used by the analytics repair tool.
func (r *FormRepository) ListIDs(ctx context.Context) ([]int64, error) {
	rows, err := r.pool.Query(ctx, `SELECT id FROM forms ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Update modifies a form's mutable fields and, when replaceQuestions is
// set, swaps out its full question list in the same transaction. The
// category and handle are never touched.
func (r *FormRepository) Update(ctx context.Context, f *model.Form, questions []model.Question, replaceQuestions bool) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`UPDATE forms
		 SET title = $1, description = $2, settings = $3, is_active = $4, register_link = $5, updated_at = NOW()
		 WHERE id = $6`,
		f.Title, f.Description, f.Settings, f.IsActive, f.RegisterLink, f.ID)
	if err != nil {
		return err
	}

	if replaceQuestions {
		if _, err := tx.Exec(ctx, `DELETE FROM questions WHERE form_id = $1`, f.ID); err != nil {
			return err
		}
		if err := insertQuestionsTx(ctx, tx, f.ID, questions); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// Delete removes a form. Questions, responses and the analytics row go
// with it via ON DELETE CASCADE.
func (r *FormRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM forms WHERE id = $1`, id)
	return err
}
