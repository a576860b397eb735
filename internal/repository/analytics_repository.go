package repository

import (
	"context"

	"github.com/evenza/eventdesk-backend/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AnalyticsRepository handles the denormalized per-form analytics rows.
type AnalyticsRepository struct {
	pool *pgxpool.Pool
}

// NewAnalyticsRepository creates a new AnalyticsRepository.
func NewAnalyticsRepository(pool *pgxpool.Pool) *AnalyticsRepository {
	return &AnalyticsRepository{pool: pool}
}

// Get retrieves the analytics summary for a form.
func (r *AnalyticsRepository) Get(ctx context.Context, formID int64) (*model.AnalyticsSummary, error) {
	s := &model.AnalyticsSummary{}
	err := r.pool.QueryRow(ctx,
		`SELECT form_id, total_responses, average_score, average_time, last_updated
		 FROM form_analytics WHERE form_id = $1`, formID,
	).Scan(&s.FormID, &s.TotalResponses, &s.AverageScore, &s.AverageTime, &s.LastUpdated)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Upsert writes the analytics summary for a form. The row normally exists
// from form creation; the upsert also heals rows lost to manual meddling.
func (r *AnalyticsRepository) Upsert(ctx context.Context, s *model.AnalyticsSummary) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO form_analytics (form_id, total_responses, average_score, average_time, last_updated)
		 VALUES ($1, $2, $3, $4, NOW())
		 ON CONFLICT (form_id) DO UPDATE
		 SET total_responses = EXCLUDED.total_responses,
		     average_score = EXCLUDED.average_score,
		     average_time = EXCLUDED.average_time,
		     last_updated = NOW()
		 RETURNING last_updated`,
		s.FormID, s.TotalResponses, s.AverageScore, s.AverageTime,
	).Scan(&s.LastUpdated)
}
