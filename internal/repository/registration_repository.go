package repository

import (
	"context"

	"github.com/evenza/eventdesk-backend/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RegistrationRepository handles read access to event registrations.
// Registrations are written by the intake subsystem; the forms engine
// only looks them up during submission checks and reporting.
type RegistrationRepository struct {
	pool *pgxpool.Pool
}

// NewRegistrationRepository creates a new RegistrationRepository.
func NewRegistrationRepository(pool *pgxpool.Pool) *RegistrationRepository {
	return &RegistrationRepository{pool: pool}
}

// GetByEmail retrieves a registration by attendee email.
func (r *RegistrationRepository) GetByEmail(ctx context.Context, email string) (*model.Registration, error) {
	reg := &model.Registration{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, email, registration_id, college_name, event_id, created_at
		 FROM registrations WHERE email = $1`, email,
	).Scan(&reg.ID, &reg.Name, &reg.Email, &reg.RegistrationID, &reg.CollegeName, &reg.EventID, &reg.CreatedAt)
	if err != nil {
		return nil, err
	}
	return reg, nil
}
