package service

import (
	"context"
	"encoding/json"

	"github.com/evenza/eventdesk-backend/internal/config"
	"github.com/evenza/eventdesk-backend/internal/model"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// AuditService queues audit entries to Redis for batched persistence by
// the audit worker. Recording is best-effort: a queue failure is logged
// and never fails the request that triggered it.
type AuditService struct {
	rdb *redis.Client
	log zerolog.Logger
}

// NewAuditService creates a new AuditService.
func NewAuditService(rdb *redis.Client, log zerolog.Logger) *AuditService {
	return &AuditService{
		rdb: rdb,
		log: log.With().Str("component", "audit_service").Logger(),
	}
}

// Record queues one audit entry.
func (s *AuditService) Record(ctx context.Context, entry model.AuditEntry) {
	raw, err := json.Marshal(entry)
	if err != nil {
		s.log.Error().Err(err).Msg("Marshal audit entry failed")
		return
	}
	if err := s.rdb.RPush(ctx, config.WorkerKey.AuditLogQueue, raw).Err(); err != nil {
		s.log.Warn().Err(err).Str("action", entry.Action).Msg("Queue audit entry failed")
	}
}
