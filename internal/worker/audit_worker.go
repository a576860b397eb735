package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/evenza/eventdesk-backend/internal/config"
	"github.com/evenza/eventdesk-backend/internal/model"
	"github.com/evenza/eventdesk-backend/internal/repository"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	AuditBatchSize    = 50
	AuditBatchTimeout = 2 * time.Second
	AuditPollTimeout  = 1 * time.Second
)

// AuditWorker drains the audit queue from Redis and batch-inserts entries
// into PostgreSQL, so request handlers never pay the insert latency.
type AuditWorker struct {
	auditRepo *repository.AuditRepository
	rdb       *redis.Client
	log       zerolog.Logger
}

// NewAuditWorker creates a new AuditWorker.
func NewAuditWorker(auditRepo *repository.AuditRepository, rdb *redis.Client, log zerolog.Logger) *AuditWorker {
	return &AuditWorker{
		auditRepo: auditRepo,
		rdb:       rdb,
		log:       log.With().Str("component", "audit_worker").Logger(),
	}
}

// Start runs the worker loop until the context is cancelled. Any buffered
// batch is flushed on shutdown.
func (w *AuditWorker) Start(ctx context.Context) {
	w.log.Info().Msg("AuditWorker started")

	batch := make([]model.AuditEntry, 0, AuditBatchSize)
	lastFlush := time.Now()

	for {
		if len(batch) > 0 &&
			(len(batch) >= AuditBatchSize || time.Since(lastFlush) >= AuditBatchTimeout) {

			w.flushSafe(ctx, batch)
			batch = batch[:0]
			lastFlush = time.Now()
		}

		select {
		case <-ctx.Done():
			w.log.Info().Msg("Shutdown requested. Flushing remaining batch...")
			w.flushSafe(context.Background(), batch)
			return

		default:
			item, err := w.rdb.BLPop(ctx, AuditPollTimeout, config.WorkerKey.AuditLogQueue).Result()
			if err != nil {
				if err != redis.Nil && ctx.Err() == nil {
					w.log.Error().Err(err).Msg("BLPop error")
				}
				continue
			}

			if len(item) < 2 {
				continue
			}

			var entry model.AuditEntry
			if err := json.Unmarshal([]byte(item[1]), &entry); err != nil {
				w.log.Error().Err(err).Msg("Invalid JSON payload")
				continue
			}

			batch = append(batch, entry)
		}
	}
}

// flushSafe writes a batch, requeueing entries that could not be persisted
// so a database hiccup never loses audit records.
func (w *AuditWorker) flushSafe(ctx context.Context, batch []model.AuditEntry) {
	if len(batch) == 0 {
		return
	}

	if err := w.auditRepo.InsertBatch(ctx, batch); err != nil {
		w.log.Warn().Err(err).Int("entries", len(batch)).Msg("Bulk audit insert failed — requeueing")
		for _, entry := range batch {
			raw, _ := json.Marshal(entry)
			w.rdb.RPush(ctx, config.WorkerKey.AuditLogQueue, raw)
		}
		return
	}

	w.log.Debug().Int("entries", len(batch)).Msg("Audit batch flushed")
}
