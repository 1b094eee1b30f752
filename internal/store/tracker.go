package store

import (
	"go.uber.org/zap"

	"go-sync-ingest/internal/model"
	"go-sync-ingest/pkg/logger"
)

// Tracker records one batch's lifecycle into the store. It satisfies the
// pipeline's Tracker interface; bookkeeping failures are logged and dropped,
// never surfaced into the batch result.
type Tracker struct {
	store   *Store
	batchID string
	log     logger.Logger
}

// TrackerFor binds a tracker to a batch row.
func (s *Store) TrackerFor(batchID string, log logger.Logger) *Tracker {
	if log == nil {
		log = logger.NewNoopLogger()
	}
	return &Tracker{store: s, batchID: batchID, log: log}
}

func (t *Tracker) Stage(stage string) {
	if err := t.store.UpdateBatchStatus(t.batchID, stage); err != nil {
		t.log.Warn("batch status update failed", zap.String("batch", t.batchID), zap.Error(err))
	}
	if err := t.store.SaveBatchLog(t.batchID, stage, "info", "entered stage "+stage); err != nil {
		t.log.Warn("batch log write failed", zap.String("batch", t.batchID), zap.Error(err))
	}
}

func (t *Tracker) Finished(result model.PipelineResult) {
	if err := t.store.SaveBatchResult(t.batchID, result); err != nil {
		t.log.Warn("batch result write failed", zap.String("batch", t.batchID), zap.Error(err))
	}
}
