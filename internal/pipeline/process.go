package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"go-sync-ingest/internal/model"
	"go-sync-ingest/pkg/logger"
)

// Storage is the persistence collaborator the pipeline writes through. A
// Persist call covers one whole chunk and must fail or succeed atomically;
// it must also be safe to call repeatedly with overlapping records, since
// the pipeline does not deduplicate across chunks.
type Storage interface {
	Persist(ctx context.Context, chunk []model.RawRecord, flags model.SyncFlags) error
}

// ChunkProcessor hands one chunk at a time to the storage collaborator and
// translates failures into ChunkOutcome data. A chunk is the unit of
// atomicity: it either lands whole or is counted skipped whole, with exactly
// one ChunkProcessingFailed recorded. Nothing storage-shaped is ever raised
// past this boundary.
type ChunkProcessor struct {
	storage    Storage
	log        logger.Logger
	maxRetries uint64
}

// NewChunkProcessor builds a processor. maxRetries is the number of extra
// persist attempts before a chunk is declared failed; 0 means one attempt.
func NewChunkProcessor(storage Storage, log logger.Logger, maxRetries uint64) *ChunkProcessor {
	if log == nil {
		log = logger.NewNoopLogger()
	}
	return &ChunkProcessor{storage: storage, log: log, maxRetries: maxRetries}
}

// Process persists one chunk and reports the outcome. Processed + Skipped
// in the outcome always equals len(chunk).
func (p *ChunkProcessor) Process(ctx context.Context, chunkIndex int, chunk []model.RawRecord, flags model.SyncFlags) model.ChunkOutcome {
	if err := p.persist(ctx, chunk, flags); err != nil {
		p.log.Warn("chunk persist failed",
			zap.Int("chunk", chunkIndex),
			zap.Int("records", len(chunk)),
			zap.Error(err))
		return model.ChunkOutcome{
			ChunkIndex: chunkIndex,
			Skipped:    len(chunk),
			Errors:     []model.ProcessingError{model.NewChunkProcessingFailed(chunkIndex, err)},
		}
	}

	p.log.Debug("chunk persisted",
		zap.Int("chunk", chunkIndex),
		zap.Int("records", len(chunk)))
	return model.ChunkOutcome{ChunkIndex: chunkIndex, Processed: len(chunk)}
}

// persist runs the storage call under bounded exponential backoff. Duplicate
// key violations are permanent: retrying cannot change them.
func (p *ChunkProcessor) persist(ctx context.Context, chunk []model.RawRecord, flags model.SyncFlags) error {
	op := func() error {
		err := p.storage.Persist(ctx, chunk, flags)
		var perr model.ProcessingError
		if errors.As(err, &perr) && perr.Kind == model.DuplicateKey {
			return backoff.Permanent(err)
		}
		return err
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 100 * time.Millisecond
	bo.MaxInterval = 2 * time.Second

	return backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(bo, p.maxRetries), ctx))
}
