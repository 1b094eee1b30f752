package pipeline

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"go-sync-ingest/internal/model"
	"go-sync-ingest/pkg/logger"
)

// DefaultChunkSize is the number of records persisted per storage write.
const DefaultChunkSize = 100

const defaultQueueCapacity = 64

// Tracker observes one batch's lifecycle for bookkeeping. Calls are
// fire-and-forget: a tracker never influences the pipeline result. The API
// wires a store-backed tracker per batch; the CLI wires a logging one.
type Tracker interface {
	Stage(stage string)
	Finished(result model.PipelineResult)
}

// NoopTracker is the Tracker used when nobody is watching.
type NoopTracker struct{}

func (NoopTracker) Stage(string)                  {}
func (NoopTracker) Finished(model.PipelineResult) {}

// Options tunes an Orchestrator. Zero values fall back to defaults.
type Options struct {
	ChunkSize      int
	QueueCapacity  int
	PersistRetries uint64
}

// Orchestrator is the pipeline entry point. It validates a whole batch
// before any side effect, rejects invalid batches outright, and otherwise
// splits the batch into chunks which drain through one long-lived serialized
// worker, so the storage collaborator never observes overlapping writes from
// this pipeline. Outcomes are folded in chunk order and the final result is
// handed to the caller's continuation exactly once.
//
// The task queue is the only shared mutable state; it is owned here and
// never exposed.
type Orchestrator struct {
	processor *ChunkProcessor
	log       logger.Logger
	chunkSize int

	tasks    chan chunkTask
	workerWG sync.WaitGroup
	submitMu sync.Mutex
	stopOnce sync.Once
}

type chunkTask struct {
	ctx     context.Context
	index   int
	records []model.RawRecord
	flags   model.SyncFlags
	outcome chan model.ChunkOutcome
}

// New builds an Orchestrator over the given storage collaborator and starts
// its worker. Call Stop once no more batches will be submitted.
func New(storage Storage, log logger.Logger, opts Options) *Orchestrator {
	if log == nil {
		log = logger.NewNoopLogger()
	}
	chunkSize := opts.ChunkSize
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	queueCap := opts.QueueCapacity
	if queueCap <= 0 {
		queueCap = defaultQueueCapacity
	}

	o := &Orchestrator{
		processor: NewChunkProcessor(storage, log, opts.PersistRetries),
		log:       log,
		chunkSize: chunkSize,
		tasks:     make(chan chunkTask, queueCap),
	}

	o.workerWG.Add(1)
	go o.worker()
	return o
}

// worker drains submitted chunk tasks in FIFO order, one at a time. The
// storage write path is single-writer by construction: at most one chunk is
// in flight against the collaborator at any moment.
func (o *Orchestrator) worker() {
	defer o.workerWG.Done()
	for task := range o.tasks {
		task.outcome <- o.processor.Process(task.ctx, task.index, task.records, task.flags)
	}
}

// ChunkSize reports the configured records-per-chunk.
func (o *Orchestrator) ChunkSize() int { return o.chunkSize }

// ProcessBatch runs one batch through validate → chunk → process →
// aggregate and invokes done exactly once with the final result.
//
// A batch that fails validation is rejected before any side effect: done is
// invoked synchronously with Failure carrying the validation errors and the
// storage collaborator is never touched. Otherwise ProcessBatch returns as
// soon as the batch is accepted; chunks are processed in order on the
// worker, a failed chunk never aborts the rest, and done runs on the
// collecting goroutine once every chunk has been attempted. There is no
// mid-batch cancellation: an accepted batch attempts all of its chunks.
func (o *Orchestrator) ProcessBatch(ctx context.Context, records []model.RawRecord, flags model.SyncFlags, tracker Tracker, done func(model.PipelineResult)) {
	if tracker == nil {
		tracker = NoopTracker{}
	}

	tracker.Stage(model.StageValidating)
	validation := ValidateBatch(records)
	if !validation.IsValid {
		o.log.Info("batch rejected",
			zap.Int("records", len(records)),
			zap.Int("defects", len(validation.Errors)))
		tracker.Stage(model.StageRejected)
		result := model.ValidationFailure(validation.Errors)
		tracker.Finished(result)
		done(result)
		return
	}

	chunks, err := SplitChunks(records, o.chunkSize)
	if err != nil {
		// Unreachable with the size guard in New; still never panic past
		// the pipeline boundary.
		result := model.Failure([]error{err})
		tracker.Finished(result)
		done(result)
		return
	}

	o.log.Debug("batch accepted",
		zap.Int("records", len(records)),
		zap.Int("chunks", len(chunks)))
	tracker.Stage(model.StageProcessing)

	go o.runChunks(ctx, chunks, flags, tracker, done)
}

// runChunks submits every chunk to the worker and collects outcomes in
// submission order, so the folded error list is reproducible for a given
// batch and sequence of collaborator outcomes.
func (o *Orchestrator) runChunks(ctx context.Context, chunks [][]model.RawRecord, flags model.SyncFlags, tracker Tracker, done func(model.PipelineResult)) {
	outcomeChans := make([]chan model.ChunkOutcome, len(chunks))

	// One batch's chunks enter the queue contiguously. Each outcome channel
	// is buffered so the worker never blocks handing a result back.
	o.submitMu.Lock()
	for i, chunk := range chunks {
		ch := make(chan model.ChunkOutcome, 1)
		outcomeChans[i] = ch
		o.tasks <- chunkTask{ctx: ctx, index: i, records: chunk, flags: flags, outcome: ch}
	}
	o.submitMu.Unlock()

	outcomes := make([]model.ChunkOutcome, 0, len(chunks))
	for _, ch := range outcomeChans {
		outcomes = append(outcomes, <-ch)
	}

	result := FoldOutcomes(outcomes)
	o.log.Info("batch finished",
		zap.String("status", result.Status.String()),
		zap.Int("processed", result.Processed),
		zap.Int("skipped", result.Skipped),
		zap.Int("errors", len(result.Errors)))
	tracker.Stage(model.StageCompleted)
	tracker.Finished(result)
	done(result)
}

// Stop shuts the worker down after the queue drains. Submitting a batch
// after Stop panics; callers stop only once all continuations have fired.
func (o *Orchestrator) Stop() {
	o.stopOnce.Do(func() { close(o.tasks) })
	o.workerWG.Wait()
}
