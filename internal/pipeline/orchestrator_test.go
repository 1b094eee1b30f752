package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"go-sync-ingest/internal/model"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func runBatch(t *testing.T, o *Orchestrator, records []model.RawRecord, flags model.SyncFlags) model.PipelineResult {
	t.Helper()
	resultCh := make(chan model.PipelineResult, 1)
	o.ProcessBatch(context.Background(), records, flags, nil, func(r model.PipelineResult) {
		resultCh <- r
	})
	select {
	case result := <-resultCh:
		return result
	case <-time.After(5 * time.Second):
		t.Fatal("continuation was never invoked")
		return model.PipelineResult{}
	}
}

func TestProcessBatchEmptyBatchSucceeds(t *testing.T) {
	storage := &fakeStorage{}
	o := New(storage, nil, Options{})
	defer o.Stop()

	result := runBatch(t, o, nil, model.SyncFlags{})

	assert.Equal(t, model.StatusSuccess, result.Status)
	assert.Equal(t, 0, result.Processed)
	assert.Equal(t, 0, result.Skipped)
	assert.Equal(t, 0, storage.callCount())
}

func TestProcessBatchAllValidAllPersisted(t *testing.T) {
	storage := &fakeStorage{}
	o := New(storage, nil, Options{ChunkSize: 100})
	defer o.Stop()

	result := runBatch(t, o, validRecords(250), model.SyncFlags{})

	assert.Equal(t, model.StatusSuccess, result.Status)
	assert.Equal(t, 250, result.Processed)
	assert.Equal(t, 0, result.Skipped)
	assert.Equal(t, 3, storage.callCount(), "250 records at size 100 is chunks of 100/100/50")
}

func TestProcessBatchRejectsInvalidBatchBeforeAnySideEffect(t *testing.T) {
	storage := &fakeStorage{}
	o := New(storage, nil, Options{})
	defer o.Stop()

	batch := []model.RawRecord{
		model.Map(map[string]model.Value{"from": model.String("a@b.com")}),
		model.Map(map[string]model.Value{
			"id":   model.String("2"),
			"from": model.String("a@b.com"),
		}),
	}
	result := runBatch(t, o, batch, model.SyncFlags{})

	require.Equal(t, model.StatusFailure, result.Status)
	require.Len(t, result.Errors, 1)

	var verr model.ValidationError
	require.ErrorAs(t, result.Errors[0], &verr)
	assert.Equal(t, model.MissingField, verr.Kind)
	assert.Equal(t, "id", verr.Field)
	assert.Equal(t, 0, verr.Index)

	assert.Equal(t, 0, storage.callCount(), "storage must never see a rejected batch")
}

func TestProcessBatchSingleFailedChunkIsPartialSuccess(t *testing.T) {
	storage := &fakeStorage{failOn: map[int]error{
		1: model.NewStorageSaveFailed(errors.New("disk full")),
	}}
	o := New(storage, nil, Options{ChunkSize: 100})
	defer o.Stop()

	result := runBatch(t, o, validRecords(150), model.SyncFlags{})

	assert.Equal(t, model.StatusPartialSuccess, result.Status)
	assert.Equal(t, 100, result.Processed)
	assert.Equal(t, 50, result.Skipped)
	require.Len(t, result.Errors, 1)

	var perr model.ProcessingError
	require.ErrorAs(t, result.Errors[0], &perr)
	assert.Equal(t, model.ChunkProcessingFailed, perr.Kind)
	assert.Equal(t, 1, perr.ChunkIndex)
}

func TestProcessBatchAllChunksFailedIsFailure(t *testing.T) {
	storage := &fakeStorage{failAll: model.NewStorageSaveFailed(errors.New("down"))}
	o := New(storage, nil, Options{ChunkSize: 10})
	defer o.Stop()

	result := runBatch(t, o, validRecords(30), model.SyncFlags{})

	assert.Equal(t, model.StatusFailure, result.Status)
	assert.Equal(t, 0, result.Processed)
	assert.Len(t, result.Errors, 3)
	assert.Equal(t, 3, storage.callCount(), "a failed chunk never aborts the remaining chunks")
}

func TestProcessBatchCountsAlwaysConserveBatchSize(t *testing.T) {
	storage := &fakeStorage{failOn: map[int]error{
		0: model.NewStorageSaveFailed(errors.New("down")),
		3: model.NewStorageSaveFailed(errors.New("down")),
	}}
	o := New(storage, nil, Options{ChunkSize: 7})
	defer o.Stop()

	const batchSize = 47
	result := runBatch(t, o, validRecords(batchSize), model.SyncFlags{})

	assert.Equal(t, batchSize, result.Processed+result.Skipped)
}

func TestProcessBatchStorageNeverObservesOverlappingWrites(t *testing.T) {
	storage := &fakeStorage{delay: 2 * time.Millisecond}
	o := New(storage, nil, Options{ChunkSize: 5, QueueCapacity: 2})
	defer o.Stop()

	var wg sync.WaitGroup
	for b := 0; b < 4; b++ {
		wg.Add(1)
		o.ProcessBatch(context.Background(), validRecords(40), model.SyncFlags{}, nil, func(model.PipelineResult) {
			wg.Done()
		})
	}
	wg.Wait()

	assert.False(t, storage.overlap.Load(), "serialized worker must keep at most one chunk in flight")
	assert.Equal(t, 4*8, storage.callCount())
}

func TestProcessBatchChunksProcessedInSubmissionOrder(t *testing.T) {
	storage := &fakeStorage{}
	o := New(storage, nil, Options{ChunkSize: 10})
	defer o.Stop()

	runBatch(t, o, validRecords(35), model.SyncFlags{})

	require.Equal(t, 4, storage.callCount())
	for i, chunk := range storage.calls {
		first := chunk[0].Get("id").Raw()
		assert.Equal(t, fmt.Sprintf("msg-%d", i*10), first)
	}
}

func TestProcessBatchContinuationInvokedExactlyOnce(t *testing.T) {
	storage := &fakeStorage{}
	o := New(storage, nil, Options{ChunkSize: 10})
	defer o.Stop()

	var invocations atomic.Int32
	done := make(chan struct{})
	o.ProcessBatch(context.Background(), validRecords(25), model.SyncFlags{}, nil, func(model.PipelineResult) {
		invocations.Add(1)
		close(done)
	})

	<-done
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int32(1), invocations.Load())
}

func TestProcessBatchReportsStagesToTracker(t *testing.T) {
	storage := &fakeStorage{}
	o := New(storage, nil, Options{ChunkSize: 10})
	defer o.Stop()

	tracker := &recordingTracker{}
	resultCh := make(chan model.PipelineResult, 1)
	o.ProcessBatch(context.Background(), validRecords(5), model.SyncFlags{}, tracker, func(r model.PipelineResult) {
		resultCh <- r
	})
	<-resultCh

	assert.Equal(t, []string{model.StageValidating, model.StageProcessing, model.StageCompleted}, tracker.stages())
	assert.Equal(t, int32(1), tracker.finished.Load())
}

type recordingTracker struct {
	mu       sync.Mutex
	visited  []string
	finished atomic.Int32
}

func (r *recordingTracker) Stage(stage string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.visited = append(r.visited, stage)
}

func (r *recordingTracker) Finished(model.PipelineResult) {
	r.finished.Add(1)
}

func (r *recordingTracker) stages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.visited...)
}
