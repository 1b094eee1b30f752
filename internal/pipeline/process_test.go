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

	"go-sync-ingest/internal/model"
)

// fakeStorage records every Persist call and fails the call indices it is
// told to. It also watches for overlapping calls, which the serialized
// worker must never produce.
type fakeStorage struct {
	mu       sync.Mutex
	calls    [][]model.RawRecord
	failOn   map[int]error
	failAll  error
	delay    time.Duration
	inFlight int32
	overlap  atomic.Bool
}

func (f *fakeStorage) Persist(ctx context.Context, chunk []model.RawRecord, flags model.SyncFlags) error {
	if atomic.AddInt32(&f.inFlight, 1) > 1 {
		f.overlap.Store(true)
	}
	defer atomic.AddInt32(&f.inFlight, -1)

	if f.delay > 0 {
		time.Sleep(f.delay)
	}

	f.mu.Lock()
	call := len(f.calls)
	f.calls = append(f.calls, chunk)
	f.mu.Unlock()

	if f.failAll != nil {
		return f.failAll
	}
	if err, ok := f.failOn[call]; ok {
		return err
	}
	return nil
}

func (f *fakeStorage) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func validRecords(n int) []model.RawRecord {
	records := make([]model.RawRecord, n)
	for i := range records {
		records[i] = model.Map(map[string]model.Value{
			"id":   model.String(fmt.Sprintf("msg-%d", i)),
			"from": model.String("sender@example.com"),
		})
	}
	return records
}

func TestChunkProcessorSuccess(t *testing.T) {
	storage := &fakeStorage{}
	p := NewChunkProcessor(storage, nil, 0)

	chunk := validRecords(7)
	outcome := p.Process(context.Background(), 3, chunk, model.SyncFlags{})

	assert.Equal(t, 3, outcome.ChunkIndex)
	assert.Equal(t, 7, outcome.Processed)
	assert.Equal(t, 0, outcome.Skipped)
	assert.Empty(t, outcome.Errors)
	assert.Equal(t, 1, storage.callCount())
}

func TestChunkProcessorFailureCountsWholeChunkSkipped(t *testing.T) {
	storage := &fakeStorage{failAll: model.NewStorageSaveFailed(errors.New("disk full"))}
	p := NewChunkProcessor(storage, nil, 0)

	chunk := validRecords(5)
	outcome := p.Process(context.Background(), 2, chunk, model.SyncFlags{})

	assert.Equal(t, 0, outcome.Processed)
	assert.Equal(t, 5, outcome.Skipped)
	assert.Equal(t, len(chunk), outcome.Processed+outcome.Skipped)

	require.Len(t, outcome.Errors, 1)
	assert.Equal(t, model.ChunkProcessingFailed, outcome.Errors[0].Kind)
	assert.Equal(t, 2, outcome.Errors[0].ChunkIndex)
	assert.ErrorContains(t, outcome.Errors[0].Cause, "disk full")
}

func TestChunkProcessorRetriesTransientFailures(t *testing.T) {
	storage := &fakeStorage{failOn: map[int]error{
		0: model.NewStorageSaveFailed(errors.New("busy")),
		1: model.NewStorageSaveFailed(errors.New("busy")),
	}}
	p := NewChunkProcessor(storage, nil, 2)

	outcome := p.Process(context.Background(), 0, validRecords(3), model.SyncFlags{})

	assert.Equal(t, 3, outcome.Processed)
	assert.Empty(t, outcome.Errors)
	assert.Equal(t, 3, storage.callCount())
}

func TestChunkProcessorDuplicateKeyIsNotRetried(t *testing.T) {
	storage := &fakeStorage{failAll: model.NewDuplicateKey("msg-1")}
	p := NewChunkProcessor(storage, nil, 5)

	outcome := p.Process(context.Background(), 0, validRecords(2), model.SyncFlags{})

	assert.Equal(t, 2, outcome.Skipped)
	require.Len(t, outcome.Errors, 1)
	assert.Equal(t, 1, storage.callCount(), "a duplicate key cannot change on retry")

	var perr model.ProcessingError
	require.ErrorAs(t, outcome.Errors[0].Cause, &perr)
	assert.Equal(t, model.DuplicateKey, perr.Kind)
}
