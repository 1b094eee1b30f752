package model

import "encoding/json"

// ValidationResult is the outcome of validating one whole batch.
// IsValid is true exactly when Errors is empty.
type ValidationResult struct {
	IsValid bool              `json:"isValid"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

// ChunkOutcome is the result of processing one chunk.
// Processed + Skipped always equals the chunk size.
type ChunkOutcome struct {
	ChunkIndex int               `json:"chunkIndex"`
	Processed  int               `json:"processed"`
	Skipped    int               `json:"skipped"`
	Errors     []ProcessingError `json:"errors,omitempty"`
}

// ResultStatus classifies a finished batch.
type ResultStatus int

const (
	StatusSuccess ResultStatus = iota
	StatusPartialSuccess
	StatusFailure
)

func (s ResultStatus) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusPartialSuccess:
		return "partial_success"
	default:
		return "failure"
	}
}

func (s ResultStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// PipelineResult is the aggregate outcome delivered to the continuation,
// exactly once per batch. Success carries only counts; PartialSuccess
// carries counts plus the chunk-level errors; Failure carries the errors
// that stopped the batch (validation errors when the batch was rejected
// before any side effect, processing errors when every chunk failed).
type PipelineResult struct {
	Status    ResultStatus `json:"status"`
	Processed int          `json:"processed"`
	Skipped   int          `json:"skipped"`
	Errors    []error      `json:"-"`
}

// Success builds a clean-completion result.
func Success(processed, skipped int) PipelineResult {
	return PipelineResult{Status: StatusSuccess, Processed: processed, Skipped: skipped}
}

// PartialSuccess builds a result for a batch where some records survived and
// some chunks failed.
func PartialSuccess(processed, skipped int, errs []error) PipelineResult {
	return PipelineResult{Status: StatusPartialSuccess, Processed: processed, Skipped: skipped, Errors: errs}
}

// Failure builds a result for a batch where nothing was processed.
func Failure(errs []error) PipelineResult {
	return PipelineResult{Status: StatusFailure, Errors: errs}
}

// ValidationFailure wraps a rejected batch's defects as a Failure result.
func ValidationFailure(errs []ValidationError) PipelineResult {
	wrapped := make([]error, len(errs))
	for i, e := range errs {
		wrapped[i] = e
	}
	return Failure(wrapped)
}

// ErrorStrings renders the error list for bookkeeping and API responses.
func (r PipelineResult) ErrorStrings() []string {
	if len(r.Errors) == 0 {
		return nil
	}
	out := make([]string, len(r.Errors))
	for i, err := range r.Errors {
		out[i] = err.Error()
	}
	return out
}
