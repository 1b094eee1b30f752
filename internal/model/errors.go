package model

import "fmt"

// ValidationErrorKind tags the structural defect a record was rejected for.
type ValidationErrorKind string

const (
	InvalidFormat ValidationErrorKind = "invalid_format"
	MissingField  ValidationErrorKind = "missing_field"
	InvalidDate   ValidationErrorKind = "invalid_date"
	InvalidEmail  ValidationErrorKind = "invalid_email"
)

// ValidationError describes one structural defect found in one record.
// Defects are plain data: the validator never fails on malformed input, it
// reports it.
type ValidationError struct {
	Kind  ValidationErrorKind `json:"kind"`
	Index int                 `json:"index"`
	Field string              `json:"field,omitempty"`
	Raw   string              `json:"raw,omitempty"`
}

func (e ValidationError) Error() string {
	switch e.Kind {
	case InvalidFormat:
		return fmt.Sprintf("record %d: not a mapping", e.Index)
	case MissingField:
		return fmt.Sprintf("record %d: missing required field %q", e.Index, e.Field)
	case InvalidDate:
		return fmt.Sprintf("record %d: invalid date %q", e.Index, e.Raw)
	case InvalidEmail:
		return fmt.Sprintf("record %d: invalid email %q", e.Index, e.Raw)
	default:
		return fmt.Sprintf("record %d: invalid", e.Index)
	}
}

// NewInvalidFormat flags a record that did not decode as a mapping.
func NewInvalidFormat(index int) ValidationError {
	return ValidationError{Kind: InvalidFormat, Index: index}
}

// NewMissingField flags a record missing a required field.
func NewMissingField(field string, index int) ValidationError {
	return ValidationError{Kind: MissingField, Index: index, Field: field}
}

// NewInvalidDate flags a date value that did not parse under the sync date
// format.
func NewInvalidDate(raw string, index int) ValidationError {
	return ValidationError{Kind: InvalidDate, Index: index, Raw: raw}
}

// NewInvalidEmail flags an email-shaped field that did not match the address
// pattern.
func NewInvalidEmail(raw string, index int) ValidationError {
	return ValidationError{Kind: InvalidEmail, Index: index, Raw: raw}
}

// ProcessingErrorKind tags a chunk-level failure after side effects began.
type ProcessingErrorKind string

const (
	ChunkProcessingFailed ProcessingErrorKind = "chunk_processing_failed"
	StorageSaveFailed     ProcessingErrorKind = "storage_save_failed"
	DuplicateKey          ProcessingErrorKind = "duplicate_key"
)

// ProcessingError describes a failure while persisting a chunk. The chunk
// processor converts every storage-side failure into one of these; nothing
// storage-shaped crosses the worker boundary as a raised error.
type ProcessingError struct {
	Kind       ProcessingErrorKind `json:"kind"`
	ChunkIndex int                 `json:"chunkIndex,omitempty"`
	Key        string              `json:"key,omitempty"`
	Cause      error               `json:"-"`
}

func (e ProcessingError) Error() string {
	switch e.Kind {
	case ChunkProcessingFailed:
		return fmt.Sprintf("chunk %d: processing failed: %v", e.ChunkIndex, e.Cause)
	case StorageSaveFailed:
		return fmt.Sprintf("storage save failed: %v", e.Cause)
	case DuplicateKey:
		return fmt.Sprintf("duplicate key %q", e.Key)
	default:
		return "processing failed"
	}
}

func (e ProcessingError) Unwrap() error { return e.Cause }

// NewChunkProcessingFailed wraps a storage failure for one whole chunk.
func NewChunkProcessingFailed(chunkIndex int, cause error) ProcessingError {
	return ProcessingError{Kind: ChunkProcessingFailed, ChunkIndex: chunkIndex, Cause: cause}
}

// NewStorageSaveFailed wraps an opaque storage write failure.
func NewStorageSaveFailed(cause error) ProcessingError {
	return ProcessingError{Kind: StorageSaveFailed, Cause: cause}
}

// NewDuplicateKey reports a uniqueness violation on the given key.
func NewDuplicateKey(key string) ProcessingError {
	return ProcessingError{Kind: DuplicateKey, Key: key}
}
