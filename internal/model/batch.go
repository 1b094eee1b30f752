package model

import "time"

// Batch lifecycle stages as reported to the tracker. A batch is rejected
// without processing when validation fails; otherwise it runs to completed
// no matter how many chunks fail.
const (
	StagePending    = "pending"
	StageValidating = "validating"
	StageRejected   = "rejected"
	StageProcessing = "processing"
	StageCompleted  = "completed"
)

// BatchInfo is the bookkeeping row kept per submitted batch.
type BatchInfo struct {
	ID          string    `json:"id"`
	Status      string    `json:"status"`
	RecordCount int       `json:"recordCount"`
	ChunkCount  int       `json:"chunkCount"`
	Processed   int       `json:"processed"`
	Skipped     int       `json:"skipped"`
	Result      string    `json:"result,omitempty"`
	Flags       SyncFlags `json:"flags"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// BatchError is one recorded error for a batch, in report order.
type BatchError struct {
	Stage     string    `json:"stage"` // "validation" or "processing"
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// BatchLog is one bookkeeping log line for a batch.
type BatchLog struct {
	Stage     string    `json:"stage"`
	Level     string    `json:"level"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}
