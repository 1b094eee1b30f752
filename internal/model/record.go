package model

// RawRecord is one loosely-typed record handed over by the sync source.
// A well-formed record is a mapping; the validator rejects anything else,
// so downstream components never inspect the shape again.
type RawRecord = Value

// SyncFlags carries the caller's sync context through the pipeline to the
// storage collaborator.
type SyncFlags struct {
	IsManualSync         bool `json:"isManualSync"`
	IsProviderManualSync bool `json:"isProviderManualSync"`
}

// BatchSubmission is the body for POST /api/v1/batches.
type BatchSubmission struct {
	Records []RawRecord `json:"records"`
	Flags   SyncFlags   `json:"flags"`
}
