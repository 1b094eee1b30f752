package pipeline

import "go-sync-ingest/internal/model"

// FoldOutcomes reduces per-chunk outcomes, in chunk order, into one
// pipeline-level result. Counts are summed and error lists concatenated, so
// for a fixed sequence of outcomes the fold is deterministic.
//
// Classification: no errors → Success; errors with at least one processed
// record → PartialSuccess; errors with nothing processed → Failure.
func FoldOutcomes(outcomes []model.ChunkOutcome) model.PipelineResult {
	var processed, skipped int
	var errs []error

	for _, o := range outcomes {
		processed += o.Processed
		skipped += o.Skipped
		for _, e := range o.Errors {
			errs = append(errs, e)
		}
	}

	switch {
	case len(errs) == 0:
		return model.Success(processed, skipped)
	case processed > 0:
		return model.PartialSuccess(processed, skipped, errs)
	default:
		return model.Failure(errs)
	}
}
