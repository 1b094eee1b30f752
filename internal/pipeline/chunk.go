package pipeline

import "errors"

// ErrInvalidChunkSize is returned by SplitChunks for a non-positive size.
var ErrInvalidChunkSize = errors.New("chunk size must be positive")

// SplitChunks partitions items into ceil(N/size) contiguous chunks. Every
// chunk except possibly the last holds exactly size elements; relative order
// is preserved within and across chunks, and concatenating the chunks
// reproduces the input exactly. The split is purely structural: element
// contents are never inspected.
func SplitChunks[T any](items []T, size int) ([][]T, error) {
	if size <= 0 {
		return nil, ErrInvalidChunkSize
	}
	if len(items) == 0 {
		return nil, nil
	}

	numChunks := (len(items) + size - 1) / size
	chunks := make([][]T, 0, numChunks)
	for i := 0; i < len(items); i += size {
		end := min(i+size, len(items))
		chunks = append(chunks, items[i:end])
	}
	return chunks, nil
}
