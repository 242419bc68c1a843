package reader

import "context"

// Row is one data line keyed by column header.
type Row map[string]string

type Reader interface {
	Read() ([]Row, error)
}

// ParallelReaderResult carries a row and its zero-based position in the
// input, so consumers can restore input order.
type ParallelReaderResult struct {
	Index int
	Row   Row
	Err   error
}

type RawParallelReader interface {
	ReadParallel(ctx context.Context, workerCount int) (<-chan ParallelReaderResult, error)
}
