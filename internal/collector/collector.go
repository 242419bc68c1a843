package collector

import "context"

// Result is one collected item. Index is the item's position in the
// input and lets consumers restore input order after parallel collection.
type Result[T any] struct {
	Index  int
	Result T
	Err    error
}

type Collector[T any] interface {
	Collect(ctx context.Context) (<-chan Result[T], error)
}
