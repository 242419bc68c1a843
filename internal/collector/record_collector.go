package collector

import (
	"context"
	"log/slog"

	"github.com/DjordjeVuckovic/relecov-tools/internal/domain/record"
	"github.com/DjordjeVuckovic/relecov-tools/internal/reader"
)

const defaultWorkers = 4

// RowCollector reads spreadsheet rows in parallel and decodes them into records.
type RowCollector struct {
	Reader  reader.RawParallelReader
	Decoder *reader.Decoder
	Workers int
}

func NewRowCollector(r reader.RawParallelReader, decoder *reader.Decoder) *RowCollector {
	return &RowCollector{
		Reader:  r,
		Decoder: decoder,
		Workers: defaultWorkers,
	}
}

func (rc *RowCollector) Collect(ctx context.Context) (<-chan Result[record.Record], error) {
	rows, err := rc.Reader.ReadParallel(ctx, rc.Workers)
	if err != nil {
		return nil, err
	}

	out := make(chan Result[record.Record])
	go func() {
		defer close(out)

		for {
			select {
			case <-ctx.Done():
				return
			case res, ok := <-rows:
				if !ok {
					slog.Debug("Reader channel closed, stopping collection")
					return
				}
				item := Result[record.Record]{Index: res.Index, Err: res.Err}
				if res.Err == nil {
					item.Result, item.Err = rc.Decoder.Decode(res.Row)
					if item.Err != nil {
						slog.Error("failed to decode row", "error", item.Err, "index", res.Index)
					}
				}
				select {
				case out <- item:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}

// SliceCollector emits already decoded records, e.g. from a JSON document.
type SliceCollector struct {
	records []record.Record
}

func NewSliceCollector(records []record.Record) *SliceCollector {
	return &SliceCollector{records: records}
}

// NewJSONCollector reads every record up front; JSON input has no streaming row form.
func NewJSONCollector(r *reader.JSONReader) (*SliceCollector, error) {
	records, err := r.Read()
	if err != nil {
		return nil, err
	}
	return NewSliceCollector(records), nil
}

func (sc *SliceCollector) Collect(ctx context.Context) (<-chan Result[record.Record], error) {
	out := make(chan Result[record.Record])
	go func() {
		defer close(out)
		for i, r := range sc.records {
			select {
			case out <- Result[record.Record]{Index: i, Result: r}:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}
