package reader

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
)

type CSVReader struct {
	reader    io.Reader
	delimiter rune
}

type CSVOption func(*CSVReader)

// WithDelimiter sets the field separator, e.g. ';' for spreadsheets exported
// with a European locale.
func WithDelimiter(d rune) CSVOption {
	return func(cr *CSVReader) {
		cr.delimiter = d
	}
}

func NewCSVReader(reader io.Reader, opts ...CSVOption) *CSVReader {
	cr := &CSVReader{
		reader:    reader,
		delimiter: ',',
	}
	for _, opt := range opts {
		opt(cr)
	}
	return cr
}

func (cr *CSVReader) newCSV() (*csv.Reader, []string, error) {
	csvReader := csv.NewReader(cr.reader)
	csvReader.Comma = cr.delimiter
	csvReader.FieldsPerRecord = -1

	headers, err := csvReader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	for i, h := range headers {
		headers[i] = strings.TrimSpace(strings.TrimPrefix(h, "\uFEFF"))
	}
	return csvReader, headers, nil
}

func (cr *CSVReader) Read() ([]Row, error) {
	csvReader, headers, err := cr.newCSV()
	if err != nil {
		return nil, err
	}

	var rows []Row
	for line := 2; ; line++ {
		cells, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if blank(cells) {
			continue
		}
		row, err := toRow(headers, cells)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		rows = append(rows, row)
	}

	return rows, nil
}

func (cr *CSVReader) ReadParallel(ctx context.Context, workerCount int) (<-chan ParallelReaderResult, error) {
	if workerCount < 1 {
		workerCount = 1
	}
	out := make(chan ParallelReaderResult)
	csvReader, headers, err := cr.newCSV()
	if err != nil {
		return nil, err
	}

	type job struct {
		index int
		cells []string
	}
	jobs := make(chan job, workerCount*2)
	var wg sync.WaitGroup

	send := func(res ParallelReaderResult) bool {
		select {
		case out <- res:
			return true
		case <-ctx.Done():
			return false
		}
	}

	wg.Add(workerCount)
	for w := 0; w < workerCount; w++ {
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case j, ok := <-jobs:
					if !ok {
						return
					}
					row, err := toRow(headers, j.cells)
					if !send(ParallelReaderResult{Index: j.index, Row: row, Err: err}) {
						return
					}
				}
			}
		}()
	}

	go func() {
		defer close(jobs)

		for index := 0; ; {
			cells, err := csvReader.Read()
			if err == io.EOF {
				return
			}
			if err != nil {
				slog.Error("Error reading CSV row", "error", err, "index", index)
				if !send(ParallelReaderResult{Index: index, Err: err}) {
					return
				}
				index++
				continue
			}
			if blank(cells) {
				continue
			}
			select {
			case jobs <- job{index: index, cells: cells}:
				index++
			case <-ctx.Done():
				slog.Info("Context cancelled, stopping CSV read...")
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(out)
	}()

	return out, nil
}

func toRow(headers, cells []string) (Row, error) {
	if len(cells) > len(headers) {
		return nil, fmt.Errorf("row has %d cells but header has %d columns", len(cells), len(headers))
	}
	row := make(Row, len(headers))
	for i, h := range headers {
		if i < len(cells) {
			row[h] = cells[i]
		} else {
			row[h] = ""
		}
	}
	return row, nil
}

func blank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
