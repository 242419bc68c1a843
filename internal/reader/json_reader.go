package reader

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	"github.com/goccy/go-json"

	"github.com/DjordjeVuckovic/relecov-tools/internal/domain/record"
)

// JSONReader reads records from a JSON array of objects or from
// newline-delimited JSON objects.
type JSONReader struct {
	reader io.Reader
}

func NewJSONReader(reader io.Reader) *JSONReader {
	return &JSONReader{reader: reader}
}

func (jr *JSONReader) Read() ([]record.Record, error) {
	data, err := io.ReadAll(jr.reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read JSON input: %w", err)
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}
	if trimmed[0] == '[' {
		return record.DecodeJSONArray(trimmed)
	}
	return decodeLines(trimmed)
}

func decodeLines(data []byte) ([]record.Record, error) {
	var out []record.Record
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := bytes.TrimSpace(scanner.Bytes())
		if len(text) == 0 {
			continue
		}
		var r record.Record
		if err := json.Unmarshal(text, &r); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		out = append(out, r)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
