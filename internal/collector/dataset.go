package collector

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/DjordjeVuckovic/relecov-tools/internal/domain/record"
	"github.com/DjordjeVuckovic/relecov-tools/internal/reader"
	"github.com/DjordjeVuckovic/relecov-tools/internal/schema"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatTSV  Format = "tsv"
	FormatJSON Format = "json"
)

// FormatFromPath guesses the dataset format from the file extension.
// .ndjson and .jsonl read as JSON.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".tsv", ".tab":
		return FormatTSV, nil
	case ".json", ".ndjson", ".jsonl":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("cannot infer dataset format from %q", path)
	}
}

// ParseFormat accepts an explicit format name; an empty name defers to the path.
func ParseFormat(name, path string) (Format, error) {
	if name == "" {
		return FormatFromPath(path)
	}
	switch f := Format(strings.ToLower(name)); f {
	case FormatCSV, FormatTSV, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported dataset format %q", name)
	}
}

// ForDataset builds the collector for r. Spreadsheet columns are decoded
// against s.
func ForDataset(r io.Reader, f Format, s *schema.Schema, opts ...reader.DecoderOption) (Collector[record.Record], error) {
	switch f {
	case FormatCSV:
		return NewRowCollector(reader.NewCSVReader(r), reader.NewDecoder(s, opts...)), nil
	case FormatTSV:
		return NewRowCollector(reader.NewCSVReader(r, reader.WithDelimiter('\t')), reader.NewDecoder(s, opts...)), nil
	case FormatJSON:
		return NewJSONCollector(reader.NewJSONReader(r))
	default:
		return nil, fmt.Errorf("unsupported dataset format %q", f)
	}
}
