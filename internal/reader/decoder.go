package reader

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/DjordjeVuckovic/relecov-tools/internal/domain/record"
	"github.com/DjordjeVuckovic/relecov-tools/internal/schema"
	"github.com/DjordjeVuckovic/relecov-tools/pkg/utils"
)

type column struct {
	path  record.Path
	field schema.Field
}

// Decoder turns flat spreadsheet rows into typed records using a schema.
//
// A header matches a field by its dotted path ("location.country"), by its
// bare name for top-level fields, or by its human-readable label. Empty
// cells are treated as absent. A cell that does not parse as the field's
// type is kept as a string so validation can report it with the original
// value. Headers that match no field are carried through as strings under
// the header text.
type Decoder struct {
	columns   map[string]column
	listSplit string
}

type DecoderOption func(*Decoder)

// WithListSeparator sets the separator used to split list cells. Defaults to ",".
func WithListSeparator(sep string) DecoderOption {
	return func(d *Decoder) {
		d.listSplit = sep
	}
}

func NewDecoder(s *schema.Schema, opts ...DecoderOption) *Decoder {
	d := &Decoder{
		columns:   make(map[string]column),
		listSplit: ",",
	}
	for _, opt := range opts {
		opt(d)
	}
	if s != nil {
		d.index(s, nil)
	}
	return d
}

func (d *Decoder) index(s *schema.Schema, parent record.Path) {
	for _, f := range s.Fields() {
		p := append(append(record.Path{}, parent...), record.Segment{Key: f.Name})
		col := column{path: p, field: f}
		d.add(p.String(), col)
		if f.Label != "" {
			d.add(f.Label, col)
		}
		if f.Type == schema.TypeNested && f.Nested != nil {
			d.index(f.Nested, p)
		}
	}
}

// add keeps the first registration so a path always wins over a later label.
func (d *Decoder) add(key string, col column) {
	key = normalize(key)
	if _, ok := d.columns[key]; !ok {
		d.columns[key] = col
	}
}

func normalize(h string) string {
	return strings.ToLower(strings.TrimSpace(h))
}

// Decode builds a record from a row. It fails only when two headers write
// to conflicting locations.
func (d *Decoder) Decode(row Row) (record.Record, error) {
	out := record.Record{}
	for _, header := range slices.Sorted(maps.Keys(row)) {
		cell := row[header]
		if strings.TrimSpace(cell) == "" {
			continue
		}
		col, ok := d.columns[normalize(header)]
		if !ok {
			out[header] = record.String(cell)
			continue
		}
		if err := out.Set(col.path, d.parse(col.field, cell)); err != nil {
			return nil, fmt.Errorf("column %q: %w", header, err)
		}
	}
	return out, nil
}

func (d *Decoder) parse(f schema.Field, cell string) record.Value {
	raw := record.String(strings.TrimSpace(cell))
	if f.Type == schema.TypeList {
		parts := utils.SplitNonEmpty(cell, d.listSplit)
		items := make([]record.Value, 0, len(parts))
		for _, p := range parts {
			if f.Items != nil {
				items = append(items, d.parse(*f.Items, p))
			} else {
				items = append(items, record.String(p))
			}
		}
		return record.List(items...)
	}
	switch f.Type {
	case schema.TypeString, schema.TypeEnum, schema.TypeNested:
		return raw
	}
	if v, ok := schema.Coerce(f, raw); ok {
		return v
	}
	return raw
}
