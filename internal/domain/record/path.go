package record

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Segment is one step of a Path: either a field key or a list index.
type Segment struct {
	Key     string
	Index   int
	IsIndex bool
}

// Path addresses a value inside a Record, e.g. "host.species" or "samples[3].collection_date".
type Path []Segment

// ParsePath parses dot-notation with optional [i] indices after a key.
func ParsePath(s string) (Path, error) {
	if s == "" {
		return nil, errors.New("empty path")
	}

	var p Path
	for _, part := range strings.Split(s, ".") {
		if part == "" {
			return nil, fmt.Errorf("invalid path %q: empty segment", s)
		}

		key := part
		rest := ""
		if i := strings.IndexByte(part, '['); i >= 0 {
			key, rest = part[:i], part[i:]
		}
		if key == "" {
			return nil, fmt.Errorf("invalid path %q: index without field name", s)
		}
		p = append(p, Segment{Key: key})

		for rest != "" {
			end := strings.IndexByte(rest, ']')
			if rest[0] != '[' || end < 0 {
				return nil, fmt.Errorf("invalid path %q: malformed index in %q", s, part)
			}
			idx, err := strconv.Atoi(rest[1:end])
			if err != nil || idx < 0 {
				return nil, fmt.Errorf("invalid path %q: bad index %q", s, rest[1:end])
			}
			p = append(p, Segment{Index: idx, IsIndex: true})
			rest = rest[end+1:]
		}
	}
	return p, nil
}

// MustParsePath panics on malformed input; meant for literals in tests and tables.
func MustParsePath(s string) Path {
	p, err := ParsePath(s)
	if err != nil {
		panic(err)
	}
	return p
}

func (p Path) String() string {
	var b strings.Builder
	for i, seg := range p {
		if seg.IsIndex {
			b.WriteString("[")
			b.WriteString(strconv.Itoa(seg.Index))
			b.WriteString("]")
			continue
		}
		if i > 0 {
			b.WriteString(".")
		}
		b.WriteString(seg.Key)
	}
	return b.String()
}

// Keys returns only the key segments, dropping list indices.
func (p Path) Keys() []string {
	keys := make([]string, 0, len(p))
	for _, seg := range p {
		if !seg.IsIndex {
			keys = append(keys, seg.Key)
		}
	}
	return keys
}

// JoinField appends a field name to a parent path string.
func JoinField(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "." + name
}

// JoinIndex appends a list index to a parent path string.
func JoinIndex(parent string, i int) string {
	return parent + "[" + strconv.Itoa(i) + "]"
}
