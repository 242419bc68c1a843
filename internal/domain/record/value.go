package record

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the calendar-date layout used for date values and their text form.
const DateLayout = "2006-01-02"

// Kind identifies which variant a Value holds.
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindInteger
	KindFloat
	KindBoolean
	KindDate
	KindList
	KindRecord
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindBoolean:
		return "boolean"
	case KindDate:
		return "date"
	case KindList:
		return "list"
	case KindRecord:
		return "record"
	default:
		return "unknown"
	}
}

// Value is a tagged union over the value shapes a metadata field can take.
// The zero Value is null.
type Value struct {
	kind Kind
	s    string
	i    int64
	f    float64
	b    bool
	t    time.Time
	list []Value
	rec  Record
}

func Null() Value { return Value{} }

func String(s string) Value { return Value{kind: KindString, s: s} }

func Int(i int64) Value { return Value{kind: KindInteger, i: i} }

func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

func Bool(b bool) Value { return Value{kind: KindBoolean, b: b} }

// Date keeps only the calendar date of t, normalised to UTC midnight.
func Date(t time.Time) Value {
	y, m, d := t.Date()
	return Value{kind: KindDate, t: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// List copies vs so later changes to the caller's slice are not observed.
func List(vs ...Value) Value {
	cp := make([]Value, len(vs))
	copy(cp, vs)
	return Value{kind: KindList, list: cp}
}

func Nested(r Record) Value {
	if r == nil {
		r = Record{}
	}
	return Value{kind: KindRecord, rec: r}
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsNull() bool { return v.kind == KindNull }

func (v Value) AsString() (string, bool) { return v.s, v.kind == KindString }

func (v Value) AsInt() (int64, bool) { return v.i, v.kind == KindInteger }

func (v Value) AsFloat() (float64, bool) { return v.f, v.kind == KindFloat }

// AsNumber widens integers to float64.
func (v Value) AsNumber() (float64, bool) {
	switch v.kind {
	case KindInteger:
		return float64(v.i), true
	case KindFloat:
		return v.f, true
	default:
		return 0, false
	}
}

func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBoolean }

func (v Value) AsDate() (time.Time, bool) { return v.t, v.kind == KindDate }

// AsList returns the backing slice; callers must not modify it.
func (v Value) AsList() ([]Value, bool) { return v.list, v.kind == KindList }

func (v Value) AsRecord() (Record, bool) { return v.rec, v.kind == KindRecord }

// Clone returns a deep copy.
func (v Value) Clone() Value {
	switch v.kind {
	case KindList:
		cp := make([]Value, len(v.list))
		for i, e := range v.list {
			cp[i] = e.Clone()
		}
		return Value{kind: KindList, list: cp}
	case KindRecord:
		return Nested(v.rec.Clone())
	default:
		return v
	}
}

// Equal reports deep equality. Integer and float values are never equal to each other.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindString:
		return v.s == o.s
	case KindInteger:
		return v.i == o.i
	case KindFloat:
		return v.f == o.f
	case KindBoolean:
		return v.b == o.b
	case KindDate:
		return v.t.Equal(o.t)
	case KindList:
		if len(v.list) != len(o.list) {
			return false
		}
		for i := range v.list {
			if !v.list[i].Equal(o.list[i]) {
				return false
			}
		}
		return true
	case KindRecord:
		return v.rec.Equal(o.rec)
	}
	return false
}

// String renders the value for diagnostics and translation-table lookups.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindString:
		return v.s
	case KindInteger:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindBoolean:
		return strconv.FormatBool(v.b)
	case KindDate:
		return v.t.Format(DateLayout)
	case KindList:
		parts := make([]string, len(v.list))
		for i, e := range v.list {
			parts[i] = e.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindRecord:
		keys := v.rec.Keys()
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = k + ": " + v.rec[k].String()
		}
		return "{" + strings.Join(parts, ", ") + "}"
	}
	return ""
}

// ParseDate accepts the calendar-date layout and RFC 3339 timestamps.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// MustDate parses a calendar date literal and panics on failure; meant for fixtures.
func MustDate(s string) Value {
	t, ok := ParseDate(s)
	if !ok {
		panic("record: invalid date " + s)
	}
	return Date(t)
}
