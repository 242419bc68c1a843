package record

import "fmt"

// Record maps field names to values. A Record handed to the validator is treated as immutable.
type Record map[string]Value

func (r Record) Keys() []string { return sortedKeys(r) }

func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	cp := make(Record, len(r))
	for k, v := range r {
		cp[k] = v.Clone()
	}
	return cp
}

func (r Record) Equal(o Record) bool {
	if len(r) != len(o) {
		return false
	}
	for k, v := range r {
		ov, ok := o[k]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}

// Lookup returns the value at a dot-path. Null values count as absent.
func (r Record) Lookup(path string) (Value, bool) {
	p, err := ParsePath(path)
	if err != nil {
		return Value{}, false
	}
	return r.Get(p)
}

// Get walks p and reports whether a non-null value exists there.
func (r Record) Get(p Path) (Value, bool) {
	if len(p) == 0 {
		return Value{}, false
	}
	cur := Nested(r)
	for _, seg := range p {
		if seg.IsIndex {
			list, ok := cur.AsList()
			if !ok || seg.Index >= len(list) {
				return Value{}, false
			}
			cur = list[seg.Index]
			continue
		}
		rec, ok := cur.AsRecord()
		if !ok {
			return Value{}, false
		}
		cur, ok = rec[seg.Key]
		if !ok {
			return Value{}, false
		}
	}
	if cur.IsNull() {
		return Value{}, false
	}
	return cur, true
}

// Set writes v at p, creating intermediate records and extending lists with nulls as needed.
// It fails when an existing intermediate value has an incompatible shape.
func (r Record) Set(p Path, v Value) error {
	if len(p) == 0 {
		return fmt.Errorf("empty path")
	}
	if p[0].IsIndex {
		return fmt.Errorf("path %q must start with a field name", p)
	}
	if len(p) == 1 {
		r[p[0].Key] = v
		return nil
	}
	next, err := setIn(r[p[0].Key], p[1:], v)
	if err != nil {
		return fmt.Errorf("set %q: %w", p, err)
	}
	r[p[0].Key] = next
	return nil
}

func setIn(cur Value, p Path, v Value) (Value, error) {
	if len(p) == 0 {
		return v, nil
	}
	seg := p[0]

	if seg.IsIndex {
		var list []Value
		switch cur.Kind() {
		case KindNull:
		case KindList:
			list, _ = cur.AsList()
		default:
			return Value{}, fmt.Errorf("cannot index into %s", cur.Kind())
		}
		cp := make([]Value, max(len(list), seg.Index+1))
		copy(cp, list)
		elem, err := setIn(cp[seg.Index], p[1:], v)
		if err != nil {
			return Value{}, err
		}
		cp[seg.Index] = elem
		return Value{kind: KindList, list: cp}, nil
	}

	var rec Record
	switch cur.Kind() {
	case KindNull:
		rec = Record{}
	case KindRecord:
		rec, _ = cur.AsRecord()
	default:
		return Value{}, fmt.Errorf("cannot set field %q on %s", seg.Key, cur.Kind())
	}
	child, err := setIn(rec[seg.Key], p[1:], v)
	if err != nil {
		return Value{}, err
	}
	rec[seg.Key] = child
	return Nested(rec), nil
}
