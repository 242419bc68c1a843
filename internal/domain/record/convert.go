package record

import (
	"bytes"
	"fmt"
	"math"
	"time"

	"github.com/goccy/go-json"
)

// number is satisfied by json.Number from both encoding/json and go-json.
type number interface {
	String() string
	Int64() (int64, error)
	Float64() (float64, error)
}

// FromAny converts a decoded JSON/YAML value into a Value.
func FromAny(in any) (Value, error) {
	switch v := in.(type) {
	case nil:
		return Null(), nil
	case Value:
		return v, nil
	case Record:
		return Nested(v), nil
	case string:
		return String(v), nil
	case bool:
		return Bool(v), nil
	case int:
		return Int(int64(v)), nil
	case int32:
		return Int(int64(v)), nil
	case int64:
		return Int(v), nil
	case uint64:
		if v > math.MaxInt64 {
			return Float(float64(v)), nil
		}
		return Int(int64(v)), nil
	case float32:
		return Float(float64(v)), nil
	case float64:
		return Float(v), nil
	case time.Time:
		return Date(v), nil
	case number:
		if i, err := v.Int64(); err == nil {
			return Int(i), nil
		}
		f, err := v.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("invalid number %q: %w", v.String(), err)
		}
		return Float(f), nil
	case []any:
		list := make([]Value, len(v))
		for i, e := range v {
			ev, err := FromAny(e)
			if err != nil {
				return Value{}, fmt.Errorf("[%d]: %w", i, err)
			}
			list[i] = ev
		}
		return Value{kind: KindList, list: list}, nil
	case map[string]any:
		r, err := FromMap(v)
		if err != nil {
			return Value{}, err
		}
		return Nested(r), nil
	default:
		return Value{}, fmt.Errorf("unsupported value type %T", in)
	}
}

// FromMap converts a decoded JSON object into a Record.
func FromMap(m map[string]any) (Record, error) {
	r := make(Record, len(m))
	for k, e := range m {
		v, err := FromAny(e)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", k, err)
		}
		r[k] = v
	}
	return r, nil
}

// ToAny converts back into plain Go values; dates become their text form.
func (v Value) ToAny() any {
	switch v.kind {
	case KindString:
		return v.s
	case KindInteger:
		return v.i
	case KindFloat:
		return v.f
	case KindBoolean:
		return v.b
	case KindDate:
		return v.t.Format(DateLayout)
	case KindList:
		out := make([]any, len(v.list))
		for i, e := range v.list {
			out[i] = e.ToAny()
		}
		return out
	case KindRecord:
		return v.rec.ToMap()
	default:
		return nil
	}
}

func (r Record) ToMap() map[string]any {
	out := make(map[string]any, len(r))
	for k, v := range r {
		out[k] = v.ToAny()
	}
	return out
}

func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.ToAny())
}

func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	parsed, err := FromAny(raw)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

func (r *Record) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	parsed, err := FromMap(raw)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// DecodeJSONArray decodes a JSON array of objects, keeping integer/float distinction.
func DecodeJSONArray(data []byte) ([]Record, error) {
	var raw []map[string]any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}
	out := make([]Record, len(raw))
	for i, m := range raw {
		r, err := FromMap(m)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		out[i] = r
	}
	return out, nil
}
