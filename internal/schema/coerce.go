package schema

import (
	"strconv"
	"strings"

	"github.com/DjordjeVuckovic/relecov-tools/internal/domain/record"
)

// Conforms reports whether v's runtime shape matches t, ignoring enum membership and nested content.
// Dates also accept strings in the calendar-date layout, since most sources carry dates as text.
func Conforms(t Type, v record.Value) bool {
	switch t {
	case TypeString, TypeEnum:
		return v.Kind() == record.KindString
	case TypeInteger:
		return v.Kind() == record.KindInteger
	case TypeFloat:
		_, ok := v.AsNumber()
		return ok
	case TypeBoolean:
		return v.Kind() == record.KindBoolean
	case TypeDate:
		if v.Kind() == record.KindDate {
			return true
		}
		s, ok := v.AsString()
		if !ok {
			return false
		}
		_, ok = record.ParseDate(s)
		return ok
	case TypeNested:
		return v.Kind() == record.KindRecord
	case TypeList:
		return v.Kind() == record.KindList
	}
	return false
}

// Coerce converts v to the field's type when the conversion is lossless.
// It returns v unchanged and false when no such conversion exists.
func Coerce(f Field, v record.Value) (record.Value, bool) {
	if v.IsNull() || Conforms(f.Type, v) {
		switch f.Type {
		case TypeFloat:
			if i, ok := v.AsInt(); ok {
				return record.Float(float64(i)), true
			}
		case TypeDate:
			if s, ok := v.AsString(); ok {
				t, _ := record.ParseDate(s)
				return record.Date(t), true
			}
		}
		return v, true
	}

	switch f.Type {
	case TypeString, TypeEnum:
		switch v.Kind() {
		case record.KindInteger, record.KindFloat, record.KindBoolean, record.KindDate:
			return record.String(v.String()), true
		}
	case TypeInteger:
		if s, ok := v.AsString(); ok {
			if i, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64); err == nil {
				return record.Int(i), true
			}
		}
		if fv, ok := v.AsFloat(); ok && fv == float64(int64(fv)) {
			return record.Int(int64(fv)), true
		}
	case TypeFloat:
		if s, ok := v.AsString(); ok {
			if fv, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
				return record.Float(fv), true
			}
		}
	case TypeBoolean:
		if s, ok := v.AsString(); ok {
			if b, err := strconv.ParseBool(strings.TrimSpace(s)); err == nil {
				return record.Bool(b), true
			}
		}
	case TypeList:
		if f.Items != nil {
			if item, ok := Coerce(*f.Items, v); ok {
				return record.List(item), true
			}
		}
	}
	return v, false
}
