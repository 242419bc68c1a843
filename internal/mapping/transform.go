package mapping

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/DjordjeVuckovic/relecov-tools/internal/domain/record"
)

// Transform is a named pure function applied to a source value.
// Returning an error means it cannot produce a value for that input.
type Transform func(record.Value) (record.Value, error)

// Registry holds transforms by name. It must not be modified once a Mapper uses it.
type Registry struct {
	transforms map[string]Transform
}

func NewRegistry() *Registry {
	return &Registry{
		transforms: make(map[string]Transform),
	}
}

// DefaultRegistry returns a registry preloaded with the built-in transforms.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Add("trim", stringFn(strings.TrimSpace))
	r.Add("upper", stringFn(strings.ToUpper))
	r.Add("lower", stringFn(strings.ToLower))
	r.Add("to_string", toString)
	r.Add("to_integer", toInteger)
	r.Add("to_float", toFloat)
	r.Add("to_boolean", toBoolean)
	r.Add("to_date", toDate)
	r.Add("year", year)
	r.Add("join", join)
	r.Add("split", split)
	r.Add("first", first)
	return r
}

func (r *Registry) Add(name string, fn Transform) {
	r.transforms[name] = fn
}

func (r *Registry) Get(name string) (Transform, bool) {
	fn, ok := r.transforms[name]
	return fn, ok
}

func (r *Registry) Has(name string) bool {
	_, ok := r.transforms[name]
	return ok
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.transforms))
	for name := range r.transforms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var errNotString = errors.New("value is not a string")

func stringFn(fn func(string) string) Transform {
	return func(v record.Value) (record.Value, error) {
		s, ok := v.AsString()
		if !ok {
			return record.Value{}, errNotString
		}
		return record.String(fn(s)), nil
	}
}

func toString(v record.Value) (record.Value, error) {
	switch v.Kind() {
	case record.KindNull, record.KindList, record.KindRecord:
		return record.Value{}, fmt.Errorf("cannot convert %s to string", v.Kind())
	}
	return record.String(v.String()), nil
}

func toInteger(v record.Value) (record.Value, error) {
	switch v.Kind() {
	case record.KindInteger:
		return v, nil
	case record.KindFloat:
		f, _ := v.AsFloat()
		if f != float64(int64(f)) {
			return record.Value{}, fmt.Errorf("%v is not integral", f)
		}
		return record.Int(int64(f)), nil
	case record.KindString:
		s, _ := v.AsString()
		i, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err != nil {
			return record.Value{}, err
		}
		return record.Int(i), nil
	}
	return record.Value{}, fmt.Errorf("cannot convert %s to integer", v.Kind())
}

func toFloat(v record.Value) (record.Value, error) {
	if f, ok := v.AsNumber(); ok {
		return record.Float(f), nil
	}
	if s, ok := v.AsString(); ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return record.Value{}, err
		}
		return record.Float(f), nil
	}
	return record.Value{}, fmt.Errorf("cannot convert %s to float", v.Kind())
}

func toBoolean(v record.Value) (record.Value, error) {
	if _, ok := v.AsBool(); ok {
		return v, nil
	}
	s, ok := v.AsString()
	if !ok {
		return record.Value{}, fmt.Errorf("cannot convert %s to boolean", v.Kind())
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "y":
		return record.Bool(true), nil
	case "no", "n":
		return record.Bool(false), nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(s))
	if err != nil {
		return record.Value{}, err
	}
	return record.Bool(b), nil
}

func toDate(v record.Value) (record.Value, error) {
	if _, ok := v.AsDate(); ok {
		return v, nil
	}
	s, ok := v.AsString()
	if !ok {
		return record.Value{}, fmt.Errorf("cannot convert %s to date", v.Kind())
	}
	t, ok := record.ParseDate(s)
	if !ok {
		return record.Value{}, fmt.Errorf("%q is not a date", s)
	}
	return record.Date(t), nil
}

func year(v record.Value) (record.Value, error) {
	d, err := toDate(v)
	if err != nil {
		return record.Value{}, err
	}
	t, _ := d.AsDate()
	return record.Int(int64(t.Year())), nil
}

func join(v record.Value) (record.Value, error) {
	items, ok := v.AsList()
	if !ok {
		return record.Value{}, fmt.Errorf("cannot join %s", v.Kind())
	}
	parts := make([]string, 0, len(items))
	for _, item := range items {
		if item.IsNull() {
			continue
		}
		parts = append(parts, item.String())
	}
	return record.String(strings.Join(parts, ", ")), nil
}

func split(v record.Value) (record.Value, error) {
	s, ok := v.AsString()
	if !ok {
		return record.Value{}, errNotString
	}
	var items []record.Value
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			items = append(items, record.String(part))
		}
	}
	return record.List(items...), nil
}

func first(v record.Value) (record.Value, error) {
	items, ok := v.AsList()
	if !ok {
		return record.Value{}, fmt.Errorf("cannot take first element of %s", v.Kind())
	}
	if len(items) == 0 {
		return record.Value{}, errors.New("list is empty")
	}
	return items[0], nil
}
