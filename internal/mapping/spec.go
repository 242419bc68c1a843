package mapping

import (
	"errors"
	"fmt"
	"sort"

	"github.com/DjordjeVuckovic/relecov-tools/internal/domain/record"
)

// FieldMapping moves one value from a source path to a target path.
type FieldMapping struct {
	// Source is a dot-path into the source record. Empty means the mapping
	// always writes Default.
	Source string
	Target string
	// Translate maps observed source values to target values, for enumerated vocabularies.
	Translate map[string]string
	// Transform names a function in the Registry applied before writing.
	Transform string
	// Default is written when the source value is absent.
	Default *record.Value
}

// Spec is a declarative translation table between two schemas.
type Spec struct {
	Name   string
	Source string
	Target string
	Fields []FieldMapping
}

// Validate performs structural checks that do not need the schemas.
func (s *Spec) Validate() error {
	if s == nil {
		return errors.New("mapping spec is nil")
	}
	if s.Source == "" {
		return errors.New("mapping spec: source schema is required")
	}
	if s.Target == "" {
		return errors.New("mapping spec: target schema is required")
	}
	if len(s.Fields) == 0 {
		return errors.New("mapping spec: at least one field mapping is required")
	}

	targets := make([]string, 0, len(s.Fields))
	for i, fm := range s.Fields {
		if fm.Source == "" && fm.Default == nil {
			return fmt.Errorf("fields[%d]: source or default is required", i)
		}
		if fm.Source != "" {
			if _, err := record.ParsePath(fm.Source); err != nil {
				return fmt.Errorf("fields[%d]: source: %w", i, err)
			}
		}
		if fm.Target == "" {
			return fmt.Errorf("fields[%d]: target is required", i)
		}
		tp, err := record.ParsePath(fm.Target)
		if err != nil {
			return fmt.Errorf("fields[%d]: target: %w", i, err)
		}
		if tp[0].IsIndex {
			return fmt.Errorf("fields[%d]: target %q must start with a field name", i, fm.Target)
		}
		if fm.Translate != nil && len(fm.Translate) == 0 {
			return fmt.Errorf("fields[%d]: translate table is empty", i)
		}
		targets = append(targets, tp.String())
	}
	return checkTargetOverlap(targets)
}

// checkTargetOverlap rejects two mappings writing the same target, or one
// writing inside the other's value.
func checkTargetOverlap(targets []string) error {
	seen := make(map[string]struct{}, len(targets))
	for _, t := range targets {
		if _, dup := seen[t]; dup {
			return fmt.Errorf("target %q is mapped more than once", t)
		}
		seen[t] = struct{}{}
	}

	sorted := append([]string(nil), targets...)
	sort.Strings(sorted)
	for _, t := range sorted {
		for i := 1; i < len(t); i++ {
			if t[i] != '.' && t[i] != '[' {
				continue
			}
			if _, ok := seen[t[:i]]; ok {
				return fmt.Errorf("target %q overlaps target %q", t, t[:i])
			}
		}
	}
	return nil
}

// Inverse builds the B->A spec. Translation tables are inverted and must be
// one-to-one; specs with transforms cannot be inverted. Constant mappings are dropped.
func (s *Spec) Inverse() (*Spec, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	inv := &Spec{
		Name:   s.Name + "-inverse",
		Source: s.Target,
		Target: s.Source,
	}
	for i, fm := range s.Fields {
		if fm.Source == "" {
			continue
		}
		if fm.Transform != "" {
			return nil, fmt.Errorf("fields[%d]: transform %q has no inverse", i, fm.Transform)
		}
		out := FieldMapping{Source: fm.Target, Target: fm.Source}
		if fm.Translate != nil {
			out.Translate = make(map[string]string, len(fm.Translate))
			for from, to := range fm.Translate {
				if prev, dup := out.Translate[to]; dup {
					return nil, fmt.Errorf("fields[%d]: translation is not one-to-one: %q and %q both map to %q", i, prev, from, to)
				}
				out.Translate[to] = from
			}
		}
		inv.Fields = append(inv.Fields, out)
	}
	if len(inv.Fields) == 0 {
		return nil, errors.New("mapping spec has no invertible field mappings")
	}
	return inv, nil
}
