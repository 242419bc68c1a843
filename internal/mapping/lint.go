package mapping

import (
	"maps"
	"slices"

	"github.com/DjordjeVuckovic/relecov-tools/internal/schema"
)

type GapReason string

const (
	// MissingTranslation: an allowed source value has no entry in the table
	// and the target is required, so records carrying it can never map.
	MissingTranslation GapReason = "missing_translation"
	// TargetNotAllowed: the table produces a value the target enum rejects.
	TargetNotAllowed GapReason = "target_not_allowed"
)

// Gap is a translation-table problem found statically.
type Gap struct {
	Source string    `json:"source"`
	Target string    `json:"target"`
	Value  string    `json:"value"`
	Reason GapReason `json:"reason"`
}

// CheckTranslations compares each translation table with the enum sets of
// the schemas it connects. Mappings whose paths do not resolve are skipped;
// NewMapper reports those.
func CheckTranslations(spec *Spec, source, target *schema.Schema) []Gap {
	var gaps []Gap
	if spec == nil || source == nil || target == nil {
		return gaps
	}

	for _, fm := range spec.Fields {
		if fm.Translate == nil || fm.Source == "" {
			continue
		}
		tf, ok := target.Lookup(fm.Target)
		if !ok {
			continue
		}

		if sf, ok := source.Lookup(fm.Source); ok && sf.Type == schema.TypeEnum && target.Requires(fm.Target) {
			for _, allowed := range sf.Enum {
				if _, mapped := fm.Translate[allowed]; !mapped {
					gaps = append(gaps, Gap{Source: fm.Source, Target: fm.Target, Value: allowed, Reason: MissingTranslation})
				}
			}
		}

		if tf.Type == schema.TypeEnum && fm.Transform == "" {
			for _, from := range slices.Sorted(maps.Keys(fm.Translate)) {
				to := fm.Translate[from]
				if !tf.Allows(to) {
					gaps = append(gaps, Gap{Source: fm.Source, Target: fm.Target, Value: to, Reason: TargetNotAllowed})
				}
			}
		}
	}
	return gaps
}
