package apis

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

const Version = "v1"

type Metadata struct {
	// Name is the human-readable name of the document
	Name string `json:"name" yaml:"name" validate:"required,max=100" schema:"required,minLength=1,maxLength=100" description:"Human-readable name"`

	// Description provides details about the document
	Description string `json:"description,omitempty" yaml:"description,omitempty" validate:"max=500" schema:"maxLength=500" description:"Free-form description"`
}

// Issue is one failed struct-tag rule, addressed by its json path.
type Issue struct {
	Field string `json:"field" example:"fieldMappings[0].target"`
	Rule  string `json:"rule" example:"required"`
	Param string `json:"param,omitempty"`
}

func (i Issue) String() string {
	if i.Param == "" {
		return fmt.Sprintf("%s: %s", i.Field, i.Rule)
	}
	return fmt.Sprintf("%s: %s=%s", i.Field, i.Rule, i.Param)
}

type DocumentError struct {
	Kind   string  `json:"kind"`
	Issues []Issue `json:"issues"`
}

func (e *DocumentError) Error() string {
	parts := make([]string, len(e.Issues))
	for i, is := range e.Issues {
		parts[i] = is.String()
	}
	return fmt.Sprintf("invalid %s document: %s", e.Kind, strings.Join(parts, "; "))
}

var (
	docValidatorOnce sync.Once
	docValidator     *validator.Validate
)

func structValidator() *validator.Validate {
	docValidatorOnce.Do(func() {
		v := validator.New()
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
		docValidator = v
	})
	return docValidator
}

// Check runs the validate struct tags of doc. Failures come back as a
// *DocumentError naming every offending field.
func Check(kind string, doc any) error {
	err := structValidator().Struct(doc)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	issues := make([]Issue, 0, len(verrs))
	for _, fe := range verrs {
		issues = append(issues, Issue{
			Field: trimRoot(fe.Namespace()),
			Rule:  fe.Tag(),
			Param: fe.Param(),
		})
	}
	return &DocumentError{Kind: kind, Issues: issues}
}

// trimRoot drops the leading struct name from a validator namespace.
func trimRoot(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}
