// Package validation checks analysis configuration two ways: struct
// tags handled by go-playground/validator cover per-field constraints,
// and the fluent ConfigValidator covers cross-field rules the tags
// cannot express.
package validation

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/connectolab/graphmetrics/pkg/results"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("metric", validMetricName); err != nil {
		panic(err)
	}
	return v
}

// validMetricName reports whether a configured metric name is one the
// engine computes.
func validMetricName(fl validator.FieldLevel) bool {
	return results.KnownMetric(fl.Field().String())
}

// ValidateStruct validates a struct against its validate tags.
func ValidateStruct(s any) error {
	if s == nil {
		return errors.New("value cannot be nil")
	}
	if err := validate.Struct(s); err != nil {
		return translateTagError(err)
	}
	return nil
}

// ValidateMetricNames checks a metric list for unknown and duplicate
// names.
func ValidateMetricNames(names []string) error {
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if !results.KnownMetric(name) {
			return fmt.Errorf("unknown metric %q (known: %v)", name, results.AllMetrics())
		}
		if seen[name] {
			return fmt.Errorf("metric %q listed more than once", name)
		}
		seen[name] = true
	}
	return nil
}

// translateTagError rewrites the first tag violation into a message a
// config author can act on without knowing validator tag names.
func translateTagError(err error) error {
	var tagErrs validator.ValidationErrors
	if !errors.As(err, &tagErrs) || len(tagErrs) == 0 {
		return err
	}

	e := tagErrs[0]
	switch e.Tag() {
	case "required":
		return fmt.Errorf("%s: field is required", e.Field())
	case "min":
		return fmt.Errorf("%s: must be at least %s", e.Field(), e.Param())
	case "max":
		return fmt.Errorf("%s: must not exceed %s", e.Field(), e.Param())
	case "gt":
		return fmt.Errorf("%s: must be greater than %s", e.Field(), e.Param())
	case "lt":
		return fmt.Errorf("%s: must be less than %s", e.Field(), e.Param())
	case "oneof":
		return fmt.Errorf("%s: must be one of %s", e.Field(), e.Param())
	case "metric":
		return fmt.Errorf("%s: unknown metric %q", e.Field(), e.Value())
	default:
		return fmt.Errorf("%s: validation failed (%s)", e.Field(), e.Tag())
	}
}
