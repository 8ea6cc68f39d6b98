package validation

import (
	"errors"
	"fmt"
	"time"
)

// FieldError is one failed check on one config field.
type FieldError struct {
	Field  string // Qualified as <config>.<field>
	Reason string
}

// Error implements the error interface.
func (e *FieldError) Error() string {
	return e.Field + ": " + e.Reason
}

// ConfigValidator accumulates field checks fluently and reports them
// together, so a bad config surfaces every problem in one pass.
type ConfigValidator struct {
	name   string
	errors []error
}

// NewConfigValidator starts a validator for the named config struct.
func NewConfigValidator(configName string) *ConfigValidator {
	return &ConfigValidator{name: configName}
}

func (cv *ConfigValidator) fail(field, format string, args ...any) {
	cv.errors = append(cv.errors, &FieldError{
		Field:  cv.name + "." + field,
		Reason: fmt.Sprintf(format, args...),
	})
}

// Required checks that a string field is set.
func (cv *ConfigValidator) Required(field, value string) *ConfigValidator {
	if value == "" {
		cv.fail(field, "required field is empty")
	}
	return cv
}

// Positive checks that an int field is greater than zero.
func (cv *ConfigValidator) Positive(field string, value int) *ConfigValidator {
	if value <= 0 {
		cv.fail(field, "value %d must be positive", value)
	}
	return cv
}

// MinInt checks an int lower bound.
func (cv *ConfigValidator) MinInt(field string, value, min int) *ConfigValidator {
	if value < min {
		cv.fail(field, "value %d is below minimum %d", value, min)
	}
	return cv
}

// MaxInt checks an int upper bound.
func (cv *ConfigValidator) MaxInt(field string, value, max int) *ConfigValidator {
	if value > max {
		cv.fail(field, "value %d exceeds maximum %d", value, max)
	}
	return cv
}

// MinDuration checks a duration lower bound.
func (cv *ConfigValidator) MinDuration(field string, value, min time.Duration) *ConfigValidator {
	if value < min {
		cv.fail(field, "duration %v is below minimum %v", value, min)
	}
	return cv
}

// Probability checks that a float lies strictly between 0 and 1.
func (cv *ConfigValidator) Probability(field string, value float64) *ConfigValidator {
	if value <= 0 || value >= 1 {
		cv.fail(field, "value %v must be strictly between 0 and 1", value)
	}
	return cv
}

// OneOf checks string membership in an allowed set.
func (cv *ConfigValidator) OneOf(field, value string, allowed []string) *ConfigValidator {
	for _, a := range allowed {
		if value == a {
			return cv
		}
	}
	cv.fail(field, "value %q must be one of %v", value, allowed)
	return cv
}

// Custom runs an arbitrary check and records its error under field.
func (cv *ConfigValidator) Custom(field string, fn func() error) *ConfigValidator {
	if err := fn(); err != nil {
		cv.fail(field, "%v", err)
	}
	return cv
}

// When applies the nested checks only if condition holds.
func (cv *ConfigValidator) When(condition bool, validations func(*ConfigValidator)) *ConfigValidator {
	if condition {
		validations(cv)
	}
	return cv
}

// HasErrors reports whether any check failed.
func (cv *ConfigValidator) HasErrors() bool {
	return len(cv.errors) > 0
}

// Errors returns every recorded failure.
func (cv *ConfigValidator) Errors() []error {
	return cv.errors
}

// Validate terminates the chain, joining all failures into one error.
func (cv *ConfigValidator) Validate() error {
	return errors.Join(cv.errors...)
}

// DefaultOr returns value unless it is the zero value, then defaultValue.
func DefaultOr[T comparable](value, defaultValue T) T {
	var zero T
	if value == zero {
		return defaultValue
	}
	return value
}

// DefaultOrInt returns value unless it is zero or negative, then
// defaultValue.
func DefaultOrInt(value, defaultValue int) int {
	if value <= 0 {
		return defaultValue
	}
	return value
}
