package validation

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	apperrors "brokebesties/internal/errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Validator collects field errors
type Validator struct {
	Errors map[string]string
}

// New creates a new validator
func New() *Validator {
	return &Validator{Errors: make(map[string]string)}
}

// Valid checks if there are any validation errors
func (v *Validator) Valid() bool {
	return len(v.Errors) == 0
}

// Err returns the collected errors as a validation DomainError, or nil.
func (v *Validator) Err() error {
	if v.Valid() {
		return nil
	}
	return apperrors.Validation(v.Errors)
}

// AddError records the first error for a field
func (v *Validator) AddError(field, message string) {
	if _, exists := v.Errors[field]; !exists {
		v.Errors[field] = message
	}
}

// Check adds an error if the condition is false
func (v *Validator) Check(ok bool, field, message string) {
	if !ok {
		v.AddError(field, message)
	}
}

// Email validates email format
func (v *Validator) Email(field, email string) {
	v.Check(emailRegex.MatchString(strings.TrimSpace(email)), field, "must be a valid email address")
}

// Required checks that a value is present
func (v *Validator) Required(field string, value interface{}) {
	if value == nil {
		v.AddError(field, "must not be nil")
		return
	}

	switch val := value.(type) {
	case string:
		v.Check(strings.TrimSpace(val) != "", field, "must not be empty")
	case uuid.UUID:
		v.Check(val != uuid.Nil, field, "must not be empty")
	case []string:
		v.Check(len(val) > 0, field, "must contain at least one item")
	}
}

// MaxLength checks if a string has at most n characters
func (v *Validator) MaxLength(field string, value string, n int) {
	v.Check(len([]rune(value)) <= n, field, fmt.Sprintf("must not be more than %d characters long", n))
}

// Amount checks a money value is positive, within MaxAmount and has at most two decimals.
func (v *Validator) Amount(field string, value decimal.Decimal) {
	switch {
	case !value.IsPositive():
		v.AddError(field, "must be greater than 0")
	case value.GreaterThan(MaxAmount):
		v.AddError(field, fmt.Sprintf("must not be more than %s", MaxAmount.StringFixed(2)))
	case !value.Equal(value.Round(2)):
		v.AddError(field, "must have at most 2 decimal places")
	}
}

// Future checks if a time is in the future
func (v *Validator) Future(field string, t time.Time) {
	v.Check(t.After(time.Now()), field, "must be in the future")
}
