// Package errors defines the domain error taxonomy shared by services and handlers.
package errors

import (
	stderrors "errors"
	"sort"
	"strings"
)

// Kind classifies a DomainError for the HTTP boundary.
type Kind string

const (
	KindNotFound     Kind = "NOT_FOUND"
	KindForbidden    Kind = "FORBIDDEN"
	KindInvalidState Kind = "INVALID_STATE"
	KindValidation   Kind = "VALIDATION"
	KindConflict     Kind = "CONFLICT"
)

// DomainError is an expected failure that callers can branch on.
// Two DomainErrors match under errors.Is when their codes are equal.
type DomainError struct {
	Kind    Kind
	Code    string
	Message string
	Fields  map[string]string
}

func (e *DomainError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+" "+e.Fields[k])
	}
	return e.Message + ": " + strings.Join(parts, ", ")
}

func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// WithMessage returns a copy of e carrying a more specific message.
func (e *DomainError) WithMessage(msg string) *DomainError {
	return &DomainError{Kind: e.Kind, Code: e.Code, Message: msg, Fields: e.Fields}
}

// Validation builds a validation error from per-field messages.
func Validation(fields map[string]string) *DomainError {
	return &DomainError{
		Kind:    KindValidation,
		Code:    "VALIDATION_FAILED",
		Message: "validation failed",
		Fields:  fields,
	}
}

// KindOf reports the kind of the first DomainError in err's chain.
// It returns an empty Kind for unexpected errors.
func KindOf(err error) Kind {
	var de *DomainError
	if stderrors.As(err, &de) {
		return de.Kind
	}
	return ""
}

// As is a shorthand for extracting a DomainError from err's chain.
func As(err error) (*DomainError, bool) {
	var de *DomainError
	ok := stderrors.As(err, &de)
	return de, ok
}
