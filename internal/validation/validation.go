// Package validation provides the field-error model and collector used by
// the quest form validator. Errors accumulate exhaustively; validation is
// returned as data and never thrown past the validator boundary.
package validation

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

// ErrorType classifies a field validation failure.
type ErrorType string

const (
	TypeRequired   ErrorType = "required"
	TypeInvalid    ErrorType = "invalid"
	TypeDependency ErrorType = "dependency"
	TypeConstraint ErrorType = "constraint"
	TypeDuplicate  ErrorType = "duplicate"
)

// FieldError represents a single field validation failure. Field is a
// dotted path into the form value tree (e.g. "child[1].reward").
type FieldError struct {
	Field   string    `json:"field"`
	Message string    `json:"message"`
	Type    ErrorType `json:"type"`
	Code    string    `json:"code,omitempty"`
}

// Result is the aggregate outcome of validating a form value tree.
type Result struct {
	Valid  bool         `json:"isValid"`
	Errors []FieldError `json:"errors"`
}

// MarshalJSON ensures a nil Errors slice marshals as [] not null.
func (r Result) MarshalJSON() ([]byte, error) {
	if r.Errors == nil {
		r.Errors = []FieldError{}
	}
	type Alias Result
	return json.Marshal(Alias(r))
}

// Collector accumulates validation errors without failing on first.
// Every failed rule appends exactly one error; nothing is dropped.
type Collector struct {
	errors []FieldError
}

// Add appends a validation error to the collector if non-nil.
func (c *Collector) Add(err *FieldError) {
	if err != nil {
		c.errors = append(c.errors, *err)
	}
}

// Addf appends a validation error built from its parts.
func (c *Collector) Addf(field string, t ErrorType, format string, args ...any) {
	c.errors = append(c.errors, FieldError{
		Field:   field,
		Message: fmt.Sprintf(format, args...),
		Type:    t,
	})
}

// Merge appends all given errors to the collector.
func (c *Collector) Merge(errs []FieldError) {
	c.errors = append(c.errors, errs...)
}

// HasErrors returns true if the collector has accumulated any errors.
func (c *Collector) HasErrors() bool {
	return len(c.errors) > 0
}

// Errors returns all accumulated validation errors.
func (c *Collector) Errors() []FieldError {
	return c.errors
}

// Result converts the accumulated errors into a Result.
func (c *Collector) Result() Result {
	return Result{Valid: len(c.errors) == 0, Errors: c.errors}
}

// Required returns an error if the value is empty or whitespace-only.
func Required(field, value string) *FieldError {
	if strings.TrimSpace(value) == "" {
		return &FieldError{Field: field, Message: "is required", Type: TypeRequired}
	}
	return nil
}

// NonNegative returns an error if the value is negative.
func NonNegative(field string, value float64) *FieldError {
	if value < 0 {
		return &FieldError{Field: field, Message: "must be a non-negative number", Type: TypeInvalid}
	}
	return nil
}

// AbsoluteURL returns an error unless the value parses as an absolute
// http(s) URL with a host.
func AbsoluteURL(field, value string) *FieldError {
	u, err := url.Parse(value)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return &FieldError{Field: field, Message: "must be a valid absolute URL", Type: TypeInvalid}
	}
	return nil
}

// Enum returns an error if the value is not in the allowed list.
func Enum(field, value string, allowed []string) *FieldError {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return &FieldError{
		Field:   field,
		Message: fmt.Sprintf("must be one of: %s", strings.Join(allowed, ", ")),
		Type:    TypeInvalid,
	}
}
