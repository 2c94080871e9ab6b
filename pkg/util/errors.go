// Package util provides logging helpers and common error types.
package util

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors
var (
	ErrStructure        = errors.New("configuration structure error")
	ErrNotFound         = errors.New("resource not found")
	ErrDuplicateBinding = errors.New("duplicate hardware binding")
	ErrInvalidConfig    = errors.New("invalid configuration")
	ErrValidationFailed = errors.New("validation failed")
)

// StructureError reports a configuration tree node that does not have the
// shape the renderer expects. Path is the dotted location of the node.
type StructureError struct {
	Path     string
	Expected string
	Got      string
}

func (e *StructureError) Error() string {
	path := e.Path
	if path == "" {
		path = "<root>"
	}
	return fmt.Sprintf("configuration structure error at %s: expected %s, got %s", path, e.Expected, e.Got)
}

func (e *StructureError) Unwrap() error {
	return ErrStructure
}

// NewStructureError creates a structure error
func NewStructureError(path, expected, got string) *StructureError {
	return &StructureError{
		Path:     path,
		Expected: expected,
		Got:      got,
	}
}

// DuplicateBindingError reports a fingerprint bound to more than one name
type DuplicateBindingError struct {
	Fingerprint string
	Names       []string
}

func (e *DuplicateBindingError) Error() string {
	return fmt.Sprintf("hardware id %s is bound to more than one interface: %s",
		e.Fingerprint, strings.Join(e.Names, ", "))
}

func (e *DuplicateBindingError) Unwrap() error {
	return ErrDuplicateBinding
}

// NewDuplicateBindingError creates a duplicate binding error
func NewDuplicateBindingError(fingerprint string, names ...string) *DuplicateBindingError {
	return &DuplicateBindingError{
		Fingerprint: fingerprint,
		Names:       names,
	}
}

// ValidationError represents one or more validation failures
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return "validation failed: " + e.Errors[0]
	}
	return fmt.Sprintf("validation failed:\n  - %s", strings.Join(e.Errors, "\n  - "))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}

// NewValidationError creates a validation error from messages
func NewValidationError(messages ...string) *ValidationError {
	return &ValidationError{Errors: messages}
}

// ValidationBuilder helps accumulate validation errors
type ValidationBuilder struct {
	errors []string
}

// Add adds an error message if condition is false
func (v *ValidationBuilder) Add(condition bool, message string) *ValidationBuilder {
	if !condition {
		v.errors = append(v.errors, message)
	}
	return v
}

// AddErrorf adds a formatted error message
func (v *ValidationBuilder) AddErrorf(format string, args ...interface{}) *ValidationBuilder {
	v.errors = append(v.errors, fmt.Sprintf(format, args...))
	return v
}

// HasErrors returns true if there are validation errors
func (v *ValidationBuilder) HasErrors() bool {
	return len(v.errors) > 0
}

// Build returns the validation error or nil if no errors
func (v *ValidationBuilder) Build() error {
	if len(v.errors) == 0 {
		return nil
	}
	return &ValidationError{Errors: v.errors}
}
