// Package errors provides structured diagnostics for aepdoc.
// Diagnostics carry a stable code, a category and a severity, and format both
// as human-readable terminal output and as JSON for tooling.
package errors

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Code is a unique diagnostic code
type Code string

// Category groups diagnostic codes
type Category string

const (
	// CategoryPrecondition covers resource graph violations (AEP100-199)
	CategoryPrecondition Category = "precondition"
	// CategorySchema covers schema document problems (AEP200-299)
	CategorySchema Category = "schema"
	// CategoryEmit covers emitted document problems (AEP300-399)
	CategoryEmit Category = "emit"
)

// Severity indicates how serious a diagnostic is
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

const (
	// ErrMissingIdentity indicates a resource model without an identity field
	ErrMissingIdentity Code = "AEP100"
	// ErrParentNotResource indicates a parent model without resource metadata
	ErrParentNotResource Code = "AEP101"
	// ErrParentCycle indicates a cyclic or too-deep parent chain
	ErrParentCycle Code = "AEP102"
	// ErrDuplicateMetadata indicates resource metadata attached twice
	ErrDuplicateMetadata Code = "AEP103"

	// ErrInvalidDocument indicates the schema document failed validation
	ErrInvalidDocument Code = "AEP200"
	// ErrUnknownReference indicates a reference to an undeclared name
	ErrUnknownReference Code = "AEP201"
	// ErrConflictingTags indicates an operation with more than one operation tag
	ErrConflictingTags Code = "AEP202"

	// ErrInvalidOpenAPI indicates the emitted OpenAPI document is invalid
	ErrInvalidOpenAPI Code = "AEP300"
)

// Diagnostic is a structured error naming the offending entity
type Diagnostic struct {
	Code     Code     `json:"code"`
	Category Category `json:"category"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	// Subject names the model, operation or document the diagnostic is about
	Subject    string `json:"subject,omitempty"`
	File       string `json:"file,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
	Cause      error  `json:"-"`
}

// Error implements the error interface
func (d *Diagnostic) Error() string {
	return FormatCompact(d)
}

// Unwrap exposes the underlying cause, if any
func (d *Diagnostic) Unwrap() error {
	return d.Cause
}

// Format returns the multi-line terminal rendering
func (d *Diagnostic) Format() string {
	return FormatDiagnostic(d)
}

// ToJSON returns the diagnostic as indented JSON
func (d *Diagnostic) ToJSON() (string, error) {
	bytes, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// WithFile sets the source file name
func (d *Diagnostic) WithFile(file string) *Diagnostic {
	d.File = file
	return d
}

// WithSuggestion sets a hint for fixing the problem
func (d *Diagnostic) WithSuggestion(suggestion string) *Diagnostic {
	d.Suggestion = suggestion
	return d
}

// WithCause records the error that triggered the diagnostic
func (d *Diagnostic) WithCause(err error) *Diagnostic {
	d.Cause = err
	return d
}

// List is a collection of diagnostics
type List []*Diagnostic

// Error implements the error interface
func (l List) Error() string {
	if len(l) == 0 {
		return "no errors"
	}
	return FormatList(l)
}

// HasErrors returns true if the list contains any error-severity entry
func (l List) HasErrors() bool {
	for _, d := range l {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Err returns the list as an error, or nil when it holds no errors
func (l List) Err() error {
	if !l.HasErrors() {
		return nil
	}
	return l
}

// ToJSON returns all diagnostics as a JSON array
func (l List) ToJSON() (string, error) {
	bytes, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// Count returns the number of diagnostics by severity
func (l List) Count() (errs, warnings, info int) {
	for _, d := range l {
		switch d.Severity {
		case SeverityError:
			errs++
		case SeverityWarning:
			warnings++
		case SeverityInfo:
			info++
		}
	}
	return
}

// Is reports whether err is or wraps a Diagnostic with the given code.
// A List matches when any of its entries does.
func Is(err error, code Code) bool {
	var list List
	if errors.As(err, &list) {
		for _, d := range list {
			if d.Code == code {
				return true
			}
		}
		return false
	}
	var d *Diagnostic
	return errors.As(err, &d) && d.Code == code
}

func newDiagnostic(code Code, category Category, subject, message string) *Diagnostic {
	return &Diagnostic{
		Code:     code,
		Category: category,
		Severity: SeverityError,
		Message:  message,
		Subject:  subject,
	}
}

// NewMissingIdentity creates an AEP100 diagnostic
func NewMissingIdentity(model string) *Diagnostic {
	return newDiagnostic(ErrMissingIdentity, CategoryPrecondition, model,
		fmt.Sprintf("resource model '%s' has no identity field", model)).
		WithSuggestion("Mark exactly one field with 'key: true'")
}

// NewParentNotResource creates an AEP101 diagnostic
func NewParentNotResource(model, parent string) *Diagnostic {
	return newDiagnostic(ErrParentNotResource, CategoryPrecondition, model,
		fmt.Sprintf("parent '%s' of resource model '%s' carries no resource metadata", parent, model)).
		WithSuggestion(fmt.Sprintf("Add a 'resource' block to model '%s'", parent))
}

// NewParentCycle creates an AEP102 diagnostic
func NewParentCycle(model string, depth int) *Diagnostic {
	return newDiagnostic(ErrParentCycle, CategoryPrecondition, model,
		fmt.Sprintf("parent chain of resource model '%s' is cyclic or deeper than %d", model, depth))
}

// NewDuplicateMetadata creates an AEP103 diagnostic
func NewDuplicateMetadata(model string) *Diagnostic {
	return newDiagnostic(ErrDuplicateMetadata, CategoryPrecondition, model,
		fmt.Sprintf("resource metadata for model '%s' was already set", model))
}

// NewInvalidDocument creates an AEP200 diagnostic
func NewInvalidDocument(subject, message string) *Diagnostic {
	return newDiagnostic(ErrInvalidDocument, CategorySchema, subject, message)
}

// NewUnknownReference creates an AEP201 diagnostic
func NewUnknownReference(subject, kind, name string) *Diagnostic {
	return newDiagnostic(ErrUnknownReference, CategorySchema, subject,
		fmt.Sprintf("unknown %s '%s'", kind, name))
}

// NewConflictingTags creates an AEP202 diagnostic
func NewConflictingTags(operation string) *Diagnostic {
	return newDiagnostic(ErrConflictingTags, CategorySchema, operation,
		fmt.Sprintf("operation '%s' declares more than one of op, action, collection_action", operation))
}

// NewInvalidOpenAPI creates an AEP300 diagnostic
func NewInvalidOpenAPI(service string, cause error) *Diagnostic {
	return newDiagnostic(ErrInvalidOpenAPI, CategoryEmit, service,
		fmt.Sprintf("generated OpenAPI document is invalid: %v", cause)).WithCause(cause)
}
