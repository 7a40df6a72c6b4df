package record

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds. Every error returned by this package wraps exactly one of these,
// so callers can branch with errors.Is.
var (
	// Resolution
	ErrFieldOrder           = errors.New("non-default field follows default field")
	ErrMissingDefault       = errors.New("field excluded from init has no default")
	ErrUnsafeMutableDefault = errors.New("mutable default value")
	ErrNameOrTypeConflict   = errors.New("field descriptor already bound")
	ErrInvalidDeclaration   = errors.New("invalid declaration")

	// Synthesis
	ErrAttributeConflict = errors.New("method already defined")

	// Layout
	ErrLayoutConflict = errors.New("type already has a fixed layout")

	// Runtime
	ErrNotARecordType  = errors.New("not a record type or instance")
	ErrFrozenInstance  = errors.New("cannot modify frozen instance")
	ErrArguments       = errors.New("invalid constructor arguments")
	ErrUnhashable      = errors.New("unhashable value")
	ErrNotOrderable    = errors.New("values are not orderable")
	ErrNoSuchAttribute = errors.New("no such attribute")
)

// Error codes grouped by phase:
// R1xx: field resolution
// R2xx: method synthesis
// R3xx: layout transformation
// R4xx: instance operations
const (
	CodeFieldOrder            = "R100"
	CodeMissingDefault        = "R101"
	CodeUnsafeMutableDefault  = "R102"
	CodeNameOrTypeConflict    = "R103"
	CodeInvalidDeclaration    = "R104"
	CodeInconsistentHierarchy = "R105"

	CodeAttributeConflict = "R200"

	CodeLayoutConflict = "R300"

	CodeNotARecordType = "R400"
	CodeFrozenInstance = "R401"
	CodeArguments      = "R402"
	CodeUnhashable     = "R403"
	CodeNotOrderable   = "R404"
	CodeNoSuchAttr     = "R405"
)

// DeclarationError reports a problem found while resolving or synthesizing a
// record type. The declaration is left untouched when one is returned.
type DeclarationError struct {
	Kind    error
	Code    string
	Type    string
	Field   string
	Message string
	Hint    string
}

func (e *DeclarationError) Error() string {
	var b strings.Builder
	if e.Code != "" {
		b.WriteString(e.Code)
		b.WriteString(" ")
	}
	b.WriteString(location(e.Type, e.Field))
	b.WriteString(": ")
	b.WriteString(e.Message)
	if e.Hint != "" {
		fmt.Fprintf(&b, "\n  hint: %s", e.Hint)
	}
	return b.String()
}

func (e *DeclarationError) Unwrap() error {
	return e.Kind
}

// InstanceError reports a failed operation on a record instance
type InstanceError struct {
	Kind    error
	Code    string
	Type    string
	Field   string
	Message string
}

func (e *InstanceError) Error() string {
	if e.Code == "" {
		return location(e.Type, e.Field) + ": " + e.Message
	}
	return e.Code + " " + location(e.Type, e.Field) + ": " + e.Message
}

func (e *InstanceError) Unwrap() error {
	return e.Kind
}

func location(typeName, field string) string {
	switch {
	case typeName == "" && field == "":
		return "<record>"
	case field == "":
		return typeName
	case typeName == "":
		return field
	default:
		return typeName + "." + field
	}
}

func declError(kind error, code, typeName, field, format string, args ...any) *DeclarationError {
	return &DeclarationError{
		Kind:    kind,
		Code:    code,
		Type:    typeName,
		Field:   field,
		Message: fmt.Sprintf(format, args...),
	}
}

func instanceError(kind error, code, typeName, field, format string, args ...any) *InstanceError {
	return &InstanceError{
		Kind:    kind,
		Code:    code,
		Type:    typeName,
		Field:   field,
		Message: fmt.Sprintf(format, args...),
	}
}
