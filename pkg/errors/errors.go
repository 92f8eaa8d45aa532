package errors

import (
	"fmt"
	"strings"
)

// ErrorType represents different categories of errors
type ErrorType string

const (
	ErrorTypeValidation      ErrorType = "validation"
	ErrorTypeNotFound        ErrorType = "not_found"
	ErrorTypeConflict        ErrorType = "conflict"
	ErrorTypeIO              ErrorType = "io"
	ErrorTypeNetwork         ErrorType = "network"
	ErrorTypeInternal        ErrorType = "internal"
	ErrorTypeMalformedSchema ErrorType = "malformed_schema"
	ErrorTypeUnknownRole     ErrorType = "unknown_role"
)

// SchemaViolation names the structural invariant a malformed schema broke
type SchemaViolation string

const (
	ViolationEmptyIdentity     SchemaViolation = "empty_identity"
	ViolationDuplicateRole     SchemaViolation = "duplicate_role"
	ViolationDanglingReference SchemaViolation = "dangling_reference"
	ViolationCyclicSchema      SchemaViolation = "cyclic_schema"
	ViolationDuplicateParent   SchemaViolation = "duplicate_parent"
	ViolationUnknownRoot       SchemaViolation = "unknown_root"
	ViolationRootHasParent     SchemaViolation = "root_has_parent"
	ViolationNoRoot            SchemaViolation = "no_root"
	ViolationMultipleRoots     SchemaViolation = "multiple_roots"
	ViolationUnreachableRole   SchemaViolation = "unreachable_role"
)

// Context keys used by schema errors
const (
	ContextKeyViolation = "violation"
	ContextKeyRole      = "role"
)

// DomainError represents a structured error with type and context
type DomainError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is checks if the error is of a specific type
func (e *DomainError) Is(target error) bool {
	if other, ok := target.(*DomainError); ok {
		return e.Type == other.Type
	}
	return false
}

// WithContext adds context information to the error
func (e *DomainError) WithContext(key string, value interface{}) *DomainError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewDomainError creates a new domain error
func NewDomainError(errorType ErrorType, message string, cause error) *DomainError {
	return &DomainError{
		Type:    errorType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

func NewValidationError(message string, cause error) *DomainError {
	return NewDomainError(ErrorTypeValidation, message, cause)
}

func NewNotFoundError(message string, cause error) *DomainError {
	return NewDomainError(ErrorTypeNotFound, message, cause)
}

func NewConflictError(message string, cause error) *DomainError {
	return NewDomainError(ErrorTypeConflict, message, cause)
}

func NewIOError(message string, cause error) *DomainError {
	return NewDomainError(ErrorTypeIO, message, cause)
}

func NewNetworkError(message string, cause error) *DomainError {
	return NewDomainError(ErrorTypeNetwork, message, cause)
}

func NewInternalError(message string, cause error) *DomainError {
	return NewDomainError(ErrorTypeInternal, message, cause)
}

// Schema errors

// NewMalformedSchemaError reports a structural invariant broken at registry construction
func NewMalformedSchemaError(violation SchemaViolation, role string, message string) *DomainError {
	return NewDomainError(ErrorTypeMalformedSchema, message, nil).
		WithContext(ContextKeyViolation, violation).
		WithContext(ContextKeyRole, role)
}

// NewUnknownRoleError reports a query for a role identity that is not registered
func NewUnknownRoleError(role string) *DomainError {
	return NewDomainError(ErrorTypeUnknownRole, fmt.Sprintf("role '%s' is not registered", role), nil).
		WithContext(ContextKeyRole, role)
}

// Error checking helpers
func IsValidationError(err error) bool {
	return HasType(err, ErrorTypeValidation)
}

func IsNotFoundError(err error) bool {
	return HasType(err, ErrorTypeNotFound)
}

func IsConflictError(err error) bool {
	return HasType(err, ErrorTypeConflict)
}

func IsIOError(err error) bool {
	return HasType(err, ErrorTypeIO)
}

func IsNetworkError(err error) bool {
	return HasType(err, ErrorTypeNetwork)
}

func IsInternalError(err error) bool {
	return HasType(err, ErrorTypeInternal)
}

// IsMalformedSchemaError reports whether err, or any error it wraps, is a malformed schema error
func IsMalformedSchemaError(err error) bool {
	return HasType(err, ErrorTypeMalformedSchema)
}

// IsUnknownRoleError reports whether err, or any error it wraps, is an unknown role error
func IsUnknownRoleError(err error) bool {
	return HasType(err, ErrorTypeUnknownRole)
}

// HasType walks the whole error tree, including collections, looking for a domain error of the given type.
// errors.As stops at the first *DomainError it meets, which hides later members of a collection.
func HasType(err error, errorType ErrorType) bool {
	found := false
	walk(err, func(domainErr *DomainError) bool {
		if domainErr.Type == errorType {
			found = true
		}
		return !found
	})
	return found
}

// ViolationOf returns the violation kind of the first malformed schema error found in err
func ViolationOf(err error) (SchemaViolation, bool) {
	var violation SchemaViolation
	found := false
	walk(err, func(domainErr *DomainError) bool {
		if domainErr.Type != ErrorTypeMalformedSchema {
			return true
		}
		violation, found = domainErr.Context[ContextKeyViolation].(SchemaViolation)
		return !found
	})
	return violation, found
}

// HasViolation reports whether err contains a malformed schema error of the given kind,
// optionally restricted to one role identity (empty role matches any)
func HasViolation(err error, violation SchemaViolation, role string) bool {
	found := false
	walk(err, func(domainErr *DomainError) bool {
		if domainErr.Type != ErrorTypeMalformedSchema {
			return true
		}
		if v, _ := domainErr.Context[ContextKeyViolation].(SchemaViolation); v != violation {
			return true
		}
		if r, _ := domainErr.Context[ContextKeyRole].(string); role != "" && r != role {
			return true
		}
		found = true
		return false
	})
	return found
}

// walk visits every *DomainError reachable from err until visit returns false
func walk(err error, visit func(*DomainError) bool) bool {
	if err == nil {
		return true
	}
	if domainErr, ok := err.(*DomainError); ok {
		if !visit(domainErr) {
			return false
		}
	}
	switch wrapped := err.(type) {
	case interface{ Unwrap() []error }:
		for _, inner := range wrapped.Unwrap() {
			if !walk(inner, visit) {
				return false
			}
		}
	case interface{ Unwrap() error }:
		return walk(wrapped.Unwrap(), visit)
	}
	return true
}

// Error aggregation for bulk operations
type ErrorCollection struct {
	Errors []error
}

func (e *ErrorCollection) Error() string {
	if len(e.Errors) == 0 {
		return "no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	messages := make([]string, 0, len(e.Errors))
	for _, err := range e.Errors {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("%d errors occurred: %s", len(e.Errors), strings.Join(messages, "; "))
}

// Unwrap exposes the collected errors to errors.Is and errors.As
func (e *ErrorCollection) Unwrap() []error {
	return e.Errors
}

func (e *ErrorCollection) Add(err error) {
	if err != nil {
		e.Errors = append(e.Errors, err)
	}
}

func (e *ErrorCollection) HasErrors() bool {
	return len(e.Errors) > 0
}

// ToError returns nil when empty, the single error when there is one, and the collection otherwise
func (e *ErrorCollection) ToError() error {
	switch len(e.Errors) {
	case 0:
		return nil
	case 1:
		return e.Errors[0]
	default:
		return e
	}
}

// NewErrorCollection creates a new error collection
func NewErrorCollection() *ErrorCollection {
	return &ErrorCollection{
		Errors: make([]error, 0),
	}
}
