// Package apperr defines the closed set of failures the API reports to
// clients and the translation of store errors into that set.
package apperr

import (
	"fmt"
	"strings"
)

// Kind classifies a failure. The set is closed; Status covers every member.
type Kind int

const (
	Unknown Kind = iota
	UnknownQueryField
	InvalidQueryValue
	InvalidBodyValue
	MissingProperty
	NotFound
	DanglingReference
	Conflict
	BadInput
	SchemaMismatch
)

var kindNames = [...]string{
	Unknown:           "UNKNOWN",
	UnknownQueryField: "UNKNOWN_QUERY_FIELD",
	InvalidQueryValue: "INVALID_QUERY_VALUE",
	InvalidBodyValue:  "INVALID_BODY_VALUE",
	MissingProperty:   "MISSING_PROPERTY",
	NotFound:          "NOT_FOUND",
	DanglingReference: "DANGLING_REFERENCE",
	Conflict:          "CONFLICT",
	BadInput:          "BAD_INPUT",
	SchemaMismatch:    "SCHEMA_MISMATCH",
}

func (k Kind) String() string {
	if int(k) < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Status returns the HTTP status for the kind.
func (k Kind) Status() int {
	switch k {
	case UnknownQueryField, InvalidQueryValue, InvalidBodyValue, MissingProperty, BadInput:
		return 400
	case NotFound, DanglingReference:
		return 404
	case Conflict:
		return 409
	case SchemaMismatch, Unknown:
		return 500
	}
	return 500
}

// Error is the only failure type rendered to clients.
type Error struct {
	Kind    Kind   `json:"-"`
	Status  int    `json:"-"`
	Message string `json:"message"`
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Internal reports whether the failure is the server's fault.
func (e *Error) Internal() bool {
	return e.Status >= 500
}

// Response is the JSON body written for every failure.
type Response struct {
	Message string `json:"message"`
}

func newError(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Status: kind.Status(), Message: msg}
}

func NewUnknownQueryField() *Error {
	return newError(UnknownQueryField, "Bad request: invalid query field")
}

func NewInvalidQueryValue(field string) *Error {
	return newError(InvalidQueryValue, fmt.Sprintf("Bad request: invalid %s value", field))
}

func NewNotANumber(field string) *Error {
	return newError(InvalidQueryValue, fmt.Sprintf("Bad request: '%s' value must be a number", field))
}

func NewInvalidBodyValue(field, want string) *Error {
	return newError(InvalidBodyValue, fmt.Sprintf("Bad request: '%s' value must be a %s", field, want))
}

func NewMissingProperty() *Error {
	return newError(MissingProperty, "Bad request: missing property")
}

// NewNotFound reports a missing row looked up by key, e.g. "No article
// matching requested id".
func NewNotFound(entity, key string) *Error {
	return newError(NotFound, fmt.Sprintf("No %s matching requested %s", entity, key))
}

func NewDanglingReference(entity string) *Error {
	return newError(DanglingReference, fmt.Sprintf("%s not found", entity))
}

func NewConflict(entity string) *Error {
	return newError(Conflict, fmt.Sprintf("%s already exists", entity))
}

func NewBadInput() *Error {
	return newError(BadInput, "Bad endpoint")
}

func NewBadBody() *Error {
	return newError(BadInput, "Bad request: malformed body")
}

func NewSchemaMismatch(cause error) *Error {
	e := newError(SchemaMismatch, "Internal Server Error")
	e.cause = cause
	return e
}

func NewUnknown(cause error) *Error {
	e := newError(Unknown, "Internal Server Error")
	e.cause = cause
	return e
}

// Singular derives an entity name from a table name ("articles" -> "article").
func Singular(table string) string {
	return strings.TrimSuffix(table, "s")
}

// Title upper-cases the first letter ("user" -> "User").
func Title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
