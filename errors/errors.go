package errors

import (
	stderrs "errors"
	"fmt"
)

// ErrHelp is returned by the option parser when -h or --help is present.
var ErrHelp = stderrs.New("help requested")

// ConfigError reports a malformed aggregate flag configuration payload.
type ConfigError struct{ Payload, Msg string }

func (e ConfigError) Error() string {
	if e.Payload == "" {
		return fmt.Sprintf("invalid configuration: %s", e.Msg)
	}
	return fmt.Sprintf("invalid configuration %q: %s", e.Payload, e.Msg)
}

// MalformedDirectiveError indicates a field whose struct tag or option
// directive cannot be parsed or extended.
type MalformedDirectiveError struct{ Field, Msg string }

func (e MalformedDirectiveError) Error() string {
	return fmt.Sprintf("malformed option directive on field %s: %s", e.Field, e.Msg)
}

// DuplicateFieldError indicates the synthesized aggregate field would collide
// with an existing field of a different shape.
type DuplicateFieldError struct{ Record, Field string }

func (e DuplicateFieldError) Error() string {
	return fmt.Sprintf("record %s already declares a field named %s", e.Record, e.Field)
}

// ParseError represents a generic parsing error produced by the option parser.
// It is intended for user-facing messages.
type ParseError struct{ Msg string }

func (e ParseError) Error() string { return e.Msg }

// MissingArgError indicates a required positional or flag was not provided.
type MissingArgError struct{ Field string }

func (e MissingArgError) Error() string {
	return fmt.Sprintf("missing required argument: %s", e.Field)
}

// UnknownFlagError indicates the user passed an option that no field declares.
// Suggestion, if present, is a close match the user may have intended.
type UnknownFlagError struct{ Name, Suggestion string }

func (e UnknownFlagError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("unknown flag: %s (did you mean %q?)", e.Name, e.Suggestion)
	}
	return fmt.Sprintf("unknown flag: %s", e.Name)
}

// UnsupportedFieldTypeError indicates the record contains an unsupported field type.
type UnsupportedFieldTypeError struct{ Field, Type string }

func (e UnsupportedFieldTypeError) Error() string {
	return fmt.Sprintf("unsupported type for field %s: %s", e.Field, e.Type)
}

// Helper constructors
func NewConfigError(payload, msg string) error { return ConfigError{Payload: payload, Msg: msg} }
func NewMalformedDirective(field, msg string) error {
	return MalformedDirectiveError{Field: field, Msg: msg}
}
func NewDuplicateField(record, field string) error {
	return DuplicateFieldError{Record: record, Field: field}
}
func NewParseError(msg string) error   { return ParseError{Msg: msg} }
func NewMissingArg(field string) error { return MissingArgError{Field: field} }
func NewUnknownFlag(name, suggestion string) error {
	return UnknownFlagError{Name: name, Suggestion: suggestion}
}
func NewUnsupportedField(field, typ string) error {
	return UnsupportedFieldTypeError{Field: field, Type: typ}
}
