package message

import "fmt"

// FieldMissingError occurs when a required message field is absent.
type FieldMissingError struct {
	Field string
}

func (e *FieldMissingError) Error() string {
	return fmt.Sprintf("message field '%s' is missing", e.Field)
}

// FieldTypeError occurs when a message field has the wrong kind.
type FieldTypeError struct {
	Field string
	Want  string
	Got   string
}

func (e *FieldTypeError) Error() string {
	return fmt.Sprintf("message field '%s' is %s, want %s", e.Field, e.Got, e.Want)
}

// DecodeError occurs when the raw bytes of a log item cannot be parsed.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode log item: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
