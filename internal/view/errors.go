package view

import "fmt"

// IntegrityError occurs when the database fails its integrity check.
type IntegrityError struct {
	Result string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("database failed integrity check: %s", e.Result)
}

// AppendError occurs when a log item cannot be appended to the view.
type AppendError struct {
	Seq int64
	Err error
}

func (e *AppendError) Error() string {
	return fmt.Sprintf("failed to append log item at seq %d: %v", e.Seq, e.Err)
}

func (e *AppendError) Unwrap() error {
	return e.Err
}

// KeyNotFoundError occurs when a message key is not present in the view.
type KeyNotFoundError struct {
	Key string
}

func (e *KeyNotFoundError) Error() string {
	return fmt.Sprintf("message '%s' not found", e.Key)
}
