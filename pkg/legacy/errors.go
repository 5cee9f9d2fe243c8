package legacy

import "fmt"

// ErrorKind classifies a parse failure. Every error returned by Parse
// carries exactly one kind; malformed input is never reported as anything
// other than a *ParseError.
type ErrorKind int

const (
	// UnexpectedCharacter means the input contains a byte the tokenizer
	// cannot classify at that position.
	UnexpectedCharacter ErrorKind = iota
	// UnterminatedLiteral means the input ended inside a string literal.
	UnterminatedLiteral
	// SyntaxError means a well-formed token appeared in a position the
	// grammar does not allow, or the input ended mid-document.
	SyntaxError
	// MalformedLiteral means a scalar token was recognized but its value
	// cannot be materialized (bad escape sequence, numeric overflow,
	// invalid number shape).
	MalformedLiteral
)

func (k ErrorKind) String() string {
	switch k {
	case UnexpectedCharacter:
		return "unexpected character"
	case UnterminatedLiteral:
		return "unterminated literal"
	case SyntaxError:
		return "syntax error"
	case MalformedLiteral:
		return "malformed literal"
	}
	return "unknown"
}

// ParseError describes a single parse failure. Offset is the byte offset
// of the offending position in the original input; Line and Col are
// 1-based and derived from the same position.
type ParseError struct {
	Kind    ErrorKind
	Message string
	Offset  int
	Line    int
	Col     int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s at %d:%d (offset %d): %s", e.Kind, e.Line, e.Col, e.Offset, e.Message)
}
