package legacy

import "fmt"

// tokenizer scans the input left to right, producing one token per call
// to next. It owns no state beyond the cursor, so independent parses
// never share anything.
type tokenizer struct {
	input     []byte
	pos       int
	line      int // 1-based
	lineStart int // byte offset of the first byte of the current line
}

func newTokenizer(input []byte) *tokenizer {
	return &tokenizer{input: input, line: 1}
}

func (t *tokenizer) col(offset int) int {
	return offset - t.lineStart + 1
}

func (t *tokenizer) errorAt(kind ErrorKind, offset int, format string, args ...any) *ParseError {
	return &ParseError{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Offset:  offset,
		Line:    t.line,
		Col:     t.col(offset),
	}
}

// skipSpace advances over insignificant whitespace, keeping the line
// counter in sync.
func (t *tokenizer) skipSpace() {
	for t.pos < len(t.input) {
		switch t.input[t.pos] {
		case ' ', '\t', '\r':
			t.pos++
		case '\n':
			t.pos++
			t.line++
			t.lineStart = t.pos
		default:
			return
		}
	}
}

// next returns the next token. The returned error is nil unless the
// input cannot be classified at the current position.
func (t *tokenizer) next() (token, *ParseError) {
	t.skipSpace()

	start := t.pos
	tok := token{offset: start, line: t.line, col: t.col(start)}

	if t.pos >= len(t.input) {
		tok.kind = tokEOF
		return tok, nil
	}

	c := t.input[t.pos]
	switch {
	case c == '{':
		tok.kind = tokObjectOpen
		t.pos++
	case c == '}':
		tok.kind = tokObjectClose
		t.pos++
	case c == '[':
		tok.kind = tokArrayOpen
		t.pos++
	case c == ']':
		tok.kind = tokArrayClose
		t.pos++
	case c == ':':
		tok.kind = tokColon
		t.pos++
	case c == ',':
		tok.kind = tokComma
		t.pos++
	case c == '"':
		return t.scanString(tok)
	case c == '-' || (c >= '0' && c <= '9'):
		return t.scanNumber(tok)
	case c >= 'a' && c <= 'z':
		return t.scanKeyword(tok)
	default:
		return tok, t.errorAt(UnexpectedCharacter, start, "unexpected character %q", rune(c))
	}

	return tok, nil
}

// scanString consumes a string literal. The token's raw field holds the
// undecoded contents between the quotes; escape resolution happens in
// the materializer. Raw control characters are outside the grammar's
// alphabet and rejected here.
func (t *tokenizer) scanString(tok token) (token, *ParseError) {
	start := t.pos
	t.pos++ // opening quote

	for t.pos < len(t.input) {
		c := t.input[t.pos]
		switch {
		case c == '"':
			tok.kind = tokString
			tok.raw = t.input[start+1 : t.pos]
			t.pos++
			return tok, nil
		case c == '\\':
			if t.pos+1 >= len(t.input) {
				t.pos = len(t.input)
				return tok, t.errorAt(UnterminatedLiteral, start, "unterminated string literal")
			}
			t.pos += 2
		case c < 0x20:
			return tok, t.errorAt(UnexpectedCharacter, t.pos, "control character %q inside string literal", rune(c))
		default:
			t.pos++
		}
	}

	return tok, t.errorAt(UnterminatedLiteral, start, "unterminated string literal")
}

// scanNumber consumes a numeric literal and validates its shape:
// -?(0|[1-9][0-9]*)(\.[0-9]+)?([eE][+-]?[0-9]+)?
func (t *tokenizer) scanNumber(tok token) (token, *ParseError) {
	start := t.pos

	if t.input[t.pos] == '-' {
		t.pos++
	}

	switch {
	case t.pos >= len(t.input) || t.input[t.pos] < '0' || t.input[t.pos] > '9':
		return tok, t.errorAt(MalformedLiteral, start, "'-' must be followed by a digit")
	case t.input[t.pos] == '0':
		t.pos++
		if t.pos < len(t.input) && t.input[t.pos] >= '0' && t.input[t.pos] <= '9' {
			return tok, t.errorAt(MalformedLiteral, start, "leading zeros are not permitted")
		}
	default:
		for t.pos < len(t.input) && t.input[t.pos] >= '0' && t.input[t.pos] <= '9' {
			t.pos++
		}
	}

	if t.pos < len(t.input) && t.input[t.pos] == '.' {
		t.pos++
		if t.pos >= len(t.input) || t.input[t.pos] < '0' || t.input[t.pos] > '9' {
			return tok, t.errorAt(MalformedLiteral, start, "expected digit after decimal point")
		}
		for t.pos < len(t.input) && t.input[t.pos] >= '0' && t.input[t.pos] <= '9' {
			t.pos++
		}
	}

	if t.pos < len(t.input) && (t.input[t.pos] == 'e' || t.input[t.pos] == 'E') {
		t.pos++
		if t.pos < len(t.input) && (t.input[t.pos] == '+' || t.input[t.pos] == '-') {
			t.pos++
		}
		if t.pos >= len(t.input) || t.input[t.pos] < '0' || t.input[t.pos] > '9' {
			return tok, t.errorAt(MalformedLiteral, start, "expected digit in exponent")
		}
		for t.pos < len(t.input) && t.input[t.pos] >= '0' && t.input[t.pos] <= '9' {
			t.pos++
		}
	}

	tok.kind = tokNumber
	tok.raw = t.input[start:t.pos]
	return tok, nil
}

// scanKeyword consumes a run of lowercase letters and classifies it as
// one of the literal keywords.
func (t *tokenizer) scanKeyword(tok token) (token, *ParseError) {
	start := t.pos
	for t.pos < len(t.input) && t.input[t.pos] >= 'a' && t.input[t.pos] <= 'z' {
		t.pos++
	}

	word := string(t.input[start:t.pos])
	switch word {
	case "true":
		tok.kind = tokTrue
	case "false":
		tok.kind = tokFalse
	case "null":
		tok.kind = tokNull
	default:
		t.pos = start
		return tok, t.errorAt(UnexpectedCharacter, start, "unexpected character %q", rune(t.input[start]))
	}

	tok.raw = t.input[start:t.pos]
	return tok, nil
}
