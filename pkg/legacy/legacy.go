// Package legacy implements parsing and canonical encoding of legacy
// message documents: strict JSON with float64 number semantics, as
// written by the first-generation replication stack.
//
// The parser operates in three phases:
//
//  1. Tokenizer: scans the raw bytes into a lazy token stream, tracking
//     byte offsets and line/column counters for error reporting.
//
//  2. Structural parser: recursive descent over the token stream with
//     one-token lookahead, assembling the Value tree.
//
//  3. Value materializer: scalar coercion (escape resolution, numeric
//     normalization), kept separate so grammar recognition and value
//     semantics are testable independently.
//
// A parse either returns one complete *Value or one *ParseError; there
// is no partial-result mode and no error recovery. The package holds no
// global state, so concurrent parses are independent.
package legacy

// Parse consumes a fully materialized input and returns the parsed
// document. On failure the returned error is always a *ParseError
// carrying a kind, message and source offset.
func Parse(input []byte) (*Value, error) {
	p := &parser{tok: newTokenizer(input)}
	v, err := p.parseDocument()
	if err != nil {
		return nil, err
	}
	return v, nil
}
