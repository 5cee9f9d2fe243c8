package legacy

import "fmt"

// maxDepth bounds container nesting so hostile input cannot exhaust the
// goroutine stack.
const maxDepth = 128

// parser assembles a Value tree from the token stream with one-token
// lookahead. It performs no error recovery: the first grammar violation
// halts the parse and no partial tree is observable by the caller.
type parser struct {
	tok *tokenizer
	cur token
}

// advance moves the lookahead to the next token.
func (p *parser) advance() *ParseError {
	tok, err := p.tok.next()
	if err != nil {
		return err
	}
	p.cur = tok
	return nil
}

func errAtToken(kind ErrorKind, tok token, format string, args ...any) *ParseError {
	return &ParseError{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Offset:  tok.offset,
		Line:    tok.line,
		Col:     tok.col,
	}
}

func (p *parser) parseDocument() (*Value, *ParseError) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	if p.cur.kind == tokEOF {
		return nil, errAtToken(SyntaxError, p.cur, "unexpected end of input, expected a value")
	}

	v, err := p.parseValue(0)
	if err != nil {
		return nil, err
	}

	if p.cur.kind != tokEOF {
		return nil, errAtToken(SyntaxError, p.cur, "trailing input: unexpected %s after document", p.cur.kind)
	}
	return v, nil
}

func (p *parser) parseValue(depth int) (*Value, *ParseError) {
	if depth > maxDepth {
		return nil, errAtToken(SyntaxError, p.cur, "nesting deeper than %d levels", maxDepth)
	}

	switch p.cur.kind {
	case tokNull:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &Value{Kind: Null}, nil

	case tokTrue, tokFalse:
		v := &Value{Kind: Bool, Bool: p.cur.kind == tokTrue}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return v, nil

	case tokNumber:
		n, err := decodeNumber(p.cur)
		if err != nil {
			return nil, err
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &Value{Kind: Number, Num: n}, nil

	case tokString:
		s, err := decodeString(p.cur)
		if err != nil {
			return nil, err
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &Value{Kind: String, Str: s}, nil

	case tokArrayOpen:
		return p.parseArray(depth)

	case tokObjectOpen:
		return p.parseObject(depth)

	case tokEOF:
		return nil, errAtToken(SyntaxError, p.cur, "unexpected end of input, expected a value")

	default:
		return nil, errAtToken(SyntaxError, p.cur, "expected a value, found %s", p.cur.kind)
	}
}

func (p *parser) parseArray(depth int) (*Value, *ParseError) {
	open := p.cur
	if err := p.advance(); err != nil {
		return nil, err
	}

	v := &Value{Kind: Array}
	if p.cur.kind == tokArrayClose {
		if err := p.advance(); err != nil {
			return nil, err
		}
		return v, nil
	}

	for {
		if p.cur.kind == tokEOF {
			return nil, errAtToken(SyntaxError, p.cur, "unterminated array, '[' opened at %d:%d", open.line, open.col)
		}

		item, err := p.parseValue(depth + 1)
		if err != nil {
			return nil, err
		}
		v.Items = append(v.Items, item)

		switch p.cur.kind {
		case tokComma:
			if err := p.advance(); err != nil {
				return nil, err
			}
			if p.cur.kind == tokArrayClose {
				return nil, errAtToken(SyntaxError, p.cur, "trailing ',' before ']'")
			}
		case tokArrayClose:
			if err := p.advance(); err != nil {
				return nil, err
			}
			return v, nil
		case tokEOF:
			return nil, errAtToken(SyntaxError, p.cur, "unterminated array, '[' opened at %d:%d", open.line, open.col)
		default:
			return nil, errAtToken(SyntaxError, p.cur, "expected ',' or ']' in array, found %s", p.cur.kind)
		}
	}
}

func (p *parser) parseObject(depth int) (*Value, *ParseError) {
	open := p.cur
	if err := p.advance(); err != nil {
		return nil, err
	}

	v := &Value{Kind: Object}
	if p.cur.kind == tokObjectClose {
		if err := p.advance(); err != nil {
			return nil, err
		}
		return v, nil
	}

	for {
		switch p.cur.kind {
		case tokString:
		case tokEOF:
			return nil, errAtToken(SyntaxError, p.cur, "unterminated object, '{' opened at %d:%d", open.line, open.col)
		default:
			return nil, errAtToken(SyntaxError, p.cur, "expected string key in object, found %s", p.cur.kind)
		}

		key, err := decodeString(p.cur)
		if err != nil {
			return nil, err
		}
		if err := p.advance(); err != nil {
			return nil, err
		}

		if p.cur.kind != tokColon {
			return nil, errAtToken(SyntaxError, p.cur, "expected ':' after object key, found %s", p.cur.kind)
		}
		if err := p.advance(); err != nil {
			return nil, err
		}

		val, err := p.parseValue(depth + 1)
		if err != nil {
			return nil, err
		}
		v.setMember(key, val)

		switch p.cur.kind {
		case tokComma:
			if err := p.advance(); err != nil {
				return nil, err
			}
		case tokObjectClose:
			if err := p.advance(); err != nil {
				return nil, err
			}
			return v, nil
		case tokEOF:
			return nil, errAtToken(SyntaxError, p.cur, "unterminated object, '{' opened at %d:%d", open.line, open.col)
		default:
			return nil, errAtToken(SyntaxError, p.cur, "expected ',' or '}' in object, found %s", p.cur.kind)
		}
	}
}
