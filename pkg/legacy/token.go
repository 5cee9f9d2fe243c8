package legacy

type tokenKind int

const (
	tokObjectOpen tokenKind = iota
	tokObjectClose
	tokArrayOpen
	tokArrayClose
	tokColon
	tokComma
	tokString
	tokNumber
	tokTrue
	tokFalse
	tokNull
	tokEOF
)

func (k tokenKind) String() string {
	switch k {
	case tokObjectOpen:
		return "'{'"
	case tokObjectClose:
		return "'}'"
	case tokArrayOpen:
		return "'['"
	case tokArrayClose:
		return "']'"
	case tokColon:
		return "':'"
	case tokComma:
		return "','"
	case tokString:
		return "string"
	case tokNumber:
		return "number"
	case tokTrue:
		return "'true'"
	case tokFalse:
		return "'false'"
	case tokNull:
		return "'null'"
	case tokEOF:
		return "end of input"
	}
	return "unknown token"
}

// token is a classified lexical unit. raw is a sub-slice of the input;
// for strings it excludes the surrounding quotes and is still undecoded.
type token struct {
	kind   tokenKind
	raw    []byte
	offset int
	line   int
	col    int
}
