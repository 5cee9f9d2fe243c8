package boundary

import (
	"errors"

	"github.com/offlog/legacyview/pkg/legacy"
)

// Transports that can only move bytes (foreign calls into sandboxed
// guests, for example) carry results in a one-slot envelope: either
// {"ok": <document>} or {"error": {kind, message, offset, line, col}}.
// Go callers use Invoke's error return directly and never see these.

// EncodeSuccess wraps an already-encoded result in a success envelope.
func EncodeSuccess(result []byte) []byte {
	out := make([]byte, 0, len(result)+8)
	out = append(out, `{"ok":`...)
	out = append(out, result...)
	return append(out, '}')
}

// EncodeFailure wraps an entry point failure in an error envelope.
// Parse failures keep their kind and position; anything else crosses as
// kind "internal" so no uncategorized failure reaches the host.
func EncodeFailure(err error) []byte {
	v := &legacy.Value{Kind: legacy.Object}

	detail := &legacy.Value{Kind: legacy.Object}
	var perr *legacy.ParseError
	if errors.As(err, &perr) {
		detail.Members = []legacy.Member{
			{Key: "kind", Value: &legacy.Value{Kind: legacy.String, Str: perr.Kind.String()}},
			{Key: "message", Value: &legacy.Value{Kind: legacy.String, Str: perr.Message}},
			{Key: "offset", Value: &legacy.Value{Kind: legacy.Number, Num: float64(perr.Offset)}},
			{Key: "line", Value: &legacy.Value{Kind: legacy.Number, Num: float64(perr.Line)}},
			{Key: "col", Value: &legacy.Value{Kind: legacy.Number, Num: float64(perr.Col)}},
		}
	} else {
		detail.Members = []legacy.Member{
			{Key: "kind", Value: &legacy.Value{Kind: legacy.String, Str: "internal"}},
			{Key: "message", Value: &legacy.Value{Kind: legacy.String, Str: err.Error()}},
		}
	}
	v.Members = []legacy.Member{{Key: "error", Value: detail}}

	out, encErr := legacy.Encode(v)
	if encErr != nil {
		panic("boundary: cannot encode error envelope")
	}
	return out
}
