// Package strenc backs the SecreC builtin operations that convert between
// string and byte-array constants (bytesFromString/stringFromBytes, spec.md
// §4.1 "Array constructor / cat / reshape / shape / size / toString / strlen
// / bytesFromString / stringFromBytes"). The teacher decodes registry value
// bytes with golang.org/x/text/encoding/charmap and a hand-rolled UTF-16LE
// walker (internal/reader); this package has no wire format to match, only
// a string literal's byte sequence to validate, so it uses the sibling
// golang.org/x/text/encoding/unicode package from the same dependency
// instead of charmap.
package strenc

import (
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/andaur/scc/internal/diag"
	"github.com/andaur/scc/pkg/types"
)

// BytesFromString returns the raw UTF-8 bytes a string constant denotes.
// SecreC strings are themselves byte sequences, so this is the identity
// conversion on ConstantString.Bytes; it exists as a named operation because
// codegen's bytesFromString lowering (a SYSCALL Imop, DESIGN.md) needs a
// single place that states the rule rather than inlining []byte(s.Bytes)
// at every call site.
func BytesFromString(s types.ConstantString) []byte {
	return []byte(s.Bytes)
}

// StringFromBytes validates b as well-formed UTF-8 and interns it as a
// ConstantString. It reports a shape-mismatch diagnostic (spec.md §7's
// "shape mismatch detected at runtime" kind, the closest existing Kind to
// the original's ill-formed-string runtime fault) rather than silently
// replacing bad bytes, since a compiler constant-folding a string literal
// should never manufacture one the runtime would have rejected.
func StringFromBytes(cxt *types.Context, b []byte, loc diag.Location) (*types.ConstantString, error) {
	decoder := transform.Chain(encoding.UTF8Validator, unicode.UTF8.NewDecoder())
	out, _, err := transform.Bytes(decoder, b)
	if err != nil {
		return nil, diag.New(diag.KindShape, loc, "stringFromBytes: not valid UTF-8: %v", err)
	}
	return cxt.ConstString(out), nil
}
