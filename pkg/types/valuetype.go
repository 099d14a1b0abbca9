package types

import "strings"

// ValueKind distinguishes the three variants of Type.
type ValueKind int

const (
	KindVoid ValueKind = iota
	KindBasic
	KindProcedure
)

// Type is the full value type of a SecreC expression or symbol: either
// Void, a Basic(security, data, dimensionality) triple, or a Procedure
// signature. Interned by *Context; equality is pointer identity.
type Type struct {
	Kind ValueKind

	// KindBasic
	Sec  *SecurityType
	Data *DataType
	Dim  DimType

	// KindProcedure
	Params []*Type // each is a KindBasic type
	Return *Type   // Void or KindBasic
}

// IsVoid reports whether t is the Void type.
func (t *Type) IsVoid() bool { return t.Kind == KindVoid }

// IsScalar reports whether t is a Basic type of dimensionality 0.
func (t *Type) IsScalar() bool { return t.Kind == KindBasic && t.Dim == 0 }

// IsPublicUintScalar reports whether t is a public, unsigned-integer,
// scalar type — the shape required of array indices and shape components.
func (t *Type) IsPublicUintScalar() bool {
	if t.Kind != KindBasic || t.Dim != 0 || !t.Sec.IsPublic() {
		return false
	}
	return t.Data.Tag == TagBuiltin && t.Data.Builtin.IsUnsignedNumeric()
}

// SecrecSecType returns the security type of a non-void value, or the
// return type's security type for a procedure type.
func (t *Type) SecrecSecType() *SecurityType {
	switch t.Kind {
	case KindBasic:
		return t.Sec
	case KindProcedure:
		return t.Return.SecrecSecType()
	default:
		return nil
	}
}

// SecrecDataType returns the data type of a non-void value, or nil for Void
// and for procedure types whose return type is Void.
func (t *Type) SecrecDataType() *DataType {
	switch t.Kind {
	case KindBasic:
		return t.Data
	case KindProcedure:
		return t.Return.SecrecDataType()
	default:
		return nil
	}
}

// SecrecDimType returns the dimensionality of a non-void value.
func (t *Type) SecrecDimType() DimType {
	switch t.Kind {
	case KindBasic:
		return t.Dim
	case KindProcedure:
		return t.Return.SecrecDimType()
	default:
		return 0
	}
}

// LatticeLEQ reports whether t <= other, checked componentwise: security,
// data (implicit-cast closure) and dimensionality must each be <=.
func (t *Type) LatticeLEQ(other *Type) bool {
	if t.Kind != KindBasic || other.Kind != KindBasic {
		return false
	}
	if !SecLEQ(t.Sec, other.Sec) {
		return false
	}
	if !DimLEQ(t.Dim, other.Dim) {
		return false
	}
	if t.Data == other.Data {
		return true
	}
	if t.Data.Tag == TagBuiltin && other.Data.Tag == TagBuiltin {
		return BuiltinImplicitLEQ(t.Data.Builtin, other.Data.Builtin)
	}
	return false
}

func (t *Type) String() string {
	switch t.Kind {
	case KindVoid:
		return "void"
	case KindBasic:
		dims := ""
		if t.Dim > 0 {
			dims = "[[" + itoa(int(t.Dim)) + "]]"
		}
		return t.Sec.String() + " " + t.Data.String() + dims
	case KindProcedure:
		ps := make([]string, len(t.Params))
		for i, p := range t.Params {
			ps[i] = p.String()
		}
		return "(" + strings.Join(ps, ", ") + ") -> " + t.Return.String()
	default:
		return "<invalid type>"
	}
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// TypeArgTag distinguishes the three kinds of template quantifier binding.
type TypeArgTag int

const (
	ArgSec TypeArgTag = iota
	ArgData
	ArgDim
)

// TypeArg is the binding of a single template quantifier: a security type,
// a data type, or a dimensionality.
type TypeArg struct {
	Tag  TypeArgTag
	Sec  *SecurityType
	Data *DataType
	Dim  DimType
}

// Equal reports whether two type arguments bind the same quantifier kind
// to the same (interned) value.
func (a TypeArg) Equal(b TypeArg) bool {
	if a.Tag != b.Tag {
		return false
	}
	switch a.Tag {
	case ArgSec:
		return a.Sec == b.Sec
	case ArgData:
		return a.Data == b.Data
	case ArgDim:
		return a.Dim == b.Dim
	}
	return false
}

func (a TypeArg) String() string {
	switch a.Tag {
	case ArgSec:
		return a.Sec.String()
	case ArgData:
		return a.Data.String()
	case ArgDim:
		return "[[" + itoa(int(a.Dim)) + "]]"
	default:
		return "<invalid type argument>"
	}
}
