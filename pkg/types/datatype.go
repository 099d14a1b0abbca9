package types

import "fmt"

// DataTypeTag distinguishes the three variants of DataType.
type DataTypeTag int

const (
	// TagBuiltin is a built-in primitive: bool, string, an unresolved
	// numeric/float literal class, or a concrete sized integer/float/xor type.
	TagBuiltin DataTypeTag = iota
	// TagUserPrimitive is a data type declared inside a kind declaration.
	TagUserPrimitive
	// TagComposite is a struct, possibly instantiated with type arguments.
	TagComposite
)

// BuiltinKind enumerates the built-in primitive data types.
type BuiltinKind int

const (
	Bool BuiltinKind = iota
	StringK
	Numeric      // unresolved integer literal class
	NumericFloat // unresolved float literal class
	Int8
	Int16
	Int32
	Int64
	Uint8
	Uint16
	Uint32
	Uint64
	XorUint8
	XorUint16
	XorUint32
	XorUint64
	Float32
	Float64

	numBuiltinKinds
)

var builtinKindNames = [numBuiltinKinds]string{
	Bool: "bool", StringK: "string", Numeric: "numeric", NumericFloat: "numeric_float",
	Int8: "int8", Int16: "int16", Int32: "int32", Int64: "int64",
	Uint8: "uint8", Uint16: "uint16", Uint32: "uint32", Uint64: "uint64",
	XorUint8: "xor_uint8", XorUint16: "xor_uint16", XorUint32: "xor_uint32", XorUint64: "xor_uint64",
	Float32: "float32", Float64: "float64",
}

func (k BuiltinKind) String() string {
	if k < 0 || k >= numBuiltinKinds {
		return "<invalid builtin kind>"
	}
	return builtinKindNames[k]
}

// IsNumeric reports whether k is one of the concrete or abstract integer
// classes (not floats, not bool/string/xor).
func (k BuiltinKind) IsNumeric() bool {
	switch k {
	case Numeric, Int8, Int16, Int32, Int64, Uint8, Uint16, Uint32, Uint64:
		return true
	}
	return false
}

// IsFloating reports whether k is a float class, concrete or abstract.
func (k BuiltinKind) IsFloating() bool {
	switch k {
	case NumericFloat, Float32, Float64:
		return true
	}
	return false
}

// IsXor reports whether k is one of the xor_uintN types.
func (k BuiltinKind) IsXor() bool {
	switch k {
	case XorUint8, XorUint16, XorUint32, XorUint64:
		return true
	}
	return false
}

// IsSignedNumeric reports whether k is a signed concrete integer type.
func (k BuiltinKind) IsSignedNumeric() bool {
	switch k {
	case Int8, Int16, Int32, Int64:
		return true
	}
	return false
}

// IsUnsignedNumeric reports whether k is an unsigned concrete integer type.
func (k BuiltinKind) IsUnsignedNumeric() bool {
	switch k {
	case Uint8, Uint16, Uint32, Uint64:
		return true
	}
	return false
}

// BitWidth returns the bit width of a concrete sized type, or 0 for bool,
// string and the abstract numeric/numeric_float classes.
func (k BuiltinKind) BitWidth() int {
	switch k {
	case Int8, Uint8, XorUint8:
		return 8
	case Int16, Uint16, XorUint16:
		return 16
	case Int32, Uint32, XorUint32, Float32:
		return 32
	case Int64, Uint64, XorUint64, Float64:
		return 64
	}
	return 0
}

// castStyle classifies an entry of the implicit-cast lattice table.
type castStyle int

const (
	castForbidden castStyle = iota
	castEqual
	castImplicit
	castExplicit
)

// dataTypeCasts is the cast-admissibility table. Row = from, column = to.
// Ported from the original implementation's dataTypeCasts[NUM_DATATYPES]
// table (see DESIGN.md), extended with one row/column for NumericFloat,
// which behaves like Numeric but over the float family.
var dataTypeCasts = buildCastTable()

func buildCastTable() [numBuiltinKinds][numBuiltinKinds]castStyle {
	var t [numBuiltinKinds][numBuiltinKinds]castStyle
	for i := range t {
		for j := range t[i] {
			t[i][j] = castForbidden
		}
		t[i][i] = castEqual
	}

	t[Bool][Bool] = castEqual
	intTypes := []BuiltinKind{Int8, Int16, Int32, Int64, Uint8, Uint16, Uint32, Uint64}
	xorTypes := []BuiltinKind{XorUint8, XorUint16, XorUint32, XorUint64}
	floatTypes := []BuiltinKind{Float32, Float64}

	// bool <-> any integer/xor/float is explicit-only (and to itself only equal).
	for _, k := range append(append(append([]BuiltinKind{}, intTypes...), xorTypes...), floatTypes...) {
		t[Bool][k] = castExplicit
		t[k][Bool] = castExplicit
	}

	// numeric is implicit-below every concrete integer type.
	for _, k := range intTypes {
		t[Numeric][k] = castImplicit
	}

	// numeric_float is implicit-below every concrete float type.
	for _, k := range floatTypes {
		t[NumericFloat][k] = castImplicit
	}

	// signed/unsigned widenings are implicit only within the same signedness.
	signed := []BuiltinKind{Int8, Int16, Int32, Int64}
	unsigned := []BuiltinKind{Uint8, Uint16, Uint32, Uint64}
	setWideningsImplicit(&t, signed)
	setWideningsImplicit(&t, unsigned)

	// cross-signedness and int<->float are explicit; int<->xor stays forbidden.
	for _, a := range intTypes {
		for _, b := range intTypes {
			if t[a][b] == castForbidden && a != b {
				t[a][b] = castExplicit
			}
		}
		for _, b := range floatTypes {
			t[a][b] = castExplicit
			t[b][a] = castExplicit
		}
	}

	// xor types are explicit-only, except to/from each other which is also
	// explicit (no implicit widening among xor types) and never to/from float.
	for _, a := range xorTypes {
		for _, b := range xorTypes {
			if a != b {
				t[a][b] = castExplicit
			}
		}
	}

	// float32 <-> float64 explicit.
	t[Float32][Float64] = castExplicit
	t[Float64][Float32] = castExplicit

	return t
}

func setWideningsImplicit(t *[numBuiltinKinds][numBuiltinKinds]castStyle, group []BuiltinKind) {
	for _, a := range group {
		for _, b := range group {
			if a == b {
				continue
			}
			if a.BitWidth() <= b.BitWidth() {
				t[a][b] = castImplicit
			} else {
				t[a][b] = castExplicit
			}
		}
	}
}

// BuiltinCastStyle reports how (if at all) data may move from `from` to `to`: the
// two sides are equal, an implicit cast applies, an explicit cast applies,
// or no cast is admissible. Only meaningful for two BuiltinKind data types;
// callers should route user-primitive/composite casts through declassify
// or explicit struct-field comparison instead.
func BuiltinCastStyle(from, to BuiltinKind) (equal, implicit, explicit bool) {
	switch dataTypeCasts[from][to] {
	case castEqual:
		return true, false, false
	case castImplicit:
		return false, true, false
	case castExplicit:
		return false, false, true
	}
	return false, false, false
}

// BuiltinImplicitLEQ reports whether `from` implicitly converts to `to`
// (equal or implicit), i.e. whether from <= to in the data-type lattice
// induced by the transitive closure of implicit casts. Because the table
// above is already transitively implicit-closed for the numeric/float
// classes (the only multi-step chains in the lattice), a direct table
// lookup is sufficient.
func BuiltinImplicitLEQ(from, to BuiltinKind) bool {
	eq, impl, _ := BuiltinCastStyle(from, to)
	return eq || impl
}

// Field is one (type, name) member of a composite data type, in the order
// declared.
type Field struct {
	Type *Type
	Name string
}

// DataType is the tagged union described in spec.md §3: a built-in
// primitive, a user-declared primitive (scoped to a kind), or a composite
// struct type, possibly instantiated with type arguments. Interned by
// *Context; equality is pointer identity.
type DataType struct {
	Tag DataTypeTag

	// TagBuiltin
	Builtin BuiltinKind

	// TagUserPrimitive
	UserName  string
	UserKind  *Kind
	PublicRep *DataType // optional; nil if declassify is undefined for this type
	ByteSize  int       // 0 if unspecified

	// TagComposite
	StructName string
	TypeArgs   []TypeArg
	Fields     []Field
}

// IsComposite reports whether d is a struct type.
func (d *DataType) IsComposite() bool { return d.Tag == TagComposite }

// IsPrimitive reports whether d is a built-in or user-primitive type.
func (d *DataType) IsPrimitive() bool { return !d.IsComposite() }

// FieldByName returns the field named name and true, or (Field{}, false).
func (d *DataType) FieldByName(name string) (Field, bool) {
	for _, f := range d.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

func (d *DataType) String() string {
	switch d.Tag {
	case TagBuiltin:
		return d.Builtin.String()
	case TagUserPrimitive:
		return d.UserName
	case TagComposite:
		return fmt.Sprintf("%s%s", d.StructName, typeArgsString(d.TypeArgs))
	default:
		return "<invalid data type>"
	}
}

func typeArgsString(args []TypeArg) string {
	if len(args) == 0 {
		return ""
	}
	s := "<"
	for i, a := range args {
		if i > 0 {
			s += ", "
		}
		s += a.String()
	}
	return s + ">"
}

// dtypeDeclassify returns the data type a declassified value of d would
// have, or nil if declassification is undefined for d (only user-primitive
// types with a declared public representation support it; built-in types
// declassify to themselves under an unchanged data type, since declassify
// only changes the security type of a built-in-typed value).
func dtypeDeclassify(d *DataType) *DataType {
	switch d.Tag {
	case TagBuiltin:
		return d
	case TagUserPrimitive:
		return d.PublicRep
	default:
		return nil
	}
}

// DataTypeDeclassify is the exported form of dtypeDeclassify.
func DataTypeDeclassify(d *DataType) *DataType { return dtypeDeclassify(d) }
