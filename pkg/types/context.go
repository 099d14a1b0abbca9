package types

import (
	"math"
	"strings"
)

// Context is the interning table set threaded explicitly through the
// compiler pipeline (elaborator, unifiers, instantiator, code generator).
// It plays the role the original implementation gave to a process-wide
// global: every flyweight type and constant is a lookup-or-insert against
// one Context value, so two compilations never share state and tests can
// run with independent contexts. See SPEC_FULL.md's "Global mutable
// context" design note.
type Context struct {
	publicSec *SecurityType
	privSec   map[string]*SecurityType
	kinds     map[string]*Kind

	builtins map[BuiltinKind]*DataType
	userPrim map[string]*DataType
	composit map[string]*DataType

	voidType *Type
	basic    map[string]*Type
	proc     map[string]*Type

	constInt   map[string]*ConstantInt
	constFloat map[string]*ConstantFloat
	constStr   map[string]*ConstantString
}

// NewContext creates an empty interning context with the public security
// type pre-populated (it has no declaration site, so it always exists).
func NewContext() *Context {
	c := &Context{
		privSec:    make(map[string]*SecurityType),
		kinds:      make(map[string]*Kind),
		builtins:   make(map[BuiltinKind]*DataType),
		userPrim:   make(map[string]*DataType),
		composit:   make(map[string]*DataType),
		basic:      make(map[string]*Type),
		proc:       make(map[string]*Type),
		constInt:   make(map[string]*ConstantInt),
		constFloat: make(map[string]*ConstantFloat),
		constStr:   make(map[string]*ConstantString),
	}
	c.publicSec = &SecurityType{public: true}
	c.voidType = &Type{Kind: KindVoid}
	return c
}

// PublicSecType returns the interned public security type.
func (c *Context) PublicSecType() *SecurityType { return c.publicSec }

// PrivateSecType returns (creating if necessary) the interned private
// security type named name, belonging to kind.
func (c *Context) PrivateSecType(name string, kind *Kind) *SecurityType {
	if s, ok := c.privSec[name]; ok {
		return s
	}
	s := &SecurityType{public: false, name: name, kind: kind}
	c.privSec[name] = s
	return s
}

// LookupPrivateSecType returns the already-interned private security type
// named name, or (nil, false) if no such domain has been declared.
func (c *Context) LookupPrivateSecType(name string) (*SecurityType, bool) {
	s, ok := c.privSec[name]
	return s, ok
}

// DeclareKind returns (creating if necessary) the interned Kind named name.
func (c *Context) DeclareKind(name string) *Kind {
	if k, ok := c.kinds[name]; ok {
		return k
	}
	k := &Kind{name: name}
	c.kinds[name] = k
	return k
}

// LookupKind returns the already-declared kind named name, or (nil, false).
func (c *Context) LookupKind(name string) (*Kind, bool) {
	k, ok := c.kinds[name]
	return k, ok
}

// BuiltinType returns the interned DataType for a built-in kind.
func (c *Context) BuiltinType(k BuiltinKind) *DataType {
	if d, ok := c.builtins[k]; ok {
		return d
	}
	d := &DataType{Tag: TagBuiltin, Builtin: k}
	c.builtins[k] = d
	return d
}

// UserPrimitiveType returns (creating if necessary) the interned
// user-primitive DataType named name, scoped to kind, with the given
// optional public representation and fixed byte size.
func (c *Context) UserPrimitiveType(name string, kind *Kind, publicRep *DataType, byteSize int) *DataType {
	key := kind.Name() + "::" + name
	if d, ok := c.userPrim[key]; ok {
		return d
	}
	d := &DataType{Tag: TagUserPrimitive, UserName: name, UserKind: kind, PublicRep: publicRep, ByteSize: byteSize}
	c.userPrim[key] = d
	return d
}

// CompositeType returns (creating if necessary) the interned composite
// DataType for struct structName instantiated with args, with the given
// ordered field list.
func (c *Context) CompositeType(structName string, args []TypeArg, fields []Field) *DataType {
	key := compositeKey(structName, args)
	if d, ok := c.composit[key]; ok {
		return d
	}
	d := &DataType{Tag: TagComposite, StructName: structName, TypeArgs: args, Fields: fields}
	c.composit[key] = d
	return d
}

func compositeKey(structName string, args []TypeArg) string {
	var b strings.Builder
	b.WriteString(structName)
	for _, a := range args {
		b.WriteByte('|')
		b.WriteString(a.String())
	}
	return b.String()
}

// VoidType returns the interned Void type.
func (c *Context) VoidType() *Type { return c.voidType }

// BasicType returns the interned Basic(sec, data, dim) type.
func (c *Context) BasicType(sec *SecurityType, data *DataType, dim DimType) *Type {
	key := basicKey(sec, data, dim)
	if t, ok := c.basic[key]; ok {
		return t
	}
	t := &Type{Kind: KindBasic, Sec: sec, Data: data, Dim: dim}
	c.basic[key] = t
	return t
}

func basicKey(sec *SecurityType, data *DataType, dim DimType) string {
	return sec.String() + "#" + data.String() + "#" + itoa(int(dim))
}

// ProcType returns the interned Procedure(params, ret) type.
func (c *Context) ProcType(params []*Type, ret *Type) *Type {
	var b strings.Builder
	for _, p := range params {
		b.WriteString(p.String())
		b.WriteByte(',')
	}
	b.WriteString("->")
	b.WriteString(ret.String())
	key := b.String()
	if t, ok := c.proc[key]; ok {
		return t
	}
	t := &Type{Kind: KindProcedure, Params: params, Return: ret}
	c.proc[key] = t
	return t
}

// IndexType returns the type used for array indices: public uint64 scalar.
func (c *Context) IndexType() *Type {
	return c.BasicType(c.publicSec, c.BuiltinType(Uint64), 0)
}

// PublicBoolType returns the public bool scalar type.
func (c *Context) PublicBoolType() *Type {
	return c.BasicType(c.publicSec, c.BuiltinType(Bool), 0)
}

// ConstInt returns the interned integer constant.
func (c *Context) ConstInt(signed bool, bits int, value int64) *ConstantInt {
	v := NewConstantInt(signed, bits, value)
	key := signednessKey(signed, bits) + itoa64(int64(v.Value))
	if e, ok := c.constInt[key]; ok {
		return e
	}
	c.constInt[key] = &v
	return &v
}

// ConstFloat returns the interned float constant.
func (c *Context) ConstFloat(bits int, value float64) *ConstantFloat {
	v := NewConstantFloat(bits, value)
	key := itoa(bits) + "#" + floatKey(v.Value)
	if e, ok := c.constFloat[key]; ok {
		return e
	}
	c.constFloat[key] = &v
	return &v
}

// ConstString returns the interned string constant.
func (c *Context) ConstString(b []byte) *ConstantString {
	v := NewConstantString(b)
	if e, ok := c.constStr[v.Bytes]; ok {
		return e
	}
	c.constStr[v.Bytes] = &v
	return &v
}

func signednessKey(signed bool, bits int) string {
	if signed {
		return "s" + itoa(bits) + ":"
	}
	return "u" + itoa(bits) + ":"
}

func itoa64(n int64) string { return itoa(int(n)) }

func floatKey(v float64) string {
	return itoa64(int64(math.Float64bits(v)))
}
