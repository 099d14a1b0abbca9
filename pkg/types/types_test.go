package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSecurityLattice(t *testing.T) {
	cxt := NewContext()
	pub := cxt.PublicSecType()
	kind := cxt.DeclareKind("additive3pp")
	d1 := cxt.PrivateSecType("pd_shared3p", kind)
	d2 := cxt.PrivateSecType("pd_other3p", kind)

	require.True(t, SecLEQ(pub, d1))
	require.False(t, SecLEQ(d1, pub))
	require.True(t, SecLEQ(d1, d1))
	require.False(t, SecLEQ(d1, d2))

	join, ok := SecJoin(pub, d1)
	require.True(t, ok)
	require.Same(t, d1, join)

	_, ok = SecJoin(d1, d2)
	require.False(t, ok, "distinct private domains have no join")
}

func TestSecurityTypeInterning(t *testing.T) {
	cxt := NewContext()
	kind := cxt.DeclareKind("additive3pp")
	a := cxt.PrivateSecType("pd_shared3p", kind)
	b := cxt.PrivateSecType("pd_shared3p", kind)
	require.Same(t, a, b, "same-named domain must intern to the same pointer")
}

func TestBuiltinCastTable(t *testing.T) {
	cases := []struct {
		name               string
		from, to           BuiltinKind
		equal, impl, expl bool
	}{
		{"int32 to int32", Int32, Int32, true, false, false},
		{"int8 widens to int32 implicitly", Int8, Int32, false, true, false},
		{"int32 narrows to int8 explicitly", Int32, Int8, false, false, true},
		{"uint8 to int8 explicit (cross signedness)", Uint8, Int8, false, false, true},
		{"numeric defaults implicit to int64", Numeric, Int64, false, true, false},
		{"numeric_float defaults implicit to float64", NumericFloat, Float64, false, true, false},
		{"float to int forbidden implicitly, explicit only", Float32, Int32, false, false, true},
		{"xor8 to xor16 is explicit, not implicit", XorUint8, XorUint16, false, false, true},
		{"xor8 to xor8 equal", XorUint8, XorUint8, true, false, false},
		{"xor8 to int8 forbidden", XorUint8, Int8, false, false, false},
		{"bool to bool equal", Bool, Bool, true, false, false},
		{"bool to int8 explicit", Bool, Int8, false, false, true},
		{"string to string equal only", StringK, StringK, true, false, false},
		{"string to int8 forbidden", StringK, Int8, false, false, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			eq, impl, expl := BuiltinCastStyle(c.from, c.to)
			require.Equal(t, c.equal, eq, "equal")
			require.Equal(t, c.impl, impl, "implicit")
			require.Equal(t, c.expl, expl, "explicit")
		})
	}
}

func TestBuiltinImplicitLEQTransitiveDefaulting(t *testing.T) {
	require.True(t, BuiltinImplicitLEQ(Numeric, Int64))
	require.True(t, BuiltinImplicitLEQ(Int64, Int64))
	require.False(t, BuiltinImplicitLEQ(Int64, Numeric))
}

func TestDimLattice(t *testing.T) {
	require.True(t, DimLEQ(0, 3))
	require.True(t, DimLEQ(2, 2))
	require.False(t, DimLEQ(2, 3))
	require.Equal(t, DimType(3), DimUpper(0, 3))
	require.Equal(t, DimType(2), DimUpper(2, 0))
}

func TestTypeInterningAndString(t *testing.T) {
	cxt := NewContext()
	pub := cxt.PublicSecType()
	i32 := cxt.BuiltinType(Int32)

	a := cxt.BasicType(pub, i32, 0)
	b := cxt.BasicType(pub, i32, 0)
	require.Same(t, a, b)
	require.Equal(t, "public int32", a.String())

	arr := cxt.BasicType(pub, i32, 2)
	require.NotSame(t, a, arr)
	require.Equal(t, "public int32[[2]]", arr.String())
}

func TestProcTypeInterning(t *testing.T) {
	cxt := NewContext()
	pub := cxt.PublicSecType()
	i32 := cxt.BasicType(pub, cxt.BuiltinType(Int32), 0)
	ret := cxt.BasicType(pub, cxt.BuiltinType(Int32), 0)

	p1 := cxt.ProcType([]*Type{i32, i32}, ret)
	p2 := cxt.ProcType([]*Type{i32, i32}, ret)
	require.Same(t, p1, p2)
}

func TestConstantIntWraparound(t *testing.T) {
	max8 := NewConstantInt(false, 8, 255)
	one := NewConstantInt(false, 8, 1)
	sum := max8.Add(one)
	require.EqualValues(t, 0, sum.Value, "uint8 255+1 wraps to 0")

	signedMin := NewConstantInt(true, 8, -128)
	require.EqualValues(t, -128, signedMin.Int64())
}

func TestConstantIntDivisionByZeroIsUndefined(t *testing.T) {
	a := NewConstantInt(true, 32, 10)
	zero := NewConstantInt(true, 32, 0)
	_, ok := a.DivOk(zero)
	require.False(t, ok)
}

func TestConstantIntSignedMinDivNegOneIsUndefined(t *testing.T) {
	minVal := NewConstantInt(true, 32, -(1 << 31))
	negOne := NewConstantInt(true, 32, -1)
	_, ok := minVal.DivOk(negOne)
	require.False(t, ok, "INT_MIN / -1 overflows and must not be folded")
}

func TestConstantIntShiftByNegativeIsUndefined(t *testing.T) {
	a := NewConstantInt(true, 32, 4)
	_, ok := a.ShlOk(-1)
	require.False(t, ok)
	_, ok = a.ShlOk(32)
	require.False(t, ok, "shift amount must be < bit width")
}

func TestConstantFloatRoundsToPrecision(t *testing.T) {
	f := NewConstantFloat(32, 1.0/3.0)
	require.Equal(t, float64(float32(1.0/3.0)), f.Value)
}

func TestConstantInterning(t *testing.T) {
	cxt := NewContext()
	a := cxt.ConstInt(true, 32, 42)
	b := cxt.ConstInt(true, 32, 42)
	require.Same(t, a, b)

	s1 := cxt.ConstString([]byte("hello"))
	s2 := cxt.ConstString([]byte("hello"))
	require.Same(t, s1, s2)
}

func TestUserPrimitiveDeclassify(t *testing.T) {
	cxt := NewContext()
	kind := cxt.DeclareKind("additive3pp")
	pub8 := cxt.BuiltinType(Uint8)
	shared := cxt.UserPrimitiveType("uint8", kind, pub8, 1)

	require.Same(t, pub8, DataTypeDeclassify(shared))
	require.Nil(t, DataTypeDeclassify(cxt.CompositeType("Pair", nil, nil)),
		"composite types have no declassify representation")
}
