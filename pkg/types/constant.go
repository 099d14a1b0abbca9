package types

import "math"

// ConstantInt is an interned integer constant with wraparound arithmetic at
// its stated bit width. Value holds the raw bit pattern; interpretation
// (signed/unsigned) is driven by Signed.
type ConstantInt struct {
	Signed bool
	Bits   int
	Value  uint64 // already masked to Bits
}

func maskFor(bits int) uint64 {
	if bits >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << uint(bits)) - 1
}

// NewConstantInt builds a wraparound-masked integer constant. It does not
// intern; use Context.ConstInt for an interned instance.
func NewConstantInt(signed bool, bits int, value int64) ConstantInt {
	return ConstantInt{Signed: signed, Bits: bits, Value: uint64(value) & maskFor(bits)}
}

// Int64 sign- or zero-extends the stored value to a native int64.
func (c ConstantInt) Int64() int64 {
	if !c.Signed || c.Bits >= 64 {
		return int64(c.Value)
	}
	signBit := uint64(1) << uint(c.Bits-1)
	if c.Value&signBit != 0 {
		return int64(c.Value | ^maskFor(c.Bits))
	}
	return int64(c.Value)
}

func (c ConstantInt) wrap(v uint64) ConstantInt {
	c.Value = v & maskFor(c.Bits)
	return c
}

// Add, Sub, Mul wrap around at the stated bit width, matching the target
// machine's two's-complement arithmetic; no overflow is ever signalled here
// (the dataflow constant-folding lattice is what decides when to treat an
// operation's result as unsafe-to-fold, e.g. division by zero).
func (c ConstantInt) Add(o ConstantInt) ConstantInt { return c.wrap(c.Value + o.Value) }
func (c ConstantInt) Sub(o ConstantInt) ConstantInt { return c.wrap(c.Value - o.Value) }
func (c ConstantInt) Mul(o ConstantInt) ConstantInt { return c.wrap(c.Value * o.Value) }

// DivOk divides c by o, returning ok=false for division by zero or the
// signed INT_MIN / -1 overflow case (both of which are undefined behaviour,
// per spec.md §4.6.1, and must not be folded).
func (c ConstantInt) DivOk(o ConstantInt) (ConstantInt, bool) {
	if o.Value == 0 {
		return ConstantInt{}, false
	}
	if c.Signed {
		a, b := c.Int64(), o.Int64()
		minVal := -(int64(1) << uint(c.Bits-1))
		if c.Bits < 64 && a == minVal && b == -1 {
			return ConstantInt{}, false
		}
		if c.Bits >= 64 && a == math.MinInt64 && b == -1 {
			return ConstantInt{}, false
		}
		return c.wrap(uint64(a / b)), true
	}
	return c.wrap(c.Value / o.Value), true
}

// ModOk is the modulo counterpart of DivOk, subject to the same UB rules.
func (c ConstantInt) ModOk(o ConstantInt) (ConstantInt, bool) {
	if o.Value == 0 {
		return ConstantInt{}, false
	}
	if c.Signed {
		a, b := c.Int64(), o.Int64()
		minVal := -(int64(1) << uint(c.Bits-1))
		if (c.Bits < 64 && a == minVal && b == -1) || (c.Bits >= 64 && a == math.MinInt64 && b == -1) {
			return ConstantInt{}, false
		}
		return c.wrap(uint64(a % b)), true
	}
	return c.wrap(c.Value % o.Value), true
}

// ShlOk/ShrOk shift left/right, returning ok=false for a negative or
// out-of-range shift amount (undefined behaviour; must not be folded).
func (c ConstantInt) ShlOk(amount int64) (ConstantInt, bool) {
	if amount < 0 || amount >= int64(c.Bits) {
		return ConstantInt{}, false
	}
	return c.wrap(c.Value << uint(amount)), true
}

func (c ConstantInt) ShrOk(amount int64) (ConstantInt, bool) {
	if amount < 0 || amount >= int64(c.Bits) {
		return ConstantInt{}, false
	}
	if c.Signed {
		return c.wrap(uint64(c.Int64() >> uint(amount))), true
	}
	return c.wrap(c.Value >> uint(amount)), true
}

func (c ConstantInt) Eq(o ConstantInt) bool { return c.Value == o.Value && c.Signed == o.Signed && c.Bits == o.Bits }

// ConstantFloat is an interned floating-point constant, rounded to nearest
// even at the stated precision (32 or 64 bits).
type ConstantFloat struct {
	Bits  int
	Value float64
}

func NewConstantFloat(bits int, value float64) ConstantFloat {
	if bits == 32 {
		value = float64(float32(value))
	}
	return ConstantFloat{Bits: bits, Value: value}
}

func (c ConstantFloat) roundTo(v float64) ConstantFloat {
	if c.Bits == 32 {
		v = float64(float32(v))
	}
	return ConstantFloat{Bits: c.Bits, Value: v}
}

func (c ConstantFloat) Add(o ConstantFloat) ConstantFloat { return c.roundTo(c.Value + o.Value) }
func (c ConstantFloat) Sub(o ConstantFloat) ConstantFloat { return c.roundTo(c.Value - o.Value) }
func (c ConstantFloat) Mul(o ConstantFloat) ConstantFloat { return c.roundTo(c.Value * o.Value) }
func (c ConstantFloat) Div(o ConstantFloat) ConstantFloat { return c.roundTo(c.Value / o.Value) }

func (c ConstantFloat) Eq(o ConstantFloat) bool { return c.Bits == o.Bits && c.Value == o.Value }

// ConstantString is an interned byte-sequence constant.
type ConstantString struct {
	Bytes string
}

func NewConstantString(b []byte) ConstantString { return ConstantString{Bytes: string(b)} }

func (c ConstantString) Eq(o ConstantString) bool { return c.Bytes == o.Bytes }
