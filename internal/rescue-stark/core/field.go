package core

import (
	"fmt"
	"math/bits"
)

// Modulus is the prime defining the base field: 2^61 + 20*2^32 + 1.
// This is the field of the Rescue hash challenge parameters. Its
// multiplicative group has order 2^34 * 13 * 167 * 211 * 293, so it
// supports trace domains of up to 2^34 rows, and since Modulus % 3 == 2
// the cubing map x -> x^3 is a bijection on the field.
const Modulus uint64 = 2305843095113039873

// TwoAdicity is the largest k such that 2^k divides Modulus-1
const TwoAdicity = 34

// generator is the smallest primitive root modulo Modulus
const generator uint64 = 3

// CubeRootExponent is the fixed exponent e = (2p-1)/3 such that x^e is the
// unique cube root of x. Derived from the modulus at initialization rather
// than hand-copied; see checkFieldInvariants.
var CubeRootExponent uint64

func init() {
	checkFieldInvariants()
}

// checkFieldInvariants establishes the congruences the whole component
// relies on. A violation means the baked modulus is wrong, which is a
// programming error, so it panics rather than returning an error.
func checkFieldInvariants() {
	if Modulus%3 != 2 {
		panic("core: field size must be congruent to 2 mod 3, cubing is not a bijection")
	}
	// e = (2p-1)/3; 2p-1 fits in a uint64 since p < 2^62
	CubeRootExponent = (2*Modulus - 1) / 3

	// 3e mod (p-1) must be 1 so that (x^3)^e == x for every x
	hi, lo := bits.Mul64(3, CubeRootExponent)
	_, rem := bits.Div64(hi%(Modulus-1), lo, Modulus-1)
	if rem != 1 {
		panic("core: cube root exponent does not invert cubing")
	}
}

// Element is an element of the base field, always reduced modulo Modulus
type Element uint64

// New creates a field element from a uint64, reducing it modulo the prime
func New(v uint64) Element {
	return Element(v % Modulus)
}

// Zero is the additive identity
func Zero() Element { return 0 }

// One is the multiplicative identity
func One() Element { return 1 }

// Add returns a + b in the field
func (a Element) Add(b Element) Element {
	// no overflow: both operands are below 2^62
	s := uint64(a) + uint64(b)
	if s >= Modulus {
		s -= Modulus
	}
	return Element(s)
}

// Sub returns a - b in the field
func (a Element) Sub(b Element) Element {
	if a >= b {
		return a - b
	}
	return Element(Modulus - uint64(b) + uint64(a))
}

// Neg returns the additive inverse of a
func (a Element) Neg() Element {
	if a == 0 {
		return 0
	}
	return Element(Modulus - uint64(a))
}

// Mul returns a * b in the field using a 128-bit intermediate product
func (a Element) Mul(b Element) Element {
	hi, lo := bits.Mul64(uint64(a), uint64(b))
	// hi < 2^60 < Modulus, so Div64 cannot panic
	_, rem := bits.Div64(hi, lo, Modulus)
	return Element(rem)
}

// Square returns a * a
func (a Element) Square() Element {
	return a.Mul(a)
}

// Cube returns a^3
func (a Element) Cube() Element {
	return a.Mul(a).Mul(a)
}

// Exp returns a^exp using square-and-multiply
func (a Element) Exp(exp uint64) Element {
	result := One()
	base := a
	for exp > 0 {
		if exp&1 == 1 {
			result = result.Mul(base)
		}
		base = base.Mul(base)
		exp >>= 1
	}
	return result
}

// CubeRoot returns the unique cube root of a. Zero maps to zero.
func (a Element) CubeRoot() Element {
	return a.Exp(CubeRootExponent)
}

// Inv returns the multiplicative inverse of a via Fermat's little theorem.
// The inverse of zero is zero.
func (a Element) Inv() Element {
	if a == 0 {
		return 0
	}
	return a.Exp(Modulus - 2)
}

// IsZero reports whether a is the additive identity
func (a Element) IsZero() bool { return a == 0 }

// Equal reports whether two elements are the same
func (a Element) Equal(b Element) bool { return a == b }

// Uint64 returns the canonical representative of a
func (a Element) Uint64() uint64 { return uint64(a) }

// Bytes returns the 8-byte big-endian encoding of a
func (a Element) Bytes() [8]byte {
	var out [8]byte
	v := uint64(a)
	for i := 7; i >= 0; i-- {
		out[i] = byte(v)
		v >>= 8
	}
	return out
}

// ElementFromBytes decodes an 8-byte big-endian encoding. The value must be
// canonical (below the modulus); anything else is an input-validation error.
func ElementFromBytes(b []byte) (Element, error) {
	if len(b) != 8 {
		return 0, fmt.Errorf("field element must be 8 bytes, got %d", len(b))
	}
	var v uint64
	for _, c := range b {
		v = v<<8 | uint64(c)
	}
	if v >= Modulus {
		return 0, fmt.Errorf("field element %d is not reduced modulo %d", v, Modulus)
	}
	return Element(v), nil
}

// String returns the decimal representation of a
func (a Element) String() string {
	return fmt.Sprintf("%d", uint64(a))
}

// MultiplicativeGenerator returns a generator of the full multiplicative group
func MultiplicativeGenerator() Element {
	return Element(generator)
}

// RootOfUnity returns a generator of the order-n subgroup of the
// multiplicative group. n must be a power of two no larger than 2^TwoAdicity.
func RootOfUnity(n uint64) (Element, error) {
	if n == 0 || n&(n-1) != 0 {
		return 0, fmt.Errorf("subgroup order %d is not a power of two", n)
	}
	if n > 1<<TwoAdicity {
		return 0, fmt.Errorf("subgroup order %d exceeds the 2-adicity of the field", n)
	}
	return Element(generator).Exp((Modulus - 1) / n), nil
}
