package core

import "fmt"

// extResidue is the smallest quadratic non-residue of the field; the
// extension is F_p[phi] / (phi^2 - extResidue)
const extResidue uint64 = 3

// ExtElement is an element a + b*phi of the quadratic extension field.
// Random constraint-combination coefficients are drawn from this field so
// the soundness error scales with p^2 rather than p.
type ExtElement struct {
	A Element // coefficient of 1
	B Element // coefficient of phi
}

// ExtZero is the additive identity of the extension field
func ExtZero() ExtElement { return ExtElement{} }

// ExtOne is the multiplicative identity of the extension field
func ExtOne() ExtElement { return ExtElement{A: One()} }

// NewExt builds an extension element from its two base-field coordinates
func NewExt(a, b Element) ExtElement {
	return ExtElement{A: a, B: b}
}

// FromBase embeds a base-field element into the extension field
func FromBase(a Element) ExtElement {
	return ExtElement{A: a}
}

// Add returns x + y
func (x ExtElement) Add(y ExtElement) ExtElement {
	return ExtElement{A: x.A.Add(y.A), B: x.B.Add(y.B)}
}

// Sub returns x - y
func (x ExtElement) Sub(y ExtElement) ExtElement {
	return ExtElement{A: x.A.Sub(y.A), B: x.B.Sub(y.B)}
}

// Neg returns -x
func (x ExtElement) Neg() ExtElement {
	return ExtElement{A: x.A.Neg(), B: x.B.Neg()}
}

// Mul returns x * y, reducing phi^2 to the baked non-residue
func (x ExtElement) Mul(y ExtElement) ExtElement {
	// (a0 + a1 phi)(b0 + b1 phi) = a0 b0 + r a1 b1 + (a0 b1 + a1 b0) phi
	r := Element(extResidue)
	return ExtElement{
		A: x.A.Mul(y.A).Add(r.Mul(x.B.Mul(y.B))),
		B: x.A.Mul(y.B).Add(x.B.Mul(y.A)),
	}
}

// MulBase scales x by a base-field element
func (x ExtElement) MulBase(c Element) ExtElement {
	return ExtElement{A: x.A.Mul(c), B: x.B.Mul(c)}
}

// Inv returns the multiplicative inverse of x. The inverse of zero is zero.
func (x ExtElement) Inv() ExtElement {
	// conjugate over norm: (a - b phi) / (a^2 - r b^2)
	r := Element(extResidue)
	norm := x.A.Square().Sub(r.Mul(x.B.Square()))
	ninv := norm.Inv()
	return ExtElement{A: x.A.Mul(ninv), B: x.B.Neg().Mul(ninv)}
}

// IsZero reports whether x is the additive identity
func (x ExtElement) IsZero() bool { return x.A.IsZero() && x.B.IsZero() }

// Equal reports whether two extension elements are the same
func (x ExtElement) Equal(y ExtElement) bool {
	return x.A.Equal(y.A) && x.B.Equal(y.B)
}

// Bytes returns the 16-byte big-endian encoding (A then B)
func (x ExtElement) Bytes() [16]byte {
	var out [16]byte
	a := x.A.Bytes()
	b := x.B.Bytes()
	copy(out[:8], a[:])
	copy(out[8:], b[:])
	return out
}

// ExtElementFromBytes decodes the 16-byte encoding produced by Bytes
func ExtElementFromBytes(b []byte) (ExtElement, error) {
	if len(b) != 16 {
		return ExtElement{}, fmt.Errorf("extension element must be 16 bytes, got %d", len(b))
	}
	a0, err := ElementFromBytes(b[:8])
	if err != nil {
		return ExtElement{}, err
	}
	a1, err := ElementFromBytes(b[8:])
	if err != nil {
		return ExtElement{}, err
	}
	return ExtElement{A: a0, B: a1}, nil
}

// String returns a readable representation of x
func (x ExtElement) String() string {
	return fmt.Sprintf("%s + %s*phi", x.A, x.B)
}
