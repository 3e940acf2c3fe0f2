package core

import (
	"fmt"
	"math/bits"
)

// NTT evaluates the polynomial given by coeffs over the subgroup generated
// by omega, returning evals[i] = f(omega^i) in natural order. The length of
// coeffs must be a power of two and omega must have exactly that order.
func NTT(coeffs []Element, omega Element) ([]Element, error) {
	n := len(coeffs)
	if n == 0 || n&(n-1) != 0 {
		return nil, fmt.Errorf("NTT size %d is not a power of two", n)
	}
	out := make([]Element, n)
	copy(out, coeffs)
	if n == 1 {
		return out, nil
	}

	// bit-reversal permutation
	logN := bits.TrailingZeros(uint(n))
	for i := 0; i < n; i++ {
		j := int(bits.Reverse32(uint32(i)) >> (32 - logN))
		if i < j {
			out[i], out[j] = out[j], out[i]
		}
	}

	// iterative Cooley-Tukey butterflies
	for size := 2; size <= n; size <<= 1 {
		w := omega.Exp(uint64(n / size))
		for start := 0; start < n; start += size {
			twiddle := One()
			half := size / 2
			for k := 0; k < half; k++ {
				a := out[start+k]
				b := out[start+k+half].Mul(twiddle)
				out[start+k] = a.Add(b)
				out[start+k+half] = a.Sub(b)
				twiddle = twiddle.Mul(w)
			}
		}
	}
	return out, nil
}

// InverseNTT interpolates the coefficients of the polynomial taking the
// given values over the subgroup generated by omega.
func InverseNTT(evals []Element, omega Element) ([]Element, error) {
	n := len(evals)
	out, err := NTT(evals, omega.Inv())
	if err != nil {
		return nil, err
	}
	nInv := New(uint64(n)).Inv()
	for i := range out {
		out[i] = out[i].Mul(nInv)
	}
	return out, nil
}

// InterpolateSubgroup returns the coefficients of the unique polynomial of
// degree < len(evals) taking the given values over the canonical subgroup
// of that order.
func InterpolateSubgroup(evals []Element) ([]Element, error) {
	omega, err := RootOfUnity(uint64(len(evals)))
	if err != nil {
		return nil, err
	}
	return InverseNTT(evals, omega)
}

// EvaluateCoset evaluates the polynomial over the coset shift*<omega_size>,
// where size >= len(coeffs) is a power of two. Returns the size evaluations
// in natural coset order.
func EvaluateCoset(coeffs []Element, shift Element, size int) ([]Element, error) {
	if size < len(coeffs) {
		return nil, fmt.Errorf("coset size %d smaller than coefficient count %d", size, len(coeffs))
	}
	omega, err := RootOfUnity(uint64(size))
	if err != nil {
		return nil, err
	}
	shifted := make([]Element, size)
	power := One()
	for i, c := range coeffs {
		shifted[i] = c.Mul(power)
		power = power.Mul(shift)
	}
	return NTT(shifted, omega)
}

// EvalPolynomial evaluates the polynomial at a single point using Horner's rule
func EvalPolynomial(coeffs []Element, x Element) Element {
	result := Zero()
	for i := len(coeffs) - 1; i >= 0; i-- {
		result = result.Mul(x).Add(coeffs[i])
	}
	return result
}
