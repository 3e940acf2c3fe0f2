// Package air contains the arithmetization of the Rescue hash chain claim:
// the mapping from a private witness to an execution trace, the polynomial
// constraint system over that trace, and the contract a generic STARK
// backend needs to build and test the composition polynomial.
package air

import (
	"github.com/zkforge/rescue-stark/internal/rescue-stark/core"
)

// MaskEntry is one (row offset, column) pair a constraint system reads
type MaskEntry struct {
	RowOffset int
	Column    int
}

// AIR is the contract between one arithmetization and the generic proof
// system backend. Implementations are pure after construction: every method
// is safe to call concurrently.
type AIR interface {
	// TraceLength returns the padded power-of-two trace height
	TraceLength() int

	// NumColumns returns the trace width
	NumColumns() int

	// NumRandomCoefficients returns how many extension-field coefficients
	// ConstraintsEval consumes (two per constraint)
	NumRandomCoefficients() int

	// GetCompositionPolynomialDegreeBound returns the degree bound the
	// composition polynomial must stay below
	GetCompositionPolynomialDegreeBound() int

	// GetMask returns the exact (row offset, column) pairs ConstraintsEval
	// dereferences, in the order it expects them in neighbors
	GetMask() []MaskEntry

	// BuildPeriodicColumns returns the witness-independent periodic columns
	// the constraint system consumes
	BuildPeriodicColumns() ([]*PeriodicColumn, error)

	// PointPowerExponents returns the exponents d such that ConstraintsEval
	// expects pointPowers[i] = x^d[i]; d[0] is always 1
	PointPowerExponents() []uint64

	// SelectorShifts returns the constants ConstraintsEval needs to build
	// its domain selectors, derived from the trace-domain generator
	SelectorShifts(traceGenerator core.Element) []core.Element

	// ConstraintsEval returns the random linear combination of every
	// constraint's residual at one point. It is a pure arithmetic
	// reduction with no failure mode; mismatched slice lengths are caller
	// programming errors and panic.
	ConstraintsEval(
		neighbors []core.Element,
		periodicValues []core.Element,
		randomCoefficients []core.ExtElement,
		pointPowers []core.Element,
		shifts []core.Element,
	) core.ExtElement
}
