package air

import (
	"fmt"

	"github.com/zkforge/rescue-stark/internal/rescue-stark/core"
	"github.com/zkforge/rescue-stark/internal/rescue-stark/utils"
)

// PeriodicColumn is a virtual trace column whose value is a fixed repeating
// function of the row index, independent of the witness. Over a trace of
// length N it is the polynomial q(x^(N/period)) where q interpolates the
// period values over the subgroup of that order.
type PeriodicColumn struct {
	values []core.Element
	coeffs []core.Element
}

// NewPeriodicColumn builds a periodic column from one period of values.
// The period must be a power of two so the column stays a polynomial over
// every power-of-two trace domain.
func NewPeriodicColumn(values []core.Element) (*PeriodicColumn, error) {
	if !utils.IsPowerOfTwo(len(values)) {
		return nil, fmt.Errorf("periodic column period %d is not a power of two", len(values))
	}
	coeffs, err := core.InterpolateSubgroup(values)
	if err != nil {
		return nil, fmt.Errorf("interpolating periodic column: %w", err)
	}
	return &PeriodicColumn{
		values: append([]core.Element(nil), values...),
		coeffs: coeffs,
	}, nil
}

// Period returns the number of rows after which the column repeats
func (pc *PeriodicColumn) Period() int {
	return len(pc.values)
}

// ValueAtRow returns the column value at a trace row
func (pc *PeriodicColumn) ValueAtRow(row int) core.Element {
	if row < 0 {
		row = row%len(pc.values) + len(pc.values)
	}
	return pc.values[row%len(pc.values)]
}

// EvalAt evaluates the column polynomial at y = x^(N/period), the point the
// caller has already raised to the quotient of trace length and period
func (pc *PeriodicColumn) EvalAt(y core.Element) core.Element {
	return core.EvalPolynomial(pc.coeffs, y)
}
