package air

import (
	"fmt"

	"github.com/zkforge/rescue-stark/internal/rescue-stark/core"
)

// CompositionPolynomial wires an AIR's constraint evaluator, periodic
// columns and random coefficients into a single evaluator the backend can
// query at arbitrary points. It is immutable after construction and safe
// for concurrent evaluation.
type CompositionPolynomial struct {
	air            AIR
	traceGenerator core.Element
	coefficients   []core.ExtElement
	periodic       []*PeriodicColumn
	exponents      []uint64
	shifts         []core.Element
}

// CreateCompositionPolynomial binds an AIR to a trace-domain generator and
// one batch of verifier randomness
func CreateCompositionPolynomial(
	a AIR,
	traceGenerator core.Element,
	randomCoefficients []core.ExtElement,
) (*CompositionPolynomial, error) {
	if len(randomCoefficients) != a.NumRandomCoefficients() {
		return nil, fmt.Errorf("got %d random coefficients, AIR needs %d",
			len(randomCoefficients), a.NumRandomCoefficients())
	}
	if !traceGenerator.Exp(uint64(a.TraceLength())).Equal(core.One()) {
		return nil, fmt.Errorf("trace generator order does not divide trace length %d", a.TraceLength())
	}
	periodic, err := a.BuildPeriodicColumns()
	if err != nil {
		return nil, fmt.Errorf("building periodic columns: %w", err)
	}

	return &CompositionPolynomial{
		air:            a,
		traceGenerator: traceGenerator,
		coefficients:   append([]core.ExtElement(nil), randomCoefficients...),
		periodic:       periodic,
		exponents:      a.PointPowerExponents(),
		shifts:         a.SelectorShifts(traceGenerator),
	}, nil
}

// DegreeBound returns the composition polynomial degree bound
func (cp *CompositionPolynomial) DegreeBound() int {
	return cp.air.GetCompositionPolynomialDegreeBound()
}

// EvalAt evaluates the composition polynomial at one point, given the trace
// cell values the AIR's mask dereferences at that point.
func (cp *CompositionPolynomial) EvalAt(x core.Element, neighbors []core.Element) core.ExtElement {
	pointPowers := make([]core.Element, len(cp.exponents))
	for i, e := range cp.exponents {
		pointPowers[i] = x.Exp(e)
	}

	n := uint64(cp.air.TraceLength())
	periodicValues := make([]core.Element, len(cp.periodic))
	// periodic columns share periods; raise x once per distinct period
	raised := make(map[int]core.Element, 1)
	for i, col := range cp.periodic {
		y, ok := raised[col.Period()]
		if !ok {
			y = x.Exp(n / uint64(col.Period()))
			raised[col.Period()] = y
		}
		periodicValues[i] = col.EvalAt(y)
	}

	return cp.air.ConstraintsEval(neighbors, periodicValues, cp.coefficients, pointPowers, cp.shifts)
}
