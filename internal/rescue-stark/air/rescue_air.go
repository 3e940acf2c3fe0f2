package air

import (
	"fmt"

	"github.com/zkforge/rescue-stark/internal/rescue-stark/core"
	"github.com/zkforge/rescue-stark/internal/rescue-stark/rescue"
	"github.com/zkforge/rescue-stark/internal/rescue-stark/utils"
)

// NumConstraints is the number of algebraic constraints of the Rescue chain
// AIR: 12 seed-row transitions, 12 mid-round transitions, 12 closing-row
// transitions, 4+4 chaining-boundary constraints, 4 batch-carry constraints
// and 4 public-output constraints.
const NumConstraints = 52

// numPeriodicColumns is the 12 forward plus 12 inverse round-constant streams
const numPeriodicColumns = 2 * rescue.StateSize

// maxChainLength keeps the padded trace within the 2-adicity of the field:
// chain/3 batches of 32 rows must not exceed 2^TwoAdicity rows
const maxChainLength = (1 << (core.TwoAdicity - 5)) * rescue.HashesPerBatch

// RescueAir arithmetizes the claim "I know words w_0..w_n whose Rescue hash
// chain evaluates to output", with n = chainLength hash invocations. The
// instance is immutable after construction and safe for concurrent use.
type RescueAir struct {
	output      rescue.Word
	chainLength uint64
	traceLength int
}

// NewRescueAir builds an AIR instance for one public statement. The chain
// length must be a positive multiple of the batch size; the derived trace
// length is fixed here and never recomputed.
func NewRescueAir(output rescue.Word, chainLength uint64) (*RescueAir, error) {
	if chainLength == 0 || chainLength%rescue.HashesPerBatch != 0 {
		return nil, fmt.Errorf("chain length %d is not a positive multiple of %d",
			chainLength, rescue.HashesPerBatch)
	}
	if chainLength > maxChainLength {
		return nil, fmt.Errorf("chain length %d exceeds the supported maximum %d",
			chainLength, uint64(maxChainLength))
	}

	batches, err := utils.SafeDiv(chainLength, rescue.HashesPerBatch)
	if err != nil {
		return nil, err
	}
	minRows := int(batches) * rescue.BatchHeight
	traceLength := utils.NextPowerOfTwo(minRows)
	if traceLength < minRows {
		return nil, fmt.Errorf("data coset too small: trace length %d below %d required rows",
			traceLength, minRows)
	}

	return &RescueAir{
		output:      output,
		chainLength: chainLength,
		traceLength: traceLength,
	}, nil
}

// Output returns the public output word of the statement
func (a *RescueAir) Output() rescue.Word {
	return a.output
}

// ChainLength returns the number of hash invocations in the statement
func (a *RescueAir) ChainLength() uint64 {
	return a.chainLength
}

// TraceLength returns the padded power-of-two trace height
func (a *RescueAir) TraceLength() int {
	return a.traceLength
}

// NumColumns returns the trace width, one column per state lane
func (a *RescueAir) NumColumns() int {
	return rescue.StateSize
}

// NumRandomCoefficients returns two coefficients per constraint: one for the
// raw quotient and one for its degree adjustment
func (a *RescueAir) NumRandomCoefficients() int {
	return 2 * NumConstraints
}

// GetCompositionPolynomialDegreeBound returns four times the trace length
func (a *RescueAir) GetCompositionPolynomialDegreeBound() int {
	return 4 * a.traceLength
}

// numRealRows is the height of the non-padding prefix of the trace
func (a *RescueAir) numRealRows() int {
	return int(a.chainLength/rescue.HashesPerBatch) * rescue.BatchHeight
}

// GetMask returns the 24 (row offset, column) pairs the evaluator reads: the
// full current row followed by the full next row.
func (a *RescueAir) GetMask() []MaskEntry {
	mask := make([]MaskEntry, 0, 2*rescue.StateSize)
	for offset := 0; offset <= 1; offset++ {
		for col := 0; col < rescue.StateSize; col++ {
			mask = append(mask, MaskEntry{RowOffset: offset, Column: col})
		}
	}
	return mask
}

// GetTrace expands a witness into the execution trace. The witness must hold
// exactly chainLength+1 words: the first hash consumes two, every later hash
// consumes the running output and one more. Rows past the last real batch
// keep running the chain with zero injection words, so every adjacent row
// pair in the padded trace satisfies the same transition constraints.
func (a *RescueAir) GetTrace(witness rescue.Witness) (*Trace, error) {
	if uint64(len(witness)) != a.chainLength+1 {
		return nil, fmt.Errorf("witness holds %d words, statement needs %d",
			len(witness), a.chainLength+1)
	}

	wordAt := func(i int) rescue.Word {
		if i < len(witness) {
			return witness[i]
		}
		return rescue.Word{} // zero injection for padding batches
	}

	rows := make([]rescue.StateVector, 0, a.traceLength)
	numBatches := a.traceLength / rescue.BatchHeight
	next := 0
	var carry rescue.Word

	for b := 0; b < numBatches; b++ {
		var seed rescue.StateVector
		if b == 0 {
			seed = rescue.SeedState(wordAt(0), wordAt(1))
			next = 2
		} else {
			seed = rescue.SeedState(carry, wordAt(next))
			next++
		}
		rows = append(rows, seed)

		for h := 0; h < rescue.HashesPerBatch; h++ {
			mids, final := rescue.MidStates(seed)
			rows = append(rows, mids[:]...)
			if h < rescue.HashesPerBatch-1 {
				seed = rescue.SeedState(final.Output(), wordAt(next))
				next++
			} else {
				rows = append(rows, final)
				carry = final.Output()
			}
		}
	}

	return NewTrace(rows)
}

// PublicInputFromPrivateInput folds a witness through the chaining rule and
// returns the public output word, without materializing a trace. The result
// agrees with the first four slots of the last real row of GetTrace.
func PublicInputFromPrivateInput(witness rescue.Witness) (rescue.Word, error) {
	if len(witness) < 2 || (len(witness)-1)%rescue.HashesPerBatch != 0 {
		return rescue.Word{}, fmt.Errorf(
			"witness holds %d words, want a whole number of %d-hash batches plus the leading word",
			len(witness), rescue.HashesPerBatch)
	}
	return rescue.ChainOutput(witness)
}

// BuildPeriodicColumns returns the 24 round-constant streams with period
// BatchHeight: the 12 forward columns carry the cubing-layer schedule and
// the 12 inverse columns carry the MDS-inverse-shifted cube-root-layer
// schedule, each aligned so the value at row k is the constant the
// transition leaving row k consumes.
func (a *RescueAir) BuildPeriodicColumns() ([]*PeriodicColumn, error) {
	columns := make([]*PeriodicColumn, 0, numPeriodicColumns)

	for lane := 0; lane < rescue.StateSize; lane++ {
		values := make([]core.Element, rescue.BatchHeight)
		for s := 0; s < rescue.BatchHeight; s++ {
			constants, err := rescue.RoundConstants((s+rescue.NumRounds-1)%rescue.NumRounds, rescue.LayerForward)
			if err != nil {
				return nil, err
			}
			values[s] = constants[lane]
		}
		col, err := NewPeriodicColumn(values)
		if err != nil {
			return nil, err
		}
		columns = append(columns, col)
	}

	for lane := 0; lane < rescue.StateSize; lane++ {
		values := make([]core.Element, rescue.BatchHeight)
		for s := 0; s < rescue.BatchHeight; s++ {
			constants, err := rescue.ShiftedInverseConstants(s % rescue.NumRounds)
			if err != nil {
				return nil, err
			}
			values[s] = constants[lane]
		}
		col, err := NewPeriodicColumn(values)
		if err != nil {
			return nil, err
		}
		columns = append(columns, col)
	}

	return columns, nil
}

// Degree-adjustment exponents, one per constraint group. Each quotient is
// multiplied by coefficients[2i] + coefficients[2i+1] * x^a where a lifts
// the quotient degree to one below the composition degree bound.
func (a *RescueAir) adjustmentExponents() (first, mid, chain, wrap, out uint64) {
	n := uint64(a.traceLength)
	step := n / rescue.BatchHeight
	first = n + step + 2
	mid = 2*n - 5*step + 2
	chain = n + 2*step + 2
	wrap = 3*n + step - 1
	out = 3*n + 1
	return
}

// PointPowerExponents lists the powers of the evaluation point the
// evaluator consumes: x itself, x^(N/32) for the batch-position selectors,
// x^N for the full-domain vanishing polynomial, and the five
// degree-adjustment powers.
func (a *RescueAir) PointPowerExponents() []uint64 {
	n := uint64(a.traceLength)
	first, mid, chain, wrap, out := a.adjustmentExponents()
	return []uint64{1, n / rescue.BatchHeight, n, first, mid, chain, wrap, out}
}

// SelectorShifts returns the domain-selector constants: gamma_c = g^(c*N/32)
// for batch slots 0, 10, 20, 30 and 31, then g^(N-1) (the excluded cyclic
// row pair) and g^(L-1) (the last real row, carrying the public output).
func (a *RescueAir) SelectorShifts(traceGenerator core.Element) []core.Element {
	step := uint64(a.traceLength / rescue.BatchHeight)
	return []core.Element{
		traceGenerator.Exp(0 * step),
		traceGenerator.Exp(10 * step),
		traceGenerator.Exp(20 * step),
		traceGenerator.Exp(30 * step),
		traceGenerator.Exp(31 * step),
		traceGenerator.Exp(uint64(a.traceLength - 1)),
		traceGenerator.Exp(uint64(a.numRealRows() - 1)),
	}
}

// ConstraintsEval computes the random linear combination of all 52
// constraint quotients at one point. neighbors holds the 24 mask values in
// mask order, periodicValues the 12 forward then 12 inverse round-constant
// streams, pointPowers the powers listed by PointPowerExponents and shifts
// the constants from SelectorShifts. The reduction is pure; a residual that
// fails to vanish surfaces in the backend's low-degree test, never here.
func (a *RescueAir) ConstraintsEval(
	neighbors []core.Element,
	periodicValues []core.Element,
	randomCoefficients []core.ExtElement,
	pointPowers []core.Element,
	shifts []core.Element,
) core.ExtElement {
	if len(neighbors) != 2*rescue.StateSize {
		panic(fmt.Sprintf("air: got %d neighbors, mask has %d", len(neighbors), 2*rescue.StateSize))
	}
	if len(periodicValues) != numPeriodicColumns {
		panic(fmt.Sprintf("air: got %d periodic values, want %d", len(periodicValues), numPeriodicColumns))
	}
	if len(randomCoefficients) != 2*NumConstraints {
		panic(fmt.Sprintf("air: got %d random coefficients, want %d", len(randomCoefficients), 2*NumConstraints))
	}
	if len(pointPowers) != len(a.PointPowerExponents()) {
		panic(fmt.Sprintf("air: got %d point powers, want %d", len(pointPowers), len(a.PointPowerExponents())))
	}
	if len(shifts) != 7 {
		panic(fmt.Sprintf("air: got %d selector shifts, want 7", len(shifts)))
	}

	cur := neighbors[:rescue.StateSize]
	next := neighbors[rescue.StateSize:]
	perFwd := periodicValues[:rescue.StateSize]
	perInv := periodicValues[rescue.StateSize:]

	x := pointPowers[0]
	y := pointPowers[1]  // x^(N/32)
	xN := pointPowers[2] // x^N
	adjFirst, adjMid, adjChain, adjWrap, adjOut :=
		pointPowers[3], pointPowers[4], pointPowers[5], pointPowers[6], pointPowers[7]

	// Lane values the constraint groups share: tVals is the cube of the
	// un-diffused next row minus the inverse-layer schedule (the state the
	// next mid-row was derived from), rVals is the forward half-round
	// applied to the current row.
	var curCubes [rescue.StateSize]core.Element
	for j := range curCubes {
		curCubes[j] = cur[j].Cube()
	}
	var tVals, rVals [rescue.StateSize]core.Element
	for i := 0; i < rescue.StateSize; i++ {
		invRow := rescue.MDSInverseRow(i)
		acc := core.Zero()
		for j := 0; j < rescue.StateSize; j++ {
			acc = acc.Add(invRow[j].Mul(next[j]))
		}
		tVals[i] = acc.Sub(perInv[i]).Cube()

		fwdRow := rescue.MDSRow(i)
		acc = core.Zero()
		for j := 0; j < rescue.StateSize; j++ {
			acc = acc.Add(fwdRow[j].Mul(curCubes[j]))
		}
		rVals[i] = acc.Add(perFwd[i])
	}

	gamma0, gamma10, gamma20, gamma30, gamma31 := shifts[0], shifts[1], shifts[2], shifts[3], shifts[4]
	lastRow, lastRealRow := shifts[5], shifts[6]

	// Domain selectors. Transition groups divide by the vanishing
	// polynomial of the batch slots they act on; the mid group instead
	// divides by the whole domain and multiplies back the five excluded
	// slots; the wrap group excludes the cyclic last-to-first row pair.
	selFirst := y.Sub(gamma0).Inv()
	selMid := y.Sub(gamma0).Mul(y.Sub(gamma10)).Mul(y.Sub(gamma20)).
		Mul(y.Sub(gamma30)).Mul(y.Sub(gamma31)).Mul(xN.Sub(core.One()).Inv())
	selLast := y.Sub(gamma30).Inv()
	selChain := y.Sub(gamma10).Mul(y.Sub(gamma20)).Inv()
	selWrap := x.Sub(lastRow).Mul(y.Sub(gamma31).Inv())
	selOut := x.Sub(lastRealRow).Inv()

	sum := core.ExtZero()
	constraint := 0
	accumulate := func(quotient, adjustment core.Element) {
		term := randomCoefficients[2*constraint].
			Add(randomCoefficients[2*constraint+1].MulBase(adjustment)).
			MulBase(quotient)
		sum = sum.Add(term)
		constraint++
	}

	// seed rows: the state entering the hash equals the stored seed on the
	// rate lanes and is pinned to zero on the capacity lanes
	for i := 0; i < rescue.StateSize; i++ {
		res := tVals[i]
		if i < rescue.RateSize {
			res = res.Sub(cur[i])
		}
		accumulate(res.Mul(selFirst), adjFirst)
	}

	// mid-round transitions
	for i := 0; i < rescue.StateSize; i++ {
		accumulate(tVals[i].Sub(rVals[i]).Mul(selMid), adjMid)
	}

	// closing rows: the stored end state is the forward half-round of the
	// last mid row
	for i := 0; i < rescue.StateSize; i++ {
		accumulate(next[i].Sub(rVals[i]).Mul(selLast), adjFirst)
	}

	// chaining boundaries: the finished hash's output feeds the next seed
	// on the output lanes while the capacity restarts at zero; the witness
	// injection lanes stay free
	for i := 0; i < rescue.WordSize; i++ {
		accumulate(tVals[i].Sub(rVals[i]).Mul(selChain), adjChain)
	}
	for i := rescue.RateSize; i < rescue.StateSize; i++ {
		accumulate(tVals[i].Mul(selChain), adjChain)
	}

	// batch boundaries: the closed batch's output carries into the next
	// stored seed
	for i := 0; i < rescue.WordSize; i++ {
		accumulate(next[i].Sub(cur[i]).Mul(selWrap), adjWrap)
	}

	// public output on the last real row
	for i := 0; i < rescue.WordSize; i++ {
		accumulate(cur[i].Sub(a.output[i]).Mul(selOut), adjOut)
	}

	return sum
}
