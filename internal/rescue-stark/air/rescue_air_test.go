package air

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zkforge/rescue-stark/internal/rescue-stark/core"
	"github.com/zkforge/rescue-stark/internal/rescue-stark/rescue"
	"github.com/zkforge/rescue-stark/internal/rescue-stark/utils"
)

func testWord(a, b, c, d uint64) rescue.Word {
	return rescue.Word{core.New(a), core.New(b), core.New(c), core.New(d)}
}

// testWitness builds a deterministic witness of chainLength+1 words
func testWitness(chainLength int) rescue.Witness {
	witness := make(rescue.Witness, chainLength+1)
	for i := range witness {
		base := uint64(4*i + 1)
		witness[i] = testWord(base, base+1, base+2, base+3)
	}
	return witness
}

func testAir(t *testing.T, chainLength int) (*RescueAir, rescue.Witness) {
	t.Helper()
	witness := testWitness(chainLength)
	output, err := PublicInputFromPrivateInput(witness)
	require.NoError(t, err)
	a, err := NewRescueAir(output, uint64(chainLength))
	require.NoError(t, err)
	return a, witness
}

func TestNewRescueAir(t *testing.T) {
	t.Run("RejectsZeroChain", func(t *testing.T) {
		_, err := NewRescueAir(rescue.Word{}, 0)
		require.Error(t, err)
	})

	t.Run("RejectsNonMultipleOfBatch", func(t *testing.T) {
		for _, n := range []uint64{1, 2, 4, 7} {
			_, err := NewRescueAir(rescue.Word{}, n)
			require.Error(t, err, "chain length %d", n)
		}
	})

	t.Run("RejectsExcessiveChain", func(t *testing.T) {
		_, err := NewRescueAir(rescue.Word{}, maxChainLength+rescue.HashesPerBatch)
		require.Error(t, err)
	})

	t.Run("TraceLengthIsPadded", func(t *testing.T) {
		cases := []struct {
			chainLength uint64
			traceLength int
		}{
			{3, 32},
			{6, 64},
			{9, 128},
			{12, 128},
			{15, 256},
		}
		for _, tc := range cases {
			a, err := NewRescueAir(rescue.Word{}, tc.chainLength)
			require.NoError(t, err)
			require.Equal(t, tc.traceLength, a.TraceLength(),
				"chain length %d", tc.chainLength)
		}
	})
}

func TestRescueAirShape(t *testing.T) {
	a, _ := testAir(t, 3)

	require.Equal(t, rescue.StateSize, a.NumColumns())
	require.Equal(t, 2*NumConstraints, a.NumRandomCoefficients())
	require.Equal(t, 4*a.TraceLength(), a.GetCompositionPolynomialDegreeBound())

	mask := a.GetMask()
	require.Len(t, mask, 2*rescue.StateSize)
	for i, entry := range mask {
		require.Equal(t, i/rescue.StateSize, entry.RowOffset, "mask entry %d", i)
		require.Equal(t, i%rescue.StateSize, entry.Column, "mask entry %d", i)
	}
}

func TestGetTrace(t *testing.T) {
	t.Run("RejectsWrongWitnessLength", func(t *testing.T) {
		a, witness := testAir(t, 3)
		_, err := a.GetTrace(witness[:3])
		require.Error(t, err)
		_, err = a.GetTrace(append(witness, rescue.Word{}))
		require.Error(t, err)
	})

	t.Run("SeedRowHoldsFirstTwoWords", func(t *testing.T) {
		a, witness := testAir(t, 3)
		trace, err := a.GetTrace(witness)
		require.NoError(t, err)

		row := trace.Row(0)
		for i := 0; i < rescue.WordSize; i++ {
			require.True(t, row[i].Equal(witness[0][i]), "lane %d", i)
			require.True(t, row[rescue.WordSize+i].Equal(witness[1][i]), "lane %d", i)
		}
		for i := rescue.RateSize; i < rescue.StateSize; i++ {
			require.True(t, row[i].IsZero(), "capacity lane %d", i)
		}
	})

	t.Run("RowsReplayThePermutation", func(t *testing.T) {
		a, witness := testAir(t, 3)
		trace, err := a.GetTrace(witness)
		require.NoError(t, err)

		// only the batch seed is stored; rows 10h+1..10h+10 hold the mid
		// states of hash h, whose seed for h > 0 exists virtually between
		// rows and is rebuilt here from the previous output and witness[next]
		seed := rescue.SeedState(witness[0], witness[1])
		require.Equal(t, seed, trace.Row(0), "seed row")
		next := 2
		for h := 0; h < rescue.HashesPerBatch; h++ {
			mids, final := rescue.MidStates(seed)
			for r := 0; r < rescue.NumRounds; r++ {
				require.Equal(t, mids[r], trace.Row(10*h+r+1), "hash %d round %d", h, r)
			}
			if h < rescue.HashesPerBatch-1 {
				seed = rescue.SeedState(final.Output(), witness[next])
				next++
			} else {
				require.Equal(t, final, trace.Row(rescue.BatchHeight-1), "closing row")
			}
		}
	})

	t.Run("LastRealRowCarriesTheOutput", func(t *testing.T) {
		for _, chainLength := range []int{3, 6, 9} {
			a, witness := testAir(t, chainLength)
			trace, err := a.GetTrace(witness)
			require.NoError(t, err)

			lastReal := (chainLength / rescue.HashesPerBatch) * rescue.BatchHeight
			row := trace.Row(lastReal - 1)
			for i := 0; i < rescue.WordSize; i++ {
				require.True(t, row[i].Equal(a.Output()[i]),
					"chain %d lane %d", chainLength, i)
			}
		}
	})

	t.Run("BatchCarryFeedsTheNextSeed", func(t *testing.T) {
		a, witness := testAir(t, 6)
		trace, err := a.GetTrace(witness)
		require.NoError(t, err)

		closing := trace.Row(rescue.BatchHeight - 1)
		seed := trace.Row(rescue.BatchHeight)
		for i := 0; i < rescue.WordSize; i++ {
			require.True(t, seed[i].Equal(closing[i]), "carry lane %d", i)
			require.True(t, seed[rescue.WordSize+i].Equal(witness[4][i]),
				"injection lane %d", i)
		}
	})

	t.Run("PaddingContinuesWithZeroWords", func(t *testing.T) {
		a, witness := testAir(t, 9)
		trace, err := a.GetTrace(witness)
		require.NoError(t, err)
		require.Equal(t, 128, trace.NumRows())

		// the padding batch seeds from the real carry and a zero word
		carry := trace.Row(95).Output()
		padSeed := trace.Row(96)
		require.Equal(t, rescue.SeedState(carry, rescue.Word{}), padSeed)

		// and keeps satisfying the permutation structure
		mids, _ := rescue.MidStates(padSeed)
		require.Equal(t, mids[0], trace.Row(97))
	})
}

func TestPublicInputFromPrivateInput(t *testing.T) {
	t.Run("MatchesChainOutput", func(t *testing.T) {
		witness := testWitness(3)
		output, err := PublicInputFromPrivateInput(witness)
		require.NoError(t, err)
		want, err := rescue.ChainOutput(witness)
		require.NoError(t, err)
		require.Equal(t, want, output)
	})

	t.Run("RejectsBadLengths", func(t *testing.T) {
		for _, n := range []int{0, 1, 2, 3, 5} {
			_, err := PublicInputFromPrivateInput(make(rescue.Witness, n))
			require.Error(t, err, "witness length %d", n)
		}
	})
}

func TestBuildPeriodicColumns(t *testing.T) {
	a, _ := testAir(t, 3)
	columns, err := a.BuildPeriodicColumns()
	require.NoError(t, err)
	require.Len(t, columns, 2*rescue.StateSize)

	for _, col := range columns {
		require.Equal(t, rescue.BatchHeight, col.Period())
	}

	t.Run("ForwardScheduleAlignment", func(t *testing.T) {
		// the transition leaving row k consumes the forward constants of
		// round (k+9) mod 10, so mid-row k=1 sees round 0
		constants, err := rescue.RoundConstants(0, rescue.LayerForward)
		require.NoError(t, err)
		for lane := 0; lane < rescue.StateSize; lane++ {
			require.True(t, columns[lane].ValueAtRow(1).Equal(constants[lane]),
				"lane %d", lane)
		}
	})

	t.Run("InverseScheduleAlignment", func(t *testing.T) {
		shifted, err := rescue.ShiftedInverseConstants(0)
		require.NoError(t, err)
		for lane := 0; lane < rescue.StateSize; lane++ {
			col := columns[rescue.StateSize+lane]
			require.True(t, col.ValueAtRow(0).Equal(shifted[lane]), "lane %d", lane)
		}
	})

	t.Run("InterpolantMatchesValues", func(t *testing.T) {
		omega, err := core.RootOfUnity(rescue.BatchHeight)
		require.NoError(t, err)
		col := columns[5]
		for k := 0; k < rescue.BatchHeight; k++ {
			y := omega.Exp(uint64(k))
			require.True(t, col.EvalAt(y).Equal(col.ValueAtRow(k)), "row %d", k)
		}
	})
}

func TestPointPowersAndShifts(t *testing.T) {
	a, _ := testAir(t, 3) // trace length 32, step 1

	exponents := a.PointPowerExponents()
	require.Equal(t, []uint64{1, 1, 32, 35, 61, 36, 96, 97}, exponents)

	g, err := core.RootOfUnity(uint64(a.TraceLength()))
	require.NoError(t, err)
	shifts := a.SelectorShifts(g)
	require.Len(t, shifts, 7)
	require.True(t, shifts[0].Equal(core.One()))
	require.True(t, shifts[3].Equal(g.Exp(30)))
	// with no padding the last real row is the last row
	require.True(t, shifts[6].Equal(g.Exp(31)))
}

func TestConstraintsEvalRejectsMalformedInput(t *testing.T) {
	a, _ := testAir(t, 3)
	neighbors := make([]core.Element, 2*rescue.StateSize)
	periodic := make([]core.Element, 2*rescue.StateSize)
	coefficients := make([]core.ExtElement, a.NumRandomCoefficients())
	powers := make([]core.Element, len(a.PointPowerExponents()))
	shifts := make([]core.Element, 7)

	require.Panics(t, func() {
		a.ConstraintsEval(neighbors[:5], periodic, coefficients, powers, shifts)
	})
	require.Panics(t, func() {
		a.ConstraintsEval(neighbors, periodic[:1], coefficients, powers, shifts)
	})
	require.Panics(t, func() {
		a.ConstraintsEval(neighbors, periodic, coefficients[:10], powers, shifts)
	})
	require.Panics(t, func() {
		a.ConstraintsEval(neighbors, periodic, coefficients, powers[:2], shifts)
	})
	require.Panics(t, func() {
		a.ConstraintsEval(neighbors, periodic, coefficients, powers, shifts[:3])
	})
}

// compositionEvaluations extends the trace onto a blowup-8 coset and
// evaluates the composition polynomial everywhere on it
func compositionEvaluations(t *testing.T, a *RescueAir, trace *Trace) []core.ExtElement {
	t.Helper()
	const blowup = 8
	n := a.TraceLength()
	m := blowup * n
	shift := core.MultiplicativeGenerator()

	ldeColumns := make([][]core.Element, trace.NumColumns())
	for c := range ldeColumns {
		coeffs, err := core.InterpolateSubgroup(trace.Column(c))
		require.NoError(t, err)
		evals, err := core.EvaluateCoset(coeffs, shift, m)
		require.NoError(t, err)
		ldeColumns[c] = evals
	}

	channel := utils.NewChannel([]byte("air-degree-test"))
	coefficients := make([]core.ExtElement, a.NumRandomCoefficients())
	for i := range coefficients {
		coefficients[i] = channel.ReceiveRandomExtElement()
	}
	g, err := core.RootOfUnity(uint64(n))
	require.NoError(t, err)
	cp, err := CreateCompositionPolynomial(a, g, coefficients)
	require.NoError(t, err)

	omega, err := core.RootOfUnity(uint64(m))
	require.NoError(t, err)
	evals := make([]core.ExtElement, m)
	neighbors := make([]core.Element, 2*trace.NumColumns())
	x := shift
	for i := 0; i < m; i++ {
		for c := range ldeColumns {
			neighbors[c] = ldeColumns[c][i]
			neighbors[trace.NumColumns()+c] = ldeColumns[c][(i+blowup)%m]
		}
		evals[i] = cp.EvalAt(x, neighbors)
		x = x.Mul(omega)
	}
	return evals
}

// maxCoefficientDegree interpolates one component of the composition over
// the coset and returns the index of its highest nonzero coefficient
func maxCoefficientDegree(t *testing.T, evals []core.Element) int {
	t.Helper()
	omega, err := core.RootOfUnity(uint64(len(evals)))
	require.NoError(t, err)
	// evaluations over shift*<omega> are evaluations of the shift-scaled
	// polynomial over <omega>, which has the same degree
	coeffs, err := core.InverseNTT(evals, omega)
	require.NoError(t, err)
	for i := len(coeffs) - 1; i >= 0; i-- {
		if !coeffs[i].IsZero() {
			return i
		}
	}
	return -1
}

func TestCompositionPolynomialDegree(t *testing.T) {
	for _, chainLength := range []int{3, 6} {
		a, witness := testAir(t, chainLength)
		trace, err := a.GetTrace(witness)
		require.NoError(t, err)

		evals := compositionEvaluations(t, a, trace)
		aPart := make([]core.Element, len(evals))
		bPart := make([]core.Element, len(evals))
		for i, e := range evals {
			aPart[i] = e.A
			bPart[i] = e.B
		}

		bound := a.GetCompositionPolynomialDegreeBound()
		require.Less(t, maxCoefficientDegree(t, aPart), bound,
			"chain %d: first component", chainLength)
		require.Less(t, maxCoefficientDegree(t, bPart), bound,
			"chain %d: second component", chainLength)
	}
}

func TestCompositionPolynomialDegreeDetectsBadTrace(t *testing.T) {
	a, witness := testAir(t, 3)
	trace, err := a.GetTrace(witness)
	require.NoError(t, err)

	// claim a wrong output: the output constraint no longer divides cleanly
	// and the composition escapes its degree bound
	wrongOutput := a.Output()
	wrongOutput[0] = wrongOutput[0].Add(core.One())
	bad, err := NewRescueAir(wrongOutput, a.ChainLength())
	require.NoError(t, err)

	evals := compositionEvaluations(t, bad, trace)
	aPart := make([]core.Element, len(evals))
	for i, e := range evals {
		aPart[i] = e.A
	}
	require.GreaterOrEqual(t, maxCoefficientDegree(t, aPart),
		bad.GetCompositionPolynomialDegreeBound())
}
