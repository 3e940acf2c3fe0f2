package protocols

import (
	"fmt"

	"github.com/zkforge/rescue-stark/internal/rescue-stark/air"
	"github.com/zkforge/rescue-stark/internal/rescue-stark/core"
	"github.com/zkforge/rescue-stark/internal/rescue-stark/rescue"
	"github.com/zkforge/rescue-stark/internal/rescue-stark/utils"
)

// Prover produces STARK proofs for Rescue chain statements
type Prover struct {
	params STARKParameters
}

// NewProver creates a prover with the given parameters
func NewProver(params STARKParameters) (*Prover, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid parameters: %w", err)
	}
	return &Prover{params: params}, nil
}

// Prove generates a proof that the witness hashes to the statement's output.
// The proof is non-interactive: every challenge is drawn from a transcript
// channel seeded with the statement, so Verify can replay it.
func (p *Prover) Prove(statement *Statement, witness rescue.Witness) (*Proof, error) {
	if statement == nil {
		return nil, fmt.Errorf("statement is nil")
	}
	if err := statement.Validate(); err != nil {
		return nil, fmt.Errorf("invalid statement: %w", err)
	}

	// an inconsistent witness would only surface as a verification failure
	// much later, so reject it up front
	derived, err := air.PublicInputFromPrivateInput(witness)
	if err != nil {
		return nil, fmt.Errorf("invalid witness: %w", err)
	}
	for i := 0; i < rescue.WordSize; i++ {
		if !derived[i].Equal(statement.Output[i]) {
			return nil, fmt.Errorf("witness does not hash to the claimed output")
		}
	}

	a, err := air.NewRescueAir(statement.Output, statement.ChainLength)
	if err != nil {
		return nil, err
	}
	trace, err := a.GetTrace(witness)
	if err != nil {
		return nil, err
	}
	domains, err := NewDomains(a.TraceLength(), p.params.BlowupFactor)
	if err != nil {
		return nil, err
	}
	ldeSize := domains.LDESize()
	numColumns := trace.NumColumns()

	// low-degree extension of every trace column onto the evaluation coset
	ldeColumns := make([][]core.Element, numColumns)
	for c := 0; c < numColumns; c++ {
		coeffs, err := core.InterpolateSubgroup(trace.Column(c))
		if err != nil {
			return nil, fmt.Errorf("column %d interpolation: %w", c, err)
		}
		evals, err := core.EvaluateCoset(coeffs, domains.CosetOffset(), ldeSize)
		if err != nil {
			return nil, fmt.Errorf("column %d extension: %w", c, err)
		}
		ldeColumns[c] = evals
	}

	// commit to the extension row-wise so one opening reveals a full row
	leaves := make([][]byte, ldeSize)
	row := make([]core.Element, numColumns)
	for i := 0; i < ldeSize; i++ {
		for c := 0; c < numColumns; c++ {
			row[c] = ldeColumns[c][i]
		}
		leaves[i] = rowLeaf(row)
	}
	traceTree, err := core.NewMerkleTree(leaves)
	if err != nil {
		return nil, fmt.Errorf("trace commitment: %w", err)
	}

	channel := utils.NewChannel(statement.Bytes())
	channel.SendDigest(traceTree.Root())

	randomCoefficients := make([]core.ExtElement, a.NumRandomCoefficients())
	for i := range randomCoefficients {
		randomCoefficients[i] = channel.ReceiveRandomExtElement()
	}
	cp, err := air.CreateCompositionPolynomial(a, domains.TraceGenerator(), randomCoefficients)
	if err != nil {
		return nil, err
	}

	// one trace step along the coset spans blowup consecutive LDE indices
	traceStep := p.params.BlowupFactor
	compEvals := make([]core.ExtElement, ldeSize)
	neighbors := make([]core.Element, 2*numColumns)
	x := domains.CosetOffset()
	for i := 0; i < ldeSize; i++ {
		for c := 0; c < numColumns; c++ {
			neighbors[c] = ldeColumns[c][i]
			neighbors[numColumns+c] = ldeColumns[c][(i+traceStep)%ldeSize]
		}
		compEvals[i] = cp.EvalAt(x, neighbors)
		x = x.Mul(domains.LDEGenerator())
	}

	fri, err := friCommit(channel, compEvals, domains.CosetOffset(), cp.DegreeBound())
	if err != nil {
		return nil, err
	}

	queries := make([]QueryProof, 0, p.params.NumQueries)
	for q := 0; q < p.params.NumQueries; q++ {
		idx, err := channel.ReceiveRandomIndex(ldeSize)
		if err != nil {
			return nil, err
		}
		qp, err := p.openQuery(idx, traceStep, ldeColumns, traceTree, fri)
		if err != nil {
			return nil, fmt.Errorf("query %d: %w", q, err)
		}
		queries = append(queries, qp)
	}

	return &Proof{
		TraceRoot:     traceTree.Root(),
		FRIRoots:      fri.roots(),
		FRIFinalValue: fri.finalValue,
		Queries:       queries,
	}, nil
}

// openQuery decommits the trace rows and FRI layers at one query index
func (p *Prover) openQuery(idx, traceStep int, ldeColumns [][]core.Element,
	traceTree *core.MerkleTree, fri *friCommitment) (QueryProof, error) {

	ldeSize := len(ldeColumns[0])
	nextIdx := (idx + traceStep) % ldeSize

	curRow := make([]core.Element, len(ldeColumns))
	nextRow := make([]core.Element, len(ldeColumns))
	for c := range ldeColumns {
		curRow[c] = ldeColumns[c][idx]
		nextRow[c] = ldeColumns[c][nextIdx]
	}

	curPath, err := traceTree.Proof(idx)
	if err != nil {
		return QueryProof{}, err
	}
	nextPath, err := traceTree.Proof(nextIdx)
	if err != nil {
		return QueryProof{}, err
	}
	layers, err := fri.open(idx)
	if err != nil {
		return QueryProof{}, err
	}

	return QueryProof{
		Index:    idx,
		CurRow:   curRow,
		NextRow:  nextRow,
		CurPath:  curPath,
		NextPath: nextPath,
		Layers:   layers,
	}, nil
}
