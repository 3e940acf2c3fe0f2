package protocols

import (
	"fmt"

	"github.com/zkforge/rescue-stark/internal/rescue-stark/air"
	"github.com/zkforge/rescue-stark/internal/rescue-stark/core"
	"github.com/zkforge/rescue-stark/internal/rescue-stark/utils"
)

// Verifier checks STARK proofs for Rescue chain statements. It must be
// configured with the same parameters the prover used.
type Verifier struct {
	params STARKParameters
}

// NewVerifier creates a verifier with the given parameters
func NewVerifier(params STARKParameters) (*Verifier, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid parameters: %w", err)
	}
	return &Verifier{params: params}, nil
}

// Verify checks a proof against a statement. It replays the Fiat-Shamir
// transcript to recover every challenge, recomputes the composition
// polynomial at each query from the opened trace rows, and walks each query
// down the FRI folding chain. A nil error means the proof is accepted.
func (v *Verifier) Verify(statement *Statement, proof *Proof) error {
	if statement == nil || proof == nil {
		return fmt.Errorf("statement and proof must be non-nil")
	}
	if err := statement.Validate(); err != nil {
		return fmt.Errorf("invalid statement: %w", err)
	}

	a, err := air.NewRescueAir(statement.Output, statement.ChainLength)
	if err != nil {
		return err
	}
	domains, err := NewDomains(a.TraceLength(), v.params.BlowupFactor)
	if err != nil {
		return err
	}
	ldeSize := domains.LDESize()
	numColumns := a.NumColumns()
	traceStep := v.params.BlowupFactor

	numLayers := utils.Log2(a.GetCompositionPolynomialDegreeBound())
	if len(proof.FRIRoots) != numLayers {
		return fmt.Errorf("proof has %d FRI layers, statement needs %d",
			len(proof.FRIRoots), numLayers)
	}
	if len(proof.Queries) != v.params.NumQueries {
		return fmt.Errorf("proof has %d queries, parameters require %d",
			len(proof.Queries), v.params.NumQueries)
	}

	// transcript replay: same absorb order as the prover
	channel := utils.NewChannel(statement.Bytes())
	channel.SendDigest(proof.TraceRoot)

	randomCoefficients := make([]core.ExtElement, a.NumRandomCoefficients())
	for i := range randomCoefficients {
		randomCoefficients[i] = channel.ReceiveRandomExtElement()
	}
	cp, err := air.CreateCompositionPolynomial(a, domains.TraceGenerator(), randomCoefficients)
	if err != nil {
		return err
	}

	betas := make([]core.ExtElement, numLayers)
	for l, root := range proof.FRIRoots {
		channel.SendDigest(root)
		betas[l] = channel.ReceiveRandomExtElement()
	}
	final := proof.FRIFinalValue.Bytes()
	channel.Send(final[:])

	for q, query := range proof.Queries {
		idx, err := channel.ReceiveRandomIndex(ldeSize)
		if err != nil {
			return err
		}
		if query.Index != idx {
			return fmt.Errorf("query %d: proof opens index %d, transcript requires %d",
				q, query.Index, idx)
		}
		if err := v.verifyQuery(query, proof, cp, domains, traceStep, numColumns, betas); err != nil {
			return fmt.Errorf("query %d: %w", q, err)
		}
	}
	return nil
}

// verifyQuery checks one decommitment: trace openings, the recomputed
// composition value, and the FRI folding chain
func (v *Verifier) verifyQuery(query QueryProof, proof *Proof, cp *air.CompositionPolynomial,
	domains *Domains, traceStep, numColumns int, betas []core.ExtElement) error {

	if len(query.CurRow) != numColumns || len(query.NextRow) != numColumns {
		return fmt.Errorf("trace opening has wrong width")
	}

	idx := query.Index
	ldeSize := domains.LDESize()
	nextIdx := (idx + traceStep) % ldeSize

	if !core.VerifyMerkleProof(proof.TraceRoot, idx, rowLeaf(query.CurRow), query.CurPath) {
		return fmt.Errorf("invalid trace opening at index %d", idx)
	}
	if !core.VerifyMerkleProof(proof.TraceRoot, nextIdx, rowLeaf(query.NextRow), query.NextPath) {
		return fmt.Errorf("invalid trace opening at index %d", nextIdx)
	}

	neighbors := make([]core.Element, 0, 2*numColumns)
	neighbors = append(neighbors, query.CurRow...)
	neighbors = append(neighbors, query.NextRow...)
	composition := cp.EvalAt(domains.LDEPoint(idx), neighbors)

	omega, err := core.RootOfUnity(uint64(ldeSize))
	if err != nil {
		return err
	}
	return verifyFRIQuery(proof.FRIRoots, betas, proof.FRIFinalValue, query.Layers,
		idx, ldeSize, domains.CosetOffset(), omega, composition)
}
