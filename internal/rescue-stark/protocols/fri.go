package protocols

import (
	"fmt"

	"github.com/zkforge/rescue-stark/internal/rescue-stark/core"
	"github.com/zkforge/rescue-stark/internal/rescue-stark/utils"
)

// friLayer holds one committed FRI layer: the evaluations over its coset
// and the Merkle tree over them
type friLayer struct {
	evals []core.ExtElement
	tree  *core.MerkleTree
}

// friCommitment is the output of the FRI commit phase. Layer zero holds the
// composition polynomial evaluations; each following layer halves the domain
// until the folded polynomial is a constant.
type friCommitment struct {
	layers     []friLayer
	finalValue core.ExtElement
}

// friCommit runs the FRI commit phase over the given evaluations. The domain
// is the coset offset*<omega> of size len(evals); degreeBound is the claimed
// strict degree bound, so log2(degreeBound) folds reduce it to a constant.
// Every layer root is absorbed into the channel before the folding challenge
// for that layer is drawn, and the final constant is absorbed last.
func friCommit(channel *utils.Channel, evals []core.ExtElement, offset core.Element, degreeBound int) (*friCommitment, error) {
	if !utils.IsPowerOfTwo(len(evals)) {
		return nil, fmt.Errorf("FRI domain size %d is not a power of two", len(evals))
	}
	if !utils.IsPowerOfTwo(degreeBound) || degreeBound >= len(evals) {
		return nil, fmt.Errorf("degree bound %d incompatible with domain size %d",
			degreeBound, len(evals))
	}

	omega, err := core.RootOfUnity(uint64(len(evals)))
	if err != nil {
		return nil, err
	}
	numLayers := utils.Log2(degreeBound)

	commitment := &friCommitment{layers: make([]friLayer, 0, numLayers)}
	current := evals
	curOffset := offset
	curOmega := omega

	for l := 0; l < numLayers; l++ {
		tree, err := core.NewMerkleTree(extLeaves(current))
		if err != nil {
			return nil, fmt.Errorf("FRI layer %d commitment: %w", l, err)
		}
		commitment.layers = append(commitment.layers, friLayer{evals: current, tree: tree})
		channel.SendDigest(tree.Root())

		beta := channel.ReceiveRandomExtElement()
		current = foldLayer(current, beta, curOffset, curOmega)
		curOffset = curOffset.Square()
		curOmega = curOmega.Square()
	}

	// current is now a constant polynomial over the remaining coset
	commitment.finalValue = current[0]
	final := commitment.finalValue.Bytes()
	channel.Send(final[:])

	return commitment, nil
}

// foldLayer applies one degree-halving fold with challenge beta. Entry i of
// the result combines the evaluations at x_i and -x_i, which sit at indices
// i and i+half of the input.
func foldLayer(evals []core.ExtElement, beta core.ExtElement, offset, omega core.Element) []core.ExtElement {
	half := len(evals) / 2
	twoInv := core.New(2).Inv()

	folded := make([]core.ExtElement, half)
	x := offset
	for i := 0; i < half; i++ {
		even := evals[i].Add(evals[i+half]).MulBase(twoInv)
		odd := evals[i].Sub(evals[i+half]).MulBase(twoInv.Mul(x.Inv()))
		folded[i] = even.Add(beta.Mul(odd))
		x = x.Mul(omega)
	}
	return folded
}

// roots lists the layer commitments in folding order
func (c *friCommitment) roots() []core.Digest {
	roots := make([]core.Digest, len(c.layers))
	for i, layer := range c.layers {
		roots[i] = layer.tree.Root()
	}
	return roots
}

// FRILayerOpening decommits one FRI layer at a query: the evaluations at
// x and -x with their authentication paths. Low is the value at index
// i < half, High the value at i+half.
type FRILayerOpening struct {
	Low      core.ExtElement
	High     core.ExtElement
	LowPath  []core.Digest
	HighPath []core.Digest
}

// open decommits every layer along the folding path of the given query index
func (c *friCommitment) open(index int) ([]FRILayerOpening, error) {
	openings := make([]FRILayerOpening, 0, len(c.layers))
	idx := index
	for l, layer := range c.layers {
		half := len(layer.evals) / 2
		i := idx % half

		lowPath, err := layer.tree.Proof(i)
		if err != nil {
			return nil, fmt.Errorf("FRI layer %d opening: %w", l, err)
		}
		highPath, err := layer.tree.Proof(i + half)
		if err != nil {
			return nil, fmt.Errorf("FRI layer %d opening: %w", l, err)
		}
		openings = append(openings, FRILayerOpening{
			Low:      layer.evals[i],
			High:     layer.evals[i+half],
			LowPath:  lowPath,
			HighPath: highPath,
		})
		idx = i
	}
	return openings, nil
}

// verifyFRIQuery walks one query down the folding chain: at each layer it
// checks both openings against the committed root, checks the value the
// previous layer folds into, and folds onward with that layer's challenge.
// firstValue is the composition evaluation the verifier recomputed at the
// query index.
func verifyFRIQuery(roots []core.Digest, betas []core.ExtElement, finalValue core.ExtElement,
	openings []FRILayerOpening, index, domainSize int, offset, omega core.Element,
	firstValue core.ExtElement) error {

	if len(openings) != len(roots) || len(betas) != len(roots) {
		return fmt.Errorf("malformed FRI query: %d openings, %d roots, %d challenges",
			len(openings), len(roots), len(betas))
	}

	expected := firstValue
	idx := index
	size := domainSize
	curOffset := offset
	curOmega := omega

	for l, opening := range openings {
		half := size / 2
		i := idx % half

		lowLeaf := opening.Low.Bytes()
		if !core.VerifyMerkleProof(roots[l], i, lowLeaf[:], opening.LowPath) {
			return fmt.Errorf("FRI layer %d: invalid authentication path at index %d", l, i)
		}
		highLeaf := opening.High.Bytes()
		if !core.VerifyMerkleProof(roots[l], i+half, highLeaf[:], opening.HighPath) {
			return fmt.Errorf("FRI layer %d: invalid authentication path at index %d", l, i+half)
		}

		value := opening.Low
		if idx >= half {
			value = opening.High
		}
		if !value.Equal(expected) {
			return fmt.Errorf("FRI layer %d: folded value mismatch at index %d", l, idx)
		}

		// x at position i of this layer's coset
		x := curOffset.Mul(curOmega.Exp(uint64(i)))
		twoInv := core.New(2).Inv()
		even := opening.Low.Add(opening.High).MulBase(twoInv)
		odd := opening.Low.Sub(opening.High).MulBase(twoInv.Mul(x.Inv()))
		expected = even.Add(betas[l].Mul(odd))

		idx = i
		size = half
		curOffset = curOffset.Square()
		curOmega = curOmega.Square()
	}

	if !expected.Equal(finalValue) {
		return fmt.Errorf("FRI final value mismatch at query index %d", index)
	}
	return nil
}

// extLeaves serializes extension field evaluations into Merkle leaves
func extLeaves(evals []core.ExtElement) [][]byte {
	leaves := make([][]byte, len(evals))
	for i, e := range evals {
		b := e.Bytes()
		leaves[i] = b[:]
	}
	return leaves
}
