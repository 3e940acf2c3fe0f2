package protocols

import (
	"github.com/zkforge/rescue-stark/internal/rescue-stark/core"
	"github.com/zkforge/rescue-stark/internal/rescue-stark/rescue"
)

// Proof is a complete STARK proof for one statement. It carries the trace
// commitment, the FRI layer commitments and final constant, and one
// decommitment per query.
type Proof struct {
	// TraceRoot commits to the low-degree extension of the trace
	TraceRoot core.Digest

	// FRIRoots commits to the composition evaluations (layer zero) and
	// every folded layer
	FRIRoots []core.Digest

	// FRIFinalValue is the constant the last fold reduces to
	FRIFinalValue core.ExtElement

	// Queries holds the random decommitment queries in transcript order
	Queries []QueryProof
}

// QueryProof decommits everything the verifier needs at one query index:
// the trace row at the index and at the next trace step, plus one opening
// per FRI layer.
type QueryProof struct {
	// Index is the queried position in the evaluation domain
	Index int

	// CurRow and NextRow are full trace rows at Index and at the position
	// one trace step further along the coset
	CurRow   []core.Element
	NextRow  []core.Element
	CurPath  []core.Digest
	NextPath []core.Digest

	// Layers opens each FRI layer along the folding path of Index
	Layers []FRILayerOpening
}

// Size returns the approximate serialized proof size in bytes
func (p *Proof) Size() int {
	size := core.DigestSize + len(p.FRIRoots)*core.DigestSize + 16
	for _, q := range p.Queries {
		size += 8
		size += 8 * (len(q.CurRow) + len(q.NextRow))
		size += core.DigestSize * (len(q.CurPath) + len(q.NextPath))
		for _, l := range q.Layers {
			size += 32
			size += core.DigestSize * (len(l.LowPath) + len(l.HighPath))
		}
	}
	return size
}

// rowLeaf serializes one trace row into a Merkle leaf, lane values
// big-endian in column order
func rowLeaf(row []core.Element) []byte {
	leaf := make([]byte, 0, 8*rescue.StateSize)
	for _, e := range row {
		b := e.Bytes()
		leaf = append(leaf, b[:]...)
	}
	return leaf
}
