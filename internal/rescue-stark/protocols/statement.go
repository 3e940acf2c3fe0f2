package protocols

import (
	"encoding/binary"
	"fmt"

	"github.com/zkforge/rescue-stark/internal/rescue-stark/air"
	"github.com/zkforge/rescue-stark/internal/rescue-stark/rescue"
)

// Statement is the public input of the Rescue chain claim: the chain output
// and the number of hash invocations. A corresponding Proof attests that the
// prover knows a witness hashing to the output.
type Statement struct {
	// Output is the result of the last hash in the chain
	Output rescue.Word

	// ChainLength is the number of hash invocations
	ChainLength uint64
}

// NewStatement creates a statement from its two public components
func NewStatement(output rescue.Word, chainLength uint64) *Statement {
	return &Statement{Output: output, ChainLength: chainLength}
}

// StatementFromWitness derives the statement a witness satisfies, folding
// the witness through the chain without building a trace
func StatementFromWitness(witness rescue.Witness) (*Statement, error) {
	output, err := air.PublicInputFromPrivateInput(witness)
	if err != nil {
		return nil, err
	}
	return NewStatement(output, uint64(len(witness)-1)), nil
}

// Validate checks that the statement is well-formed
func (s *Statement) Validate() error {
	if s.ChainLength == 0 || s.ChainLength%rescue.HashesPerBatch != 0 {
		return fmt.Errorf("chain length %d is not a positive multiple of %d",
			s.ChainLength, rescue.HashesPerBatch)
	}
	return nil
}

// Bytes returns the canonical encoding of the statement, the seed of the
// Fiat-Shamir transcript: the four output elements then the chain length,
// all big-endian.
func (s *Statement) Bytes() []byte {
	out := make([]byte, 0, 8*rescue.WordSize+8)
	for _, e := range s.Output {
		b := e.Bytes()
		out = append(out, b[:]...)
	}
	out = binary.BigEndian.AppendUint64(out, s.ChainLength)
	return out
}
