package rescuestark

import (
	"github.com/zkforge/rescue-stark/internal/rescue-stark/core"
	"github.com/zkforge/rescue-stark/internal/rescue-stark/protocols"
	"github.com/zkforge/rescue-stark/internal/rescue-stark/rescue"
)

// FieldElement represents an element of the 61-bit prime field
// This is the public type for field elements used throughout rescue-stark
type FieldElement = core.Element

// Digest represents a Blake2s-160 commitment digest
type Digest = core.Digest

// Word represents one hash input or output: four field elements
type Word = rescue.Word

// Witness represents the private chain input: chainLength+1 words
type Witness = rescue.Witness

// Statement represents the public input: output word and chain length
type Statement = protocols.Statement

// Proof represents a zkSTARK proof for one statement
type Proof = protocols.Proof

// Parameters represents the protocol configuration shared by prover
// and verifier
type Parameters = protocols.STARKParameters

// NewWord builds a word from four canonical field values
func NewWord(a, b, c, d uint64) Word {
	return Word{core.New(a), core.New(b), core.New(c), core.New(d)}
}

// DefaultParameters returns protocol parameters suitable for testing and
// examples
func DefaultParameters() Parameters {
	return protocols.DefaultSTARKParameters()
}
