// Package protocols implements the STARK proving and verification protocol
// for the Rescue hash chain: low-degree extension, trace commitment,
// composition polynomial sampling, FRI, and query decommitment.
package protocols

import (
	"fmt"

	"github.com/zkforge/rescue-stark/internal/rescue-stark/utils"
)

const (
	// DefaultBlowupFactor expands the trace domain eightfold, leaving a
	// 1/2 rate margin above the degree-4N composition bound
	DefaultBlowupFactor = 8

	// DefaultNumQueries is the number of FRI decommitment queries
	DefaultNumQueries = 40

	// minBlowupFactor is the smallest expansion that keeps the
	// composition polynomial, of degree under four trace lengths,
	// below the evaluation domain size
	minBlowupFactor = 8
)

// STARKParameters configures the proving protocol. The same parameters must
// be used by prover and verifier.
type STARKParameters struct {
	// BlowupFactor is the ratio between the evaluation domain and the
	// trace domain. Must be a power of two, at least 8.
	BlowupFactor int

	// NumQueries is the number of random decommitment queries
	NumQueries int
}

// DefaultSTARKParameters returns parameters suitable for testing and
// examples. Production deployments should size NumQueries to the target
// soundness level.
func DefaultSTARKParameters() STARKParameters {
	return STARKParameters{
		BlowupFactor: DefaultBlowupFactor,
		NumQueries:   DefaultNumQueries,
	}
}

// Validate checks that the parameters are usable
func (p STARKParameters) Validate() error {
	if !utils.IsPowerOfTwo(p.BlowupFactor) {
		return fmt.Errorf("blowup factor %d is not a power of two", p.BlowupFactor)
	}
	if p.BlowupFactor < minBlowupFactor {
		return fmt.Errorf("blowup factor %d is below the minimum %d",
			p.BlowupFactor, minBlowupFactor)
	}
	if p.NumQueries < 1 {
		return fmt.Errorf("number of queries must be positive, got %d", p.NumQueries)
	}
	return nil
}
