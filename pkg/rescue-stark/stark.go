package rescuestark

import (
	"crypto/rand"
	"encoding/binary"

	"github.com/zkforge/rescue-stark/internal/rescue-stark/core"
	"github.com/zkforge/rescue-stark/internal/rescue-stark/protocols"
	"github.com/zkforge/rescue-stark/internal/rescue-stark/rescue"
)

// HashesPerBatch is the chaining granularity: chain lengths must be
// positive multiples of this value
const HashesPerBatch = rescue.HashesPerBatch

// Hash computes one Rescue hash of two words
func Hash(left, right Word) Word {
	return rescue.HashWords(left, right)
}

// StatementFromWitness derives the public statement a witness satisfies
func StatementFromWitness(witness Witness) (*Statement, error) {
	statement, err := protocols.StatementFromWitness(witness)
	if err != nil {
		return nil, &Error{
			Code:    ErrInvalidWitness,
			Message: "cannot derive statement",
			Cause:   err,
		}
	}
	return statement, nil
}

// Prove generates a proof that the witness hashes to the statement's output
func Prove(params Parameters, statement *Statement, witness Witness) (*Proof, error) {
	prover, err := protocols.NewProver(params)
	if err != nil {
		return nil, &Error{
			Code:    ErrInvalidParameters,
			Message: "cannot create prover",
			Cause:   err,
		}
	}
	proof, err := prover.Prove(statement, witness)
	if err != nil {
		return nil, &Error{
			Code:    ErrProofGeneration,
			Message: "proof generation failed",
			Cause:   err,
		}
	}
	return proof, nil
}

// Verify checks a proof against a statement. A nil error means the proof
// is accepted.
func Verify(params Parameters, statement *Statement, proof *Proof) error {
	verifier, err := protocols.NewVerifier(params)
	if err != nil {
		return &Error{
			Code:    ErrInvalidParameters,
			Message: "cannot create verifier",
			Cause:   err,
		}
	}
	if err := verifier.Verify(statement, proof); err != nil {
		return &Error{
			Code:    ErrProofVerification,
			Message: "proof rejected",
			Cause:   err,
		}
	}
	return nil
}

// RandomWitness draws a uniformly random witness for the given chain
// length, which must be a positive multiple of HashesPerBatch
func RandomWitness(chainLength int) (Witness, error) {
	if chainLength <= 0 || chainLength%HashesPerBatch != 0 {
		return nil, &Error{
			Code:    ErrInvalidWitness,
			Message: "chain length must be a positive multiple of 3",
		}
	}
	witness := make(Witness, chainLength+1)
	for i := range witness {
		for j := range witness[i] {
			e, err := randomElement()
			if err != nil {
				return nil, &Error{
					Code:    ErrUnknown,
					Message: "randomness source failed",
					Cause:   err,
				}
			}
			witness[i][j] = e
		}
	}
	return witness, nil
}

// randomElement draws a uniform field element from crypto/rand,
// rejection-sampled to stay unbiased
func randomElement() (FieldElement, error) {
	bound := (^uint64(0) / core.Modulus) * core.Modulus
	var buf [8]byte
	for {
		if _, err := rand.Read(buf[:]); err != nil {
			return core.Zero(), err
		}
		v := binary.BigEndian.Uint64(buf[:])
		if v < bound {
			return core.New(v), nil
		}
	}
}
