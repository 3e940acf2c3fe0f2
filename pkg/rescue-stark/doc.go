// Package rescuestark provides a zkSTARK proof system for Rescue hash chains.
//
// A Rescue hash chain folds a sequence of words through the sponge-based
// Rescue permutation: the first hash consumes the first two witness words,
// every later hash consumes the running output and one more word. The prover
// demonstrates knowledge of a witness whose chain evaluates to a public
// output, without revealing the witness.
//
// # Features
//
// - Complete STARK prover and verifier for Rescue chain statements
// - Rescue permutation over the 61-bit STARK-friendly prime field
// - Algebraic intermediate representation with 52 constraints
// - FRI low-degree testing over a quadratic extension field
// - Blake2s-160 Merkle commitments and a SHA3 Fiat-Shamir channel
//
// # Quick Start
//
// Proving knowledge of a witness:
//
//	params := rescuestark.DefaultParameters()
//	witness, err := rescuestark.RandomWitness(3)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	statement, err := rescuestark.StatementFromWitness(witness)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	proof, err := rescuestark.Prove(params, statement, witness)
//	if err != nil {
//		log.Fatal(err)
//	}
//
// Verifying a proof:
//
//	if err := rescuestark.Verify(params, statement, proof); err != nil {
//		log.Fatal("proof rejected:", err)
//	}
//
// # Architecture
//
// The repository uses a hybrid public/private architecture:
//
// - pkg/rescue-stark/: Public API (this package)
// - internal/rescue-stark/: Private implementation (not importable)
//
// The internal packages split along protocol layers: core holds field,
// polynomial and Merkle primitives, rescue the permutation, air the
// arithmetization, and protocols the prover and verifier.
//
// # References
//
// - STARK Paper: https://eprint.iacr.org/2018/046
// - Rescue Paper: https://eprint.iacr.org/2019/426
// - FRI Paper: https://eccc.weizmann.ac.il/report/2017/134/
//
// # License
//
// See LICENSE file in the repository root.
package rescuestark
