package protocols

import (
	"testing"

	"github.com/zkforge/rescue-stark/internal/rescue-stark/core"
	"github.com/zkforge/rescue-stark/internal/rescue-stark/rescue"
)

func testParameters() STARKParameters {
	return STARKParameters{
		BlowupFactor: 8,
		NumQueries:   8,
	}
}

func proveTestChain(t *testing.T, chainLength int) (*Statement, *Proof, rescue.Witness) {
	t.Helper()
	witness := testWitness(chainLength)
	statement, err := StatementFromWitness(witness)
	if err != nil {
		t.Fatal(err)
	}
	prover, err := NewProver(testParameters())
	if err != nil {
		t.Fatal(err)
	}
	proof, err := prover.Prove(statement, witness)
	if err != nil {
		t.Fatal(err)
	}
	return statement, proof, witness
}

func TestSTARKParametersValidate(t *testing.T) {
	if err := DefaultSTARKParameters().Validate(); err != nil {
		t.Errorf("default parameters rejected: %v", err)
	}

	bad := []STARKParameters{
		{BlowupFactor: 0, NumQueries: 10},
		{BlowupFactor: 3, NumQueries: 10},
		{BlowupFactor: 4, NumQueries: 10}, // below the composition rate
		{BlowupFactor: 8, NumQueries: 0},
	}
	for _, params := range bad {
		if err := params.Validate(); err == nil {
			t.Errorf("parameters %+v accepted", params)
		}
	}
}

func TestProverCreation(t *testing.T) {
	if _, err := NewProver(testParameters()); err != nil {
		t.Fatalf("failed to create prover: %v", err)
	}
	if _, err := NewProver(STARKParameters{BlowupFactor: 3, NumQueries: 1}); err == nil {
		t.Error("expected error for invalid parameters")
	}
}

func TestProveAndVerify(t *testing.T) {
	for _, chainLength := range []int{3, 6} {
		statement, proof, _ := proveTestChain(t, chainLength)

		verifier, err := NewVerifier(testParameters())
		if err != nil {
			t.Fatal(err)
		}
		if err := verifier.Verify(statement, proof); err != nil {
			t.Errorf("chain %d: valid proof rejected: %v", chainLength, err)
		}
	}
}

func TestProveRejectsBadInput(t *testing.T) {
	prover, err := NewProver(testParameters())
	if err != nil {
		t.Fatal(err)
	}

	t.Run("NilStatement", func(t *testing.T) {
		if _, err := prover.Prove(nil, testWitness(3)); err == nil {
			t.Error("expected error for nil statement")
		}
	})

	t.Run("WitnessLengthMismatch", func(t *testing.T) {
		witness := testWitness(3)
		statement, err := StatementFromWitness(witness)
		if err != nil {
			t.Fatal(err)
		}
		statement.ChainLength = 6
		if _, err := prover.Prove(statement, witness); err == nil {
			t.Error("expected error for chain length mismatch")
		}
	})

	t.Run("InconsistentWitness", func(t *testing.T) {
		witness := testWitness(3)
		statement, err := StatementFromWitness(witness)
		if err != nil {
			t.Fatal(err)
		}
		witness[2][0] = witness[2][0].Add(core.One())
		if _, err := prover.Prove(statement, witness); err == nil {
			t.Error("expected error for witness not matching the output")
		}
	})
}

func TestVerifyRejectsTampering(t *testing.T) {
	statement, proof, _ := proveTestChain(t, 3)
	verifier, err := NewVerifier(testParameters())
	if err != nil {
		t.Fatal(err)
	}
	if err := verifier.Verify(statement, proof); err != nil {
		t.Fatalf("honest proof rejected: %v", err)
	}

	t.Run("WrongStatement", func(t *testing.T) {
		wrong := *statement
		wrong.Output[0] = wrong.Output[0].Add(core.One())
		if err := verifier.Verify(&wrong, proof); err == nil {
			t.Error("proof accepted for a different statement")
		}
	})

	t.Run("TamperedTraceRoot", func(t *testing.T) {
		tampered := *proof
		tampered.TraceRoot[0] ^= 0xff
		if err := verifier.Verify(statement, &tampered); err == nil {
			t.Error("tampered trace root accepted")
		}
	})

	t.Run("TamperedTraceOpening", func(t *testing.T) {
		tampered := *proof
		tampered.Queries = append([]QueryProof(nil), proof.Queries...)
		q := tampered.Queries[0]
		q.CurRow = append([]core.Element(nil), q.CurRow...)
		q.CurRow[0] = q.CurRow[0].Add(core.One())
		tampered.Queries[0] = q
		if err := verifier.Verify(statement, &tampered); err == nil {
			t.Error("tampered trace opening accepted")
		}
	})

	t.Run("TamperedFinalValue", func(t *testing.T) {
		tampered := *proof
		tampered.FRIFinalValue = proof.FRIFinalValue.Add(core.ExtOne())
		if err := verifier.Verify(statement, &tampered); err == nil {
			t.Error("tampered final value accepted")
		}
	})

	t.Run("TamperedQueryIndex", func(t *testing.T) {
		tampered := *proof
		tampered.Queries = append([]QueryProof(nil), proof.Queries...)
		tampered.Queries[0].Index = (tampered.Queries[0].Index + 1) % 256
		if err := verifier.Verify(statement, &tampered); err == nil {
			t.Error("shifted query index accepted")
		}
	})

	t.Run("TruncatedQueries", func(t *testing.T) {
		tampered := *proof
		tampered.Queries = proof.Queries[:len(proof.Queries)-1]
		if err := verifier.Verify(statement, &tampered); err == nil {
			t.Error("truncated proof accepted")
		}
	})

	t.Run("MismatchedParameters", func(t *testing.T) {
		other, err := NewVerifier(STARKParameters{BlowupFactor: 16, NumQueries: 8})
		if err != nil {
			t.Fatal(err)
		}
		if err := other.Verify(statement, proof); err == nil {
			t.Error("proof accepted under different parameters")
		}
	})
}

func TestProofSize(t *testing.T) {
	_, proof, _ := proveTestChain(t, 3)
	if proof.Size() <= 0 {
		t.Error("proof size not positive")
	}
	if len(proof.Queries) != testParameters().NumQueries {
		t.Errorf("proof has %d queries, expected %d",
			len(proof.Queries), testParameters().NumQueries)
	}
}
