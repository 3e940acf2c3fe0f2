package protocols

import (
	"bytes"
	"testing"

	"github.com/zkforge/rescue-stark/internal/rescue-stark/core"
	"github.com/zkforge/rescue-stark/internal/rescue-stark/rescue"
)

func testWitness(chainLength int) rescue.Witness {
	witness := make(rescue.Witness, chainLength+1)
	for i := range witness {
		for j := range witness[i] {
			witness[i][j] = core.New(uint64(1000*i + j + 1))
		}
	}
	return witness
}

func TestStatementFromWitness(t *testing.T) {
	t.Run("DerivesChainOutput", func(t *testing.T) {
		witness := testWitness(3)
		statement, err := StatementFromWitness(witness)
		if err != nil {
			t.Fatal(err)
		}
		if statement.ChainLength != 3 {
			t.Errorf("chain length %d, expected 3", statement.ChainLength)
		}
		want, err := rescue.ChainOutput(witness)
		if err != nil {
			t.Fatal(err)
		}
		if statement.Output != want {
			t.Errorf("output %v, expected %v", statement.Output, want)
		}
	})

	t.Run("RejectsBadWitness", func(t *testing.T) {
		if _, err := StatementFromWitness(make(rescue.Witness, 3)); err == nil {
			t.Error("expected error for witness of 3 words")
		}
	})
}

func TestStatementValidate(t *testing.T) {
	good := NewStatement(rescue.Word{}, 6)
	if err := good.Validate(); err != nil {
		t.Errorf("valid statement rejected: %v", err)
	}
	for _, n := range []uint64{0, 1, 2, 4, 100} {
		bad := NewStatement(rescue.Word{}, n)
		if err := bad.Validate(); err == nil {
			t.Errorf("chain length %d accepted", n)
		}
	}
}

func TestStatementBytes(t *testing.T) {
	s := NewStatement(rescue.Word{core.New(1), core.New(2), core.New(3), core.New(4)}, 3)

	t.Run("FixedLength", func(t *testing.T) {
		if len(s.Bytes()) != 8*rescue.WordSize+8 {
			t.Errorf("encoding is %d bytes", len(s.Bytes()))
		}
	})

	t.Run("Deterministic", func(t *testing.T) {
		if !bytes.Equal(s.Bytes(), s.Bytes()) {
			t.Error("encoding is not deterministic")
		}
	})

	t.Run("BindsEveryField", func(t *testing.T) {
		other := NewStatement(s.Output, 6)
		if bytes.Equal(s.Bytes(), other.Bytes()) {
			t.Error("chain length not bound by the encoding")
		}
		changed := *s
		changed.Output[3] = core.New(5)
		if bytes.Equal(s.Bytes(), changed.Bytes()) {
			t.Error("output not bound by the encoding")
		}
	})
}
