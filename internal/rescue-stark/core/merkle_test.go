package core

import (
	"fmt"
	"testing"
)

func testLeaves(n int) [][]byte {
	leaves := make([][]byte, n)
	for i := range leaves {
		leaves[i] = []byte(fmt.Sprintf("leaf-%d", i))
	}
	return leaves
}

func TestMerkleTree(t *testing.T) {
	t.Run("RejectsEmptyInput", func(t *testing.T) {
		if _, err := NewMerkleTree(nil); err == nil {
			t.Error("expected error for zero leaves")
		}
	})

	t.Run("RootIsDeterministic", func(t *testing.T) {
		a, err := NewMerkleTree(testLeaves(8))
		if err != nil {
			t.Fatal(err)
		}
		b, err := NewMerkleTree(testLeaves(8))
		if err != nil {
			t.Fatal(err)
		}
		if a.Root() != b.Root() {
			t.Error("identical leaves gave different roots")
		}
	})

	t.Run("RootDependsOnEveryLeaf", func(t *testing.T) {
		leaves := testLeaves(8)
		base, err := NewMerkleTree(leaves)
		if err != nil {
			t.Fatal(err)
		}
		for i := range leaves {
			modified := testLeaves(8)
			modified[i] = []byte("tampered")
			other, err := NewMerkleTree(modified)
			if err != nil {
				t.Fatal(err)
			}
			if base.Root() == other.Root() {
				t.Errorf("changing leaf %d left the root unchanged", i)
			}
		}
	})

	t.Run("ProofsVerify", func(t *testing.T) {
		for _, n := range []int{1, 2, 5, 8, 33} {
			leaves := testLeaves(n)
			tree, err := NewMerkleTree(leaves)
			if err != nil {
				t.Fatal(err)
			}
			for i := 0; i < n; i++ {
				path, err := tree.Proof(i)
				if err != nil {
					t.Fatalf("Proof(%d) with %d leaves: %v", i, n, err)
				}
				if !VerifyMerkleProof(tree.Root(), i, leaves[i], path) {
					t.Errorf("proof for leaf %d of %d rejected", i, n)
				}
			}
		}
	})

	t.Run("RejectsWrongLeaf", func(t *testing.T) {
		tree, err := NewMerkleTree(testLeaves(8))
		if err != nil {
			t.Fatal(err)
		}
		path, err := tree.Proof(3)
		if err != nil {
			t.Fatal(err)
		}
		if VerifyMerkleProof(tree.Root(), 3, []byte("forged"), path) {
			t.Error("forged leaf accepted")
		}
		if VerifyMerkleProof(tree.Root(), 4, []byte("leaf-3"), path) {
			t.Error("proof accepted at the wrong index")
		}
	})

	t.Run("ProofIndexOutOfRange", func(t *testing.T) {
		tree, err := NewMerkleTree(testLeaves(4))
		if err != nil {
			t.Fatal(err)
		}
		if _, err := tree.Proof(4); err == nil {
			t.Error("expected error for out-of-range index")
		}
		if _, err := tree.Proof(-1); err == nil {
			t.Error("expected error for negative index")
		}
	})
}

func TestDigestFromBytes(t *testing.T) {
	raw := make([]byte, DigestSize)
	raw[0] = 0xab
	d, err := DigestFromBytes(raw)
	if err != nil {
		t.Fatal(err)
	}
	if d[0] != 0xab {
		t.Error("digest content lost")
	}
	if _, err := DigestFromBytes(raw[:19]); err == nil {
		t.Error("expected error for short buffer")
	}
}
