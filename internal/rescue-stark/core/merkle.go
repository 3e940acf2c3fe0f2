package core

import (
	"bytes"
	"fmt"

	"golang.org/x/crypto/blake2s"
)

// DigestSize is the commitment digest size in bytes (Blake2s truncated to 160 bits)
const DigestSize = 20

// Digest is a Blake2s-160 commitment digest
type Digest [DigestSize]byte

// DigestFromBytes builds a digest from raw bytes. A buffer of the wrong
// length is a fatal input-validation error at this boundary.
func DigestFromBytes(b []byte) (Digest, error) {
	var d Digest
	if len(b) != DigestSize {
		return d, fmt.Errorf("digest must be exactly %d bytes, got %d", DigestSize, len(b))
	}
	copy(d[:], b)
	return d, nil
}

// Bytes returns the digest as a byte slice
func (d Digest) Bytes() []byte {
	return d[:]
}

// String returns the hex representation of the digest
func (d Digest) String() string {
	return fmt.Sprintf("%x", d[:])
}

// hashBytes computes the Blake2s-160 hash of data
func hashBytes(data []byte) Digest {
	full := blake2s.Sum256(data)
	var d Digest
	copy(d[:], full[:DigestSize])
	return d
}

// hashPair computes the hash of two sibling digests
func hashPair(left, right Digest) Digest {
	var buf [2 * DigestSize]byte
	copy(buf[:DigestSize], left[:])
	copy(buf[DigestSize:], right[:])
	return hashBytes(buf[:])
}

// MerkleTree commits to a sequence of byte leaves with Blake2s-160
type MerkleTree struct {
	root   Digest
	levels [][]Digest
}

// NewMerkleTree builds a Merkle tree over the given leaves
func NewMerkleTree(leaves [][]byte) (*MerkleTree, error) {
	if len(leaves) == 0 {
		return nil, fmt.Errorf("cannot build a Merkle tree with no leaves")
	}

	level := make([]Digest, len(leaves))
	for i, leaf := range leaves {
		level[i] = hashBytes(leaf)
	}

	levels := [][]Digest{level}
	for len(level) > 1 {
		next := make([]Digest, 0, (len(level)+1)/2)
		for i := 0; i < len(level); i += 2 {
			if i+1 < len(level) {
				next = append(next, hashPair(level[i], level[i+1]))
			} else {
				// odd node is paired with itself
				next = append(next, hashPair(level[i], level[i]))
			}
		}
		levels = append(levels, next)
		level = next
	}

	return &MerkleTree{root: level[0], levels: levels}, nil
}

// Root returns the Merkle root
func (mt *MerkleTree) Root() Digest {
	return mt.root
}

// NumLeaves returns the number of committed leaves
func (mt *MerkleTree) NumLeaves() int {
	return len(mt.levels[0])
}

// Proof returns the authentication path for the leaf at the given index
func (mt *MerkleTree) Proof(index int) ([]Digest, error) {
	if index < 0 || index >= mt.NumLeaves() {
		return nil, fmt.Errorf("leaf index %d out of range [0, %d)", index, mt.NumLeaves())
	}

	path := make([]Digest, 0, len(mt.levels)-1)
	for _, level := range mt.levels[:len(mt.levels)-1] {
		sibling := index ^ 1
		if sibling >= len(level) {
			sibling = index
		}
		path = append(path, level[sibling])
		index /= 2
	}
	return path, nil
}

// VerifyMerkleProof checks an authentication path against a root
func VerifyMerkleProof(root Digest, index int, leaf []byte, path []Digest) bool {
	if index < 0 {
		return false
	}
	node := hashBytes(leaf)
	for _, sibling := range path {
		if index%2 == 0 {
			node = hashPair(node, sibling)
		} else {
			node = hashPair(sibling, node)
		}
		index /= 2
	}
	return bytes.Equal(node[:], root[:])
}
