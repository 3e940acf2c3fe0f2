package utils

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/sha3"

	"github.com/zkforge/rescue-stark/internal/rescue-stark/core"
)

// Channel is a Fiat-Shamir transcript channel. The prover sends commitments
// into it and draws verifier randomness out of it; the verifier replays the
// same sequence so both sides agree on every challenge.
type Channel struct {
	state      []byte
	transcript []string
}

// NewChannel creates a channel seeded with the given public data
func NewChannel(seed []byte) *Channel {
	c := &Channel{
		state:      []byte{0},
		transcript: make([]string, 0, 64),
	}
	c.Send(seed)
	return c
}

// Send absorbs prover data into the channel state
func (c *Channel) Send(data []byte) {
	c.transcript = append(c.transcript, fmt.Sprintf("send:%s", hex.EncodeToString(data)))
	c.state = c.hash(append(c.state, data...))
}

// SendDigest absorbs a commitment digest
func (c *Channel) SendDigest(d core.Digest) {
	c.Send(d.Bytes())
}

// squeeze advances the state and returns 8 fresh pseudo-random bytes
func (c *Channel) squeeze() uint64 {
	c.state = c.hash(c.state)
	return binary.BigEndian.Uint64(c.state[:8])
}

// ReceiveRandomElement draws a pseudo-random base field element
func (c *Channel) ReceiveRandomElement() core.Element {
	// rejection sampling keeps the draw unbiased
	bound := (^uint64(0) / core.Modulus) * core.Modulus
	for {
		v := c.squeeze()
		if v < bound {
			e := core.New(v)
			c.transcript = append(c.transcript, fmt.Sprintf("recvElement:%s", e))
			return e
		}
	}
}

// ReceiveRandomExtElement draws a pseudo-random extension field element
func (c *Channel) ReceiveRandomExtElement() core.ExtElement {
	a := c.ReceiveRandomElement()
	b := c.ReceiveRandomElement()
	return core.NewExt(a, b)
}

// ReceiveRandomIndex draws a pseudo-random index in [0, max)
func (c *Channel) ReceiveRandomIndex(max int) (int, error) {
	if max <= 0 {
		return 0, fmt.Errorf("index range must be positive, got %d", max)
	}
	// max is a power of two in practice (domain sizes), so masking would
	// do, but rejection sampling keeps this total for any range
	bound := (^uint64(0) / uint64(max)) * uint64(max)
	for {
		v := c.squeeze()
		if v < bound {
			idx := int(v % uint64(max))
			c.transcript = append(c.transcript, fmt.Sprintf("recvIndex:%d", idx))
			return idx, nil
		}
	}
}

// State returns a copy of the current channel state
func (c *Channel) State() []byte {
	return append([]byte(nil), c.state...)
}

// Transcript returns the interaction log
func (c *Channel) Transcript() []string {
	return append([]string(nil), c.transcript...)
}

// hash computes the SHA3-256 digest of data
func (c *Channel) hash(data []byte) []byte {
	h := sha3.Sum256(data)
	return h[:]
}

// String returns a readable representation of the transcript
func (c *Channel) String() string {
	return strings.Join(c.transcript, " ")
}
