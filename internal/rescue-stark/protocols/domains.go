package protocols

import (
	"fmt"

	"github.com/zkforge/rescue-stark/internal/rescue-stark/core"
	"github.com/zkforge/rescue-stark/internal/rescue-stark/utils"
)

// Domains holds the two evaluation domains of the protocol: the trace
// domain, a multiplicative subgroup of order N, and the evaluation domain,
// a coset of a subgroup of order blowup*N shifted by the field generator.
// The shift keeps the evaluation domain disjoint from the trace domain, so
// the constraint denominators never vanish on it.
type Domains struct {
	traceLength    int
	traceGenerator core.Element

	ldeSize      int
	ldeGenerator core.Element
	cosetOffset  core.Element
}

// NewDomains derives both domains from the trace length and blowup factor
func NewDomains(traceLength, blowupFactor int) (*Domains, error) {
	if !utils.IsPowerOfTwo(traceLength) {
		return nil, fmt.Errorf("trace length %d is not a power of two", traceLength)
	}
	traceGen, err := core.RootOfUnity(uint64(traceLength))
	if err != nil {
		return nil, fmt.Errorf("trace domain: %w", err)
	}
	ldeSize := traceLength * blowupFactor
	ldeGen, err := core.RootOfUnity(uint64(ldeSize))
	if err != nil {
		return nil, fmt.Errorf("evaluation domain: %w", err)
	}
	return &Domains{
		traceLength:    traceLength,
		traceGenerator: traceGen,
		ldeSize:        ldeSize,
		ldeGenerator:   ldeGen,
		cosetOffset:    core.MultiplicativeGenerator(),
	}, nil
}

// TraceLength returns the trace domain size
func (d *Domains) TraceLength() int { return d.traceLength }

// TraceGenerator returns the generator of the trace domain
func (d *Domains) TraceGenerator() core.Element { return d.traceGenerator }

// LDESize returns the evaluation domain size
func (d *Domains) LDESize() int { return d.ldeSize }

// LDEGenerator returns the generator of the subgroup underlying the
// evaluation coset
func (d *Domains) LDEGenerator() core.Element { return d.ldeGenerator }

// CosetOffset returns the multiplicative shift of the evaluation domain
func (d *Domains) CosetOffset() core.Element { return d.cosetOffset }

// LDEPoint returns the i-th point of the evaluation domain
func (d *Domains) LDEPoint(i int) core.Element {
	return d.cosetOffset.Mul(d.ldeGenerator.Exp(uint64(i)))
}
