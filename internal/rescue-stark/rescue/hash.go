package rescue

import "fmt"

// SeedState assembles the initial state of one hash invocation: the two
// input words in the rate slots and zeroed capacity slots.
func SeedState(left, right Word) StateVector {
	var s StateVector
	copy(s[:WordSize], left[:])
	copy(s[WordSize:RateSize], right[:])
	// capacity lanes stay zero
	return s
}

// MidStates applies the full permutation to seed and returns the state in
// the middle of every round together with the final state.
//
// Round r maps h through two half-rounds:
//
//	u     = M * cubeRoot(h) + C_inv[r]
//	h'    = M * cube(u)     + C_fwd[r]
//
// The mid-round states u are what the execution trace stores, so that both
// sides of every row transition are degree-3 in the trace cells.
func MidStates(seed StateVector) ([NumRounds]StateVector, StateVector) {
	var mids [NumRounds]StateVector
	h := seed
	for r := 0; r < NumRounds; r++ {
		u := matVec(mds, h.BatchedCubeRoot()).Add(inverseConstants[r])
		mids[r] = u
		h = matVec(mds, u.Cube()).Add(forwardConstants[r])
	}
	return mids, h
}

// HashWords hashes two words into one
func HashWords(left, right Word) Word {
	_, final := MidStates(SeedState(left, right))
	return final.Output()
}

// ChainOutput folds a word sequence through the hash chain:
// H(...H(H(w_0, w_1), w_2)..., w_n). At least two words are required.
func ChainOutput(words []Word) (Word, error) {
	if len(words) < 2 {
		return Word{}, fmt.Errorf("hash chain needs at least 2 words, got %d", len(words))
	}
	out := HashWords(words[0], words[1])
	for _, w := range words[2:] {
		out = HashWords(out, w)
	}
	return out, nil
}
