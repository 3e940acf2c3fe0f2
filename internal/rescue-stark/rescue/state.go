package rescue

import (
	"fmt"

	"github.com/zkforge/rescue-stark/internal/rescue-stark/core"
)

// StateVector is one row of the permutation state: exactly StateSize field
// elements, the 8 rate slots followed by the 4 capacity slots. It is a value
// type; every operation returns a fresh vector.
type StateVector [StateSize]core.Element

// Word is the externally visible hash input/output unit
type Word [WordSize]core.Element

// Witness is the private input: the ordered words fed into the hash chain
type Witness []Word

// At returns the element in lane i, rejecting out-of-range lanes explicitly
func (s StateVector) At(i int) core.Element {
	if i < 0 || i >= StateSize {
		panic(fmt.Sprintf("rescue: state lane %d outside [0, %d)", i, StateSize))
	}
	return s[i]
}

// Add returns the lane-wise sum of two state vectors
func (s StateVector) Add(o StateVector) StateVector {
	var out StateVector
	for i := range s {
		out[i] = s[i].Add(o[i])
	}
	return out
}

// ElementwiseMul returns the lane-wise product of two state vectors
func (s StateVector) ElementwiseMul(o StateVector) StateVector {
	var out StateVector
	for i := range s {
		out[i] = s[i].Mul(o[i])
	}
	return out
}

// Cube returns the lane-wise cube of the state
func (s StateVector) Cube() StateVector {
	return s.ElementwiseMul(s).ElementwiseMul(s)
}

// BatchedCubeRoot returns the lane-wise cube root of the state. Each lane is
// raised to the fixed exponent (2p-1)/3; zero maps to zero. This is total
// because the field has no primitive cube root of unity.
func (s StateVector) BatchedCubeRoot() StateVector {
	var out StateVector
	for i := range s {
		out[i] = s[i].CubeRoot()
	}
	return out
}

// Output returns the first WordSize lanes, the hash output slots
func (s StateVector) Output() Word {
	var w Word
	copy(w[:], s[:WordSize])
	return w
}

// matVec multiplies a StateSize x StateSize matrix by a state vector
func matVec(m [StateSize][StateSize]core.Element, v StateVector) StateVector {
	var out StateVector
	for i := 0; i < StateSize; i++ {
		acc := core.Zero()
		for j := 0; j < StateSize; j++ {
			acc = acc.Add(m[i][j].Mul(v[j]))
		}
		out[i] = acc
	}
	return out
}
