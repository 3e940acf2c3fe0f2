package air

import (
	"fmt"

	"github.com/zkforge/rescue-stark/internal/rescue-stark/core"
	"github.com/zkforge/rescue-stark/internal/rescue-stark/rescue"
	"github.com/zkforge/rescue-stark/internal/rescue-stark/utils"
)

// Trace is the execution trace: a power-of-two number of rows, each one
// state vector wide. It is immutable once built; accessors hand out copies.
type Trace struct {
	rows []rescue.StateVector
}

// NewTrace wraps rows into a trace, enforcing the power-of-two shape
func NewTrace(rows []rescue.StateVector) (*Trace, error) {
	if !utils.IsPowerOfTwo(len(rows)) {
		return nil, fmt.Errorf("trace height %d is not a power of two", len(rows))
	}
	return &Trace{rows: rows}, nil
}

// NumRows returns the trace height
func (t *Trace) NumRows() int {
	return len(t.rows)
}

// NumColumns returns the trace width
func (t *Trace) NumColumns() int {
	return rescue.StateSize
}

// Row returns one row of the trace
func (t *Trace) Row(row int) rescue.StateVector {
	if row < 0 || row >= len(t.rows) {
		panic(fmt.Sprintf("air: trace row %d outside [0, %d)", row, len(t.rows)))
	}
	return t.rows[row]
}

// Cell returns the element at one (row, column) position
func (t *Trace) Cell(row, col int) core.Element {
	return t.Row(row).At(col)
}

// Column copies out one full column, the shape the interpolation step needs
func (t *Trace) Column(col int) []core.Element {
	if col < 0 || col >= rescue.StateSize {
		panic(fmt.Sprintf("air: trace column %d outside [0, %d)", col, rescue.StateSize))
	}
	out := make([]core.Element, len(t.rows))
	for i := range t.rows {
		out[i] = t.rows[i][col]
	}
	return out
}
