// Package tensor provides the fixed-shape, row-major dense buffers shared by
// mdp, confidence, ucrl2, diagnostics and riverswim. Every quantity in this toolkit is indexed by
// state and action (or state, action and next-state); a flat slice with index
// math is faster and keeps the allocation budget explicit, versus a
// vector-of-vector-of-vector representation.
package tensor

// Dense2 is a flat row-major Rows-by-Cols buffer, used for per-state-action
// quantities such as rewards, visit counts or reward sums.
type Dense2 struct {
	Rows, Cols int
	Data       []float64
}

// NewDense2 allocates a zeroed Rows-by-Cols buffer.
func NewDense2(rows, cols int) Dense2 {
	return Dense2{Rows: rows, Cols: cols, Data: make([]float64, rows*cols)}
}

func (d Dense2) index(r, c int) int { return r*d.Cols + c }

// At returns the value at (r, c).
func (d Dense2) At(r, c int) float64 { return d.Data[d.index(r, c)] }

// Set assigns the value at (r, c).
func (d Dense2) Set(r, c int, v float64) { d.Data[d.index(r, c)] = v }

// Add accumulates delta into (r, c).
func (d Dense2) Add(r, c int, delta float64) { d.Data[d.index(r, c)] += delta }

// Reset zeroes every entry in place.
func (d Dense2) Reset() {
	for i := range d.Data {
		d.Data[i] = 0
	}
}

// CopyFrom overwrites d's contents with src's. Both must share shape.
func (d Dense2) CopyFrom(src Dense2) {
	copy(d.Data, src.Data)
}

// AddFrom accumulates src into d in place. Both must share shape.
func (d Dense2) AddFrom(src Dense2) {
	for i, v := range src.Data {
		d.Data[i] += v
	}
}

// Dense3 is a flat row-major D0-by-D1-by-D2 buffer, used for the transition
// kernel and the observed/estimated transition counts and chances.
type Dense3 struct {
	D0, D1, D2 int
	Data       []float64
}

// NewDense3 allocates a zeroed D0-by-D1-by-D2 buffer.
func NewDense3(d0, d1, d2 int) Dense3 {
	return Dense3{D0: d0, D1: d1, D2: d2, Data: make([]float64, d0*d1*d2)}
}

func (d Dense3) index(i, j, k int) int { return (i*d.D1+j)*d.D2 + k }

// At returns the value at (i, j, k).
func (d Dense3) At(i, j, k int) float64 { return d.Data[d.index(i, j, k)] }

// Set assigns the value at (i, j, k).
func (d Dense3) Set(i, j, k int, v float64) { d.Data[d.index(i, j, k)] = v }

// Add accumulates delta into (i, j, k).
func (d Dense3) Add(i, j, k int, delta float64) { d.Data[d.index(i, j, k)] += delta }

// Row returns the D2-length slice at (i, j, ·), aliasing the backing array.
func (d Dense3) Row(i, j int) []float64 {
	start := d.index(i, j, 0)
	return d.Data[start : start+d.D2]
}

// Reset zeroes every entry in place.
func (d Dense3) Reset() {
	for i := range d.Data {
		d.Data[i] = 0
	}
}

// CopyFrom overwrites d's contents with src's. Both must share shape.
func (d Dense3) CopyFrom(src Dense3) {
	copy(d.Data, src.Data)
}

// AddFrom accumulates src into d in place. Both must share shape.
func (d Dense3) AddFrom(src Dense3) {
	for i, v := range src.Data {
		d.Data[i] += v
	}
}
