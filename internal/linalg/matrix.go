package linalg

import (
	"encoding/json"
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

var ErrShape = errors.New("matrix shape mismatch")

// Matrix is a dense row-major matrix. Unlike mat.Dense it admits zero-sized
// shapes, which show up as valid degenerate networks (no inputs, no neurons).
// It satisfies mat.Matrix so gonum helpers can read it directly.
type Matrix struct {
	rows int
	cols int
	data []float64
}

var _ mat.Matrix = (*Matrix)(nil)

// NewMatrix wraps data as a rows×cols matrix. A nil data slice allocates zeros.
func NewMatrix(rows, cols int, data []float64) *Matrix {
	if rows < 0 || cols < 0 {
		panic(fmt.Sprintf("linalg: negative dimension %dx%d", rows, cols))
	}
	if data == nil {
		data = make([]float64, rows*cols)
	}
	if len(data) != rows*cols {
		panic(fmt.Sprintf("linalg: data length %d does not match %dx%d", len(data), rows, cols))
	}
	return &Matrix{rows: rows, cols: cols, data: data}
}

func Zeros(rows, cols int) *Matrix {
	return NewMatrix(rows, cols, nil)
}

func Ones(rows, cols int) *Matrix {
	m := Zeros(rows, cols)
	for i := range m.data {
		m.data[i] = 1
	}
	return m
}

func Identity(n int) *Matrix {
	m := Zeros(n, n)
	for i := 0; i < n; i++ {
		m.data[i*n+i] = 1
	}
	return m
}

// FromRows copies a slice of equal-length rows into a new matrix.
func FromRows(rows [][]float64) (*Matrix, error) {
	if len(rows) == 0 {
		return Zeros(0, 0), nil
	}
	cols := len(rows[0])
	m := Zeros(len(rows), cols)
	for i, row := range rows {
		if len(row) != cols {
			return nil, fmt.Errorf("%w: row %d has %d columns, want %d", ErrShape, i, len(row), cols)
		}
		copy(m.data[i*cols:(i+1)*cols], row)
	}
	return m, nil
}

func (m *Matrix) Dims() (int, int) {
	return m.rows, m.cols
}

func (m *Matrix) At(i, j int) float64 {
	m.check(i, j)
	return m.data[i*m.cols+j]
}

func (m *Matrix) T() mat.Matrix {
	return mat.Transpose{Matrix: m}
}

func (m *Matrix) Set(i, j int, v float64) {
	m.check(i, j)
	m.data[i*m.cols+j] = v
}

// Row returns a view of row i; writes go through to the matrix.
func (m *Matrix) Row(i int) []float64 {
	if i < 0 || i >= m.rows {
		panic(fmt.Sprintf("linalg: row %d out of range [0,%d)", i, m.rows))
	}
	return m.data[i*m.cols : (i+1)*m.cols : (i+1)*m.cols]
}

// RawData exposes the row-major backing slice.
func (m *Matrix) RawData() []float64 {
	return m.data
}

func (m *Matrix) Clone() *Matrix {
	return NewMatrix(m.rows, m.cols, append([]float64(nil), m.data...))
}

func (m *Matrix) SameShape(other *Matrix) bool {
	return m.rows == other.rows && m.cols == other.cols
}

// MulElem returns the element-wise (Hadamard) product of a and b.
func MulElem(a, b *Matrix) (*Matrix, error) {
	if !a.SameShape(b) {
		return nil, fmt.Errorf("%w: %dx%d vs %dx%d", ErrShape, a.rows, a.cols, b.rows, b.cols)
	}
	out := Zeros(a.rows, a.cols)
	for i := range a.data {
		out.data[i] = a.data[i] * b.data[i]
	}
	return out, nil
}

func (m *Matrix) HasNegative() bool {
	for _, v := range m.data {
		if v < 0 {
			return true
		}
	}
	return false
}

// IsBinary reports whether every entry is exactly 0 or 1.
func (m *Matrix) IsBinary() bool {
	for _, v := range m.data {
		if v != 0 && v != 1 {
			return false
		}
	}
	return true
}

func (m *Matrix) AllZero() bool {
	for _, v := range m.data {
		if v != 0 {
			return false
		}
	}
	return true
}

// Count returns the number of non-zero entries.
func (m *Matrix) Count() int {
	n := 0
	for _, v := range m.data {
		if v != 0 {
			n++
		}
	}
	return n
}

// Diagonal returns the main diagonal of a square matrix.
func (m *Matrix) Diagonal() []float64 {
	n := min(m.rows, m.cols)
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = m.data[i*m.cols+i]
	}
	return out
}

// Equal compares shape and entries exactly.
func (m *Matrix) Equal(other *Matrix) bool {
	if !m.SameShape(other) {
		return false
	}
	for i, v := range m.data {
		if other.data[i] != v {
			return false
		}
	}
	return true
}

// String renders the matrix with gonum's formatter.
func (m *Matrix) String() string {
	if m.rows == 0 || m.cols == 0 {
		return fmt.Sprintf("[%dx%d]", m.rows, m.cols)
	}
	return fmt.Sprintf("%v", mat.Formatted(m, mat.Squeeze()))
}

type matrixJSON struct {
	Rows int       `json:"rows"`
	Cols int       `json:"cols"`
	Data []float64 `json:"data"`
}

func (m *Matrix) MarshalJSON() ([]byte, error) {
	data := m.data
	if data == nil {
		data = []float64{}
	}
	return json.Marshal(matrixJSON{Rows: m.rows, Cols: m.cols, Data: data})
}

func (m *Matrix) UnmarshalJSON(b []byte) error {
	var raw matrixJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if raw.Rows < 0 || raw.Cols < 0 {
		return fmt.Errorf("%w: negative dimension %dx%d", ErrShape, raw.Rows, raw.Cols)
	}
	if len(raw.Data) != raw.Rows*raw.Cols {
		return fmt.Errorf("%w: %d values for %dx%d", ErrShape, len(raw.Data), raw.Rows, raw.Cols)
	}
	if raw.Data == nil {
		raw.Data = []float64{}
	}
	m.rows, m.cols, m.data = raw.Rows, raw.Cols, raw.Data
	return nil
}

func (m *Matrix) check(i, j int) {
	if i < 0 || i >= m.rows || j < 0 || j >= m.cols {
		panic(fmt.Sprintf("linalg: index (%d,%d) out of range for %dx%d", i, j, m.rows, m.cols))
	}
}
