package linalg

import (
	"encoding/json"
	"errors"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestMatrixSatisfiesGonum(t *testing.T) {
	m := NewMatrix(2, 3, []float64{1, 2, 3, 4, 5, 6})
	want := mat.NewDense(2, 3, []float64{1, 2, 3, 4, 5, 6})
	if !mat.Equal(m, want) {
		t.Fatalf("unexpected matrix:\n%v", m)
	}
	if !mat.Equal(m.T(), want.T()) {
		t.Fatal("transpose mismatch")
	}
}

func TestIdentityAndOnes(t *testing.T) {
	id := Identity(3)
	if !mat.Equal(id, mat.NewDiagDense(3, []float64{1, 1, 1})) {
		t.Fatalf("unexpected identity:\n%v", id)
	}
	ones := Ones(2, 2)
	if ones.Count() != 4 || !ones.IsBinary() {
		t.Fatalf("unexpected ones: %v", ones)
	}
}

func TestZeroSizedShapes(t *testing.T) {
	for _, shape := range [][2]int{{0, 0}, {3, 0}, {0, 4}} {
		m := Zeros(shape[0], shape[1])
		r, c := m.Dims()
		if r != shape[0] || c != shape[1] {
			t.Fatalf("unexpected dims %dx%d want %dx%d", r, c, shape[0], shape[1])
		}
		if !m.AllZero() || m.HasNegative() || !m.IsBinary() {
			t.Fatalf("empty %dx%d should be trivially zero/binary", r, c)
		}
		data, err := json.Marshal(m)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		var back Matrix
		if err := json.Unmarshal(data, &back); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if !back.Equal(m) {
			t.Fatalf("round trip changed %dx%d matrix", r, c)
		}
	}
}

func TestMulElem(t *testing.T) {
	a := NewMatrix(2, 2, []float64{1, 0, 0, 1})
	b := NewMatrix(2, 2, []float64{0.5, 3, 7, 2})
	got, err := MulElem(a, b)
	if err != nil {
		t.Fatalf("mul elem: %v", err)
	}
	if !got.Equal(NewMatrix(2, 2, []float64{0.5, 0, 0, 2})) {
		t.Fatalf("unexpected product: %v", got)
	}

	if _, err := MulElem(a, Zeros(2, 3)); !errors.Is(err, ErrShape) {
		t.Fatalf("expected shape error, got %v", err)
	}
}

func TestUnmarshalRejectsBadShape(t *testing.T) {
	var m Matrix
	err := json.Unmarshal([]byte(`{"rows":2,"cols":2,"data":[1,2,3]}`), &m)
	if !errors.Is(err, ErrShape) {
		t.Fatalf("expected shape error, got %v", err)
	}
}

func TestFromRows(t *testing.T) {
	m, err := FromRows([][]float64{{1, 2}, {3, 4}})
	if err != nil {
		t.Fatalf("from rows: %v", err)
	}
	if m.At(1, 0) != 3 {
		t.Fatalf("unexpected entry: %v", m.At(1, 0))
	}
	if _, err := FromRows([][]float64{{1, 2}, {3}}); !errors.Is(err, ErrShape) {
		t.Fatalf("expected ragged rows error, got %v", err)
	}
	diag := NewMatrix(2, 2, []float64{1, 9, 9, 4}).Diagonal()
	if diag[0] != 1 || diag[1] != 4 {
		t.Fatalf("unexpected diagonal: %v", diag)
	}
}
