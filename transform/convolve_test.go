package transform

import (
	"math/cmplx"
	"testing"
)

func slowConvolve(x, y []complex128) []complex128 {
	n := len(x) + len(y) - 1
	out := make([]complex128, n)
	for i := range x {
		for j := range y {
			out[i+j] += x[i] * y[j]
		}
	}
	return out
}

func TestConvolveMatchesDirectSum(t *testing.T) {
	x := []complex128{1, 2, 3}
	y := []complex128{0, 1, 0.5}
	want := slowConvolve(x, y)
	got, err := Convolve(BackendGonum, x, y)
	if err != nil {
		t.Fatalf("Convolve: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("Convolve length = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if cmplx.Abs(got[i]-want[i]) > 1e-6 {
			t.Errorf("Convolve[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestConvolveEmptyInputs(t *testing.T) {
	got, err := Convolve(BackendGonum, nil, nil)
	if err != nil {
		t.Fatalf("Convolve(nil,nil): %v", err)
	}
	if got != nil {
		t.Errorf("Convolve(nil,nil) = %v, want nil", got)
	}
}

func TestMultiConvolveAssociativity(t *testing.T) {
	a := []complex128{1, 1}
	b := []complex128{1, -1}
	c := []complex128{2, 0, 1}

	direct, err := Convolve(BackendGonum, a, b)
	if err != nil {
		t.Fatalf("Convolve(a,b): %v", err)
	}
	direct, err = Convolve(BackendGonum, direct, c)
	if err != nil {
		t.Fatalf("Convolve((a*b),c): %v", err)
	}

	multi, err := MultiConvolve(BackendGonum, a, b, c)
	if err != nil {
		t.Fatalf("MultiConvolve: %v", err)
	}
	if len(multi) != len(direct) {
		t.Fatalf("MultiConvolve length = %d, want %d", len(multi), len(direct))
	}
	for i := range direct {
		if cmplx.Abs(multi[i]-direct[i]) > 1e-6 {
			t.Errorf("MultiConvolve[%d] = %v, want %v", i, multi[i], direct[i])
		}
	}
}
