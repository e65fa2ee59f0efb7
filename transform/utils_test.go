package transform

import "testing"

func TestNextPow2(t *testing.T) {
	cases := []struct {
		n    int
		want int
	}{
		{0, 1},
		{1, 1},
		{2, 2},
		{3, 4},
		{4, 4},
		{5, 8},
		{1023, 1024},
		{1024, 1024},
		{1025, 2048},
	}
	for _, c := range cases {
		if got := NextPow2(c.n); got != c.want {
			t.Errorf("NextPow2(%d) = %d, want %d", c.n, got, c.want)
		}
	}
}

func TestZeroPad(t *testing.T) {
	x := []complex128{1, 2, 3}
	got := zeroPad(x, 6)
	if len(got) != 6 {
		t.Fatalf("zeroPad length = %d, want 6", len(got))
	}
	for i, v := range x {
		if got[i] != v {
			t.Errorf("zeroPad[%d] = %v, want %v", i, got[i], v)
		}
	}
	for i := len(x); i < len(got); i++ {
		if got[i] != 0 {
			t.Errorf("zeroPad[%d] = %v, want 0", i, got[i])
		}
	}
	// zeroPad must not alias the source slice's backing array.
	got[0] = 99
	if x[0] == 99 {
		t.Errorf("zeroPad aliased its input")
	}
}
