package comm

import "testing"

func TestDimsCreate(t *testing.T) {
	cases := []struct {
		worldSize, m int
	}{
		{4, 2},
		{8, 3},
		{12, 2},
		{12, 3},
		{16, 1},
		{1, 4},
	}
	for _, c := range cases {
		dims, err := DimsCreate(c.worldSize, c.m)
		if err != nil {
			t.Fatalf("DimsCreate(%d,%d) error: %v", c.worldSize, c.m, err)
		}
		if len(dims) != c.m {
			t.Fatalf("DimsCreate(%d,%d) returned %d dims, want %d", c.worldSize, c.m, len(dims), c.m)
		}
		prod := 1
		for _, d := range dims {
			if d < 1 {
				t.Errorf("DimsCreate(%d,%d) returned non-positive factor %d", c.worldSize, c.m, d)
			}
			prod *= d
		}
		if prod != c.worldSize {
			t.Errorf("DimsCreate(%d,%d) = %v, product %d != %d", c.worldSize, c.m, dims, prod, c.worldSize)
		}
		for i := 1; i < len(dims); i++ {
			if dims[i] > dims[i-1] {
				t.Errorf("DimsCreate(%d,%d) = %v, not non-increasing", c.worldSize, c.m, dims)
			}
		}
	}
}

func TestDimsCreatePrime(t *testing.T) {
	// A prime world size split across 2 dims still factors, trivially,
	// as (worldSize, 1).
	dims, err := DimsCreate(7, 2)
	if err != nil {
		t.Fatalf("DimsCreate(7,2) error: %v", err)
	}
	prod := dims[0] * dims[1]
	if prod != 7 {
		t.Errorf("DimsCreate(7,2) = %v, product %d != 7", dims, prod)
	}
}

func TestDimsCreateInvalid(t *testing.T) {
	if _, err := DimsCreate(0, 2); err == nil {
		t.Errorf("DimsCreate(0,2) returned nil error, want error")
	}
	if _, err := DimsCreate(4, 0); err == nil {
		t.Errorf("DimsCreate(4,0) returned nil error, want error")
	}
}
