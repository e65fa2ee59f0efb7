package transform

import (
	"math"
	"math/rand"
	"testing"
)

func TestDCT2DCT3RoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(21))
	x := make([]float64, 12)
	for i := range x {
		x[i] = rng.NormFloat64()
	}
	fwd, err := R2R(BackendGonum, KindR2RDCT2, x)
	if err != nil {
		t.Fatalf("R2R dct2: %v", err)
	}
	back, err := R2R(BackendGonum, KindR2RDCT3, fwd)
	if err != nil {
		t.Fatalf("R2R dct3: %v", err)
	}
	for i := range x {
		if math.Abs(back[i]-x[i]) > 1e-6 {
			t.Errorf("DCT2/DCT3 round trip[%d] = %v, want %v", i, back[i], x[i])
		}
	}
}

func TestDST2DST3RoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(22))
	x := make([]float64, 12)
	for i := range x {
		x[i] = rng.NormFloat64()
	}
	fwd, err := R2R(BackendGonum, KindR2RDST2, x)
	if err != nil {
		t.Fatalf("R2R dst2: %v", err)
	}
	back, err := R2R(BackendGonum, KindR2RDST3, fwd)
	if err != nil {
		t.Fatalf("R2R dst3: %v", err)
	}
	for i := range x {
		if math.Abs(back[i]-x[i]) > 1e-6 {
			t.Errorf("DST2/DST3 round trip[%d] = %v, want %v", i, back[i], x[i])
		}
	}
}

func TestR2RUnsupportedKind(t *testing.T) {
	if _, err := R2R(BackendGonum, KindFFT, []float64{1, 2}); err == nil {
		t.Errorf("R2R(KindFFT) returned nil error, want error")
	}
}
