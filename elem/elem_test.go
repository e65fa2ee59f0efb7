package elem

import "testing"

func TestIsRealIsComplex(t *testing.T) {
	cases := []struct {
		t               Type
		real, cmplx bool
	}{
		{Float32, true, false},
		{Float64, true, false},
		{Complex64, false, true},
		{Complex128, false, true},
		{Invalid, false, false},
	}
	for _, c := range cases {
		if got := c.t.IsReal(); got != c.real {
			t.Errorf("%v.IsReal() = %v, want %v", c.t, got, c.real)
		}
		if got := c.t.IsComplex(); got != c.cmplx {
			t.Errorf("%v.IsComplex() = %v, want %v", c.t, got, c.cmplx)
		}
	}
}

func TestPrecisionAndAsComplex(t *testing.T) {
	cases := []struct {
		t         Type
		precision Type
		complex   Type
	}{
		{Float32, Float32, Complex64},
		{Complex64, Float32, Complex64},
		{Float64, Float64, Complex128},
		{Complex128, Float64, Complex128},
	}
	for _, c := range cases {
		if got := c.t.Precision(); got != c.precision {
			t.Errorf("%v.Precision() = %v, want %v", c.t, got, c.precision)
		}
		if got := c.t.AsComplex(); got != c.complex {
			t.Errorf("%v.AsComplex() = %v, want %v", c.t, got, c.complex)
		}
	}
	if got := Invalid.Precision(); got != Invalid {
		t.Errorf("Invalid.Precision() = %v, want Invalid", got)
	}
}

func TestSize(t *testing.T) {
	cases := map[Type]int{Float32: 4, Float64: 8, Complex64: 8, Complex128: 16, Invalid: 0}
	for ty, want := range cases {
		if got := ty.Size(); got != want {
			t.Errorf("%v.Size() = %d, want %d", ty, got, want)
		}
	}
}

func TestValidate(t *testing.T) {
	for _, ty := range []Type{Float32, Float64, Complex64, Complex128} {
		if err := ty.Validate(); err != nil {
			t.Errorf("%v.Validate() = %v, want nil", ty, err)
		}
	}
	if err := Invalid.Validate(); err == nil {
		t.Errorf("Invalid.Validate() = nil, want error")
	}
	if err := Type(99).Validate(); err == nil {
		t.Errorf("Type(99).Validate() = nil, want error")
	}
}

func TestString(t *testing.T) {
	cases := map[Type]string{
		Float32: "float32", Float64: "float64",
		Complex64: "complex64", Complex128: "complex128",
		Invalid: "invalid",
	}
	for ty, want := range cases {
		if got := ty.String(); got != want {
			t.Errorf("%v.String() = %q, want %q", ty, got, want)
		}
	}
}
