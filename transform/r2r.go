package transform

import "math"

// R2R runs one entry of the real-to-real DCT/DST catalogue on x, returning
// a new slice of the same length. DCT-II/DST-II route through a length-2N
// even/odd extension fed through the selected complex backend, the pattern
// used for Neumann/Dirichlet boundary spectral methods; DCT-III/DST-III
// (their inverses) are the direct weighted-transpose of the forward
// kernel, since that inverse is not itself expressible as a plain
// extension-through-FFT.
func R2R(backend Backend, kind Kind, x []float64) ([]float64, error) {
	switch kind {
	case KindR2RDCT2:
		return dct2Forward(backend, x)
	case KindR2RDCT3:
		return dct2Inverse(x), nil
	case KindR2RDST2:
		return dst2Forward(backend, x)
	case KindR2RDST3:
		return dst2Inverse(x), nil
	default:
		return nil, errUnsupportedR2R(kind)
	}
}

func errUnsupportedR2R(kind Kind) error {
	return &r2rError{kind: kind}
}

type r2rError struct{ kind Kind }

func (e *r2rError) Error() string { return "transform: unsupported r2r kind " + e.kind.String() }

// dct2Forward computes DCT-II via even extension to length 2n, a complex
// forward transform, and a phase-corrected real-part extraction — the
// pattern of the MeKo-Christian-algo-pde DCT2Plan.Forward, with algo-fft
// swapped for this module's own selectable complex backend.
func dct2Forward(backend Backend, x []float64) ([]float64, error) {
	n := len(x)
	extN := 2 * n
	buf := make([]complex128, extN)
	for i, v := range x {
		buf[i] = complex(v, 0)
		buf[extN-1-i] = complex(v, 0)
	}
	if err := complexForward(backend, buf); err != nil {
		return nil, err
	}
	out := make([]float64, n)
	den := 2.0 * float64(n)
	for k := 0; k < n; k++ {
		angle := -math.Pi * float64(k) / den
		phase := complex(math.Cos(angle), math.Sin(angle))
		out[k] = real(buf[k]*phase) / 2.0
	}
	return out, nil
}

// dct2Inverse is the direct O(n^2) weighted transpose of the DCT-II kernel.
func dct2Inverse(x []float64) []float64 {
	n := len(x)
	out := make([]float64, n)
	for nn := 0; nn < n; nn++ {
		sum := 0.0
		for k := 0; k < n; k++ {
			weight := 2.0 / float64(n)
			if k == 0 {
				weight = 1.0 / float64(n)
			}
			sum += x[k] * weight * math.Cos(math.Pi*(float64(nn)+0.5)*float64(k)/float64(n))
		}
		out[nn] = sum
	}
	return out
}

// dst2Forward computes DST-II via odd extension to length 2n.
func dst2Forward(backend Backend, x []float64) ([]float64, error) {
	n := len(x)
	extN := 2 * n
	buf := make([]complex128, extN)
	for i, v := range x {
		buf[i] = complex(v, 0)
		buf[extN-1-i] = complex(-v, 0)
	}
	if err := complexForward(backend, buf); err != nil {
		return nil, err
	}
	out := make([]float64, n)
	den := 2.0 * float64(n)
	for k := 0; k < n; k++ {
		angle := -math.Pi * float64(k+1) / den
		phase := complex(math.Cos(angle), math.Sin(angle))
		out[k] = -imag(buf[k+1]*phase) / 2.0
	}
	return out, nil
}

// dst2Inverse is the direct O(n^2) weighted transpose of the DST-II kernel.
func dst2Inverse(x []float64) []float64 {
	n := len(x)
	out := make([]float64, n)
	for nn := 0; nn < n; nn++ {
		sum := 0.0
		for k := 0; k < n; k++ {
			weight := 2.0 / float64(n)
			if k == n-1 {
				weight = 1.0 / float64(n)
			}
			sum += x[k] * weight * math.Sin(math.Pi*(float64(nn)+0.5)*float64(k+1)/float64(n))
		}
		out[nn] = sum
	}
	return out
}
