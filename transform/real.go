package transform

import (
	gonumfourier "gonum.org/v1/gonum/dsp/fourier"

	"github.com/andewx/pencilfft/perrors"
)

// RFFT runs the forward real-to-complex DFT: n real samples map to n/2+1
// complex coefficients (the Hermitian-redundant half spectrum, spec.md
// §6.2). The Gonum backend uses gonum.org/v1/gonum/dsp/fourier.FFT
// directly; every other backend falls back to a zero-imaginary complex
// transform truncated to the same half spectrum, since a real-valued
// complex DFT is Hermitian-symmetric regardless of which library computed
// it.
func RFFT(backend Backend, x []float64) ([]complex128, error) {
	n := len(x)
	if backend == BackendGonum {
		fft := gonumfourier.NewFFT(n)
		return fft.Coefficients(nil, x), nil
	}
	c := make([]complex128, n)
	for i, v := range x {
		c[i] = complex(v, 0)
	}
	if err := complexForward(backend, c); err != nil {
		return nil, err
	}
	return c[:n/2+1], nil
}

// IRFFT runs the normalized inverse complex-to-real DFT: n/2+1 complex
// coefficients (for an even output length n) map back to n real samples.
func IRFFT(backend Backend, coeff []complex128, n int) ([]float64, error) {
	if backend == BackendGonum {
		fft := gonumfourier.NewFFT(n)
		return fft.Sequence(nil, coeff), nil
	}
	full, err := expandHermitian(coeff, n)
	if err != nil {
		return nil, err
	}
	if err := complexInverse(backend, full); err != nil {
		return nil, err
	}
	out := make([]float64, n)
	for i, v := range full {
		out[i] = real(v)
	}
	return out, nil
}

// BRFFT runs the unnormalized backward complex-to-real DFT, leaving the
// 1/N scale to a later plan stage.
func BRFFT(backend Backend, coeff []complex128, n int) ([]float64, error) {
	out, err := IRFFT(backend, coeff, n)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i] *= float64(n)
	}
	return out, nil
}

// expandHermitian rebuilds the full length-n complex spectrum from its
// n/2+1-length Hermitian-redundant half, for backends without a dedicated
// real-transform entry point.
func expandHermitian(half []complex128, n int) ([]complex128, error) {
	if len(half) != n/2+1 {
		return nil, perrors.NewShapeError("transform.expandHermitian", n/2+1, len(half))
	}
	full := make([]complex128, n)
	copy(full, half)
	for k := 1; k < n-len(half)+1; k++ {
		full[n-k] = complexConj(half[k])
	}
	return full, nil
}

func complexConj(z complex128) complex128 { return complex(real(z), -imag(z)) }
