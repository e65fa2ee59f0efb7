package transform

import (
	"math/cmplx"

	ktyefft "github.com/ktye/fft"
	dspfft "github.com/mjibson/go-dsp/fft"
	gonumfourier "gonum.org/v1/gonum/dsp/fourier"
	scientificfft "scientificgo.org/fft"

	"github.com/andewx/pencilfft/perrors"
)

// Backend selects which library runs a complex-to-complex transform. All
// four are exercised by the teacher's own benchmark suite (fft_test.go);
// Gonum is the default because gonum.org/v1/gonum/dsp/fourier handles
// arbitrary N, not just powers of 2.
type Backend int

const (
	BackendGonum Backend = iota
	BackendKtye
	BackendGoDSP
	BackendScientific
)

func (b Backend) String() string {
	switch b {
	case BackendGonum:
		return "gonum"
	case BackendKtye:
		return "ktye"
	case BackendGoDSP:
		return "go-dsp"
	case BackendScientific:
		return "scientific"
	default:
		return "unknown"
	}
}

// complexForward runs the unnormalized forward complex DFT in place.
func complexForward(b Backend, x []complex128) error {
	switch b {
	case BackendKtye:
		f, err := ktyefft.New(len(x))
		if err != nil {
			return perrors.NewCommError("transform.complexForward(ktye)", err)
		}
		f.Transform(x)
		return nil
	case BackendGoDSP:
		y := dspfft.FFT(x)
		copy(x, y)
		return nil
	case BackendGonum:
		f := gonumfourier.NewCmplxFFT(len(x))
		f.Coefficients(x, x)
		return nil
	case BackendScientific:
		y := scientificfft.Fft(x, false)
		copy(x, y)
		return nil
	default:
		return perrors.NewConfigError("transform.complexForward", "unknown backend %d", int(b))
	}
}

// complexBackward runs the unnormalized backward (conjugate) complex DFT in
// place: conj(forward(conj(x))), the standard trick for backends (ktye,
// go-dsp's FFT, gonum's CmplxFFT) that only expose a forward transform.
func complexBackward(b Backend, x []complex128) error {
	switch b {
	case BackendScientific:
		y := scientificfft.Fft(x, true)
		copy(x, y)
		return nil
	default:
		for i := range x {
			x[i] = cmplx.Conj(x[i])
		}
		if err := complexForward(b, x); err != nil {
			return err
		}
		for i := range x {
			x[i] = cmplx.Conj(x[i])
		}
		return nil
	}
}

// complexInverse runs the normalized inverse complex DFT in place:
// backward, then scaled by 1/N.
func complexInverse(b Backend, x []complex128) error {
	if err := complexBackward(b, x); err != nil {
		return err
	}
	invN := complex(1.0/float64(len(x)), 0)
	for i := range x {
		x[i] *= invN
	}
	return nil
}
