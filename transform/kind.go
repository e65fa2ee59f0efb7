// Package transform implements the 1-D transform catalogue of spec.md
// §6.2: complex-to-complex (FFT/IFFT/BFFT), real-to-complex and
// complex-to-real (RFFT/IRFFT/BRFFT), real-to-real (R2R, DCT/DST family),
// and the Identity pass-through, each selectable across four interchangeable
// backends grounded on the teacher repo's own benchmark suite.
package transform

import "github.com/andewx/pencilfft/perrors"

// Kind names one entry of the transform catalogue. Constants are prefixed
// (KindFFT, not FFT) because the package also exposes a direct callable API
// of the same names (FFT, RFFT, ...), grounded on the teacher's own
// package-level FFT/IFFT functions.
type Kind int

const (
	// KindIdentity passes data through unchanged; used for axes a plan
	// chooses not to transform.
	KindIdentity Kind = iota
	// KindFFT is the unnormalized forward complex DFT.
	KindFFT
	// KindIFFT is the normalized (1/N-scaled) inverse complex DFT.
	KindIFFT
	// KindBFFT is the unnormalized backward (conjugate, unscaled) complex
	// DFT — useful when a plan defers the 1/N scaling to a single final
	// stage.
	KindBFFT
	// KindRFFT is the forward real-to-complex DFT: N reals to N/2+1 complex
	// (Hermitian-redundant half spectrum).
	KindRFFT
	// KindIRFFT is the normalized inverse complex-to-real DFT.
	KindIRFFT
	// KindBRFFT is the unnormalized backward complex-to-real DFT.
	KindBRFFT
	// KindR2RDCT2 is the Type-II discrete cosine transform.
	KindR2RDCT2
	// KindR2RDCT3 is the Type-III discrete cosine transform (DCT-II's
	// inverse up to scale).
	KindR2RDCT3
	// KindR2RDST2 is the Type-II discrete sine transform.
	KindR2RDST2
	// KindR2RDST3 is the Type-III discrete sine transform (DST-II's
	// inverse up to scale).
	KindR2RDST3
)

// String names the kind, used in error messages and plan introspection.
func (k Kind) String() string {
	switch k {
	case KindIdentity:
		return "identity"
	case KindFFT:
		return "fft"
	case KindIFFT:
		return "ifft"
	case KindBFFT:
		return "bfft"
	case KindRFFT:
		return "rfft"
	case KindIRFFT:
		return "irfft"
	case KindBRFFT:
		return "brfft"
	case KindR2RDCT2:
		return "r2r-dct2"
	case KindR2RDCT3:
		return "r2r-dct3"
	case KindR2RDST2:
		return "r2r-dst2"
	case KindR2RDST3:
		return "r2r-dst3"
	default:
		return "unknown"
	}
}

// IsComplexToComplex reports whether k maps complex input to complex output.
func (k Kind) IsComplexToComplex() bool {
	return k == KindIdentity || k == KindFFT || k == KindIFFT || k == KindBFFT
}

// IsRealToComplex reports whether k maps real input to complex output.
func (k Kind) IsRealToComplex() bool { return k == KindRFFT }

// IsComplexToReal reports whether k maps complex input to real output.
func (k Kind) IsComplexToReal() bool { return k == KindIRFFT || k == KindBRFFT }

// IsRealToReal reports whether k maps real input to real output (R2R family).
func (k Kind) IsRealToReal() bool {
	switch k {
	case KindR2RDCT2, KindR2RDCT3, KindR2RDST2, KindR2RDST3:
		return true
	default:
		return false
	}
}

// Inverse returns the kind that undoes k, per spec.md §6.2's catalogue.
func (k Kind) Inverse() Kind {
	switch k {
	case KindFFT:
		return KindIFFT
	case KindIFFT, KindBFFT:
		return KindFFT
	case KindRFFT:
		return KindIRFFT
	case KindIRFFT, KindBRFFT:
		return KindRFFT
	case KindR2RDCT2:
		return KindR2RDCT3
	case KindR2RDCT3:
		return KindR2RDCT2
	case KindR2RDST2:
		return KindR2RDST3
	case KindR2RDST3:
		return KindR2RDST2
	default:
		return KindIdentity
	}
}

// OutputLength returns the output vector length for an input of length n,
// per spec.md §6.2's output-length rule: N for every kind except the real
// transforms, which carry the N/2+1 Hermitian-redundant half-spectrum.
func OutputLength(k Kind, n int) (int, error) {
	switch {
	case k == KindRFFT:
		return n/2 + 1, nil
	case k == KindIRFFT || k == KindBRFFT:
		if n < 2 {
			return 0, perrors.NewConfigError("transform.OutputLength", "IRFFT/BRFFT input length must be >= 2, got %d", n)
		}
		return 2 * (n - 1), nil
	default:
		return n, nil
	}
}

// RequiresEvenOutput reports whether k only round-trips exactly when the
// real-valued axis it operates over has an even logical length: RFFT's
// N/2+1 half-spectrum loses the original length on the way back out
// (IRFFT/BRFFT reconstruct 2*(coeffs-1)) unless N was even to begin with,
// the real-transform invariant of spec.md §4.7.
func RequiresEvenOutput(k Kind) bool {
	return k == KindRFFT || k == KindIRFFT || k == KindBRFFT
}

// UnnormalizedInverse returns the kind spec.md §4.7's inverse executor
// runs when undoing k, always the unscaled member of k's pair (BFFT rather
// than IFFT, BRFFT rather than RFFT's own inverse slot) so the plan can
// defer all axis normalization to a single division at the end of the
// reverse traversal instead of interleaving it per stage.
func (k Kind) UnnormalizedInverse() Kind {
	switch k {
	case KindFFT:
		return KindBFFT
	case KindIFFT, KindBFFT:
		return KindFFT
	case KindRFFT:
		return KindBRFFT
	case KindIRFFT, KindBRFFT:
		return KindRFFT
	case KindR2RDCT2:
		return KindR2RDCT3
	case KindR2RDCT3:
		return KindR2RDCT2
	case KindR2RDST2:
		return KindR2RDST3
	case KindR2RDST3:
		return KindR2RDST2
	default:
		return KindIdentity
	}
}

// RoundTripScale returns the divisor the plan's inverse executor must
// apply, once, for one stage's forward kind k run along a length-n axis,
// so that UnnormalizedInverse(k) composed with k and then divided by
// RoundTripScale recovers the original input. FFT/BFFT and RFFT/BRFFT are
// unnormalized in both directions and so need the full 1/n; the already-
// normalized kinds (IFFT, IRFFT) and the R2R family (whose DCT-III/DST-III
// inverse kernels already carry the compensating weight, grounded on
// MeKo-Christian-algo-pde's dct2Inverse/dst2Inverse) need none.
func (k Kind) RoundTripScale(n int) float64 {
	switch k {
	case KindFFT, KindBFFT, KindRFFT, KindBRFFT:
		return float64(n)
	default:
		return 1.0
	}
}
