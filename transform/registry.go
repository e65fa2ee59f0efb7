// registry.go ties the Kind catalogue, the Backend adapters, and the
// element-type promotion rules together into the single Execute entry
// point the plan package's executor calls per stage.
package transform

import (
	"github.com/andewx/pencilfft/elem"
	"github.com/andewx/pencilfft/perrors"
)

// Descriptor names one catalogue entry bound to a concrete backend and
// (for real-input transforms) an optional pre-processing window.
type Descriptor struct {
	Kind    Kind
	Backend Backend
	Window  Window
}

// InputType returns the element type the first stage of a plan chain built
// from kind must carry, given the caller's chosen real precision.
// Complex-input kinds (FFT/IFFT/BFFT, IRFFT/BRFFT) and Identity take real's
// matching complex precision; real-input kinds (RFFT, R2R) take real itself.
func InputType(kind Kind, real elem.Type) elem.Type {
	if !real.IsReal() {
		real = real.Precision()
	}
	if kind.IsComplexToComplex() || kind.IsComplexToReal() {
		return real.AsComplex()
	}
	return real
}

// ResultType returns the element type Execute produces given an input type,
// per spec.md §6.2's type-transition table.
func ResultType(kind Kind, in elem.Type) (elem.Type, error) {
	switch {
	case kind == KindIdentity:
		return in, nil
	case kind.IsComplexToComplex():
		if !in.IsComplex() {
			return elem.Invalid, perrors.NewTypeError("transform.ResultType", "%v requires complex input, got %v", kind, in)
		}
		return in, nil
	case kind.IsRealToComplex():
		if !in.IsReal() {
			return elem.Invalid, perrors.NewTypeError("transform.ResultType", "%v requires real input, got %v", kind, in)
		}
		return in.AsComplex(), nil
	case kind.IsComplexToReal():
		if !in.IsComplex() {
			return elem.Invalid, perrors.NewTypeError("transform.ResultType", "%v requires complex input, got %v", kind, in)
		}
		return in.Precision(), nil
	case kind.IsRealToReal():
		if !in.IsReal() {
			return elem.Invalid, perrors.NewTypeError("transform.ResultType", "%v requires real input, got %v", kind, in)
		}
		return in, nil
	default:
		return elem.Invalid, perrors.NewConfigError("transform.ResultType", "unknown kind %v", kind)
	}
}

// Execute runs descriptor's transform on input, a slice of one of
// []float32, []float64, []complex64, []complex128 matching the array's
// element type. n is the logical output length for IRFFT/BRFFT (ignored by
// every other kind, where it is derived from len(input)).
func Execute(d Descriptor, input any, n int) (any, error) {
	switch x := input.(type) {
	case []float64:
		return executeReal64(d, x, n)
	case []float32:
		x64 := make([]float64, len(x))
		for i, v := range x {
			x64[i] = float64(v)
		}
		out, err := executeReal64(d, x64, n)
		if err != nil {
			return nil, err
		}
		return downcastResult(out), nil
	case []complex128:
		return executeComplex128(d, x, n)
	case []complex64:
		x128 := make([]complex128, len(x))
		for i, v := range x {
			x128[i] = complex128(v)
		}
		out, err := executeComplex128(d, x128, n)
		if err != nil {
			return nil, err
		}
		return downcastResult(out), nil
	default:
		return nil, perrors.NewTypeError("transform.Execute", "unsupported input slice type %T", input)
	}
}

func executeReal64(d Descriptor, x []float64, n int) (any, error) {
	if d.Window != Rectangular {
		ApplyWindow(x, d.Window)
	}
	switch d.Kind {
	case KindIdentity:
		out := make([]float64, len(x))
		copy(out, x)
		return out, nil
	case KindRFFT:
		return RFFT(d.Backend, x)
	case KindR2RDCT2, KindR2RDCT3, KindR2RDST2, KindR2RDST3:
		return R2R(d.Backend, d.Kind, x)
	default:
		return nil, perrors.NewTypeError("transform.Execute", "%v does not accept real input", d.Kind)
	}
}

func executeComplex128(d Descriptor, x []complex128, n int) (any, error) {
	switch d.Kind {
	case KindIdentity:
		out := make([]complex128, len(x))
		copy(out, x)
		return out, nil
	case KindFFT:
		out := append([]complex128(nil), x...)
		if err := FFT(d.Backend, out); err != nil {
			return nil, err
		}
		return out, nil
	case KindIFFT:
		out := append([]complex128(nil), x...)
		if err := IFFT(d.Backend, out); err != nil {
			return nil, err
		}
		return out, nil
	case KindBFFT:
		out := append([]complex128(nil), x...)
		if err := BFFT(d.Backend, out); err != nil {
			return nil, err
		}
		return out, nil
	case KindIRFFT:
		return IRFFT(d.Backend, x, n)
	case KindBRFFT:
		return BRFFT(d.Backend, x, n)
	default:
		return nil, perrors.NewTypeError("transform.Execute", "%v does not accept complex input", d.Kind)
	}
}

func downcastResult(out any) any {
	switch v := out.(type) {
	case []float64:
		r := make([]float32, len(v))
		for i, x := range v {
			r[i] = float32(x)
		}
		return r
	case []complex128:
		r := make([]complex64, len(v))
		for i, x := range v {
			r[i] = complex64(x)
		}
		return r
	default:
		return out
	}
}
