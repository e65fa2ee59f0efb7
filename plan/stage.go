package plan

import (
	"github.com/andewx/pencilfft/darray"
	"github.com/andewx/pencilfft/pencil"
	"github.com/andewx/pencilfft/perrors"
	"github.com/andewx/pencilfft/transform"
)

// applyStage runs d's 1-D transform along axis (local on both src's and
// pOut's pencils by construction) for every fiber of src's local buffer,
// writing the result into a freshly allocated array on pOut. outAxisLen is
// the logical output length along axis, needed by IRFFT/BRFFT.
func applyStage(pOut *pencil.Pencil, src *darray.Array, axis int, d transform.Descriptor, outAxisLen int) (*darray.Array, error) {
	dst, err := darray.New(pOut, src.ExtraShape())
	if err != nil {
		return nil, err
	}

	localShape := src.Pencil().LocalShape()
	extra := src.ExtraShape()
	axisLen := localShape[axis]
	complexIn := src.ElemType().IsComplex()

	coord := make([]int, len(localShape))
	extraCoord := make([]int, len(extra))

	var walkExtra func(e int) error
	walkExtra = func(e int) error {
		if e == len(extra) {
			return runFiber(src, dst, d, axis, axisLen, outAxisLen, complexIn, coord, extraCoord)
		}
		for v := 0; v < extra[e]; v++ {
			extraCoord[e] = v
			if err := walkExtra(e + 1); err != nil {
				return err
			}
		}
		return nil
	}

	var walk func(a int) error
	walk = func(a int) error {
		if a == len(localShape) {
			return walkExtra(0)
		}
		if a == axis {
			coord[a] = 0
			return walk(a + 1)
		}
		for v := 0; v < localShape[a]; v++ {
			coord[a] = v
			if err := walk(a + 1); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(0); err != nil {
		return nil, err
	}
	return dst, nil
}

// runFiber extracts the one-dimensional slice of src along axis at the
// fixed coordinate/extraCoord, runs d over it, and writes the result into
// dst at the same coordinate.
func runFiber(src, dst *darray.Array, d transform.Descriptor, axis, axisLen, outAxisLen int, complexIn bool, coord, extraCoord []int) error {
	c := append([]int(nil), coord...)

	if complexIn {
		fiber := make([]complex128, axisLen)
		for i := 0; i < axisLen; i++ {
			c[axis] = i
			v, err := src.Get(c, extraCoord)
			if err != nil {
				return err
			}
			fiber[i] = v
		}
		out, err := transform.Execute(d, fiber, outAxisLen)
		if err != nil {
			return err
		}
		return writeFiber(dst, out, axis, c, extraCoord)
	}

	fiber := make([]float64, axisLen)
	for i := 0; i < axisLen; i++ {
		c[axis] = i
		v, err := src.Get(c, extraCoord)
		if err != nil {
			return err
		}
		fiber[i] = real(v)
	}
	out, err := transform.Execute(d, fiber, outAxisLen)
	if err != nil {
		return err
	}
	return writeFiber(dst, out, axis, c, extraCoord)
}

func writeFiber(dst *darray.Array, out any, axis int, coord, extraCoord []int) error {
	set := func(i int, v complex128) error {
		coord[axis] = i
		return dst.Set(coord, extraCoord, v)
	}
	switch vs := out.(type) {
	case []float64:
		for i, v := range vs {
			if err := set(i, complex(v, 0)); err != nil {
				return err
			}
		}
	case []float32:
		for i, v := range vs {
			if err := set(i, complex(float64(v), 0)); err != nil {
				return err
			}
		}
	case []complex128:
		for i, v := range vs {
			if err := set(i, v); err != nil {
				return err
			}
		}
	case []complex64:
		for i, v := range vs {
			if err := set(i, complex128(v)); err != nil {
				return err
			}
		}
	default:
		return perrors.NewTypeError("plan.applyStage", "unsupported transform output type %T", out)
	}
	return nil
}
