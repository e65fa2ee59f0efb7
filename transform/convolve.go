package transform

import "github.com/andewx/pencilfft/perrors"

// Convolve computes the discrete (linear) convolution of x and y via FFT,
// carried over from the teacher repo's convolve.go, generalized to run
// over any selectable Backend instead of a single fixed power-of-2
// algorithm.
func Convolve(backend Backend, x, y []complex128) ([]complex128, error) {
	if len(x) == 0 && len(y) == 0 {
		return nil, nil
	}
	n := len(x) + len(y) - 1
	size := NextPow2(n)
	xp := zeroPad(x, size)
	yp := zeroPad(y, size)
	if err := FastConvolve(backend, xp, yp); err != nil {
		return nil, err
	}
	return xp[:n], nil
}

// FastConvolve computes the discrete convolution of x and y using FFT,
// storing the result in x. x and y must already be the same, sufficiently
// zero-padded length.
func FastConvolve(backend Backend, x, y []complex128) error {
	if len(x) == 0 && len(y) == 0 {
		return nil
	}
	if len(x) != len(y) {
		return perrors.NewShapeError("transform.FastConvolve", len(x), len(y))
	}
	if err := complexForward(backend, x); err != nil {
		return err
	}
	if err := complexForward(backend, y); err != nil {
		return err
	}
	for i := range x {
		x[i] *= y[i]
	}
	return complexInverse(backend, x)
}

// MultiConvolve convolves every array in xs pairwise-hierarchically,
// carried over from the teacher's MultiConvolve, generalized over backend.
func MultiConvolve(backend Backend, xs ...[]complex128) ([]complex128, error) {
	if len(xs) == 0 {
		return nil, nil
	}
	acc := zeroPad(xs[0], NextPow2(len(xs[0])))
	returnLength := len(xs[0])
	for _, x := range xs[1:] {
		n := len(acc) + len(x) - 1
		size := NextPow2(n)
		accPadded := zeroPad(acc, size)
		xPadded := zeroPad(x, size)
		if err := FastConvolve(backend, accPadded, xPadded); err != nil {
			return nil, err
		}
		acc = accPadded
		returnLength += len(x) - 1
	}
	if returnLength > len(acc) {
		returnLength = len(acc)
	}
	return acc[:returnLength], nil
}
