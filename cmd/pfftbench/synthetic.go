package main

import (
	"math"
	"math/rand"

	"github.com/andewx/pencilfft/darray"
	"github.com/andewx/pencilfft/perrors"
)

// fillSynthetic fills a's local buffer with a reproducible pseudo-random
// real signal, seeded from rank so every simulated process gets distinct
// but deterministic data across runs.
func fillSynthetic(a *darray.Array, rank int) {
	rng := rand.New(rand.NewSource(int64(rank) + 1))
	shape := a.Pencil().LocalShape()
	extra := a.ExtraShape()
	coord := make([]int, len(shape))
	extraCoord := make([]int, len(extra))

	var walkExtra func(e int)
	walkExtra = func(e int) {
		if e == len(extra) {
			_ = a.Set(coord, extraCoord, complex(rng.Float64()*2-1, 0))
			return
		}
		for v := 0; v < extra[e]; v++ {
			extraCoord[e] = v
			walkExtra(e + 1)
		}
	}
	var walk func(axis int)
	walk = func(axis int) {
		if axis == len(shape) {
			walkExtra(0)
			return
		}
		for v := 0; v < shape[axis]; v++ {
			coord[axis] = v
			walk(axis + 1)
		}
	}
	walk(0)
}

// maxAbsDiff returns the largest per-element absolute difference between
// a and b, which must share a local shape and extra shape.
func maxAbsDiff(a, b *darray.Array) (float64, error) {
	shapeA, shapeB := a.Pencil().LocalShape(), b.Pencil().LocalShape()
	if len(shapeA) != len(shapeB) {
		return 0, perrors.NewShapeError("maxAbsDiff", len(shapeA), len(shapeB))
	}
	for i := range shapeA {
		if shapeA[i] != shapeB[i] {
			return 0, perrors.NewShapeError("maxAbsDiff", shapeA[i], shapeB[i])
		}
	}
	extra := a.ExtraShape()
	coord := make([]int, len(shapeA))
	extraCoord := make([]int, len(extra))
	maxErr := 0.0

	var walkExtra func(e int) error
	walkExtra = func(e int) error {
		if e == len(extra) {
			va, err := a.Get(coord, extraCoord)
			if err != nil {
				return err
			}
			vb, err := b.Get(coord, extraCoord)
			if err != nil {
				return err
			}
			d := math.Hypot(real(va)-real(vb), imag(va)-imag(vb))
			if d > maxErr {
				maxErr = d
			}
			return nil
		}
		for v := 0; v < extra[e]; v++ {
			extraCoord[e] = v
			if err := walkExtra(e + 1); err != nil {
				return err
			}
		}
		return nil
	}
	var walk func(axis int) error
	walk = func(axis int) error {
		if axis == len(shapeA) {
			return walkExtra(0)
		}
		for v := 0; v < shapeA[axis]; v++ {
			coord[axis] = v
			if err := walk(axis + 1); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(0); err != nil {
		return 0, err
	}
	return maxErr, nil
}
