package transpose

import (
	"context"
	"testing"

	"github.com/andewx/pencilfft/comm/local"
	"github.com/andewx/pencilfft/darray"
	"github.com/andewx/pencilfft/elem"
	"github.com/andewx/pencilfft/pencil"
	"github.com/andewx/pencilfft/topology"
)

func valueAt(coord []int) complex128 {
	v := 0
	for i, c := range coord {
		v = v*1000 + c*(i+1)
	}
	return complex(float64(v), 0)
}

func fillGlobal(a *darray.Array, shape []int) error {
	gv := a.GlobalView()
	lr := a.Pencil().LocalRange()
	coord := make([]int, len(shape))
	var walk func(axis int) error
	walk = func(axis int) error {
		if axis == len(shape) {
			return gv.Set(coord, nil, valueAt(coord))
		}
		for c := lr[axis][0]; c < lr[axis][1]; c++ {
			coord[axis] = c
			if err := walk(axis + 1); err != nil {
				return err
			}
		}
		return nil
	}
	return walk(0)
}

func checkGlobal(a *darray.Array, shape []int) error {
	gv := a.GlobalView()
	lr := a.Pencil().LocalRange()
	coord := make([]int, len(shape))
	var walk func(axis int) error
	walk = func(axis int) error {
		if axis == len(shape) {
			v, err := gv.Get(coord, nil)
			if err != nil {
				return err
			}
			if v != valueAt(coord) {
				return errMismatch(coord, v, valueAt(coord))
			}
			return nil
		}
		for c := lr[axis][0]; c < lr[axis][1]; c++ {
			coord[axis] = c
			if err := walk(axis + 1); err != nil {
				return err
			}
		}
		return nil
	}
	return walk(0)
}

type mismatchError struct {
	coord    []int
	got, want complex128
}

func (e *mismatchError) Error() string {
	return "mismatch"
}

func errMismatch(coord []int, got, want complex128) error {
	return &mismatchError{coord: append([]int(nil), coord...), got: got, want: want}
}

func runTranspose(t *testing.T, method Method) {
	t.Helper()
	shape := []int{4, 6, 8}
	dims := []int{2, 2}

	err := local.Run(context.Background(), 4, func(ctx context.Context, w *local.World) error {
		topo, err := topology.New(w, dims)
		if err != nil {
			return err
		}
		in, err := pencil.New(topo, pencil.WithShape(shape), pencil.WithElemType(elem.Complex128), pencil.WithDecompAxes([]int{1, 2}))
		if err != nil {
			return err
		}
		out, err := pencil.Derive(in, pencil.WithDecompAxes([]int{0, 2}))
		if err != nil {
			return err
		}

		src, err := darray.New(in, nil)
		if err != nil {
			return err
		}
		if err := fillGlobal(src, shape); err != nil {
			return err
		}
		dst, err := darray.New(out, nil)
		if err != nil {
			return err
		}

		if err := Transpose(ctx, dst, src, method); err != nil {
			return err
		}
		return checkGlobal(dst, shape)
	})
	if err != nil {
		t.Fatalf("transpose (method=%v): %v", method, err)
	}
}

func TestTransposePairwise(t *testing.T) {
	runTranspose(t, Pairwise)
}

func TestTransposeAllToAll(t *testing.T) {
	runTranspose(t, AllToAll)
}

func TestTransposeRoundTrip(t *testing.T) {
	shape := []int{4, 6, 8}
	dims := []int{2, 2}

	err := local.Run(context.Background(), 4, func(ctx context.Context, w *local.World) error {
		topo, err := topology.New(w, dims)
		if err != nil {
			return err
		}
		p1, err := pencil.New(topo, pencil.WithShape(shape), pencil.WithElemType(elem.Complex128), pencil.WithDecompAxes([]int{1, 2}))
		if err != nil {
			return err
		}
		p2, err := pencil.Derive(p1, pencil.WithDecompAxes([]int{0, 2}))
		if err != nil {
			return err
		}

		a1, err := darray.New(p1, nil)
		if err != nil {
			return err
		}
		if err := fillGlobal(a1, shape); err != nil {
			return err
		}
		a2, err := darray.New(p2, nil)
		if err != nil {
			return err
		}
		if err := Transpose(ctx, a2, a1, Pairwise); err != nil {
			return err
		}
		back, err := darray.New(p1, nil)
		if err != nil {
			return err
		}
		if err := Transpose(ctx, back, a2, Pairwise); err != nil {
			return err
		}
		return checkGlobal(back, shape)
	})
	if err != nil {
		t.Fatalf("transpose round trip: %v", err)
	}
}

func TestTransposeRejectsMismatchedExtraShape(t *testing.T) {
	shape := []int{4, 6, 8}
	dims := []int{2, 2}

	rejected := make([]bool, 4)
	err := local.Run(context.Background(), 4, func(ctx context.Context, w *local.World) error {
		topo, err := topology.New(w, dims)
		if err != nil {
			return err
		}
		p1, err := pencil.New(topo, pencil.WithShape(shape), pencil.WithElemType(elem.Complex128), pencil.WithDecompAxes([]int{1, 2}))
		if err != nil {
			return err
		}
		p2, err := pencil.Derive(p1, pencil.WithDecompAxes([]int{0, 2}))
		if err != nil {
			return err
		}
		a1, err := darray.New(p1, []int{3})
		if err != nil {
			return err
		}
		a2, err := darray.New(p2, []int{2})
		if err != nil {
			return err
		}
		rejected[w.Rank()] = Transpose(ctx, a2, a1, Pairwise) != nil
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected workflow error: %v", err)
	}
	for rank, r := range rejected {
		if !r {
			t.Errorf("rank %d: Transpose with mismatched extra shapes returned nil error, want error", rank)
		}
	}
}
