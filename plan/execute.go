package plan

import (
	"context"

	"github.com/pkg/errors"

	"github.com/andewx/pencilfft/darray"
	"github.com/andewx/pencilfft/pencil"
	"github.com/andewx/pencilfft/permute"
	"github.com/andewx/pencilfft/perrors"
	"github.com/andewx/pencilfft/transform"
	"github.com/andewx/pencilfft/transpose"
)

// AllocateInput returns a zeroed distributed array on the plan's initial
// pencil, with extraAxes appended as trailing un-decomposed axes.
func (p *Plan) AllocateInput(extraAxes ...int) (*darray.Array, error) {
	return darray.New(p.stages[0].PencilIn, extraAxes)
}

// AllocateOutput returns a zeroed distributed array on the plan's final
// pencil.
func (p *Plan) AllocateOutput(extraAxes ...int) (*darray.Array, error) {
	return darray.New(p.stages[len(p.stages)-1].PencilOut, extraAxes)
}

// ApplyForward runs src (which must be distributed as p's initial pencil)
// through every compiled stage in order, transposing between stages
// whenever their decomposed axes differ, and writes the final stage's
// result into dst (which must be distributed as p's final pencil).
func (p *Plan) ApplyForward(ctx context.Context, dst, src *darray.Array) error {
	if !equalPencil(src.Pencil(), p.stages[0].PencilIn) {
		return perrors.NewConfigError("Plan.ApplyForward", "src is not distributed as this plan's initial pencil")
	}
	if !equalPencil(dst.Pencil(), p.stages[len(p.stages)-1].PencilOut) {
		return perrors.NewConfigError("Plan.ApplyForward", "dst is not distributed as this plan's final pencil")
	}

	cur := src
	for i, st := range p.stages {
		if i > 0 {
			prevOut := p.stages[i-1].PencilOut
			aligned, err := p.align(ctx, prevOut, st.PencilIn, cur)
			if err != nil {
				return errors.Wrapf(err, "stage %d: aligning input distribution", i)
			}
			cur = aligned
		}
		out, err := applyStage(st.PencilOut, cur, st.Axis, st.Descriptor, st.PencilOut.GlobalShape()[st.Axis])
		if err != nil {
			return errors.Wrapf(err, "stage %d: applying %v", i, st.Descriptor.Kind)
		}
		cur = out
	}
	return localRepack(dst, cur)
}

// ApplyInverse runs src (which must be distributed as p's final pencil)
// back through every compiled stage in reverse order using each stage's
// unnormalized inverse transform, accumulating the per-axis round-trip
// scale factors and applying their product once at the end, and writes
// the result into dst (which must be distributed as p's initial pencil).
func (p *Plan) ApplyInverse(ctx context.Context, dst, src *darray.Array) error {
	last := len(p.stages) - 1
	if !equalPencil(src.Pencil(), p.stages[last].PencilOut) {
		return perrors.NewConfigError("Plan.ApplyInverse", "src is not distributed as this plan's final pencil")
	}
	if !equalPencil(dst.Pencil(), p.stages[0].PencilIn) {
		return perrors.NewConfigError("Plan.ApplyInverse", "dst is not distributed as this plan's initial pencil")
	}

	cur := src
	scale := 1.0
	for i := last; i >= 0; i-- {
		st := p.stages[i]
		if i < last {
			nextIn := p.stages[i+1].PencilIn
			aligned, err := p.align(ctx, nextIn, st.PencilOut, cur)
			if err != nil {
				return errors.Wrapf(err, "stage %d: aligning inverse input distribution", i)
			}
			cur = aligned
		}

		axisLen := st.PencilIn.GlobalShape()[st.Axis]
		scaleLen := axisLen
		if st.Descriptor.Kind.IsComplexToReal() {
			// The real length of a C2R axis is its output length.
			scaleLen = st.PencilOut.GlobalShape()[st.Axis]
		}
		scale *= st.Descriptor.Kind.RoundTripScale(scaleLen)
		invDescriptor := transform.Descriptor{Kind: st.Descriptor.Kind.UnnormalizedInverse(), Backend: st.Descriptor.Backend}

		out, err := applyStage(st.PencilIn, cur, st.Axis, invDescriptor, axisLen)
		if err != nil {
			return errors.Wrapf(err, "stage %d: applying inverse %v", i, invDescriptor.Kind)
		}
		cur = out
	}

	if err := localRepack(dst, cur); err != nil {
		return err
	}
	if scale != 1.0 {
		return dst.ScaleInPlace(complex(1.0/scale, 0))
	}
	return nil
}

// align returns src's contents redistributed onto toPencil, transposing
// across the one changed sub-communicator slot when decomposed axes
// differ between fromPencil and toPencil, or repacking locally (no
// communication) when only the memory-order permutation changes.
func (p *Plan) align(ctx context.Context, fromPencil, toPencil *pencil.Pencil, src *darray.Array) (*darray.Array, error) {
	if equalPencil(fromPencil, toPencil) {
		return src, nil
	}
	next, err := darray.New(toPencil, src.ExtraShape())
	if err != nil {
		return nil, err
	}
	if sameDecompAxes(fromPencil, toPencil) {
		if err := localRepack(next, src); err != nil {
			return nil, err
		}
		return next, nil
	}
	if err := transpose.Transpose(ctx, next, src, p.cfg.Method); err != nil {
		return nil, err
	}
	return next, nil
}

func equalPencil(a, b *pencil.Pencil) bool {
	if !pencil.SameDistribution(a, b) {
		return false
	}
	if a.ElemType() != b.ElemType() {
		return false
	}
	if !sameDecompAxes(a, b) {
		return false
	}
	return permute.Equal(a.Permutation(), b.Permutation())
}

func sameDecompAxes(a, b *pencil.Pencil) bool {
	aAxes, bAxes := a.DecompAxes(), b.DecompAxes()
	if len(aAxes) != len(bAxes) {
		return false
	}
	for i := range aAxes {
		if aAxes[i] != bAxes[i] {
			return false
		}
	}
	return true
}

// localRepack copies every element of src into dst by logical coordinate,
// for pencils that share topology, global shape, element type and
// decomposed axes (hence an identical local range) but may differ in
// memory-order permutation — a purely local reshuffle, unlike
// transpose.Transpose which additionally redistributes across ranks.
func localRepack(dst, src *darray.Array) error {
	if !sameDecompAxes(src.Pencil(), dst.Pencil()) {
		return perrors.NewConfigError("plan.localRepack", "localRepack requires identical decomposed axes; use transpose.Transpose instead")
	}
	if src.ElemType() != dst.ElemType() {
		return perrors.NewConfigError("plan.localRepack", "src/dst element types differ")
	}
	shape := src.Pencil().LocalShape()
	extra := src.ExtraShape()
	coord := make([]int, len(shape))
	extraCoord := make([]int, len(extra))

	var walkExtra func(e int) error
	walkExtra = func(e int) error {
		if e == len(extra) {
			v, err := src.Get(coord, extraCoord)
			if err != nil {
				return err
			}
			return dst.Set(coord, extraCoord, v)
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
		if axis == len(shape) {
			return walkExtra(0)
		}
		for v := 0; v < shape[axis]; v++ {
			coord[axis] = v
			if err := walk(axis + 1); err != nil {
				return err
			}
		}
		return nil
	}
	return walk(0)
}
