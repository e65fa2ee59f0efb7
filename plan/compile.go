package plan

import (
	"github.com/andewx/pencilfft/elem"
	"github.com/andewx/pencilfft/pencil"
	"github.com/andewx/pencilfft/permute"
	"github.com/andewx/pencilfft/perrors"
	"github.com/andewx/pencilfft/topology"
	"github.com/andewx/pencilfft/transform"
)

// Stage is one entry of a compiled plan: a 1-D transform along Axis,
// running on data distributed as PencilIn and producing data distributed
// as PencilOut, per spec.md §4.7's (P_in^s, P_out^s, T_s) tuple.
type Stage struct {
	PencilIn   *pencil.Pencil
	PencilOut  *pencil.Pencil
	Descriptor transform.Descriptor
	Axis       int
}

// Plan is a compiled sequence of stages plus the topology and configuration
// they were built over. A Plan is immutable once compiled. Its
// transpositions exchange messages over the topology's sub-communicators
// under one fixed tag, so concurrent ApplyForward/ApplyInverse calls on the
// same Plan are not supported, per spec.md §5.
type Plan struct {
	cfg   Config
	topo  *topology.Topology
	stages []Stage
}

// Compile builds a Plan from cfg, implementing spec.md §4.7's compilation
// algorithm: a Cartesian topology over cfg.ProcessDims, an initial pencil
// P0 decomposed along the last M logical axes, and one stage per logical
// axis, each making that axis momentarily local and memory-fastest via
// permute.AxisFastest before applying its transform.
func Compile(cfg Config, opts ...Option) (*Plan, error) {
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	n := len(cfg.GlobalShape)
	m := len(cfg.ProcessDims)

	topo, err := topology.New(cfg.World, cfg.ProcessDims)
	if err != nil {
		return nil, err
	}

	decompAxes := make([]int, m)
	for k := 0; k < m; k++ {
		decompAxes[k] = n - m + k
	}

	p0ElemType := transform.InputType(cfg.Transforms[0].Kind, cfg.RealType)
	prevOut, err := pencil.New(topo,
		pencil.WithShape(cfg.GlobalShape),
		pencil.WithDecompAxes(decompAxes),
		pencil.WithElemType(p0ElemType),
	)
	if err != nil {
		return nil, err
	}

	stages := make([]Stage, n)
	for axis := 0; axis < n; axis++ {
		piN, err := permute.AxisFastest(n, axis)
		if err != nil {
			return nil, err
		}

		nextDecompAxes := decompAxes
		if k, decomposed := indexOf(decompAxes, axis); decomposed {
			if axis-1 < 0 {
				return nil, perrors.NewConfigError("plan.Compile", "axis %d cannot shift left of 0; process grid rank %d too large for N=%d", axis, m, n)
			}
			nextDecompAxes = append([]int(nil), decompAxes...)
			nextDecompAxes[k] = axis - 1
		}
		if err := assertDistinct(nextDecompAxes); err != nil {
			return nil, err
		}

		pencilIn, err := pencil.Derive(prevOut,
			pencil.WithDecompAxes(nextDecompAxes),
			pencil.WithPermutation(piN),
		)
		if err != nil {
			return nil, err
		}

		d := cfg.Transforms[axis]
		if transform.RequiresEvenOutput(d.Kind) && pencilIn.GlobalShape()[axis]%2 != 0 {
			return nil, perrors.NewConfigError("plan.Compile", "axis %d: %v requires an even logical dimension, got %d", axis, d.Kind, pencilIn.GlobalShape()[axis])
		}
		outLen, err := transform.OutputLength(d.Kind, pencilIn.GlobalShape()[axis])
		if err != nil {
			return nil, err
		}
		outElemType, err := transform.ResultType(d.Kind, pencilIn.ElemType())
		if err != nil {
			return nil, err
		}

		pencilOut := pencilIn
		if outLen != pencilIn.GlobalShape()[axis] || outElemType != pencilIn.ElemType() {
			outShape := append([]int(nil), pencilIn.GlobalShape()...)
			outShape[axis] = outLen
			pencilOut, err = pencil.Derive(pencilIn,
				pencil.WithShape(outShape),
				pencil.WithElemType(outElemType),
			)
			if err != nil {
				return nil, err
			}
		}

		stages[axis] = Stage{PencilIn: pencilIn, PencilOut: pencilOut, Descriptor: d, Axis: axis}
		prevOut = pencilOut
		decompAxes = nextDecompAxes
	}

	return &Plan{cfg: cfg, topo: topo, stages: stages}, nil
}

func indexOf(axes []int, axis int) (int, bool) {
	for k, a := range axes {
		if a == axis {
			return k, true
		}
	}
	return 0, false
}

func assertDistinct(axes []int) error {
	seen := make(map[int]bool, len(axes))
	for _, a := range axes {
		if seen[a] {
			return perrors.NewConfigError("plan.Compile", "decomposed axes are no longer distinct: %v", axes)
		}
		seen[a] = true
	}
	return nil
}

// Stages returns the compiled stage sequence, for introspection and tests.
func (p *Plan) Stages() []Stage { return append([]Stage(nil), p.stages...) }

// Topology returns the plan's Cartesian topology.
func (p *Plan) Topology() *topology.Topology { return p.topo }

// GetComm returns the plan's Cartesian topology (the same value as
// Topology), which holds the sub-communicators; the root communicator
// itself is not returned.
func (p *Plan) GetComm() *topology.Topology { return p.topo }

// GlobalSize returns the element count of the plan's initial pencil.
func (p *Plan) GlobalSize() int { return p.stages[0].PencilIn.GlobalSize() }

// ElementType returns the element type a freshly allocated input array
// carries.
func (p *Plan) ElementType() elem.Type { return p.stages[0].PencilIn.ElemType() }

// InputRange returns the initial pencil's local range for the calling rank.
func (p *Plan) InputRange() [][2]int { return p.stages[0].PencilIn.LocalRange() }

// OutputRange returns the final pencil's local range for the calling rank.
func (p *Plan) OutputRange() [][2]int { return p.stages[len(p.stages)-1].PencilOut.LocalRange() }

// Permutation returns the memory-order permutation of the final stage's
// output pencil.
func (p *Plan) Permutation() permute.Permutation {
	return p.stages[len(p.stages)-1].PencilOut.Permutation()
}
