// Package pencil implements the pencil descriptor of spec.md §3/§4.3: the
// data-distribution configuration that decomposes M of an N-axis global
// grid across a topology's sub-communicators, leaving the rest local, with
// an optional memory-order permutation.
package pencil

import (
	"github.com/andewx/pencilfft/comm"
	"github.com/andewx/pencilfft/elem"
	"github.com/andewx/pencilfft/permute"
	"github.com/andewx/pencilfft/perrors"
	"github.com/andewx/pencilfft/topology"
)

// Pencil describes one distribution configuration: a global shape in
// logical (unpermuted) axis order, an element type, a topology, the M
// decomposed axes (decompAxes[k] is the logical axis mapped to sub-comm
// k), and a memory-order permutation.
type Pencil struct {
	topo       *topology.Topology
	shape      []int // logical order, length N
	elemType   elem.Type
	decompAxes []int // length M; decompAxes[k] = logical axis on sub-comm k
	perm       permute.Permutation
}

// Option configures a Pencil at construction time.
type Option func(*options)

type options struct {
	decompAxes []int
	perm       *permute.Permutation
	elemType   *elem.Type
	shape      []int
}

// WithDecompAxes overrides the decomposed-axis assignment (required by New,
// optional by Derive where it defaults to the parent's).
func WithDecompAxes(axes []int) Option {
	return func(o *options) { o.decompAxes = append([]int(nil), axes...) }
}

// WithPermutation overrides the memory-order permutation (defaults to
// identity for New, to the parent's permutation for Derive).
func WithPermutation(p permute.Permutation) Option {
	return func(o *options) { o.perm = &p }
}

// WithElemType overrides the element type (required by New, optional by
// Derive where it defaults to the parent's).
func WithElemType(t elem.Type) Option {
	return func(o *options) { o.elemType = &t }
}

// WithShape overrides the global shape (required by New, optional by
// Derive where it defaults to the parent's).
func WithShape(shape []int) Option {
	return func(o *options) { o.shape = append([]int(nil), shape...) }
}

// New constructs an explicit Pencil: Pencil(topology, shape, decomp_axes,
// element_type, π=id), per spec.md §4.3 constructor 1.
func New(topo *topology.Topology, opts ...Option) (*Pencil, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.shape == nil {
		return nil, perrors.NewConfigError("pencil.New", "shape is required")
	}
	if o.elemType == nil {
		return nil, perrors.NewConfigError("pencil.New", "element type is required")
	}
	if o.decompAxes == nil {
		return nil, perrors.NewConfigError("pencil.New", "decomp axes are required")
	}
	perm := permute.Identity(len(o.shape))
	if o.perm != nil {
		perm = *o.perm
	}
	return build(topo, o.shape, o.decompAxes, *o.elemType, perm)
}

// Derive constructs a Pencil sharing parent's topology, defaulting every
// unspecified attribute to parent's, per spec.md §4.3 constructor 2.
func Derive(parent *Pencil, opts ...Option) (*Pencil, error) {
	if parent == nil {
		return nil, perrors.NewConfigError("pencil.Derive", "parent must not be nil")
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	shape := parent.shape
	if o.shape != nil {
		shape = o.shape
	}
	decompAxes := parent.decompAxes
	if o.decompAxes != nil {
		decompAxes = o.decompAxes
	}
	elemType := parent.elemType
	if o.elemType != nil {
		elemType = *o.elemType
	}
	perm := parent.perm
	if o.perm != nil {
		perm = *o.perm
	}
	return build(parent.topo, shape, decompAxes, elemType, perm)
}

func build(topo *topology.Topology, shape []int, decompAxes []int, elemType elem.Type, perm permute.Permutation) (*Pencil, error) {
	n := len(shape)
	m := len(topo.Dims())

	if err := elemType.Validate(); err != nil {
		return nil, perrors.NewConfigError("pencil.build", "%v", err)
	}
	for _, s := range shape {
		if s < 1 {
			return nil, perrors.NewConfigError("pencil.build", "shape entries must be >= 1, got %v", shape)
		}
	}
	if len(decompAxes) != m {
		return nil, perrors.NewConfigError("pencil.build", "decomp axes count %d must equal topology dimensionality %d", len(decompAxes), m)
	}
	if m > n-1 {
		return nil, perrors.NewConfigError("pencil.build", "decomposed axis count %d leaves no local axis for N=%d (need M <= N-1)", m, n)
	}
	seen := make(map[int]bool, m)
	for _, a := range decompAxes {
		if a < 0 || a >= n {
			return nil, perrors.NewConfigError("pencil.build", "decomp axis %d out of range for N=%d", a, n)
		}
		if seen[a] {
			return nil, perrors.NewConfigError("pencil.build", "duplicate decomp axis %d", a)
		}
		seen[a] = true
	}
	if perm.Len() != n {
		return nil, perrors.NewConfigError("pencil.build", "permutation length %d must equal N=%d", perm.Len(), n)
	}

	return &Pencil{
		topo:       topo,
		shape:      append([]int(nil), shape...),
		elemType:   elemType,
		decompAxes: append([]int(nil), decompAxes...),
		perm:       perm,
	}, nil
}

// PartitionRange computes the balanced, deterministic [lo, hi) local range
// of a length-s axis split p ways, for 0-based local index index — the
// "standard formula" of spec.md §4.3: lo = floor(index*s/p),
// hi = floor((index+1)*s/p).
// This guarantees sum of lengths = s exactly and is identical on every
// process, the invariant transposition correctness depends on.
func PartitionRange(s, p, index int) (lo, hi int) {
	lo = (index * s) / p
	hi = ((index + 1) * s) / p
	return lo, hi
}

// Topology returns the pencil's topology.
func (pc *Pencil) Topology() *topology.Topology { return pc.topo }

// GlobalShape returns the global shape in logical axis order.
func (pc *Pencil) GlobalShape() []int { return append([]int(nil), pc.shape...) }

// ElemType returns the pencil's element type.
func (pc *Pencil) ElemType() elem.Type { return pc.elemType }

// DecompAxes returns the M decomposed logical axes, decompAxes[k] being
// the axis mapped to sub-communicator k.
func (pc *Pencil) DecompAxes() []int { return append([]int(nil), pc.decompAxes...) }

// Permutation returns the pencil's memory-order permutation.
func (pc *Pencil) Permutation() permute.Permutation { return pc.perm }

// N returns the grid dimensionality.
func (pc *Pencil) N() int { return len(pc.shape) }

// DecompIndex returns the sub-communicator index k that decomposes axis,
// and whether axis is decomposed at all.
func (pc *Pencil) DecompIndex(axis int) (k int, decomposed bool) {
	for k, a := range pc.decompAxes {
		if a == axis {
			return k, true
		}
	}
	return -1, false
}

// SubCommunicator returns the transport for decomposed-axis slot k.
func (pc *Pencil) SubCommunicator(k int) (comm.Transport, error) {
	if k < 0 || k >= len(pc.decompAxes) {
		return nil, perrors.NewConfigError("Pencil.SubCommunicator", "slot %d out of range for M=%d", k, len(pc.decompAxes))
	}
	return pc.topo.SubComm(k)
}

// LocalRange returns, for every logical axis, the [lo, hi) range this
// process owns: the full [0, S) range for local axes, and the balanced
// partition of the owning sub-communicator for decomposed axes.
func (pc *Pencil) LocalRange() [][2]int {
	return pc.localRangeForCoords(pc.topo.Coords(pc.topo.Rank()))
}

// LocalRangeForRank returns the local range that worldRank would own under
// this pencil. Both sides of a transposition can compute this for any
// peer without communication, per spec.md §4.5 step 1.
func (pc *Pencil) LocalRangeForRank(worldRank int) [][2]int {
	return pc.localRangeForCoords(pc.topo.Coords(worldRank))
}

func (pc *Pencil) localRangeForCoords(coords []int) [][2]int {
	n := len(pc.shape)
	out := make([][2]int, n)
	for axis := 0; axis < n; axis++ {
		if k, ok := pc.DecompIndex(axis); ok {
			p := pc.topo.Dims()[k]
			idx := coords[k]
			lo, hi := PartitionRange(pc.shape[axis], p, idx)
			out[axis] = [2]int{lo, hi}
		} else {
			out[axis] = [2]int{0, pc.shape[axis]}
		}
	}
	return out
}

// LocalShape returns the logical-order lengths of the local range.
func (pc *Pencil) LocalShape() []int {
	r := pc.LocalRange()
	out := make([]int, len(r))
	for i, rr := range r {
		out[i] = rr[1] - rr[0]
	}
	return out
}

// LocalSize returns the product of LocalShape.
func (pc *Pencil) LocalSize() int {
	size := 1
	for _, n := range pc.LocalShape() {
		size *= n
	}
	return size
}

// GlobalSize returns the product of the global shape.
func (pc *Pencil) GlobalSize() int {
	size := 1
	for _, n := range pc.shape {
		size *= n
	}
	return size
}

// SameDistribution reports whether two pencils share topology and global
// shape, the precondition spec.md §4.5 requires of any transposition pair.
func SameDistribution(a, b *Pencil) bool {
	if a.topo != b.topo {
		return false
	}
	if len(a.shape) != len(b.shape) {
		return false
	}
	for i := range a.shape {
		if a.shape[i] != b.shape[i] {
			return false
		}
	}
	return true
}

// DifferingSlot returns the single sub-communicator slot k whose assigned
// logical axis differs between in and out — axisFrom is the logical axis
// decomposed at k in `in` (becoming local in `out`), axisTo the axis
// decomposed at k in `out` (becoming local in `in`). This is the
// precondition spec.md §4.5 places on any transposition: both pencils
// share topology/shape/element type, and exactly one sub-communicator's
// axis assignment changes. Every other slot — and hence every other
// sub-communicator's member list — must stay identical, since a
// transposition exchanges data only among the peers already sharing that
// one sub-communicator.
func DifferingSlot(in, out *Pencil) (k int, axisFrom int, axisTo int, err error) {
	if !SameDistribution(in, out) {
		return 0, 0, 0, perrors.NewConfigError("pencil.DifferingSlot", "pencils do not share topology/global shape")
	}
	if in.elemType != out.elemType {
		return 0, 0, 0, perrors.NewConfigError("pencil.DifferingSlot", "pencils do not share element type (%v vs %v)", in.elemType, out.elemType)
	}
	if len(in.decompAxes) != len(out.decompAxes) {
		return 0, 0, 0, perrors.NewConfigError("pencil.DifferingSlot", "pencils do not share decomposition rank M")
	}
	var diffs []int
	for k := range in.decompAxes {
		if in.decompAxes[k] != out.decompAxes[k] {
			diffs = append(diffs, k)
		}
	}
	if len(diffs) != 1 {
		return 0, 0, 0, perrors.NewConfigError("pencil.DifferingSlot", "expected exactly one differing decomposed slot, got %v", diffs)
	}
	k = diffs[0]
	return k, in.decompAxes[k], out.decompAxes[k], nil
}
