// Package topology builds the M-dimensional Cartesian process arrangement
// described in spec.md §3/§4.2: process ranks are assigned Cartesian
// coordinates deterministically (no reordering, no runtime negotiation —
// MPI_Cart_create with Topology.Dims() fixed), and one sub-communicator
// per grid dimension is exposed as the scope of a transposition.
package topology

import (
	"github.com/andewx/pencilfft/comm"
	"github.com/andewx/pencilfft/perrors"
)

// Topology is an immutable M-dimensional Cartesian arrangement of
// processes built on top of a flat communicator.
type Topology struct {
	world    comm.Grouper
	dims     []int
	rank     int
	coords   []int
	subComms []comm.Transport
}

// New constructs a Topology of the given per-dimension process counts over
// world. It fails with a *perrors.ConfigError if the product of dims does
// not equal world.Size(), matching spec.md §4.2.
func New(world comm.Grouper, dims []int) (*Topology, error) {
	if len(dims) == 0 {
		return nil, perrors.NewConfigError("topology.New", "dims must have at least one dimension")
	}
	prod := 1
	for _, d := range dims {
		if d < 1 {
			return nil, perrors.NewConfigError("topology.New", "dims entries must be >= 1, got %v", dims)
		}
		prod *= d
	}
	if prod != world.Size() {
		return nil, perrors.NewConfigError("topology.New", "product of dims %v (%d) must equal world size %d", dims, prod, world.Size())
	}

	t := &Topology{
		world:  world,
		dims:   append([]int(nil), dims...),
		rank:   world.Rank(),
		coords: coordsOf(world.Rank(), dims),
	}

	t.subComms = make([]comm.Transport, len(dims))
	for axis := range dims {
		members := membersSharingOthers(t.coords, dims, axis)
		local := t.coords[axis]
		sc, err := world.Group(axis, members, local)
		if err != nil {
			return nil, err
		}
		t.subComms[axis] = sc
	}
	return t, nil
}

// coordsOf decodes a flat rank into row-major Cartesian coordinates: the
// last dimension varies fastest, mirroring MPI_Cart_create's default order.
func coordsOf(rank int, dims []int) []int {
	coords := make([]int, len(dims))
	r := rank
	for k := len(dims) - 1; k >= 0; k-- {
		coords[k] = r % dims[k]
		r /= dims[k]
	}
	return coords
}

// rankOf is the inverse of coordsOf.
func rankOf(coords, dims []int) int {
	rank := 0
	for k := 0; k < len(dims); k++ {
		rank = rank*dims[k] + coords[k]
	}
	return rank
}

// membersSharingOthers returns the world ranks that share every coordinate
// of coords except along axis, ordered by their coordinate along axis
// (so the returned slice's index equals the sub-communicator's local rank).
func membersSharingOthers(coords, dims []int, axis int) []int {
	members := make([]int, dims[axis])
	c := append([]int(nil), coords...)
	for v := 0; v < dims[axis]; v++ {
		c[axis] = v
		members[v] = rankOf(c, dims)
	}
	return members
}

// Dims returns the per-dimension process counts (P_1,...,P_M).
func (t *Topology) Dims() []int { return append([]int(nil), t.dims...) }

// WorldSize returns the total number of processes in the topology.
func (t *Topology) WorldSize() int { return t.world.Size() }

// Rank returns the calling process's flat world rank.
func (t *Topology) Rank() int { return t.rank }

// Coords returns the Cartesian coordinates of an arbitrary world rank —
// a pure function of (rank, dims), requiring no communication.
func (t *Topology) Coords(rank int) []int { return coordsOf(rank, t.dims) }

// SubComm returns the sub-communicator collecting every rank that shares
// all Cartesian coordinates except along dimension axis.
func (t *Topology) SubComm(axis int) (comm.Transport, error) {
	if axis < 0 || axis >= len(t.dims) {
		return nil, perrors.NewConfigError("Topology.SubComm", "axis %d out of range for %d dimensions", axis, len(t.dims))
	}
	return t.subComms[axis], nil
}
