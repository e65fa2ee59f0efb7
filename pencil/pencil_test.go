package pencil

import (
	"testing"

	"github.com/andewx/pencilfft/comm/local"
	"github.com/andewx/pencilfft/elem"
	"github.com/andewx/pencilfft/permute"
	"github.com/andewx/pencilfft/topology"
)

func buildTopology(t *testing.T, worldSize int, dims []int) *topology.Topology {
	t.Helper()
	worlds := local.NewWorld(worldSize)
	topo, err := topology.New(worlds[0], dims)
	if err != nil {
		t.Fatalf("topology.New: %v", err)
	}
	return topo
}

func TestPartitionRangeCoversWholeAxis(t *testing.T) {
	cases := []struct{ s, p int }{
		{17, 4}, {21, 3}, {100, 7}, {1, 1},
	}
	for _, c := range cases {
		total := 0
		for idx := 0; idx < c.p; idx++ {
			lo, hi := PartitionRange(c.s, c.p, idx)
			if hi < lo {
				t.Fatalf("PartitionRange(%d,%d,%d) = [%d,%d), hi<lo", c.s, c.p, idx, lo, hi)
			}
			total += hi - lo
		}
		if total != c.s {
			t.Errorf("PartitionRange(%d,%d,*) total = %d, want %d", c.s, c.p, total, c.s)
		}
	}
}

func TestNewRequiresFields(t *testing.T) {
	topo := buildTopology(t, 4, []int{2, 2})
	if _, err := New(topo, WithElemType(elem.Complex128), WithDecompAxes([]int{1, 2})); err == nil {
		t.Errorf("New without shape returned nil error, want error")
	}
	if _, err := New(topo, WithShape([]int{4, 5, 6}), WithDecompAxes([]int{1, 2})); err == nil {
		t.Errorf("New without element type returned nil error, want error")
	}
	if _, err := New(topo, WithShape([]int{4, 5, 6}), WithElemType(elem.Complex128)); err == nil {
		t.Errorf("New without decomp axes returned nil error, want error")
	}
}

func TestNewRejectsOverDecomposition(t *testing.T) {
	topo := buildTopology(t, 4, []int{2, 2})
	_, err := New(topo, WithShape([]int{4, 5}), WithElemType(elem.Complex128), WithDecompAxes([]int{0, 1}))
	if err == nil {
		t.Errorf("New with M == N returned nil error, want error (need M <= N-1)")
	}
}

func TestLocalRangePartitionsExactly(t *testing.T) {
	topo := buildTopology(t, 4, []int{2, 2})
	shape := []int{16, 21, 41}
	pc, err := New(topo, WithShape(shape), WithElemType(elem.Complex128), WithDecompAxes([]int{1, 2}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	totals := make([]int, len(shape))
	dims := topo.Dims()
	for rank := 0; rank < topo.WorldSize(); rank++ {
		lr := pc.LocalRangeForRank(rank)
		for axis, r := range lr {
			totals[axis] += r[1] - r[0]
		}
	}
	// Every decomposed axis is covered worldSize/P_local-many times per
	// local partition repeated across the orthogonal dimension, so divide
	// out the orthogonal multiplicity before comparing to shape.
	for axis, total := range totals {
		multiplicity := topo.WorldSize()
		if k, ok := pc.DecompIndex(axis); ok {
			multiplicity /= dims[k]
		}
		if total/multiplicity != shape[axis] || total%multiplicity != 0 {
			t.Errorf("axis %d: summed local lengths %d over multiplicity %d, want %d", axis, total, multiplicity, shape[axis])
		}
	}
	if pc.GlobalSize() != shape[0]*shape[1]*shape[2] {
		t.Fatalf("GlobalSize mismatch")
	}
}

func TestDerivePreservesUnspecifiedFields(t *testing.T) {
	topo := buildTopology(t, 4, []int{2, 2})
	parent, err := New(topo, WithShape([]int{8, 9, 10}), WithElemType(elem.Complex128), WithDecompAxes([]int{1, 2}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	child, err := Derive(parent, WithShape([]int{8, 9, 6}))
	if err != nil {
		t.Fatalf("Derive: %v", err)
	}
	if child.ElemType() != parent.ElemType() {
		t.Errorf("Derive changed ElemType: got %v, want %v", child.ElemType(), parent.ElemType())
	}
	if !equalIntSlice(child.DecompAxes(), parent.DecompAxes()) {
		t.Errorf("Derive changed DecompAxes: got %v, want %v", child.DecompAxes(), parent.DecompAxes())
	}
	if !permute.Equal(child.Permutation(), parent.Permutation()) {
		t.Errorf("Derive changed Permutation")
	}
}

func TestDifferingSlot(t *testing.T) {
	topo := buildTopology(t, 4, []int{2, 2})
	in, err := New(topo, WithShape([]int{8, 9, 10}), WithElemType(elem.Complex128), WithDecompAxes([]int{1, 2}))
	if err != nil {
		t.Fatalf("New in: %v", err)
	}
	out, err := Derive(in, WithDecompAxes([]int{0, 2}))
	if err != nil {
		t.Fatalf("Derive out: %v", err)
	}
	k, from, to, err := DifferingSlot(in, out)
	if err != nil {
		t.Fatalf("DifferingSlot: %v", err)
	}
	if k != 0 || from != 1 || to != 0 {
		t.Errorf("DifferingSlot = (%d,%d,%d), want (0,1,0)", k, from, to)
	}
}

func TestDifferingSlotRejectsMultipleChanges(t *testing.T) {
	topo := buildTopology(t, 4, []int{2, 2})
	in, err := New(topo, WithShape([]int{8, 9, 10}), WithElemType(elem.Complex128), WithDecompAxes([]int{1, 2}))
	if err != nil {
		t.Fatalf("New in: %v", err)
	}
	out, err := Derive(in, WithDecompAxes([]int{0, 1}))
	if err != nil {
		t.Fatalf("Derive out: %v", err)
	}
	if _, _, _, err := DifferingSlot(in, out); err == nil {
		t.Errorf("DifferingSlot with two changed slots returned nil error, want error")
	}
}

func equalIntSlice(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
