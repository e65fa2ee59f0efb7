package topology

import (
	"context"
	"testing"

	"github.com/andewx/pencilfft/comm/local"
)

func TestNewRejectsMismatchedSize(t *testing.T) {
	worlds := local.NewWorld(4)
	if _, err := New(worlds[0], []int{2, 3}); err == nil {
		t.Errorf("New with mismatched dims product returned nil error, want error")
	}
}

func TestCoordsAndRankRoundTrip(t *testing.T) {
	dims := []int{2, 3}
	worlds := local.NewWorld(6)
	for rank, w := range worlds {
		topo, err := New(w, dims)
		if err != nil {
			t.Fatalf("rank %d: New: %v", rank, err)
		}
		coords := topo.Coords(rank)
		if got := rankOf(coords, dims); got != rank {
			t.Errorf("rank %d: rankOf(coordsOf(rank)) = %d, want %d", rank, got, rank)
		}
	}
}

func TestSubCommGrouping(t *testing.T) {
	dims := []int{2, 2}
	err := local.Run(context.Background(), 4, func(ctx context.Context, w *local.World) error {
		topo, err := New(w, dims)
		if err != nil {
			return err
		}
		for axis := range dims {
			sc, err := topo.SubComm(axis)
			if err != nil {
				return err
			}
			if sc.Size() != dims[axis] {
				t.Errorf("rank %d axis %d: SubComm size = %d, want %d", w.Rank(), axis, sc.Size(), dims[axis])
			}
			if err := sc.Barrier(ctx); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
}

func TestSubCommAxisOutOfRange(t *testing.T) {
	worlds := local.NewWorld(4)
	topo, err := New(worlds[0], []int{2, 2})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := topo.SubComm(2); err == nil {
		t.Errorf("SubComm(2) returned nil error, want error")
	}
	if _, err := topo.SubComm(-1); err == nil {
		t.Errorf("SubComm(-1) returned nil error, want error")
	}
}
