package pfftio

import (
	"bytes"
	"testing"

	"github.com/andewx/pencilfft/comm/local"
	"github.com/andewx/pencilfft/darray"
	"github.com/andewx/pencilfft/elem"
	"github.com/andewx/pencilfft/pencil"
	"github.com/andewx/pencilfft/permute"
	"github.com/andewx/pencilfft/topology"
)

func singleRankPencil(t *testing.T, shape []int, ty elem.Type) *pencil.Pencil {
	t.Helper()
	worlds := local.NewWorld(1)
	topo, err := topology.New(worlds[0], []int{1})
	if err != nil {
		t.Fatalf("topology.New: %v", err)
	}
	pc, err := pencil.New(topo,
		pencil.WithShape(shape),
		pencil.WithElemType(ty),
		pencil.WithDecompAxes([]int{len(shape) - 1}),
		pencil.WithPermutation(permute.Identity(len(shape))),
	)
	if err != nil {
		t.Fatalf("pencil.New: %v", err)
	}
	return pc
}

func TestWriteReadSnapshotRoundTrip(t *testing.T) {
	shape := []int{3, 4}
	pc := singleRankPencil(t, shape, elem.Complex128)
	src, err := darray.New(pc, nil)
	if err != nil {
		t.Fatalf("darray.New: %v", err)
	}
	for i := 0; i < shape[0]; i++ {
		for j := 0; j < shape[1]; j++ {
			if err := src.Set([]int{i, j}, nil, complex(float64(i), float64(j))); err != nil {
				t.Fatalf("Set: %v", err)
			}
		}
	}

	var buf bytes.Buffer
	if err := WriteSnapshot(&buf, src, 0); err != nil {
		t.Fatalf("WriteSnapshot: %v", err)
	}

	dst, err := darray.New(pc, nil)
	if err != nil {
		t.Fatalf("darray.New dst: %v", err)
	}
	hdr, err := ReadSnapshot(&buf, dst)
	if err != nil {
		t.Fatalf("ReadSnapshot: %v", err)
	}
	if hdr.WorldRank != 0 {
		t.Errorf("header WorldRank = %d, want 0", hdr.WorldRank)
	}
	if hdr.ElemType != elem.Complex128 {
		t.Errorf("header ElemType = %v, want Complex128", hdr.ElemType)
	}

	for i := 0; i < shape[0]; i++ {
		for j := 0; j < shape[1]; j++ {
			got, err := dst.Get([]int{i, j}, nil)
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			want := complex(float64(i), float64(j))
			if got != want {
				t.Errorf("round trip [%d,%d] = %v, want %v", i, j, got, want)
			}
		}
	}
}

func TestEncodeSnapshotBytesMatchesWriteSnapshot(t *testing.T) {
	shape := []int{2, 2}
	pc := singleRankPencil(t, shape, elem.Float64)
	a, err := darray.New(pc, nil)
	if err != nil {
		t.Fatalf("darray.New: %v", err)
	}
	if err := a.Set([]int{0, 0}, nil, complex(1, 0)); err != nil {
		t.Fatalf("Set: %v", err)
	}

	encoded, err := EncodeSnapshotBytes(a, 2)
	if err != nil {
		t.Fatalf("EncodeSnapshotBytes: %v", err)
	}

	dst, err := darray.New(pc, nil)
	if err != nil {
		t.Fatalf("darray.New dst: %v", err)
	}
	hdr, err := ReadSnapshot(bytes.NewReader(encoded), dst)
	if err != nil {
		t.Fatalf("ReadSnapshot: %v", err)
	}
	if hdr.WorldRank != 2 {
		t.Errorf("header WorldRank = %d, want 2", hdr.WorldRank)
	}
	got, err := dst.Get([]int{0, 0}, nil)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != complex(1, 0) {
		t.Errorf("dst[0,0] = %v, want 1", got)
	}
}

func TestReadSnapshotRejectsMismatchedElemType(t *testing.T) {
	shape := []int{2, 2}
	src, err := darray.New(singleRankPencil(t, shape, elem.Float64), nil)
	if err != nil {
		t.Fatalf("darray.New: %v", err)
	}
	var buf bytes.Buffer
	if err := WriteSnapshot(&buf, src, 0); err != nil {
		t.Fatalf("WriteSnapshot: %v", err)
	}

	dst, err := darray.New(singleRankPencil(t, shape, elem.Complex128), nil)
	if err != nil {
		t.Fatalf("darray.New dst: %v", err)
	}
	if _, err := ReadSnapshot(&buf, dst); err == nil {
		t.Errorf("ReadSnapshot with mismatched element type returned nil error, want error")
	}
}
