// Package transpose implements the pencil-to-pencil data redistribution of
// spec.md §4.5: given a source and destination Array whose pencils share a
// topology and global shape but disagree on exactly one decomposed axis,
// it moves every element to the rank that owns it under the destination
// pencil, choosing between a pairwise non-blocking strategy and a single
// vectored all-to-all collective.
package transpose

import (
	"context"
	"encoding/binary"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/andewx/pencilfft/comm"
	"github.com/andewx/pencilfft/darray"
	"github.com/andewx/pencilfft/elem"
	"github.com/andewx/pencilfft/pencil"
	"github.com/andewx/pencilfft/perrors"
)

// Method selects the wire strategy used to realize a Transpose.
type Method int

const (
	// Pairwise issues one non-blocking send/receive pair per peer sharing
	// the affected sub-communicator, analogous to the teacher's
	// goroutine-per-chunk fan-out in FastMultiConvolve.
	Pairwise Method = iota
	// AllToAll issues a single vectored collective exchange.
	AllToAll
)

// Transpose moves src's contents (distributed under src.Pencil()) into dst
// (distributed under dst.Pencil()), redistributing exactly the one
// decomposed axis on which the two pencils disagree.
func Transpose(ctx context.Context, dst, src *darray.Array, method Method) error {
	k, axisFrom, axisTo, err := pencil.DifferingSlot(src.Pencil(), dst.Pencil())
	if err != nil {
		return err
	}
	if len(src.ExtraShape()) != len(dst.ExtraShape()) {
		return perrors.NewConfigError("transpose.Transpose", "src/dst extra-axis shapes differ")
	}
	for i, s := range src.ExtraShape() {
		if s != dst.ExtraShape()[i] {
			return perrors.NewConfigError("transpose.Transpose", "src/dst extra-axis shapes differ")
		}
	}

	sub, err := src.Pencil().SubCommunicator(k)
	if err != nil {
		return err
	}
	p := sub.Size()
	myIdx := sub.Rank()

	shape := src.Pencil().GlobalShape()
	common := src.Pencil().LocalRange()
	extra := src.ExtraShape()
	t := src.ElemType()

	blockRanges := func(axisFromRange, axisToRange [2]int) [][2]int {
		ranges := make([][2]int, len(shape))
		copy(ranges, common)
		ranges[axisFrom] = axisFromRange
		ranges[axisTo] = axisToRange
		return ranges
	}

	sendRangeFor := func(q int) [][2]int {
		fromLo, fromHi := pencil.PartitionRange(shape[axisFrom], p, myIdx)
		toLo, toHi := pencil.PartitionRange(shape[axisTo], p, q)
		return blockRanges([2]int{fromLo, fromHi}, [2]int{toLo, toHi})
	}
	recvRangeFor := func(peer int) [][2]int {
		fromLo, fromHi := pencil.PartitionRange(shape[axisFrom], p, peer)
		toLo, toHi := pencil.PartitionRange(shape[axisTo], p, myIdx)
		return blockRanges([2]int{fromLo, fromHi}, [2]int{toLo, toHi})
	}

	switch method {
	case Pairwise:
		return transposePairwise(ctx, dst, src, sub, p, myIdx, t, extra, sendRangeFor, recvRangeFor)
	case AllToAll:
		return transposeAllToAll(ctx, dst, src, sub, p, myIdx, t, extra, sendRangeFor, recvRangeFor)
	default:
		return perrors.NewConfigError("transpose.Transpose", "unknown method %d", int(method))
	}
}

const transposeTag = 7

func transposePairwise(ctx context.Context, dst, src *darray.Array, sub comm.Transport, p, myIdx int,
	t elem.Type, extra []int,
	sendRangeFor, recvRangeFor func(int) [][2]int) error {

	g, ctx := errgroup.WithContext(ctx)
	for q := 0; q < p; q++ {
		q := q
		if q == myIdx {
			copyLocal(dst, src, sendRangeFor(q), extra)
			continue
		}
		g.Go(func() error {
			buf := packBlock(src, sendRangeFor(q), extra, t)
			req, err := sub.Isend(ctx, q, transposeTag, buf)
			if err != nil {
				return err
			}
			return req.Wait(ctx)
		})
		g.Go(func() error {
			ranges := recvRangeFor(q)
			n := blockCount(ranges, extra)
			buf := make([]byte, n*t.Size())
			req, err := sub.Irecv(ctx, q, transposeTag, buf)
			if err != nil {
				return err
			}
			if err := req.Wait(ctx); err != nil {
				return err
			}
			return unpackBlock(dst, buf, ranges, extra, t)
		})
	}
	return g.Wait()
}

func transposeAllToAll(ctx context.Context, dst, src *darray.Array, sub comm.Transport, p, myIdx int,
	t elem.Type, extra []int,
	sendRangeFor, recvRangeFor func(int) [][2]int) error {

	sendCounts := make([]int, p)
	sendDispls := make([]int, p)
	recvCounts := make([]int, p)
	recvDispls := make([]int, p)

	sendRanges := make([][][2]int, p)
	recvRanges := make([][][2]int, p)
	sendOff, recvOff := 0, 0
	for q := 0; q < p; q++ {
		sendRanges[q] = sendRangeFor(q)
		recvRanges[q] = recvRangeFor(q)
		sc := blockCount(sendRanges[q], extra) * t.Size()
		rc := blockCount(recvRanges[q], extra) * t.Size()
		sendCounts[q], sendDispls[q] = sc, sendOff
		recvCounts[q], recvDispls[q] = rc, recvOff
		sendOff += sc
		recvOff += rc
	}

	sendBuf := make([]byte, sendOff)
	for q := 0; q < p; q++ {
		if q == myIdx {
			copyLocal(dst, src, sendRanges[q], extra)
			continue
		}
		packInto(sendBuf[sendDispls[q]:sendDispls[q]+sendCounts[q]], src, sendRanges[q], extra, t)
	}
	recvBuf := make([]byte, recvOff)

	if err := sub.Alltoallv(ctx, sendBuf, sendCounts, sendDispls, recvBuf, recvCounts, recvDispls); err != nil {
		return err
	}

	for q := 0; q < p; q++ {
		if q == myIdx {
			continue
		}
		if err := unpackBlock(dst, recvBuf[recvDispls[q]:recvDispls[q]+recvCounts[q]], recvRanges[q], extra, t); err != nil {
			return err
		}
	}
	return nil
}

func copyLocal(dst, src *darray.Array, ranges [][2]int, extra []int) {
	sv, dv := src.GlobalView(), dst.GlobalView()
	forEachCoord(ranges, extra, func(coord, extraCoord []int) {
		v, _ := sv.Get(coord, extraCoord)
		_ = dv.Set(coord, extraCoord, v)
	})
}

func blockCount(ranges [][2]int, extra []int) int {
	n := 1
	for _, r := range ranges {
		n *= r[1] - r[0]
	}
	for _, e := range extra {
		n *= e
	}
	return n
}

func packBlock(src *darray.Array, ranges [][2]int, extra []int, t elem.Type) []byte {
	buf := make([]byte, blockCount(ranges, extra)*t.Size())
	packInto(buf, src, ranges, extra, t)
	return buf
}

func packInto(buf []byte, src *darray.Array, ranges [][2]int, extra []int, t elem.Type) {
	sv := src.GlobalView()
	off := 0
	size := t.Size()
	forEachCoord(ranges, extra, func(coord, extraCoord []int) {
		v, _ := sv.Get(coord, extraCoord)
		encodeValue(t, v, buf[off:off+size])
		off += size
	})
}

func unpackBlock(dst *darray.Array, buf []byte, ranges [][2]int, extra []int, t elem.Type) error {
	dv := dst.GlobalView()
	off := 0
	size := t.Size()
	var firstErr error
	forEachCoord(ranges, extra, func(coord, extraCoord []int) {
		v := decodeValue(t, buf[off:off+size])
		off += size
		if err := dv.Set(coord, extraCoord, v); err != nil && firstErr == nil {
			firstErr = err
		}
	})
	return firstErr
}

// forEachCoord visits every (grid coordinate, extra coordinate) pair in the
// cartesian product of ranges x extra, in row-major order, grid axes
// outermost and extra axes innermost — the canonical order both the
// packing and unpacking side derive independently and therefore agree on.
func forEachCoord(ranges [][2]int, extra []int, visit func(coord, extraCoord []int)) {
	coord := make([]int, len(ranges))
	extraCoord := make([]int, len(extra))

	var walkExtra func(e int)
	walkExtra = func(e int) {
		if e == len(extra) {
			visit(coord, extraCoord)
			return
		}
		for v := 0; v < extra[e]; v++ {
			extraCoord[e] = v
			walkExtra(e + 1)
		}
	}

	var walk func(axis int)
	walk = func(axis int) {
		if axis == len(ranges) {
			walkExtra(0)
			return
		}
		for v := ranges[axis][0]; v < ranges[axis][1]; v++ {
			coord[axis] = v
			walk(axis + 1)
		}
	}
	walk(0)
}

func encodeValue(t elem.Type, v complex128, buf []byte) {
	switch t {
	case elem.Float32:
		binary.LittleEndian.PutUint32(buf, math.Float32bits(float32(real(v))))
	case elem.Float64:
		binary.LittleEndian.PutUint64(buf, math.Float64bits(real(v)))
	case elem.Complex64:
		binary.LittleEndian.PutUint32(buf, math.Float32bits(float32(real(v))))
		binary.LittleEndian.PutUint32(buf[4:], math.Float32bits(float32(imag(v))))
	case elem.Complex128:
		binary.LittleEndian.PutUint64(buf, math.Float64bits(real(v)))
		binary.LittleEndian.PutUint64(buf[8:], math.Float64bits(imag(v)))
	}
}

func decodeValue(t elem.Type, buf []byte) complex128 {
	switch t {
	case elem.Float32:
		return complex(float64(math.Float32frombits(binary.LittleEndian.Uint32(buf))), 0)
	case elem.Float64:
		return complex(math.Float64frombits(binary.LittleEndian.Uint64(buf)), 0)
	case elem.Complex64:
		re := math.Float32frombits(binary.LittleEndian.Uint32(buf))
		im := math.Float32frombits(binary.LittleEndian.Uint32(buf[4:]))
		return complex(float64(re), float64(im))
	case elem.Complex128:
		re := math.Float64frombits(binary.LittleEndian.Uint64(buf))
		im := math.Float64frombits(binary.LittleEndian.Uint64(buf[8:]))
		return complex(re, im)
	}
	return 0
}
