// Package darray implements the distributed array of spec.md §3/§4.4: a
// dense, contiguous local buffer addressed through a Pencil's permutation,
// with an optional trailing block of un-decomposed, un-permuted "extra"
// axes (e.g. a vector-component index riding alongside the grid axes).
package darray

import (
	"gonum.org/v1/gonum/cmplxs"
	"gonum.org/v1/gonum/floats"

	"github.com/andewx/pencilfft/elem"
	"github.com/andewx/pencilfft/pencil"
	"github.com/andewx/pencilfft/permute"
	"github.com/andewx/pencilfft/perrors"
)

// Array is the local buffer backing one pencil's share of the global grid.
// Exactly one of the typed slices is populated, selected by the pencil's
// element type: a tagged union of typed slices, with the As* accessors as
// the checked casts. An Array's storage is not reused across element types;
// a stage of a different type gets a new Array.
type Array struct {
	pc         *pencil.Pencil
	extraShape []int

	f32  []float32
	f64  []float64
	c64  []complex64
	c128 []complex128
}

func prod(shape []int) int {
	n := 1
	for _, s := range shape {
		n *= s
	}
	return n
}

// New allocates a zeroed Array over pc's local range, with extraShape
// trailing axes appended to every element's memory-order index.
func New(pc *pencil.Pencil, extraShape []int) (*Array, error) {
	if pc == nil {
		return nil, perrors.NewConfigError("darray.New", "pencil must not be nil")
	}
	for _, s := range extraShape {
		if s < 1 {
			return nil, perrors.NewConfigError("darray.New", "extra shape entries must be >= 1, got %v", extraShape)
		}
	}
	n := pc.LocalSize() * prod(extraShape)
	a := &Array{pc: pc, extraShape: append([]int(nil), extraShape...)}
	switch pc.ElemType() {
	case elem.Float32:
		a.f32 = make([]float32, n)
	case elem.Float64:
		a.f64 = make([]float64, n)
	case elem.Complex64:
		a.c64 = make([]complex64, n)
	case elem.Complex128:
		a.c128 = make([]complex128, n)
	default:
		return nil, perrors.NewConfigError("darray.New", "invalid element type %v", pc.ElemType())
	}
	return a, nil
}

// Pencil returns the distribution this array is local to.
func (a *Array) Pencil() *pencil.Pencil { return a.pc }

// ExtraShape returns the trailing, un-decomposed axis lengths.
func (a *Array) ExtraShape() []int { return append([]int(nil), a.extraShape...) }

// ElemType returns the array's element type.
func (a *Array) ElemType() elem.Type { return a.pc.ElemType() }

// AsFloat32 returns the backing slice if the array's element type is
// Float32, else a *perrors.TypeError.
func (a *Array) AsFloat32() ([]float32, error) {
	if a.pc.ElemType() != elem.Float32 {
		return nil, perrors.NewTypeError("Array.AsFloat32", "array element type is %v, not float32", a.pc.ElemType())
	}
	return a.f32, nil
}

// AsFloat64 returns the backing slice if the array's element type is
// Float64, else a *perrors.TypeError.
func (a *Array) AsFloat64() ([]float64, error) {
	if a.pc.ElemType() != elem.Float64 {
		return nil, perrors.NewTypeError("Array.AsFloat64", "array element type is %v, not float64", a.pc.ElemType())
	}
	return a.f64, nil
}

// AsComplex64 returns the backing slice if the array's element type is
// Complex64, else a *perrors.TypeError.
func (a *Array) AsComplex64() ([]complex64, error) {
	if a.pc.ElemType() != elem.Complex64 {
		return nil, perrors.NewTypeError("Array.AsComplex64", "array element type is %v, not complex64", a.pc.ElemType())
	}
	return a.c64, nil
}

// AsComplex128 returns the backing slice if the array's element type is
// Complex128, else a *perrors.TypeError.
func (a *Array) AsComplex128() ([]complex128, error) {
	if a.pc.ElemType() != elem.Complex128 {
		return nil, perrors.NewTypeError("Array.AsComplex128", "array element type is %v, not complex128", a.pc.ElemType())
	}
	return a.c128, nil
}

// Bytes returns the backing storage as raw bytes, for use as transpose
// send/receive buffers regardless of element type.
func (a *Array) Bytes() []byte {
	switch a.pc.ElemType() {
	case elem.Float32:
		return float32Bytes(a.f32)
	case elem.Float64:
		return float64Bytes(a.f64)
	case elem.Complex64:
		return complex64Bytes(a.c64)
	case elem.Complex128:
		return complex128Bytes(a.c128)
	default:
		return nil
	}
}

// MemoryShape returns the permuted local grid shape with extraShape
// appended: the layout of the backing buffer, position 0 varying fastest.
func (a *Array) MemoryShape() []int {
	local := a.pc.LocalShape()
	mem := permute.Apply(a.pc.Permutation(), local)
	return append(mem, a.extraShape...)
}

// stridesFastestFirst computes strides for a shape whose position 0 is the
// fastest-varying axis (stride 1) and position n-1 the slowest — the
// convention permute.Permutation uses (P[0] is fastest), so MemoryShape's
// position 0 already names the permutation-fastest logical axis and needs
// no further reversal here.
func stridesFastestFirst(shape []int) []int {
	n := len(shape)
	s := make([]int, n)
	acc := 1
	for i := 0; i < n; i++ {
		s[i] = acc
		acc *= shape[i]
	}
	return s
}

// Offset computes the flat backing-buffer index for a logical local
// coordinate (length N, 0 <= logicalCoord[i] < LocalShape()[i]) and an
// extra-axis coordinate (length len(ExtraShape())).
func (a *Array) Offset(logicalCoord, extraCoord []int) (int, error) {
	localShape := a.pc.LocalShape()
	if len(logicalCoord) != len(localShape) {
		return 0, perrors.NewIndexError("Array.Offset", logicalCoord, "expected %d logical coordinates, got %d", len(localShape), len(logicalCoord))
	}
	if len(extraCoord) != len(a.extraShape) {
		return 0, perrors.NewIndexError("Array.Offset", extraCoord, "expected %d extra coordinates, got %d", len(a.extraShape), len(extraCoord))
	}
	for i, c := range logicalCoord {
		if c < 0 || c >= localShape[i] {
			return 0, perrors.NewIndexError("Array.Offset", logicalCoord, "logical coordinate %d out of range [0,%d)", c, localShape[i])
		}
	}
	for i, c := range extraCoord {
		if c < 0 || c >= a.extraShape[i] {
			return 0, perrors.NewIndexError("Array.Offset", extraCoord, "extra coordinate %d out of range [0,%d)", c, a.extraShape[i])
		}
	}

	memCoord := permute.Apply(a.pc.Permutation(), logicalCoord)
	full := append(append([]int(nil), memCoord...), extraCoord...)
	strides := stridesFastestFirst(a.MemoryShape())

	off := 0
	for i, c := range full {
		off += c * strides[i]
	}
	return off, nil
}

// Get returns the element at logicalCoord/extraCoord, promoted to
// complex128 regardless of the array's underlying element type.
func (a *Array) Get(logicalCoord, extraCoord []int) (complex128, error) {
	off, err := a.Offset(logicalCoord, extraCoord)
	if err != nil {
		return 0, err
	}
	switch a.pc.ElemType() {
	case elem.Float32:
		return complex(float64(a.f32[off]), 0), nil
	case elem.Float64:
		return complex(a.f64[off], 0), nil
	case elem.Complex64:
		return complex128(a.c64[off]), nil
	case elem.Complex128:
		return a.c128[off], nil
	default:
		return 0, perrors.NewTypeError("Array.Get", "invalid element type %v", a.pc.ElemType())
	}
}

// Set writes v (demoted as needed) at logicalCoord/extraCoord. Setting a
// non-zero imaginary part on a real-typed array returns a *perrors.TypeError.
func (a *Array) Set(logicalCoord, extraCoord []int, v complex128) error {
	off, err := a.Offset(logicalCoord, extraCoord)
	if err != nil {
		return err
	}
	switch a.pc.ElemType() {
	case elem.Float32:
		if imag(v) != 0 {
			return perrors.NewTypeError("Array.Set", "cannot store complex value into float32 array")
		}
		a.f32[off] = float32(real(v))
	case elem.Float64:
		if imag(v) != 0 {
			return perrors.NewTypeError("Array.Set", "cannot store complex value into float64 array")
		}
		a.f64[off] = real(v)
	case elem.Complex64:
		a.c64[off] = complex64(v)
	case elem.Complex128:
		a.c128[off] = v
	default:
		return perrors.NewTypeError("Array.Set", "invalid element type %v", a.pc.ElemType())
	}
	return nil
}

// GlobalView adapts an Array to global logical coordinates, translating
// them to the owning rank's local coordinate and bounds-checking against
// the rank's local range (spec.md §4.4's checked-build global_view).
type GlobalView struct {
	arr   *Array
	local [][2]int
}

// GlobalView returns a checked accessor addressed by global coordinates.
func (a *Array) GlobalView() *GlobalView {
	return &GlobalView{arr: a, local: a.pc.LocalRange()}
}

func (gv *GlobalView) toLocal(globalCoord []int) ([]int, error) {
	n := len(gv.local)
	if len(globalCoord) != n {
		return nil, perrors.NewIndexError("GlobalView", globalCoord, "expected %d global coordinates, got %d", n, len(globalCoord))
	}
	local := make([]int, n)
	for i, c := range globalCoord {
		lo, hi := gv.local[i][0], gv.local[i][1]
		if c < lo || c >= hi {
			return nil, perrors.NewIndexError("GlobalView", globalCoord, "global coordinate %d outside this rank's range [%d,%d) on axis %d", c, lo, hi, i)
		}
		local[i] = c - lo
	}
	return local, nil
}

// Get reads the element at a global logical coordinate owned by this rank.
func (gv *GlobalView) Get(globalCoord, extraCoord []int) (complex128, error) {
	local, err := gv.toLocal(globalCoord)
	if err != nil {
		return 0, err
	}
	return gv.arr.Get(local, extraCoord)
}

// Set writes the element at a global logical coordinate owned by this rank.
func (gv *GlobalView) Set(globalCoord, extraCoord []int, v complex128) error {
	local, err := gv.toLocal(globalCoord)
	if err != nil {
		return err
	}
	return gv.arr.Set(local, extraCoord, v)
}

// Similar allocates a new, zeroed Array sharing this array's pencil and
// extra shape.
func (a *Array) Similar() (*Array, error) {
	return New(a.pc, a.extraShape)
}

// Clone returns a deep copy of a.
func (a *Array) Clone() *Array {
	out := &Array{pc: a.pc, extraShape: append([]int(nil), a.extraShape...)}
	out.f32 = append([]float32(nil), a.f32...)
	out.f64 = append([]float64(nil), a.f64...)
	out.c64 = append([]complex64(nil), a.c64...)
	out.c128 = append([]complex128(nil), a.c128...)
	return out
}

// AddInPlace adds b elementwise into a. Complex128 and Float64 arrays route
// through gonum's cmplxs/floats packages; Float32/Complex64 arrays (which
// gonum's elementwise routines do not operate on) fall back to a manual
// loop.
func (a *Array) AddInPlace(b *Array) error {
	if a.pc.ElemType() != b.pc.ElemType() {
		return perrors.NewTypeError("Array.AddInPlace", "mismatched element types %v vs %v", a.pc.ElemType(), b.pc.ElemType())
	}
	switch a.pc.ElemType() {
	case elem.Complex128:
		if len(a.c128) != len(b.c128) {
			return perrors.NewShapeError("Array.AddInPlace", len(a.c128), len(b.c128))
		}
		cmplxs.Add(a.c128, b.c128)
	case elem.Float64:
		if len(a.f64) != len(b.f64) {
			return perrors.NewShapeError("Array.AddInPlace", len(a.f64), len(b.f64))
		}
		floats.Add(a.f64, b.f64)
	case elem.Float32:
		if len(a.f32) != len(b.f32) {
			return perrors.NewShapeError("Array.AddInPlace", len(a.f32), len(b.f32))
		}
		for i := range a.f32 {
			a.f32[i] += b.f32[i]
		}
	case elem.Complex64:
		if len(a.c64) != len(b.c64) {
			return perrors.NewShapeError("Array.AddInPlace", len(a.c64), len(b.c64))
		}
		for i := range a.c64 {
			a.c64[i] += b.c64[i]
		}
	default:
		return perrors.NewTypeError("Array.AddInPlace", "invalid element type %v", a.pc.ElemType())
	}
	return nil
}

// ScaleInPlace multiplies every element of a by s. s's imaginary part must
// be zero for real-typed arrays.
func (a *Array) ScaleInPlace(s complex128) error {
	switch a.pc.ElemType() {
	case elem.Complex128:
		cmplxs.Scale(complex128(s), a.c128)
	case elem.Float64:
		if imag(s) != 0 {
			return perrors.NewTypeError("Array.ScaleInPlace", "cannot scale float64 array by a complex factor")
		}
		floats.Scale(real(s), a.f64)
	case elem.Float32:
		if imag(s) != 0 {
			return perrors.NewTypeError("Array.ScaleInPlace", "cannot scale float32 array by a complex factor")
		}
		r := float32(real(s))
		for i := range a.f32 {
			a.f32[i] *= r
		}
	case elem.Complex64:
		c := complex64(s)
		for i := range a.c64 {
			a.c64[i] *= c
		}
	default:
		return perrors.NewTypeError("Array.ScaleInPlace", "invalid element type %v", a.pc.ElemType())
	}
	return nil
}
