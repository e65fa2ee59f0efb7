package darray

import (
	"encoding/binary"
	"math"
)

// The transpose engine moves Array contents as raw bytes over comm.Transport;
// these helpers marshal each element type to/from little-endian bytes, in
// the same spirit as the teacher's Float64ToComplex128Array/
// Complex128ToFloat64Array conversions in utils.go, generalized to every
// element type and to byte slices rather than float/complex slices.

func float32Bytes(xs []float32) []byte {
	out := make([]byte, 4*len(xs))
	for i, x := range xs {
		binary.LittleEndian.PutUint32(out[4*i:], math.Float32bits(x))
	}
	return out
}

func float64Bytes(xs []float64) []byte {
	out := make([]byte, 8*len(xs))
	for i, x := range xs {
		binary.LittleEndian.PutUint64(out[8*i:], math.Float64bits(x))
	}
	return out
}

func complex64Bytes(xs []complex64) []byte {
	out := make([]byte, 8*len(xs))
	for i, x := range xs {
		binary.LittleEndian.PutUint32(out[8*i:], math.Float32bits(real(x)))
		binary.LittleEndian.PutUint32(out[8*i+4:], math.Float32bits(imag(x)))
	}
	return out
}

func complex128Bytes(xs []complex128) []byte {
	out := make([]byte, 16*len(xs))
	for i, x := range xs {
		binary.LittleEndian.PutUint64(out[16*i:], math.Float64bits(real(x)))
		binary.LittleEndian.PutUint64(out[16*i+8:], math.Float64bits(imag(x)))
	}
	return out
}

// bytesToFloat32 decodes n little-endian float32 values from b.
func bytesToFloat32(b []byte, n int) []float32 {
	out := make([]float32, n)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[4*i:]))
	}
	return out
}

// bytesToFloat64 decodes n little-endian float64 values from b.
func bytesToFloat64(b []byte, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.Float64frombits(binary.LittleEndian.Uint64(b[8*i:]))
	}
	return out
}

// bytesToComplex64 decodes n little-endian complex64 values from b.
func bytesToComplex64(b []byte, n int) []complex64 {
	out := make([]complex64, n)
	for i := range out {
		re := math.Float32frombits(binary.LittleEndian.Uint32(b[8*i:]))
		im := math.Float32frombits(binary.LittleEndian.Uint32(b[8*i+4:]))
		out[i] = complex(re, im)
	}
	return out
}

// bytesToComplex128 decodes n little-endian complex128 values from b.
func bytesToComplex128(b []byte, n int) []complex128 {
	out := make([]complex128, n)
	for i := range out {
		re := math.Float64frombits(binary.LittleEndian.Uint64(b[16*i:]))
		im := math.Float64frombits(binary.LittleEndian.Uint64(b[16*i+8:]))
		out[i] = complex(re, im)
	}
	return out
}

// LoadBytes overwrites a's backing buffer by decoding b according to a's
// element type. Used by the transpose engine when unpacking a receive
// buffer into a destination Array.
func (a *Array) LoadBytes(b []byte) error {
	n := len(b) / a.pc.ElemType().Size()
	switch a.pc.ElemType().String() {
	case "float32":
		a.f32 = bytesToFloat32(b, n)
	case "float64":
		a.f64 = bytesToFloat64(b, n)
	case "complex64":
		a.c64 = bytesToComplex64(b, n)
	case "complex128":
		a.c128 = bytesToComplex128(b, n)
	}
	return nil
}
