// Package pfftio implements the minimal snapshot persistence named in
// spec.md's external-interfaces section as an optional HDF5 collaborator:
// PencilFFTs.jl itself ships a PencilIO-style writer, and no HDF5/VTK cgo
// binding exists anywhere in the retrieved corpus, so this gives that
// concern a dependency-light Go home over encoding/gob and compress/gzip
// (both stdlib — the DESIGN.md-documented exception for this concern
// specifically; it is not a replacement for real HDF5/VTK I/O, which stay
// out of scope).
package pfftio

import (
	"bytes"
	"compress/gzip"
	"encoding/gob"
	"io"

	"github.com/andewx/pencilfft/darray"
	"github.com/andewx/pencilfft/elem"
	"github.com/andewx/pencilfft/perrors"
)

// Header describes one rank's local buffer and the pencil it was
// distributed under, enough for a reader to validate it against a pencil
// built independently from the same (shape, process_dims, decomp_axes)
// before loading the payload back into an Array.
type Header struct {
	WorldRank   int
	GlobalShape []int
	ElemType    elem.Type
	DecompAxes  []int
	Permutation []int
	ExtraShape  []int
	LocalRange  [][2]int
}

// snapshot is the gob-encoded envelope: header plus the raw local buffer,
// exactly as Array.Bytes()/LoadBytes() exchange it.
type snapshot struct {
	Header  Header
	Payload []byte
}

// WriteSnapshot serializes one rank's local array buffer plus its pencil
// metadata to w, gzip-compressed.
func WriteSnapshot(w io.Writer, a *darray.Array, worldRank int) error {
	pc := a.Pencil()
	snap := snapshot{
		Header: Header{
			WorldRank:   worldRank,
			GlobalShape: pc.GlobalShape(),
			ElemType:    pc.ElemType(),
			DecompAxes:  pc.DecompAxes(),
			Permutation: pc.Permutation().Slice(),
			ExtraShape:  a.ExtraShape(),
			LocalRange:  pc.LocalRange(),
		},
		Payload: a.Bytes(),
	}

	gz := gzip.NewWriter(w)
	if err := gob.NewEncoder(gz).Encode(&snap); err != nil {
		_ = gz.Close()
		return perrors.NewConfigError("pfftio.WriteSnapshot", "encode failed: %v", err)
	}
	if err := gz.Close(); err != nil {
		return perrors.NewConfigError("pfftio.WriteSnapshot", "gzip close failed: %v", err)
	}
	return nil
}

// ReadSnapshot decodes a snapshot written by WriteSnapshot, returning its
// header and loading the payload into dst (whose pencil's local size and
// element type must already match the header, since ReadSnapshot does not
// reconstruct a Pencil or Topology on its own).
func ReadSnapshot(r io.Reader, dst *darray.Array) (Header, error) {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return Header{}, perrors.NewConfigError("pfftio.ReadSnapshot", "gzip open failed: %v", err)
	}
	defer gz.Close()

	var snap snapshot
	if err := gob.NewDecoder(gz).Decode(&snap); err != nil {
		return Header{}, perrors.NewConfigError("pfftio.ReadSnapshot", "decode failed: %v", err)
	}

	if snap.Header.ElemType != dst.ElemType() {
		return Header{}, perrors.NewTypeError("pfftio.ReadSnapshot", "snapshot element type %v does not match destination array type %v", snap.Header.ElemType, dst.ElemType())
	}
	if err := dst.LoadBytes(snap.Payload); err != nil {
		return Header{}, err
	}
	return snap.Header, nil
}

// EncodeSnapshotBytes is a convenience wrapper returning the gzip-
// compressed gob bytes directly, for callers writing to something other
// than an io.Writer (e.g. a key-value store).
func EncodeSnapshotBytes(a *darray.Array, worldRank int) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteSnapshot(&buf, a, worldRank); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
