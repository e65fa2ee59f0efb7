// Package permute implements the axis-permutation algebra used by pencils,
// distributed arrays and the plan compiler: composition, inversion,
// identity detection and application to index tuples. An absent
// permutation is canonically identity, matching spec.md §3.
//
// Permutations here use 0-based slots internally (Go slice convention);
// the 1-based `π[i] ∈ {1..N}` notation from the spec maps directly onto
// 0-based `p[i] ∈ {0..N-1}`.
package permute

import "github.com/andewx/pencilfft/perrors"

// Permutation is a bijective reordering of N axes. P[k] is the logical
// axis that is the k-th fastest-varying in memory (P[0] is fastest).
type Permutation struct {
	p []int
}

// Identity returns the identity permutation of length n.
func Identity(n int) Permutation {
	p := make([]int, n)
	for i := range p {
		p[i] = i
	}
	return Permutation{p: p}
}

// New validates and wraps a permutation of {0..n-1}. Each index must
// appear exactly once.
func New(p []int) (Permutation, error) {
	n := len(p)
	seen := make([]bool, n)
	for _, v := range p {
		if v < 0 || v >= n || seen[v] {
			return Permutation{}, perrors.NewConfigError("permute.New", "%v is not a permutation of 0..%d", p, n-1)
		}
		seen[v] = true
	}
	cp := make([]int, n)
	copy(cp, p)
	return Permutation{p: cp}, nil
}

// Len returns the number of axes the permutation operates on.
func (p Permutation) Len() int { return len(p.p) }

// At returns the logical axis occupying memory slot k.
func (p Permutation) At(k int) int { return p.p[k] }

// Slice returns a defensive copy of the raw permutation.
func (p Permutation) Slice() []int {
	out := make([]int, len(p.p))
	copy(out, p.p)
	return out
}

// IsIdentity reports whether p is the identity permutation. This is the
// hot-path check that lets callers skip permutation application entirely
// for statically-known identity pencils, per spec.md §9's "no runtime
// cost for statically-known permutations" guarantee.
func (p Permutation) IsIdentity() bool {
	for i, v := range p.p {
		if i != v {
			return false
		}
	}
	return true
}

// AxisFastest builds the permutation that makes logical axis `axis`
// fastest-varying while preserving the relative order of the rest,
// i.e. π = (axis, 0, 1, ..., axis-1, axis+1, ..., n-1). This is exactly
// the π_n construction of spec.md §4.7 step 3a.
func AxisFastest(n, axis int) (Permutation, error) {
	if axis < 0 || axis >= n {
		return Permutation{}, perrors.NewConfigError("permute.AxisFastest", "axis %d out of range for n=%d", axis, n)
	}
	p := make([]int, 0, n)
	p = append(p, axis)
	for i := 0; i < n; i++ {
		if i != axis {
			p = append(p, i)
		}
	}
	return New(p)
}

// Compose returns the permutation equivalent to applying p then q:
// compose(p,q)[k] = p[q[k]].
func Compose(p, q Permutation) (Permutation, error) {
	if p.Len() != q.Len() {
		return Permutation{}, perrors.NewConfigError("permute.Compose", "length mismatch %d vs %d", p.Len(), q.Len())
	}
	n := p.Len()
	out := make([]int, n)
	for k := 0; k < n; k++ {
		out[k] = p.p[q.p[k]]
	}
	return New(out)
}

// Inverse returns the permutation π⁻¹ such that apply(π⁻¹, apply(π, t)) = t.
func Inverse(p Permutation) Permutation {
	n := p.Len()
	out := make([]int, n)
	for k, v := range p.p {
		out[v] = k
	}
	return Permutation{p: out}
}

// Relative returns relative(π,σ) = compose(σ, inverse(π)), such that
// apply(relative(π,σ), π-ordered-tuple) = σ-ordered-tuple.
func Relative(from, to Permutation) (Permutation, error) {
	inv := Inverse(from)
	return Compose(to, inv)
}

// Apply reorders a logical-order tuple t into memory order under π:
// out[k] = t[π[k]].
func Apply(p Permutation, t []int) []int {
	n := p.Len()
	out := make([]int, n)
	for k := 0; k < n; k++ {
		out[k] = t[p.p[k]]
	}
	return out
}

// ApplyInverse reorders a memory-order tuple back into logical order:
// out[π[k]] = t[k].
func ApplyInverse(p Permutation, t []int) []int {
	n := p.Len()
	out := make([]int, n)
	for k := 0; k < n; k++ {
		out[p.p[k]] = t[k]
	}
	return out
}

// Equal reports whether p and q represent the same permutation —
// permute_indices(t, π) = permute_indices(t, π') iff π ≡ π' (spec.md §8).
func Equal(p, q Permutation) bool {
	if p.Len() != q.Len() {
		return false
	}
	for i := range p.p {
		if p.p[i] != q.p[i] {
			return false
		}
	}
	return true
}
