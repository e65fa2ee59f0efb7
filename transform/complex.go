package transform

// FFT runs the unnormalized forward complex DFT on x in place.
func FFT(backend Backend, x []complex128) error { return complexForward(backend, x) }

// IFFT runs the normalized (1/N-scaled) inverse complex DFT on x in place.
func IFFT(backend Backend, x []complex128) error { return complexInverse(backend, x) }

// BFFT runs the unnormalized backward complex DFT on x in place, leaving
// the 1/N scaling to a later stage (spec.md §6.2's BFFT catalogue entry,
// used when a plan defers normalization to a single pass over the final
// pencil rather than scaling at every stage).
func BFFT(backend Backend, x []complex128) error { return complexBackward(backend, x) }
