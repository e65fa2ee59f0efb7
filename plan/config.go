// Package plan implements the plan compiler and executor of spec.md §4.7:
// given a global shape, a per-axis transform catalogue entry and a process
// grid, it derives the sequence of pencil-to-pencil stages a forward/inverse
// N-dimensional transform visits, interleaving 1-D transforms with the
// transpositions needed to keep each stage's operating axis local.
package plan

import (
	"log"

	"github.com/andewx/pencilfft/comm"
	"github.com/andewx/pencilfft/elem"
	"github.com/andewx/pencilfft/perrors"
	"github.com/andewx/pencilfft/transform"
	"github.com/andewx/pencilfft/transpose"
)

// Config aggregates the tuple spec.md §4.7 names as Compile's input:
// (global_shape, transforms, process_dims, root_comm, real_type,
// transpose_method). World must additionally support Grouper so Compile can
// build the Cartesian topology without a runtime negotiation step (spec.md
// §4.2); comm/local is the reference implementation used by this module's
// own tests.
type Config struct {
	GlobalShape []int
	Transforms  []transform.Descriptor
	ProcessDims []int
	World       comm.Grouper
	RealType    elem.Type
	Method      transpose.Method

	logger      *log.Logger
	scratchHint int
}

// Option configures optional Compile knobs, the teacher's functional-option
// idiom (window.Window's enum-of-int constants generalized the same way
// algo-pde's ApplyOptions(DefaultOptions(), opts) pattern does).
type Option func(*Config)

// WithLogger stores logger on the Config. Compile and the executor write
// nothing to it. Matches the only logging precedent in the retrieved
// corpus, poisson/periodic_nd.go's log.Printf on its degraded option path.
func WithLogger(logger *log.Logger) Option {
	return func(c *Config) { c.logger = logger }
}

// WithScratchHint records a scratch-buffer size hint of n bytes on the
// Config. The plan keeps no scratch buffers: every stage allocates a new
// array, and the hint is not read.
func WithScratchHint(n int) Option {
	return func(c *Config) { c.scratchHint = n }
}

func (c *Config) validate() error {
	n := len(c.GlobalShape)
	if n == 0 {
		return perrors.NewConfigError("plan.Compile", "global shape must have at least one axis")
	}
	if len(c.Transforms) != n {
		return perrors.NewConfigError("plan.Compile", "transforms count %d must equal global shape rank %d", len(c.Transforms), n)
	}
	for _, s := range c.GlobalShape {
		if s < 1 {
			return perrors.NewConfigError("plan.Compile", "global shape entries must be >= 1, got %v", c.GlobalShape)
		}
	}
	m := len(c.ProcessDims)
	if m > n-1 {
		return perrors.NewConfigError("plan.Compile", "process grid rank %d leaves no local axis for N=%d (need M <= N-1)", m, n)
	}
	if c.World == nil {
		return perrors.NewConfigError("plan.Compile", "world communicator is required")
	}
	if err := c.RealType.Validate(); err != nil {
		return perrors.NewConfigError("plan.Compile", "%v", err)
	}
	if !c.RealType.IsReal() {
		return perrors.NewConfigError("plan.Compile", "real type must be float32 or float64, got %v", c.RealType)
	}
	return nil
}
