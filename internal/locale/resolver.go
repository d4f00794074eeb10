package locale

import (
	"github.com/goliatone/go-agency/internal/logging"
	"github.com/goliatone/go-agency/pkg/interfaces"
)

// Resolver turns arbitrary input into a Code that is guaranteed to be in its
// Set. It holds no mutable state and is safe for concurrent use.
type Resolver struct {
	set    Set
	logger interfaces.Logger
}

// ResolverOption customises a Resolver.
type ResolverOption func(*Resolver)

// WithLogger sets the logger that receives fallback warnings.
func WithLogger(logger interfaces.Logger) ResolverOption {
	return func(r *Resolver) {
		r.logger = logging.Ensure(logger)
	}
}

// NewResolver builds a resolver over set. A zero Set is replaced by DefaultSet.
func NewResolver(set Set, opts ...ResolverOption) *Resolver {
	if set.IsZero() {
		set = DefaultSet()
	}
	r := &Resolver{set: set, logger: logging.NoOp()}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Set returns the configured locale set.
func (r *Resolver) Set() Set { return r.set }

// Default returns the fallback locale.
func (r *Resolver) Default() Code { return r.set.def }

// IsSupported reports whether input exactly matches a supported locale. It
// never logs.
func (r *Resolver) IsSupported(input string) bool {
	return r.set.Contains(input)
}

// Resolve returns input when it is supported and the default otherwise.
// An empty input falls back silently; any other unsupported input logs a
// warning first.
func (r *Resolver) Resolve(input string) Code {
	if r.IsSupported(input) {
		return Code(input)
	}
	if input != "" {
		r.logger.Warn("locale.resolve.fallback",
			"input", input,
			"fallback", string(r.set.def),
		)
	}
	return r.set.def
}

// ResolveOptional is Resolve for values that may be absent. A nil input
// falls back silently.
func (r *Resolver) ResolveOptional(input *string) Code {
	if input == nil {
		return r.set.def
	}
	return r.Resolve(*input)
}
