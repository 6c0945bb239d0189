package pipeline

import "context"

// Invocation is one request to the reasoning+search capability.
type Invocation struct {
	Stage          string
	Role           string
	Goal           string
	Backstory      string
	Task           string
	ExpectedOutput string
	// Context holds the outputs of the stages this one depends on, in
	// declaration order.
	Context   []string
	UseSearch bool
}

// Capability is the external reasoning collaborator. Implementations may
// block for tens of seconds.
type Capability interface {
	Invoke(ctx context.Context, inv Invocation) (string, error)
}

// CapabilityConfig is handed to the factory when a run starts.
type CapabilityConfig struct {
	// MaxRPM caps model invocations per minute. Zero means no ceiling.
	MaxRPM int
}

// CapabilityFactory builds a fresh capability for every run so that no
// conversation state leaks between requests.
type CapabilityFactory func(ctx context.Context, cfg CapabilityConfig) (Capability, error)

// CapabilityFunc adapts a plain function to Capability.
type CapabilityFunc func(ctx context.Context, inv Invocation) (string, error)

func (f CapabilityFunc) Invoke(ctx context.Context, inv Invocation) (string, error) {
	return f(ctx, inv)
}
