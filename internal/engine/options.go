package engine

import "time"

// Option configures an Engine at construction time. Grounded on the
// example pack's hayabusa-cloud-framer Option pattern (options.go), the
// clearest functional-options precedent over a protocol engine's tunables.
type Option func(*Engine)

// WithClock overrides the engine's notion of "now", for deterministic
// timeout tests. The default is time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}
