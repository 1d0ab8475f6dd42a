package pcmrate

import "github.com/rs/zerolog"

// options collects the optional collaborators shared by Resolve and
// NewStream.
type options struct {
	logger  zerolog.Logger
	factory EngineFactory
	runtime RuntimeSpec
	metrics *Metrics
}

// Option configures profile resolution and stream construction.
type Option func(*options)

func defaultOptions() *options {
	return &options{
		logger:  zerolog.Nop(),
		factory: LibraryFactory{},
		runtime: RuntimeSpec{
			Threads:    defaultThreads,
			EnableSIMD: true,
			BufferHint: defaultBufferHint,
		},
	}
}

// WithLogger routes diagnostic records to the given logger. The default
// discards them.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithEngineFactory substitutes the engine construction boundary. The
// default factory builds instances of the bundled resampling library.
func WithEngineFactory(f EngineFactory) Option {
	return func(o *options) {
		if f != nil {
			o.factory = f
		}
	}
}

// WithRuntime overrides the engine tuning shared by all instances
// resolved from the profile. Thread counts below 1 are raised to 1.
func WithRuntime(r RuntimeSpec) Option {
	return func(o *options) {
		if r.Threads < 1 {
			r.Threads = 1
		}
		if r.BufferHint < 0 {
			r.BufferHint = 0
		}
		o.runtime = r
	}
}

// WithMetrics attaches lifecycle counters. A nil Metrics discards
// every event.
func WithMetrics(m *Metrics) Option {
	return func(o *options) { o.metrics = m }
}
