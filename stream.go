package pcmrate

import (
	"fmt"

	"github.com/rs/zerolog"
)

// StreamState enumerates the lifecycle states of a Stream.
type StreamState int

const (
	// StateUnopened means no engine instance exists.
	StateUnopened StreamState = iota

	// StateActive means an engine instance exists and may process frames.
	StateActive
)

// String returns the state name.
func (s StreamState) String() string {
	switch s {
	case StateUnopened:
		return "unopened"
	case StateActive:
		return "active"
	default:
		return "unknown"
	}
}

// Stream drives the resampling stage for one audio stream. It owns at
// most one engine instance at a time; the instance never outlives its
// stream. A stream is driven by a single goroutine; different streams
// may run concurrently.
type Stream struct {
	profile *Profile
	factory EngineFactory
	logger  zerolog.Logger
	metrics *Metrics

	engine     Engine
	sourceRate int
	targetRate int
	channels   int
}

// NewStream creates an unopened stream bound to a resolved profile.
// Opening a stream before resolution is a programming error, so a nil
// profile panics rather than returning an error.
func NewStream(profile *Profile, opts ...Option) *Stream {
	if profile == nil {
		panic("pcmrate: NewStream requires a resolved profile")
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	return &Stream{
		profile: profile,
		factory: o.factory,
		logger:  o.logger,
		metrics: o.metrics,
	}
}

// Open creates the engine instance for a rate/channel transition. An
// engine left over from a previous transition is destroyed first, so
// two instances are never alive for one stream. On construction failure
// the stream stays unopened and the library's error is wrapped in
// ErrEngineInit; the profile and other streams are unaffected.
func (s *Stream) Open(sourceRate, targetRate, channels int) error {
	if err := s.Close(); err != nil {
		s.logger.Warn().Err(err).Msg("previous engine teardown failed")
	}

	eng, err := s.factory.Open(sourceRate, targetRate, channels,
		s.profile.IO(), s.profile.Quality(), s.profile.Runtime())
	if err != nil {
		s.metrics.openFailed()
		return fmt.Errorf("%w: %v", ErrEngineInit, err)
	}

	s.engine = eng
	s.sourceRate = sourceRate
	s.targetRate = targetRate
	s.channels = channels
	s.metrics.engineOpened()
	s.logOpen()
	return nil
}

// Close destroys the engine instance and returns the stream to the
// unopened state. Closing an unopened stream is a no-op. The instance
// is released exactly once even when teardown reports an error.
func (s *Stream) Close() error {
	if s.engine == nil {
		return nil
	}

	err := s.engine.Close()
	s.engine = nil
	s.metrics.engineClosed()
	if err != nil {
		return fmt.Errorf("engine teardown: %w", err)
	}
	return nil
}

// State reports the stream's lifecycle state.
func (s *Stream) State() StreamState {
	if s.engine != nil {
		return StateActive
	}
	return StateUnopened
}

// Engine returns the live engine instance for frame processing, or nil
// when the stream is unopened. The stream retains ownership.
func (s *Stream) Engine() Engine { return s.engine }

// Profile returns the profile the stream was built from.
func (s *Stream) Profile() *Profile { return s.profile }

// Ratio returns targetRate/sourceRate for the active transition, or 0
// when the stream is unopened.
func (s *Stream) Ratio() float64 {
	if s.engine == nil || s.sourceRate == 0 {
		return 0
	}
	return float64(s.targetRate) / float64(s.sourceRate)
}

// logOpen emits the per-open diagnostic record naming the numeric
// profile fields in effect. io_scale appears only in custom mode.
func (s *Stream) logOpen() {
	q := s.profile.Quality()
	evt := s.logger.Info().
		Int("source_rate", s.sourceRate).
		Int("target_rate", s.targetRate).
		Int("channels", s.channels).
		Int("precision", q.Precision).
		Float64("phase_response", q.PhaseResponse).
		Float64("passband_end", q.PassbandEnd).
		Float64("stopband_begin", q.StopbandBegin).
		Uint32("flags", uint32(q.Flags))
	if io := s.profile.IO(); io != nil {
		evt = evt.Float64("io_scale", io.Scale)
	}
	evt.Msg("resampler stream opened")
}
