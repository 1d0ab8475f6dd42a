// Package pcmrate configures and drives the sample-rate conversion
// stage of an audio playback pipeline.
//
// The package translates a small set of human-authored configuration
// settings into a validated, immutable quality/IO profile for a
// resampling engine, then manages engine lifecycle as audio streams of
// varying sample rate and channel count open and close. The numeric
// work itself is done by github.com/tphakala/go-audio-resampler; this
// package owns configuration, validation and instance lifetime.
//
// # Quality Profiles
//
// A profile is resolved once at startup from a configuration block and
// shared by every stream:
//
//	block, _ := cfg.Block("resampler")
//	profile, err := pcmrate.Resolve(block, pcmrate.WithLogger(logger))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// The quality setting selects a named preset ("very high", "high",
// "medium", "low", "quick") or "custom". Custom mode layers individual
// settings (precision, phase_response, passband_end, stopband_begin,
// attenuation, flags) on a baseline preset; named presets read no
// further settings. Malformed or out-of-range values fail resolution
// with [ErrUnknownQuality] or [ErrInvalidArgument]; a partial profile
// is never constructed.
//
// # Streams
//
// Each audio stream owns a [Stream], which holds at most one engine
// instance at a time:
//
//	s := pcmrate.NewStream(profile)
//	if err := s.Open(44100, 48000, 2); err != nil {
//	    // the stream stays unopened; other streams are unaffected
//	}
//	out, err := s.Engine().Process(frames)
//	...
//	tail, _ := s.Engine().Flush()
//	_ = s.Close()
//
// Reopening an open stream destroys the previous instance first, and
// closing an unopened stream is a no-op, so engine handles cannot leak
// across rate transitions. Engine construction failures surface as
// [ErrEngineInit] with the library's own error text and leave the
// stream unopened.
//
// # Thread Safety
//
// A profile is immutable after Resolve and safe to share across
// goroutines. A Stream is owned by one goroutine; different streams run
// concurrently without shared mutable state. [Metrics] counters are
// safe for concurrent use.
package pcmrate
