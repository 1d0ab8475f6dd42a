package pcmrate

import "errors"

// Common errors returned during profile resolution and stream lifecycle.
var (
	// ErrUnknownQuality indicates a quality selector outside the closed
	// preset table. Fatal to resolution; no profile is constructed.
	ErrUnknownQuality = errors.New("unknown resampler quality")

	// ErrInvalidArgument indicates a custom-mode setting that failed its
	// parse or range check. Fatal to resolution; no profile is constructed.
	ErrInvalidArgument = errors.New("invalid resampler setting")

	// ErrEngineInit indicates the resampling engine rejected a stream's
	// rate/channel/profile combination. Scoped to the failing stream; the
	// profile and other streams are unaffected.
	ErrEngineInit = errors.New("resampler engine initialization failed")
)
