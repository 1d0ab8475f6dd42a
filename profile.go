package pcmrate

// Mode selects between a named preset and a custom parameter set.
type Mode int

const (
	// ModePreset resolves every filter parameter from a named preset.
	ModePreset Mode = iota

	// ModeCustom layers per-field overrides on the baseline preset.
	ModeCustom
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModePreset:
		return "preset"
	case ModeCustom:
		return "custom"
	default:
		return "unknown"
	}
}

// QualityFlags carries filter option bits. The low six bits are
// externally configurable through the flags setting; the bits above them
// identify the filter recipe and survive configuration merges untouched.
type QualityFlags uint32

const (
	// FlagNoInterpolation disables coefficient interpolation in polyphase filters.
	FlagNoInterpolation QualityFlags = 1 << iota

	// FlagMinimumPhase forces minimum-phase filter design.
	FlagMinimumPhase

	// FlagLinearPhase forces linear-phase filter design.
	FlagLinearPhase

	// FlagAllowAliasing permits aliasing past the stopband edge.
	FlagAllowAliasing

	// FlagNoSIMD disables SIMD optimizations even when available.
	FlagNoSIMD

	// FlagHighPrecClock selects the high-precision stream-position clock
	// on engine variants that provide one.
	FlagHighPrecClock
)

// FlagsConfigurableMask covers the flag bits a configuration may set.
const FlagsConfigurableMask QualityFlags = 0x3F

// Filter recipe identifiers occupy the bits above the configurable region.
const recipeShift = 6

const (
	recipeQuick QualityFlags = iota << recipeShift
	recipeLow
	recipeMedium
	recipeHigh
	recipeVeryHigh
)

// QualitySpec holds the resolved numeric filter parameters handed to the
// engine at stream open.
type QualitySpec struct {
	// Precision is the filter design precision in bits.
	Precision int

	// PhaseResponse selects the filter phase character:
	// 0 = minimum phase, 50 = linear phase, 100 = maximum phase.
	PhaseResponse float64

	// PassbandEnd is the passband edge as a fraction of the output Nyquist.
	PassbandEnd float64

	// StopbandBegin is the stopband edge relative to the post-filter
	// Nyquist. Values above 1.0 push the transition band past Nyquist.
	StopbandBegin float64

	// Flags carries option and recipe bits; see QualityFlags.
	Flags QualityFlags
}

// IOSpec holds sample I/O parameters applied outside the filter itself.
type IOSpec struct {
	// Scale is a linear gain applied to produced samples.
	Scale float64
}

// RuntimeSpec holds engine tuning shared by every instance created from
// the same profile. It is resolved once, not duplicated per stream.
type RuntimeSpec struct {
	// Threads is the number of goroutines an instance may use for
	// multichannel processing. 1 keeps processing sequential.
	Threads int

	// EnableSIMD permits vectorized filter kernels.
	EnableSIMD bool

	// BufferHint suggests the largest per-call input block in frames.
	// 0 leaves buffer sizing to the engine.
	BufferHint int
}

// Profile is the immutable resampler configuration produced by Resolve.
// One profile is resolved per process and shared by any number of
// streams; it is never mutated after construction.
type Profile struct {
	mode    Mode
	preset  string
	quality QualitySpec
	io      *IOSpec
	runtime RuntimeSpec
}

// Mode reports whether the profile came from a named preset or from
// custom settings.
func (p *Profile) Mode() Mode { return p.mode }

// Preset returns the preset name the profile resolved from, or "custom".
func (p *Profile) Preset() string { return p.preset }

// Quality returns the resolved numeric filter parameters.
func (p *Profile) Quality() QualitySpec { return p.quality }

// IO returns a copy of the I/O parameters, or nil when a named preset is
// in effect and the engine runs at full scale.
func (p *Profile) IO() *IOSpec {
	if p.io == nil {
		return nil
	}
	io := *p.io
	return &io
}

// Runtime returns the shared engine tuning parameters.
func (p *Profile) Runtime() RuntimeSpec { return p.runtime }

// presetTable maps quality names to their filter parameters. The table
// is closed; matching is case-sensitive.
var presetTable = map[string]QualitySpec{
	QualityVeryHigh: {
		Precision:     veryHighPrecision,
		PhaseResponse: linearPhaseResponse,
		PassbandEnd:   veryHighPassbandEnd,
		StopbandBegin: presetStopbandBegin,
		Flags:         recipeVeryHigh,
	},
	QualityHigh: {
		Precision:     highPrecision,
		PhaseResponse: linearPhaseResponse,
		PassbandEnd:   highPassbandEnd,
		StopbandBegin: presetStopbandBegin,
		Flags:         recipeHigh,
	},
	QualityMedium: {
		Precision:     mediumPrecision,
		PhaseResponse: linearPhaseResponse,
		PassbandEnd:   mediumPassbandEnd,
		StopbandBegin: presetStopbandBegin,
		Flags:         recipeMedium,
	},
	QualityLow: {
		Precision:     lowPrecision,
		PhaseResponse: linearPhaseResponse,
		PassbandEnd:   lowPassbandEnd,
		StopbandBegin: presetStopbandBegin,
		Flags:         recipeLow,
	},
	QualityQuick: {
		Precision:     quickPrecision,
		PhaseResponse: linearPhaseResponse,
		PassbandEnd:   quickPassbandEnd,
		StopbandBegin: presetStopbandBegin,
		Flags:         recipeQuick,
	},
}

// customBaseline is the preset custom mode seeds from before field
// overrides are applied.
const customBaseline = QualityHigh
