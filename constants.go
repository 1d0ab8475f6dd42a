package pcmrate

// Configuration keys recognized in a resampler block.
const (
	keyQuality       = "quality"
	keyPrecision     = "precision"
	keyPhaseResponse = "phase_response"
	keyPassbandEnd   = "passband_end"
	keyStopbandBegin = "stopband_begin"
	keyAttenuation   = "attenuation"
	keyFlags         = "flags"
)

// Quality names accepted by the resolver. Matching is case-sensitive.
const (
	QualityVeryHigh = "very high"
	QualityHigh     = "high"
	QualityMedium   = "medium"
	QualityLow      = "low"
	QualityQuick    = "quick"
	QualityCustom   = "custom"
)

// Precision classes accepted in custom mode, in bits.
const (
	precision16Bit = 16
	precision20Bit = 20
	precision24Bit = 24
	precision28Bit = 28
	precision32Bit = 32
)

// Custom setting ranges, in raw configuration units.
const (
	phaseResponseMin = 0
	phaseResponseMax = 100

	// Band edges arrive as percent of the output Nyquist.
	passbandEndMinPercent = 1.0
	passbandEndMaxPercent = 100.0

	// The stopband may begin past Nyquist; it is relative to the
	// post-filter Nyquist, so the enforced ceiling is 199 percent.
	stopbandBeginMinPercent = 100.0
	stopbandBeginMaxPercent = 199.0

	attenuationMinDB = 0.0
	attenuationMaxDB = 30.0
)

// Raw value conversion factors.
const (
	percentScale   = 100.0 // percent of Nyquist -> fraction
	decibelDivisor = 10.0  // scale = 10^(-dB/10)
	fullScale      = 1.0   // io scale with no attenuation
)

// Preset filter parameters. Every preset is a linear-phase design whose
// stopband begins at the post-filter Nyquist.
const (
	linearPhaseResponse = 50.0

	quickPrecision   = 8
	quickPassbandEnd = 0.70

	lowPrecision   = 16
	lowPassbandEnd = 0.80

	mediumPrecision   = 16
	mediumPassbandEnd = 0.90

	highPrecision   = 20
	highPassbandEnd = 0.95

	veryHighPrecision   = 28
	veryHighPassbandEnd = 0.99

	presetStopbandBegin = 1.0
)

// Engine tuning defaults shared by all instances of a profile.
const (
	defaultThreads    = 1
	defaultBufferHint = 0
)

// Channel limits and fast-path counts.
const (
	stereoChannels    = 2
	maxStreamChannels = 256
)

// Bundled library quality domain. The library wants both band edges
// strictly inside (0, 1]; resolved profiles are clamped at the boundary.
const (
	libPassbandMax   = 0.999
	libTransitionMin = 0.001
)
