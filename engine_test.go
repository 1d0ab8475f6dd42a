package pcmrate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	resampling "github.com/tphakala/go-audio-resampler"

	"github.com/tphakala/go-pcm-rate/internal/testutil"
)

// =============================================================================
// Quality spec mapping onto the library's custom domain
// =============================================================================

// TestLibraryQualitySpec_PresetTable verifies every preset maps to a
// spec the library accepts unchanged apart from the custom tag.
func TestLibraryQualitySpec_PresetTable(t *testing.T) {
	for name, q := range presetTable {
		t.Run(name, func(t *testing.T) {
			spec := libraryQualitySpec(q)

			assert.Equal(t, resampling.QualityCustom, spec.Preset)
			assert.Equal(t, q.Precision, spec.Precision)
			assert.InDelta(t, q.PhaseResponse, spec.PhaseResponse, 1e-12)
			require.NoError(t, spec.Validate(), "library must accept the mapped spec")
		})
	}
}

// TestLibraryQualitySpec_StopbandPastNyquist verifies the post-Nyquist
// stopband becomes an aliasing-permitted design pinned to the edge.
func TestLibraryQualitySpec_StopbandPastNyquist(t *testing.T) {
	q := presetTable[QualityHigh]
	q.StopbandBegin = 1.99

	spec := libraryQualitySpec(q)
	assert.InDelta(t, 1.0, spec.StopbandBegin, 1e-12)
	assert.NotZero(t, spec.Flags&resampling.FlagAllowAliasing)
	require.NoError(t, spec.Validate())
}

// TestLibraryQualitySpec_PassbandAtNyquist verifies a full-width
// passband is pulled inside the library's open interval.
func TestLibraryQualitySpec_PassbandAtNyquist(t *testing.T) {
	q := presetTable[QualityHigh]
	q.PassbandEnd = 1.0
	q.StopbandBegin = 1.0

	spec := libraryQualitySpec(q)
	assert.Less(t, spec.PassbandEnd, 1.0)
	assert.Greater(t, spec.StopbandBegin, spec.PassbandEnd)
	assert.LessOrEqual(t, spec.StopbandBegin, 1.0)
	require.NoError(t, spec.Validate())
}

// TestLibraryFlags_Translation verifies the one-to-one flag mapping and
// that recipe bits and unmatched flags never leak to the library.
func TestLibraryFlags_Translation(t *testing.T) {
	out := libraryFlags(FlagMinimumPhase | FlagNoSIMD | recipeVeryHigh | FlagHighPrecClock)
	assert.Equal(t, resampling.FlagMinimumPhase|resampling.FlagNoSIMD, out)

	assert.Zero(t, libraryFlags(recipeHigh))
	assert.Equal(t, resampling.FlagAllowAliasing, libraryFlags(FlagAllowAliasing))
}

// =============================================================================
// Production engine behavior
// =============================================================================

// TestLibraryFactory_MonoProcessFlush runs a real conversion and checks
// output length against the rate ratio.
func TestLibraryFactory_MonoProcessFlush(t *testing.T) {
	const seconds = 0.5

	eng, err := LibraryFactory{}.Open(RateCD, RateDAT, 1, nil,
		presetTable[QualityMedium], RuntimeSpec{Threads: 1, EnableSIMD: true})
	require.NoError(t, err)
	defer func() { _ = eng.Close() }()

	input := testutil.SineWave(int(seconds*RateCD), 440, RateCD)
	out, err := eng.Process(input)
	require.NoError(t, err)
	tail, err := eng.Flush()
	require.NoError(t, err)

	total := len(out) + len(tail)
	expected := int(seconds * RateDAT)
	assert.InDelta(t, expected, total, float64(expected)*0.02,
		"output length tracks the rate ratio")
	testutil.AssertNoNaNOrInf(t, out)
	testutil.AssertAllInRange(t, out, -1.5, 1.5)
}

// TestLibraryFactory_ScaleApplied compares scaled and unscaled output
// levels from identical engines.
func TestLibraryFactory_ScaleApplied(t *testing.T) {
	input := testutil.SineWave(RateCD/5, 440, RateCD)
	quality := presetTable[QualityMedium]
	runtime := RuntimeSpec{Threads: 1, EnableSIMD: true}

	full, err := LibraryFactory{}.Open(RateCD, RateDAT, 1, nil, quality, runtime)
	require.NoError(t, err)
	scaled, err := LibraryFactory{}.Open(RateCD, RateDAT, 1, &IOSpec{Scale: 0.1}, quality, runtime)
	require.NoError(t, err)

	outFull, err := full.Process(input)
	require.NoError(t, err)
	outScaled, err := scaled.Process(input)
	require.NoError(t, err)

	require.Equal(t, len(outFull), len(outScaled))
	require.NotEmpty(t, outFull)
	assert.InEpsilon(t, 0.1*testutil.RMS(outFull), testutil.RMS(outScaled), 1e-9,
		"io scale is a pure linear gain on produced samples")
}

// TestLibraryFactory_StereoInterleaved verifies frame alignment through
// deinterleave, per-channel processing and reinterleave.
func TestLibraryFactory_StereoInterleaved(t *testing.T) {
	const frames = RateCD / 10

	left := testutil.SineWave(frames, 440, RateCD)
	right := testutil.SineWave(frames, 880, RateCD)
	input := make([]float64, 2*frames)
	for i := 0; i < frames; i++ {
		input[2*i] = left[i]
		input[2*i+1] = right[i]
	}

	eng, err := LibraryFactory{}.Open(RateCD, RateDAT, 2, nil,
		presetTable[QualityMedium], RuntimeSpec{Threads: 2, EnableSIMD: true})
	require.NoError(t, err)

	out, err := eng.Process(input)
	require.NoError(t, err)
	tail, err := eng.Flush()
	require.NoError(t, err)

	total := len(out) + len(tail)
	assert.Zero(t, total%2, "output stays frame-aligned")
	expectedFrames := frames * RateDAT / RateCD
	assert.InDelta(t, expectedFrames, total/2, float64(expectedFrames)*0.02)
	testutil.AssertNoNaNOrInf(t, out)
	require.NoError(t, eng.Close())
}

// TestLibraryEngine_Misuse covers alignment, empty input and use after
// close.
func TestLibraryEngine_Misuse(t *testing.T) {
	eng, err := LibraryFactory{}.Open(RateCD, RateDAT, 2, nil,
		presetTable[QualityQuick], RuntimeSpec{Threads: 1})
	require.NoError(t, err)

	_, err = eng.Process(make([]float64, 3))
	assert.Error(t, err, "odd sample count is not frame-aligned for stereo")

	out, err := eng.Process(nil)
	require.NoError(t, err)
	assert.Empty(t, out)

	require.NoError(t, eng.Close())
	require.NoError(t, eng.Close(), "close is idempotent")

	_, err = eng.Process(make([]float64, 4))
	assert.ErrorIs(t, err, errEngineClosed)
	_, err = eng.Flush()
	assert.ErrorIs(t, err, errEngineClosed)
}

// TestLibraryFactory_ChannelGuard verifies channel counts outside the
// supported range are rejected before touching the library.
func TestLibraryFactory_ChannelGuard(t *testing.T) {
	_, err := LibraryFactory{}.Open(RateCD, RateDAT, 0, nil,
		presetTable[QualityHigh], RuntimeSpec{Threads: 1})
	assert.Error(t, err)

	_, err = LibraryFactory{}.Open(RateCD, RateDAT, maxStreamChannels+1, nil,
		presetTable[QualityHigh], RuntimeSpec{Threads: 1})
	assert.Error(t, err)
}

// TestLibraryFactory_BadRateSurfacesLibraryError verifies the library's
// own rejection text reaches the caller.
func TestLibraryFactory_BadRateSurfacesLibraryError(t *testing.T) {
	_, err := LibraryFactory{}.Open(0, RateDAT, 1, nil,
		presetTable[QualityHigh], RuntimeSpec{Threads: 1})
	require.Error(t, err)
	assert.ErrorIs(t, err, resampling.ErrInvalidConfig)
}

// TestStream_EndToEndWithLibrary drives the full stage: resolve, open,
// process, close, against the bundled library.
func TestStream_EndToEndWithLibrary(t *testing.T) {
	profile, err := Resolve(Settings{"quality": "custom", "attenuation": "10"})
	require.NoError(t, err)

	s := NewStream(profile)
	require.NoError(t, s.Open(RateCD, RateDAT, 1))

	input := testutil.SineWave(RateCD/10, 1000, RateCD)
	out, err := s.Engine().Process(input)
	require.NoError(t, err)
	tail, err := s.Engine().Flush()
	require.NoError(t, err)

	testutil.AssertNoNaNOrInf(t, out)
	testutil.AssertAllInRange(t, append(out, tail...), -0.2, 0.2)
	require.NoError(t, s.Close())
}
