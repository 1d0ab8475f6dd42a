package pcmrate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestPresetTable_Integrity checks the structural invariants every
// preset entry must satisfy.
func TestPresetTable_Integrity(t *testing.T) {
	require.Len(t, presetTable, 5)

	seenRecipes := make(map[QualityFlags]string, len(presetTable))
	for name, q := range presetTable {
		assert.Greater(t, q.Precision, 0, "%s precision", name)
		assert.InDelta(t, linearPhaseResponse, q.PhaseResponse, 1e-12, "%s phase", name)
		assert.Greater(t, q.PassbandEnd, 0.0, "%s passband", name)
		assert.Less(t, q.PassbandEnd, q.StopbandBegin, "%s band order", name)
		assert.InDelta(t, presetStopbandBegin, q.StopbandBegin, 1e-12, "%s stopband", name)

		assert.Zero(t, q.Flags&FlagsConfigurableMask,
			"%s must leave configurable bits to the configuration", name)

		recipe := q.Flags &^ FlagsConfigurableMask
		if prev, dup := seenRecipes[recipe]; dup {
			t.Fatalf("presets %s and %s share recipe bits %#x", prev, name, recipe)
		}
		seenRecipes[recipe] = name
	}
}

// TestPresetTable_CustomBaseline pins the preset custom mode seeds from.
func TestPresetTable_CustomBaseline(t *testing.T) {
	baseline, ok := presetTable[customBaseline]
	require.True(t, ok)
	assert.Equal(t, highPrecision, baseline.Precision)
	assert.InDelta(t, highPassbandEnd, baseline.PassbandEnd, 1e-12)
}

// TestProfile_IOCopySemantics verifies callers cannot reach the
// profile's own I/O parameters through the accessor.
func TestProfile_IOCopySemantics(t *testing.T) {
	profile, err := Resolve(Settings{"quality": "custom", "attenuation": "10"})
	require.NoError(t, err)

	io := profile.IO()
	require.NotNil(t, io)
	assert.InDelta(t, 0.1, io.Scale, 1e-12)

	io.Scale = 42
	fresh := profile.IO()
	require.NotNil(t, fresh)
	assert.InDelta(t, 0.1, fresh.Scale, 1e-12, "profile stays immutable")
}

// TestProfile_PresetHasNoIO verifies named presets run at full scale
// with no I/O block at all.
func TestProfile_PresetHasNoIO(t *testing.T) {
	profile, err := Resolve(Settings{"quality": "low"})
	require.NoError(t, err)
	assert.Nil(t, profile.IO())
	assert.Equal(t, QualityLow, profile.Preset())
}

// TestConfigurableFlags_FitMask verifies every externally settable flag
// sits inside the documented mask and recipes sit above it.
func TestConfigurableFlags_FitMask(t *testing.T) {
	configurable := FlagNoInterpolation | FlagMinimumPhase | FlagLinearPhase |
		FlagAllowAliasing | FlagNoSIMD | FlagHighPrecClock
	assert.Equal(t, FlagsConfigurableMask, configurable)

	for _, recipe := range []QualityFlags{recipeQuick, recipeLow, recipeMedium, recipeHigh, recipeVeryHigh} {
		assert.Zero(t, recipe&FlagsConfigurableMask)
	}
}

func TestMode_String(t *testing.T) {
	assert.Equal(t, "preset", ModePreset.String())
	assert.Equal(t, "custom", ModeCustom.String())
	assert.Equal(t, "unknown", Mode(99).String())
}

func TestStreamState_String(t *testing.T) {
	assert.Equal(t, "unopened", StateUnopened.String())
	assert.Equal(t, "active", StateActive.String())
	assert.Equal(t, "unknown", StreamState(99).String())
}
