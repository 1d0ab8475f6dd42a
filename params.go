package pcmrate

import (
	"fmt"
	"math"
	"strconv"
)

// parseIntSetting parses a whole-string decimal integer. Prefix parses
// and trailing characters are rejected.
func parseIntSetting(field, raw string, line int) (int, error) {
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q is not an integer (line %d)",
			ErrInvalidArgument, field, raw, line)
	}
	return v, nil
}

// parseFloatSetting parses a whole-string decimal number. NaN and
// infinities are rejected so range checks stay meaningful.
func parseFloatSetting(field, raw string, line int) (float64, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %s %q is not a number (line %d)",
			ErrInvalidArgument, field, raw, line)
	}
	return v, nil
}

// parsePrecision validates the custom precision setting, one of the
// fixed bit-depth classes.
func parsePrecision(raw string, line int) (int, error) {
	v, err := parseIntSetting(keyPrecision, raw, line)
	if err != nil {
		return 0, err
	}
	switch v {
	case precision16Bit, precision20Bit, precision24Bit, precision28Bit, precision32Bit:
		return v, nil
	default:
		return 0, fmt.Errorf("%w: %s %d not one of 16, 20, 24, 28, 32 (line %d)",
			ErrInvalidArgument, keyPrecision, v, line)
	}
}

// parsePhaseResponse validates the custom phase_response setting and
// widens it to the real-valued phase continuum.
func parsePhaseResponse(raw string, line int) (float64, error) {
	v, err := parseIntSetting(keyPhaseResponse, raw, line)
	if err != nil {
		return 0, err
	}
	if v < phaseResponseMin || v > phaseResponseMax {
		return 0, fmt.Errorf("%w: %s %d out of range %d to %d (line %d)",
			ErrInvalidArgument, keyPhaseResponse, v, phaseResponseMin, phaseResponseMax, line)
	}
	return float64(v), nil
}

// parsePassbandEnd validates passband_end, given in percent of the
// output Nyquist, and returns the fraction the engine consumes.
func parsePassbandEnd(raw string, line int) (float64, error) {
	v, err := parseFloatSetting(keyPassbandEnd, raw, line)
	if err != nil {
		return 0, err
	}
	if v < passbandEndMinPercent || v > passbandEndMaxPercent {
		return 0, fmt.Errorf("%w: %s %v out of range %v to %v percent (line %d)",
			ErrInvalidArgument, keyPassbandEnd, v, passbandEndMinPercent, passbandEndMaxPercent, line)
	}
	return v / percentScale, nil
}

// parseStopbandBegin validates stopband_begin, given in percent of the
// post-filter Nyquist, and returns the fraction the engine consumes.
func parseStopbandBegin(raw string, line int) (float64, error) {
	v, err := parseFloatSetting(keyStopbandBegin, raw, line)
	if err != nil {
		return 0, err
	}
	if v < stopbandBeginMinPercent || v > stopbandBeginMaxPercent {
		return 0, fmt.Errorf("%w: %s %v out of range %v to %v percent (line %d)",
			ErrInvalidArgument, keyStopbandBegin, v, stopbandBeginMinPercent, stopbandBeginMaxPercent, line)
	}
	return v / percentScale, nil
}

// parseAttenuation validates attenuation, given in decibels, and returns
// the linear scale factor applied to produced samples.
func parseAttenuation(raw string, line int) (float64, error) {
	v, err := parseFloatSetting(keyAttenuation, raw, line)
	if err != nil {
		return 0, err
	}
	if v < attenuationMinDB || v > attenuationMaxDB {
		return 0, fmt.Errorf("%w: %s %v out of range %v to %v dB (line %d)",
			ErrInvalidArgument, keyAttenuation, v, attenuationMinDB, attenuationMaxDB, line)
	}
	return math.Pow(10, -v/decibelDivisor), nil
}

// parseFlags validates the flags setting. Bits outside the configurable
// region are discarded without error.
func parseFlags(raw string, line int) (QualityFlags, error) {
	v, err := parseIntSetting(keyFlags, raw, line)
	if err != nil {
		return 0, err
	}
	return QualityFlags(v) & FlagsConfigurableMask, nil
}
