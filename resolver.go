package pcmrate

import "fmt"

// Block supplies raw configuration values for one resampler block.
// Lookup reports the raw scalar for key together with its source line
// for diagnostics, or ok=false when the key is absent.
type Block interface {
	Lookup(key string) (raw string, line int, ok bool)
}

// Resolve reads a resampler configuration block and constructs the
// immutable profile shared by every stream. It is called once at
// subsystem startup, before stream activity begins. A failed lookup or
// range check never yields a partial profile.
func Resolve(block Block, opts ...Option) (*Profile, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	if block == nil {
		return nil, fmt.Errorf("%w: quality setting is missing", ErrUnknownQuality)
	}

	raw, line, ok := block.Lookup(keyQuality)
	if !ok {
		return nil, fmt.Errorf("%w: quality setting is missing", ErrUnknownQuality)
	}

	var (
		p   *Profile
		err error
	)
	if raw == QualityCustom {
		p, err = resolveCustom(block)
	} else {
		p, err = resolvePreset(raw, line)
	}
	if err != nil {
		return nil, err
	}
	p.runtime = o.runtime

	evt := o.logger.Info().
		Stringer("mode", p.mode).
		Str("quality", p.preset)
	if named, ok := o.factory.(fmt.Stringer); ok {
		evt = evt.Str("engine", named.String())
	}
	evt.Msg("resampler profile resolved")

	return p, nil
}

// resolvePreset builds a profile from a named preset. No custom keys
// are read and the engine runs at full scale.
func resolvePreset(name string, line int) (*Profile, error) {
	spec, ok := presetTable[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (line %d)", ErrUnknownQuality, name, line)
	}
	return &Profile{mode: ModePreset, preset: name, quality: spec}, nil
}

// resolveCustom builds a profile by seeding the baseline preset and
// overriding each supplied field. Absent fields keep their baseline
// defaults; the attenuation default keeps the engine at full scale.
func resolveCustom(block Block) (*Profile, error) {
	spec := presetTable[customBaseline]
	io := IOSpec{Scale: fullScale}

	if raw, line, ok := block.Lookup(keyPrecision); ok {
		v, err := parsePrecision(raw, line)
		if err != nil {
			return nil, err
		}
		spec.Precision = v
	}

	if raw, line, ok := block.Lookup(keyPhaseResponse); ok {
		v, err := parsePhaseResponse(raw, line)
		if err != nil {
			return nil, err
		}
		spec.PhaseResponse = v
	}

	if raw, line, ok := block.Lookup(keyPassbandEnd); ok {
		v, err := parsePassbandEnd(raw, line)
		if err != nil {
			return nil, err
		}
		spec.PassbandEnd = v
	}

	if raw, line, ok := block.Lookup(keyStopbandBegin); ok {
		v, err := parseStopbandBegin(raw, line)
		if err != nil {
			return nil, err
		}
		spec.StopbandBegin = v
	}

	if raw, line, ok := block.Lookup(keyAttenuation); ok {
		v, err := parseAttenuation(raw, line)
		if err != nil {
			return nil, err
		}
		io.Scale = v
	}

	if raw, line, ok := block.Lookup(keyFlags); ok {
		v, err := parseFlags(raw, line)
		if err != nil {
			return nil, err
		}
		spec.Flags = (spec.Flags &^ FlagsConfigurableMask) | v
	}

	return &Profile{
		mode:    ModeCustom,
		preset:  QualityCustom,
		quality: spec,
		io:      &io,
	}, nil
}
