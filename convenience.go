package pcmrate

// Common audio sample rates, for callers opening streams directly.
const (
	// RateCD is the CD quality sample rate (Red Book standard).
	RateCD = 44100

	// RateDAT is the DAT/DVD sample rate.
	RateDAT = 48000

	// RateHiRes96 is the high-resolution 2x DAT sample rate.
	RateHiRes96 = 96000

	// RateHiRes192 is the very high resolution 4x DAT sample rate.
	RateHiRes192 = 192000

	// RateTelephony is the telephony (PSTN narrowband) sample rate.
	RateTelephony = 8000

	// RateVoIP is the VoIP wideband sample rate.
	RateVoIP = 16000
)

// Settings is an in-memory Block for callers that assemble their
// configuration programmatically rather than from a file. Lookups
// report line 0.
type Settings map[string]string

// Lookup implements Block.
func (s Settings) Lookup(key string) (string, int, bool) {
	raw, ok := s[key]
	return raw, 0, ok
}

// PresetProfile resolves a named preset without a configuration source.
// It is equivalent to Resolve on a block holding only the quality
// setting.
func PresetProfile(name string, opts ...Option) (*Profile, error) {
	return Resolve(Settings{keyQuality: name}, opts...)
}

// OpenStream resolves a configuration block and opens a stream for one
// rate/channel transition. It suits tools that run a single stream end
// to end; longer-lived callers resolve once and create streams
// themselves.
func OpenStream(block Block, sourceRate, targetRate, channels int, opts ...Option) (*Stream, error) {
	profile, err := Resolve(block, opts...)
	if err != nil {
		return nil, err
	}

	s := NewStream(profile, opts...)
	if err := s.Open(sourceRate, targetRate, channels); err != nil {
		return nil, err
	}
	return s, nil
}
