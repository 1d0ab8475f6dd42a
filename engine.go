package pcmrate

import (
	"errors"
	"fmt"
	"sync"

	resampling "github.com/tphakala/go-audio-resampler"
	"github.com/tphakala/simd/f64"

	"github.com/tphakala/go-pcm-rate/internal/gain"
)

// Engine is one live resampling instance bound to a fixed source rate,
// target rate and channel count. An engine is owned exclusively by the
// stream that opened it and is not safe for concurrent use.
type Engine interface {
	// Process resamples a block of interleaved frames.
	Process(input []float64) ([]float64, error)

	// Flush drains samples still held in filter state.
	Flush() ([]float64, error)

	// Close releases engine resources. Close is idempotent.
	Close() error
}

// EngineFactory constructs engine instances for stream transitions.
type EngineFactory interface {
	// Open creates an instance converting sourceRate to targetRate for
	// the given channel count. io is nil when the engine runs at full
	// scale. Construction errors are reported verbatim; the stream
	// wraps them.
	Open(sourceRate, targetRate, channels int, io *IOSpec,
		quality QualitySpec, runtime RuntimeSpec) (Engine, error)
}

var errEngineClosed = errors.New("engine instance already closed")

// LibraryFactory builds engines on the bundled resampling library, one
// mono pipeline per channel. The zero value is ready to use.
type LibraryFactory struct{}

// String names the engine for resolution diagnostics.
func (LibraryFactory) String() string { return "go-audio-resampler" }

// Open implements EngineFactory.
func (LibraryFactory) Open(sourceRate, targetRate, channels int, io *IOSpec,
	quality QualitySpec, runtime RuntimeSpec) (Engine, error) {
	if channels < 1 || channels > maxStreamChannels {
		return nil, fmt.Errorf("channel count %d out of range 1 to %d", channels, maxStreamChannels)
	}

	spec := libraryQualitySpec(quality)
	scale := fullScale
	if io != nil {
		scale = io.Scale
	}

	chans := make([]resampling.Resampler, channels)
	for ch := range chans {
		r, err := resampling.New(&resampling.Config{
			InputRate:    float64(sourceRate),
			OutputRate:   float64(targetRate),
			Channels:     1,
			Quality:      spec,
			MaxInputSize: runtime.BufferHint,
			EnableSIMD:   runtime.EnableSIMD,
		})
		if err != nil {
			return nil, err
		}
		chans[ch] = r
	}

	return &libraryEngine{
		chans:    chans,
		channels: channels,
		parallel: runtime.Threads > 1 && channels > 1,
		scale:    scale,
	}, nil
}

// libraryQualitySpec maps resolved quality parameters onto the library's
// custom quality domain. The library wants both band edges inside
// (0, 1]; a stopband past 1.0 becomes an aliasing-permitted design with
// the stopband pinned to the Nyquist edge.
func libraryQualitySpec(q QualitySpec) resampling.QualitySpec {
	pass := q.PassbandEnd
	stop := q.StopbandBegin
	flags := libraryFlags(q.Flags)

	if stop > 1 {
		flags |= resampling.FlagAllowAliasing
		stop = 1
	}
	if pass > libPassbandMax {
		pass = libPassbandMax
	}
	if stop <= pass {
		stop = pass + libTransitionMin
	}

	return resampling.QualitySpec{
		Preset:        resampling.QualityCustom,
		Precision:     q.Precision,
		PhaseResponse: q.PhaseResponse,
		PassbandEnd:   pass,
		StopbandBegin: stop,
		Flags:         flags,
	}
}

// libraryFlags translates the configurable flag bits to library flags.
// Recipe bits and flags the library has no counterpart for stay within
// this package.
func libraryFlags(f QualityFlags) resampling.QualityFlags {
	var out resampling.QualityFlags
	if f&FlagNoInterpolation != 0 {
		out |= resampling.FlagNoInterpolation
	}
	if f&FlagMinimumPhase != 0 {
		out |= resampling.FlagMinimumPhase
	}
	if f&FlagLinearPhase != 0 {
		out |= resampling.FlagLinearPhase
	}
	if f&FlagAllowAliasing != 0 {
		out |= resampling.FlagAllowAliasing
	}
	if f&FlagNoSIMD != 0 {
		out |= resampling.FlagNoSIMD
	}
	return out
}

// libraryEngine drives one mono library pipeline per channel and
// reassembles interleaved output.
type libraryEngine struct {
	chans    []resampling.Resampler
	channels int
	parallel bool
	scale    float64

	planar [][]float64 // reused deinterleave scratch
}

// Process implements Engine.
func (e *libraryEngine) Process(input []float64) ([]float64, error) {
	if e.chans == nil {
		return nil, errEngineClosed
	}
	if len(input)%e.channels != 0 {
		return nil, fmt.Errorf("input length %d not aligned to %d channels", len(input), e.channels)
	}
	if len(input) == 0 {
		return nil, nil
	}

	if e.channels == 1 {
		out, err := e.chans[0].Process(input)
		if err != nil {
			return nil, err
		}
		gain.ApplyInPlace(out, e.scale)
		return out, nil
	}

	e.deinterleave(input)
	resampled, err := e.processChannels(e.planar)
	if err != nil {
		return nil, err
	}

	out := interleave(resampled)
	gain.ApplyInPlace(out, e.scale)
	return out, nil
}

// Flush implements Engine. Channel tails are padded to equal length so
// the final block stays frame-aligned.
func (e *libraryEngine) Flush() ([]float64, error) {
	if e.chans == nil {
		return nil, errEngineClosed
	}

	tails := make([][]float64, e.channels)
	maxLen := 0
	for ch, r := range e.chans {
		tail, err := r.Flush()
		if err != nil {
			return nil, fmt.Errorf("channel %d flush: %w", ch, err)
		}
		tails[ch] = tail
		if len(tail) > maxLen {
			maxLen = len(tail)
		}
	}
	if maxLen == 0 {
		return nil, nil
	}

	for ch := range tails {
		if len(tails[ch]) < maxLen {
			padded := make([]float64, maxLen)
			copy(padded, tails[ch])
			tails[ch] = padded
		}
	}

	out := interleave(tails)
	gain.ApplyInPlace(out, e.scale)
	return out, nil
}

// Close implements Engine.
func (e *libraryEngine) Close() error {
	e.chans = nil
	e.planar = nil
	return nil
}

// processChannels resamples each planar channel, concurrently when the
// runtime spec allows more than one thread.
func (e *libraryEngine) processChannels(planar [][]float64) ([][]float64, error) {
	out := make([][]float64, e.channels)

	if !e.parallel {
		for ch := range e.chans {
			res, err := e.chans[ch].Process(planar[ch])
			if err != nil {
				return nil, fmt.Errorf("channel %d: %w", ch, err)
			}
			out[ch] = res
		}
		return out, nil
	}

	var (
		wg         sync.WaitGroup
		errMu      sync.Mutex
		processErr error
	)
	for ch := range e.chans {
		wg.Add(1)
		go func(channel int) {
			defer wg.Done()
			res, err := e.chans[channel].Process(planar[channel])
			if err != nil {
				errMu.Lock()
				if processErr == nil {
					processErr = fmt.Errorf("channel %d: %w", channel, err)
				}
				errMu.Unlock()
				return
			}
			out[channel] = res
		}(ch)
	}
	wg.Wait()

	if processErr != nil {
		return nil, processErr
	}
	return out, nil
}

// deinterleave splits interleaved frames into the reusable planar
// scratch buffers.
func (e *libraryEngine) deinterleave(input []float64) {
	frames := len(input) / e.channels
	if e.planar == nil {
		e.planar = make([][]float64, e.channels)
	}
	for ch := range e.planar {
		if cap(e.planar[ch]) < frames {
			e.planar[ch] = make([]float64, frames)
		}
		e.planar[ch] = e.planar[ch][:frames]
	}

	for i := 0; i < frames; i++ {
		base := i * e.channels
		for ch := 0; ch < e.channels; ch++ {
			e.planar[ch][i] = input[base+ch]
		}
	}
}

// interleave joins planar channels of equal length into one frame block.
func interleave(planar [][]float64) []float64 {
	channels := len(planar)
	frames := len(planar[0])
	out := make([]float64, frames*channels)

	if channels == stereoChannels {
		f64.Interleave2(out, planar[0], planar[1])
		return out
	}

	for i := 0; i < frames; i++ {
		base := i * channels
		for ch := 0; ch < channels; ch++ {
			out[base+ch] = planar[ch][i]
		}
	}
	return out
}
