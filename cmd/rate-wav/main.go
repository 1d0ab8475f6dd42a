// Command rate-wav converts WAV audio files to a target sample rate
// through a configured resampling stage.
//
// Usage:
//
//	rate-wav -rate 48 input.wav output.wav
//	rate-wav -quality "very high" -rate 96 input.wav output.wav
//	rate-wav -config stage.yaml -rate 16 -v input.wav output.wav
//
// With -config the stage is resolved from the resampler block of a YAML
// file, including custom filter parameters. Without it, -quality names a
// preset directly.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"
	"time"

	"github.com/rs/zerolog"

	pcmrate "github.com/tphakala/go-pcm-rate"
	"github.com/tphakala/go-pcm-rate/conf"
)

const (
	// Frames per read chunk. Larger chunks reduce I/O overhead and
	// improve cache utilization.
	bufferSize = 65536

	// Sample format constants
	bitsPerSample16 = 16
	bitsPerSample24 = 24
	bitsPerSample32 = 32

	// Conversion constants
	kHzToHz  = 1000
	maxInt16 = 32767.0
	maxInt24 = 8388607.0
	maxInt32 = 2147483647.0

	progressInterval = 10 // Print progress every N%
	percentScale     = 100

	// CLI defaults
	defaultRateKHz  = 48.0
	minRequiredArgs = 2

	// Name of the configuration block holding the stage settings
	resamplerBlock = "resampler"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "rate-wav: %v\n", err)
		os.Exit(1)
	}
}

func run() (err error) {
	configPath := flag.String("config", "", "YAML config file with a resampler block")
	quality := flag.String("quality", "high", "Quality preset when no config file is given")
	rateKHz := flag.Float64("rate", defaultRateKHz, "Target sample rate in kHz (e.g., 16, 44.1, 48, 96)")
	parallel := flag.Bool("parallel", true, "Enable concurrent channel processing")
	verbose := flag.Bool("v", false, "Verbose output")
	cpuprofile := flag.String("cpuprofile", "", "Write CPU profile to file (for PGO)")
	flag.Parse()

	args := flag.Args()
	if len(args) < minRequiredArgs {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] input.wav output.wav\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		return fmt.Errorf("insufficient arguments")
	}

	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			return fmt.Errorf("could not create CPU profile: %w", err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			_ = f.Close()
			return fmt.Errorf("could not start CPU profile: %w", err)
		}
		defer func() {
			pprof.StopCPUProfile()
			_ = f.Close()
		}()
	}

	logger := zerolog.Nop()
	if *verbose {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	}

	inputPath := args[0]
	outputPath := args[1]
	targetRate := int(*rateKHz * kHzToHz)

	threads := 1
	if *parallel {
		threads = runtime.NumCPU()
	}
	profile, err := resolveProfile(*configPath, *quality, threads, logger)
	if err != nil {
		return err
	}

	start := time.Now()
	stats, err := convertWAV(inputPath, outputPath, targetRate, profile, logger)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	fmt.Printf("Resampled %s -> %s\n", filepath.Base(inputPath), filepath.Base(outputPath))
	fmt.Printf("  %d Hz -> %d Hz (%d channels, %d-bit, %s quality)\n",
		stats.inputRate, stats.outputRate, stats.channels, stats.bitDepth, profile.Preset())
	fmt.Printf("  %d frames -> %d frames\n", stats.inputFrames, stats.outputFrames)
	fmt.Printf("  Duration: %.2fs, Speed: %.1fx realtime\n",
		elapsed.Seconds(),
		float64(stats.inputFrames)/float64(stats.inputRate)/elapsed.Seconds())

	return nil
}

// resolveProfile builds the stage profile from a config file when given,
// or from the named preset.
func resolveProfile(configPath, preset string, threads int, logger zerolog.Logger) (*pcmrate.Profile, error) {
	opts := []pcmrate.Option{
		pcmrate.WithLogger(logger),
		pcmrate.WithRuntime(pcmrate.RuntimeSpec{
			Threads:    threads,
			EnableSIMD: true,
			BufferHint: bufferSize,
		}),
	}

	if configPath == "" {
		return pcmrate.PresetProfile(preset, opts...)
	}

	cfg, err := conf.Load(configPath)
	if err != nil {
		return nil, err
	}
	block, ok := cfg.Block(resamplerBlock)
	if !ok {
		return nil, fmt.Errorf("%s: no %q block", configPath, resamplerBlock)
	}
	return pcmrate.Resolve(block, opts...)
}

type conversionStats struct {
	inputRate    int
	outputRate   int
	channels     int
	bitDepth     int
	inputFrames  int64
	outputFrames int64
}

// convertWAV runs the whole conversion: open input, open the stage
// stream, pump chunks through the engine, flush, patch the output header.
func convertWAV(inputPath, outputPath string, targetRate int,
	profile *pcmrate.Profile, logger zerolog.Logger) (stats *conversionStats, err error) {
	input, err := openWAVInput(inputPath, logger)
	if err != nil {
		return nil, err
	}
	defer func() { _ = input.Close() }()

	if input.rate == targetRate {
		return nil, fmt.Errorf("input already at target rate %d Hz", targetRate)
	}

	stream := pcmrate.NewStream(profile, pcmrate.WithLogger(logger))
	if err := stream.Open(input.rate, targetRate, input.channels); err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := stream.Close(); err == nil {
			err = closeErr
		}
	}()
	engine := stream.Engine()

	output, err := createWAVOutput(outputPath, targetRate, input.bitDepth, input.channels)
	if err != nil {
		return nil, err
	}
	// Capture close errors on the success path; Close patches the header
	// sizes.
	defer func() {
		if closeErr := output.Close(); err == nil {
			err = closeErr
		}
	}()

	buffers := newPCMBuffers(input.channels, input.bitDepth, input.format)
	stats = &conversionStats{
		inputRate:  input.rate,
		outputRate: targetRate,
		channels:   input.channels,
		bitDepth:   input.bitDepth,
	}
	progress := newProgressTracker(input.totalFrames, logger)

	for {
		n, err := input.decoder.PCMBuffer(buffers.ints)
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to read audio data: %w", err)
		}
		if n == 0 {
			break
		}
		// PCMBuffer counts interleaved samples; drop any torn final frame.
		n -= n % input.channels
		if n == 0 {
			break
		}

		out, err := engine.Process(buffers.normalize(n))
		if err != nil {
			return nil, err
		}
		if err := output.WriteSamples(buffers.denormalize(out)); err != nil {
			return nil, fmt.Errorf("failed to write audio data: %w", err)
		}

		stats.inputFrames += int64(n / input.channels)
		stats.outputFrames += int64(len(out) / input.channels)
		progress.reportIfNeeded(stats.inputFrames)
	}

	tail, err := engine.Flush()
	if err != nil {
		return nil, err
	}
	if len(tail) > 0 {
		if err := output.WriteSamples(buffers.denormalize(tail)); err != nil {
			return nil, fmt.Errorf("failed to write flushed data: %w", err)
		}
		stats.outputFrames += int64(len(tail) / input.channels)
	}

	return stats, nil
}
