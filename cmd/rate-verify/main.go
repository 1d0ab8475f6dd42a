// Command rate-verify measures the quality of a configured resampling
// stage. It runs a calibration tone through the stage and reports the
// passband gain, the worst spectral spur and the noise floor, failing
// when the spur level exceeds what the resolved precision promises.
//
// Usage:
//
//	rate-verify
//	rate-verify -quality "very high" -rate-from 96000 -rate-to 44100
//	rate-verify -config stage.yaml -freq 2500
package main

import (
	"flag"
	"fmt"
	"math"
	"math/cmplx"
	"os"
	"sort"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/dsp/window"

	pcmrate "github.com/tphakala/go-pcm-rate"
	"github.com/tphakala/go-pcm-rate/conf"
)

const (
	defaultSourceRate = 44100
	defaultTargetRate = 48000
	defaultToneHz     = 1000.0

	toneAmplitude = 0.5
	toneSeconds   = 2.0
	chunkFrames   = 8192

	// FFT length taken from the steady-state region of the output.
	analysisSize = 1 << 15

	// Bins around the tone excluded from the spur search; wide enough to
	// clear the window skirt at the measured levels.
	spurExclusion = 32

	// Margin on the precision-derived spur limit, in dB.
	spurMarginDB = 12.0

	// dB per bit of filter design precision.
	decibelsPerBit = 6.02

	percentScale = 100

	resamplerBlock = "resampler"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "rate-verify: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "YAML config file with a resampler block")
	quality := flag.String("quality", "high", "Quality preset when no config file is given")
	sourceRate := flag.Int("rate-from", defaultSourceRate, "Source sample rate in Hz")
	targetRate := flag.Int("rate-to", defaultTargetRate, "Target sample rate in Hz")
	toneHz := flag.Float64("freq", defaultToneHz, "Calibration tone frequency in Hz")
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	logger := zerolog.Nop()
	if *verbose {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	}

	profile, err := loadProfile(*configPath, *quality, logger)
	if err != nil {
		return err
	}

	// Snap the tone onto the analysis bin grid so window leakage stays
	// confined to the exclusion zone.
	binWidth := float64(*targetRate) / analysisSize
	freq := math.Round(*toneHz/binWidth) * binWidth

	output, err := runTone(profile, *sourceRate, *targetRate, freq, logger)
	if err != nil {
		return err
	}

	fmt.Println("=== Resampling Stage Verification ===")
	fmt.Printf("Profile: %s (%s mode)\n", profile.Preset(), profile.Mode())
	fmt.Printf("Conversion: %d Hz -> %d Hz\n", *sourceRate, *targetRate)
	fmt.Printf("Tone: %.1f Hz at %.1f dBFS\n", freq, amplitudeDB(toneAmplitude))

	expected := int(toneSeconds * float64(*targetRate))
	drift := percentScale * (float64(len(output)) - float64(expected)) / float64(expected)
	fmt.Printf("Output frames: %d (expected %d, %+.2f%%)\n\n", len(output), expected, drift)

	report, err := analyze(output, float64(*targetRate), freq)
	if err != nil {
		return err
	}

	fmt.Printf("=== Spectrum (%d-point FFT, Hann window) ===\n", analysisSize)
	fmt.Printf("  Signal peak:   %.1f Hz\n", report.peakHz)
	fmt.Printf("  Passband gain: %+.2f dB\n", report.gainDB)
	fmt.Printf("  Worst spur:    %.1f dBc at %.1f Hz\n", report.spurDB, report.spurHz)
	fmt.Printf("  Noise floor:   %.1f dBc (median)\n", report.floorDB)

	limit := spurLimitDB(profile.Quality().Precision)
	if report.spurDB > limit {
		return fmt.Errorf("worst spur %.1f dBc exceeds limit %.1f dBc", report.spurDB, limit)
	}
	fmt.Printf("PASS: spur below %.1f dBc\n", limit)
	return nil
}

// loadProfile builds the stage profile from a config file when given, or
// from the named preset.
func loadProfile(configPath, preset string, logger zerolog.Logger) (*pcmrate.Profile, error) {
	opts := []pcmrate.Option{pcmrate.WithLogger(logger)}

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

// runTone pushes a mono calibration tone through the stage in chunks and
// returns the produced samples including the flushed tail.
func runTone(profile *pcmrate.Profile, sourceRate, targetRate int,
	freq float64, logger zerolog.Logger) (out []float64, err error) {
	stream := pcmrate.NewStream(profile, pcmrate.WithLogger(logger))
	if err := stream.Open(sourceRate, targetRate, 1); err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := stream.Close(); err == nil {
			err = closeErr
		}
	}()
	engine := stream.Engine()

	frames := int(toneSeconds * float64(sourceRate))
	tone := make([]float64, frames)
	for i := range tone {
		tone[i] = toneAmplitude * math.Sin(2*math.Pi*freq*float64(i)/float64(sourceRate))
	}

	for start := 0; start < frames; start += chunkFrames {
		end := start + chunkFrames
		if end > frames {
			end = frames
		}
		chunk, err := engine.Process(tone[start:end])
		if err != nil {
			return nil, err
		}
		out = append(out, chunk...)
	}

	tail, err := engine.Flush()
	if err != nil {
		return nil, err
	}
	return append(out, tail...), nil
}

type spectrumReport struct {
	peakHz  float64
	gainDB  float64
	spurDB  float64
	spurHz  float64
	floorDB float64
}

// analyze windows a steady-state slice of the output and measures the
// tone peak, the worst out-of-band spur and the median noise floor,
// all relative to the peak.
func analyze(output []float64, rate, freq float64) (*spectrumReport, error) {
	start := len(output) / 4
	if len(output) < start+analysisSize {
		return nil, fmt.Errorf("output too short for analysis: %d frames", len(output))
	}
	steady := output[start : start+analysisSize]

	// Time-domain gain against the tone's known RMS.
	gainDB := amplitudeRatioDB(rms(steady), toneAmplitude/math.Sqrt2)

	seq := make([]float64, analysisSize)
	copy(seq, steady)
	window.Hann(seq)

	fft := fourier.NewFFT(analysisSize)
	coeffs := fft.Coefficients(nil, seq)

	mags := make([]float64, len(coeffs))
	peakBin := 0
	for i, c := range coeffs {
		mags[i] = cmplx.Abs(c)
		if mags[i] > mags[peakBin] {
			peakBin = i
		}
	}
	peak := mags[peakBin]
	if peak == 0 {
		return nil, fmt.Errorf("no signal in analysis window")
	}

	spurBin := -1
	rest := make([]float64, 0, len(mags))
	for i, m := range mags {
		if absInt(i-peakBin) <= spurExclusion || i <= spurExclusion {
			continue
		}
		rest = append(rest, m)
		if spurBin < 0 || m > mags[spurBin] {
			spurBin = i
		}
	}
	if spurBin < 0 {
		return nil, fmt.Errorf("analysis window too narrow for spur search")
	}

	sort.Float64s(rest)
	floor := rest[len(rest)/2]

	return &spectrumReport{
		peakHz:  fft.Freq(peakBin) * rate,
		gainDB:  gainDB,
		spurDB:  amplitudeRatioDB(mags[spurBin], peak),
		spurHz:  fft.Freq(spurBin) * rate,
		floorDB: amplitudeRatioDB(floor, peak),
	}, nil
}

// spurLimitDB derives the acceptable spur level from the filter design
// precision, with headroom for measurement error.
func spurLimitDB(precision int) float64 {
	return -decibelsPerBit*float64(precision) + spurMarginDB
}

func amplitudeDB(a float64) float64 { return amplitudeRatioDB(a, 1) }

// amplitudeRatioDB returns 20*log10(a/ref), floored for silent inputs.
func amplitudeRatioDB(a, ref float64) float64 {
	if a <= 0 {
		return math.Inf(-1)
	}
	return 20 * math.Log10(a/ref)
}

func rms(s []float64) float64 {
	var sum float64
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(s)))
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
