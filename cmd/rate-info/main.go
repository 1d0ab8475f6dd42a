// Command rate-info validates a resampling stage configuration and
// prints the profile it resolves to, then opens a stream against the
// real engine to confirm the parameters are accepted.
//
// Usage:
//
//	rate-info -quality "very high"
//	rate-info -config stage.yaml -rate-from 96000 -rate-to 44100
//	rate-info -demo
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/rs/zerolog"

	pcmrate "github.com/tphakala/go-pcm-rate"
	"github.com/tphakala/go-pcm-rate/conf"
)

func main() {
	var (
		configPath = flag.String("config", "", "YAML config file with a resampler block")
		quality    = flag.String("quality", "high", "Quality preset when no config file is given")
		sourceRate = flag.Int("rate-from", pcmrate.RateCD, "Source sample rate in Hz")
		targetRate = flag.Int("rate-to", pcmrate.RateDAT, "Target sample rate in Hz")
		channels   = flag.Int("channels", stereoChannels, "Number of audio channels")
		demo       = flag.Bool("demo", false, "Survey presets and standard conversions")
		verbose    = flag.Bool("v", false, "Verbose output")
	)
	flag.Parse()

	logger := zerolog.Nop()
	if *verbose {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	}

	if *demo {
		runDemo(logger)
		return
	}

	profile, err := loadProfile(*configPath, *quality, logger)
	if err != nil {
		log.Fatalf("Failed to resolve profile: %v", err)
	}
	printProfile(profile)

	// Prove the engine accepts the parameters for the requested
	// transition.
	var metrics pcmrate.Metrics
	stream := pcmrate.NewStream(profile,
		pcmrate.WithLogger(logger), pcmrate.WithMetrics(&metrics))
	if err := stream.Open(*sourceRate, *targetRate, *channels); err != nil {
		log.Fatalf("Failed to open stream: %v", err)
	}

	fmt.Printf("\nStream opened:\n")
	fmt.Printf("  Conversion: %d Hz -> %d Hz (%d channels)\n",
		*sourceRate, *targetRate, *channels)
	fmt.Printf("  Ratio:      %.6f\n", stream.Ratio())
	fmt.Printf("  State:      %s\n", stream.State())

	if err := stream.Close(); err != nil {
		log.Fatalf("Failed to close stream: %v", err)
	}
	fmt.Printf("  Engines opened/closed: %d/%d\n",
		metrics.EnginesOpened(), metrics.EnginesClosed())
}

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

func printProfile(profile *pcmrate.Profile) {
	q := profile.Quality()

	fmt.Printf("Resolved profile:\n")
	fmt.Printf("  Mode:           %s\n", profile.Mode())
	fmt.Printf("  Quality:        %s\n", profile.Preset())
	fmt.Printf("  Precision:      %d bits\n", q.Precision)
	fmt.Printf("  Phase response: %.1f\n", q.PhaseResponse)
	fmt.Printf("  Passband end:   %.3f\n", q.PassbandEnd)
	fmt.Printf("  Stopband begin: %.3f\n", q.StopbandBegin)
	fmt.Printf("  Flags:          %#x\n", uint32(q.Flags))
	if io := profile.IO(); io != nil {
		fmt.Printf("  IO scale:       %.6f\n", io.Scale)
	}
}

func runDemo(logger zerolog.Logger) {
	fmt.Println("=== Resampling Stage Survey ===")

	// Demo 1: What each preset resolves to
	fmt.Println("\n1. Quality Presets")
	fmt.Println("------------------")

	presets := []string{"quick", "low", "medium", "high", "very high"}
	for _, name := range presets {
		profile, err := pcmrate.PresetProfile(name, pcmrate.WithLogger(logger))
		if err != nil {
			fmt.Printf("  %-10s: Error - %v\n", name, err)
			continue
		}
		q := profile.Quality()
		fmt.Printf("  %-10s: %2d bits, passband %.2f, stopband %.2f\n",
			name, q.Precision, q.PassbandEnd, q.StopbandBegin)
	}

	// Demo 2: Standard conversions against the real engine
	fmt.Println("\n2. Standard Conversions")
	fmt.Println("-----------------------")

	conversions := []struct {
		from, to int
		name     string
	}{
		{pcmrate.RateCD, pcmrate.RateDAT, "CD to DAT"},
		{pcmrate.RateDAT, pcmrate.RateCD, "DAT to CD"},
		{pcmrate.RateCD, pcmrate.RateHiRes96, "CD to hi-res"},
		{pcmrate.RateHiRes192, pcmrate.RateCD, "192k to CD"},
		{pcmrate.RateTelephony, pcmrate.RateVoIP, "Telephony to VoIP"},
	}

	var metrics pcmrate.Metrics
	profile, err := pcmrate.PresetProfile("high",
		pcmrate.WithLogger(logger))
	if err != nil {
		log.Fatalf("Failed to resolve preset: %v", err)
	}

	for _, conv := range conversions {
		stream := pcmrate.NewStream(profile,
			pcmrate.WithLogger(logger), pcmrate.WithMetrics(&metrics))
		if err := stream.Open(conv.from, conv.to, stereoChannels); err != nil {
			fmt.Printf("  %-17s: Error - %v\n", conv.name, err)
			continue
		}
		fmt.Printf("  %-17s: %d Hz -> %d Hz, ratio %.4f\n",
			conv.name, conv.from, conv.to, stream.Ratio())
		if err := stream.Close(); err != nil {
			fmt.Printf("  %-17s: close error - %v\n", conv.name, err)
		}
	}

	// Demo 3: Channel configurations
	fmt.Println("\n3. Channel Configurations")
	fmt.Println("-------------------------")

	channelCounts := []int{monoChannels, stereoChannels, surround5_1, surround7_1}
	for _, ch := range channelCounts {
		stream := pcmrate.NewStream(profile,
			pcmrate.WithLogger(logger), pcmrate.WithMetrics(&metrics))
		if err := stream.Open(pcmrate.RateDAT, pcmrate.RateCD, ch); err != nil {
			fmt.Printf("  %d channels: Error - %v\n", ch, err)
			continue
		}
		fmt.Printf("  %d channels: opened, ratio %.4f\n", ch, stream.Ratio())
		if err := stream.Close(); err != nil {
			fmt.Printf("  %d channels: close error - %v\n", ch, err)
		}
	}

	fmt.Printf("\nEngine instances: %d opened, %d closed, %d live, %d failures\n",
		metrics.EnginesOpened(), metrics.EnginesClosed(),
		metrics.EnginesLive(), metrics.OpenFailures())
	fmt.Println("\n=== Survey Complete ===")
}
