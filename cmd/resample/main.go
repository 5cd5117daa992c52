// Command resample resamples a generated test tone and prints what the
// resampler built for it. With --demo it compares presets, rate pairs and
// channel layouts.
package main

import (
	"fmt"
	"math"
	"os"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	resampler "github.com/tphakala/go-hq-resampler"
	"github.com/tphakala/go-hq-resampler/internal/logger"
)

func main() {
	var (
		inputRate  = pflag.Float64("input-rate", defaultInputRate, "input sample rate in Hz")
		outputRate = pflag.Float64("output-rate", defaultOutputRate, "output sample rate in Hz")
		channels   = pflag.IntP("channels", "c", defaultChannels, "number of audio channels")
		quality    = pflag.StringP("quality", "q", "high", "quality preset: low, medium, high, veryhigh")
		demo       = pflag.Bool("demo", false, "run a demonstration")
		logLevel   = pflag.String("log-level", "warn", "log level")
	)
	pflag.Parse()

	log, err := logger.New(logger.Config{Level: *logLevel, Format: "console", Stdout: true})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if *demo {
		runDemo(log)
		return
	}

	preset, err := resampler.ParseQualityPreset(*quality)
	if err != nil {
		log.Fatal("invalid quality", zap.Error(err))
	}

	r, err := resampler.New(&resampler.Config{
		InputRate:      *inputRate,
		OutputRate:     *outputRate,
		Channels:       *channels,
		Quality:        resampler.QualitySpec{Preset: preset},
		MaxInputSize:   testChunkSize,
		EnableParallel: true,
		Logger:         log,
	})
	if err != nil {
		log.Fatal("failed to create resampler", zap.Error(err))
	}
	defer r.Close()

	info := resampler.GetInfo(r)
	fmt.Printf("Resampler created:\n")
	fmt.Printf("  Plan: %s\n", info.Algorithm)
	fmt.Printf("  Ratio: %.6f (%g Hz -> %g Hz)\n", r.GetRatio(), *inputRate, *outputRate)
	for i, s := range info.Stages {
		fmt.Printf("  Stage %d: %s\n", i+1, s)
	}
	fmt.Printf("  Longest filter: %d taps\n", info.FilterLength)
	fmt.Printf("  Input before output: %d samples\n", info.InLenBeforeOutStart)
	fmt.Printf("  SIMD: %v (%s)\n", info.SIMDEnabled, info.SIMDType)

	signal := generateTestSignal(int(*inputRate*testSignalSeconds), *inputRate)
	input := make([][]float64, *channels)
	for ch := range input {
		input[ch] = signal
	}

	start := time.Now()
	produced, err := streamMulti(r, input)
	if err != nil {
		log.Fatal("processing failed", zap.Error(err))
	}
	elapsed := time.Since(start)

	fmt.Printf("\nInput samples per channel: %d\n", len(signal))
	fmt.Printf("Output samples per channel: %d\n", produced)
	fmt.Printf("Expected: %d\n", int(math.Ceil(float64(len(signal))*r.GetRatio())))
	fmt.Printf("Elapsed: %v\n", elapsed.Round(time.Microsecond))
}

// streamMulti feeds input in testChunkSize blocks, flushes and returns the
// per-channel output length.
func streamMulti(r resampler.Resampler, input [][]float64) (int, error) {
	block := make([][]float64, len(input))
	produced := 0
	for pos := 0; pos < len(input[0]); pos += testChunkSize {
		end := min(pos+testChunkSize, len(input[0]))
		for ch := range input {
			block[ch] = input[ch][pos:end]
		}
		out, err := r.ProcessMulti(block)
		if err != nil {
			return 0, err
		}
		produced += len(out[0])
	}

	tail, err := r.FlushMulti()
	if err != nil {
		return 0, err
	}
	return produced + len(tail[0]), nil
}

func generateTestSignal(samples int, sampleRate float64) []float64 {
	signal := make([]float64, samples)
	omega := 2 * math.Pi * testSignalFrequency / sampleRate
	for i := range signal {
		signal[i] = math.Sin(omega * float64(i))
	}
	return signal
}

func runDemo(log *zap.Logger) {
	fmt.Println("=== High-Quality Resampler Demo ===")

	fmt.Println("\n1. Stage plans per quality preset")
	fmt.Println("---------------------------------")

	pairs := []struct {
		from, to float64
		name     string
	}{
		{sampleRateCD, sampleRateDAT, "CD to DAT"},
		{sampleRateDAT, sampleRateCD, "DAT to CD"},
		{sampleRateCD, sampleRate2xCD, "CD to 2x"},
		{sampleRateHiRes, sampleRateCD, "Hi-res to CD"},
		{sampleRate4xDAT, sampleRateDAT, "192k to DAT"},
	}
	presets := []resampler.QualityPreset{
		resampler.QualityLow,
		resampler.QualityMedium,
		resampler.QualityHigh,
		resampler.QualityVeryHigh,
	}

	// One registry for the whole demo, so repeated filters are shared.
	reg := resampler.NewRegistry(resampler.RegistryOptions{Logger: log})

	for _, p := range pairs {
		fmt.Printf("\n%s (%.0f Hz -> %.0f Hz, ratio %.4f):\n", p.name, p.from, p.to, p.to/p.from)

		for _, q := range presets {
			r, err := resampler.New(&resampler.Config{
				InputRate:  p.from,
				OutputRate: p.to,
				Quality:    resampler.QualitySpec{Preset: q},
				Logger:     log,
				Registry:   reg,
			})
			if err != nil {
				fmt.Printf("  %-8s error: %v\n", q, err)
				continue
			}

			info := resampler.GetInfo(r)
			fmt.Printf("  %-8s %5d taps, %5d samples before output, %s\n",
				q, info.FilterLength, info.InLenBeforeOutStart, info.Algorithm)
			r.Close()
		}
	}

	fmt.Println("\n2. Throughput, 1 second of stereo audio (44.1 kHz -> 48 kHz)")
	fmt.Println("-------------------------------------------------------------")

	signal := generateTestSignal(int(sampleRateCD), sampleRateCD)
	for _, q := range presets {
		r, err := resampler.New(&resampler.Config{
			InputRate:    sampleRateCD,
			OutputRate:   sampleRateDAT,
			Channels:     stereoChannels,
			Quality:      resampler.QualitySpec{Preset: q},
			MaxInputSize: testChunkSize,
			Logger:       log,
			Registry:     reg,
		})
		if err != nil {
			continue
		}

		start := time.Now()
		n, err := streamMulti(r, [][]float64{signal, signal})
		elapsed := time.Since(start)
		r.Close()
		if err != nil {
			fmt.Printf("  %-8s error: %v\n", q, err)
			continue
		}
		fmt.Printf("  %-8s %d -> %d samples in %v (%.0fx realtime)\n",
			q, len(signal), n, elapsed.Round(time.Microsecond), testSignalSeconds/elapsed.Seconds())
	}

	fmt.Println("\n3. Multi-channel processing")
	fmt.Println("---------------------------")

	for _, ch := range []int{monoChannels, stereoChannels, surround5_1, surround7_1} {
		input := make([][]float64, ch)
		for i := range input {
			input[i] = signal
		}

		for _, parallel := range []bool{false, true} {
			r, err := resampler.New(&resampler.Config{
				InputRate:      sampleRateDAT,
				OutputRate:     sampleRateCD,
				Channels:       ch,
				Quality:        resampler.QualitySpec{Preset: resampler.QualityHigh},
				MaxInputSize:   testChunkSize,
				EnableParallel: parallel,
				Logger:         log,
				Registry:       reg,
			})
			if err != nil {
				fmt.Printf("  %d channels: error: %v\n", ch, err)
				continue
			}

			start := time.Now()
			_, err = streamMulti(r, input)
			elapsed := time.Since(start)
			r.Close()
			if err != nil {
				fmt.Printf("  %d channels: error: %v\n", ch, err)
				continue
			}
			fmt.Printf("  %d channels, parallel=%-5v %v\n", ch, parallel, elapsed.Round(time.Microsecond))
		}
	}

	stats := reg.Stats()
	fmt.Printf("\nRegistry: %d filters cached, %d hits, %d misses\n",
		stats.Filters, stats.Hits, stats.Misses)
	fmt.Printf("          %d banks cached, %d hits, %d misses\n",
		stats.Banks, stats.BankHits, stats.BankMisses)

	fmt.Println("\n=== Demo Complete ===")
}
