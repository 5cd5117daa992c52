package main

import (
	"errors"
	"fmt"
	"math"
	"os"
	"runtime/pprof"
	"time"

	"github.com/go-audio/audio"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	resampler "github.com/tphakala/go-hq-resampler"
	"github.com/tphakala/go-hq-resampler/internal/config"
)

var (
	inputFile  string
	outputFile string
	cpuProfile string
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Resample a WAV file",
	Example: `  resample-wav convert -i input.wav -o output.wav -r 48000
  resample-wav convert -i in.wav -o out.wav -r 96000 --quality custom --atten 150 --trans-band 5`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if inputFile == "" || outputFile == "" {
			return errors.New("both --input and --output are required")
		}

		if cpuProfile != "" {
			stop, err := startCPUProfile(cpuProfile)
			if err != nil {
				return err
			}
			defer stop()
		}

		res, err := convertFile(inputFile, outputFile, appConfig.Resample, log)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d Hz -> %g Hz, %d channels, %d frames in %v (%.1fx realtime)\n",
			outputFile, res.inputRate, res.outputRate, res.channels, res.outputFrames,
			res.elapsed.Round(time.Millisecond), res.realtimeFactor())
		return nil
	},
}

func init() {
	f := convertCmd.Flags()
	f.StringVarP(&inputFile, "input", "i", "", "input WAV file")
	f.StringVarP(&outputFile, "output", "o", "", "output WAV file")
	f.Float64P("rate", "r", 48000, "output sample rate in Hz")
	f.StringP("quality", "q", "veryhigh", "quality preset: low, medium, high, veryhigh, custom")
	f.Float64("trans-band", 0, "transition band in percent of the output band (0 keeps the preset)")
	f.Float64("atten", 0, "stop-band attenuation in dB (0 keeps the preset)")
	f.Bool("parallel", true, "process channels concurrently")
	f.Int("chunk-size", 65536, "frames per processing block")
	f.Int("bit-depth", 0, "output bit depth: 16, 24 or 32 (0 keeps the input depth)")
	f.StringVar(&cpuProfile, "cpuprofile", "", "write a CPU profile to this file")
}

// convertResult summarizes one conversion.
type convertResult struct {
	inputRate    int
	outputRate   float64
	channels     int
	inputFrames  int64
	outputFrames int64
	elapsed      time.Duration
}

func (r convertResult) realtimeFactor() float64 {
	if r.elapsed <= 0 || r.inputRate == 0 {
		return 0
	}
	audioSeconds := float64(r.inputFrames) / float64(r.inputRate)
	return audioSeconds / r.elapsed.Seconds()
}

// convertFile resamples inPath into outPath as integer PCM.
func convertFile(inPath, outPath string, cfg config.ResampleConfig, log *zap.Logger) (convertResult, error) {
	start := time.Now()

	quality, err := cfg.QualitySpec()
	if err != nil {
		return convertResult{}, err
	}
	if cfg.OutputRate != math.Trunc(cfg.OutputRate) {
		return convertResult{}, fmt.Errorf("WAV output rate must be a whole number, got %g", cfg.OutputRate)
	}
	if cfg.ChunkSize <= 0 {
		return convertResult{}, fmt.Errorf("chunk size must be positive, got %d", cfg.ChunkSize)
	}

	in, err := openWAVInput(inPath)
	if err != nil {
		return convertResult{}, err
	}
	defer func() { _ = in.Close() }()

	bitDepth := cfg.BitDepth
	if bitDepth == 0 {
		bitDepth = in.bitDepth
	}
	if fullScale(in.bitDepth) == 0 {
		return convertResult{}, fmt.Errorf("input: %w: %d", errUnsupportedBitDepth, in.bitDepth)
	}

	log.Info("converting",
		zap.String("input", inPath),
		zap.Int("input_rate", in.sampleRate),
		zap.Float64("output_rate", cfg.OutputRate),
		zap.Int("channels", in.channels),
		zap.Int("bit_depth", bitDepth),
		zap.Stringer("quality", quality.Preset),
		zap.Duration("duration", in.duration))

	r, err := resampler.New(&resampler.Config{
		InputRate:      float64(in.sampleRate),
		OutputRate:     cfg.OutputRate,
		Channels:       in.channels,
		Quality:        quality,
		MaxInputSize:   cfg.ChunkSize,
		EnableParallel: cfg.Parallel,
		Logger:         log,
	})
	if err != nil {
		return convertResult{}, fmt.Errorf("create resampler: %w", err)
	}
	defer r.Close()

	out, err := createWAVOutput(outPath, int(cfg.OutputRate), bitDepth, in.channels)
	if err != nil {
		return convertResult{}, err
	}

	inputFrames, err := pump(in, out, r, cfg.ChunkSize, log)
	if err != nil {
		_ = out.Close()
		return convertResult{}, err
	}
	if err := out.Close(); err != nil {
		return convertResult{}, err
	}

	return convertResult{
		inputRate:    in.sampleRate,
		outputRate:   cfg.OutputRate,
		channels:     in.channels,
		inputFrames:  inputFrames,
		outputFrames: out.frames,
		elapsed:      time.Since(start),
	}, nil
}

// pump streams every input block through r into out, then flushes.
func pump(in *wavInput, out *wavOutput, r resampler.Resampler, chunk int, log *zap.Logger) (int64, error) {
	buf := &audio.IntBuffer{
		Format: &audio.Format{NumChannels: in.channels, SampleRate: in.sampleRate},
		Data:   make([]int, chunk*in.channels),
	}
	chans := make([][]float64, in.channels)
	for i := range chans {
		chans[i] = make([]float64, chunk)
	}
	block := make([][]float64, in.channels)

	progress := newProgressTracker(log, int64(in.duration.Seconds()*float64(in.sampleRate)))
	var total int64
	for {
		frames, err := in.read(buf, chans)
		if err != nil {
			return total, err
		}
		if frames == 0 {
			break
		}

		for i := range chans {
			block[i] = chans[i][:frames]
		}
		resampled, err := r.ProcessMulti(block)
		if err != nil {
			return total, err
		}
		if err := out.write(resampled); err != nil {
			return total, err
		}

		total += int64(frames)
		progress.add(frames)
	}

	tail, err := r.FlushMulti()
	if err != nil {
		return total, err
	}
	return total, out.write(tail)
}

func startCPUProfile(path string) (func(), error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create CPU profile: %w", err)
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("start CPU profile: %w", err)
	}
	return func() {
		pprof.StopCPUProfile()
		_ = f.Close()
	}, nil
}
