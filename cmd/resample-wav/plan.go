package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	resampler "github.com/tphakala/go-hq-resampler"
)

var (
	planFrom float64
	planTo   float64
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show the stage chain for a rate pair",
	RunE: func(cmd *cobra.Command, _ []string) error {
		quality, err := appConfig.Resample.QualitySpec()
		if err != nil {
			return err
		}

		r, err := resampler.New(&resampler.Config{
			InputRate:  planFrom,
			OutputRate: planTo,
			Channels:   1,
			Quality:    quality,
			Logger:     log,
		})
		if err != nil {
			return err
		}
		defer r.Close()

		info := resampler.GetInfo(r)
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintf(w, "ratio:\t%.6f\n", r.GetRatio())
		fmt.Fprintf(w, "quality:\t%s (%.2f dB, %.1f%% band)\n", quality.Preset, quality.Attenuation, quality.TransitionBand)
		fmt.Fprintf(w, "algorithm:\t%s\n", info.Algorithm)
		for i, s := range info.Stages {
			fmt.Fprintf(w, "stage %d:\t%s\n", i+1, s)
		}
		fmt.Fprintf(w, "longest filter:\t%d taps\n", info.FilterLength)
		fmt.Fprintf(w, "input before output:\t%d samples\n", info.InLenBeforeOutStart)
		fmt.Fprintf(w, "latency fraction:\t%.6f\n", info.LatencyFrac)
		fmt.Fprintf(w, "SIMD:\t%s\n", info.SIMDType)
		return w.Flush()
	},
}

func init() {
	planCmd.Flags().Float64Var(&planFrom, "from", 44100, "input sample rate in Hz")
	planCmd.Flags().Float64Var(&planTo, "to", 48000, "output sample rate in Hz")
	planCmd.Flags().StringP("quality", "q", "veryhigh", "quality preset: low, medium, high, veryhigh, custom")
	planCmd.Flags().Float64("trans-band", 0, "transition band in percent (0 keeps the preset)")
	planCmd.Flags().Float64("atten", 0, "stop-band attenuation in dB (0 keeps the preset)")
}
