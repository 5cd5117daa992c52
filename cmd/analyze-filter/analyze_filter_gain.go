// Command analyze-filter prints the measured DC gain and stop-band
// attenuation of the low-pass filters and fractional delay banks each
// quality preset designs.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	resampler "github.com/tphakala/go-hq-resampler"
	"github.com/tphakala/go-hq-resampler/internal/fft"
	"github.com/tphakala/go-hq-resampler/internal/filter"
)

const (
	defaultNormFreq = 0.5 // 2x conversion cutoff
	responsePoints  = 2048
	maxEntriesShown = 5
)

func main() {
	normFreq := pflag.Float64("norm-freq", defaultNormFreq, "stop-band start normalized to Nyquist")
	transBand := pflag.Float64("trans-band", 0, "transition band in percent (0 uses the preset value)")
	pflag.Parse()

	keeper := fft.NewKeeper()
	presets := []resampler.QualityPreset{
		resampler.QualityLow,
		resampler.QualityMedium,
		resampler.QualityHigh,
		resampler.QualityVeryHigh,
	}

	fmt.Println("=== Low-pass filters ===")
	for _, p := range presets {
		q := resampler.GetPresetSpec(p)
		if *transBand != 0 {
			q.TransitionBand = *transBand
		}

		f, err := filter.DesignLowPass(filter.LowPassSpec{
			NormFreq:  *normFreq,
			TransBand: q.TransitionBand,
			Atten:     q.Attenuation,
		}, keeper)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", p, err)
			os.Exit(1)
		}

		taps := f.Taps(keeper)
		fmt.Printf("\n%s (%.2f dB requested, %.1f%% band):\n", p, q.Attenuation, q.TransitionBand)
		fmt.Printf("  Kernel length: %d, block: 2^%d\n", f.KernelLen(), f.BlockLenBits())
		fmt.Printf("  Latency: %d + %.4f samples\n", f.Latency(), f.LatencyFrac())
		fmt.Printf("  DC gain: %.12f\n", filter.DCGain(taps))
		fmt.Printf("  Measured stop-band attenuation: %.2f dB\n",
			filter.StopbandAttenuation(taps, *normFreq, responsePoints))
	}

	fmt.Println("\n=== Fractional delay banks ===")
	for _, p := range presets {
		q := resampler.GetPresetSpec(p)
		bank, err := filter.NewFracDelayFilterBank(filter.BankSpec{
			Fracs:  filter.FracsAuto,
			Order:  3,
			Points: filter.Points8,
			Atten:  q.Attenuation,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s bank: %v\n", p, err)
			os.Exit(1)
		}

		fmt.Printf("\n%s: %d taps, %d fractions, %.2f dB table row\n",
			p, bank.FilterLen(), bank.FilterFracs(), bank.Atten())

		step := max(1, bank.FilterFracs()/(maxEntriesShown-1))
		for j := 0; j <= bank.FilterFracs(); j += step {
			c0, _, _, _ := bank.Planes(j)
			delay := float64(bank.FilterFracs()-j) / float64(bank.FilterFracs())
			fmt.Printf("  Entry %4d (delay %.3f): DC gain %.12f\n", j, delay, filter.DCGain(c0))
		}
	}
}
