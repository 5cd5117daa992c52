// Command resample-wav resamples WAV audio files to a target sample rate.
//
// Usage:
//
//	resample-wav convert -i input.wav -o output.wav -r 48000
//	resample-wav convert -i in.wav -o out.wav -r 44100 --quality high --parallel=false
//	resample-wav plan --from 44100 --to 48000
//
// Settings can also come from resample.yaml or RESAMPLE_ environment
// variables, e.g. RESAMPLE_RESAMPLE_QUALITY=medium.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
