package pipeline

import (
	"fmt"
	"strings"
)

// Stage is one step of a resampling pipeline. Stages are synchronous and
// not safe for concurrent use.
type Stage interface {
	// Process consumes all of in and returns the produced samples, which
	// are written into out (out must hold MaxOutLen(len(in)) samples).
	// The result may alias out only.
	Process(in, out []float64) []float64

	// Clear returns the stage to its post-construction state.
	Clear()

	// Latency returns the integer latency the stage leaves in its output.
	// Stages that consume their own latency report 0.
	Latency() int

	// LatencyFrac returns the fractional latency passed on to the next stage.
	LatencyFrac() float64

	// MaxOutLen returns the largest output a call with maxInLen samples produces.
	MaxOutLen(maxInLen int) int

	// InLenBeforeOutStart returns how many input samples must be fed before
	// the next input produces output sample number nextInLen (0-based).
	InLenBeforeOutStart(nextInLen int) int

	// Info describes the stage.
	Info() StageInfo
}

// StageInfo summarizes a constructed stage.
type StageInfo struct {
	Kind        string
	Taps        int
	Up, Down    int
	Latency     int
	LatencyFrac float64
	Detail      string
}

func (si StageInfo) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s", si.Kind)
	if si.Up > 1 || si.Down > 1 {
		fmt.Fprintf(&b, " %d/%d", si.Up, si.Down)
	}
	if si.Taps > 0 {
		fmt.Fprintf(&b, " taps=%d", si.Taps)
	}
	fmt.Fprintf(&b, " latency=%d frac=%.6f", si.Latency, si.LatencyFrac)
	if si.Detail != "" {
		b.WriteString(" ")
		b.WriteString(si.Detail)
	}
	return b.String()
}
