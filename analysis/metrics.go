package analysis

import "math"

const (
	// DefaultDRRWindowMS is the width of the direct-sound window around the
	// impulse peak.
	DefaultDRRWindowMS = 2.5

	// Schroeder fit band for RT60 in dB below the total energy.
	rt60BandHighDB = -5.0
	rt60BandLowDB  = -35.0
	rt60MinPoints  = 10
	rt60TargetDB   = -60.0

	c50BoundaryS = 0.050

	energyFloor = 1e-20
)

// RIRMetrics holds the acoustic labels derived from one impulse response.
// Any field may be NaN when the signal is too degenerate to support it.
type RIRMetrics struct {
	RT60 float64 `json:"rt60"`
	DRR  float64 `json:"drr"`
	C50  float64 `json:"c50"`
}

// Analyze computes RT60, DRR and C50 for h.
func Analyze(h []float32, sampleRate int, drrWindowMS float64) RIRMetrics {
	return RIRMetrics{
		RT60: RT60(h, sampleRate),
		DRR:  DRR(h, sampleRate, drrWindowMS),
		C50:  C50(h, sampleRate),
	}
}

// Degenerate reports whether any metric is unavailable.
func (m RIRMetrics) Degenerate() bool {
	return math.IsNaN(m.RT60) || math.IsNaN(m.DRR) || math.IsNaN(m.C50)
}

// SchroederDB returns the normalized energy decay curve of h in dB:
//
//	EDC(n) = 10*log10( sum_{k>=n} h²(k) / sum_{k>=0} h²(k) )
//
// floored at -200 dB. It returns nil when h has no energy.
func SchroederDB(h []float32) []float64 {
	n := len(h)
	if n == 0 {
		return nil
	}
	edc := make([]float64, n)
	var cum float64
	for i := n - 1; i >= 0; i-- {
		v := float64(h[i])
		cum += v * v
		edc[i] = cum
	}
	total := edc[0]
	if total <= 0 {
		return nil
	}
	for i := range edc {
		edc[i] = 10 * math.Log10(math.Max(edc[i]/total, energyFloor))
	}
	return edc
}

// RT60 estimates reverberation time with the Schroeder method: a least
// squares line is fitted to the EDC samples within [-35, -5] dB and
// extrapolated to -60 dB. It returns NaN when fewer than 10 samples fall in
// the band, when h has no energy, or when the fitted curve does not decay.
func RT60(h []float32, sampleRate int) float64 {
	if sampleRate <= 0 {
		return math.NaN()
	}
	edc := SchroederDB(h)
	if edc == nil {
		return math.NaN()
	}

	sr := float64(sampleRate)
	var (
		count        int
		sumT, sumY   float64
		sumTT, sumTY float64
	)
	for i, y := range edc {
		if y > rt60BandHighDB || y < rt60BandLowDB {
			continue
		}
		t := float64(i) / sr
		count++
		sumT += t
		sumY += y
		sumTT += t * t
		sumTY += t * y
	}
	if count < rt60MinPoints {
		return math.NaN()
	}

	nf := float64(count)
	meanT := sumT / nf
	meanY := sumY / nf
	varT := sumTT - nf*meanT*meanT
	if varT <= 0 {
		return math.NaN()
	}
	slope := (sumTY - nf*meanT*meanY) / varT
	if slope >= 0 {
		return math.NaN()
	}
	intercept := meanY - slope*meanT

	return math.Max((rt60TargetDB-intercept)/slope, 0)
}

// DRR computes the direct-to-reverberant ratio in dB. The direct segment is
// a window of windowMS centred on the absolute peak of h; every other sample
// is reverberant. It returns NaN when the reverberant segment has no energy.
func DRR(h []float32, sampleRate int, windowMS float64) float64 {
	n := len(h)
	if n == 0 || sampleRate <= 0 {
		return math.NaN()
	}
	peak := PeakIndex(h)
	win := int(math.RoundToEven(windowMS * 1e-3 * float64(sampleRate)))
	if win < 1 {
		win = 1
	}
	start := peak - win/2
	if start < 0 {
		start = 0
	}
	end := start + win
	if end > n {
		end = n
	}

	var direct, reverb float64
	for i, v := range h {
		e := float64(v) * float64(v)
		if i >= start && i < end {
			direct += e
		} else {
			reverb += e
		}
	}
	return energyRatioDB(direct, reverb)
}

// C50 computes clarity: the ratio in dB of energy in the first 50 ms of h to
// the energy after it. The boundary is clamped to at least one sample and at
// most len(h). It returns NaN when there is no late energy.
func C50(h []float32, sampleRate int) float64 {
	if sampleRate <= 0 {
		return math.NaN()
	}
	boundary := int(math.RoundToEven(c50BoundaryS * float64(sampleRate)))
	if boundary < 1 {
		boundary = 1
	}
	if boundary > len(h) {
		boundary = len(h)
	}

	var early, late float64
	for i, v := range h {
		e := float64(v) * float64(v)
		if i < boundary {
			early += e
		} else {
			late += e
		}
	}
	return energyRatioDB(early, late)
}

// PeakIndex returns the first index of the absolute maximum of h.
func PeakIndex(h []float32) int {
	peakIdx := 0
	peakVal := -1.0
	for i, v := range h {
		av := math.Abs(float64(v))
		if av > peakVal {
			peakVal = av
			peakIdx = i
		}
	}
	return peakIdx
}

func energyRatioDB(num, den float64) float64 {
	if den <= 0 {
		return math.NaN()
	}
	return 10 * math.Log10(math.Max(num, energyFloor)/den)
}
