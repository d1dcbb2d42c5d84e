package analysis

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-dsp/measure/loudness"
)

// gatingBlockS is the BS.1770 gating block length. Signals shorter than one
// block have no defined integrated loudness.
const gatingBlockS = 0.4

var ErrTooShortForLoudness = errors.New("analysis: signal shorter than one loudness gating block")

// MeasureLoudness returns the BS.1770 integrated loudness of a mono signal
// in LUFS. Silent input yields -Inf.
func MeasureLoudness(samples []float32, sampleRate int) (lufs float64, err error) {
	if sampleRate <= 0 {
		return math.NaN(), fmt.Errorf("analysis: invalid sample rate %d", sampleRate)
	}
	if float64(len(samples)) < gatingBlockS*float64(sampleRate) {
		return math.NaN(), ErrTooShortForLoudness
	}
	defer func() {
		if r := recover(); r != nil {
			lufs = math.NaN()
			err = fmt.Errorf("analysis: loudness meter: %v", r)
		}
	}()

	m := loudness.NewMeter(
		loudness.WithSampleRate(float64(sampleRate)),
		loudness.WithChannels(1),
	)
	block := make([]float64, len(samples))
	for i, v := range samples {
		block[i] = float64(v)
	}
	m.StartIntegration()
	m.ProcessBlock(block)
	m.StopIntegration()
	return m.Integrated(), nil
}

// IntegratedLoudness is MeasureLoudness with every failure mapped to NaN.
func IntegratedLoudness(samples []float32, sampleRate int) float64 {
	lufs, err := MeasureLoudness(samples, sampleRate)
	if err != nil {
		return math.NaN()
	}
	return lufs
}
