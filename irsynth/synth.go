package irsynth

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/cwbudde/algo-approx"
	"github.com/cwbudde/algo-dsp/dsp/filter/biquad"
	"github.com/cwbudde/algo-dsp/dsp/filter/design"
)

// Config controls synthetic room impulse response generation.
//
// The response is a direct impulse after PreDelayS, a cluster of sparse
// early reflections within the first 50 ms, and a low-passed Gaussian tail
// whose amplitude falls by 60 dB over RT60S.
type Config struct {
	SampleRate int
	DurationS  float64
	Seed       int64

	RT60S       float64
	PreDelayS   float64
	DirectLevel float64
	EarlyCount  int
	EarlyLevel  float64
	LateLevel   float64

	TailCutoffHz float64 // Butterworth low-pass on the diffuse tail; 0 disables
	FadeOutS     float64 // Cosine fade-out at the end; 0 = no fade

	NormalizePeak float64
}

func DefaultConfig() Config {
	return Config{
		SampleRate:    16000,
		DurationS:     1.0,
		Seed:          1,
		RT60S:         0.5,
		PreDelayS:     0.002,
		DirectLevel:   1.0,
		EarlyCount:    12,
		EarlyLevel:    0.4,
		LateLevel:     0.08,
		TailCutoffHz:  5000,
		FadeOutS:      0.01,
		NormalizePeak: 0.9,
	}
}

func (c *Config) Validate() error {
	if c.SampleRate < 8000 {
		return fmt.Errorf("sample rate too low: %d", c.SampleRate)
	}
	if c.DurationS <= 0 {
		return fmt.Errorf("duration must be > 0")
	}
	if c.RT60S <= 0 {
		return fmt.Errorf("rt60 must be > 0")
	}
	if c.PreDelayS < 0 || c.PreDelayS >= c.DurationS {
		return fmt.Errorf("pre-delay must be in [0, duration)")
	}
	if c.DirectLevel < 0 {
		return fmt.Errorf("direct level must be >= 0")
	}
	if c.EarlyCount < 0 {
		return fmt.Errorf("early count must be >= 0")
	}
	if c.EarlyLevel < 0 {
		return fmt.Errorf("early level must be >= 0")
	}
	if c.LateLevel < 0 {
		return fmt.Errorf("late level must be >= 0")
	}
	if c.TailCutoffHz < 0 || c.TailCutoffHz >= 0.5*float64(c.SampleRate) {
		return fmt.Errorf("tail cutoff must be in [0, nyquist)")
	}
	if c.NormalizePeak <= 0 {
		return fmt.Errorf("normalize peak must be > 0")
	}
	return nil
}

// Generate synthesizes a mono room impulse response according to cfg.
// Output is deterministic for a given Config.
func Generate(cfg Config) ([]float32, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	sr := float64(cfg.SampleRate)
	n := int(math.Round(cfg.DurationS * sr))
	if n < 1 {
		n = 1
	}
	buf := make([]float64, n)
	rng := rand.New(rand.NewSource(cfg.Seed))

	// Amplitude decay rate in nepers per second for a 60 dB energy drop.
	decayRate := 3.0 * math.Ln10 / cfg.RT60S
	pre := int(cfg.PreDelayS * sr)

	buf[pre] += cfg.DirectLevel

	for i := 0; i < cfg.EarlyCount; i++ {
		t := 0.001 + 0.049*rng.Float64()
		idx := pre + int(t*sr)
		if idx <= pre || idx >= n {
			continue
		}
		amp := cfg.EarlyLevel * (0.25 + 0.75*rng.Float64()) * envelope(decayRate, t)
		if rng.Float64() < 0.5 {
			amp = -amp
		}
		buf[idx] += amp
	}

	if cfg.LateLevel > 0 {
		var lp *biquad.Chain
		if cfg.TailCutoffHz > 0 {
			lp = biquad.NewChain(design.ButterworthLP(cfg.TailCutoffHz, 2, sr))
		}
		for i := pre; i < n; i++ {
			t := float64(i-pre) / sr
			v := rng.NormFloat64()
			if lp != nil {
				v = lp.ProcessSample(v)
			}
			buf[i] += cfg.LateLevel * envelope(decayRate, t) * v
		}
	}

	highpassDC(buf, 0.995)
	applyFadeOut(buf, cfg.FadeOutS, cfg.SampleRate)

	peak := maxAbs(buf)
	if peak < 1e-12 {
		peak = 1e-12
	}
	s := cfg.NormalizePeak / peak
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		out[i] = float32(buf[i] * s)
	}
	return out, nil
}

func envelope(decayRate float64, t float64) float64 {
	return float64(approx.FastExp(float32(-decayRate * t)))
}

func highpassDC(x []float64, r float64) {
	if len(x) == 0 {
		return
	}
	prevIn := 0.0
	prevOut := 0.0
	for i := range x {
		y := x[i] - prevIn + r*prevOut
		prevIn = x[i]
		prevOut = y
		x[i] = y
	}
}

func maxAbs(x []float64) float64 {
	m := 0.0
	for _, v := range x {
		a := math.Abs(v)
		if a > m {
			m = a
		}
	}
	return m
}

// applyFadeOut applies a cosine fade-out to the last fadeS seconds of buf.
func applyFadeOut(buf []float64, fadeS float64, sampleRate int) {
	if fadeS <= 0 || len(buf) == 0 {
		return
	}
	fadeSamples := int(math.Round(fadeS * float64(sampleRate)))
	if fadeSamples > len(buf) {
		fadeSamples = len(buf)
	}
	start := len(buf) - fadeSamples
	for i := 0; i < fadeSamples; i++ {
		t := float64(i) / float64(fadeSamples)
		gain := 0.5 * (1.0 + math.Cos(t*math.Pi))
		buf[start+i] *= gain
	}
}

func lerp(a, b, t float64) float64 {
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	return a + (b-a)*t
}
