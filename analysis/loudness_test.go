package analysis

import (
	"errors"
	"math"
	"testing"
)

func TestIntegratedLoudnessSine(t *testing.T) {
	const sr = 48000
	sig := make([]float32, 4*sr)
	for i := range sig {
		sig[i] = float32(0.5 * math.Sin(2*math.Pi*1000.0/sr*float64(i)))
	}
	got := IntegratedLoudness(sig, sr)
	if math.IsNaN(got) || math.Abs(got-(-9.2)) > 0.5 {
		t.Fatalf("IntegratedLoudness = %.2f LUFS, want about -9.2", got)
	}
}

func TestIntegratedLoudnessTooShortIsNaN(t *testing.T) {
	sig := make([]float32, 1000)
	for i := range sig {
		sig[i] = 0.1
	}
	if got := IntegratedLoudness(sig, 16000); !math.IsNaN(got) {
		t.Fatalf("IntegratedLoudness(short) = %f, want NaN", got)
	}
	if _, err := MeasureLoudness(sig, 16000); !errors.Is(err, ErrTooShortForLoudness) {
		t.Fatalf("MeasureLoudness(short) error = %v", err)
	}
}

func TestIntegratedLoudnessInvalidRateIsNaN(t *testing.T) {
	if got := IntegratedLoudness(make([]float32, 16000), 0); !math.IsNaN(got) {
		t.Fatalf("IntegratedLoudness(rate 0) = %f, want NaN", got)
	}
}

func TestIntegratedLoudnessSilence(t *testing.T) {
	got := IntegratedLoudness(make([]float32, 16000), 16000)
	if !math.IsInf(got, -1) {
		t.Fatalf("IntegratedLoudness(silence) = %f, want -Inf", got)
	}
}
