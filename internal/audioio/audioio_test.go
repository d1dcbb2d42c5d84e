package audioio

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func sine(n int, freq float64, sampleRate int, amp float64) []float32 {
	out := make([]float32, n)
	for i := range out {
		out[i] = float32(amp * math.Sin(2*math.Pi*freq*float64(i)/float64(sampleRate)))
	}
	return out
}

func TestWriteReadWAVRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "tone.wav")
	in := sine(1600, 440, 16000, 0.5)

	if err := WriteWAVInt16(path, in, 16000); err != nil {
		t.Fatalf("WriteWAVInt16: %v", err)
	}
	got, sr, err := LoadMono(path, 16000)
	if err != nil {
		t.Fatalf("LoadMono: %v", err)
	}
	if sr != 16000 {
		t.Fatalf("sample rate = %d, want 16000", sr)
	}
	if len(got) != len(in) {
		t.Fatalf("length = %d, want %d", len(got), len(in))
	}
	for i := range in {
		if d := math.Abs(float64(got[i] - in[i])); d > 2e-3 {
			t.Fatalf("sample %d differs by %g (got=%f want=%f)", i, d, got[i], in[i])
		}
	}
}

func TestWriteWAVInt16LimitsPeak(t *testing.T) {
	path := filepath.Join(t.TempDir(), "loud.wav")
	in := sine(800, 200, 16000, 3.0)

	if err := WriteWAVInt16(path, in, 16000); err != nil {
		t.Fatalf("WriteWAVInt16: %v", err)
	}
	got, _, err := LoadMono(path, 0)
	if err != nil {
		t.Fatalf("LoadMono: %v", err)
	}
	peak := Peak(got)
	if peak > PeakCeiling+2e-3 || peak < PeakCeiling-5e-3 {
		t.Fatalf("peak after limiting = %f, want ~%f", peak, PeakCeiling)
	}
}

func TestPeakLimitLeavesQuietSignal(t *testing.T) {
	in := []float32{0.1, -0.5, 0.999}
	out := PeakLimit(in, PeakCeiling)
	for i := range in {
		if out[i] != in[i] {
			t.Fatalf("quiet signal modified at %d: %f -> %f", i, in[i], out[i])
		}
	}

	loud := []float32{0.5, -2.0}
	out = PeakLimit(loud, PeakCeiling)
	if math.Abs(float64(out[1])+PeakCeiling) > 1e-6 {
		t.Fatalf("peak sample = %f, want %f", out[1], -PeakCeiling)
	}
	if math.Abs(float64(out[0])-0.25*PeakCeiling) > 1e-6 {
		t.Fatalf("scaled sample = %f, want %f", out[0], 0.25*PeakCeiling)
	}
}

func TestLoadMonoResamples(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone32k.wav")
	if err := WriteWAVInt16(path, sine(32000, 300, 32000, 0.4), 32000); err != nil {
		t.Fatalf("WriteWAVInt16: %v", err)
	}
	got, sr, err := LoadMono(path, 16000)
	if err != nil {
		t.Fatalf("LoadMono: %v", err)
	}
	if sr != 16000 {
		t.Fatalf("sample rate = %d, want 16000", sr)
	}
	if len(got) < 15900 || len(got) > 16100 {
		t.Fatalf("resampled length = %d, want ~16000", len(got))
	}
}

func TestLoadMonoMissingFile(t *testing.T) {
	_, _, err := LoadMono(filepath.Join(t.TempDir(), "missing.wav"), 16000)
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestConvolveMatchesDirect(t *testing.T) {
	x := sine(700, 310, 16000, 0.8)
	h := make([]float32, 257)
	for i := range h {
		h[i] = float32(math.Exp(-float64(i)/40.0) * math.Cos(float64(i)))
	}

	got, err := Convolve(x, h)
	if err != nil {
		t.Fatalf("Convolve: %v", err)
	}
	want, err := ConvolveDirect(x, h)
	if err != nil {
		t.Fatalf("ConvolveDirect: %v", err)
	}
	if len(got) != len(x)+len(h)-1 || len(want) != len(got) {
		t.Fatalf("lengths got=%d want=%d", len(got), len(want))
	}
	for i := range got {
		if math.Abs(float64(got[i]-want[i])) > 1e-3 {
			t.Fatalf("mismatch at %d: fft=%f direct=%f", i, got[i], want[i])
		}
	}
}

func TestConvolveShortKernel(t *testing.T) {
	got, err := Convolve([]float32{1, 2, 3}, []float32{0, 1, 0.5})
	if err != nil {
		t.Fatalf("Convolve: %v", err)
	}
	want := []float32{0, 1, 2.5, 4, 1.5}
	if len(got) != len(want) {
		t.Fatalf("length = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if math.Abs(float64(got[i]-want[i])) > 1e-6 {
			t.Fatalf("y[%d] = %f, want %f", i, got[i], want[i])
		}
	}
}

func TestConvolveEmpty(t *testing.T) {
	if _, err := Convolve(nil, []float32{1}); !errors.Is(err, ErrEmptySignal) {
		t.Fatalf("expected ErrEmptySignal, got %v", err)
	}
}
