package audioio

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	dspresample "github.com/cwbudde/algo-dsp/dsp/resample"
	"github.com/cwbudde/wav"
	"github.com/go-audio/audio"
)

// PeakCeiling is the largest absolute sample value written by WriteWAVInt16.
const PeakCeiling = 0.999

// Disk reads and writes audio files on the local filesystem.
type Disk struct{}

// LoadMono implements the corpus audio loader on top of LoadMono.
func (Disk) LoadMono(path string, targetRate int) ([]float32, int, error) {
	return LoadMono(path, targetRate)
}

// WriteWAV implements the corpus audio writer on top of WriteWAVInt16.
func (Disk) WriteWAV(path string, samples []float32, sampleRate int) error {
	return WriteWAVInt16(path, samples, sampleRate)
}

// LoadMono reads a WAV or FLAC file, averages its channels and resamples to
// targetRate when the file rate differs. A targetRate <= 0 keeps the file rate.
func LoadMono(path string, targetRate int) ([]float32, int, error) {
	var (
		mono []float64
		rate int
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".flac":
		mono, rate, err = ReadFLACMono(path)
	default:
		mono, rate, err = ReadWAVMono(path)
	}
	if err != nil {
		return nil, 0, err
	}
	if targetRate > 0 && rate != targetRate {
		mono, err = ResampleIfNeeded(mono, rate, targetRate)
		if err != nil {
			return nil, 0, fmt.Errorf("resample %s: %w", path, err)
		}
		rate = targetRate
	}
	return toFloat32(mono), rate, nil
}

func ReadWAVMono(path string) ([]float64, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()
	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, 0, fmt.Errorf("invalid wav file: %s", path)
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, 0, err
	}
	if buf == nil || buf.Format == nil || buf.Format.NumChannels < 1 {
		return nil, 0, fmt.Errorf("invalid wav buffer: %s", path)
	}
	ch := buf.Format.NumChannels
	frames := len(buf.Data) / ch
	out := make([]float64, frames)
	for i := 0; i < frames; i++ {
		var sum float64
		for c := 0; c < ch; c++ {
			sum += float64(buf.Data[i*ch+c])
		}
		out[i] = sum / float64(ch)
	}
	return out, buf.Format.SampleRate, nil
}

func ResampleIfNeeded(in []float64, fromRate int, toRate int) ([]float64, error) {
	if fromRate == toRate {
		return in, nil
	}
	r, err := dspresample.NewForRates(
		float64(fromRate),
		float64(toRate),
		dspresample.WithQuality(dspresample.QualityBest),
	)
	if err != nil {
		return nil, err
	}
	return r.Process(in), nil
}

// WriteWAVInt16 writes a 16-bit mono WAV. Signals whose peak exceeds
// PeakCeiling are scaled down so the peak equals PeakCeiling; quieter
// signals are written unchanged.
func WriteWAVInt16(path string, samples []float32, sampleRate int) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := wav.NewEncoder(f, sampleRate, 16, 1, 1)
	defer enc.Close()

	buf := &audio.Float32Buffer{
		Format: &audio.Format{
			SampleRate:  sampleRate,
			NumChannels: 1,
		},
		Data:           PeakLimit(samples, PeakCeiling),
		SourceBitDepth: 16,
	}
	return enc.Write(buf)
}

// PeakLimit returns x scaled so that its absolute peak is at most ceiling.
// The input is returned as-is when no scaling is needed.
func PeakLimit(x []float32, ceiling float64) []float32 {
	peak := Peak(x)
	if peak <= ceiling {
		return x
	}
	s := ceiling / peak
	out := make([]float32, len(x))
	for i, v := range x {
		out[i] = float32(float64(v) * s)
	}
	return out
}

func Peak(x []float32) float64 {
	peak := 0.0
	for _, v := range x {
		a := float64(v)
		if a < 0 {
			a = -a
		}
		if a > peak {
			peak = a
		}
	}
	return peak
}

func toFloat32(in []float64) []float32 {
	out := make([]float32, len(in))
	for i, v := range in {
		out[i] = float32(v)
	}
	return out
}
