package audioio

import (
	"errors"

	dspconv "github.com/cwbudde/algo-dsp/dsp/conv"
	algofft "github.com/cwbudde/algo-fft"
)

// DirectKernelMax is the kernel length at or below which Convolve uses
// direct time-domain summation instead of FFT convolution.
const DirectKernelMax = 32

var ErrEmptySignal = errors.New("audioio: cannot convolve empty signal")

// Convolve returns the full linear convolution of x and h, of length
// len(x)+len(h)-1.
func Convolve(x []float32, h []float32) ([]float32, error) {
	if len(x) == 0 || len(h) == 0 {
		return nil, ErrEmptySignal
	}
	if len(h) <= DirectKernelMax || len(x) <= DirectKernelMax {
		return ConvolveDirect(x, h)
	}
	out := make([]float32, len(x)+len(h)-1)
	if err := algofft.ConvolveReal(out, x, h); err != nil {
		return nil, err
	}
	return out, nil
}

// ConvolveDirect computes the full linear convolution in float64 and
// narrows the result to float32.
func ConvolveDirect(x []float32, h []float32) ([]float32, error) {
	if len(x) == 0 || len(h) == 0 {
		return nil, ErrEmptySignal
	}
	y, err := dspconv.Direct(toFloat64(x), toFloat64(h))
	if err != nil {
		return nil, err
	}
	return toFloat32(y), nil
}

func toFloat64(in []float32) []float64 {
	out := make([]float64, len(in))
	for i, v := range in {
		out[i] = float64(v)
	}
	return out
}
