package audioio

import (
	"errors"
	"fmt"
	"io"

	"github.com/mewkiz/flac"
)

// ReadFLACMono decodes a FLAC file and averages its channels.
func ReadFLACMono(path string) ([]float64, int, error) {
	stream, err := flac.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer stream.Close()

	info := stream.Info
	if info == nil || info.NChannels < 1 || info.BitsPerSample < 1 {
		return nil, 0, fmt.Errorf("invalid flac stream info: %s", path)
	}
	ch := int(info.NChannels)
	scale := 1.0 / float64(int64(1)<<(info.BitsPerSample-1))

	out := make([]float64, 0, int(info.NSamples))
	for {
		frame, err := stream.ParseNext()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("decode flac frame %s: %w", path, err)
		}
		if len(frame.Subframes) < ch {
			return nil, 0, fmt.Errorf("flac frame has %d subframes, want %d: %s", len(frame.Subframes), ch, path)
		}
		n := len(frame.Subframes[0].Samples)
		for i := 0; i < n; i++ {
			var sum float64
			for c := 0; c < ch; c++ {
				sum += float64(frame.Subframes[c].Samples[i])
			}
			out = append(out, sum*scale/float64(ch))
		}
	}
	return out, int(info.SampleRate), nil
}
