package corpus

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/cwbudde/rir-speech/analysis"
	"github.com/cwbudde/rir-speech/internal/logging"
)

// MeasureOptions configures MeasureRIRs.
type MeasureOptions struct {
	SampleRate  int
	DRRWindowMS float64
	Workers     int
	Logger      *slog.Logger
	// Progress, if set, is called after each RIR with the running count.
	Progress func(done, total int)
}

// MeasureRIRs loads every source at opts.SampleRate and computes RT60, DRR
// and C50. Results are stored by index, so the output order is the input
// order regardless of which worker finishes first. A load failure aborts.
func MeasureRIRs(ctx context.Context, audio AudioIO, sources []Source, opts MeasureOptions) ([]RIR, error) {
	logger := logging.Or(opts.Logger)
	rirs := make([]RIR, len(sources))
	var done int
	var doneMu sync.Mutex

	err := parallelFor(ctx, opts.Workers, len(sources), func(i int) error {
		src := sources[i]
		h, sr, err := audio.LoadMono(src.Path, opts.SampleRate)
		if err != nil {
			return fmt.Errorf("load rir %s: %w", src.Path, err)
		}
		m := analysis.Analyze(h, sr, opts.DRRWindowMS)
		if m.Degenerate() {
			logger.Debug("degenerate rir metrics",
				slog.String("rir_id", src.ID),
				slog.Float64("rt60", m.RT60),
				slog.Float64("drr", m.DRR),
				slog.Float64("c50", m.C50),
			)
		}
		rirs[i] = RIR{Source: src, Metrics: m}

		if opts.Progress != nil {
			doneMu.Lock()
			done++
			opts.Progress(done, len(sources))
			doneMu.Unlock()
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rirs, nil
}
