package main

import (
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"

	"github.com/cwbudde/rir-speech/corpus"
)

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// stageProgress renders one progress bar per build stage.
type stageProgress struct {
	w     io.Writer
	stage corpus.Stage
	bar   *progressbar.ProgressBar
}

// newStageProgress returns nil when w is not a terminal, so redirected
// output stays free of control sequences.
func newStageProgress(w io.Writer) *stageProgress {
	if !isTerminal(w) {
		return nil
	}
	return &stageProgress{w: w}
}

func (p *stageProgress) update(stage corpus.Stage, done, total int) {
	if p.bar == nil || stage != p.stage {
		p.finish()
		p.stage = stage
		p.bar = progressbar.NewOptions(total,
			progressbar.OptionSetWriter(p.w),
			progressbar.OptionSetDescription(string(stage)),
			progressbar.OptionShowCount(),
			progressbar.OptionSetPredictTime(true),
			progressbar.OptionThrottle(100*time.Millisecond),
			progressbar.OptionClearOnFinish(),
		)
	}
	_ = p.bar.Set(done)
}

func (p *stageProgress) finish() {
	if p.bar != nil {
		_ = p.bar.Finish()
		p.bar = nil
	}
}
