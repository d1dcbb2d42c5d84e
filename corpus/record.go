package corpus

import (
	"github.com/cwbudde/rir-speech/analysis"
)

// RIR is a discovered impulse response with its metrics, computed once per
// run.
type RIR struct {
	Source
	Metrics analysis.RIRMetrics
}

// Record is one produced (or, in a dry run, planned) corpus sample. Audio
// is relative to the output root with forward slashes. Index and Shard are
// not written to the manifests.
type Record struct {
	Audio     string
	RT60      float64
	DRR       float64
	C50       float64
	LUFS      float64
	DurationS float64
	CleanID   string
	RIRID     string
	Split     Split

	Index int
	Shard int
}

// SplitCounts tallies records per partition. Every partition is present.
func SplitCounts(records []Record) map[Split]int {
	counts := make(map[Split]int, len(Splits))
	for _, s := range Splits {
		counts[s] = 0
	}
	for _, r := range records {
		counts[r.Split]++
	}
	return counts
}
