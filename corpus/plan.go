package corpus

import (
	"errors"
	"fmt"
	"path"
)

var (
	ErrNoCleanFiles = errors.New("no clean speech files found")
	ErrNoRIRFiles   = errors.New("no RIR files found")
)

// Pairing is one scheduled output: clean recording Clean convolved with
// RIR number RIR of the shuffled RIR list.
type Pairing struct {
	Index int
	Shard int
	Clean int
	RIR   int

	CleanID string
	RIRID   string
	Split   Split
	Audio   string
}

// PlanOptions bounds the schedule.
type PlanOptions struct {
	TotalOutputs        int
	MaxVariantsPerClean int
	ShardSize           int
}

// ShardName formats a shard directory name.
func ShardName(shard int) string {
	return fmt.Sprintf("shard_%03d", shard)
}

// AudioPath is the output location of a pairing relative to the output root.
func AudioPath(shard int, cleanID, rirID string, index int) string {
	return path.Join("audio", ShardName(shard), fmt.Sprintf("%s__%s__%06d.wav", cleanID, rirID, index))
}

// scheduler holds the counters that advance across the whole run. The RIR
// cursor is global: it is never reset per clean file.
type scheduler struct {
	numRIRs     int
	total       int
	maxVariants int
	shardSize   int

	produced int
	shard    int
	inShard  int
	cursor   int
}

func (s *scheduler) full() bool {
	return s.produced >= s.total
}

// next claims the next global index, its shard and the next RIR.
func (s *scheduler) next() (index, shard, rir int) {
	rir = s.cursor % s.numRIRs
	s.cursor++
	if s.inShard >= s.shardSize {
		s.shard++
		s.inShard = 0
	}
	index, shard = s.produced, s.shard
	s.produced++
	s.inShard++
	return index, shard, rir
}

// Plan schedules pairings for already shuffled inputs. Each clean file in
// order receives up to MaxVariantsPerClean pairings; the global cap is
// checked before every clean file and every variant. The result has
// min(TotalOutputs, len(clean)*MaxVariantsPerClean) entries.
func Plan(clean, rirs []Source, opts PlanOptions) ([]Pairing, error) {
	if len(clean) == 0 {
		return nil, ErrNoCleanFiles
	}
	if len(rirs) == 0 {
		return nil, ErrNoRIRFiles
	}
	if opts.ShardSize < 1 {
		return nil, fmt.Errorf("shard size must be >= 1, got %d", opts.ShardSize)
	}

	s := &scheduler{
		numRIRs:     len(rirs),
		total:       opts.TotalOutputs,
		maxVariants: opts.MaxVariantsPerClean,
		shardSize:   opts.ShardSize,
	}
	capacity := len(clean) * max(opts.MaxVariantsPerClean, 0)
	out := make([]Pairing, 0, max(min(capacity, opts.TotalOutputs), 0))

	for ci, c := range clean {
		if s.full() {
			break
		}
		split := AssignSplit(c.ID)
		for v := 0; v < s.maxVariants; v++ {
			if s.full() {
				break
			}
			index, shard, ri := s.next()
			rirID := rirs[ri].ID
			out = append(out, Pairing{
				Index:   index,
				Shard:   shard,
				Clean:   ci,
				RIR:     ri,
				CleanID: c.ID,
				RIRID:   rirID,
				Split:   split,
				Audio:   AudioPath(shard, c.ID, rirID, index),
			})
		}
	}
	return out, nil
}

// ShardCount reports how many shard directories a plan touches.
func ShardCount(plan []Pairing) int {
	if len(plan) == 0 {
		return 0
	}
	return plan[len(plan)-1].Shard + 1
}
