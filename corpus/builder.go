package corpus

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"github.com/cwbudde/rir-speech/analysis"
	"github.com/cwbudde/rir-speech/internal/audioio"
	"github.com/cwbudde/rir-speech/internal/logging"
)

// LockName is the exclusive build lock created in the output root.
const LockName = ".build.lock"

// ErrLocked reports that another build holds the output root.
var ErrLocked = errors.New("output root is locked by another build")

// AudioIO loads and stores mono audio. audioio.Disk is the file-backed
// implementation.
type AudioIO interface {
	LoadMono(path string, targetRate int) ([]float32, int, error)
	WriteWAV(path string, samples []float32, sampleRate int) error
}

// Options configures a build.
type Options struct {
	CleanRoot string
	RIRRoot   string
	OutRoot   string

	TotalOutputs        int
	MaxVariantsPerClean int
	Seed                int64
	SampleRate          int
	ShardSize           int
	DryRun              bool

	// Workers <= 0 means one worker.
	Workers     int
	DRRWindowMS float64

	SQLiteIndex   bool
	RIRMetricsCSV bool
}

func (o Options) validate() error {
	switch {
	case o.CleanRoot == "":
		return errors.New("clean root must be set")
	case o.RIRRoot == "":
		return errors.New("rir root must be set")
	case o.OutRoot == "":
		return errors.New("out root must be set")
	case o.SampleRate <= 0:
		return fmt.Errorf("sample rate must be > 0, got %d", o.SampleRate)
	case o.ShardSize < 1:
		return fmt.Errorf("shard size must be >= 1, got %d", o.ShardSize)
	case !(o.DRRWindowMS > 0):
		return errors.New("drr window must be > 0")
	}
	return nil
}

// Stage identifies a long-running phase for progress reporting.
type Stage string

const (
	StageRIRMetrics Stage = "rir-metrics"
	StageSynthesis  Stage = "synthesis"
)

// ProgressFunc receives cumulative progress. Calls are serialized.
type ProgressFunc func(stage Stage, done, total int)

// Result describes a finished build.
type Result struct {
	Records []Record
	RIRs    []RIR
	Summary Summary
	Elapsed time.Duration
}

// Builder runs the corpus pipeline.
type Builder struct {
	opts     Options
	audio    AudioIO
	logger   *slog.Logger
	progress ProgressFunc

	progressMu sync.Mutex
}

// NewBuilder returns a builder reading and writing audio through audio.
// A nil audio uses audioio.Disk; a nil logger discards output.
func NewBuilder(opts Options, audio AudioIO, logger *slog.Logger) *Builder {
	if audio == nil {
		audio = audioio.Disk{}
	}
	return &Builder{opts: opts, audio: audio, logger: logging.Or(logger)}
}

// OnProgress installs a progress callback.
func (b *Builder) OnProgress(fn ProgressFunc) {
	b.progress = fn
}

func (b *Builder) report(stage Stage, done, total int) {
	if b.progress == nil {
		return
	}
	b.progressMu.Lock()
	defer b.progressMu.Unlock()
	b.progress(stage, done, total)
}

// Run discovers inputs, measures every RIR once, schedules pairings,
// synthesizes (unless DryRun) and writes manifests and the summary.
// Missing inputs fail with ErrNoCleanFiles or ErrNoRIRFiles before anything
// is written.
func (b *Builder) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	opts := b.opts
	if err := opts.validate(); err != nil {
		return nil, err
	}

	clean, err := discoverInputs(opts.CleanRoot, ErrNoCleanFiles)
	if err != nil {
		return nil, err
	}
	rirSources, err := discoverInputs(opts.RIRRoot, ErrNoRIRFiles)
	if err != nil {
		return nil, err
	}
	b.logger.Info("inputs discovered",
		slog.Int("clean_files", len(clean)),
		slog.Int("rir_files", len(rirSources)),
		slog.Int64("seed", opts.Seed),
	)

	if err := os.MkdirAll(opts.OutRoot, 0o755); err != nil {
		return nil, fmt.Errorf("create out root: %w", err)
	}
	lock := flock.New(filepath.Join(opts.OutRoot, LockName))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrLocked, opts.OutRoot)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			b.logger.Warn("failed to release build lock", slog.Any("error", err))
		}
	}()

	ShuffleInputs(clean, rirSources, opts.Seed)

	rirs, err := b.measureRIRs(ctx, rirSources)
	if err != nil {
		return nil, err
	}

	plan, err := Plan(clean, rirSources, PlanOptions{
		TotalOutputs:        opts.TotalOutputs,
		MaxVariantsPerClean: opts.MaxVariantsPerClean,
		ShardSize:           opts.ShardSize,
	})
	if err != nil {
		return nil, err
	}

	records, err := b.synthesize(ctx, clean, rirs, plan)
	if err != nil {
		return nil, err
	}

	summary := Summary{
		Seed:                opts.Seed,
		SampleRate:          opts.SampleRate,
		TotalOutputs:        len(records),
		MaxVariantsPerClean: opts.MaxVariantsPerClean,
		ShardSize:           opts.ShardSize,
		NumCleanFilesFound:  len(clean),
		NumRIRFilesFound:    len(rirs),
		DryRun:              opts.DryRun,
		RequestedOutputs:    opts.TotalOutputs,
		ShardCount:          ShardCount(plan),
		SplitCounts:         SplitCounts(records),
		RunID:               uuid.NewString(),
	}
	if err := b.writeOutputs(ctx, summary, records, rirs); err != nil {
		return nil, err
	}

	elapsed := time.Since(start)
	b.logger.Info("build complete",
		slog.String("out_root", opts.OutRoot),
		slog.Int("produced", len(records)),
		slog.Int("shards", summary.ShardCount),
		slog.Bool("dry_run", opts.DryRun),
		slog.Duration("elapsed", elapsed),
	)
	return &Result{Records: records, RIRs: rirs, Summary: summary, Elapsed: elapsed}, nil
}

// discoverInputs treats a missing root like an empty one.
func discoverInputs(root string, none error) ([]Source, error) {
	src, err := Discover(root)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w under %s: %v", none, root, err)
	}
	if err != nil {
		return nil, err
	}
	if len(src) == 0 {
		return nil, fmt.Errorf("%w under %s", none, root)
	}
	return src, nil
}

func (b *Builder) measureRIRs(ctx context.Context, sources []Source) ([]RIR, error) {
	b.report(StageRIRMetrics, 0, len(sources))
	return MeasureRIRs(ctx, b.audio, sources, MeasureOptions{
		SampleRate:  b.opts.SampleRate,
		DRRWindowMS: b.opts.DRRWindowMS,
		Workers:     b.opts.Workers,
		Logger:      b.logger,
		Progress: func(done, total int) {
			b.report(StageRIRMetrics, done, total)
		},
	})
}

// synthesize turns the plan into records. Pairings for one clean file are
// consecutive, so each job covers one clean file and loads it once.
func (b *Builder) synthesize(ctx context.Context, clean []Source, rirs []RIR, plan []Pairing) ([]Record, error) {
	records := make([]Record, len(plan))
	for i, p := range plan {
		r := rirs[p.RIR]
		records[i] = Record{
			Audio:     p.Audio,
			RT60:      r.Metrics.RT60,
			DRR:       r.Metrics.DRR,
			C50:       r.Metrics.C50,
			LUFS:      math.NaN(),
			DurationS: math.NaN(),
			CleanID:   p.CleanID,
			RIRID:     p.RIRID,
			Split:     p.Split,
			Index:     p.Index,
			Shard:     p.Shard,
		}
	}
	if b.opts.DryRun || len(plan) == 0 {
		b.report(StageSynthesis, len(plan), len(plan))
		return records, nil
	}

	groups := groupByClean(plan)
	var done int
	var doneMu sync.Mutex
	b.report(StageSynthesis, 0, len(plan))

	err := parallelFor(ctx, b.opts.Workers, len(groups), func(g int) error {
		group := groups[g]
		src := clean[plan[group[0]].Clean]
		x, sr, err := b.audio.LoadMono(src.Path, b.opts.SampleRate)
		if err != nil {
			return fmt.Errorf("load clean %s: %w", src.Path, err)
		}
		for _, idx := range group {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := b.render(&records[idx], x, sr, rirs[plan[idx].RIR]); err != nil {
				return err
			}
			doneMu.Lock()
			done++
			n := done
			doneMu.Unlock()
			b.report(StageSynthesis, n, len(plan))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (b *Builder) render(rec *Record, x []float32, sr int, rir RIR) error {
	h, _, err := b.audio.LoadMono(rir.Path, b.opts.SampleRate)
	if err != nil {
		return fmt.Errorf("load rir %s: %w", rir.Path, err)
	}
	y, err := audioio.Convolve(x, h)
	if err != nil {
		return fmt.Errorf("convolve %s: %w", rec.Audio, err)
	}
	rec.DurationS = float64(len(y)) / float64(sr)
	rec.LUFS = analysis.IntegratedLoudness(y, sr)

	out := filepath.Join(b.opts.OutRoot, filepath.FromSlash(rec.Audio))
	if err := b.audio.WriteWAV(out, y, sr); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	return nil
}

// groupByClean splits plan indices into runs sharing a clean file.
func groupByClean(plan []Pairing) [][]int {
	var groups [][]int
	for i, p := range plan {
		if i == 0 || p.Clean != plan[i-1].Clean {
			groups = append(groups, nil)
		}
		groups[len(groups)-1] = append(groups[len(groups)-1], i)
	}
	return groups
}

func (b *Builder) writeOutputs(ctx context.Context, s Summary, records []Record, rirs []RIR) error {
	metaDir := filepath.Join(b.opts.OutRoot, MetadataDir)
	if err := WriteManifests(metaDir, records); err != nil {
		return err
	}
	if b.opts.RIRMetricsCSV {
		if err := WriteRIRMetrics(filepath.Join(metaDir, RIRMetricsName), rirs); err != nil {
			return err
		}
	}
	if err := WriteSummary(filepath.Join(b.opts.OutRoot, StatsDir, SummaryName), s); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	if b.opts.SQLiteIndex {
		if err := WriteSQLiteIndex(ctx, filepath.Join(metaDir, SQLiteIndexName), s, records); err != nil {
			return fmt.Errorf("write sqlite index: %w", err)
		}
	}
	return nil
}
