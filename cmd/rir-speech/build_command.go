package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/cwbudde/rir-speech/corpus"
	"github.com/cwbudde/rir-speech/internal/audioio"
	"github.com/cwbudde/rir-speech/internal/config"
)

type buildFlags struct {
	cleanRoot           string
	rirRoot             string
	outRoot             string
	totalOutputs        int
	maxVariantsPerClean int
	seed                int64
	sampleRate          int
	shardSize           int
	dryRun              bool
	workers             string
	sqliteIndex         bool
	drrWindowMS         float64
	noProgress          bool
}

func newBuildCommand(ctx *commandContext) *cobra.Command {
	def := config.Default()
	f := &buildFlags{}

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Convolve clean speech with RIRs and write a labeled corpus",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := applyBuildFlags(cmd.Flags(), f, cfg); err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			logger, err := ctx.logger(cmd)
			if err != nil {
				return err
			}

			builder := corpus.NewBuilder(buildOptions(cfg), audioio.Disk{}, logger)
			var progress *stageProgress
			if !f.noProgress {
				progress = newStageProgress(cmd.ErrOrStderr())
			}
			if progress != nil {
				builder.OnProgress(progress.update)
			}
			logger.Info("build starting",
				slog.String("clean_root", cfg.Paths.CleanRoot),
				slog.String("rir_root", cfg.Paths.RIRRoot),
				slog.Int("total_outputs", cfg.Build.TotalOutputs),
				slog.Int("workers", cfg.WorkerCount()),
				slog.Bool("dry_run", cfg.Build.DryRun),
			)

			res, err := builder.Run(cmd.Context())
			if progress != nil {
				progress.finish()
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderSummary(res.Summary))
			fmt.Fprintf(out, "Done. Outputs at: %s\n", cfg.Paths.OutRoot)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.cleanRoot, "clean-root", "", "Directory searched recursively for clean speech")
	flags.StringVar(&f.rirRoot, "rir-root", "", "Directory searched recursively for room impulse responses")
	flags.StringVar(&f.outRoot, "out-root", "", "Corpus output directory")
	flags.IntVar(&f.totalOutputs, "total-outputs", def.Build.TotalOutputs, "Maximum number of outputs")
	flags.IntVar(&f.maxVariantsPerClean, "max-variants-per-clean", def.Build.MaxVariantsPerClean, "Maximum RIR pairings per clean recording")
	flags.Int64Var(&f.seed, "seed", def.Build.Seed, "Shuffle seed")
	flags.IntVar(&f.sampleRate, "sr", def.Build.SampleRate, "Working and output sample rate")
	flags.IntVar(&f.shardSize, "shard-size", def.Build.ShardSize, "Outputs per audio shard directory")
	flags.BoolVar(&f.dryRun, "dry-run", false, "Plan and label without writing audio")
	flags.StringVar(&f.workers, "workers", def.Build.Workers, "Parallel workers (integer >= 1 or 'auto')")
	flags.BoolVar(&f.sqliteIndex, "sqlite-index", false, "Also write metadata/metadata.db")
	flags.Float64Var(&f.drrWindowMS, "drr-window-ms", def.Metrics.DRRWindowMS, "Direct-path window for DRR")
	flags.BoolVar(&f.noProgress, "no-progress", false, "Disable the progress bar")
	return cmd
}

// applyBuildFlags overrides config values with flags the user set
// explicitly; untouched flags leave the config file's values in place.
func applyBuildFlags(flags *pflag.FlagSet, f *buildFlags, cfg *config.Config) error {
	if flags.Changed("clean-root") {
		cfg.Paths.CleanRoot = f.cleanRoot
	}
	if flags.Changed("rir-root") {
		cfg.Paths.RIRRoot = f.rirRoot
	}
	if flags.Changed("out-root") {
		cfg.Paths.OutRoot = f.outRoot
	}
	if flags.Changed("total-outputs") {
		cfg.Build.TotalOutputs = f.totalOutputs
	}
	if flags.Changed("max-variants-per-clean") {
		cfg.Build.MaxVariantsPerClean = f.maxVariantsPerClean
	}
	if flags.Changed("seed") {
		cfg.Build.Seed = f.seed
	}
	if flags.Changed("sr") {
		cfg.Build.SampleRate = f.sampleRate
	}
	if flags.Changed("shard-size") {
		cfg.Build.ShardSize = f.shardSize
	}
	if flags.Changed("dry-run") {
		cfg.Build.DryRun = f.dryRun
	}
	if flags.Changed("workers") {
		cfg.Build.Workers = f.workers
	}
	if flags.Changed("sqlite-index") {
		cfg.Build.SQLiteIndex = f.sqliteIndex
	}
	if flags.Changed("drr-window-ms") {
		cfg.Metrics.DRRWindowMS = f.drrWindowMS
	}
	return cfg.Normalize()
}

func buildOptions(cfg *config.Config) corpus.Options {
	return corpus.Options{
		CleanRoot:           cfg.Paths.CleanRoot,
		RIRRoot:             cfg.Paths.RIRRoot,
		OutRoot:             cfg.Paths.OutRoot,
		TotalOutputs:        cfg.Build.TotalOutputs,
		MaxVariantsPerClean: cfg.Build.MaxVariantsPerClean,
		Seed:                cfg.Build.Seed,
		SampleRate:          cfg.Build.SampleRate,
		ShardSize:           cfg.Build.ShardSize,
		DryRun:              cfg.Build.DryRun,
		Workers:             cfg.WorkerCount(),
		DRRWindowMS:         cfg.Metrics.DRRWindowMS,
		SQLiteIndex:         cfg.Build.SQLiteIndex,
		RIRMetricsCSV:       cfg.Build.RIRMetricsCSV,
	}
}

func renderSummary(s corpus.Summary) string {
	rows := [][]string{
		{"produced", fmt.Sprintf("%d / %d", s.TotalOutputs, s.RequestedOutputs)},
		{"clean files", fmt.Sprint(s.NumCleanFilesFound)},
		{"rir files", fmt.Sprint(s.NumRIRFilesFound)},
		{"shards", fmt.Sprint(s.ShardCount)},
	}
	for _, split := range corpus.Splits {
		rows = append(rows, []string{string(split), fmt.Sprint(s.SplitCounts[split])})
	}
	if s.DryRun {
		rows = append(rows, []string{"dry run", "yes"})
	}
	return renderTable([]string{"Build", "Value"}, rows, []columnAlignment{alignLeft, alignRight})
}
