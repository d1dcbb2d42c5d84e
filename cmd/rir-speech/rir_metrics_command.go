package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cwbudde/rir-speech/corpus"
	"github.com/cwbudde/rir-speech/internal/audioio"
	"github.com/cwbudde/rir-speech/internal/config"
)

func newRIRMetricsCommand(ctx *commandContext) *cobra.Command {
	var sampleRate int
	var workers string
	var csvPath string

	cmd := &cobra.Command{
		Use:   "rir-metrics <dir>",
		Short: "Compute RT60, DRR and C50 for every RIR under a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("sr") {
				cfg.Build.SampleRate = sampleRate
			}
			if cmd.Flags().Changed("workers") {
				cfg.Build.Workers = workers
			}
			if err := cfg.ValidateBuild(); err != nil {
				return err
			}
			logger, err := ctx.logger(cmd)
			if err != nil {
				return err
			}

			dir, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}
			sources, err := corpus.Discover(dir)
			if err != nil {
				return err
			}
			if len(sources) == 0 {
				return fmt.Errorf("%w under %s", corpus.ErrNoRIRFiles, dir)
			}

			rirs, err := corpus.MeasureRIRs(cmd.Context(), audioio.Disk{}, sources, corpus.MeasureOptions{
				SampleRate:  cfg.Build.SampleRate,
				DRRWindowMS: cfg.Metrics.DRRWindowMS,
				Workers:     cfg.WorkerCount(),
				Logger:      logger,
			})
			if err != nil {
				return err
			}

			if csvPath != "" {
				if err := corpus.WriteRIRMetrics(csvPath, rirs); err != nil {
					return err
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderRIRTable(rirs))
			return nil
		},
	}

	def := config.Default()
	cmd.Flags().IntVar(&sampleRate, "sr", def.Build.SampleRate, "Analysis sample rate")
	cmd.Flags().StringVar(&workers, "workers", def.Build.Workers, "Parallel workers (integer >= 1 or 'auto')")
	cmd.Flags().StringVar(&csvPath, "csv", "", "Also write the metrics to this CSV file")
	return cmd
}

func renderRIRTable(rirs []corpus.RIR) string {
	rows := make([][]string, 0, len(rirs))
	for _, r := range rirs {
		rows = append(rows, []string{
			r.ID,
			formatMetric(r.Metrics.RT60, 3),
			formatMetric(r.Metrics.DRR, 2),
			formatMetric(r.Metrics.C50, 2),
		})
	}
	return renderTable(
		[]string{"RIR", "RT60 (s)", "DRR (dB)", "C50 (dB)"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignRight, alignRight},
	)
}
