package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cwbudde/rir-speech/corpus"
	"github.com/cwbudde/rir-speech/internal/config"
)

func newValidateCommand(ctx *commandContext) *cobra.Command {
	var outRoot string
	var checkLimit int

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check manifest columns, audio file presence and split balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			root := strings.TrimSpace(outRoot)
			if root == "" {
				cfg, err := ctx.ensureConfig()
				if err != nil {
					return err
				}
				root = cfg.Paths.OutRoot
			} else {
				expanded, err := config.ExpandPath(root)
				if err != nil {
					return err
				}
				root = expanded
			}
			if root == "" {
				return errors.New("--out-root is required (or set paths.out_root)")
			}

			rep, err := corpus.Validate(root, checkLimit)
			if err != nil {
				return err
			}
			if len(rep.MissingColumns) > 0 {
				return fmt.Errorf("%s: missing columns: %s", rep.Manifest, strings.Join(rep.MissingColumns, ", "))
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Checked %d audio paths. Missing: %d\n", rep.Checked, len(rep.MissingAudio))
			for i, p := range rep.MissingAudio {
				if i == 10 {
					fmt.Fprintf(out, "  ... and %d more\n", len(rep.MissingAudio)-i)
					break
				}
				fmt.Fprintf(out, "  missing %s\n", p)
			}
			fmt.Fprintln(out, renderSplitTable(rep))
			return nil
		},
	}

	cmd.Flags().StringVar(&outRoot, "out-root", "", "Corpus output directory (defaults to paths.out_root)")
	cmd.Flags().IntVar(&checkLimit, "check-limit", corpus.DefaultCheckLimit, "Number of audio paths to check")
	return cmd
}

func renderSplitTable(rep corpus.Report) string {
	rows := make([][]string, 0, len(corpus.Splits)+1)
	for _, split := range corpus.Splits {
		n := rep.SplitCounts[split]
		share := 0.0
		if rep.Rows > 0 {
			share = 100 * float64(n) / float64(rep.Rows)
		}
		rows = append(rows, []string{string(split), fmt.Sprint(n), fmt.Sprintf("%.1f%%", share)})
	}
	rows = append(rows, []string{"total", fmt.Sprint(rep.Rows), ""})
	return renderTable([]string{"Split", "Rows", "Share"}, rows, []columnAlignment{alignLeft, alignRight, alignRight})
}
