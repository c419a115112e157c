// File: cmd/batch.go
package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/xkilldash9x/tinybrowser/internal/engine"
	"github.com/xkilldash9x/tinybrowser/internal/observability"
)

func newBatchCmd() *cobra.Command {
	var (
		flags       outputFlags
		concurrency int
	)

	batchCmd := &cobra.Command{
		Use:   "batch FILE...",
		Short: "Lay out many HTML documents concurrently",
		Long: `Renders every file as an independent pass and prints one summary line per
file. When an output file is configured the full layout of every document is
written to it in the configured format.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := getConfigFromContext(ctx)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("concurrency") {
				cfg.SetRenderConcurrency(concurrency)
			}
			if err := flags.apply(cmd, cfg); err != nil {
				return err
			}
			css, err := flags.readCSS()
			if err != nil {
				return err
			}

			logger := observability.GetLogger().Named("batch")
			renderer, err := engine.New(cfg, logger)
			if err != nil {
				return fmt.Errorf("failed to create renderer: %w", err)
			}

			// Unreadable files fail on their own without stopping the batch.
			var (
				errs  error
				jobs  []engine.Job
				lines = make([]string, len(args))
				index []int
			)
			for i, path := range args {
				data, err := os.ReadFile(path)
				if err != nil {
					errs = multierr.Append(errs, fmt.Errorf("%s: %w", path, err))
					lines[i] = fmt.Sprintf("FAIL %s: %v", path, err)
					continue
				}
				jobs = append(jobs, engine.Job{Source: path, HTML: string(data), CSS: css})
				index = append(index, i)
			}

			results, batchErr := renderer.RenderBatch(ctx, jobs)
			errs = multierr.Append(errs, batchErr)

			var report bool
			if out := cfg.Render().Output; out != "" && out != "stdout" {
				report = true
			}
			var snapshots []*engine.Result
			for j, res := range results {
				path := jobs[j].Source
				if res == nil {
					lines[index[j]] = fmt.Sprintf("FAIL %s", path)
					continue
				}
				root := res.Snapshot.Root
				height := 0.0
				if root != nil {
					height = root.Content.Height
				}
				lines[index[j]] = fmt.Sprintf("ok   %s boxes=%d height=%s",
					path, res.Snapshot.Count(), strconv.FormatFloat(height, 'f', -1, 64))
				snapshots = append(snapshots, res)
			}
			for _, line := range lines {
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}

			if report {
				reporter, err := newReporter(cmd, cfg)
				if err != nil {
					return err
				}
				for _, res := range snapshots {
					if err := reporter.Write(res.Snapshot); err != nil {
						errs = multierr.Append(errs, err)
						break
					}
				}
				errs = multierr.Append(errs, reporter.Close())
			}

			if errs != nil {
				failed := len(args) - len(snapshots)
				logger.Warn("Batch finished with failures", zap.Int("failed", failed), zap.Int("total", len(args)))
				return fmt.Errorf("%d of %d documents failed: %w", failed, len(args), errs)
			}
			logger.Info("Batch finished", zap.Int("documents", len(args)))
			return nil
		},
	}

	batchCmd.Flags().IntVar(&concurrency, "concurrency", 0, "maximum concurrent passes (overrides render.concurrency)")
	flags.register(batchCmd)
	return batchCmd
}
