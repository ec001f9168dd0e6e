package cli

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/almanac/pkg/almanac"
	"github.com/matzehuels/almanac/pkg/config"
	"github.com/matzehuels/almanac/pkg/pipeline"
)

// solveFlags holds flags for the solve command.
type solveFlags struct {
	mode      string
	workers   int
	batchSize uint64
	timeout   time.Duration
	noCache   bool
	refresh   bool
	tui       bool
	stats     bool
	quiet     bool
}

// solveCommand creates the solve command.
func (c *CLI) solveCommand() *cobra.Command {
	flags := solveFlags{}

	cmd := &cobra.Command{
		Use:   "solve [file]",
		Short: "Print the lowest location for an almanac",
		Long: `Solve reads an almanac (from a file, or stdin when no file or "-" is given)
and prints the lowest location number.

Modes:
  exact   resolve each listed seed through the category chain
  ranged  read seeds as (start, length) pairs and scan every value through
          the seven fixed stages in parallel

Results are cached by input hash and mode; use --refresh to recompute.`,
		Example: `  almanac solve input.txt
  almanac solve --mode ranged --workers 8 input.txt
  cat input.txt | almanac solve --mode ranged --tui`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.config()
			if err != nil {
				return err
			}
			applyConfig(cmd, &flags, cfg)
			return c.runSolve(cmd, args, flags, cfg)
		},
	}

	cmd.Flags().StringVarP(&flags.mode, "mode", "m", pipeline.DefaultMode, "search mode: exact or ranged")
	cmd.Flags().IntVarP(&flags.workers, "workers", "w", 0, "concurrent ranged-scan batches (default: number of CPUs)")
	cmd.Flags().Uint64Var(&flags.batchSize, "batch-size", pipeline.DefaultBatchSize, "values per ranged-scan batch")
	cmd.Flags().DurationVar(&flags.timeout, "timeout", 0, "abort the search after this long (0 = no limit)")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable the result cache")
	cmd.Flags().BoolVar(&flags.refresh, "refresh", false, "recompute even when a cached result exists")
	cmd.Flags().BoolVar(&flags.tui, "tui", false, "show an interactive progress view (ranged mode)")
	cmd.Flags().BoolVar(&flags.stats, "stats", false, "print run statistics to stderr")
	cmd.Flags().BoolVarP(&flags.quiet, "quiet", "q", false, "suppress the progress spinner")

	return cmd
}

// applyConfig fills flags the user did not set from the config file.
func applyConfig(cmd *cobra.Command, flags *solveFlags, cfg config.Config) {
	set := cmd.Flags().Changed
	if !set("mode") && cfg.Mode != "" {
		flags.mode = cfg.Mode
	}
	if !set("workers") && cfg.Workers != 0 {
		flags.workers = cfg.Workers
	}
	if !set("batch-size") && cfg.BatchSize != 0 {
		flags.batchSize = cfg.BatchSize
	}
	if !set("timeout") && cfg.Timeout.Duration != 0 {
		flags.timeout = cfg.Timeout.Duration
	}
}

func (c *CLI) runSolve(cmd *cobra.Command, args []string, flags solveFlags, cfg config.Config) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	if err := pipeline.ValidateMode(flags.mode); err != nil {
		return err
	}
	input, source, err := readInput(cmd, args)
	if err != nil {
		return err
	}
	logger.Debug("read almanac", "source", source, "bytes", len(input))

	runner, err := c.newRunner(ctx, cfg, flags.noCache, nil)
	if err != nil {
		return err
	}
	defer runner.Close()

	opts := pipeline.Options{
		Input:     input,
		Mode:      flags.mode,
		Workers:   flags.workers,
		BatchSize: flags.batchSize,
		Timeout:   flags.timeout,
		Refresh:   flags.refresh,
		Logger:    logger,
	}

	var res *pipeline.Result
	switch {
	case flags.tui && opts.Mode == pipeline.ModeRanged:
		res, err = c.solveTUI(cmd, runner, opts)
	case flags.quiet || opts.Mode != pipeline.ModeRanged:
		res, err = runner.Execute(ctx, opts)
	default:
		res, err = solveWithSpinner(cmd, runner, opts)
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), res.Location)
	if flags.stats {
		printStats(res)
	}
	return nil
}

// solveWithSpinner runs a ranged scan behind a spinner showing percent done.
func solveWithSpinner(cmd *cobra.Command, runner *pipeline.Runner, opts pipeline.Options) (*pipeline.Result, error) {
	total, err := rangedTotal(opts.Input)
	if err != nil {
		// Let the runner report the input error with its usual wrapping.
		return runner.Execute(cmd.Context(), opts)
	}

	var done atomic.Uint64
	opts.OnProgress = func(n uint64) { done.Add(n) }

	spinner := newSpinnerWithStatus(cmd.Context(), "Scanning seed ranges", func() string {
		return percent(done.Load(), total)
	})
	spinner.Start()
	prog := newProgress(opts.Logger)

	res, err := runner.Execute(cmd.Context(), opts)
	spinner.Stop()
	if err != nil {
		return nil, err
	}
	prog.done("ranged scan finished", "values", formatCount(res.Stats.Evaluations), "cached", res.CacheHit)
	return res, nil
}

// rangedTotal parses input far enough to count the values a ranged scan
// evaluates.
func rangedTotal(input []byte) (uint64, error) {
	a, err := almanac.ParseString(string(input))
	if err != nil {
		return 0, err
	}
	f, err := almanac.NewFixed(a)
	if err != nil {
		return 0, err
	}
	return f.TotalValues(), nil
}

// percent formats done/total as a percentage with one decimal.
func percent(done, total uint64) string {
	if total == 0 {
		return "0.0%"
	}
	return fmt.Sprintf("%.1f%%", 100*float64(done)/float64(total))
}
