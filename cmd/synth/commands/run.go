package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/xdefago/synth-light/internal/config"
	"github.com/xdefago/synth-light/internal/orchestrator"
	"github.com/xdefago/synth-light/internal/printer"
	"github.com/xdefago/synth-light/internal/resultstore"
)

const defaultOutputDir = "results"

var (
	runClassL        bool
	runSequential    bool
	runWorkers       int
	runWeakFilter    bool
	runRetainRule    bool
	runStrictMoves   bool
	runScheduler     string
	runRigid         bool
	runQuasiSS       bool
	runToFile        bool
	runOutputDir     string
	runWorkspace     string
	runRamdisk       bool
	runKeepTrails    bool
	runDeterministic bool
	runTimeout       time.Duration
	runRedisURL      string
	runConfigFile    string
)

var runCmd = &cobra.Command{
	Use:   "run [light-class] [num-colors]",
	Short: "Search a model for gathering algorithms",
	Long: `Search the full algorithm space of a model for algorithms that solve
gathering, verifying each surviving candidate with Spin.

The light class is one of full, internal or external; the color count
runs from 1 to 5. All other model parameters default to the weakest
setting (async scheduler, non-rigid movement, self-stabilizing).

Examples:
  # the classic two-color full-lights search
  synth run full 2

  # class-L external lights under a centralized scheduler
  synth run external 4 -L --sched centralized

  # reproducible report written to a file, one checker at a time
  synth run full 2 --sequential --file --deterministic`,
	Args: cobra.MaximumNArgs(2),
	RunE: runRun,
}

func init() {
	runCmd.Flags().BoolVarP(&runClassL, "class-l", "L", false, "Limit search to class L (position-oblivious) algorithms")
	runCmd.Flags().BoolVarP(&runSequential, "sequential", "S", false, "Verify candidates one at a time")
	runCmd.Flags().IntVar(&runWorkers, "workers", 0, "Number of parallel workers (0 = all cores)")
	runCmd.Flags().BoolVarP(&runWeakFilter, "weak", "w", false, "Drop algorithms that leave some color unused")
	runCmd.Flags().BoolVarP(&runRetainRule, "retain", "R", false, "Apply Viglietta's retain rule (full lights only)")
	runCmd.Flags().BoolVar(&runStrictMoves, "strict-moves", false, "Require STAY, TO_HALF and TO_OTHER among non-gathered rules")
	runCmd.Flags().StringVarP(&runScheduler, "sched", "s", "async", "Scheduler of the model")
	runCmd.Flags().BoolVar(&runRigid, "rigid", false, "Rigid moves restriction (otherwise non-rigid)")
	runCmd.Flags().BoolVarP(&runQuasiSS, "quasi-ss", "Q", false, "Quasi self-stabilizing restriction (otherwise self-stabilizing)")
	runCmd.Flags().BoolVarP(&runToFile, "file", "f", false, "Write the report to a file named from the run parameters")
	runCmd.Flags().StringVarP(&runOutputDir, "out", "o", "", "Report file path (implies --file)")
	runCmd.Flags().StringVar(&runWorkspace, "workspace", "", "Caller-designated scratch directory")
	runCmd.Flags().BoolVarP(&runRamdisk, "ramdisk", "r", false, "Back the scratch directory with an in-memory mount")
	runCmd.Flags().BoolVar(&runKeepTrails, "keep-trails", false, "Preserve counterexample trails and record their paths")
	runCmd.Flags().BoolVar(&runDeterministic, "deterministic", false, "Sort the report by canonical code")
	runCmd.Flags().DurationVar(&runTimeout, "timeout", 0, "Per-checker wall-clock ceiling (0 = none)")
	runCmd.Flags().StringVar(&runRedisURL, "redis", "", "Redis URL for the optional verdict store")
	runCmd.Flags().StringVarP(&runConfigFile, "config", "c", "", "YAML run configuration (flags override)")
	rootCmd.AddCommand(runCmd)
}

// buildConfig merges the YAML configuration (if any) with the CLI
// flags; explicitly set flags win.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := &config.Config{}
	if runConfigFile != "" {
		loaded, err := config.Load(runConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if len(args) > 0 {
		cfg.Model.LightClass = args[0]
	}
	if len(args) > 1 {
		if _, err := fmt.Sscanf(args[1], "%d", &cfg.Model.NumColors); err != nil {
			return nil, fmt.Errorf("invalid color count: %q", args[1])
		}
	}
	if cmd.Flags().Changed("class-l") {
		cfg.Model.ClassL = runClassL
	}
	if cmd.Flags().Changed("sched") || cfg.Model.Scheduler == "" {
		cfg.Model.Scheduler = runScheduler
	}
	if cmd.Flags().Changed("rigid") {
		cfg.Model.Rigid = runRigid
	}
	if cmd.Flags().Changed("quasi-ss") {
		cfg.Model.QuasiSS = runQuasiSS
	}
	if cmd.Flags().Changed("sequential") {
		cfg.Run.Sequential = runSequential
	}
	if cmd.Flags().Changed("workers") {
		cfg.Run.Workers = runWorkers
	}
	if cmd.Flags().Changed("weak") {
		cfg.Run.WeakFilter = runWeakFilter
	}
	if cmd.Flags().Changed("retain") {
		cfg.Run.RetainRule = runRetainRule
	}
	if cmd.Flags().Changed("strict-moves") {
		cfg.Run.StrictMoves = runStrictMoves
	}
	if cmd.Flags().Changed("workspace") {
		cfg.Run.Workspace = runWorkspace
	}
	if cmd.Flags().Changed("ramdisk") {
		cfg.Run.Ramdisk = runRamdisk
	}
	if cmd.Flags().Changed("keep-trails") {
		cfg.Run.KeepTrails = runKeepTrails
	}
	if cmd.Flags().Changed("deterministic") {
		cfg.Run.Deterministic = runDeterministic
	}
	if cmd.Flags().Changed("timeout") {
		cfg.Run.Timeout = runTimeout
	}
	if cmd.Flags().Changed("redis") {
		cfg.Run.RedisURL = runRedisURL
	}
	if cmd.Flags().Changed("out") {
		cfg.Run.OutputDir = runOutputDir
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return printer.Error(
			"invalid run configuration",
			err.Error(),
			[]string{"See 'synth run --help' for the accepted model parameters."},
		)
	}

	// the first signal drains workers after their current checker
	// invocation; restoring default handling lets a second one abort
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		stop()
	}()

	// resolve the report destination
	var reportPath string
	if cfg.Run.OutputDir != "" {
		reportPath = cfg.Run.OutputDir
	} else if runToFile {
		reportPath = filepath.Join(defaultOutputDir, cfg.ReportName())
	}

	sinks := []resultstore.Sink{}
	var writer resultstore.Sink
	var reportFile *os.File
	if reportPath != "" {
		if err := os.MkdirAll(filepath.Dir(reportPath), 0o755); err != nil {
			return printer.Error("cannot create output directory", err.Error(), nil)
		}
		reportFile, err = os.OpenFile(reportPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err != nil {
			return printer.Error(
				"cannot create report file",
				err.Error(),
				[]string{"Remove the existing report or pass a different --out path."},
			)
		}
		defer reportFile.Close()
		printer.Info("Report file: %s\n", reportPath)
		writer = resultstore.NewWriterSink(resultstore.NewTee(reportFile, os.Stdout))
	} else {
		writer = resultstore.NewWriterSink(os.Stdout)
	}
	// a deterministic report is written once, sorted, after the search
	if !cfg.Run.Deterministic {
		sinks = append(sinks, writer)
	}

	runID := uuid.New().String()
	if cfg.Run.RedisURL != "" {
		store, err := resultstore.OpenRedisStore(cfg.Run.RedisURL, runID)
		if err != nil {
			return printer.Error("cannot open verdict store", err.Error(), nil)
		}
		defer store.Close()
		if err := store.Ping(ctx); err != nil {
			return printer.Error("verdict store unreachable", err.Error(), nil)
		}
		if err := store.SetParams(ctx, map[string]string{
			"light_class": cfg.Model.LightClass,
			"num_colors":  fmt.Sprintf("%d", cfg.Model.NumColors),
			"class_l":     fmt.Sprintf("%v", cfg.Model.ClassL),
			"scheduler":   cfg.Model.Scheduler,
			"rigid":       fmt.Sprintf("%v", cfg.Model.Rigid),
			"quasi_ss":    fmt.Sprintf("%v", cfg.Model.QuasiSS),
		}); err != nil {
			return printer.Error("verdict store rejected run parameters", err.Error(), nil)
		}
		printer.Info("Verdict store: run %s\n", runID)
		sinks = append(sinks, store)
	}
	sink := resultstore.NewMulti(sinks...)

	params := orchestrator.ModelParams{
		Kind:      cfg.Kind(),
		NumColors: cfg.Model.NumColors,
		ClassL:    cfg.Model.ClassL,
		Scheduler: cfg.Sched(),
		Rigid:     cfg.Model.Rigid,
		QuasiSS:   cfg.Model.QuasiSS,
	}
	flags := orchestrator.RunFlags{
		Sequential:    cfg.Run.Sequential,
		Workers:       cfg.Run.Workers,
		RetainRule:    cfg.Run.RetainRule,
		WeakFilter:    cfg.Run.WeakFilter,
		StrictMoves:   cfg.Run.StrictMoves,
		Workspace:     cfg.Run.Workspace,
		Ramdisk:       cfg.Run.Ramdisk,
		KeepTrails:    cfg.Run.KeepTrails,
		Deterministic: cfg.Run.Deterministic,
		Timeout:       cfg.Run.Timeout,
		Sink:          sink,
	}

	progress := printer.NewProgress(time.Second)
	flags.Progress = progress.Update

	engine, err := orchestrator.New(params, flags)
	if err != nil {
		return printer.Error("cannot start search", err.Error(), nil)
	}

	printer.Step("Searching %s lights, %d colors, %s scheduler\n",
		cfg.Model.LightClass, cfg.Model.NumColors, cfg.Model.Scheduler)

	report, err := engine.Run(ctx)
	progress.Done()
	if err != nil {
		return printer.Error(
			"search failed",
			err.Error(),
			[]string{"Check that spin and a C compiler are installed and on the PATH."},
		)
	}

	if report.Cancelled {
		printer.Warning("search cancelled; partial report follows\n")
	}
	if cfg.Run.Deterministic {
		for _, res := range report.Results {
			if err := writer.Record(res); err != nil {
				return printer.Error("cannot write report", err.Error(), nil)
			}
		}
	}
	printer.Success("Verification finished with %d pass, %d fail, %d incomplete, %d errors (%d candidates of %d algorithms)\n",
		report.Gathers, report.Fails, report.Incomplete, report.Errors, report.Candidates, report.Scanned)
	printer.Info("Timing: prepare %s, verify %s, cleanup %s\n",
		report.Timing.Prepare.Round(time.Millisecond),
		report.Timing.Verify.Round(time.Millisecond),
		report.Timing.Cleanup.Round(time.Millisecond))

	return sink.Close()
}
