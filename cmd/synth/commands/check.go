package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/xdefago/synth-light/internal/promela"
	"github.com/xdefago/synth-light/internal/printer"
	"github.com/xdefago/synth-light/internal/verifier"
	"github.com/xdefago/synth-light/internal/workspace"
	"github.com/xdefago/synth-light/pkg/lights"
)

var (
	checkClassL    bool
	checkColors    int
	checkClass     string
	checkScheduler string
	checkRigid     bool
	checkQuasiSS   bool
	checkTimeout   time.Duration
	checkKeepTrail bool
	checkWorkspace string
)

var checkCmd = &cobra.Command{
	Use:   "check [algorithm-code]",
	Short: "Verify a single algorithm given by its canonical code",
	Long: `Verify one algorithm against the gathering property. The code string
must match the model selected by --class, --colors and --class-l, for
example:

  synth check --class full --colors 2 \
      00s_01s_10s_11s_00d_01d_10d_11d__S0_S0_S1_S1_S1_S0_O1_H0`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().StringVar(&checkClass, "class", "full", "Light class of the model")
	checkCmd.Flags().IntVar(&checkColors, "colors", 2, "Number of colors of the model")
	checkCmd.Flags().BoolVarP(&checkClassL, "class-l", "L", false, "Interpret the code as a class L algorithm")
	checkCmd.Flags().StringVarP(&checkScheduler, "sched", "s", "async", "Scheduler of the model")
	checkCmd.Flags().BoolVar(&checkRigid, "rigid", false, "Rigid moves restriction")
	checkCmd.Flags().BoolVarP(&checkQuasiSS, "quasi-ss", "Q", false, "Quasi self-stabilizing restriction")
	checkCmd.Flags().DurationVar(&checkTimeout, "timeout", 0, "Wall-clock ceiling for the checker (0 = none)")
	checkCmd.Flags().BoolVar(&checkKeepTrail, "keep-trail", false, "Preserve the counterexample trail")
	checkCmd.Flags().StringVar(&checkWorkspace, "workspace", "", "Caller-designated scratch directory")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	algo, sched, err := parseAlgorithmArgs(args[0], checkClass, checkColors, checkClassL, checkScheduler)
	if err != nil {
		return err
	}

	if err := verifier.CheckToolchain(""); err != nil {
		return printer.Error(
			"checker toolchain not found",
			err.Error(),
			[]string{"Install spin and a C compiler, and make sure both are on the PATH."},
		)
	}

	ws, err := workspace.Create(workspace.Options{Path: checkWorkspace})
	if err != nil {
		return printer.Error("cannot create workspace", err.Error(), nil)
	}
	defer func() {
		if err := ws.Release(); err != nil {
			printer.Warning("workspace release failed: %v\n", err)
		}
	}()

	enclosure, err := ws.NewEnclosure()
	if err != nil {
		return printer.Error("cannot create enclosure", err.Error(), nil)
	}
	if err := promela.InstallTemplates(enclosure); err != nil {
		return printer.Error("cannot install model templates", err.Error(), nil)
	}

	driver := verifier.NewDriver(enclosure, verifier.ModelOptions{
		Scheduler: sched,
		Rigid:     checkRigid,
		QuasiSS:   checkQuasiSS,
	})
	driver.Timeout = checkTimeout
	driver.KeepTrails = checkKeepTrail

	printer.Step("Verifying %s\n", algo.Code())
	outcome, err := driver.Verify(algo)
	if err != nil {
		return printer.Error("verification failed", err.Error(), nil)
	}

	switch outcome.Verdict {
	case verifier.Gathers:
		printer.Success("%s: the algorithm gathers\n", outcome.Verdict)
	case verifier.Counterexample:
		printer.Info("%s: gathering is violated\n", outcome.Verdict)
		if outcome.TrailPath != "" {
			printer.Info("trail preserved at %s\n", outcome.TrailPath)
		}
	case verifier.Incomplete:
		printer.Warning("%s: search did not complete; verdict inconclusive\n", outcome.Verdict)
	default:
		return printer.Error(
			fmt.Sprintf("checker failed (%s)", outcome.Verdict),
			outcome.Detail,
			nil,
		)
	}
	return nil
}

// parseAlgorithmArgs resolves the shared model flags and decodes the
// algorithm code against them.
func parseAlgorithmArgs(code, class string, colors int, classL bool, scheduler string) (*lights.Algorithm, lights.Scheduler, error) {
	kind, err := lights.ParseModelKind(class)
	if err != nil {
		return nil, "", printer.Error("invalid light class", err.Error(), nil)
	}
	sched, err := lights.ParseScheduler(scheduler)
	if err != nil {
		return nil, "", printer.Error("unknown scheduler", err.Error(), nil)
	}
	algo, err := lights.ParseAlgorithm(kind, colors, classL, code)
	if err != nil {
		return nil, "", printer.Error(
			"malformed algorithm code",
			err.Error(),
			[]string{"The header must match the model: check --class, --colors and --class-l."},
		)
	}
	return algo, sched, nil
}
