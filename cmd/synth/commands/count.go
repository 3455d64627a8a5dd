package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xdefago/synth-light/internal/filter"
	"github.com/xdefago/synth-light/internal/printer"
	"github.com/xdefago/synth-light/pkg/lights"
)

var (
	countClassL bool
	countCensus bool
	countRetain bool
	countWeak   bool
	countStrict bool
)

var countCmd = &cobra.Command{
	Use:   "count [light-class] [num-colors]",
	Short: "Census the algorithm space without verifying",
	Long: `Walk the full algorithm space of a model and report how many
candidates survive each pruning stage, without invoking the model
checker. Useful to size a run before paying for verification.

With --census the exact orbit check is replaced by the approximate
pseudo-canonical stage, reproducing the historical generator census.`,
	Args: cobra.ExactArgs(2),
	RunE: runCount,
}

func init() {
	countCmd.Flags().BoolVarP(&countClassL, "class-l", "L", false, "Limit search to class L (position-oblivious) algorithms")
	countCmd.Flags().BoolVarP(&countRetain, "retain", "R", false, "Apply Viglietta's retain rule (full lights only)")
	countCmd.Flags().BoolVarP(&countWeak, "weak", "w", false, "Drop algorithms that leave some color unused")
	countCmd.Flags().BoolVar(&countStrict, "strict-moves", false, "Require STAY, TO_HALF and TO_OTHER among non-gathered rules")
	countCmd.Flags().BoolVar(&countCensus, "census", false, "Use the approximate pseudo-canonical stage")
	rootCmd.AddCommand(countCmd)
}

func runCount(cmd *cobra.Command, args []string) error {
	kind, err := lights.ParseModelKind(args[0])
	if err != nil {
		return printer.Error("invalid light class", err.Error(), nil)
	}
	var numColors int
	if _, err := fmt.Sscanf(args[1], "%d", &numColors); err != nil {
		return printer.Error("invalid color count", fmt.Sprintf("%q is not a number", args[1]), nil)
	}

	domain, err := lights.NewDomain(kind, numColors, countClassL)
	if err != nil {
		return printer.Error("invalid model", err.Error(), nil)
	}
	space, err := lights.NewSpace(domain)
	if err != nil {
		return printer.Error("model not enumerable", err.Error(), nil)
	}

	chain := filter.Standard(filter.Options{
		RetainRule:  countRetain,
		WeakFilter:  countWeak,
		StrictMoves: countStrict,
		Census:      countCensus,
	})

	cursor := space.Cursor(lights.Range{Lo: 0, Hi: space.Size()})
	for {
		algo, ok := cursor.Next()
		if !ok {
			break
		}
		chain.Keep(algo)
	}

	printer.Info("Observation domain: %d observations (%s)\n", domain.Size(), domain.Header())
	printer.Info("Syntactic space:    %d algorithms\n", chain.Seen())
	for _, stage := range chain.Counts() {
		printer.Printf("  after %-18s %12d\n", stage.Name+":", stage.Survivors)
	}
	return nil
}
