package commands

import (
	"github.com/spf13/cobra"

	"github.com/xdefago/synth-light/internal/dot"
	"github.com/xdefago/synth-light/internal/printer"
)

var (
	dotClassL bool
	dotColors int
	dotClass  string
)

var dotCmd = &cobra.Command{
	Use:   "dot [algorithm-code]",
	Short: "Print the Graphviz graph of an algorithm's color transitions",
	Long: `Decode a canonical algorithm code and print its color-transition graph
as Graphviz dot source. Nodes are light colors; edges show which color
a rule writes, labeled with the observed other color, a G marker for
gathered observations, and the movement.

Example:
  synth dot --class external --colors 4 -L 0_1_2_3__H1_S2_O3_S0 | dot -Tpdf -o algo.pdf`,
	Args: cobra.ExactArgs(1),
	RunE: runDot,
}

func init() {
	dotCmd.Flags().StringVar(&dotClass, "class", "full", "Light class of the model")
	dotCmd.Flags().IntVar(&dotColors, "colors", 2, "Number of colors of the model")
	dotCmd.Flags().BoolVarP(&dotClassL, "class-l", "L", false, "Interpret the code as a class L algorithm")
	rootCmd.AddCommand(dotCmd)
}

func runDot(cmd *cobra.Command, args []string) error {
	algo, _, err := parseAlgorithmArgs(args[0], dotClass, dotColors, dotClassL, "async")
	if err != nil {
		return err
	}
	printer.Printf("# Algorithm: %s\n\n", algo.Code())
	printer.Printf("%s", dot.Render(algo))
	return nil
}
