package commands

import (
	"github.com/spf13/cobra"

	"github.com/xdefago/synth-light/internal/promela"
	"github.com/xdefago/synth-light/internal/printer"
)

var (
	emitClassL bool
	emitColors int
	emitClass  string
)

var emitCmd = &cobra.Command{
	Use:   "emit [algorithm-code]",
	Short: "Print the Promela fragment for an algorithm code",
	Long: `Decode a canonical algorithm code and print the Promela fragment the
verifier would install for it. The output is the complete Algorithms.pml
file, ready to drop next to the static model templates.`,
	Args: cobra.ExactArgs(1),
	RunE: runEmit,
}

func init() {
	emitCmd.Flags().StringVar(&emitClass, "class", "full", "Light class of the model")
	emitCmd.Flags().IntVar(&emitColors, "colors", 2, "Number of colors of the model")
	emitCmd.Flags().BoolVarP(&emitClassL, "class-l", "L", false, "Interpret the code as a class L algorithm")
	rootCmd.AddCommand(emitCmd)
}

func runEmit(cmd *cobra.Command, args []string) error {
	algo, _, err := parseAlgorithmArgs(args[0], emitClass, emitColors, emitClassL, "async")
	if err != nil {
		return err
	}
	printer.Printf("%s", promela.Fragment(algo))
	return nil
}
