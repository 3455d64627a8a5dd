package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	version string
	commit  string
	date    string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "synth",
	Short: "Synth - rendezvous algorithm synthesis for two luminous robots",
	Long: `Synth searches for gathering (rendezvous) algorithms for two robots
with colored lights. Given a system model — light visibility class,
number of colors, scheduler and movement restrictions — it enumerates
every deterministic candidate algorithm, prunes the structurally
unviable and color-permutation-redundant ones, and model-checks the
survivors with Spin for the eventual-permanent-gathering property.

The Spin toolchain (spin and a C compiler) must be on the PATH.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersionInfo sets the version information for the CLI
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", v, c, d)
}
