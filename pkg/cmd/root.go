// Package cmd implements the pine2ts command-line tool (spec.md §6.5),
// structured the way the teacher's pkg/cmd package is: a package-level
// rootCmd, one file per subcommand, init()-time flag registration and a
// handful of Get*-family helpers shared across subcommands.
package cmd

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// Version is filled when building with make, but *not* when installing via
// "go install".
var Version string

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "pine2ts",
	Short: "A compiler for the PineScript language.",
	Long:  "Translates PineScript v6 indicators into Go source consuming the pine/runtime package.",
	Run: func(cmd *cobra.Command, args []string) {
		if GetFlag(cmd, "version") {
			fmt.Print("pine2ts ")
			if Version != "" {
				// Built via "make"
				fmt.Printf("%s", Version)
			} else if info, ok := debug.ReadBuildInfo(); ok {
				// Built via "go install"
				fmt.Printf("%s", info.Main.Version)
			} else {
				fmt.Printf("(unknown version)")
			}
			fmt.Println()

			return
		}
		// No subcommand and no --version: fall through to transpile if a
		// positional input was given, matching spec.md's "pine2ts <input>
		// [output]" top-level contract.
		if len(args) == 0 {
			cmd.Help() //nolint:errcheck
			os.Exit(1)
		}

		runTranspile(cmd, args)
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main(). It only needs to happen
// once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	// -v is reserved for --version per spec; --verbose carries no shorthand
	// to avoid the collision.
	rootCmd.Flags().BoolP("version", "v", false, "report version of this executable")
	rootCmd.PersistentFlags().Bool("verbose", false, "increase logging verbosity")
	rootCmd.PersistentFlags().Bool("json", false, "emit machine-readable JSON output where supported")
	// Accept up to two positional args at the root so
	// "pine2ts <input> [output]" works without a subcommand name.
	rootCmd.Args = cobra.MaximumNArgs(2)
}
