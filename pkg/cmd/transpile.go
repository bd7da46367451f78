package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/deepentropy/pine2go/pkg/pine"
)

// transpileCmd exists mainly to surface flags and help text under
// "pine2ts transpile ..."; the bare "pine2ts <input> [output]" form (no
// subcommand) is handled directly by rootCmd.Run for spec.md §6.5's
// unchanged top-level contract.
var transpileCmd = &cobra.Command{
	Use:   "transpile <input> [output]",
	Short: "transpile a PineScript source file into Go",
	Args:  cobra.RangeArgs(1, 2),
	Run:   runTranspile,
}

func init() {
	rootCmd.AddCommand(transpileCmd)
	transpileCmd.Flags().String("package", "generated", "package name for the generated file")
	transpileCmd.Flags().Bool("no-imports", false, "omit the generated runtime import block")
}

func runTranspile(cmd *cobra.Command, args []string) {
	if GetFlag(cmd, "verbose") {
		log.SetLevel(log.DebugLevel)
	}

	input := args[0]

	var output string
	if len(args) > 1 {
		output = args[1]
	}

	source, err := os.ReadFile(input)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	pkgName := "generated"
	includeImports := true

	if cmd.Flags().Lookup("package") != nil {
		if v := GetString(cmd, "package"); v != "" {
			pkgName = v
		}

		if GetFlag(cmd, "no-imports") {
			includeImports = false
		}
	}

	opts := []pine.Option{
		pine.WithFilename(filepath.Base(input)),
		pine.WithPackageName(pkgName),
	}
	if !includeImports {
		opts = append(opts, pine.WithoutImports())
	}

	result := pine.TranspileWithResult(string(source), opts...)

	log.WithField("compilationID", result.CompilationID).Debug("transpile complete")

	for _, w := range result.Warnings {
		log.WithField("kind", w.Kind).Warn(w.Message)
	}

	if len(result.Errors) > 0 {
		for _, e := range result.Errors {
			fmt.Println(e.Error())
		}

		os.Exit(1)
	}

	if output == "" {
		fmt.Print(result.Code)
		return
	}

	if err := os.WriteFile(output, []byte(result.Code), 0644); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	fmt.Printf("wrote %s (%d bytes)\n", output, len(result.Code))
}
