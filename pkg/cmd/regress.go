package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/segmentio/encoding/json"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/deepentropy/pine2go/pkg/catalog"
	_ "github.com/deepentropy/pine2go/catalog/indicators" // registers catalog entries
)

var regressCmd = &cobra.Command{
	Use:   "regress [manifest]",
	Short: "tolerance-compare catalog indicators against reference CSVs",
	Args:  cobra.MaximumNArgs(1),
	Run:   runRegress,
}

func init() {
	rootCmd.AddCommand(regressCmd)
	regressCmd.Flags().Int("bars", 40, "number of synthetic bars to run each indicator over")
}

func runRegress(cmd *cobra.Command, args []string) {
	if GetFlag(cmd, "verbose") {
		log.SetLevel(log.DebugLevel)
	}

	manifestPath := "catalog/catalog.yaml"
	if len(args) > 0 {
		manifestPath = args[0]
	}

	manifest, err := catalog.LoadManifest(manifestPath)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	n, _ := cmd.Flags().GetInt("bars")
	barData := catalog.SyntheticBars(n)

	results, err := catalog.Run(manifest, filepath.Dir(manifestPath), barData)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	allPass := true

	for _, r := range results {
		if !r.Pass {
			allPass = false
		}
	}

	if GetFlag(cmd, "json") {
		enc, err := json.Marshal(results)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		fmt.Println(string(enc))
	} else {
		fmt.Print(catalog.Summarize(results))
	}

	if !allPass {
		os.Exit(1)
	}
}
