package cmd

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ypchan/barcode-vote-classifier/config"
)

// configCmd shows or edits the recorded reference path.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or set config.yaml (reference path)",
	Run: func(cmd *cobra.Command, args []string) {
		if setRef, _ := cmd.Flags().GetString("set-ref"); setRef != "" {
			if _, err := os.Stat(setRef); err != nil {
				log.Fatalf("--set-ref not found: %s", setRef)
			}
			writeRefConfig(setRef)
			return
		}

		b, err := os.ReadFile(config.File())
		if err != nil {
			fmt.Println("# no config file")
			return
		}
		fmt.Print(string(b))
	},
}

// set flags
func init() {
	configCmd.Flags().String("set-ref", "", "set the ref_mmi path in config.yaml")

	rootCmd.AddCommand(configCmd)
}
