package cmd

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ypchan/barcode-vote-classifier/config"
)

// showRefCmd prints the reference path a classify run would use.
var showRefCmd = &cobra.Command{
	Use:   "show-ref",
	Short: "Print the resolved reference path and its source (cli/env/config/cache)",
	Run: func(cmd *cobra.Command, args []string) {
		ref, _ := cmd.Flags().GetString("ref")
		noTmp, _ := cmd.Flags().GetBool("no-tmp-cache")

		path, source, err := config.ResolveRef(ref, !noTmp)
		if err != nil {
			log.Fatalf("%v", err)
		}

		fmt.Println(path)
		log.Debugf("source=%s", source)
	},
}

// set flags
func init() {
	showRefCmd.Flags().String("ref", "", "explicit ref path override (highest priority)")
	showRefCmd.Flags().Bool("no-tmp-cache", false, "do not use TMPDIR as the cache location")

	rootCmd.AddCommand(showRefCmd)
}
