package cmd

import (
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ypchan/barcode-vote-classifier/config"
	"github.com/ypchan/barcode-vote-classifier/internal/barcode"
)

// downloadCmd fetches the reference index into the cache and verifies it.
var downloadCmd = &cobra.Command{
	Use:   "download",
	Short: "Download the barcode reference index into the cache and verify its sha256",
	Long: `Download barcode_ref.mmi into the cache directory (or --dir) and verify
its sha256, which is required. An existing verified file is kept unless
--force is passed. With --write-config the downloaded path is recorded in
config.yaml so later runs resolve it automatically.`,
	Example: "  barcode-vote download --write-config",
	Run:     runDownload,
}

func runDownload(cmd *cobra.Command, args []string) {
	flags := cmd.Flags()
	url, _ := flags.GetString("url")
	sha, _ := flags.GetString("sha256")
	dir, _ := flags.GetString("dir")
	force, _ := flags.GetBool("force")
	writeConfig, _ := flags.GetBool("write-config")
	noTmp, _ := flags.GetBool("no-tmp-cache")

	// environment beats the baked-in release defaults, not explicit flags
	if !flags.Changed("url") {
		if env := os.Getenv(config.EnvURL); env != "" {
			url = env
		}
	}
	if !flags.Changed("sha256") {
		if env := os.Getenv(config.EnvSHA256); env != "" {
			sha = env
		}
	}
	if url == "" {
		log.Fatalf("no URL provided: use --url or set %s", config.EnvURL)
	}
	if sha == "" {
		log.Fatalf("sha256 is required: use --sha256 or set %s", config.EnvSHA256)
	}
	sha, err := barcode.ValidateSHA256(sha)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if dir == "" {
		dir = config.CacheDir(!noTmp)
	}
	dest := filepath.Join(dir, config.RefFileName)

	if fi, err := os.Stat(dest); err == nil && fi.Size() > 0 && !force {
		if got, err := barcode.SHA256File(dest); err == nil && got == sha {
			log.Infof("already downloaded and verified: %s", dest)
			if writeConfig {
				writeRefConfig(dest)
			}
			return
		}
		log.Warn("existing file sha256 mismatch; re-downloading")
	}

	if err := barcode.Download(url, dest, sha); err != nil {
		log.Fatalf("%v", err)
	}
	log.Infof("downloaded & verified: %s", dest)

	if writeConfig {
		writeRefConfig(dest)
	}
}

// writeRefConfig records a verified reference path in config.yaml.
func writeRefConfig(path string) {
	if err := config.WriteRef(path); err != nil {
		log.Fatalf("failed to write config: %v", err)
	}
	log.Infof("wrote config: %s", config.File())
}

// set flags
func init() {
	downloadCmd.Flags().String("url", barcode.DefaultRefURL, "download URL for barcode_ref.mmi")
	downloadCmd.Flags().String("sha256", barcode.DefaultRefSHA256, "expected sha256 for verification")
	downloadCmd.Flags().String("dir", "", "directory to store the reference (default: cache dir)")
	downloadCmd.Flags().Bool("force", false, "force re-download even if the file exists")
	downloadCmd.Flags().Bool("write-config", false, "write the downloaded path into config.yaml")
	downloadCmd.Flags().Bool("no-tmp-cache", false, "do not use TMPDIR as the cache location")

	rootCmd.AddCommand(downloadCmd)
}
