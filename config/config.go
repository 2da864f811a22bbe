// Package config is for app wide settings that are unmarshalled
// from Viper (see: /cmd) and for resolving the reference index path.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

const (
	// AppName names the config and cache directories.
	AppName = "barcode-vote-classifier"

	// RefFileName is the cached reference index file.
	RefFileName = "barcode_ref.mmi"

	// EnvRef overrides the resolved reference path.
	EnvRef = "BARCODE_REF_MMI"

	// EnvURL overrides the reference download URL.
	EnvURL = "BARCODE_REF_URL"

	// EnvSHA256 overrides the expected download digest.
	EnvSHA256 = "BARCODE_REF_SHA256"
)

// Config is the root-level settings struct and is a mix of settings
// available in config.yaml and those from the command line.
type Config struct {
	// reference .mmi recorded by "download --write-config" or "config --set-ref"
	RefMMI string `mapstructure:"ref-mmi"`

	// reference .mmi path override from the command line (highest priority)
	Ref string `mapstructure:"ref"`

	// reads/contigs file (FASTA/FASTQ, .gz supported)
	Query string `mapstructure:"query"`

	// output prefix for the report files
	OutPrefix string `mapstructure:"out-prefix"`

	// pre-computed PAF input; skips the minimap2 run
	PAF string `mapstructure:"paf"`

	// minimap2 settings
	Threads   int    `mapstructure:"threads"`
	MaxHits   int    `mapstructure:"max-hits"`
	Secondary string `mapstructure:"secondary"`
	Preset    string `mapstructure:"preset"`

	// vote filter and scoring settings
	IDThr     float64 `mapstructure:"id-thr"`
	CovThr    float64 `mapstructure:"cov-thr"`
	MinMapQ   int     `mapstructure:"min-mapq"`
	Weighting string  `mapstructure:"weighting"`
	Sep       string  `mapstructure:"sep"`

	// output and run settings
	SaveHits   bool `mapstructure:"save-filtered-hits"`
	Workers    int  `mapstructure:"workers"`
	NoTmpCache bool `mapstructure:"no-tmp-cache"`
}

// New returns a Config populated by Viper settings (from config.yaml
// and/or command line arguments).
func New() (Config, error) {
	var c Config
	if err := viper.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unable to decode settings: %v", err)
	}
	return c, nil
}

// Dir is where config.yaml lives: $XDG_CONFIG_HOME/barcode-vote-classifier,
// falling back to ~/.config.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// File is the path to config.yaml.
func File() string {
	return filepath.Join(Dir(), "config.yaml")
}

// CacheDir prefers $TMPDIR (usually the fastest filesystem on a cluster
// node), then $XDG_CACHE_HOME, then ~/.cache.
func CacheDir(preferTmp bool) string {
	if preferTmp {
		if tmp := os.Getenv("TMPDIR"); tmp != "" {
			return filepath.Join(tmp, AppName)
		}
	}
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return AppName
	}
	return filepath.Join(home, ".cache", AppName)
}

// CachedRef is the default location of the downloaded reference index.
func CachedRef(preferTmp bool) string {
	return filepath.Join(CacheDir(preferTmp), RefFileName)
}

// WriteRef records a reference path in config.yaml, keeping any unrelated
// keys already in the file.
func WriteRef(path string) error {
	if err := os.MkdirAll(Dir(), 0755); err != nil {
		return err
	}

	v := viper.New()
	v.SetConfigFile(File())
	_ = v.ReadInConfig()
	v.Set("ref-mmi", path)

	return v.WriteConfigAs(File())
}

// ReadRef returns the reference path recorded in config.yaml, if any.
func ReadRef() string {
	v := viper.New()
	v.SetConfigFile(File())
	if err := v.ReadInConfig(); err != nil {
		return ""
	}
	return v.GetString("ref-mmi")
}

// ResolveRef resolves the reference index with precedence:
// 1) the --ref flag, 2) $BARCODE_REF_MMI, 3) config.yaml, 4) the cache.
// It returns the path and a source label for diagnostics.
func ResolveRef(cliRef string, preferTmp bool) (path, source string, err error) {
	if cliRef != "" {
		if _, err := os.Stat(cliRef); err != nil {
			return "", "", fmt.Errorf("--ref not found: %s", cliRef)
		}
		return cliRef, "cli", nil
	}

	if env := os.Getenv(EnvRef); env != "" {
		if _, err := os.Stat(env); err != nil {
			return "", "", fmt.Errorf("%s not found: %s", EnvRef, env)
		}
		return env, "env", nil
	}

	if cfg := ReadRef(); cfg != "" {
		if _, err := os.Stat(cfg); err == nil {
			return cfg, "config", nil
		}
	}

	cached := CachedRef(preferTmp)
	if fi, err := os.Stat(cached); err == nil && fi.Size() > 0 {
		return cached, "cache", nil
	}

	return "", "", fmt.Errorf(
		"reference .mmi not found\nrun: barcode-vote download --write-config\nor set %s=/path/to/%s\nor pass --ref /path/to/%s",
		EnvRef, RefFileName, RefFileName)
}
