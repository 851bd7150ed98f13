// Package nicocfg loads the compiler's project configuration from an
// optional YAML file next to the invoked source, with environment
// variables (optionally populated from a sibling .env file) overriding
// individual keys (spec §6 panic-contract selection; §4.4 unsafe regions;
// lexer tab width).
package nicocfg

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// fileNames are tried in order, in the directory containing the source
// being compiled; the first one found wins.
var fileNames = []string{"nico.yaml", ".nico.yaml"}

// Config holds every project-level setting the frontend consults outside
// of the source text itself.
type Config struct {
	// Unsafe relaxes PtrDerefOutsideUnsafeBlock from an error to a warning
	// when true.
	Unsafe bool `yaml:"unsafe"`
	// RecoverablePanics selects the setjmp/longjmp panic contract instead
	// of abort (spec §6).
	RecoverablePanics bool `yaml:"recoverablePanics"`
	// TabWidth is the number of columns a tab counts for when the lexer
	// compares indentation widths.
	TabWidth int `yaml:"tabWidth"`
}

// Default returns the configuration used when no nico.yaml and no
// environment overrides are present.
func Default() Config {
	return Config{TabWidth: 4}
}

// Load resolves configuration for a source file at sourcePath: it starts
// from Default(), merges in nico.yaml/.nico.yaml found alongside
// sourcePath if present, loads a sibling .env file (ignored if absent,
// mirroring termfx-morfx's best-effort godotenv.Load() at startup), then
// applies NICO_UNSAFE / NICO_RECOVERABLE_PANICS / NICO_TAB_WIDTH
// environment overrides, which take precedence over the YAML file.
func Load(sourcePath string) (Config, error) {
	cfg := Default()
	dir := filepath.Dir(sourcePath)

	if err := mergeYAMLFile(&cfg, dir); err != nil {
		return cfg, err
	}

	_ = godotenv.Load(filepath.Join(dir, ".env"))

	applyEnvOverrides(&cfg)

	return cfg, nil
}

func mergeYAMLFile(cfg *Config, dir string) error {
	for _, name := range fileNames {
		path := filepath.Join(dir, name)

		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}

			return err
		}

		return yaml.Unmarshal(data, cfg)
	}

	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v, ok := os.LookupEnv("NICO_UNSAFE"); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Unsafe = b
		}
	}

	if v, ok := os.LookupEnv("NICO_RECOVERABLE_PANICS"); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.RecoverablePanics = b
		}
	}

	if v, ok := os.LookupEnv("NICO_TAB_WIDTH"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.TabWidth = n
		}
	}
}
