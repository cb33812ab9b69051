package project

import (
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// ConfigFileName is looked for at the project root.
const ConfigFileName = ".chapbook-ls.yaml"

// Config is the project-level configuration, read from .chapbook-ls.yaml
// when present.
type Config struct {
	// FormatVersion is the story's Chapbook version, e.g. "2.3.0". Empty
	// disables version-window checking.
	FormatVersion string `yaml:"formatVersion"`

	// WarnUnknownFunctions turns on warnings for inserts/modifiers that no
	// built-in or story definition matches.
	WarnUnknownFunctions bool `yaml:"warnUnknownFunctions"`

	// Include are doublestar globs, relative to the project root, selecting
	// the story files to load.
	Include []string `yaml:"include"`
}

func DefaultConfig() Config {
	return Config{
		Include: []string{"**/*.twee", "**/*.tw"},
	}
}

// LoadConfig reads the project config file, falling back to defaults when
// it does not exist.
func LoadConfig(fs afero.Fs, root string) (Config, error) {
	cfg := DefaultConfig()

	data, err := afero.ReadFile(fs, filepath.Join(root, ConfigFileName))
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, errors.Errorf("reading %s: %w", ConfigFileName, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Errorf("parsing %s: %w", ConfigFileName, err)
	}
	if len(cfg.Include) == 0 {
		cfg.Include = DefaultConfig().Include
	}
	return cfg, nil
}
