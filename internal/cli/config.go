package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/tailscale/hujson"
)

// Config holds the fmidx configuration options.
type Config struct {
	// Alphabet maps input bytes to symbols by position: the first byte
	// becomes symbol 1, the second symbol 2, and so on.
	Alphabet string `json:"alphabet"`

	// SamplingRate is the default suffix-array sampling distance.
	SamplingRate int `json:"sampling_rate,omitempty"`
}

// ConfigFileName is the project config file name.
const ConfigFileName = ".fmidx.json"

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Alphabet:     "ACGT",
		SamplingRate: 16,
	}
}

// globalConfigPath returns the global config location:
// $XDG_CONFIG_HOME/fmidx/config.json, or ~/.config/fmidx/config.json.
func globalConfigPath(env map[string]string) string {
	if xdg := env["XDG_CONFIG_HOME"]; xdg != "" {
		return filepath.Join(xdg, "fmidx", "config.json")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	return filepath.Join(home, ".config", "fmidx", "config.json")
}

// LoadConfig merges, from lowest to highest precedence: defaults, the
// global config, and the project config in workDir. Both files are
// optional and parsed as HuJSON.
func LoadConfig(workDir string, env map[string]string) (Config, error) {
	cfg := DefaultConfig()

	if path := globalConfigPath(env); path != "" {
		if err := mergeConfigFile(&cfg, path); err != nil {
			return Config{}, err
		}
	}

	if err := mergeConfigFile(&cfg, filepath.Join(workDir, ConfigFileName)); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func mergeConfigFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	if err != nil {
		return err
	}

	std, err := hujson.Standardize(data)
	if err != nil {
		return fmt.Errorf("config %s: %w", path, err)
	}

	var overlay Config
	if err := json.Unmarshal(std, &overlay); err != nil {
		return fmt.Errorf("config %s: %w", path, err)
	}

	if overlay.Alphabet != "" {
		cfg.Alphabet = overlay.Alphabet
	}

	if overlay.SamplingRate > 0 {
		cfg.SamplingRate = overlay.SamplingRate
	}

	return nil
}

// symbolMap translates the alphabet string into a byte-to-symbol table.
// Symbol 0 stays reserved for the sentinel.
func (c Config) symbolMap() (map[byte]byte, error) {
	if len(c.Alphabet) == 0 || len(c.Alphabet) > 255 {
		return nil, fmt.Errorf("alphabet must have 1 to 255 characters, got %d", len(c.Alphabet))
	}

	m := make(map[byte]byte, len(c.Alphabet))

	for i := 0; i < len(c.Alphabet); i++ {
		b := c.Alphabet[i]
		if _, dup := m[b]; dup {
			return nil, fmt.Errorf("alphabet repeats %q", b)
		}

		m[b] = byte(i + 1)
	}

	return m, nil
}

// sigma returns the index alphabet size for this configuration.
func (c Config) sigma() int {
	return len(c.Alphabet) + 1
}
