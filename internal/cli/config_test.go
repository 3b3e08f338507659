package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_LoadConfig_Returns_Defaults_Without_Files(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	cfg, err := LoadConfig(dir, map[string]string{"XDG_CONFIG_HOME": filepath.Join(dir, "none")})
	require.NoError(t, err)

	assert.Equal(t, "ACGT", cfg.Alphabet)
	assert.Equal(t, 16, cfg.SamplingRate)
	assert.Equal(t, 5, cfg.sigma())
}

func Test_LoadConfig_Project_File_Overrides_Global(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	xdg := filepath.Join(dir, "xdg")

	require.NoError(t, os.MkdirAll(filepath.Join(xdg, "fmidx"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(xdg, "fmidx", "config.json"),
		[]byte(`{"alphabet": "AC", "sampling_rate": 8}`), 0o644))

	// Project config in HuJSON with comments and a trailing comma.
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName),
		[]byte(`{
			// protein-ish alphabet
			"alphabet": "ACDEFGHIKLMNPQRSTVWY",
		}`), 0o644))

	cfg, err := LoadConfig(dir, map[string]string{"XDG_CONFIG_HOME": xdg})
	require.NoError(t, err)

	assert.Equal(t, "ACDEFGHIKLMNPQRSTVWY", cfg.Alphabet)
	assert.Equal(t, 8, cfg.SamplingRate, "global value survives where project is silent")
	assert.Equal(t, 21, cfg.sigma())
}

func Test_LoadConfig_Rejects_Malformed_Config(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName),
		[]byte(`{"alphabet": `), 0o644))

	_, err := LoadConfig(dir, map[string]string{"XDG_CONFIG_HOME": filepath.Join(dir, "none")})
	require.Error(t, err)
}

func Test_SymbolMap_Rejects_Duplicate_Characters(t *testing.T) {
	t.Parallel()

	cfg := Config{Alphabet: "ACCA"}

	_, err := cfg.symbolMap()
	require.Error(t, err)
}

func Test_SymbolMap_Assigns_Symbols_By_Position(t *testing.T) {
	t.Parallel()

	cfg := Config{Alphabet: "ACGT"}

	m, err := cfg.symbolMap()
	require.NoError(t, err)

	assert.Equal(t, map[byte]byte{'A': 1, 'C': 2, 'G': 3, 'T': 4}, m)
}
