package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestDefaults(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "training_data_export.json", cfg.Dataset)
	assert.Equal(t, 64, cfg.InputSize)
	assert.Equal(t, 100, cfg.Forest.Estimators)
	assert.Equal(t, 10, cfg.Forest.MaxDepth)
	assert.Equal(t, int64(42), cfg.Seed)
	assert.Equal(t, 0.2, cfg.TestSize)

	table, err := cfg.Table()
	require.NoError(t, err)
	assert.Equal(t, 46, table.Len())
}

func TestLoadYAMLOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "k.yaml", `
alphabet: kana
seed: 7
font_paths:
  - /fonts/a.ttf
forest:
  n_estimators: 20
network:
  hidden: [64, 32]
  payload: image
`)

	cfg, err := Load(path, filepath.Join(dir, "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "kana", cfg.Alphabet)
	assert.Equal(t, int64(7), cfg.Seed)
	assert.Equal(t, []string{"/fonts/a.ttf"}, cfg.FontPaths)
	assert.Equal(t, 20, cfg.Forest.Estimators)
	assert.Equal(t, 10, cfg.Forest.MaxDepth)
	assert.Equal(t, []int{64, 32}, cfg.Network.Hidden)
	assert.Equal(t, "image", cfg.Network.Payload)

	fc := cfg.ForestConfig()
	assert.Equal(t, 20, fc.NEstimators)
	assert.Equal(t, int64(7), fc.Seed)

	nc := cfg.NetworkConfig()
	assert.Equal(t, []int{64, 32}, nc.Hidden)
	assert.Equal(t, int64(7), nc.Seed)

	chain := cfg.FontChain()
	assert.Equal(t, []string{"/fonts/a.ttf"}, chain.Paths)
}

func TestLoadExplicitMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), "")
	assert.Error(t, err)
}

func TestLoadMalformedYAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bad.yaml", "seed: [")
	_, err := Load(path, "")
	assert.Error(t, err)
}

func TestEnvOverridesYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "k.yaml", "dataset: from-yaml.json\nseed: 3\n")
	t.Setenv("KANATRAIN_DATASET", "from-env.json")
	t.Setenv("KANATRAIN_FONT_DISCOVERY", "false")

	cfg, err := Load(path, filepath.Join(dir, "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, "from-env.json", cfg.Dataset)
	assert.Equal(t, int64(3), cfg.Seed)
	assert.False(t, cfg.FontDiscovery)
}

func TestDotEnvFile(t *testing.T) {
	dir := t.TempDir()
	env := writeFile(t, dir, "test.env", "KANATRAIN_SIGNING_KEY=dotenv-secret\n")
	t.Setenv("KANATRAIN_SIGNING_KEY", "")
	os.Unsetenv("KANATRAIN_SIGNING_KEY")

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	defer os.Chdir(wd)

	cfg, err := Load("", env)
	require.NoError(t, err)
	assert.Equal(t, "dotenv-secret", cfg.SigningKey)
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"KANATRAIN_FONT_PATHS":     "/a.ttf" + string(os.PathListSeparator) + "/b.ttc",
		"KANATRAIN_WORKERS":        "3",
		"KANATRAIN_TEST_SIZE":      "0.25",
		"KANATRAIN_NETWORK_EPOCHS": "5",
		"KANATRAIN_SEED":           " 11 ",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := Default()
	require.NoError(t, cfg.applyEnv(lookup))
	assert.Equal(t, []string{"/a.ttf", "/b.ttc"}, cfg.FontPaths)
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, 0.25, cfg.TestSize)
	assert.Equal(t, 5, cfg.Network.Epochs)
	assert.Equal(t, int64(11), cfg.Seed)
}

func TestApplyEnvMalformed(t *testing.T) {
	lookup := func(k string) (string, bool) {
		if k == "KANATRAIN_WORKERS" {
			return "many", true
		}
		return "", false
	}
	err := Default().applyEnv(lookup)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "KANATRAIN_WORKERS")
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Alphabet = "cyrillic"
	assert.Error(t, cfg.Validate())

	for _, size := range []float64{0, 1, -0.1} {
		cfg = Default()
		cfg.TestSize = size
		assert.Error(t, cfg.Validate(), "test size %v", size)
	}

	cfg = Default()
	cfg.Network.Payload = "audio"
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.InputSize = 0
	assert.Error(t, cfg.Validate())
}
