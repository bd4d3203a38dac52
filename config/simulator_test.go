package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSimulatorIsValid(t *testing.T) {
	cfg, err := LoadSimulator("")

	require.NoError(t, err)
	assert.Equal(t, "simulated", cfg.Name)
	assert.InDelta(t, 0.001, cfg.MakerFeeRate, 1e-12)
	assert.Contains(t, cfg.BasePrices, "BTCUSDT")
}

func TestLoadSimulatorOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "simulator.yml")
	content := []byte(`
name: paper
volatility: 0.01
base_prices:
  DOGEUSDT: 0.25
initial_balances:
  USDT: 500
`)
	require.NoError(t, os.WriteFile(path, content, 0644))

	cfg, err := LoadSimulator(path)

	require.NoError(t, err)
	assert.Equal(t, "paper", cfg.Name)
	assert.InDelta(t, 0.01, cfg.Volatility, 1e-12)

	// yaml decodes into the default maps, merging rather than replacing
	assert.InDelta(t, 0.25, cfg.BasePrices["DOGEUSDT"], 1e-12)
	assert.Contains(t, cfg.BasePrices, "BTCUSDT")
	assert.InDelta(t, 500, cfg.InitialBalances["USDT"], 1e-12)

	// untouched keys keep their defaults
	assert.InDelta(t, 0.001, cfg.TakerFeeRate, 1e-12)
}

func TestLoadSimulatorRejectsInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "simulator.yml")
	require.NoError(t, os.WriteFile(path, []byte("volatility: 3.5\n"), 0644))

	_, err := LoadSimulator(path)

	assert.Error(t, err)
}

func TestLoadSimulatorMissingFile(t *testing.T) {
	_, err := LoadSimulator(filepath.Join(t.TempDir(), "absent.yml"))

	assert.Error(t, err)
}
