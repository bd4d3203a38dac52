package config

import (
	"errors"
	"os"

	"github.com/gookit/validate"
	yaml "gopkg.in/yaml.v2"
)

// SimulatorConfig holds every tunable of the simulated exchange. All rates
// are fractions (0.001 == 0.1%).
type SimulatorConfig struct {
	Name            string             `yaml:"name"`
	DataDir         string             `yaml:"data_dir" validate:"required"`
	Volatility      float64            `yaml:"volatility" validate:"VaildateVolatility"`
	MakerFeeRate    float64            `yaml:"maker_fee_rate" validate:"VaildateFeeRate"`
	TakerFeeRate    float64            `yaml:"taker_fee_rate" validate:"VaildateFeeRate"`
	SlippageBuffer  float64            `yaml:"slippage_buffer"`
	StakingAPY      float64            `yaml:"staking_apy"`
	DepthQtyMin     float64            `yaml:"depth_qty_min"`
	DepthQtyMax     float64            `yaml:"depth_qty_max" validate:"VaildateDepthQty"`
	SyncInterval    uint64             `yaml:"sync_interval"`
	BasePrices      map[string]float64 `yaml:"base_prices" validate:"VaildateBasePrices"`
	WithdrawFees    map[string]float64 `yaml:"withdraw_fees"`
	DepositNetworks map[string]string  `yaml:"deposit_networks"`
	InitialBalances map[string]float64 `yaml:"initial_balances"`
}

func (c SimulatorConfig) Messages() map[string]string {
	return validate.MS{
		"required":           "simulator.config.missing_{field}",
		"VaildateVolatility": "simulator.config.invalid_volatility",
		"VaildateFeeRate":    "simulator.config.invalid_fee_rate",
		"VaildateDepthQty":   "simulator.config.invalid_depth_qty_range",
		"VaildateBasePrices": "simulator.config.invalid_base_prices",
	}
}

func (c SimulatorConfig) VaildateVolatility(v float64) bool {
	return v > 0 && v < 1
}

func (c SimulatorConfig) VaildateFeeRate(rate float64) bool {
	return rate >= 0 && rate < 1
}

func (c SimulatorConfig) VaildateDepthQty(max float64) bool {
	return c.DepthQtyMin > 0 && max >= c.DepthQtyMin
}

func (c SimulatorConfig) VaildateBasePrices(prices map[string]float64) bool {
	if len(prices) == 0 {
		return false
	}

	for _, price := range prices {
		if price <= 0 {
			return false
		}
	}

	return true
}

func DefaultSimulator() *SimulatorConfig {
	return &SimulatorConfig{
		Name:           "simulated",
		DataDir:        "./simulated_exchange",
		Volatility:     0.002,
		MakerFeeRate:   0.001,
		TakerFeeRate:   0.001,
		SlippageBuffer: 0.01,
		StakingAPY:     0.05,
		DepthQtyMin:    0.1,
		DepthQtyMax:    5.0,
		SyncInterval:   5,
		BasePrices: map[string]float64{
			"BTCUSDT": 98500,
			"ETHUSDT": 3800,
			"SOLUSDT": 210,
			"BNBUSDT": 640,
			"BTCBRL":  545000,
			"ADAUSDT": 1.05,
		},
		WithdrawFees: map[string]float64{
			"BTC":  0.0002,
			"ETH":  0.002,
			"SOL":  0.01,
			"USDT": 1.0,
			"BRL":  0,
		},
		DepositNetworks: map[string]string{
			"BTC":  "BTC",
			"ETH":  "ERC20",
			"SOL":  "SOL",
			"USDT": "TRC20",
		},
		InitialBalances: map[string]float64{
			"USDT": 10000,
			"BRL":  50000,
		},
	}
}

// LoadSimulator reads a YAML config file over the defaults. An empty path
// returns the defaults untouched.
func LoadSimulator(path string) (*SimulatorConfig, error) {
	cfg := DefaultSimulator()

	if len(path) > 0 {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}

	v := validate.Struct(cfg)
	if !v.Validate() {
		return nil, errors.New(v.Errors.One())
	}

	return cfg, nil
}
