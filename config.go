package main

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

// Config is the node configuration loaded from the toml file. The generator
// key may be overridden with the GENERATOR_KEY environment variable so the
// secret stays out of the config file.
type Config struct {
	BindAddress     string
	StorePath       string
	Backend         string
	BlockIntervalMs uint64
	GeneratorKey    string

	AdminAddress    string
	TreasuryAddress string
	Whitelist       []string

	OwnerSupply    string
	TreasurySupply string

	GenesisCoins map[string]string
}

// DefaultConfig returns the config defaults
func DefaultConfig() *Config {
	return &Config{
		BindAddress:     ":8541",
		StorePath:       "./_data",
		Backend:         "keydb",
		BlockIntervalMs: 500,
		OwnerSupply:     "150000",
		TreasurySupply:  "350000",
		GenesisCoins:    map[string]string{},
	}
}

// LoadConfig reads the toml file and applies the environment overrides
func LoadConfig(path string) (*Config, error) {
	godotenv.Load()

	cfg := DefaultConfig()
	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, errors.WithStack(err)
		}
	}
	if v := os.Getenv("GENERATOR_KEY"); v != "" {
		cfg.GeneratorKey = v
	}
	if cfg.GeneratorKey == "" {
		return nil, errors.New("generator key not configured")
	}
	if cfg.AdminAddress == "" || cfg.TreasuryAddress == "" {
		return nil, errors.New("admin and treasury addresses required")
	}
	return cfg, nil
}

// BlockInterval returns the block sealing interval
func (cfg *Config) BlockInterval() time.Duration {
	return time.Duration(cfg.BlockIntervalMs) * time.Millisecond
}
