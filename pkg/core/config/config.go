package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v2"

	"neobio_balance/pkg/core/defaults"
)

// Config is the service configuration read from config/balance.yaml.
type Config struct {
	Server   ServerConfig   `yaml:"server" json:"server"`
	Defaults DefaultsConfig `yaml:"defaults" json:"defaults"`
	Pricing  PricingConfig  `yaml:"pricing" json:"pricing"`
	Store    StoreConfig    `yaml:"store" json:"store"`
}

type ServerConfig struct {
	Addr string `yaml:"addr" json:"addr"`
}

// DefaultsConfig selects the defaults source. Workbook wins over File;
// with neither set the hardcoded table is used.
type DefaultsConfig struct {
	Workbook string `yaml:"workbook" json:"workbook"`
	Sheet    string `yaml:"sheet" json:"sheet"`
	File     string `yaml:"file" json:"file"`
}

type PricingConfig struct {
	PrecoEtanol float64 `yaml:"preco_etanol" json:"preco_etanol"` // R$/m³
}

type StoreConfig struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Dir     string `yaml:"dir" json:"dir"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Server:   ServerConfig{Addr: ":8080"},
		Defaults: DefaultsConfig{Sheet: defaults.DefaultSheet},
		Pricing:  PricingConfig{PrecoEtanol: defaults.DefaultPrecoEtanol},
		Store:    StoreConfig{Enabled: true},
	}
}

// Load reads path over Default() and applies environment overrides.
// A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("failed to parse %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist):
			fmt.Printf("[CONFIG] %s not found, using built-in configuration\n", path)
		default:
			return Config{}, fmt.Errorf("failed to read %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("BALANCE_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("BALANCE_WORKBOOK"); v != "" {
		c.Defaults.Workbook = v
	}
	if v := os.Getenv("BALANCE_SHEET"); v != "" {
		c.Defaults.Sheet = v
	}
	if v := os.Getenv("BALANCE_DEFAULTS_FILE"); v != "" {
		c.Defaults.File = v
	}
	if v := os.Getenv("BALANCE_STORE_DIR"); v != "" {
		c.Store.Dir = v
	}
	if v := os.Getenv("BALANCE_PRECO_ETANOL"); v != "" {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid BALANCE_PRECO_ETANOL %q: %w", v, err)
		}
		c.Pricing.PrecoEtanol = price
	}
	return nil
}

// Validate checks values the calculator boundary would reject later anyway.
func (c Config) Validate() error {
	if c.Pricing.PrecoEtanol < 0 {
		return fmt.Errorf("pricing.preco_etanol must not be negative (got %g)", c.Pricing.PrecoEtanol)
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is empty")
	}
	return nil
}

// Provider returns the configured defaults provider, or nil for the hardcoded table.
func (c Config) Provider() defaults.Provider {
	switch {
	case c.Defaults.Workbook != "":
		return defaults.NewWorkbookProvider(c.Defaults.Workbook, c.Defaults.Sheet)
	case c.Defaults.File != "":
		return defaults.NewFileProvider(c.Defaults.File)
	default:
		return nil
	}
}
