package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// Config carries every tunable the server reads at startup. Fields left out
// of the yaml file keep their defaults, so an empty or missing file is valid.
type Config struct {
	ListenAddr string `yaml:"listen_addr"`
	DataDir    string `yaml:"data_dir"`
	ClientDir  string `yaml:"client_dir"`

	ProductionTickMs int `yaml:"production_tick_ms"`
	HostileTickMs    int `yaml:"hostile_tick_ms"`

	MineIntervalMs int     `yaml:"mine_interval_ms"`
	PickupRange    float64 `yaml:"pickup_range"`

	AggroRadius     float64 `yaml:"aggro_radius"`
	DisengageRadius float64 `yaml:"disengage_radius"`

	ResourceNodeCount int `yaml:"resource_node_count"`
	HostileCount      int `yaml:"hostile_count"`

	BackupEveryMin int `yaml:"backup_every_min"`
	BackupKeep     int `yaml:"backup_keep"`
}

// Default returns the compiled-in configuration.
func Default() Config {
	return Config{
		ListenAddr:        ":8080",
		DataDir:           "data",
		ClientDir:         "static",
		ProductionTickMs:  1000,
		HostileTickMs:     50,
		MineIntervalMs:    30_000,
		PickupRange:       120,
		AggroRadius:       200,
		DisengageRadius:   260,
		ResourceNodeCount: 100,
		HostileCount:      6,
		BackupEveryMin:    5,
		BackupKeep:        8,
	}
}

// Load reads the yaml config at path on top of the defaults. A missing file
// is not an error; a malformed one is.
func Load(path string) (Config, error) {
	cfg := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, err
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.ProductionTickMs <= 0 {
		return fmt.Errorf("production_tick_ms must be positive, got %d", c.ProductionTickMs)
	}
	if c.HostileTickMs <= 0 {
		return fmt.Errorf("hostile_tick_ms must be positive, got %d", c.HostileTickMs)
	}
	if c.MineIntervalMs <= 0 {
		return fmt.Errorf("mine_interval_ms must be positive, got %d", c.MineIntervalMs)
	}
	if c.DisengageRadius < c.AggroRadius {
		return fmt.Errorf("disengage_radius %.0f must not be smaller than aggro_radius %.0f", c.DisengageRadius, c.AggroRadius)
	}
	return nil
}
