// Package config loads the application configuration from a YAML file or
// command-line flags.
package config

import (
	"flag"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Supported live quote sources.
const (
	PriceSourceNone        = "none"
	PriceSourceBinance     = "binance"
	PriceSourceBybit       = "bybit"
	PriceSourceHyperliquid = "hyperliquid"
)

// Config is the resolved application configuration.
type Config struct {
	SnapshotPath    string
	ListenAddr      string
	TLSDomains      []string
	TLSCacheDir     string
	PriceSource     string
	RefreshInterval time.Duration
	WalDir          string
	AIMode          string
}

// FileConfig is the on-disk YAML shape, shared with the setup wizard.
type FileConfig struct {
	SnapshotPath    string        `yaml:"snapshot_path"`
	ListenAddr      string        `yaml:"listen_addr,omitempty"`
	TLSDomains      []string      `yaml:"tls_domains,omitempty"`
	TLSCacheDir     string        `yaml:"tls_cache_dir,omitempty"`
	PriceSource     string        `yaml:"price_source,omitempty"`
	RefreshInterval time.Duration `yaml:"refresh_interval,omitempty"`
	WalDir          string        `yaml:"wal_dir,omitempty"`
	AIMode          string        `yaml:"ai_mode,omitempty"`
}

// Get resolves configuration: --config wins, flags are the fallback.
func Get() (Config, error) {
	configPath := flag.String("config", "", "path to yaml config")
	snapshot := flag.String("snapshot", "activity.yaml", "path to the activity snapshot file")
	addr := flag.String("addr", ":8087", "dashboard listen address")
	priceSource := flag.String("pricesource", PriceSourceNone, "live quote source: none, binance, bybit or hyperliquid")
	refresh := flag.Duration("refreshinterval", 5*time.Minute, "pipeline re-run interval")
	walDir := flag.String("waldir", "./wal/reports", "report WAL directory")
	aiMode := flag.String("aimode", "overview", "default AI context mode")
	flag.Parse()

	if *configPath != "" {
		return getYaml(*configPath)
	}

	cfg := Config{
		SnapshotPath:    *snapshot,
		ListenAddr:      *addr,
		PriceSource:     *priceSource,
		RefreshInterval: *refresh,
		WalDir:          *walDir,
		AIMode:          *aiMode,
	}
	return cfg, cfg.validate()
}

func getYaml(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	var tmp FileConfig
	if err := yaml.Unmarshal(data, &tmp); err != nil {
		return Config{}, err
	}

	cfg := Config{
		SnapshotPath:    tmp.SnapshotPath,
		ListenAddr:      tmp.ListenAddr,
		TLSDomains:      tmp.TLSDomains,
		TLSCacheDir:     tmp.TLSCacheDir,
		PriceSource:     tmp.PriceSource,
		RefreshInterval: tmp.RefreshInterval,
		WalDir:          tmp.WalDir,
		AIMode:          tmp.AIMode,
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":8087"
	}
	if cfg.PriceSource == "" {
		cfg.PriceSource = PriceSourceNone
	}
	if cfg.RefreshInterval == 0 {
		cfg.RefreshInterval = 5 * time.Minute
	}
	if cfg.WalDir == "" {
		cfg.WalDir = "./wal/reports"
	}
	if cfg.AIMode == "" {
		cfg.AIMode = "overview"
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	if c.SnapshotPath == "" {
		return fmt.Errorf("snapshot_path is required")
	}
	switch c.PriceSource {
	case PriceSourceNone, PriceSourceBinance, PriceSourceBybit, PriceSourceHyperliquid:
	default:
		return fmt.Errorf("invalid price_source %q", c.PriceSource)
	}
	if c.RefreshInterval < time.Second {
		return fmt.Errorf("refresh_interval must be at least 1s, got %s", c.RefreshInterval)
	}
	return nil
}
