package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const defaultAPIBaseURL = "http://localhost:8080"
const defaultHTTPTimeout = 15 * time.Second
const defaultDashboardCacheTTL = 30 * time.Second
const defaultLedgerCacheTTL = 5 * time.Minute

type Config struct {
	APIBaseURL        string
	HTTPTimeout       time.Duration
	DataDir           string
	DemoMode          bool
	DashboardCacheTTL time.Duration
	LedgerCacheTTL    time.Duration
}

// fileConfig is the YAML shape; durations are strings parsed with
// time.ParseDuration so the file can say "30s" or "5m".
type fileConfig struct {
	APIBaseURL        string `yaml:"apiBaseUrl"`
	HTTPTimeout       string `yaml:"httpTimeout"`
	DataDir           string `yaml:"dataDir"`
	DemoMode          *bool  `yaml:"demoMode"`
	DashboardCacheTTL string `yaml:"dashboardCacheTtl"`
	LedgerCacheTTL    string `yaml:"ledgerCacheTtl"`
}

// Load builds the configuration from defaults, then an optional YAML
// file (EGA_BANK_CONFIG or the path argument), then environment
// variables. Later sources win.
func Load(configPath string) (Config, error) {
	cfg := Config{
		APIBaseURL:        defaultAPIBaseURL,
		HTTPTimeout:       defaultHTTPTimeout,
		DataDir:           defaultDataDir(),
		DemoMode:          true,
		DashboardCacheTTL: defaultDashboardCacheTTL,
		LedgerCacheTTL:    defaultLedgerCacheTTL,
	}

	path := strings.TrimSpace(configPath)
	if path == "" {
		path = strings.TrimSpace(os.Getenv("EGA_BANK_CONFIG"))
	}
	if path != "" {
		if err := applyFile(&cfg, path); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}

	cfg.APIBaseURL = strings.TrimRight(strings.TrimSpace(cfg.APIBaseURL), "/")
	return cfg, nil
}

func applyFile(cfg *Config, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}

	if strings.TrimSpace(fc.APIBaseURL) != "" {
		cfg.APIBaseURL = strings.TrimSpace(fc.APIBaseURL)
	}
	if strings.TrimSpace(fc.DataDir) != "" {
		cfg.DataDir = strings.TrimSpace(fc.DataDir)
	}
	if fc.DemoMode != nil {
		cfg.DemoMode = *fc.DemoMode
	}
	if err := applyDuration(&cfg.HTTPTimeout, fc.HTTPTimeout, "httpTimeout"); err != nil {
		return err
	}
	if err := applyDuration(&cfg.DashboardCacheTTL, fc.DashboardCacheTTL, "dashboardCacheTtl"); err != nil {
		return err
	}
	if err := applyDuration(&cfg.LedgerCacheTTL, fc.LedgerCacheTTL, "ledgerCacheTtl"); err != nil {
		return err
	}
	return nil
}

func applyEnv(cfg *Config) error {
	if v := strings.TrimSpace(os.Getenv("EGA_BANK_API_URL")); v != "" {
		cfg.APIBaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv("EGA_BANK_DATA_DIR")); v != "" {
		cfg.DataDir = v
	}
	if v := strings.TrimSpace(os.Getenv("EGA_BANK_DEMO_MODE")); v != "" {
		demo, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("EGA_BANK_DEMO_MODE must be a boolean: %w", err)
		}
		cfg.DemoMode = demo
	}
	if err := applyDuration(&cfg.HTTPTimeout, os.Getenv("EGA_BANK_HTTP_TIMEOUT"), "EGA_BANK_HTTP_TIMEOUT"); err != nil {
		return err
	}
	return nil
}

func applyDuration(dst *time.Duration, raw string, name string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("%s is not a valid duration: %w", name, err)
	}
	if d <= 0 {
		return fmt.Errorf("%s must be positive", name)
	}
	*dst = d
	return nil
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".ega-bank"
	}
	return filepath.Join(home, ".ega-bank")
}
