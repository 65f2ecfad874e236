// internal/config/config.go

// Package config loads the application configuration from YAML, with
// environment variable expansion, defaults, and validation.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so YAML can carry values like "30s".
// Bare integers are taken as seconds.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var raw interface{}
	if err := node.Decode(&raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case string:
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %v", v, err)
		}
		*d = Duration(parsed)
	case int:
		*d = Duration(time.Duration(v) * time.Second)
	default:
		return fmt.Errorf("invalid duration value: %v", raw)
	}
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config is the top-level application configuration.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Scraper  ScraperConfig  `yaml:"scraper"`
	Browser  BrowserConfig  `yaml:"browser"`
	Report   ReportConfig   `yaml:"report"`
	Server   ServerConfig   `yaml:"server"`
	LogLevel string         `yaml:"log_level"`
}

// DatabaseConfig selects and configures the storage backend.
type DatabaseConfig struct {
	Driver string `yaml:"driver"` // sqlite3, postgres, mysql
	Path   string `yaml:"path"`   // sqlite file path
	DSN    string `yaml:"dsn"`    // postgres/mysql connection string
}

// ScraperConfig tunes the fetch layer and the committee walk.
type ScraperConfig struct {
	RateLimit          float64       `yaml:"rate_limit"` // requests per second
	RateBurst          int           `yaml:"rate_burst"`
	Timeout            Duration      `yaml:"timeout"`
	RetryAttempts      int           `yaml:"retry_attempts"`
	RetryDelay         Duration      `yaml:"retry_delay"`
	UserAgents         []string      `yaml:"user_agents"`
	Chambers           []string      `yaml:"chambers"` // house, senate
	HearingSampleLimit int           `yaml:"hearing_sample_limit"`
}

// BrowserConfig controls the headless deep inspection pass.
type BrowserConfig struct {
	Enabled   bool          `yaml:"enabled"`
	Headless  bool          `yaml:"headless"`
	Timeout   Duration      `yaml:"timeout"`
	WaitDelay Duration      `yaml:"wait_delay"`
}

// ReportConfig names the output files for the report command.
type ReportConfig struct {
	JSONPath     string `yaml:"json_path"`
	MarkdownPath string `yaml:"markdown_path"`
	ExcelPath    string `yaml:"excel_path"`
}

// ServerConfig configures the stats API.
type ServerConfig struct {
	ListenAddress string `yaml:"listen_address"`
}

// LoadFromFile loads configuration from a YAML file.
func LoadFromFile(filename string) (*Config, error) {
	if filename == "" {
		return nil, fmt.Errorf("configuration filename cannot be empty")
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file: %v", err)
	}

	return LoadFromBytes(data)
}

// LoadFromBytes loads configuration from YAML bytes, expanding
// environment variable references first.
func LoadFromBytes(data []byte) (*Config, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("configuration data cannot be empty")
	}

	expanded := os.ExpandEnv(string(data))

	var config Config
	if err := yaml.Unmarshal([]byte(expanded), &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML configuration: %v", err)
	}

	applyDefaults(&config)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %v", err)
	}

	return &config, nil
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	config := &Config{}
	applyDefaults(config)
	return config
}

// applyDefaults fills in zero values.
func applyDefaults(config *Config) {
	if config.Database.Driver == "" {
		config.Database.Driver = "sqlite3"
	}
	if config.Database.Driver == "sqlite3" && config.Database.Path == "" {
		config.Database.Path = "data/congress_video.db"
	}

	if config.Scraper.RateLimit == 0 {
		config.Scraper.RateLimit = 1.0
	}
	if config.Scraper.RateBurst == 0 {
		config.Scraper.RateBurst = 3
	}
	if config.Scraper.Timeout == 0 {
		config.Scraper.Timeout = Duration(30 * time.Second)
	}
	if config.Scraper.RetryAttempts == 0 {
		config.Scraper.RetryAttempts = 3
	}
	if config.Scraper.RetryDelay == 0 {
		config.Scraper.RetryDelay = Duration(time.Second)
	}
	if len(config.Scraper.Chambers) == 0 {
		config.Scraper.Chambers = []string{"house", "senate"}
	}
	if config.Scraper.HearingSampleLimit == 0 {
		config.Scraper.HearingSampleLimit = 10
	}

	if config.Browser.Timeout == 0 {
		config.Browser.Timeout = Duration(60 * time.Second)
	}
	if config.Browser.WaitDelay == 0 {
		config.Browser.WaitDelay = Duration(5 * time.Second)
	}
	if !config.Browser.Enabled {
		config.Browser.Headless = true
	}

	if config.Report.JSONPath == "" {
		config.Report.JSONPath = "reports/analysis.json"
	}
	if config.Report.MarkdownPath == "" {
		config.Report.MarkdownPath = "reports/analysis.md"
	}
	if config.Report.ExcelPath == "" {
		config.Report.ExcelPath = "reports/analysis.xlsx"
	}

	if config.Server.ListenAddress == "" {
		config.Server.ListenAddress = ":8080"
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
}

// Validate checks the configuration for inconsistencies.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "sqlite3":
		if c.Database.Path == "" {
			return fmt.Errorf("database path is required for sqlite3")
		}
	case "postgres", "mysql":
		if c.Database.DSN == "" {
			return fmt.Errorf("database dsn is required for %s", c.Database.Driver)
		}
	default:
		return fmt.Errorf("unsupported database driver: %s", c.Database.Driver)
	}

	if c.Scraper.RateLimit < 0 {
		return fmt.Errorf("scraper rate limit cannot be negative")
	}
	if c.Scraper.RetryAttempts < 0 {
		return fmt.Errorf("scraper retry attempts cannot be negative")
	}

	for _, chamber := range c.Scraper.Chambers {
		if chamber != "house" && chamber != "senate" {
			return fmt.Errorf("unknown chamber: %s", chamber)
		}
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("unknown log level: %s", c.LogLevel)
	}

	return nil
}
