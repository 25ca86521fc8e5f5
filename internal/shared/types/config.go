package types

import (
	"os"
	"strings"
)

// Output formats.
const (
	FormatMarkdown = "markdown"
	FormatTerminal = "terminal"
)

// Default values.
const (
	DefaultRegion   = "us-east-1"
	DefaultFormat   = FormatMarkdown
	DefaultLogLevel = "info"
)

// Environment variables read by ApplyEnv.
const (
	EnvConfigFile = "BIGRIVER_CONFIG"
	EnvProfile    = "BIGRIVER_PROFILE"
	EnvRegion     = "BIGRIVER_REGION"
	EnvFormat     = "BIGRIVER_FORMAT"
	EnvLogLevel   = "BIGRIVER_LOG_LEVEL"
)

// Config represents the application configuration that can be loaded from a file.
type Config struct {
	Profile    string   `json:"profile" yaml:"profile" toml:"profile"`
	Region     string   `json:"region" yaml:"region" toml:"region"`
	Format     string   `json:"format" yaml:"format" toml:"format"`
	Period     string   `json:"period" yaml:"period" toml:"period"`
	AccountID  string   `json:"account_id" yaml:"account_id" toml:"account_id"`
	OUID       string   `json:"ou_id" yaml:"ou_id" toml:"ou_id"`
	ByOU       bool     `json:"by_ou" yaml:"by_ou" toml:"by_ou"`
	Color      *bool    `json:"color" yaml:"color" toml:"color"`
	LogLevel   string   `json:"log_level" yaml:"log_level" toml:"log_level"`
	ReportName string   `json:"report_name" yaml:"report_name" toml:"report_name"`
	ReportType []string `json:"report_type" yaml:"report_type" toml:"report_type"`
	Dir        string   `json:"dir" yaml:"dir" toml:"dir"`
}

// DefaultConfig returns a Config with every default applied.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults preenche os campos vazios com os valores padrão.
func (c *Config) ApplyDefaults() {
	if c.Region == "" {
		c.Region = DefaultRegion
	}
	if c.Format == "" {
		c.Format = DefaultFormat
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.Color == nil {
		enabled := true
		c.Color = &enabled
	}
}

// ApplyEnv overrides fields with BIGRIVER_* environment variables when set.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvProfile); v != "" {
		c.Profile = v
	}
	if v := os.Getenv(EnvRegion); v != "" {
		c.Region = v
	}
	if v := os.Getenv(EnvFormat); v != "" {
		c.Format = strings.ToLower(v)
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = strings.ToLower(v)
	}
}

// ColorEnabled reports whether colored output was requested.
func (c *Config) ColorEnabled() bool {
	return c.Color == nil || *c.Color
}
