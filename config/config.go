// Package config provides configuration loading and validation.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure.
type Config struct {
	Server    ServerConfig     `yaml:"server"`
	Docs      DocsConfig       `yaml:"docs"`
	Database  DatabaseConfig   `yaml:"database"`
	Logging   LoggingConfig    `yaml:"logging"`
	Metrics   MetricsConfig    `yaml:"metrics"`
	Upstream  UpstreamConfig   `yaml:"upstream"`
	Endpoints []EndpointConfig `yaml:"endpoints"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// DocsConfig configures document assembly.
type DocsConfig struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	LogoURL     string `yaml:"logo_url"`
	// MountURL is the URL prefix generated paths are normalized against.
	MountURL string `yaml:"mount_url"`
	// Components maps installed component names to versions, published as
	// x-component-versions.
	Components map[string]string `yaml:"components"`
	// Public serves the full document without permission checks.
	Public bool `yaml:"public"`
	// AdminUser and AdminPasswordHash (bcrypt) guard protected endpoints
	// in non-public mode.
	AdminUser         string `yaml:"admin_user"`
	AdminPasswordHash string `yaml:"admin_password_hash"`
}

// DatabaseConfig configures the settings database. An empty DSN selects the
// in-memory store.
type DatabaseConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

// LoggingConfig configures logging output.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json or console
}

// MetricsConfig configures Prometheus metrics.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// UpstreamConfig configures the REST client's target server.
type UpstreamConfig struct {
	URL      string        `yaml:"url"`
	Username string        `yaml:"username,omitempty"`
	Password string        `yaml:"password,omitempty"`
	CertFile string        `yaml:"cert_file,omitempty"`
	KeyFile  string        `yaml:"key_file,omitempty"`
	Timeout  time.Duration `yaml:"timeout"`
}

// EndpointConfig declares one documented endpoint.
type EndpointConfig struct {
	Path        string        `yaml:"path"`
	Methods     []string      `yaml:"methods"`
	Module      string        `yaml:"module"`
	Name        string        `yaml:"name"`
	Action      string        `yaml:"action,omitempty"`
	Description string        `yaml:"description,omitempty"`
	Tag         string        `yaml:"tag,omitempty"`
	Pieces      []string      `yaml:"pieces,omitempty"`
	Parent      string        `yaml:"parent,omitempty"`
	Resource    *ResourceDecl `yaml:"resource,omitempty"`
	Request     []FieldDecl   `yaml:"request,omitempty"`
	Response    []FieldDecl   `yaml:"response,omitempty"`
	Exclude     bool          `yaml:"exclude,omitempty"`
	Protected   bool          `yaml:"protected,omitempty"`
}

// ResourceDecl declares the resource an endpoint serves.
type ResourceDecl struct {
	Model    string      `yaml:"model"`
	App      string      `yaml:"app"`
	Singular string      `yaml:"singular"`
	Plural   string      `yaml:"plural"`
	Fields   []FieldDecl `yaml:"fields,omitempty"`
}

// FieldDecl declares one resource field.
type FieldDecl struct {
	Name        string `yaml:"name"`
	Type        string `yaml:"type"`
	Format      string `yaml:"format,omitempty"`
	Description string `yaml:"description,omitempty"`
	PrimaryKey  bool   `yaml:"primary_key,omitempty"`
	ReadOnly    bool   `yaml:"read_only,omitempty"`
	WriteOnly   bool   `yaml:"write_only,omitempty"`
	Nullable    bool   `yaml:"nullable,omitempty"`
	Required    bool   `yaml:"required,omitempty"`
	Default     any    `yaml:"default,omitempty"`
}

// Load reads and validates configuration from a YAML file, then applies
// environment overrides.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromEnv builds a configuration from environment variables only.
func LoadFromEnv() (*Config, error) {
	cfg := Default()
	applyEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// HasEnvConfig reports whether any DOCGATE_* variable is set.
func HasEnvConfig() bool {
	for _, kv := range os.Environ() {
		if strings.HasPrefix(kv, "DOCGATE_") {
			return true
		}
	}
	return false
}

// Default returns the built-in defaults.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         8080,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		Docs: DocsConfig{
			Title:    "DocGate API",
			MountURL: "/",
			Public:   true,
		},
		Database: DatabaseConfig{Driver: "sqlite"},
		Logging:  LoggingConfig{Level: "info", Format: "json"},
		Metrics:  MetricsConfig{Enabled: true},
		Upstream: UpstreamConfig{Timeout: 10 * time.Second},
	}
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("DOCGATE_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("DOCGATE_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("DOCGATE_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("DOCGATE_DATABASE_DSN"); v != "" {
		cfg.Database.DSN = v
	}
	if v := os.Getenv("DOCGATE_DOCS_TITLE"); v != "" {
		cfg.Docs.Title = v
	}
	if v := os.Getenv("DOCGATE_UPSTREAM_URL"); v != "" {
		cfg.Upstream.URL = v
	}
}

// Validate checks the configuration for contradictions.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q not one of debug, info, warn, error", c.Logging.Level)
	}
	if !c.Docs.Public && c.Docs.AdminPasswordHash == "" {
		return fmt.Errorf("docs.admin_password_hash required when docs.public is false")
	}

	names := make(map[string]bool)
	for i, ep := range c.Endpoints {
		if ep.Path == "" {
			return fmt.Errorf("endpoints[%d]: path required", i)
		}
		if len(ep.Methods) == 0 {
			return fmt.Errorf("endpoints[%d] %s: at least one method required", i, ep.Path)
		}
		if ep.Name != "" {
			names[ep.Name] = true
		}
	}
	for i, ep := range c.Endpoints {
		if ep.Parent != "" && !names[ep.Parent] {
			return fmt.Errorf("endpoints[%d] %s: unknown parent %q", i, ep.Path, ep.Parent)
		}
	}
	return nil
}
