// Package config provides configuration loading for docforge.
//
// Configuration is read from a YAML file and overridden by DOCFORGE_*
// environment variables, with hardcoded defaults beneath both. Provider
// API keys may also arrive through the conventional OPENAI_API_KEY and
// ANTHROPIC_API_KEY variables, resolved by the llm package.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config holds the complete docforge configuration.
type Config struct {
	Export    ExportConfig    `koanf:"export"`
	LLM       LLMConfig       `koanf:"llm"`
	Server    ServerConfig    `koanf:"server"`
	Watcher   WatcherConfig   `koanf:"watcher"`
	Logging   LoggingConfig   `koanf:"logging"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
}

// ExportConfig controls where artifacts land and what happens after a
// successful render.
type ExportConfig struct {
	Directory   string `koanf:"directory"`    // destination for artifacts
	BaseName    string `koanf:"base_name"`    // default filename stem
	AutoOpen    bool   `koanf:"auto_open"`    // shell-open the artifact after export
	Verify      bool   `koanf:"verify"`       // validate the artifact after rendering
	PresetsFile string `koanf:"presets_file"` // optional TOML style preset bundles
}

// LLMConfig selects the language model backend.
//
// Provider may be "openai", "anthropic", or "ollama". When empty, the
// backend is auto-detected from which API key environment variable is set.
type LLMConfig struct {
	Provider  string                    `koanf:"provider"`
	Providers map[string]ProviderConfig `koanf:"providers"`
}

// ProviderConfig holds per-backend connection settings.
type ProviderConfig struct {
	Model      string   `koanf:"model"`
	APIKey     Secret   `koanf:"api_key"`
	BaseURL    string   `koanf:"base_url"`
	MaxTokens  int      `koanf:"max_tokens"`
	Timeout    Duration `koanf:"timeout"`
	MaxRetries int      `koanf:"max_retries"`
}

// ServerConfig holds the HTTP trigger API settings.
type ServerConfig struct {
	Host            string   `koanf:"host"`
	Port            int      `koanf:"port"`
	ShutdownTimeout Duration `koanf:"shutdown_timeout"`
}

// WatcherConfig holds the drop-folder trigger settings.
type WatcherConfig struct {
	InboxDir           string   `koanf:"inbox_dir"`
	DefaultInstruction string   `koanf:"default_instruction"`
	MaxConcurrent      int      `koanf:"max_concurrent"`
	SettleDelay        Duration `koanf:"settle_delay"` // wait for writes to finish before picking a file up
}

// LoggingConfig holds the user-tunable logging knobs. The full logging
// configuration lives in the logging package; these fields seed it.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// TelemetryConfig holds the user-tunable telemetry knobs, mapped onto the
// telemetry package's configuration at startup.
type TelemetryConfig struct {
	Enabled     bool    `koanf:"enabled"`
	ServiceName string  `koanf:"service_name"`
	Endpoint    string  `koanf:"endpoint"`
	Protocol    string  `koanf:"protocol"` // "grpc" or "http/protobuf"
	Insecure    bool    `koanf:"insecure"`
	SampleRatio float64 `koanf:"sample_ratio"`
}

// Default values applied wherever the file and environment are silent.
const (
	DefaultExportDirectory = "~/Documents/docforge"
	DefaultBaseName        = "export"
	DefaultServerHost      = "127.0.0.1"
	DefaultServerPort      = 8080
)

// DefaultConfig returns a Config populated with every default.
func DefaultConfig() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Export.Directory == "" {
		cfg.Export.Directory = DefaultExportDirectory
	}
	if cfg.Export.BaseName == "" {
		cfg.Export.BaseName = DefaultBaseName
	}

	if cfg.Server.Host == "" {
		cfg.Server.Host = DefaultServerHost
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = Duration(10 * time.Second)
	}

	if cfg.Watcher.DefaultInstruction == "" {
		cfg.Watcher.DefaultInstruction = "Export this as a Word document"
	}
	if cfg.Watcher.MaxConcurrent == 0 {
		cfg.Watcher.MaxConcurrent = 4
	}
	if cfg.Watcher.SettleDelay == 0 {
		cfg.Watcher.SettleDelay = Duration(500 * time.Millisecond)
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}

	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = "docforge"
	}
	if cfg.Telemetry.Protocol == "" {
		cfg.Telemetry.Protocol = "grpc"
	}
	if cfg.Telemetry.Endpoint == "" {
		cfg.Telemetry.Endpoint = "localhost:4317"
	}
	if cfg.Telemetry.SampleRatio == 0 {
		cfg.Telemetry.SampleRatio = 1.0
	}
}

// Validate checks the configuration for values that cannot work.
func (c *Config) Validate() error {
	if c.Export.Directory == "" {
		return errors.New("export directory cannot be empty")
	}
	if c.Export.BaseName == "" {
		return errors.New("export base name cannot be empty")
	}

	switch c.LLM.Provider {
	case "", "openai", "anthropic", "ollama":
	default:
		return fmt.Errorf("unknown llm provider: %q (expected openai, anthropic, or ollama)", c.LLM.Provider)
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d (must be 1-65535)", c.Server.Port)
	}
	if c.Server.ShutdownTimeout.Duration() <= 0 {
		return errors.New("server shutdown timeout must be positive")
	}

	if c.Watcher.MaxConcurrent < 1 {
		return fmt.Errorf("watcher max_concurrent must be at least 1, got %d", c.Watcher.MaxConcurrent)
	}

	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("unknown logging format: %q (expected json or console)", c.Logging.Format)
	}

	switch c.Telemetry.Protocol {
	case "grpc", "http/protobuf":
	default:
		return fmt.Errorf("unknown telemetry protocol: %q (expected grpc or http/protobuf)", c.Telemetry.Protocol)
	}
	if c.Telemetry.SampleRatio < 0 || c.Telemetry.SampleRatio > 1 {
		return fmt.Errorf("telemetry sample_ratio must be in [0,1], got %f", c.Telemetry.SampleRatio)
	}

	return nil
}

// ExpandPath resolves a leading "~/" against the user's home directory and
// expands $VAR references. Paths from config files and instructions pass
// through here before use.
func ExpandPath(path string) (string, error) {
	path = os.ExpandEnv(path)
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to resolve home directory: %w", err)
		}
		if path == "~" {
			return home, nil
		}
		path = filepath.Join(home, path[2:])
	}
	return filepath.Clean(path), nil
}
