package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Export.Directory != DefaultExportDirectory {
		t.Errorf("Export.Directory = %q, want %q", cfg.Export.Directory, DefaultExportDirectory)
	}
	if cfg.Export.BaseName != "export" {
		t.Errorf("Export.BaseName = %q, want export", cfg.Export.BaseName)
	}
	if cfg.Server.Port != DefaultServerPort {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, DefaultServerPort)
	}
	if cfg.Server.ShutdownTimeout.Duration() != 10*time.Second {
		t.Errorf("Server.ShutdownTimeout = %v, want 10s", cfg.Server.ShutdownTimeout.Duration())
	}
	if cfg.Watcher.MaxConcurrent != 4 {
		t.Errorf("Watcher.MaxConcurrent = %d, want 4", cfg.Watcher.MaxConcurrent)
	}
	if cfg.LLM.Provider != "" {
		t.Errorf("LLM.Provider = %q, want empty (auto-detect)", cfg.LLM.Provider)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig() must validate, got: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "valid defaults",
			mutate:  func(c *Config) {},
			wantErr: "",
		},
		{
			name:    "empty export directory",
			mutate:  func(c *Config) { c.Export.Directory = "" },
			wantErr: "export directory",
		},
		{
			name:    "empty base name",
			mutate:  func(c *Config) { c.Export.BaseName = "" },
			wantErr: "base name",
		},
		{
			name:    "unknown provider",
			mutate:  func(c *Config) { c.LLM.Provider = "cohere" },
			wantErr: "unknown llm provider",
		},
		{
			name:    "explicit anthropic provider",
			mutate:  func(c *Config) { c.LLM.Provider = "anthropic" },
			wantErr: "",
		},
		{
			name:    "port too high",
			mutate:  func(c *Config) { c.Server.Port = 99999 },
			wantErr: "invalid server port",
		},
		{
			name:    "negative port",
			mutate:  func(c *Config) { c.Server.Port = -1 },
			wantErr: "invalid server port",
		},
		{
			name:    "watcher concurrency negative",
			mutate:  func(c *Config) { c.Watcher.MaxConcurrent = -2 },
			wantErr: "max_concurrent",
		},
		{
			name:    "bad logging format",
			mutate:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: "logging format",
		},
		{
			name:    "bad telemetry protocol",
			mutate:  func(c *Config) { c.Telemetry.Protocol = "thrift" },
			wantErr: "telemetry protocol",
		},
		{
			name:    "sample ratio out of range",
			mutate:  func(c *Config) { c.Telemetry.SampleRatio = 1.5 },
			wantErr: "sample_ratio",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() = nil, want error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("cannot get home directory")
	}

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"tilde slash", "~/Documents/docforge", filepath.Join(home, "Documents", "docforge")},
		{"bare tilde", "~", home},
		{"absolute untouched", "/var/tmp/exports", "/var/tmp/exports"},
		{"relative cleaned", "./out/../exports", "exports"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExpandPath(tt.input)
			if err != nil {
				t.Fatalf("ExpandPath(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ExpandPath(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestExpandPath_EnvVars(t *testing.T) {
	os.Setenv("DOCFORGE_TEST_DIR", "/srv/exports")
	defer os.Unsetenv("DOCFORGE_TEST_DIR")

	got, err := ExpandPath("$DOCFORGE_TEST_DIR/out")
	if err != nil {
		t.Fatalf("ExpandPath() error = %v", err)
	}
	if got != "/srv/exports/out" {
		t.Errorf("ExpandPath() = %q, want /srv/exports/out", got)
	}
}
