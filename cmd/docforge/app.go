package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap/zapcore"

	"github.com/fyrsmithlabs/docforge/internal/artifact"
	"github.com/fyrsmithlabs/docforge/internal/config"
	"github.com/fyrsmithlabs/docforge/internal/document/docx"
	"github.com/fyrsmithlabs/docforge/internal/document/pdf"
	"github.com/fyrsmithlabs/docforge/internal/llm"
	"github.com/fyrsmithlabs/docforge/internal/logging"
	"github.com/fyrsmithlabs/docforge/internal/styles"
	"github.com/fyrsmithlabs/docforge/internal/telemetry"
	"github.com/fyrsmithlabs/docforge/internal/workflow"
)

// app holds everything a subcommand needs: loaded configuration, the
// wired pipeline controller, and the observability lifecycle.
type app struct {
	cfg        *config.Config
	logger     *logging.Logger
	telemetry  *telemetry.Telemetry
	store      *artifact.Store
	controller *workflow.Controller
}

// buildApp loads configuration and wires the export pipeline. The
// returned app must be closed to flush logs and telemetry.
func buildApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	tel, err := telemetry.New(ctx, telemetryConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("initialize telemetry: %w", err)
	}

	logger, err := newLogger(cfg, tel)
	if err != nil {
		return nil, fmt.Errorf("initialize logger: %w", err)
	}

	exportDir, err := config.ExpandPath(cfg.Export.Directory)
	if err != nil {
		return nil, fmt.Errorf("resolve export directory: %w", err)
	}
	store, err := artifact.NewStore(exportDir, cfg.Export.BaseName)
	if err != nil {
		return nil, fmt.Errorf("prepare export directory: %w", err)
	}

	client, err := llm.New(llmConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("configure llm backend: %w", err)
	}
	prompts, err := llm.NewPrompts()
	if err != nil {
		return nil, fmt.Errorf("load prompt templates: %w", err)
	}

	presets, err := styles.NewLibrary(cfg.Export.PresetsFile)
	if err != nil {
		return nil, fmt.Errorf("load style presets: %w", err)
	}

	opts := workflow.Options{
		Classifier: workflow.NewClassifier(client, prompts),
		Cleaner:    workflow.NewCleaner(client, prompts),
		Extractor:  workflow.NewExtractor(client, prompts),
		Word:       docx.NewRenderer(store),
		PDF:        pdf.NewRenderer(store),
		Presets:    presets,
		Logger:     logger,
	}
	if cfg.Export.Verify {
		opts.Verifier = artifact.Verify
	}
	if cfg.Export.AutoOpen {
		opts.Opener = artifact.NewOpener(true)
	}

	controller, err := workflow.New(opts)
	if err != nil {
		return nil, fmt.Errorf("build workflow controller: %w", err)
	}

	return &app{
		cfg:        cfg,
		logger:     logger,
		telemetry:  tel,
		store:      store,
		controller: controller,
	}, nil
}

// Close flushes logs and shuts telemetry down.
func (a *app) Close() {
	_ = a.logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = a.telemetry.Shutdown(ctx)
}

func newLogger(cfg *config.Config, tel *telemetry.Telemetry) (*logging.Logger, error) {
	logCfg := logging.NewDefaultConfig()
	logCfg.Format = cfg.Logging.Format

	level, err := zapcore.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Logging.Level, err)
	}
	logCfg.Level = level

	if tel.IsEnabled() {
		logCfg.Output.OTEL = true
		return logging.NewLogger(logCfg, tel.LoggerProvider())
	}
	return logging.NewLogger(logCfg, nil)
}

func telemetryConfig(cfg *config.Config) *telemetry.Config {
	tc := telemetry.NewDefaultConfig()
	tc.Enabled = cfg.Telemetry.Enabled
	tc.ServiceName = cfg.Telemetry.ServiceName
	tc.ServiceVersion = version
	tc.Endpoint = cfg.Telemetry.Endpoint
	tc.Protocol = cfg.Telemetry.Protocol
	tc.Insecure = cfg.Telemetry.Insecure
	tc.Sampling.Rate = cfg.Telemetry.SampleRatio
	return tc
}

// llmConfig maps the provider section selected by llm.provider onto
// the client config. With no provider configured the backend is
// auto-detected, provider defaults apply and the API key comes from
// the environment.
func llmConfig(cfg *config.Config) llm.Config {
	name := cfg.LLM.Provider
	pc := cfg.LLM.Providers[name]
	return llm.Config{
		Provider:   name,
		Model:      pc.Model,
		APIKey:     pc.APIKey.Value(),
		BaseURL:    pc.BaseURL,
		MaxTokens:  pc.MaxTokens,
		Timeout:    pc.Timeout.Duration(),
		MaxRetries: pc.MaxRetries,
	}
}
