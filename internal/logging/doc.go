// Package logging provides structured logging for the export pipeline.
//
// # Overview
//
// The package wraps Zap with:
//   - Custom Trace level (-2, below Debug)
//   - Dual output (stdout + OpenTelemetry log bridge)
//   - Automatic context field injection (trace_id, run.id, request.id)
//   - Encoder-level secret redaction
//   - Level-aware sampling (errors never sampled)
//
// # Usage
//
// Create a logger from config:
//
//	cfg := logging.NewDefaultConfig()
//	logger, err := logging.NewLogger(cfg, otelProvider)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer logger.Sync()
//
// Log with context:
//
//	ctx := logging.WithRunID(ctx, runID)
//	logger.Info(ctx, "artifact rendered", zap.String("path", path))
//
// Output carries the correlation automatically:
//
//	{
//	  "ts": "2026-08-21T10:15:30Z",
//	  "level": "info",
//	  "msg": "artifact rendered",
//	  "trace_id": "abc123",
//	  "run.id": "run_7f3a",
//	  "path": "/home/u/Documents/docforge/export_2026-08-21_10-15-30.docx"
//	}
//
// # Secret Redaction
//
// Secrets are stopped at two layers: the config.Secret type redacts itself
// in every marshal path, and the redacting encoder filters sensitive field
// names and value patterns for anything that slips past. Use the helpers
// for manual cases:
//
//	logger.Info(ctx, "provider configured",
//	    logging.RedactedString("api_key", key))
//
// # Sampling
//
// Sampling keeps repeated low-severity entries from flooding output while
// errors always pass through. Disable while debugging:
//
//	cfg.Sampling.Enabled = false
//
// # Testing
//
// TestLogger records entries for assertions:
//
//	tl := logging.NewTestLogger()
//	tl.Info(ctx, "render complete", zap.String("kind", "pdf"))
//	tl.AssertLogged(t, zapcore.InfoLevel, "render complete")
//	tl.AssertNoSecrets(t)
//
// Logger is safe for concurrent use; child loggers (With, Named) are
// independent of their parent and siblings.
package logging
