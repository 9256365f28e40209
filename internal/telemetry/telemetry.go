package telemetry

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"go.opentelemetry.io/otel"
	otellog "go.opentelemetry.io/otel/log"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// Health describes the state of the telemetry subsystem.
type Health int

const (
	// Healthy means providers are initialized and exporting.
	Healthy Health = iota
	// Degraded means initialization partially failed; no-op providers
	// are serving in place of the failed ones.
	Degraded
	// Disabled means telemetry was turned off by configuration.
	Disabled
)

func (h Health) String() string {
	switch h {
	case Healthy:
		return "healthy"
	case Degraded:
		return "degraded"
	case Disabled:
		return "disabled"
	default:
		return "unknown"
	}
}

// Telemetry owns the tracer and meter providers for the process.
//
// A disabled or degraded instance hands out no-op tracers and meters,
// so callers never need to check state before instrumenting.
type Telemetry struct {
	cfg *Config

	tracerProvider *sdktrace.TracerProvider
	meterProvider  *sdkmetric.MeterProvider
	loggerProvider otellog.LoggerProvider

	degraded atomic.Bool
}

// New creates a Telemetry instance from the config. When cfg.Enabled is
// false the returned instance is a cheap no-op. Provider construction
// errors degrade the instance instead of failing the process.
func New(ctx context.Context, cfg *Config) (*Telemetry, error) {
	if cfg == nil {
		cfg = NewDefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid telemetry config: %w", err)
	}

	t := &Telemetry{cfg: cfg}
	if !cfg.Enabled {
		return t, nil
	}

	res, err := newResource(cfg)
	if err != nil {
		t.degraded.Store(true)
		return t, nil
	}

	tp, err := newTracerProvider(ctx, cfg, res)
	if err != nil {
		t.degraded.Store(true)
	} else {
		t.tracerProvider = tp
		otel.SetTracerProvider(tp)
	}

	if cfg.Metrics.Enabled {
		mp, err := newMeterProvider(ctx, cfg, res)
		if err != nil {
			t.degraded.Store(true)
		} else {
			t.meterProvider = mp
			otel.SetMeterProvider(mp)
		}
	}

	return t, nil
}

// Tracer returns a named tracer. Falls back to the global (no-op when
// unset) provider if this instance has none.
func (t *Telemetry) Tracer(name string) trace.Tracer {
	if t.tracerProvider != nil {
		return t.tracerProvider.Tracer(name)
	}
	return otel.GetTracerProvider().Tracer(name)
}

// Meter returns a named meter, with the same fallback as Tracer.
func (t *Telemetry) Meter(name string) metric.Meter {
	if t.meterProvider != nil {
		return t.meterProvider.Meter(name)
	}
	return otel.GetMeterProvider().Meter(name)
}

// LoggerProvider returns the OTel log provider, or nil when log export
// is not wired. The logging package uses this to bridge zap records.
func (t *Telemetry) LoggerProvider() otellog.LoggerProvider {
	return t.loggerProvider
}

// SetLoggerProvider installs a log provider for the logging bridge.
func (t *Telemetry) SetLoggerProvider(lp otellog.LoggerProvider) {
	t.loggerProvider = lp
}

// IsEnabled reports whether telemetry was enabled by configuration.
func (t *Telemetry) IsEnabled() bool {
	return t.cfg.Enabled
}

// HealthStatus reports the current state of the subsystem.
func (t *Telemetry) HealthStatus() Health {
	if !t.cfg.Enabled {
		return Disabled
	}
	if t.degraded.Load() {
		return Degraded
	}
	return Healthy
}

// ForceFlush flushes all pending spans and metrics.
func (t *Telemetry) ForceFlush(ctx context.Context) error {
	var errs []error
	if t.tracerProvider != nil {
		if err := t.tracerProvider.ForceFlush(ctx); err != nil {
			errs = append(errs, fmt.Errorf("flush traces: %w", err))
		}
	}
	if t.meterProvider != nil {
		if err := t.meterProvider.ForceFlush(ctx); err != nil {
			errs = append(errs, fmt.Errorf("flush metrics: %w", err))
		}
	}
	return errors.Join(errs...)
}

// Shutdown flushes and stops all providers, bounded by the configured
// shutdown timeout.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, t.cfg.Shutdown.Timeout)
	defer cancel()

	var errs []error
	if t.tracerProvider != nil {
		if err := t.tracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown tracer provider: %w", err))
		}
	}
	if t.meterProvider != nil {
		if err := t.meterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown meter provider: %w", err))
		}
	}
	return errors.Join(errs...)
}
