package workflow

import (
	"fmt"

	"go.opentelemetry.io/otel/metric"
)

func (c *Controller) initMetrics() error {
	var err error

	c.runCounter, err = c.meter.Int64Counter(
		"docforge.workflow.runs",
		metric.WithDescription("Completed pipeline runs"),
		metric.WithUnit("{run}"),
	)
	if err != nil {
		return fmt.Errorf("create run counter: %w", err)
	}

	c.runDuration, err = c.meter.Float64Histogram(
		"docforge.workflow.duration_seconds",
		metric.WithDescription("End-to-end pipeline run duration"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.05, 0.1, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	)
	if err != nil {
		return fmt.Errorf("create run duration histogram: %w", err)
	}

	c.stageFailures, err = c.meter.Int64Counter(
		"docforge.workflow.stage_failures",
		metric.WithDescription("Stage degradations and aborts by failure kind"),
		metric.WithUnit("{failure}"),
	)
	if err != nil {
		return fmt.Errorf("create stage failure counter: %w", err)
	}

	c.propertySkips, err = c.meter.Int64Counter(
		"docforge.workflow.property_skips",
		metric.WithDescription("Formatting properties that failed to apply"),
		metric.WithUnit("{property}"),
	)
	if err != nil {
		return fmt.Errorf("create property skip counter: %w", err)
	}

	return nil
}
