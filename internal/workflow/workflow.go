// Package workflow turns source text plus a natural-language
// instruction into a rendered document artifact.
//
// A run walks a fixed state machine: analyze (classify the instruction,
// optionally clean the source text), extract_format (pull requested
// formatting properties), route (pick the render branch by kind),
// render, finalize (verify and optionally open the artifact). Stages
// degrade rather than abort: a failed classification, cleaning or
// extraction falls back to a documented default and the run continues.
// Only a render failure crosses Execute as an error.
//
// Controllers hold no per-run state, so one controller may execute any
// number of runs concurrently.
package workflow

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/docforge/internal/document"
	"github.com/fyrsmithlabs/docforge/internal/logging"
	"github.com/fyrsmithlabs/docforge/internal/styles"
)

const tracerName = "github.com/fyrsmithlabs/docforge/internal/workflow"

// State names a pipeline stage.
type State string

const (
	StateAnalyze       State = "analyze"
	StateExtractFormat State = "extract_format"
	StateRoute         State = "route"
	StateRender        State = "render"
	StateFinalize      State = "finalize"
)

// States returns the stages in execution order.
func States() []State {
	return []State{StateAnalyze, StateExtractFormat, StateRoute, StateRender, StateFinalize}
}

// Request is the input of one run. Instruction is never modified;
// SourceText may be rewritten by the cleaner when CleanSource is set.
type Request struct {
	SourceText  string
	Instruction string

	// CleanSource runs the conversational-wrapper cleaner over the
	// source text first. Direct exports of already-clean text leave
	// this off.
	CleanSource bool

	// Preset names a style preset layered beneath the extracted
	// preferences. Empty means no preset.
	Preset string

	// BaseName overrides the artifact filename stem.
	BaseName string
}

// Result is the final record of one run.
type Result struct {
	RunID        string
	ExportIntent bool
	Kind         document.Kind
	Preferences  document.Preferences
	ArtifactPath string

	// Skipped lists recognized properties whose values failed to apply.
	Skipped []document.PropertyFailure
	// Failures lists the stage degradations recorded during the run,
	// plus the render failure when the run aborted.
	Failures []*Failure

	Duration time.Duration
}

// Opener shell-opens an artifact, best effort.
type Opener interface {
	Open(path string) bool
}

// Options wires a Controller's collaborators. Classifier, Extractor,
// both renderers and Logger are required; the rest switch features off
// when nil.
type Options struct {
	Classifier *Classifier
	Cleaner    *Cleaner
	Extractor  *Extractor

	Word document.Renderer
	PDF  document.Renderer

	Presets  *styles.Library
	Verifier func(path string) error
	Opener   Opener

	Logger *logging.Logger
}

// Controller executes runs. Construct with New; the zero value is not
// usable.
type Controller struct {
	classifier *Classifier
	cleaner    *Cleaner
	extractor  *Extractor
	renderers  map[RenderStage]document.Renderer
	presets    *styles.Library
	verifier   func(path string) error
	opener     Opener

	logger *logging.Logger
	tracer trace.Tracer
	meter  metric.Meter

	stages map[State]stageFunc

	runCounter    metric.Int64Counter
	runDuration   metric.Float64Histogram
	stageFailures metric.Int64Counter
	propertySkips metric.Int64Counter
}

type stageFunc func(ctx context.Context, st *runState) error

// runState is the mutable record threaded through one run's stages. It
// lives for a single Execute call.
type runState struct {
	req runRequest

	sourceText   string
	exportIntent bool
	kind         document.Kind
	preferences  document.Preferences
	renderStage  RenderStage
	artifactPath string

	skipped  []document.PropertyFailure
	failures []*Failure
}

type runRequest struct {
	instruction string
	cleanSource bool
	preset      string
	baseName    string
}

// New builds a Controller.
func New(opts Options) (*Controller, error) {
	if opts.Classifier == nil {
		return nil, errors.New("workflow: classifier is required")
	}
	if opts.Extractor == nil {
		return nil, errors.New("workflow: extractor is required")
	}
	if opts.Word == nil || opts.PDF == nil {
		return nil, errors.New("workflow: both word and pdf renderers are required")
	}
	if opts.Logger == nil {
		return nil, errors.New("workflow: logger is required")
	}

	c := &Controller{
		classifier: opts.Classifier,
		cleaner:    opts.Cleaner,
		extractor:  opts.Extractor,
		renderers: map[RenderStage]document.Renderer{
			RenderWord: opts.Word,
			RenderPDF:  opts.PDF,
		},
		presets:  opts.Presets,
		verifier: opts.Verifier,
		opener:   opts.Opener,
		logger:   opts.Logger.Named("workflow"),
		tracer:   otel.Tracer(tracerName),
		meter:    otel.Meter(tracerName),
	}
	c.stages = map[State]stageFunc{
		StateAnalyze:       c.analyze,
		StateExtractFormat: c.extractFormat,
		StateRoute:         c.route,
		StateRender:        c.render,
		StateFinalize:      c.finalize,
	}
	if err := c.initMetrics(); err != nil {
		return nil, err
	}
	return c, nil
}

// Execute runs the pipeline once. The returned Result is non-nil even
// when the run aborts, so callers can inspect what was decided before
// the failure.
func (c *Controller) Execute(ctx context.Context, req Request) (*Result, error) {
	runID := uuid.NewString()
	ctx = logging.WithRunID(ctx, runID)

	ctx, span := c.tracer.Start(ctx, "workflow.run",
		trace.WithAttributes(
			attribute.String("run.id", runID),
			attribute.Int("source.length", len(req.SourceText)),
			attribute.Bool("clean_source", req.CleanSource),
		),
	)
	defer span.End()

	start := time.Now()
	st := &runState{
		req: runRequest{
			instruction: req.Instruction,
			cleanSource: req.CleanSource,
			preset:      req.Preset,
			baseName:    req.BaseName,
		},
		sourceText:  req.SourceText,
		kind:        document.KindWord,
		preferences: document.Preferences{},
	}

	c.logger.Info(ctx, "run started",
		zap.Int("source_length", len(req.SourceText)),
		zap.Bool("clean_source", req.CleanSource),
	)

	for _, state := range States() {
		if err := ctx.Err(); err != nil {
			span.RecordError(err)
			c.recordRun(ctx, st, start, "canceled")
			return c.result(runID, st, start), err
		}
		if err := c.runStage(ctx, state, st); err != nil {
			span.RecordError(err)
			c.recordRun(ctx, st, start, "error")
			return c.result(runID, st, start), err
		}
	}

	span.SetAttributes(
		attribute.String("document.kind", string(st.kind)),
		attribute.Bool("export.intent", st.exportIntent),
		attribute.Int("properties.skipped", len(st.skipped)),
	)
	c.recordRun(ctx, st, start, "ok")

	res := c.result(runID, st, start)
	c.logger.Info(ctx, "run complete",
		zap.String("kind", string(st.kind)),
		zap.Bool("export_intent", st.exportIntent),
		zap.String("artifact", st.artifactPath),
		zap.Int("skipped_properties", len(st.skipped)),
		zap.Duration("duration", res.Duration),
	)
	return res, nil
}

func (c *Controller) runStage(ctx context.Context, state State, st *runState) error {
	ctx, span := c.tracer.Start(ctx, "workflow."+string(state))
	defer span.End()

	c.logger.Trace(ctx, "entering stage", zap.String("stage", string(state)))
	err := c.stages[state](ctx, st)
	if err != nil {
		span.RecordError(err)
	}
	return err
}

// analyze classifies the instruction and, when asked, cleans the
// source text. Both collaborators degrade instead of aborting.
func (c *Controller) analyze(ctx context.Context, st *runState) error {
	decision, err := c.classifier.Classify(ctx, st.req.instruction)
	if err != nil {
		c.degrade(ctx, st, FailureClassification, StateAnalyze, err)
		decision = Classification{ExportIntent: false, Kind: document.KindWord}
	}
	st.exportIntent = decision.ExportIntent
	st.kind = decision.Kind

	c.logger.Debug(ctx, "instruction classified",
		zap.Bool("export_intent", st.exportIntent),
		zap.String("kind", string(st.kind)),
		zap.String("reasoning", decision.Reasoning),
	)

	if st.req.cleanSource && c.cleaner != nil {
		cleaned, err := c.cleaner.Clean(ctx, st.sourceText)
		if err != nil {
			c.degrade(ctx, st, FailureCleaning, StateAnalyze, err)
		} else {
			st.sourceText = cleaned
		}
	}
	return nil
}

// extractFormat pulls the requested formatting properties and layers
// them over the named preset, when one applies.
func (c *Controller) extractFormat(ctx context.Context, st *runState) error {
	prefs, err := c.extractor.Extract(ctx, st.req.instruction, st.kind)
	if err != nil {
		c.degrade(ctx, st, FailureExtraction, StateExtractFormat, err)
		prefs = document.Preferences{}
	}

	if st.req.preset != "" && c.presets != nil {
		preset, ok := c.presets.Get(st.req.preset)
		if !ok {
			c.logger.Warn(ctx, "unknown style preset", zap.String("preset", st.req.preset))
		} else {
			prefs = preset.Merge(prefs)
		}
	}

	st.preferences = prefs
	c.logger.Debug(ctx, "formatting extracted", zap.Int("preferences", len(prefs)))
	return nil
}

func (c *Controller) route(ctx context.Context, st *runState) error {
	st.renderStage = Route(st.kind)
	trace.SpanFromContext(ctx).SetAttributes(
		attribute.String("render.stage", string(st.renderStage)),
	)
	return nil
}

// render produces the artifact. This is the only stage whose failure
// aborts the run.
func (c *Controller) render(ctx context.Context, st *runState) error {
	renderer := c.renderers[st.renderStage]
	out, err := renderer.Render(ctx, document.RenderInput{
		Content:     st.sourceText,
		Name:        st.req.baseName,
		Preferences: st.preferences,
	})
	if err != nil {
		f := newFailure(FailureRender, StateRender, err)
		st.failures = append(st.failures, f)
		c.stageFailures.Add(ctx, 1, metric.WithAttributes(
			attribute.String("stage", string(StateRender)),
			attribute.String("kind", string(FailureRender)),
		))
		c.logger.Error(ctx, "render failed",
			zap.String("render_stage", string(st.renderStage)),
			zap.Error(err),
		)
		return f
	}

	st.artifactPath = out.Path
	st.skipped = out.Skipped
	for _, pf := range out.Skipped {
		c.propertySkips.Add(ctx, 1, metric.WithAttributes(
			attribute.String("scope", string(pf.Scope)),
		))
		c.logger.Warn(ctx, "formatting property skipped",
			zap.String("scope", string(pf.Scope)),
			zap.String("key", pf.Key),
			zap.Error(pf.Err),
		)
	}
	return nil
}

// finalize runs the post-render side effects. Their failures never
// change the reported outcome.
func (c *Controller) finalize(ctx context.Context, st *runState) error {
	if c.verifier != nil {
		if err := c.verifier(st.artifactPath); err != nil {
			c.notify(ctx, "artifact verification failed", st.artifactPath, err)
		}
	}
	if c.opener != nil {
		if !c.opener.Open(st.artifactPath) {
			c.notify(ctx, "artifact auto-open failed", st.artifactPath, nil)
		}
	}
	return nil
}

// degrade records a high-severity stage failure and lets the run
// continue on the stage's fallback.
func (c *Controller) degrade(ctx context.Context, st *runState, kind FailureKind, stage State, err error) {
	st.failures = append(st.failures, newFailure(kind, stage, err))
	c.stageFailures.Add(ctx, 1, metric.WithAttributes(
		attribute.String("stage", string(stage)),
		attribute.String("kind", string(kind)),
	))
	c.logger.Warn(ctx, "stage degraded",
		zap.String("stage", string(stage)),
		zap.String("failure", string(kind)),
		zap.Error(err),
	)
}

// notify logs a low-severity post-render side effect failure.
func (c *Controller) notify(ctx context.Context, msg, path string, err error) {
	c.stageFailures.Add(ctx, 1, metric.WithAttributes(
		attribute.String("stage", string(StateFinalize)),
		attribute.String("kind", string(FailureNotification)),
	))
	fields := []zap.Field{zap.String("artifact", path)}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	c.logger.Warn(ctx, msg, fields...)
}

func (c *Controller) result(runID string, st *runState, start time.Time) *Result {
	return &Result{
		RunID:        runID,
		ExportIntent: st.exportIntent,
		Kind:         st.kind,
		Preferences:  st.preferences,
		ArtifactPath: st.artifactPath,
		Skipped:      st.skipped,
		Failures:     st.failures,
		Duration:     time.Since(start),
	}
}

func (c *Controller) recordRun(ctx context.Context, st *runState, start time.Time, outcome string) {
	c.runCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", string(st.kind)),
		attribute.String("outcome", outcome),
	))
	c.runDuration.Record(ctx, time.Since(start).Seconds(), metric.WithAttributes(
		attribute.String("kind", string(st.kind)),
	))
}
