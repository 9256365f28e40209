package workflow

import "fmt"

// Severity grades how a failure affects the run.
type Severity string

const (
	// SeverityCritical aborts the run.
	SeverityCritical Severity = "critical"
	// SeverityHigh degrades a stage to its documented fallback; the run
	// continues and the failure is recorded on the result.
	SeverityHigh Severity = "high"
	// SeverityLow is logged and otherwise ignored.
	SeverityLow Severity = "low"
)

// FailureKind names the stage contract that was broken.
type FailureKind string

const (
	// FailureClassification degrades to exportIntent=false, kind=word.
	FailureClassification FailureKind = "classification"
	// FailureCleaning passes the original source text through unchanged.
	FailureCleaning FailureKind = "cleaning"
	// FailureExtraction degrades to empty preferences.
	FailureExtraction FailureKind = "extraction"
	// FailureProperty is a single formatting property that could not be
	// applied; the rest of the render completes.
	FailureProperty FailureKind = "property_application"
	// FailureRender means no artifact could be produced.
	FailureRender FailureKind = "render"
	// FailureNotification covers post-render side effects: artifact
	// verification and auto-open.
	FailureNotification FailureKind = "notification"
)

// Severity returns the grade for this failure kind. Only render
// failures abort; classification, cleaning and extraction degrade;
// everything else is log-only.
func (k FailureKind) Severity() Severity {
	switch k {
	case FailureRender:
		return SeverityCritical
	case FailureClassification, FailureCleaning, FailureExtraction:
		return SeverityHigh
	default:
		return SeverityLow
	}
}

// Failure is a typed stage failure.
type Failure struct {
	Kind  FailureKind
	Stage State
	Err   error
}

func (f *Failure) Error() string {
	return fmt.Sprintf("%s failed in %s stage: %v", f.Kind, f.Stage, f.Err)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// Severity returns the grade of the wrapped failure kind.
func (f *Failure) Severity() Severity {
	return f.Kind.Severity()
}

func newFailure(kind FailureKind, stage State, err error) *Failure {
	return &Failure{Kind: kind, Stage: stage, Err: err}
}
