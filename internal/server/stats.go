package server

import (
	"sync"
	"time"

	"github.com/fyrsmithlabs/docforge/internal/workflow"
)

const (
	// recentArtifacts bounds the artifact list in the snapshot.
	recentArtifacts = 10
	// rateWindow is the lookback for the runs-per-minute rate.
	rateWindow = 5 * time.Minute
)

// Stats aggregates pipeline outcomes in memory for the stats endpoint.
// Prometheus carries the long-term series; this snapshot exists so the
// monitor dashboard needs no metrics backend.
type Stats struct {
	mu sync.Mutex

	started time.Time

	totalRuns int64
	succeeded int64
	failed    int64

	runsByKind      map[string]int64
	failuresByStage map[string]int64

	totalDuration time.Duration
	lastDuration  time.Duration

	recent      []ArtifactRecord
	completions []time.Time
}

// ArtifactRecord describes one finished export.
type ArtifactRecord struct {
	Path       string    `json:"path"`
	Kind       string    `json:"kind"`
	FinishedAt time.Time `json:"finished_at"`
	DurationMS float64   `json:"duration_ms"`
}

// StatsSnapshot is the response body for GET /api/v1/stats.
type StatsSnapshot struct {
	UptimeSeconds int64 `json:"uptime_seconds"`

	TotalRuns int64 `json:"total_runs"`
	Succeeded int64 `json:"succeeded"`
	Failed    int64 `json:"failed"`

	RunsByKind      map[string]int64 `json:"runs_by_kind"`
	FailuresByStage map[string]int64 `json:"failures_by_stage"`

	// RatePerMinute averages completions over the rate window.
	RatePerMinute float64 `json:"rate_per_minute"`

	AvgDurationMS  float64 `json:"avg_duration_ms"`
	LastDurationMS float64 `json:"last_duration_ms"`

	RecentArtifacts []ArtifactRecord `json:"recent_artifacts"`
}

// NewStats returns an empty aggregator.
func NewStats() *Stats {
	return &Stats{
		started:         time.Now(),
		runsByKind:      make(map[string]int64),
		failuresByStage: make(map[string]int64),
	}
}

// Record folds one run into the aggregate. result may carry recorded
// degradations even when err is nil; both are counted.
func (s *Stats) Record(result *workflow.Result, err error) {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.totalRuns++
	if err != nil {
		s.failed++
	} else {
		s.succeeded++
	}

	if result == nil {
		return
	}

	s.runsByKind[result.Kind.String()]++
	for _, f := range result.Failures {
		s.failuresByStage[string(f.Stage)]++
	}

	s.totalDuration += result.Duration
	s.lastDuration = result.Duration

	s.completions = append(s.completions, now)
	s.trimCompletions(now)

	if err == nil && result.ArtifactPath != "" {
		s.recent = append([]ArtifactRecord{{
			Path:       result.ArtifactPath,
			Kind:       result.Kind.String(),
			FinishedAt: now,
			DurationMS: float64(result.Duration.Milliseconds()),
		}}, s.recent...)
		if len(s.recent) > recentArtifacts {
			s.recent = s.recent[:recentArtifacts]
		}
	}
}

// Snapshot returns a copy of the current aggregate.
func (s *Stats) Snapshot() StatsSnapshot {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.trimCompletions(now)

	snap := StatsSnapshot{
		UptimeSeconds:   int64(now.Sub(s.started).Seconds()),
		TotalRuns:       s.totalRuns,
		Succeeded:       s.succeeded,
		Failed:          s.failed,
		RunsByKind:      make(map[string]int64, len(s.runsByKind)),
		FailuresByStage: make(map[string]int64, len(s.failuresByStage)),
		LastDurationMS:  float64(s.lastDuration.Milliseconds()),
		RecentArtifacts: append([]ArtifactRecord(nil), s.recent...),
	}
	for k, v := range s.runsByKind {
		snap.RunsByKind[k] = v
	}
	for k, v := range s.failuresByStage {
		snap.FailuresByStage[k] = v
	}

	if s.totalRuns > 0 {
		snap.AvgDurationMS = float64(s.totalDuration.Milliseconds()) / float64(s.totalRuns)
	}
	if n := len(s.completions); n > 0 {
		window := now.Sub(s.completions[0])
		if window < time.Minute {
			window = time.Minute
		}
		snap.RatePerMinute = float64(n) / window.Minutes()
	}
	return snap
}

// trimCompletions drops completion timestamps older than the rate
// window. Callers hold the lock.
func (s *Stats) trimCompletions(now time.Time) {
	cutoff := now.Add(-rateWindow)
	i := 0
	for i < len(s.completions) && s.completions[i].Before(cutoff) {
		i++
	}
	if i > 0 {
		s.completions = s.completions[i:]
	}
}
