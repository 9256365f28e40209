// Package monitor renders a live terminal dashboard over a running
// docforge server's stats endpoint.
package monitor

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// StatsClient fetches pipeline stats from a docforge server.
type StatsClient struct {
	baseURL string
	client  *http.Client
}

// StatsSnapshot mirrors the /api/v1/stats response body of
// internal/server.
type StatsSnapshot struct {
	UptimeSeconds int64 `json:"uptime_seconds"`

	TotalRuns int64 `json:"total_runs"`
	Succeeded int64 `json:"succeeded"`
	Failed    int64 `json:"failed"`

	RunsByKind      map[string]int64 `json:"runs_by_kind"`
	FailuresByStage map[string]int64 `json:"failures_by_stage"`

	RatePerMinute float64 `json:"rate_per_minute"`

	AvgDurationMS  float64 `json:"avg_duration_ms"`
	LastDurationMS float64 `json:"last_duration_ms"`

	RecentArtifacts []ArtifactRecord `json:"recent_artifacts"`
}

// ArtifactRecord mirrors one finished export in the stats response.
type ArtifactRecord struct {
	Path       string    `json:"path"`
	Kind       string    `json:"kind"`
	FinishedAt time.Time `json:"finished_at"`
	DurationMS float64   `json:"duration_ms"`
}

// SuccessRatio returns succeeded/total in [0,1], or 1 with no runs.
func (s StatsSnapshot) SuccessRatio() float64 {
	if s.TotalRuns == 0 {
		return 1.0
	}
	return float64(s.Succeeded) / float64(s.TotalRuns)
}

// NewStatsClient creates a client for a server base URL.
func NewStatsClient(baseURL string) *StatsClient {
	return &StatsClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 5 * time.Second},
	}
}

// Fetch retrieves the current stats snapshot.
func (c *StatsClient) Fetch(ctx context.Context) (StatsSnapshot, error) {
	var snap StatsSnapshot

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/v1/stats", nil)
	if err != nil {
		return snap, fmt.Errorf("build stats request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return snap, fmt.Errorf("fetch stats: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return snap, fmt.Errorf("fetch stats: unexpected status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		return snap, fmt.Errorf("decode stats: %w", err)
	}
	return snap, nil
}
