package monitor

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/NimbleMarkets/ntcharts/sparkline"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	sparklineWidth  = 30
	sparklineHeight = 3
	historySize     = 30
)

// Model is the bubbletea dashboard model.
type Model struct {
	apiURL     string
	interval   time.Duration
	lastUpdate time.Time
	stats      StatsSnapshot
	err        error
	quitting   bool

	rateHistory    []float64
	latencyHistory []float64

	successProgress progress.Model
}

// Lipgloss styles (k9s-inspired color scheme).
var (
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("51")).
			Bold(true).
			Padding(0, 1)

	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("51")).
			Bold(true).
			MarginTop(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("45"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("231")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	healthyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("46")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("226")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	containerStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("238")).
			Padding(1, 2)

	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			MarginTop(1)

	sparklineStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("51"))
)

// NewModel creates a dashboard model polling apiURL.
func NewModel(apiURL string, interval time.Duration) Model {
	return Model{
		apiURL:   apiURL,
		interval: interval,
		successProgress: progress.New(
			progress.WithGradient("#ff0000", "#00ff00"),
			progress.WithWidth(40),
		),
		rateHistory:    make([]float64, 0, historySize),
		latencyHistory: make([]float64, 0, historySize),
	}
}

// Message types.
type tickMsg time.Time
type statsMsg StatsSnapshot
type errMsg error

// Init starts the poll loop.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tick(m.interval),
		fetchStats(m.apiURL),
	)
}

func tick(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchStats(apiURL string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		snap, err := NewStatsClient(apiURL).Fetch(ctx)
		if err != nil {
			return errMsg(err)
		}
		return statsMsg(snap)
	}
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "r":
			return m, fetchStats(m.apiURL)
		}

	case tickMsg:
		return m, tea.Batch(
			tick(m.interval),
			fetchStats(m.apiURL),
		)

	case statsMsg:
		m.stats = StatsSnapshot(msg)
		m.rateHistory = appendToHistory(m.rateHistory, m.stats.RatePerMinute)
		m.latencyHistory = appendToHistory(m.latencyHistory, m.stats.LastDurationMS)
		m.lastUpdate = time.Now()
		m.err = nil
		return m, nil

	case errMsg:
		m.err = error(msg)
		return m, nil
	}

	return m, nil
}

// appendToHistory appends a value, keeping the ring bounded.
func appendToHistory(history []float64, value float64) []float64 {
	history = append(history, value)
	if len(history) > historySize {
		history = history[1:]
	}
	return history
}

func createSparkline(data []float64) string {
	if len(data) == 0 {
		return dimStyle.Render(fmt.Sprintf("%*s", sparklineWidth, "no data"))
	}

	spark := sparkline.New(sparklineWidth, sparklineHeight)
	for _, v := range data {
		spark.Push(v)
	}
	return sparklineStyle.Render(spark.View())
}

// statusBadge grades overall health from the success ratio.
func statusBadge(ratio float64, totalRuns int64) string {
	switch {
	case totalRuns == 0:
		return dimStyle.Render("— IDLE")
	case ratio >= 0.95:
		return healthyStyle.Render("✓ HEALTHY")
	case ratio >= 0.75:
		return warningStyle.Render("⚠ WARN")
	default:
		return errorStyle.Render("✗ ERROR")
	}
}

// View renders the dashboard.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.err != nil {
		return m.renderError()
	}
	return m.renderDashboard()
}

func (m Model) renderError() string {
	header := headerStyle.Render(" docforge Monitor ")

	var content string
	content += "\n"
	content += errorStyle.Render("⚠ Cannot reach the docforge server") + "\n"
	content += "\n"
	content += dimStyle.Render("URL: ") + valueStyle.Render(m.apiURL) + "\n"
	content += dimStyle.Render("Error: ") + errorStyle.Render(m.err.Error()) + "\n"
	content += "\n"
	content += dimStyle.Render("Please ensure:") + "\n"
	content += dimStyle.Render("  1. docforge serve is running") + "\n"
	content += dimStyle.Render("  2. the --api flag points at its listen address") + "\n"
	content += "\n"
	content += footerStyle.Render("[q] quit  [r] retry") + "\n"

	return containerStyle.Render(header + "\n" + content)
}

func (m Model) renderDashboard() string {
	var content string

	lastUpdateStr := "Never"
	if !m.lastUpdate.IsZero() {
		lastUpdateStr = m.lastUpdate.Format("3:04:05 PM")
	}

	header := headerStyle.Render(" docforge Monitor ")
	headerLine := fmt.Sprintf("%s   %s %s   %s",
		statusBadge(m.stats.SuccessRatio(), m.stats.TotalRuns),
		dimStyle.Render("Uptime:"),
		valueStyle.Render(FormatUptime(m.stats.UptimeSeconds)),
		dimStyle.Render(lastUpdateStr))

	content += header + "\n"
	content += headerLine + "\n"

	// Exports section.
	content += "\n" + sectionStyle.Render("┃ Exports") + "\n"
	content += labelStyle.Render("  Rate: ") +
		valueStyle.Render(FormatRate(m.stats.RatePerMinute)) +
		"   " + createSparkline(m.rateHistory) + "\n"
	content += labelStyle.Render("  Latency: ") +
		valueStyle.Render(FormatLatency(m.stats.LastDurationMS)) +
		dimStyle.Render(fmt.Sprintf("  (avg %s)", FormatLatency(m.stats.AvgDurationMS))) +
		"   " + createSparkline(m.latencyHistory) + "\n"

	ratio := m.stats.SuccessRatio()
	content += labelStyle.Render("  Success: ") +
		m.successProgress.ViewAs(ratio) +
		" " + dimStyle.Render(FormatPercentage(ratio)) + "\n"

	content += labelStyle.Render("  Runs: ") +
		valueStyle.Render(fmt.Sprintf("%d", m.stats.TotalRuns)) +
		dimStyle.Render(fmt.Sprintf("  (word %d, pdf %d, failed %d)",
			m.stats.RunsByKind["word"], m.stats.RunsByKind["pdf"], m.stats.Failed)) + "\n"

	// Failures section.
	content += "\n" + sectionStyle.Render("┃ Failures by stage") + "\n"
	content += m.renderFailures()

	// Recent artifacts.
	content += "\n" + sectionStyle.Render("┃ Recent artifacts") + "\n"
	if len(m.stats.RecentArtifacts) == 0 {
		content += dimStyle.Render("  none yet") + "\n"
	}
	now := time.Now()
	for _, rec := range m.stats.RecentArtifacts {
		content += labelStyle.Render("  ") + valueStyle.Render(FormatArtifact(rec, now)) + "\n"
	}

	content += footerStyle.Render("[q] quit  [r] refresh") + "\n"

	return containerStyle.Render(content)
}

func (m Model) renderFailures() string {
	if len(m.stats.FailuresByStage) == 0 {
		return dimStyle.Render("  none") + "\n"
	}

	stages := make([]string, 0, len(m.stats.FailuresByStage))
	for stage := range m.stats.FailuresByStage {
		stages = append(stages, stage)
	}
	sort.Strings(stages)

	var out string
	for _, stage := range stages {
		out += labelStyle.Render(fmt.Sprintf("  %-16s", stage)) +
			valueStyle.Render(fmt.Sprintf("%d", m.stats.FailuresByStage[stage])) + "\n"
	}
	return out
}
