package main

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/docforge/internal/monitor"
)

var (
	monitorAPI      string
	monitorInterval time.Duration
)

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Live dashboard for a running docforge server",
	Long: `Show a terminal dashboard with export rate, latency, success
ratio, failures by stage and recent artifacts, polled from a running
docforge serve instance.

Examples:
  docforge monitor
  docforge monitor --api http://localhost:8080 --interval 2s`,
	RunE: runMonitor,
}

func init() {
	monitorCmd.Flags().StringVar(&monitorAPI, "api", "http://127.0.0.1:8080",
		"docforge server base URL")
	monitorCmd.Flags().DurationVar(&monitorInterval, "interval", 2*time.Second,
		"refresh interval")
}

func runMonitor(cmd *cobra.Command, args []string) error {
	model := monitor.NewModel(monitorAPI, monitorInterval)
	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("dashboard failed: %w", err)
	}
	return nil
}
