// Docforge turns free-form text plus a natural-language instruction
// into a formatted Word or PDF document.
//
// Usage:
//
//	# One-shot export
//	docforge export --file notes.txt --instruction "Save as PDF"
//
//	# HTTP trigger API
//	docforge serve
//
//	# Drop-folder trigger
//	docforge watch --inbox ~/docforge-inbox
//
//	# Live dashboard against a running server
//	docforge monitor
//
// Configuration is loaded from ~/.config/docforge/config.yaml and
// DOCFORGE_* environment variables. See internal/config for details.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information (set via ldflags during build).
var (
	version   = "dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

// configPath is the --config persistent flag.
var configPath string

var rootCmd = &cobra.Command{
	Use:   "docforge",
	Short: "LLM-orchestrated document exports",
	Long: `docforge exports text to Word or PDF documents, with the target
format and styling decided by a language model from a natural-language
instruction like "Export as Word with Arial 14pt and a centered title".`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"config file path (default ~/.config/docforge/config.yaml)")
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(monitorCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("docforge by Fyrsmith Labs\n")
		fmt.Printf("Version:    %s\n", version)
		fmt.Printf("Commit:     %s\n", gitCommit)
		fmt.Printf("Build Date: %s\n", buildDate)
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
