package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/docforge/internal/workflow"
)

var (
	exportFile        string
	exportText        string
	exportInstruction string
	exportName        string
	exportPreset      string
	exportClean       bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export text to a Word or PDF document",
	Long: `Export text to a formatted document. The instruction decides the
target format and styling; properties you do not mention fall back to
built-in defaults.

Examples:
  # Export a file
  docforge export --file notes.txt --instruction "Export as Word with Arial 14pt"

  # Export from stdin
  cat notes.txt | docforge export --instruction "Save as PDF"

  # Inline text with a custom artifact name and a style preset
  docforge export --text "Report\n\nBody." --instruction "Save as PDF" \
    --name quarterly --preset report`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportFile, "file", "f", "",
		"read source text from a file (- for stdin)")
	exportCmd.Flags().StringVarP(&exportText, "text", "t", "",
		"source text inline")
	exportCmd.Flags().StringVarP(&exportInstruction, "instruction", "i", "",
		"natural-language export instruction (required)")
	exportCmd.Flags().StringVarP(&exportName, "name", "n", "",
		"artifact filename stem (default from config)")
	exportCmd.Flags().StringVar(&exportPreset, "preset", "",
		"style preset layered beneath the instruction")
	exportCmd.Flags().BoolVar(&exportClean, "clean", false,
		"strip conversational filler from the text before rendering")
	_ = exportCmd.MarkFlagRequired("instruction")
}

func runExport(cmd *cobra.Command, args []string) error {
	text, err := readSource(exportFile, exportText, cmd.InOrStdin())
	if err != nil {
		return err
	}

	ctx, cancel := signalContext(context.Background())
	defer cancel()

	app, err := buildApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	result, err := app.controller.Execute(ctx, workflow.Request{
		SourceText:  text,
		Instruction: exportInstruction,
		CleanSource: exportClean,
		Preset:      exportPreset,
		BaseName:    exportName,
	})
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	for _, f := range result.Failures {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", f)
	}
	fmt.Fprintln(cmd.OutOrStdout(), result.ArtifactPath)
	return nil
}

// readSource resolves the export text: --text wins, then --file
// (with - for stdin), then piped stdin.
func readSource(file, text string, stdin io.Reader) (string, error) {
	if text != "" {
		return text, nil
	}

	if file != "" && file != "-" {
		content, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("read source file: %w", err)
		}
		return string(content), nil
	}

	content, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	if strings.TrimSpace(string(content)) == "" {
		return "", fmt.Errorf("no source text: use --file, --text, or pipe text on stdin")
	}
	return string(content), nil
}
