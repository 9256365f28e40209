package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/docforge/internal/config"
	"github.com/fyrsmithlabs/docforge/internal/watcher"
)

var watchInbox string

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Export files dropped into an inbox directory",
	Long: `Watch a directory and export every text file dropped into it. A
sidecar file named after the input supplies the instruction:

  inbox/notes.txt          source text
  inbox/notes.instruction  "Save as PDF with 1 inch margins"

Without a sidecar, the configured default instruction applies.
Processed inputs move to inbox/processed/.`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&watchInbox, "inbox", "",
		"inbox directory (default from config)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext(context.Background())
	defer cancel()

	app, err := buildApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	inbox := app.cfg.Watcher.InboxDir
	if watchInbox != "" {
		inbox = watchInbox
	}
	if inbox == "" {
		return fmt.Errorf("no inbox directory: set --inbox or watcher.inbox_dir")
	}
	inbox, err = config.ExpandPath(inbox)
	if err != nil {
		return fmt.Errorf("resolve inbox directory: %w", err)
	}

	w, err := watcher.New(watcher.Config{
		InboxDir:           inbox,
		DefaultInstruction: app.cfg.Watcher.DefaultInstruction,
		MaxConcurrent:      app.cfg.Watcher.MaxConcurrent,
		SettleDelay:        app.cfg.Watcher.SettleDelay.Duration(),
	}, app.controller, app.logger)
	if err != nil {
		return err
	}

	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
