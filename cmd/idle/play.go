package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/napolitain/idlelink/internal/tick"
	"github.com/napolitain/idlelink/internal/tui"
)

func newPlayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "play",
		Short: "Play interactively in the terminal",
		Run:   runPlay,
	}
}

func runPlay(cmd *cobra.Command, args []string) {
	cfg, _, w := setup(cmd)

	// The alt screen owns the terminal, so the driver stays quiet
	d := tick.New(w, cfg.TicksPerSecond, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err := tui.Run(w, d); err != nil {
		color.Red("Error running TUI: %v", err)
		os.Exit(1)
	}
}
