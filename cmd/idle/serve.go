package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/napolitain/idlelink/internal/server"
	"github.com/napolitain/idlelink/internal/tick"
	"github.com/napolitain/idlelink/internal/world"
)

var (
	listenAddr    string
	snapshotEvery int
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the game and stream snapshots over websocket",
		Long: `Runs the game in real time. Clients connect to /ws, receive a snapshot every
few ticks, and may send {"type":"purchase","payload":{"building":"Burrow"}}.`,
		Run: runServe,
	}
	cmd.Flags().StringVarP(&listenAddr, "listen", "l", ":8080", "Address to listen on")
	cmd.Flags().IntVar(&snapshotEvery, "snapshot-every", 5, "Ticks between two snapshots")
	return cmd
}

func runServe(cmd *cobra.Command, args []string) {
	cfg, logger, w := setup(cmd)
	printBanner("Idle Game Server")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	d := tick.New(w, cfg.TicksPerSecond, logger)
	hub := server.NewHub(d, logger)
	go hub.Run(ctx)

	// The driver is not running yet, so this goroutine still owns the world
	if err := hub.PublishWorld(w, 0); err != nil {
		color.Red("Error building snapshot: %v", err)
		os.Exit(1)
	}
	d.OnTick = func(w *world.World, n uint64) {
		if n%uint64(cfg.SnapshotEvery) != 0 {
			return
		}
		if err := hub.PublishWorld(w, n); err != nil {
			logger.Error("failed to publish snapshot", "tick", n, "error", err)
		}
	}

	driverErr := make(chan error, 1)
	go func() { driverErr <- d.Run(ctx) }()

	color.New(color.FgGreen, color.Bold).Printf("🌐 Serving on %s (ws endpoint /ws)\n", cfg.ListenAddr)
	if err := server.ListenAndServe(ctx, cfg.ListenAddr, hub); err != nil {
		stop()
		color.Red("Server error: %v", err)
		os.Exit(1)
	}

	if err := <-driverErr; err != nil && !errors.Is(err, context.Canceled) {
		color.Red("Tick driver error: %v", err)
		os.Exit(1)
	}
	color.Yellow("Stopped after %d ticks", d.Ticks())
}
