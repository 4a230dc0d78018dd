package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/napolitain/idlelink/internal/format"
	"github.com/napolitain/idlelink/internal/solver"
	"github.com/napolitain/idlelink/internal/tick"
	"github.com/napolitain/idlelink/internal/world"
)

var (
	runTicks    int
	runDuration time.Duration
	autoBuy     bool
	showPlan    bool
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the game headless and print the resulting state",
		Long: `Advances the game without a UI. With --ticks the steps are simulated as fast
as possible; otherwise the game runs in real time for --duration or until interrupted.`,
		Run: runHeadless,
	}
	cmd.Flags().IntVarP(&runTicks, "ticks", "t", 0, "Number of ticks to simulate instantly")
	cmd.Flags().DurationVar(&runDuration, "duration", 10*time.Second, "Wall-clock duration when --ticks is not set")
	cmd.Flags().BoolVar(&autoBuy, "autobuy", false, "Buy the best-ROI building whenever it is affordable")
	cmd.Flags().BoolVar(&showPlan, "plan", false, "With --autobuy, print every purchase")
	return cmd
}

func runHeadless(cmd *cobra.Command, args []string) {
	cfg, logger, w := setup(cmd)
	printBanner("Idle Game (headless)")

	d := tick.New(w, cfg.TicksPerSecond, logger)
	greedy := solver.NewGreedy(logger)
	if autoBuy {
		d.OnTick = func(w *world.World, n uint64) {
			if _, err := greedy.Act(w, n); err != nil {
				logger.Error("autobuy failed", "tick", n, "error", err)
			}
		}
	}

	if runTicks > 0 {
		for i := 0; i < runTicks; i++ {
			if err := d.Step(); err != nil {
				color.Red("Tick %d failed: %v", i+1, err)
				os.Exit(1)
			}
			if d.OnTick != nil {
				d.OnTick(w, d.Ticks())
			}
		}
	} else {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		ctx, cancel := context.WithTimeout(ctx, runDuration)
		defer cancel()

		if err := d.Run(ctx); err != nil && !errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, context.Canceled) {
			color.Red("Run failed: %v", err)
			os.Exit(1)
		}
	}

	seconds := float64(d.Ticks()) / float64(d.TicksPerSecond())
	color.New(color.FgYellow).Printf("⏱  %d ticks (%s of game time)", d.Ticks(), format.TimeLeft(seconds))
	if autoBuy {
		color.New(color.FgYellow).Printf(", %d purchases", len(greedy.Purchases))
	}
	fmt.Print("\n\n")

	if autoBuy && showPlan {
		printPurchases(greedy.Purchases, d.TicksPerSecond())
		fmt.Println()
	}

	if err := printResources(w); err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
	fmt.Println()
	if err := printBuildings(w); err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}

func printPurchases(purchases []solver.Purchase, ticksPerSecond int) {
	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"#", "Tick", "Time", "Building", "Owned", "Cost"}),
	)
	for i, p := range purchases {
		row := []string{
			fmt.Sprintf("%d", i+1),
			fmt.Sprintf("%d", p.Tick),
			format.TimeLeft(float64(p.Tick) / float64(ticksPerSecond)),
			p.Building,
			fmt.Sprintf("%d", p.Owned),
			format.Price(p.Cost),
		}
		_ = table.Append(row)
	}
	_ = table.Render()
}

func printResources(w *world.World) error {
	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"Resource", "Rarity", "Category", "Amount", "Max", "Production", "Full In"}),
	)

	for _, r := range w.Resources() {
		limit, err := r.MaxAmount()
		if err != nil {
			return err
		}
		prod, err := r.Production()
		if err != nil {
			return err
		}
		ttf, err := r.TimeToFull()
		if err != nil {
			return err
		}

		category := "-"
		if r.Category != nil {
			category = r.Category.Name
		}
		fullIn := format.TimeLeft(ttf)
		if fullIn == "" {
			fullIn = "never"
		}

		row := []string{
			r.DisplayName,
			r.Rarity.Name,
			category,
			format.Decimal(r.Amount(), 2),
			format.Decimal(limit, 2),
			format.Production(prod),
			fullIn,
		}
		_ = table.Append(row)
	}
	return table.Render()
}

func printBuildings(w *world.World) error {
	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"Location", "Building", "Owned", "Space", "Price Ratio", "Next Price", "Affordable"}),
	)

	for _, b := range w.Buildings() {
		space, err := b.Space()
		if err != nil {
			return err
		}
		ratio, err := b.PriceRatio()
		if err != nil {
			return err
		}
		price, err := b.Price()
		if err != nil {
			return err
		}
		afford, err := b.CanAfford()
		if err != nil {
			return err
		}

		affordable := "no"
		if afford {
			affordable = "yes"
		}
		row := []string{
			b.Location(),
			b.DisplayName,
			fmt.Sprintf("%d", b.Owned()),
			format.Decimal(space, 2),
			format.Decimal(ratio, 2),
			format.Price(price),
			affordable,
		}
		_ = table.Append(row)
	}
	return table.Render()
}
