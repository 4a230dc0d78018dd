package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/napolitain/idlelink/internal/format"
	"github.com/napolitain/idlelink/internal/world"
)

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect",
		Short: "Validate content and print its objects and links",
		Run:   runInspect,
	}
}

func runInspect(cmd *cobra.Command, args []string) {
	cfg, _, w := setup(cmd)
	printBanner("Content Inspector")

	successColor := color.New(color.FgGreen, color.Bold)
	infoColor := color.New(color.FgYellow)

	successColor.Printf("✓ %s is valid\n", cfg.ContentFile)
	infoColor.Printf("📦 %d locations, %d buildings, %d resources\n\n",
		len(w.Locations()), len(w.Buildings()), len(w.Resources()))

	printLocations(w)
	fmt.Println()

	for _, printTable := range []func(*world.World) error{printResources, printBuildings, printLinks} {
		if err := printTable(w); err != nil {
			color.Red("Error: %v", err)
			os.Exit(1)
		}
		fmt.Println()
	}
}

func printLocations(w *world.World) {
	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"Location", "Unlocked", "Buildings"}),
	)
	for _, loc := range w.Locations() {
		unlocked := "no"
		if loc.Unlocked {
			unlocked = "yes"
		}
		_ = table.Append([]string{loc.Name, unlocked, fmt.Sprintf("%d", len(loc.Buildings))})
	}
	_ = table.Render()
}

func printLinks(w *world.World) error {
	idx, err := w.Index()
	if err != nil {
		return err
	}

	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"From", "To", "Operation", "Mode", "Value"}),
	)
	for _, l := range idx.All() {
		v, err := l.Value(w)
		if err != nil {
			return err
		}
		op := l.Config().Operation
		row := []string{
			l.From().String(),
			l.To().String(),
			fmt.Sprintf("%s %s", op.Operator, format.Decimal(op.Argument, 3)),
			string(l.Mode()),
			format.Decimal(v, 3),
		}
		_ = table.Append(row)
	}
	return table.Render()
}
