package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/napolitain/idlelink/internal/config"
	"github.com/napolitain/idlelink/internal/loader"
	"github.com/napolitain/idlelink/internal/world"
)

var (
	contentFile    string
	ticksPerSecond int
	logLevel       string
	envFile        string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "idle",
		Short: "Incremental game engine with linked properties",
		Long: `Runs an idle game defined by a YAML content file. Buildings and resources
affect each other through links declared in the content.`,
	}

	rootCmd.PersistentFlags().StringVarP(&contentFile, "content", "c", "", "Path to content file (default from IDLE_CONTENT or data/base_game.yaml)")
	rootCmd.PersistentFlags().IntVar(&ticksPerSecond, "tps", 0, "Ticks per second (default from IDLE_TICKS_PER_SECOND or 5)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Optional dotenv file read before the environment")

	rootCmd.AddCommand(newPlayCmd(), newRunCmd(), newServeCmd(), newInspectCmd())
	return rootCmd
}

// loadConfig layers defaults, dotenv, environment, then flags
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	if err := config.LoadDotEnv(envFile); err != nil {
		return config.Config{}, err
	}
	cfg, err := config.FromEnv()
	if err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("content") {
		cfg.ContentFile = contentFile
	}
	if flags.Changed("tps") {
		cfg.TicksPerSecond = ticksPerSecond
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if flags.Changed("listen") {
		cfg.ListenAddr = listenAddr
	}
	if flags.Changed("snapshot-every") {
		cfg.SnapshotEvery = snapshotEvery
	}
	return cfg, cfg.Validate()
}

func newLogger(cfg config.Config) *slog.Logger {
	level, _ := cfg.Level()
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// setup loads configuration and content, exiting on any error
func setup(cmd *cobra.Command) (config.Config, *slog.Logger, *world.World) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		color.Red("Invalid configuration: %v", err)
		os.Exit(1)
	}
	logger := newLogger(cfg)

	w := world.New()
	if err := loader.LoadFile(cfg.ContentFile, w, logger); err != nil {
		color.Red("Error loading content: %v", err)
		os.Exit(1)
	}
	return cfg, logger, w
}

func printBanner(title string) {
	titleColor := color.New(color.FgCyan, color.Bold)
	titleColor.Println("\n╭───────────────────────────╮")
	titleColor.Printf("│  %-25s│\n", title)
	titleColor.Println("╰───────────────────────────╯")
	fmt.Println()
}
