package main

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/tinytelemetry/abacus/internal/calc"
	"github.com/tinytelemetry/abacus/internal/logging"
	"github.com/tinytelemetry/abacus/internal/model"
	"github.com/tinytelemetry/abacus/internal/tui"
)

// Build variables - set by ldflags during build.
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
	goVersion = "unknown"
)

func versionString() string {
	return fmt.Sprintf("%s (commit %s, built %s, %s)", version, commit, buildTime, goVersion)
}

func newRootCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:          "abacus",
		Short:        "Keyboard and mouse driven calculator for the terminal",
		Version:      versionString(),
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadCLIConfig(configPath, cmd.Flags())
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			return runTUI(cfg)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&configPath, "config", "", "config file (default is $HOME/.config/abacus/config.yml)")
	flags.String("skin", model.DefaultSkin, "colour skin (built in: default, mono)")
	flags.Duration("error-delay", model.DefaultErrorDelay, "how long an error stays on the display")

	return cmd
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func runTUI(cfg cliConfig) error {
	level, _ := logging.ParseLevel(cfg.LogLevel)
	logger, closeLog, err := logging.OpenFile(cfg.LogFile, level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v (logging disabled)\n", err)
		logger = zerolog.Nop()
	} else {
		defer closeLog()
	}

	if err := tui.InitializeSkin(cfg.Skin, defaultConfigDir()); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to load skin '%s': %v (using default)\n", cfg.Skin, err)
		logger.Warn().Err(err).Str("skin", cfg.Skin).Msg("skin fallback")
	}

	eval, err := calc.NewGovaluateEvaluator(cfg.CacheSize)
	if err != nil {
		return err
	}

	zones := zone.New()
	defer zones.Close()

	tape := tui.NewTape(cfg.TapeSize)
	calculator := tui.NewCalculatorPage(tui.CalculatorOptions{
		Evaluator:  eval,
		ErrorDelay: cfg.ErrorDelay,
		Tape:       tape,
		Logger:     logger,
		Zones:      zones,
	})
	app := tui.NewApp(zones, calculator, tui.NewTapePage(tape))

	logger.Info().
		Str("version", version).
		Str("skin", cfg.Skin).
		Dur("error_delay", cfg.ErrorDelay).
		Msg("starting")

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		if strings.Contains(err.Error(), "TTY") || strings.Contains(err.Error(), "/dev/tty") {
			return fmt.Errorf("TUI requires a real terminal")
		}
		return fmt.Errorf("error running TUI: %w", err)
	}

	logger.Info().Int("tape_entries", tape.Len()).Msg("exited")
	return nil
}
