// Package main provides the entry point for the retrodesk TUI.
//
// retrodesk renders a retro desktop in the terminal: section windows cascade
// open, type their copy and hand the typing baton along a guided tour, and
// can be minimized, maximized, restored or closed from the icons and taskbar.
//
// Usage:
//
//	retrodesk [options] [command]
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/riordanpawley/retrodesk/internal/app"
	"github.com/riordanpawley/retrodesk/internal/cli"
	"github.com/riordanpawley/retrodesk/internal/config"
	"golang.org/x/term"
)

var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

func main() {
	var configPath string
	var headless, debug, showVersion bool
	var duration time.Duration

	flag.StringVar(&configPath, "config", "", "config file (default is .retrodesk.yaml in the working dir)")
	flag.BoolVar(&headless, "headless", false, "replay the choreography without a terminal UI")
	flag.DurationVar(&duration, "duration", 0, "virtual time to replay in headless mode (0 runs until the tour ends)")
	flag.BoolVar(&debug, "debug", false, "log at debug level")
	flag.BoolVar(&showVersion, "version", false, "print version information")
	flag.Usage = func() { cli.PrintUsage(os.Stderr) }
	flag.Parse()

	if showVersion {
		fmt.Printf("retrodesk\n")
		fmt.Printf("  Version: %s\n", version)
		fmt.Printf("  Commit:  %s\n", commit)
		fmt.Printf("  Built:   %s\n", buildTime)
		return
	}

	command := flag.Arg(0)
	switch command {
	case "help":
		cli.PrintUsage(os.Stdout)
		return
	case "init-config":
		path := flag.Arg(1)
		if path == "" {
			path = config.FileName + ".yaml"
		}
		if err := cli.InitConfigCommand(os.Stdout, path); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	case "", "headless", "sections":
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		cli.PrintUsage(os.Stderr)
		os.Exit(2)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	tty := term.IsTerminal(int(os.Stdout.Fd()))
	if command == "" && !headless && !tty {
		fmt.Fprintln(os.Stderr, "stdout is not a terminal, running headless")
		headless = true
	}
	if command == "headless" {
		headless = true
	}

	interactive := command == "" && !headless
	logger, closeLog := configureRuntimeLogger(cfg, debug, interactive)
	defer closeLog()
	slog.SetDefault(logger)

	if err := run(cfg, logger, command, headless, duration, tty); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		closeLog()
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger, command string, headless bool, duration time.Duration, tty bool) error {
	if tty {
		if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 && h > 1 {
			cfg.Desktop.Width = w
			cfg.Desktop.Height = h - 1
		}
	}

	deps, err := cli.NewDependencies(cfg, logger, os.Stdout)
	if err != nil {
		return err
	}

	switch {
	case command == "sections":
		return cli.SectionsCommand(deps)
	case headless:
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		return cli.HeadlessCommand(ctx, deps, duration)
	default:
		return runTUI(deps)
	}
}

func runTUI(deps *cli.Dependencies) error {
	model := app.New(deps.Runtime, deps.Logger)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		if strings.Contains(err.Error(), "TTY") || strings.Contains(err.Error(), "/dev/tty") {
			return fmt.Errorf("TUI requires a real terminal (try --headless)")
		}
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}

// configureRuntimeLogger sends logs to the configured file while the TUI
// owns the terminal, and to stderr otherwise
func configureRuntimeLogger(cfg *config.Config, debug, toFile bool) (*slog.Logger, func()) {
	level := parseLevel(cfg.Log.Level)
	if debug {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	if !toFile {
		return slog.New(slog.NewTextHandler(os.Stderr, opts)), func() {}
	}

	discard := func() (*slog.Logger, func()) {
		return slog.New(slog.NewTextHandler(io.Discard, opts)), func() {}
	}
	if cfg.Log.Path == "" {
		return discard()
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Log.Path), 0755); err != nil {
		return discard()
	}
	f, err := os.OpenFile(cfg.Log.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return discard()
	}

	return slog.New(slog.NewTextHandler(f, opts)), func() {
		_ = f.Close()
	}
}

func parseLevel(raw string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(raw)); err != nil {
		return slog.LevelInfo
	}
	return level
}
