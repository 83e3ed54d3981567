// Command lox is the Lox interpreter's command-line driver: it wires the
// scanner, parser, resolver, and interpreter into a runnable binary with a
// file mode, an interactive REPL, a --watch re-run mode, and optional
// project configuration, the way the teacher codebase's cli/main.go wires
// its own lexer/parser/planner/executor pipeline around a Cobra root
// command.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aledsdavies/lox/internal/config"
	"github.com/aledsdavies/lox/internal/diagnostics"
	"github.com/aledsdavies/lox/internal/watch"
)

const defaultConfigName = ".loxrc.json"

// Exit codes, per the language specification's external-interface contract.
const (
	exitOK      = 0
	exitUsage   = 64
	exitRuntime = 70
	exitIOError = 74
)

func main() {
	var (
		debug      bool
		noColor    bool
		watchFlag  bool
		configPath string
	)

	exitCode := exitOK

	rootCmd := &cobra.Command{
		Use:           "lox [script]",
		Short:         "A tree-walking interpreter for the Lox language",
		Args:          cobra.ArbitraryArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 1 {
				fmt.Fprintln(os.Stderr, "Usage: lox [script]")
				exitCode = exitUsage
				return nil
			}

			useColor := diagnostics.ShouldUseColor(noColor)
			logger := newLogger(debug)

			cfg, err := loadConfig(configPath)
			if err != nil {
				diagnostics.Format(os.Stderr, err, useColor)
				exitCode = exitUsage
				return nil
			}

			if len(args) == 0 {
				if watchFlag {
					fmt.Fprintln(os.Stderr, "Error: --watch requires a script argument.")
					exitCode = exitUsage
					return nil
				}
				exitCode = runPrompt(cfg, logger, useColor)
				return nil
			}

			path := args[0]
			if watchFlag {
				exitCode = runWatch(path, cfg, logger, useColor)
				return nil
			}
			exitCode = runFile(path, cfg, logger, useColor)
			return nil
		},
	}

	rootCmd.Flags().BoolVar(&debug, "debug", false, "enable slog debug tracing through the scanner/parser/interpreter")
	rootCmd.Flags().BoolVar(&noColor, "no-color", false, "disable ANSI color in diagnostic output")
	rootCmd.Flags().BoolVar(&watchFlag, "watch", false, "re-run the script whenever its file changes on disk (file mode only)")
	rootCmd.Flags().StringVar(&configPath, "config", "", "path to a JSON configuration file (default: ./.loxrc.json if present)")

	rootCmd.AddCommand(newVersionCommand())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitUsage)
	}

	os.Exit(exitCode)
}

// newLogger builds the shared slog.Logger threaded through the scanner,
// parser, and interpreter, raised to Debug level when --debug is set.
func newLogger(debug bool) *slog.Logger {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	}))
}

// loadConfig resolves the effective path argument order used by --config:
// an explicit path is required to exist; an implicit default is silently
// skipped if absent.
func loadConfig(explicitPath string) (config.Config, error) {
	path := explicitPath
	explicit := path != ""
	if !explicit {
		path = defaultConfigName
	}

	if _, err := os.Stat(path); err != nil {
		if explicit {
			return config.Config{}, fmt.Errorf("reading config %s: %w", path, err)
		}
		return config.Default(), nil
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return config.Load(abs)
}

// newCancellableContext returns a context canceled on SIGINT/SIGTERM, used
// by --watch to stop cleanly on Ctrl+C.
func newCancellableContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()
	return ctx, cancel
}

func runWatch(path string, cfg config.Config, logger *slog.Logger, useColor bool) int {
	ctx, cancel := newCancellableContext()
	defer cancel()

	runOnce := func() {
		fmt.Fprintf(os.Stderr, "--- running %s ---\n", path)
		runFile(path, cfg, logger, useColor)
	}
	runOnce()

	if err := watch.Run(ctx, path, runOnce, logger); err != nil {
		diagnostics.Format(os.Stderr, err, useColor)
		return exitIOError
	}
	return exitOK
}
