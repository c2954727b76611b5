package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/vito/start/pkg/ioctx"
	"github.com/vito/start/pkg/start"
)

var (
	version = "v0.1.0"
	commit  = "dev"
)

// Config holds the flags shared by every subcommand.
type Config struct {
	Debug      bool
	ConfigFile string
	NoStdlib   bool
	Theme      string
	Width      int
	Color      string
	LSPLogFile string
}

// exitError carries a process status out of a command without printing
// anything; diagnostics have already been rendered.
type exitError struct {
	code int
}

func (e exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

func main() {
	ctx := context.Background()
	ctx = ioctx.WithStreams(ctx, ioctx.Streams{
		In:  os.Stdin,
		Out: os.Stdout,
		Err: os.Stderr,
	})

	err := fang.Execute(ctx, newRootCmd(),
		fang.WithVersion(version),
		fang.WithCommit(commit),
		fang.WithErrorHandler(func(w io.Writer, styles fang.Styles, err error) {
			var exit exitError
			if errors.As(err, &exit) {
				return
			}
			_, _ = fmt.Fprintln(w, err.Error())
		}),
	)
	if err != nil {
		var exit exitError
		if errors.As(err, &exit) {
			os.Exit(exit.code)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfg Config

	rootCmd := &cobra.Command{
		Use:   "start [flags] [file]",
		Short: "Start language interpreter",
		Long: `Start is a small typed language of definitions, type aliases and
queries over natural numbers, booleans and characters.

Without arguments it starts an interactive REPL.`,
		Example: `  # Run a file
  start run main.st

  # Start the REPL
  start

  # Format files in place
  start format --overwrite ./examples`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				return runFile(cmd.Context(), cfg, args[0])
			}
			return runREPL(cmd.Context(), cfg)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&cfg.Debug, "debug", "d", false, "Enable debug logging")
	flags.StringVar(&cfg.ConfigFile, "config", "", "Path to start.toml (searched from the working directory by default)")
	flags.BoolVar(&cfg.NoStdlib, "no-stdlib", false, "Do not run the prelude")
	flags.StringVar(&cfg.Theme, "theme", "", "Path to a YAML theme file")
	flags.IntVar(&cfg.Width, "width", 0, "Pretty-printer width")
	flags.StringVar(&cfg.Color, "color", "", "Color output: auto, always or never")

	rootCmd.AddCommand(
		runCmd(&cfg),
		formatCmd(&cfg),
		replCmd(&cfg),
		lspCmd(&cfg),
	)
	return rootCmd
}

func runCmd(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "run <file>",
		Short: "Run a Start file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFile(cmd.Context(), *cfg, args[0])
		},
	}
}

func replCmd(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runREPL(cmd.Context(), *cfg)
		},
	}
}

func lspCmd(cfg *Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Run the language server on stdin/stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLSP(cmd.Context(), *cfg)
		},
	}
	cmd.Flags().StringVar(&cfg.LSPLogFile, "lsp-log-file", "", "Path to LSP log file (stderr if not specified)")
	return cmd
}

// loadConfig resolves the project configuration for a command working in
// dir: the --config file or the nearest start.toml, then the environment,
// then the flags.
func loadConfig(cfg Config, dir string) (string, *start.ProjectConfig, error) {
	var (
		path   string
		config *start.ProjectConfig
		err    error
	)
	if cfg.ConfigFile != "" {
		path = cfg.ConfigFile
		config, err = start.LoadProjectConfig(path)
	} else {
		path, config, err = start.FindProjectConfig(dir)
	}
	if err != nil {
		return "", nil, fmt.Errorf("load config: %w", err)
	}
	if config == nil {
		config = start.DefaultProjectConfig()
	}
	if err := config.ApplyEnv(); err != nil {
		return "", nil, fmt.Errorf("load config: %w", err)
	}

	if cfg.Width > 0 {
		config.Width = cfg.Width
	}
	if cfg.Color != "" {
		config.Color = start.ColorMode(cfg.Color)
	}
	if cfg.Theme != "" {
		abs, err := filepath.Abs(cfg.Theme)
		if err != nil {
			return "", nil, fmt.Errorf("theme: %w", err)
		}
		config.Theme = abs
	}
	if cfg.NoStdlib {
		noStdlib := false
		config.Stdlib = &noStdlib
	}
	return path, config, nil
}

// newDriver builds a driver printing to stdout and rendering diagnostics to
// stderr, each colored only if it is a terminal.
func newDriver(ctx context.Context, config *start.ProjectConfig) (*start.Driver, error) {
	stdout := ioctx.StdoutFromContext(ctx)
	stderr := ioctx.StderrFromContext(ctx)

	outTheme, err := config.LoadTheme(config.UseColor(isTerminal(stdout)))
	if err != nil {
		return nil, fmt.Errorf("theme: %w", err)
	}
	errTheme, err := config.LoadTheme(config.UseColor(isTerminal(stderr)))
	if err != nil {
		return nil, fmt.Errorf("theme: %w", err)
	}

	registry := start.NewRegistry()
	d := start.NewDriver(registry, outTheme,
		&start.WriterPrinter{W: stdout, Theme: outTheme},
		&start.WriterSink{W: stderr, Renderer: &start.Renderer{Registry: registry, Theme: errTheme}},
	)
	if config.UseStdlib() {
		d.LoadStdlib(ctx)
	}
	d.Options = config.DebugOptions()
	return d, nil
}
