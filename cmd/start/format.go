package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/vito/start/pkg/ioctx"
	"github.com/vito/start/pkg/start"
)

type formatFlags struct {
	overwrite bool
	diff      bool
	print     bool
	list      bool
}

func formatCmd(cfg *Config) *cobra.Command {
	var flags formatFlags
	cmd := &cobra.Command{
		Use:     "format [flags] [path ...]",
		Aliases: []string{"fmt"},
		Short:   "Format Start source files",
		Long: `Format Start source files.

Directories are searched recursively for .st files. Without a path the
current directory is formatted. By default formatted source is printed to
stdout.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFormat(cmd.Context(), *cfg, flags, args)
		},
	}
	cmd.Flags().BoolVarP(&flags.overwrite, "overwrite", "w", false, "Write result to the source file instead of stdout")
	cmd.Flags().BoolVar(&flags.diff, "diff", false, "Print a unified diff of the changes; exit 1 if any file would change")
	cmd.Flags().BoolVarP(&flags.print, "print", "p", false, "Print formatted source to stdout")
	cmd.Flags().BoolVarP(&flags.list, "list", "l", false, "List files whose formatting differs")
	cmd.MarkFlagsMutuallyExclusive("overwrite", "diff", "print", "list")
	return cmd
}

func (f formatFlags) mode() start.FormatMode {
	switch {
	case f.overwrite:
		return start.FormatOverwrite
	case f.diff:
		return start.FormatDiff
	case f.list:
		return start.FormatList
	default:
		return start.FormatPrint
	}
}

type formatResult struct {
	path    string
	out     bytes.Buffer
	changed bool
	err     error
}

func runFormat(ctx context.Context, cfg Config, flags formatFlags, args []string) error {
	stdout := ioctx.StdoutFromContext(ctx)
	stderr := ioctx.StderrFromContext(ctx)
	setupLogging(stderr, cfg.Debug)

	if len(args) == 0 {
		args = []string{"."}
	}

	var paths []string
	for _, arg := range args {
		found, err := findSourceFiles(arg)
		if err != nil {
			return err
		}
		paths = append(paths, found...)
	}

	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}
	_, config, err := loadConfig(cfg, wd)
	if err != nil {
		return err
	}
	theme, err := config.LoadTheme(config.UseColor(isTerminal(stderr)))
	if err != nil {
		return fmt.Errorf("theme: %w", err)
	}

	results := make([]*formatResult, len(paths))
	var eg errgroup.Group
	eg.SetLimit(runtime.NumCPU())
	for i, path := range paths {
		res := &formatResult{path: path}
		results[i] = res
		eg.Go(func() error {
			f := &start.Formatter{
				Mode:   flags.mode(),
				Width:  config.FormatWidth(),
				Stdout: &res.out,
			}
			res.changed, res.err = f.FormatPath(ctx, path)
			return nil
		})
	}
	// Failures are kept per file so that every file is still reported.
	_ = eg.Wait()

	registry := start.NewRegistry()
	renderer := &start.Renderer{Registry: registry, Theme: theme}

	var (
		code    int
		changed bool
	)
	for _, res := range results {
		if _, err := io.Copy(stdout, &res.out); err != nil {
			return err
		}
		changed = changed || res.changed
		if res.err == nil {
			continue
		}
		var diags start.Diagnostics
		if !errors.As(res.err, &diags) {
			return fmt.Errorf("format %s: %w", res.path, res.err)
		}
		if content, err := os.ReadFile(res.path); err == nil {
			registry.Register(start.FileSource(res.path), string(content))
		}
		for _, d := range diags {
			_, _ = io.WriteString(stderr, renderer.Render(d))
			switch {
			case code == 0:
				code = int(d.Code)
			case code != int(d.Code):
				code = 1
			}
		}
	}

	slog.DebugContext(ctx, "formatted files", "count", len(paths), "changed", changed, "code", code)
	if code != 0 {
		return exitError{code: code}
	}
	if flags.diff && changed {
		return exitError{code: 1}
	}
	return nil
}

// findSourceFiles returns path itself when it is a file, or every .st file
// below it when it is a directory. Hidden directories are skipped.
func findSourceFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("format: %w", err)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	var files []string
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p != path && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(p) == ".st" {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("format: %w", err)
	}
	return files, nil
}
