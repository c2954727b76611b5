package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/google/uuid"

	"github.com/vito/start/pkg/ioctx"
	"github.com/vito/start/pkg/start"
)

var (
	promptStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("63")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	welcomeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("63"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

const (
	mainPrompt         = "start> "
	continuationPrompt = "  ...> "
)

type repl struct {
	config  *start.ProjectConfig
	session string
	source  start.SourceID
	driver  *start.Driver
	history *replHistory

	in     io.Reader
	out    io.Writer
	errOut io.Writer
	color  bool
	quit   bool
}

func runREPL(ctx context.Context, cfg Config) error {
	stdout := ioctx.StdoutFromContext(ctx)
	stderr := ioctx.StderrFromContext(ctx)
	setupLogging(stderr, cfg.Debug)

	session := uuid.NewString()
	slog.SetDefault(slog.Default().With("session", session))

	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}
	configPath, config, err := loadConfig(cfg, wd)
	if err != nil {
		return err
	}
	if config.Width == 0 {
		if width, ok := terminalWidth(stdout); ok {
			config.Width = width
		}
	}
	slog.DebugContext(ctx, "starting repl", "config", configPath, "width", config.PrinterWidth())

	r := &repl{
		config:  config,
		session: session,
		source:  start.REPLSource(session[:8]),
		history: newReplHistory(),
		in:      ioctx.StdinFromContext(ctx),
		out:     stdout,
		errOut:  stderr,
		color:   config.UseColor(isTerminal(stdout)),
	}
	if err := r.reset(ctx); err != nil {
		return err
	}
	r.history.Load()

	fmt.Fprintln(r.out, r.paint(welcomeStyle, "Start "+version))
	fmt.Fprintln(r.out, r.paint(dimStyle, "Type :help for commands, :quit to exit."))
	return r.loop(ctx)
}

// reset starts over with a fresh driver, dropping every definition.
func (r *repl) reset(ctx context.Context) error {
	d, err := newDriver(ctx, r.config)
	if err != nil {
		return err
	}
	d.ContinueOnError = false
	d.Summary = true
	r.driver = d
	return nil
}

func (r *repl) paint(style lipgloss.Style, s string) string {
	if !r.color {
		return s
	}
	return style.Render(s)
}

func (r *repl) prompt(continued bool) {
	p := mainPrompt
	if continued {
		p = continuationPrompt
	}
	fmt.Fprint(r.out, r.paint(promptStyle, p))
}

// loop reads lines until the input ends or :quit. Lines are gathered until
// they form complete commands.
func (r *repl) loop(ctx context.Context) error {
	scanner := bufio.NewScanner(r.in)
	var pending strings.Builder

	r.prompt(false)
	for scanner.Scan() {
		line := scanner.Text()

		if pending.Len() == 0 && strings.HasPrefix(strings.TrimSpace(line), ":") {
			r.command(ctx, strings.TrimSpace(line))
			if r.quit {
				return nil
			}
			r.prompt(false)
			continue
		}

		pending.WriteString(line)
		pending.WriteByte('\n')
		if start.NeedsMoreInput(pending.String()) {
			r.prompt(true)
			continue
		}

		r.eval(ctx, pending.String())
		pending.Reset()
		r.prompt(false)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	r.eval(ctx, pending.String())
	fmt.Fprintln(r.out)
	return nil
}

func (r *repl) eval(ctx context.Context, input string) {
	if strings.TrimSpace(input) == "" {
		return
	}
	r.history.Add(strings.TrimRight(input, "\n"))

	r.driver.ResetErrors()
	r.driver.RunInput(ctx, r.source, input)
	if code := r.driver.ExitCode(); code != 0 {
		slog.DebugContext(ctx, "input failed", "code", code)
	}

	if r.driver.Stopped() {
		fmt.Fprintln(r.errOut, r.paint(errorStyle, "The session hit an internal error and was reset."))
		if err := r.reset(ctx); err != nil {
			fmt.Fprintln(r.errOut, r.paint(errorStyle, err.Error()))
			r.quit = true
		}
	}
}

func (r *repl) command(ctx context.Context, line string) {
	fields := strings.Fields(strings.TrimPrefix(line, ":"))
	if len(fields) == 0 {
		r.help()
		return
	}
	name, args := fields[0], fields[1:]

	switch name {
	case "help", "h":
		r.help()
	case "quit", "q", "exit":
		r.quit = true
	case "reset":
		if err := r.reset(ctx); err != nil {
			fmt.Fprintln(r.errOut, r.paint(errorStyle, err.Error()))
			return
		}
		fmt.Fprintln(r.out, r.paint(dimStyle, "Environment reset."))
	case "debug":
		r.debug(args)
	case "history":
		r.showHistory(args)
	default:
		fmt.Fprintln(r.errOut, r.paint(errorStyle, fmt.Sprintf("Unknown command :%s. Type :help for commands.", name)))
	}
}

func (r *repl) help() {
	fmt.Fprintln(r.out, r.paint(welcomeStyle, "Commands:"))
	for _, c := range [][2]string{
		{":help", "show this help"},
		{":quit", "leave the REPL"},
		{":reset", "forget every definition"},
		{":debug [option]", "show debug switches, or toggle one"},
		{":history [n]", "show the last n inputs (default 20)"},
	} {
		fmt.Fprintf(r.out, "  %-16s %s\n", c[0], r.paint(dimStyle, c[1]))
	}
	fmt.Fprintln(r.out, r.paint(dimStyle, "Anything else is read as Start commands, e.g. `Eval 42.`"))
}

func (r *repl) debug(args []string) {
	if len(args) == 0 {
		for opt := start.OptionDebugLexer; opt <= start.OptionDebugSexp; opt++ {
			state := "off"
			if r.driver.Options.Get(opt) {
				state = "on"
			}
			fmt.Fprintf(r.out, "  %-12s %s\n", opt, state)
		}
		return
	}
	for _, arg := range args {
		opt, ok := start.ParseOption(arg)
		if !ok {
			r.driver.Sink.Report(start.ErrUnknownOption(arg, start.Location{}))
			continue
		}
		value := !r.driver.Options.Get(opt)
		r.driver.Options.Set(opt, value)
		fmt.Fprintf(r.out, "%s %s\n", opt, map[bool]string{true: "on", false: "off"}[value])
	}
}

func (r *repl) showHistory(args []string) {
	n := 20
	if len(args) > 0 {
		parsed, err := strconv.Atoi(args[0])
		if err != nil || parsed <= 0 {
			fmt.Fprintln(r.errOut, r.paint(errorStyle, "usage: :history [n]"))
			return
		}
		n = parsed
	}
	entries := r.history.Last(n)
	first := len(r.history.entries) - len(entries) + 1
	for i, entry := range entries {
		fmt.Fprintf(r.out, "%s %s\n", r.paint(dimStyle, fmt.Sprintf("%4d", first+i)), entry)
	}
}
