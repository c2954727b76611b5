package start

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	kr "github.com/kr/pretty"
	"github.com/pkg/errors"

	"github.com/vito/start/pkg/pretty"
)

// Printer receives everything a driver prints: evaluated values, types,
// help blocks, definition summaries and debug traces. loc is the span of the
// command that produced the output.
type Printer interface {
	Print(loc Location, doc pretty.Doc)
}

// PrinterFunc adapts a function to a Printer.
type PrinterFunc func(Location, pretty.Doc)

func (f PrinterFunc) Print(loc Location, doc pretty.Doc) { f(loc, doc) }

// WriterPrinter renders output with a theme, one block per line.
type WriterPrinter struct {
	W     io.Writer
	Theme *Theme
}

func (p *WriterPrinter) Print(_ Location, doc pretty.Doc) {
	_, _ = io.WriteString(p.W, p.Theme.Render(doc)+"\n")
}

// Driver runs commands one at a time: lex, parse, type, then evaluate.
type Driver struct {
	Registry *Registry
	Theme    *Theme
	Typer    *Typer
	VM       *VM

	Options Options
	// ContinueOnError resumes after the failing command instead of stopping.
	// It is set when running files and unset in the REPL.
	ContinueOnError bool
	// Summary prints `name : Type` after each definition.
	Summary bool
	// KeepGoing carries on past internal errors instead of stopping.
	KeepGoing bool

	Printer Printer
	Sink    DiagnosticSink

	// ErrorCode is the code of the first diagnostic reported, or 0.
	ErrorCode Code
	mixed     bool
	stopped   bool
}

func NewDriver(registry *Registry, theme *Theme, printer Printer, sink DiagnosticSink) *Driver {
	return &Driver{
		Registry:        registry,
		Theme:           theme,
		Typer:           NewTyper(),
		VM:              NewVM(),
		ContinueOnError: true,
		Printer:         printer,
		Sink:            sink,
	}
}

// ExitCode is the process status for the diagnostics reported so far: 0
// without errors, the error code when every error had the same code, and 1
// otherwise.
func (d *Driver) ExitCode() int {
	if d.mixed {
		return 1
	}
	return int(d.ErrorCode)
}

// Stopped reports whether an internal error ended the run.
func (d *Driver) Stopped() bool {
	return d.stopped
}

// ResetErrors clears the error state, as the REPL does before each input.
func (d *Driver) ResetErrors() {
	d.ErrorCode = 0
	d.mixed = false
}

func (d *Driver) report(ctx context.Context, diag Diagnostic) {
	if diag.Severity == SeverityError {
		switch {
		case d.ErrorCode == 0:
			d.ErrorCode = diag.Code
		case d.ErrorCode != diag.Code:
			d.mixed = true
		}
	}
	slog.DebugContext(ctx, "diagnostic", "code", int(diag.Code), "loc", diag.Loc.String(), "error", diag.Error())
	if d.Sink != nil {
		d.Sink.Report(diag)
	}
}

func (d *Driver) reportAll(ctx context.Context, diags []Diagnostic) {
	for _, diag := range diags {
		d.report(ctx, diag)
	}
}

func (d *Driver) print(loc Location, doc pretty.Doc) {
	if d.Printer != nil {
		d.Printer.Print(loc, doc)
	}
}

// RunFile reads and runs the file at path.
func (d *Driver) RunFile(ctx context.Context, path string) {
	content, err := os.ReadFile(path)
	if err != nil {
		d.report(ctx, ErrFileRead(path, errors.Wrap(err, "run")))
		return
	}
	d.RunSource(ctx, FileSource(path), string(content))
}

// RunSource registers text under id and runs it from the start.
func (d *Driver) RunSource(ctx context.Context, id SourceID, text string) {
	d.Registry.Register(id, text)
	d.Run(ctx, id, 0)
}

// RunInput appends input to the source id and runs the new commands. It is
// how the REPL feeds each block of lines.
func (d *Driver) RunInput(ctx context.Context, id SourceID, input string) {
	offset := d.Registry.Append(id, input)
	d.Run(ctx, id, offset)
}

// Run executes the commands of a registered source starting at offset and
// returns the offset where it stopped.
func (d *Driver) Run(ctx context.Context, id SourceID, offset int) int {
	text := d.Registry.Text(id)
	for offset < len(text) && !d.stopped {
		tokens, next, diags := Lex(id, offset, text[offset:])
		if len(diags) > 0 {
			d.reportAll(ctx, diags)
			if !d.ContinueOnError {
				return next
			}
			offset = next
			continue
		}
		if d.Options.DebugLexer {
			d.print(tokens[len(tokens)-1].Loc, pretty.Text(DebugTokens(tokens)))
		}

		res, diags := Parse(tokens)
		if len(diags) > 0 {
			d.reportAll(ctx, diags)
			if !d.ContinueOnError {
				return next
			}
			offset = next
			continue
		}
		if res.End != nil {
			return next
		}

		if ok := d.Execute(ctx, res.Command); !ok && !d.ContinueOnError {
			return next
		}
		offset = next
	}
	return offset
}

// Execute runs one parsed command, reporting its diagnostics. It returns
// false if the command failed.
func (d *Driver) Execute(ctx context.Context, cmd Command) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			ierr, isInternal := r.(InternalError)
			if !isInternal {
				panic(r)
			}
			slog.ErrorContext(ctx, "evaluation invariant violated", "error", ierr.Error())
			d.report(ctx, ErrInternal(ierr.Message, ierr.Loc))
			d.stopped = !d.KeepGoing
			ok = false
		}
	}()

	slog.DebugContext(ctx, "command",
		"kind", fmt.Sprintf("%T", cmd),
		"source", cmd.Span().Source.String(),
		"start", cmd.Span().Start,
		"end", cmd.Span().End)

	if d.Options.DebugParser {
		d.print(cmd.Span(), pretty.Lines(fmt.Sprintf("%# v", kr.Formatter(cmd))))
	}

	doc, _ := cmd.Doc()
	switch c := cmd.(type) {
	case *DefinitionCommand:
		return d.define(ctx, c, doc)
	case *TypeCommand:
		typed, diags := d.Typer.TypeDefinition(c, doc)
		if len(diags) > 0 {
			d.reportAll(ctx, diags)
			return false
		}
		d.trace(c.Span(), typed.String(), typeDefSexp(typed))
		return true
	case *EvalCommand:
		typed, diags := d.Typer.Expression(c.Expr)
		if len(diags) > 0 {
			d.reportAll(ctx, diags)
			return false
		}
		d.trace(c.Span(), typedString(typed), listSexp("eval", exprSexp(typed)))
		if d.ErrorCode == 0 {
			d.print(c.Span(), d.VM.Eval(typed).Doc(d.Theme))
		}
		return true
	case *TypeOfCommand:
		typed, diags := d.Typer.Expression(c.Expr)
		if len(diags) > 0 {
			d.reportAll(ctx, diags)
			return false
		}
		d.trace(c.Span(), typedString(typed), listSexp("typeof", exprSexp(typed)))
		d.print(c.Span(), d.Theme.TyVar(typed.Type().String()))
		return true
	case *HelpCommand:
		info, diags := d.Typer.Help(c.Name)
		if len(diags) > 0 {
			d.reportAll(ctx, diags)
			return false
		}
		d.print(c.Span(), d.helpDoc(info))
		return true
	case *SetCommand:
		opt, known := ParseOption(c.Name.Name())
		if !known {
			d.report(ctx, ErrUnknownOption(c.Name.Name(), c.Name.Loc))
			return false
		}
		d.Options.Set(opt, c.Value)
		slog.DebugContext(ctx, "option", "name", opt.String(), "value", c.Value)
		return true
	}
	d.report(ctx, ErrInternal(fmt.Sprintf("unknown command %T", cmd), cmd.Span()))
	return false
}

func (d *Driver) define(ctx context.Context, c *DefinitionCommand, doc []string) bool {
	typed, diags := d.Typer.ExpressionDefinition(c, doc)
	if len(diags) > 0 {
		d.reportAll(ctx, diags)
		return false
	}
	if d.Summary {
		for _, id := range typed.Vars {
			d.print(c.Span(), d.signature(id.Name, typed.Ty))
		}
	}
	d.trace(c.Span(), typed.String(), defineSexp(typed))
	if d.ErrorCode == 0 {
		d.VM.AddDefinition(typed)
	}
	return true
}

// trace prints the DebugTyper and DebugSexp forms of a typed node.
func (d *Driver) trace(loc Location, typed string, sexp string) {
	if d.Options.DebugTyper {
		d.print(loc, pretty.Text(typed))
	}
	if d.Options.DebugSexp {
		d.print(loc, pretty.Text(sexp))
	}
}

func typedString(e TypedExpr) string {
	return e.String() + " : " + e.Type().String()
}

func (d *Driver) signature(name string, ty Type) pretty.Doc {
	return pretty.Concat(
		d.Theme.DefVar(name), pretty.Space(), d.Theme.Operator(":"), pretty.Space(), d.Theme.TyVar(ty.String()),
	)
}

func (d *Driver) helpDoc(info *HelpInfo) pretty.Doc {
	var head pretty.Doc
	switch info.Kind {
	case HelpVariable:
		head = d.signature(info.Name, info.Type)
	case HelpAlias:
		head = pretty.Concat(
			d.Theme.TyVar(info.Name), pretty.Space(), d.Theme.Operator(":="), pretty.Space(), d.Theme.TyVar(info.Type.String()),
		)
	default:
		head = pretty.Concat(d.Theme.TyVar(info.Name), pretty.Text(" (builtin)"))
	}
	if len(info.Doc) == 0 {
		return head
	}
	return pretty.Concat(head, pretty.Nest(2, pretty.Concat(pretty.HardLine(), d.Theme.Documentation(info.Doc))))
}
