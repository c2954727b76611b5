package start

import (
	"fmt"
	"strings"
)

// Code is the stable numeric identifier of a diagnostic kind.
//
//	101-199 I/O
//	201-299 lexing and parsing
//	301-399 typing
//	401-499 evaluation
type Code int

const (
	CodeFileRead       Code = 101
	CodeFileWrite      Code = 102
	CodeUnknownOption  Code = 103
	CodeLexerExpected  Code = 201
	CodeLexerUnknown   Code = 202
	CodeParserExpected Code = 203
	CodeUnknownVar     Code = 301
	CodeUnexpectedType Code = 302
	CodeUnknownType    Code = 303
	CodeInternal       Code = 401
)

// Kind is the name of the diagnostic kind.
func (c Code) Kind() string {
	switch c {
	case CodeFileRead:
		return "FileRead"
	case CodeFileWrite:
		return "FileWrite"
	case CodeUnknownOption:
		return "UnknownOption"
	case CodeLexerExpected:
		return "LexerExpected"
	case CodeLexerUnknown:
		return "LexerUnknown"
	case CodeParserExpected:
		return "ParserExpected"
	case CodeUnknownVar:
		return "UnknownVariable"
	case CodeUnexpectedType:
		return "UnexpectedType"
	case CodeUnknownType:
		return "UnknownType"
	case CodeInternal:
		return "Internal"
	}
	return fmt.Sprintf("Code%d", int(c))
}

type Severity int

const (
	SeverityError Severity = iota + 1
	SeverityWarning
	SeverityInformation
)

// FragmentStyle is how a piece of a message is emphasised.
type FragmentStyle int

const (
	FragmentPlain FragmentStyle = iota
	FragmentQuoted
	FragmentEmphasized
)

type Fragment struct {
	Style FragmentStyle
	Text  string
}

// Message is a sequence of styled fragments.
type Message []Fragment

func Plain(s string) Message {
	return Message{{Style: FragmentPlain, Text: s}}
}

func (m Message) Plain(s string) Message {
	return append(m, Fragment{Style: FragmentPlain, Text: s})
}

func (m Message) Quoted(s string) Message {
	return append(m, Fragment{Style: FragmentQuoted, Text: s})
}

func (m Message) Emph(s string) Message {
	return append(m, Fragment{Style: FragmentEmphasized, Text: s})
}

// String renders the message without styles. Quoted fragments are wrapped
// in double quotes.
func (m Message) String() string {
	var b strings.Builder
	for _, f := range m {
		if f.Style == FragmentQuoted {
			b.WriteString(`"` + f.Text + `"`)
		} else {
			b.WriteString(f.Text)
		}
	}
	return b.String()
}

// Paint renders the message with the theme, emphasising non-plain
// fragments with role.
func (m Message) Paint(t *Theme, role Role) string {
	var b strings.Builder
	for _, f := range m {
		switch f.Style {
		case FragmentQuoted:
			b.WriteString(t.Paint(role, `"`+f.Text+`"`))
		case FragmentEmphasized:
			b.WriteString(t.Paint(role, f.Text))
		default:
			b.WriteString(f.Text)
		}
	}
	return b.String()
}

// Label is a secondary location with an explanation.
type Label struct {
	Loc     Location
	Message Message
}

// Diagnostic is a user-facing error (or, in the language server, an
// informational message) attached to a source location.
type Diagnostic struct {
	Code     Code
	Severity Severity
	// Loc is the primary location. It is the zero Location for diagnostics
	// not tied to source text, such as an unreadable file.
	Loc Location
	// Head is the one-line summary, e.g. "Type mismatch."
	Head Message
	// Body explains the primary location.
	Body   Message
	Note   Message
	Labels []Label
}

func (d Diagnostic) Error() string {
	if len(d.Body) > 0 {
		return fmt.Sprintf("[%d] %s: %s %s", d.Code, d.Code.Kind(), d.Head, d.Body)
	}
	return fmt.Sprintf("[%d] %s: %s", d.Code, d.Code.Kind(), d.Head)
}

// Text is the most specific message: the body when present, otherwise the
// head.
func (d Diagnostic) Text() string {
	if len(d.Body) > 0 {
		return d.Body.String()
	}
	return d.Head.String()
}

// Diagnostics is a list of diagnostics usable as an error.
type Diagnostics []Diagnostic

func (ds Diagnostics) Error() string {
	msgs := make([]string, len(ds))
	for i, d := range ds {
		msgs[i] = d.Error()
	}
	return strings.Join(msgs, "\n")
}

// Report appends d, making a *Diagnostics usable as a sink.
func (ds *Diagnostics) Report(d Diagnostic) {
	*ds = append(*ds, d)
}

// DiagnosticSink receives diagnostics in the order they are discovered.
type DiagnosticSink interface {
	Report(Diagnostic)
}

// SinkFunc adapts a function to a DiagnosticSink.
type SinkFunc func(Diagnostic)

func (f SinkFunc) Report(d Diagnostic) { f(d) }

func ErrFileRead(path string, err error) Diagnostic {
	return Diagnostic{
		Code:     CodeFileRead,
		Severity: SeverityError,
		Head:     Plain("Unable to read file."),
		Body:     Plain("Cannot read ").Quoted(path).Plain(": " + rootCause(err) + "."),
	}
}

func ErrFileWrite(path string, err error) Diagnostic {
	return Diagnostic{
		Code:     CodeFileWrite,
		Severity: SeverityError,
		Head:     Plain("Unable to write file."),
		Body:     Plain("Cannot write ").Quoted(path).Plain(": " + rootCause(err) + "."),
	}
}

func ErrUnknownOption(name string, loc Location) Diagnostic {
	return Diagnostic{
		Code:     CodeUnknownOption,
		Severity: SeverityError,
		Loc:      loc,
		Head:     Plain("Option unknown."),
		Body:     Plain("Option ").Quoted(name).Plain(" is unknown."),
		Note:     Plain("Known options: " + strings.Join(optionNames(), ", ") + "."),
	}
}

func ErrLexerExpected(expected, found string, loc Location) Diagnostic {
	return Diagnostic{
		Code:     CodeLexerExpected,
		Severity: SeverityError,
		Loc:      loc,
		Head:     Plain("Lexing error."),
		Body:     Plain("Lexer expected ").Quoted(expected).Plain(", found ").Quoted(found).Plain("."),
	}
}

func ErrLexerUnknown(found string, loc Location) Diagnostic {
	return Diagnostic{
		Code:     CodeLexerUnknown,
		Severity: SeverityError,
		Loc:      loc,
		Head:     Plain("Lexing error."),
		Body:     Plain("Lexer unknown token ").Quoted(found).Plain("."),
	}
}

func ErrParserExpected(expected []string, found string, loc Location) Diagnostic {
	return Diagnostic{
		Code:     CodeParserExpected,
		Severity: SeverityError,
		Loc:      loc,
		Head:     Plain("Parsing error."),
		Body:     Plain("Found ").Emph(found).Plain(", expected ").Emph(strings.Join(expected, " or ")).Plain("."),
	}
}

func ErrUnknownType(name string, loc Location) Diagnostic {
	return Diagnostic{
		Code:     CodeUnknownType,
		Severity: SeverityError,
		Loc:      loc,
		Head:     Plain("Type not found."),
		Body:     Plain("Type ").Emph(name).Plain(" not found in the current scope."),
	}
}

func ErrUnknownVariable(name string, loc Location) Diagnostic {
	return Diagnostic{
		Code:     CodeUnknownVar,
		Severity: SeverityError,
		Loc:      loc,
		Head:     Plain("Variable not found."),
		Body:     Plain("Variable ").Emph(name).Plain(" not found in the current scope."),
	}
}

// ErrUnexpectedType reports that an expression of type found was used
// where expected is required.
func ErrUnexpectedType(expected, found Type, loc Location, labels ...Label) Diagnostic {
	return Diagnostic{
		Code:     CodeUnexpectedType,
		Severity: SeverityError,
		Loc:      loc,
		Head:     Plain("Type mismatch."),
		Body:     Plain("Found type: ").Emph(found.String()).Plain("."),
		Note: Plain("Expected : ").Emph(expected.String()).
			Plain("\nFound    : ").Emph(found.String()),
		Labels: labels,
	}
}

func ErrInternal(msg string, loc Location) Diagnostic {
	return Diagnostic{
		Code:     CodeInternal,
		Severity: SeverityError,
		Loc:      loc,
		Head:     Plain("Internal error."),
		Body:     Plain(msg),
	}
}

func rootCause(err error) string {
	type causer interface{ Unwrap() error }
	for {
		c, ok := err.(causer)
		if !ok || c.Unwrap() == nil {
			return err.Error()
		}
		err = c.Unwrap()
	}
}
