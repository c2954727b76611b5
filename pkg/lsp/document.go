package lsp

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/vito/start/pkg/pretty"
	"github.com/vito/start/pkg/start"
)

// DiagnosticSource names the server in published diagnostics.
const DiagnosticSource = "start"

// SymbolKind tells variables from type aliases.
type SymbolKind int

const (
	SymbolExpression SymbolKind = iota
	SymbolType
)

// Symbol is a binding seen in a document. Def is nil when the binding comes
// from elsewhere, such as the prelude, and is only referenced here.
type Symbol struct {
	Name string
	Kind SymbolKind
	// Type is the variable's type, or the alias target.
	Type string
	Doc  []string
	Def  *Range
	Refs []Range
}

// Signature is the one-line typed form shown on hover: `a : N0` or
// `N0 := Nat`.
func (s *Symbol) Signature() string {
	if s.Kind == SymbolType {
		return s.Name + " := " + s.Type
	}
	return s.Name + " : " + s.Type
}

// Document is the result of running a driver over one version of a text.
type Document struct {
	URI         DocumentURI
	Version     int
	Text        string
	Symbols     []*Symbol
	Diagnostics []Diagnostic

	lines *lineIndex
}

// Analyze runs text through a non-printing driver. Every diagnostic
// becomes an error and every printed result an information diagnostic on
// the span of its command.
func Analyze(ctx context.Context, uri DocumentURI, version int, text string, config *start.ProjectConfig) *Document {
	doc := &Document{
		URI:     uri,
		Version: version,
		Text:    text,
		lines:   newLineIndex(text),
	}
	id := start.URISource(string(uri))
	theme := start.PlainTheme().WithWidth(config.PrinterWidth())

	printer := start.PrinterFunc(func(loc start.Location, d pretty.Doc) {
		if loc.Source != id {
			return
		}
		doc.Diagnostics = append(doc.Diagnostics, Diagnostic{
			Range:    doc.Range(loc),
			Severity: SeverityInformation,
			Source:   DiagnosticSource,
			Message:  theme.Render(d),
		})
	})
	sink := start.SinkFunc(func(d start.Diagnostic) {
		doc.Diagnostics = append(doc.Diagnostics, doc.convert(d, id))
	})

	driver := start.NewDriver(start.NewRegistry(), theme, printer, sink)
	driver.KeepGoing = true
	if config.UseStdlib() {
		driver.LoadStdlib(ctx)
	}
	driver.RunSource(ctx, id, text)

	for _, v := range driver.Typer.Variables() {
		doc.addSymbol(id, &Symbol{
			Name: v.Ident.Name,
			Kind: SymbolExpression,
			Type: v.Type.String(),
			Doc:  v.Doc,
		}, v.Def, v.Refs)
	}
	for _, a := range driver.Typer.Aliases() {
		doc.addSymbol(id, &Symbol{
			Name: a.Ident.Name,
			Kind: SymbolType,
			Type: a.Target.String(),
			Doc:  a.Doc,
		}, a.Def, a.Refs)
	}

	slog.DebugContext(ctx, "analyzed document",
		"uri", uri,
		"version", version,
		"symbols", len(doc.Symbols),
		"diagnostics", len(doc.Diagnostics))
	return doc
}

func (doc *Document) addSymbol(id start.SourceID, sym *Symbol, def start.Location, refs []start.Location) {
	if def.Source == id {
		r := doc.Range(def)
		sym.Def = &r
	}
	for _, ref := range refs {
		if ref.Source == id {
			sym.Refs = append(sym.Refs, doc.Range(ref))
		}
	}
	if sym.Def == nil && len(sym.Refs) == 0 {
		return
	}
	doc.Symbols = append(doc.Symbols, sym)
}

func (doc *Document) convert(d start.Diagnostic, id start.SourceID) Diagnostic {
	diag := Diagnostic{
		Severity: SeverityError,
		Code:     int(d.Code),
		Source:   DiagnosticSource,
		Message:  d.Text(),
	}
	if d.Loc.Source == id {
		diag.Range = doc.Range(d.Loc)
	}
	if len(d.Note) > 0 {
		diag.RelatedInformation = append(diag.RelatedInformation, DiagnosticRelatedInformation{
			Location: Location{URI: doc.URI, Range: diag.Range},
			Message:  d.Note.String(),
		})
	}
	for _, l := range d.Labels {
		if l.Loc.Source != id {
			continue
		}
		diag.RelatedInformation = append(diag.RelatedInformation, DiagnosticRelatedInformation{
			Location: Location{URI: doc.URI, Range: doc.Range(l.Loc)},
			Message:  l.Message.String(),
		})
	}
	return diag
}

// Range converts a byte range of the document to an LSP range.
func (doc *Document) Range(loc start.Location) Range {
	return Range{
		Start: doc.lines.position(loc.Start),
		End:   doc.lines.position(loc.End),
	}
}

// SymbolAt returns the symbol occurring at pos and the range of that
// occurrence. When ranges nest, the narrowest one wins.
func (doc *Document) SymbolAt(pos Position) (*Symbol, Range, bool) {
	var (
		found *Symbol
		best  Range
		width = -1
	)
	consider := func(sym *Symbol, r Range) {
		if !r.Contains(pos) {
			return
		}
		w := doc.lines.offset(r.End) - doc.lines.offset(r.Start)
		if width < 0 || w < width {
			found, best, width = sym, r, w
		}
	}
	for _, sym := range doc.Symbols {
		if sym.Def != nil {
			consider(sym, *sym.Def)
		}
		for _, r := range sym.Refs {
			consider(sym, r)
		}
	}
	return found, best, found != nil
}

// Hover describes the symbol at pos as a code block with its signature,
// followed by its documentation below a rule.
func (doc *Document) Hover(pos Position) *Hover {
	sym, r, ok := doc.SymbolAt(pos)
	if !ok {
		return nil
	}
	var b strings.Builder
	b.WriteString("```start\n")
	b.WriteString(sym.Signature())
	b.WriteString("\n```")
	if len(sym.Doc) > 0 {
		b.WriteString("\n\n---\n\n")
		b.WriteString(strings.Join(sym.Doc, "\n"))
	}
	return &Hover{
		Contents: MarkupContent{Kind: Markdown, Value: b.String()},
		Range:    &r,
	}
}

// Definition locates the definition of the symbol at pos, if it is in this
// document.
func (doc *Document) Definition(pos Position) *Location {
	sym, _, ok := doc.SymbolAt(pos)
	if !ok || sym.Def == nil {
		return nil
	}
	return &Location{URI: doc.URI, Range: *sym.Def}
}

// FullRange covers the whole text.
func (doc *Document) FullRange() Range {
	return Range{End: doc.lines.position(len(doc.Text))}
}

// lineIndex converts between byte offsets and UTF-16 positions.
type lineIndex struct {
	text   string
	starts []int
}

func newLineIndex(text string) *lineIndex {
	starts := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &lineIndex{text: text, starts: starts}
}

func (li *lineIndex) position(offset int) Position {
	offset = max(0, min(offset, len(li.text)))
	line := sort.Search(len(li.starts), func(i int) bool {
		return li.starts[i] > offset
	}) - 1
	col := 0
	for _, r := range li.text[li.starts[line]:offset] {
		col += utf16Len(r)
	}
	return Position{Line: line, Character: col}
}

func (li *lineIndex) offset(pos Position) int {
	if pos.Line < 0 {
		return 0
	}
	if pos.Line >= len(li.starts) {
		return len(li.text)
	}
	off := li.starts[pos.Line]
	for col := 0; col < pos.Character && off < len(li.text) && li.text[off] != '\n'; {
		r, size := utf8.DecodeRuneInString(li.text[off:])
		col += utf16Len(r)
		off += size
	}
	return off
}

func utf16Len(r rune) int {
	if r >= 0x10000 {
		return 2
	}
	return 1
}
