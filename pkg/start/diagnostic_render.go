package start

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Renderer turns diagnostics into human-readable reports quoting the
// offending source lines.
type Renderer struct {
	Registry *Registry
	Theme    *Theme
}

// Render formats d as a multi-line report ending with a newline.
func (r *Renderer) Render(d Diagnostic) string {
	t := r.Theme
	if t == nil {
		t = PlainTheme()
	}

	var result strings.Builder

	severity := "Error"
	switch d.Severity {
	case SeverityWarning:
		severity = "Warning"
	case SeverityInformation:
		severity = "Info"
	}
	head := fmt.Sprintf("[%d] %s %s:", d.Code, severity, d.Code.Kind())
	result.WriteString(t.Paint(RoleErrorHead, head))
	result.WriteString(" ")
	result.WriteString(d.Head.Paint(t, RoleErrorHead))
	result.WriteString("\n")

	src, ok := r.lookup(d.Loc.Source)
	if !ok || d.Loc == (Location{}) {
		if len(d.Body) > 0 {
			result.WriteString("  ")
			result.WriteString(d.Body.Paint(t, RoleErrorHead))
			result.WriteString("\n")
		}
		r.writeNote(&result, d, 2)
		return result.String()
	}

	snippets := []snippet{{loc: d.Loc, msg: d.Body, primary: true}}
	for _, l := range d.Labels {
		snippets = append(snippets, snippet{loc: l.Loc, msg: l.Message})
	}

	gutter := 1
	for _, s := range snippets {
		if ssrc, found := r.lookup(s.loc.Source); found {
			line, _ := ssrc.memo.Position(s.loc.Start)
			gutter = max(gutter, len(strconv.Itoa(line+1)))
		}
	}

	for i, s := range snippets {
		ssrc := src
		if s.loc.Source != d.Loc.Source {
			var found bool
			ssrc, found = r.lookup(s.loc.Source)
			if !found {
				continue
			}
		}
		r.writeSnippet(&result, ssrc, s, gutter, i == 0)
	}

	r.writeNote(&result, d, gutter+2)
	return result.String()
}

func (r *Renderer) lookup(id SourceID) (*Source, bool) {
	if r.Registry == nil {
		return nil, false
	}
	return r.Registry.Lookup(id)
}

type snippet struct {
	loc     Location
	msg     Message
	primary bool
}

func (r *Renderer) writeSnippet(out *strings.Builder, src *Source, s snippet, gutter int, first bool) {
	t := r.Theme
	if t == nil {
		t = PlainTheme()
	}
	line, col := src.memo.Position(s.loc.Start)
	lineStart := s.loc.Start - len(lineBefore(src.Text, s.loc.Start))
	lineEnd := strings.IndexByte(src.Text[lineStart:], '\n')
	if lineEnd < 0 {
		lineEnd = len(src.Text)
	} else {
		lineEnd += lineStart
	}
	text := src.Text[lineStart:lineEnd]

	pad := strings.Repeat(" ", gutter)
	arrow := "-->"
	if !first {
		arrow = ":::"
	}
	fmt.Fprintf(out, "%s%s %s:%d:%d\n", pad, t.Paint(RoleGutter, arrow), src.ID, line+1, col+1)
	fmt.Fprintf(out, "%s %s\n", pad, t.Paint(RoleGutter, "|"))

	num := strconv.Itoa(line + 1)
	fmt.Fprintf(out, "%s%s %s %s\n",
		strings.Repeat(" ", gutter-len(num)), t.Paint(RoleGutter, num), t.Paint(RoleGutter, "|"), expandTabs(text))

	end := min(s.loc.End, lineEnd)
	prefix := expandTabs(src.Text[lineStart:s.loc.Start])
	width := 1
	if end > s.loc.Start {
		width = max(1, ansi.StringWidth(expandTabs(src.Text[s.loc.Start:end])))
	}
	mark := "^"
	role := RoleErrorHead
	if !s.primary {
		mark = "-"
		role = RoleErrorNote
	}
	underline := t.Paint(role, strings.Repeat(mark, width))
	fmt.Fprintf(out, "%s %s %s%s", pad, t.Paint(RoleGutter, "|"), strings.Repeat(" ", ansi.StringWidth(prefix)), underline)
	if len(s.msg) > 0 {
		out.WriteString(" ")
		out.WriteString(s.msg.Paint(t, role))
	}
	out.WriteString("\n")
}

func (r *Renderer) writeNote(out *strings.Builder, d Diagnostic, indent int) {
	if len(d.Note) == 0 {
		return
	}
	t := r.Theme
	if t == nil {
		t = PlainTheme()
	}
	lead := strings.Repeat(" ", max(0, indent-1)) + "= note: "
	cont := strings.Repeat(" ", ansi.StringWidth(lead))
	for i, line := range strings.Split(d.Note.Paint(t, RoleErrorNote), "\n") {
		if i == 0 {
			out.WriteString(lead)
		} else {
			out.WriteString(cont)
		}
		out.WriteString(line)
		out.WriteString("\n")
	}
}

func lineBefore(text string, offset int) string {
	start := strings.LastIndexByte(text[:offset], '\n') + 1
	return text[start:offset]
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", "    ")
}

// WriterSink renders every diagnostic to W.
type WriterSink struct {
	W        io.Writer
	Renderer *Renderer
}

func (s *WriterSink) Report(d Diagnostic) {
	_, _ = io.WriteString(s.W, s.Renderer.Render(d))
}
