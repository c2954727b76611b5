package pretty

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// DefaultWidth is the line width used when none is given.
const DefaultWidth = 80

type mode int

const (
	modeBreak mode = iota
	modeFlat
)

type frame struct {
	indent int
	mode   mode
	doc    Doc
}

// sink receives laid out text. Styles are pushed and popped around
// annotated regions.
type sink interface {
	text(s string)
	newline()
	push(s Style)
	pop()
}

// String lays out d within width and returns plain text, ignoring
// annotations.
func String(d Doc, width int) string {
	var p plainSink
	layout(d, width, &p)
	return p.buf.String()
}

// StyledString lays out d within width, rendering annotations as terminal
// escape sequences.
func StyledString(d Doc, width int) string {
	s := &styledSink{}
	layout(d, width, s)
	return s.buf.String()
}

func layout(d Doc, width int, out sink) {
	if width <= 0 {
		width = DefaultWidth
	}

	col := 0
	// indentation is written lazily so blank lines carry no trailing spaces
	pendingIndent := -1

	flush := func() {
		if pendingIndent > 0 {
			out.text(strings.Repeat(" ", pendingIndent))
			col = pendingIndent
		}
		pendingIndent = -1
	}

	stack := []frame{{indent: 0, mode: modeBreak, doc: d}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		switch x := f.doc.(type) {
		case nilDoc:
		case textDoc:
			flush()
			out.text(x.text)
			col += ansi.StringWidth(x.text)
		case lineDoc:
			if f.mode == modeFlat && !x.hard {
				if x.flat != "" {
					flush()
					out.text(x.flat)
					col += len(x.flat)
				}
				continue
			}
			out.newline()
			col = 0
			pendingIndent = f.indent
		case concatDoc:
			for i := len(x.docs) - 1; i >= 0; i-- {
				stack = append(stack, frame{indent: f.indent, mode: f.mode, doc: x.docs[i]})
			}
		case nestDoc:
			stack = append(stack, frame{indent: f.indent + x.indent, mode: f.mode, doc: x.doc})
		case groupDoc:
			if f.mode == modeFlat {
				stack = append(stack, frame{indent: f.indent, mode: modeFlat, doc: x.doc})
				continue
			}
			start := col
			if pendingIndent > 0 {
				start = pendingIndent
			}
			flat := frame{indent: f.indent, mode: modeFlat, doc: x.doc}
			if fits(width-start, flat, stack) {
				stack = append(stack, flat)
			} else {
				stack = append(stack, frame{indent: f.indent, mode: modeBreak, doc: x.doc})
			}
		case annotateDoc:
			out.push(x.style)
			stack = append(stack,
				frame{indent: f.indent, mode: f.mode, doc: popDoc{}},
				frame{indent: f.indent, mode: f.mode, doc: x.doc})
		case popDoc:
			out.pop()
		}
	}
}

// fits reports whether next, followed by the rest of the stack, can be laid
// out up to the next line break within remaining columns.
func fits(remaining int, next frame, rest []frame) bool {
	work := []frame{next}
	restIdx := len(rest) - 1
	for remaining >= 0 {
		if len(work) == 0 {
			if restIdx < 0 {
				return true
			}
			work = append(work, rest[restIdx])
			restIdx--
			continue
		}
		f := work[len(work)-1]
		work = work[:len(work)-1]

		switch x := f.doc.(type) {
		case textDoc:
			remaining -= ansi.StringWidth(x.text)
		case lineDoc:
			if f.mode == modeBreak {
				return true
			}
			if x.hard {
				return false
			}
			remaining -= len(x.flat)
		case concatDoc:
			for i := len(x.docs) - 1; i >= 0; i-- {
				work = append(work, frame{indent: f.indent, mode: f.mode, doc: x.docs[i]})
			}
		case nestDoc:
			work = append(work, frame{indent: f.indent + x.indent, mode: f.mode, doc: x.doc})
		case groupDoc:
			work = append(work, frame{indent: f.indent, mode: f.mode, doc: x.doc})
		case annotateDoc:
			work = append(work, frame{indent: f.indent, mode: f.mode, doc: x.doc})
		}
	}
	return false
}

type plainSink struct {
	buf strings.Builder
}

func (p *plainSink) text(s string) { p.buf.WriteString(s) }
func (p *plainSink) newline()      { p.buf.WriteByte('\n') }
func (p *plainSink) push(Style)    {}
func (p *plainSink) pop()          {}

type styledSink struct {
	buf    strings.Builder
	styles []Style
}

func (s *styledSink) current() Style {
	if len(s.styles) == 0 {
		return Style{}
	}
	return s.styles[len(s.styles)-1]
}

func (s *styledSink) text(t string) {
	s.buf.WriteString(s.current().Render(t))
}

func (s *styledSink) newline() {
	s.buf.WriteByte('\n')
}

func (s *styledSink) push(st Style) {
	s.styles = append(s.styles, st.Over(s.current()))
}

func (s *styledSink) pop() {
	if len(s.styles) > 0 {
		s.styles = s.styles[:len(s.styles)-1]
	}
}
