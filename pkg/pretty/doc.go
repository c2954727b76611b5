// Package pretty implements a small Wadler-style document layout library
// with style annotations.
//
// Documents are built from combinators (Text, Line, Group, Nest, ...) and
// laid out against a maximum width. Annotations wrap a sub-document in a
// Style; when rendering with styles, annotations are kept on a stack so a
// nested style composes with the one around it, across groups and line
// breaks.
package pretty

import "strings"

// Doc is a document that can be laid out.
type Doc interface {
	isDoc()
}

type nilDoc struct{}

type textDoc struct {
	text string
}

type lineDoc struct {
	// flat is what the line becomes when its group fits on one line.
	flat string
	hard bool
}

type concatDoc struct {
	docs []Doc
}

type nestDoc struct {
	indent int
	doc    Doc
}

type groupDoc struct {
	doc Doc
}

type annotateDoc struct {
	style Style
	doc   Doc
}

// popDoc closes the innermost annotation during layout.
type popDoc struct{}

func (nilDoc) isDoc()      {}
func (textDoc) isDoc()     {}
func (lineDoc) isDoc()     {}
func (concatDoc) isDoc()   {}
func (nestDoc) isDoc()     {}
func (groupDoc) isDoc()    {}
func (annotateDoc) isDoc() {}
func (popDoc) isDoc()      {}

// Nil is the empty document.
func Nil() Doc {
	return nilDoc{}
}

// Text is a literal string. It must not contain newlines; use Lines for
// multi-line text.
func Text(s string) Doc {
	if s == "" {
		return nilDoc{}
	}
	return textDoc{text: s}
}

// Space is a single literal space.
func Space() Doc {
	return textDoc{text: " "}
}

// Line is a space when its group fits, and a newline otherwise.
func Line() Doc {
	return lineDoc{flat: " "}
}

// SoftLine is empty when its group fits, and a newline otherwise.
func SoftLine() Doc {
	return lineDoc{}
}

// HardLine is always a newline, and forces the enclosing group to break.
func HardLine() Doc {
	return lineDoc{hard: true}
}

// Concat joins documents one after the other.
func Concat(docs ...Doc) Doc {
	flat := make([]Doc, 0, len(docs))
	for _, d := range docs {
		switch x := d.(type) {
		case nil, nilDoc:
		case concatDoc:
			flat = append(flat, x.docs...)
		default:
			flat = append(flat, d)
		}
	}
	switch len(flat) {
	case 0:
		return nilDoc{}
	case 1:
		return flat[0]
	}
	return concatDoc{docs: flat}
}

// Nest increases the indentation of lines broken inside d.
func Nest(indent int, d Doc) Doc {
	return nestDoc{indent: indent, doc: d}
}

// Group lays d out on a single line if it fits, breaking its lines
// otherwise.
func Group(d Doc) Doc {
	return groupDoc{doc: d}
}

// Annotate attaches a style to d.
func Annotate(style Style, d Doc) Doc {
	if style.IsZero() {
		return d
	}
	return annotateDoc{style: style, doc: d}
}

// Intersperse joins docs with sep between each pair.
func Intersperse(docs []Doc, sep Doc) Doc {
	out := make([]Doc, 0, len(docs)*2)
	for i, d := range docs {
		if i > 0 {
			out = append(out, sep)
		}
		out = append(out, d)
	}
	return Concat(out...)
}

// Lines splits s on newlines and joins the pieces with hard lines.
func Lines(s string) Doc {
	parts := strings.Split(s, "\n")
	docs := make([]Doc, len(parts))
	for i, p := range parts {
		docs[i] = Text(p)
	}
	return Intersperse(docs, HardLine())
}
