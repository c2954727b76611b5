package start

import (
	"fmt"
	"sort"
	"unicode/utf8"
)

// SourceKind tells where a piece of source text came from.
type SourceKind int

const (
	SourceStdlib SourceKind = iota
	SourceFile
	SourceURI
	SourceREPL
)

// SourceID identifies a source text. It is comparable and can be used as a
// map key.
type SourceID struct {
	Kind SourceKind
	Name string
}

func StdlibSource() SourceID          { return SourceID{Kind: SourceStdlib, Name: "stdlib"} }
func FileSource(path string) SourceID { return SourceID{Kind: SourceFile, Name: path} }
func URISource(uri string) SourceID   { return SourceID{Kind: SourceURI, Name: uri} }
func REPLSource(name string) SourceID { return SourceID{Kind: SourceREPL, Name: name} }

func (id SourceID) String() string {
	switch id.Kind {
	case SourceStdlib:
		return "<stdlib>"
	case SourceREPL:
		if id.Name == "" {
			return "<repl>"
		}
		return "<repl:" + id.Name + ">"
	default:
		return id.Name
	}
}

// Location is a half-open byte range [Start, End) in a source.
type Location struct {
	Source SourceID
	Start  int
	End    int
}

// Union returns the smallest location covering both l and o.
func (l Location) Union(o Location) Location {
	return Location{
		Source: l.Source,
		Start:  min(l.Start, o.Start),
		End:    max(l.End, o.End),
	}
}

// Len is the number of bytes covered.
func (l Location) Len() int {
	return l.End - l.Start
}

// Contains reports whether offset lies within l. An empty location contains
// its start offset.
func (l Location) Contains(offset int) bool {
	if l.Start == l.End {
		return offset == l.Start
	}
	return offset >= l.Start && offset < l.End
}

func (l Location) String() string {
	return fmt.Sprintf("%s[%d:%d]", l.Source, l.Start, l.End)
}

// PositionMemo maps byte offsets of a text to (line, column) pairs. Line
// starts are discovered lazily and cached, so increasing queries only scan
// each byte once; earlier offsets are answered by binary search.
type PositionMemo struct {
	text    string
	starts  []int
	scanned int
}

func NewPositionMemo(text string) *PositionMemo {
	return &PositionMemo{
		text:   text,
		starts: []int{0},
	}
}

// Extend replaces the text with a longer one sharing the scanned prefix.
func (m *PositionMemo) Extend(text string) {
	m.text = text
	if m.scanned > len(text) {
		m.scanned = len(text)
	}
}

// Position returns the 0-based line and column of offset. Columns count
// characters since the previous line feed.
func (m *PositionMemo) Position(offset int) (line, col int) {
	offset = max(0, min(offset, len(m.text)))
	if offset > m.scanned {
		for i := m.scanned; i < offset; i++ {
			if m.text[i] == '\n' {
				m.starts = append(m.starts, i+1)
			}
		}
		m.scanned = offset
	}
	line = sort.Search(len(m.starts), func(i int) bool {
		return m.starts[i] > offset
	}) - 1
	col = utf8.RuneCountInString(m.text[m.starts[line]:offset])
	return line, col
}

// Source is a registered text.
type Source struct {
	ID   SourceID
	Text string
	memo *PositionMemo
}

// Registry owns the text of every source seen by a driver.
type Registry struct {
	sources map[SourceID]*Source
}

func NewRegistry() *Registry {
	return &Registry{sources: map[SourceID]*Source{}}
}

// Register records text under id. Registering the same text twice is a
// no-op; registering a different text replaces it.
func (r *Registry) Register(id SourceID, text string) *Source {
	if src, ok := r.sources[id]; ok && src.Text == text {
		return src
	}
	src := &Source{ID: id, Text: text, memo: NewPositionMemo(text)}
	r.sources[id] = src
	return src
}

// Append adds text at the end of the source, registering it if needed, and
// returns the offset where the new text starts.
func (r *Registry) Append(id SourceID, text string) int {
	src, ok := r.sources[id]
	if !ok {
		r.Register(id, text)
		return 0
	}
	offset := len(src.Text)
	src.Text += text
	src.memo.Extend(src.Text)
	return offset
}

// Lookup returns the registered source.
func (r *Registry) Lookup(id SourceID) (*Source, bool) {
	src, ok := r.sources[id]
	return src, ok
}

// Text returns the text registered under id.
func (r *Registry) Text(id SourceID) string {
	if src, ok := r.sources[id]; ok {
		return src.Text
	}
	return ""
}

// Position maps an offset in id to a 0-based (line, column).
func (r *Registry) Position(id SourceID, offset int) (line, col int) {
	src, ok := r.sources[id]
	if !ok {
		return 0, 0
	}
	return src.memo.Position(offset)
}
