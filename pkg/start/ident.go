package start

import (
	"fmt"
	"maps"
)

// Identifier is an interned name. Two identifiers are the same binding only
// if their IDs match; shadowing definitions get fresh IDs.
type Identifier struct {
	Name string
	ID   int
}

func (i Identifier) String() string {
	return fmt.Sprintf("%s#%d", i.Name, i.ID)
}

// IdentifierBuilder interns names within one namespace.
type IdentifierBuilder struct {
	next  int
	names map[string]Identifier
}

func NewIdentifierBuilder() *IdentifierBuilder {
	return &IdentifierBuilder{names: map[string]Identifier{}}
}

// Get returns the current identifier for name, interning it if needed.
func (b *IdentifierBuilder) Get(name string) Identifier {
	if id, ok := b.names[name]; ok {
		return id
	}
	return b.Build(name)
}

// Build always creates a fresh identifier for name, shadowing any previous
// one.
func (b *IdentifierBuilder) Build(name string) Identifier {
	id := Identifier{Name: name, ID: b.next}
	b.next++
	b.names[name] = id
	return id
}

// Lookup returns the current identifier for name without interning.
func (b *IdentifierBuilder) Lookup(name string) (Identifier, bool) {
	id, ok := b.names[name]
	return id, ok
}

func (b *IdentifierBuilder) clone() *IdentifierBuilder {
	return &IdentifierBuilder{next: b.next, names: maps.Clone(b.names)}
}
