package start

import (
	"cmp"
	"maps"
	"slices"
)

// VarInfo is what the typer knows about a variable binding.
type VarInfo struct {
	Ident Identifier
	Type  Type
	Doc   []string
	Def   Location
	Refs  []Location
}

// AliasInfo is what the typer knows about a type alias.
type AliasInfo struct {
	Ident  Identifier
	Target Type
	Doc    []string
	Def    Location
	Refs   []Location
}

// typerState groups everything a definition may change, so that a failed
// definition can be rolled back as a unit.
type typerState struct {
	exprNames *IdentifierBuilder
	typeNames *IdentifierBuilder
	vars      map[int]VarInfo
	aliases   map[int]AliasInfo
}

func newTyperState() *typerState {
	return &typerState{
		exprNames: NewIdentifierBuilder(),
		typeNames: NewIdentifierBuilder(),
		vars:      map[int]VarInfo{},
		aliases:   map[int]AliasInfo{},
	}
}

func (s *typerState) snapshot() *typerState {
	return &typerState{
		exprNames: s.exprNames.clone(),
		typeNames: s.typeNames.clone(),
		vars:      maps.Clone(s.vars),
		aliases:   maps.Clone(s.aliases),
	}
}

func (s *typerState) addVarRef(id Identifier, loc Location) {
	info := s.vars[id.ID]
	info.Refs = append(slices.Clip(info.Refs), loc)
	s.vars[id.ID] = info
}

func (s *typerState) addAliasRef(id Identifier, loc Location) {
	info := s.aliases[id.ID]
	info.Refs = append(slices.Clip(info.Refs), loc)
	s.aliases[id.ID] = info
}

func sortedVars(vars map[int]VarInfo) []VarInfo {
	out := slices.Collect(maps.Values(vars))
	slices.SortFunc(out, func(a, b VarInfo) int { return cmp.Compare(a.Ident.ID, b.Ident.ID) })
	return out
}

func sortedAliases(aliases map[int]AliasInfo) []AliasInfo {
	out := slices.Collect(maps.Values(aliases))
	slices.SortFunc(out, func(a, b AliasInfo) int { return cmp.Compare(a.Ident.ID, b.Ident.ID) })
	return out
}
