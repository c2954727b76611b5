package start

import (
	"github.com/iancoleman/strcase"
)

// Option is a debug switch toggled by `Set` and `UnSet`.
type Option int

const (
	OptionDebugLexer Option = iota
	OptionDebugParser
	OptionDebugTyper
	OptionDebugSexp
)

var optionSpellings = []string{
	OptionDebugLexer:  "DebugLexer",
	OptionDebugParser: "DebugParser",
	OptionDebugTyper:  "DebugTyper",
	OptionDebugSexp:   "DebugSexp",
}

func (o Option) String() string {
	return optionSpellings[o]
}

// ParseOption resolves an option name. Names are compared in CamelCase and
// the Debug prefix is optional, so "debug_typer", "typer" and "DebugTyper"
// are the same option.
func ParseOption(name string) (Option, bool) {
	camel := strcase.ToCamel(name)
	for i, spelling := range optionSpellings {
		if spelling == camel || spelling == "Debug"+camel {
			return Option(i), true
		}
	}
	return 0, false
}

func optionNames() []string {
	return append([]string(nil), optionSpellings...)
}

// Options holds the debug switches of a driver.
type Options struct {
	DebugLexer  bool
	DebugParser bool
	DebugTyper  bool
	DebugSexp   bool
}

func (o *Options) Set(opt Option, value bool) {
	switch opt {
	case OptionDebugLexer:
		o.DebugLexer = value
	case OptionDebugParser:
		o.DebugParser = value
	case OptionDebugTyper:
		o.DebugTyper = value
	case OptionDebugSexp:
		o.DebugSexp = value
	}
}

func (o Options) Get(opt Option) bool {
	switch opt {
	case OptionDebugLexer:
		return o.DebugLexer
	case OptionDebugParser:
		return o.DebugParser
	case OptionDebugTyper:
		return o.DebugTyper
	case OptionDebugSexp:
		return o.DebugSexp
	}
	return false
}
