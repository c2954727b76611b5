package start

import (
	"fmt"
	"math/big"
	"os"
	"strings"
	"unicode"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/vito/start/pkg/pretty"
)

// Role is the syntactic role a piece of rendered text plays.
type Role string

const (
	RoleKeyword       Role = "keyword"
	RoleOperator      Role = "operator"
	RoleDefVar        Role = "def_var"
	RoleExprVar       Role = "expr_var"
	RoleTyVar         Role = "ty_var"
	RoleNumber        Role = "number"
	RoleCharacter     Role = "character"
	RoleBoolean       Role = "boolean"
	RoleComment       Role = "comment"
	RoleDocumentation Role = "documentation"
	RoleErrorHead     Role = "error_head"
	RoleErrorNote     Role = "error_note"
	RoleGutter        Role = "gutter"
)

// Theme maps roles to styles and knows how wide rendered output may be.
type Theme struct {
	Styles map[Role]pretty.Style
	Color  bool
	Width  int
}

// DefaultTheme is the colored theme used on terminals.
func DefaultTheme() *Theme {
	return &Theme{
		Color: true,
		Width: pretty.DefaultWidth,
		Styles: map[Role]pretty.Style{
			RoleKeyword:       {Foreground: "5"},
			RoleOperator:      {Foreground: "1"},
			RoleDefVar:        {Foreground: "4", Bold: true},
			RoleExprVar:       {Foreground: "4"},
			RoleTyVar:         {Foreground: "3", Italic: true},
			RoleNumber:        {Foreground: "2"},
			RoleCharacter:     {Foreground: "2"},
			RoleBoolean:       {Foreground: "2"},
			RoleComment:       {Foreground: "8", Italic: true},
			RoleDocumentation: {Foreground: "7", Italic: true},
			RoleErrorHead:     {Foreground: "1", Bold: true},
			RoleErrorNote:     {Foreground: "3"},
			RoleGutter:        {Foreground: "4", Dimmed: true},
		},
	}
}

// PlainTheme renders without any escape sequences.
func PlainTheme() *Theme {
	return &Theme{
		Width:  pretty.DefaultWidth,
		Styles: map[Role]pretty.Style{},
	}
}

// LoadTheme reads a YAML file mapping roles to styles on top of the default
// theme:
//
//	keyword: {fg: "5", bold: true}
//	comment: {fg: "#888888", italic: true}
func LoadTheme(path string) (*Theme, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read theme")
	}
	var styles map[string]pretty.Style
	if err := yaml.Unmarshal(content, &styles); err != nil {
		return nil, errors.Wrapf(err, "parse theme %s", path)
	}
	theme := DefaultTheme()
	for name, style := range styles {
		role := Role(strings.ToLower(name))
		if _, known := theme.Styles[role]; !known {
			return nil, errors.Errorf("theme %s: unknown role %q", path, name)
		}
		theme.Styles[role] = style
	}
	return theme, nil
}

// WithWidth returns a copy of the theme using width.
func (t *Theme) WithWidth(width int) *Theme {
	cp := *t
	if width > 0 {
		cp.Width = width
	}
	return &cp
}

func (t *Theme) style(role Role) pretty.Style {
	if !t.Color {
		return pretty.Style{}
	}
	return t.Styles[role]
}

// Annotate wraps d in the style of role.
func (t *Theme) Annotate(role Role, d pretty.Doc) pretty.Doc {
	return pretty.Annotate(t.style(role), d)
}

// Paint styles a plain string.
func (t *Theme) Paint(role Role, s string) string {
	return t.style(role).Render(s)
}

// Render lays d out at the theme's width.
func (t *Theme) Render(d pretty.Doc) string {
	if t.Color {
		return pretty.StyledString(d, t.Width)
	}
	return pretty.String(d, t.Width)
}

func (t *Theme) Keyword(s string) pretty.Doc  { return t.Annotate(RoleKeyword, pretty.Text(s)) }
func (t *Theme) Operator(s string) pretty.Doc { return t.Annotate(RoleOperator, pretty.Text(s)) }
func (t *Theme) DefVar(s string) pretty.Doc   { return t.Annotate(RoleDefVar, pretty.Text(s)) }
func (t *Theme) ExprVar(s string) pretty.Doc  { return t.Annotate(RoleExprVar, pretty.Text(s)) }
func (t *Theme) TyVar(s string) pretty.Doc    { return t.Annotate(RoleTyVar, pretty.Text(s)) }
func (t *Theme) Comment(s string) pretty.Doc  { return t.Annotate(RoleComment, pretty.Text(s)) }

// Number renders a natural in decimal, grouping digits by three.
func (t *Theme) Number(n *big.Int) pretty.Doc {
	return t.Annotate(RoleNumber, pretty.Text(groupDigits(n.String())))
}

// Character renders a character literal with the usual escapes.
func (t *Theme) Character(c rune) pretty.Doc {
	return t.Annotate(RoleCharacter, pretty.Text(quoteChar(c)))
}

func (t *Theme) Boolean(b bool) pretty.Doc {
	if b {
		return t.Annotate(RoleBoolean, pretty.Text("true"))
	}
	return t.Annotate(RoleBoolean, pretty.Text("false"))
}

// Documentation renders documentation lines, one per line.
func (t *Theme) Documentation(lines []string) pretty.Doc {
	docs := make([]pretty.Doc, len(lines))
	for i, l := range lines {
		docs[i] = t.Annotate(RoleDocumentation, pretty.Text(l))
	}
	return pretty.Intersperse(docs, pretty.HardLine())
}

func groupDigits(s string) string {
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte('_')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

func quoteChar(c rune) string {
	switch c {
	case '\'':
		return `'\''`
	case '\\':
		return `'\\'`
	case '\n':
		return `'\n'`
	case '\r':
		return `'\r'`
	case '\t':
		return `'\t'`
	}
	switch {
	case unicode.IsPrint(c):
		return "'" + string(c) + "'"
	case c < 0x100:
		return fmt.Sprintf(`'\x%02x'`, c)
	default:
		return fmt.Sprintf(`'\u{%x}'`, c)
	}
}
