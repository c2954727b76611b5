package start

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/vito/start/pkg/pretty"
)

// FormatFile parses and formats a Start source file at the default width.
func FormatFile(source []byte) (string, error) {
	return FormatSource(FileSource("format"), string(source), pretty.DefaultWidth)
}

// FormatSource parses text and renders it in canonical form. Lexing and
// parsing errors are returned as Diagnostics.
func FormatSource(id SourceID, text string, width int) (string, error) {
	file, diags := ParseFile(id, text)
	if len(diags) > 0 {
		return "", Diagnostics(diags)
	}
	return Format(file, width), nil
}

// Format renders a parsed file. The result is empty for a file with no
// commands and no comments, and otherwise ends with exactly one newline.
func Format(file *File, width int) string {
	t := PlainTheme().WithWidth(width)
	out := strings.TrimRight(t.Render(t.FileDoc(file)), "\n")
	if out == "" {
		return ""
	}
	return out + "\n"
}

type FormatMode int

const (
	// FormatPrint writes the formatted text to Stdout.
	FormatPrint FormatMode = iota
	// FormatOverwrite rewrites the file when the formatted text differs.
	FormatOverwrite
	// FormatDiff writes a unified diff to Stdout when the text differs.
	FormatDiff
	// FormatList writes the path to Stdout when the text differs.
	FormatList
)

// Formatter formats files on disk.
type Formatter struct {
	Mode   FormatMode
	Width  int
	Stdout io.Writer
}

// FormatPath formats the file at path according to the mode. It reports
// whether the formatted text differs from the file. Read, write, lexing and
// parsing failures are returned as Diagnostics, after which neither writing
// nor diffing is attempted.
func (f *Formatter) FormatPath(ctx context.Context, path string) (changed bool, err error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return false, Diagnostics{ErrFileRead(path, errors.Wrap(err, "format"))}
	}
	width := f.Width
	if width <= 0 {
		width = pretty.DefaultWidth
	}
	source := string(content)
	formatted, err := FormatSource(FileSource(path), source, width)
	if err != nil {
		return false, err
	}
	changed = formatted != source
	slog.DebugContext(ctx, "formatted", "path", path, "changed", changed, "mode", f.Mode)

	switch f.Mode {
	case FormatPrint:
		_, err = io.WriteString(f.Stdout, formatted)
	case FormatOverwrite:
		if changed {
			if werr := os.WriteFile(path, []byte(formatted), 0644); werr != nil {
				return changed, Diagnostics{ErrFileWrite(path, werr)}
			}
		}
	case FormatDiff:
		if changed {
			err = WriteDiff(f.Stdout, path, source, formatted)
		}
	case FormatList:
		if changed {
			_, err = fmt.Fprintln(f.Stdout, path)
		}
	}
	return changed, err
}

// WriteDiff writes a unified line diff between the original and formatted
// text.
func WriteDiff(w io.Writer, path, original, formatted string) error {
	return difflib.WriteUnifiedDiff(w, difflib.UnifiedDiff{
		A:        difflib.SplitLines(original),
		B:        difflib.SplitLines(formatted),
		FromFile: path,
		ToFile:   path + " (formatted)",
		Context:  3,
	})
}
