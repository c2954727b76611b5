package main

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

const maxHistoryEntries = 1000

// replHistory keeps REPL inputs, persisted one escaped entry per line.
type replHistory struct {
	entries []string
	path    string
}

func newReplHistory() *replHistory {
	return &replHistory{path: historyFilePath()}
}

// historyFilePath is $XDG_DATA_HOME/start/history, defaulting to
// ~/.local/share/start/history.
func historyFilePath() string {
	base := os.Getenv("XDG_DATA_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(os.TempDir(), "start_history")
		}
		base = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(base, "start", "history")
}

// Add records an input unless it repeats the previous one.
func (h *replHistory) Add(entry string) {
	if n := len(h.entries); n > 0 && h.entries[n-1] == entry {
		return
	}
	h.entries = append(h.entries, entry)
	h.persist(entry)
}

// Last returns up to n of the most recent entries, oldest first.
func (h *replHistory) Last(n int) []string {
	return h.entries[len(h.entries)-min(n, len(h.entries)):]
}

// Load reads the history file. A file holding more than maxHistoryEntries
// is cut down to the newest ones.
func (h *replHistory) Load() {
	f, err := os.Open(h.path)
	if err != nil {
		return
	}
	scanner := bufio.NewScanner(f)
	scanner.Buffer(nil, 1<<20)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			h.entries = append(h.entries, historyDecode(line))
		}
	}
	_ = f.Close()

	if extra := len(h.entries) - maxHistoryEntries; extra > 0 {
		h.entries = h.entries[extra:]
		h.compact()
	}
}

func (h *replHistory) persist(entry string) {
	if err := os.MkdirAll(filepath.Dir(h.path), 0755); err != nil {
		return
	}
	f, err := os.OpenFile(h.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return
	}
	_, _ = f.WriteString(historyEncode(entry) + "\n")
	_ = f.Close()
}

// compact replaces the file with the entries kept in memory.
func (h *replHistory) compact() {
	var b strings.Builder
	for _, entry := range h.entries {
		b.WriteString(historyEncode(entry))
		b.WriteByte('\n')
	}
	tmp := h.path + ".tmp"
	if err := os.WriteFile(tmp, []byte(b.String()), 0644); err != nil {
		return
	}
	_ = os.Rename(tmp, h.path)
}

var historyEscaper = strings.NewReplacer(`\`, `\\`, "\n", `\n`)

// historyEncode keeps an entry on one line.
func historyEncode(s string) string {
	return historyEscaper.Replace(s)
}

func historyDecode(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	escaped := false
	for _, r := range s {
		switch {
		case escaped && r == 'n':
			b.WriteByte('\n')
		case escaped && r == '\\':
			b.WriteByte('\\')
		case escaped:
			b.WriteByte('\\')
			b.WriteRune(r)
		case r == '\\':
			escaped = true
			continue
		default:
			b.WriteRune(r)
		}
		escaped = false
	}
	if escaped {
		b.WriteByte('\\')
	}
	return b.String()
}
