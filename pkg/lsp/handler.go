package lsp

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"path/filepath"
	"sync"
	"unicode"

	"github.com/creachadair/jrpc2"
	kr "github.com/kr/pretty"

	"github.com/vito/start/pkg/start"
)

// Handler serves the language server methods. Each change of a document is
// analyzed on its own goroutine; results for versions that were superseded
// in the meantime are dropped.
type Handler struct {
	ctx     context.Context
	version string

	server *jrpc2.Server

	mu         sync.Mutex
	files      map[DocumentURI]*file
	config     *start.ProjectConfig
	configPath string
	rootPath   string
	shutdown   bool
}

// file tracks the latest known version of an open document and its most
// recent analysis.
type file struct {
	version int
	text    string
	doc     *Document
	// gen counts updates, so that resubmissions of one version are told
	// apart.
	gen int

	// ready is closed once the latest version has been analyzed.
	ready   chan struct{}
	pending bool
}

// NewHandler creates a handler using the project configuration stored in
// ctx, if any.
func NewHandler(ctx context.Context, version string) *Handler {
	path, config := start.ProjectConfigFromContext(ctx)
	return &Handler{
		ctx:        ctx,
		version:    version,
		files:      map[DocumentURI]*file{},
		config:     config,
		configPath: path,
	}
}

// SetServer gives the handler the server to push notifications through.
func (h *Handler) SetServer(srv *jrpc2.Server) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.server = srv
}

// Assign implements jrpc2.Assigner.
func (h *Handler) Assign(ctx context.Context, method string) jrpc2.Handler {
	slog.DebugContext(ctx, "assign", "method", method)

	switch method {
	case "initialize":
		return h.handleInitialize
	case "initialized":
		return noop
	case "shutdown":
		return h.handleShutdown
	case "exit":
		return h.handleExit
	case "textDocument/didOpen":
		return h.handleTextDocumentDidOpen
	case "textDocument/didChange":
		return h.handleTextDocumentDidChange
	case "textDocument/didSave":
		return noop
	case "textDocument/didClose":
		return h.handleTextDocumentDidClose
	case "textDocument/hover":
		return h.handleTextDocumentHover
	case "textDocument/definition":
		return h.handleTextDocumentDefinition
	case "textDocument/formatting":
		return h.handleTextDocumentFormatting
	}
	return nil
}

func noop(context.Context, *jrpc2.Request) (any, error) {
	return nil, nil
}

func (h *Handler) projectConfig() *start.ProjectConfig {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.config
}

// updateFile records a new version of uri and analyzes it in the
// background.
func (h *Handler) updateFile(uri DocumentURI, version int, text string) {
	h.mu.Lock()
	f, ok := h.files[uri]
	if !ok {
		f = &file{}
		h.files[uri] = f
	} else if version < f.version {
		h.mu.Unlock()
		slog.DebugContext(h.ctx, "ignoring out of order change", "uri", uri, "version", version, "latest", f.version)
		return
	}
	f.version = version
	f.text = text
	f.gen++
	if !f.pending {
		f.ready = make(chan struct{})
		f.pending = true
	}
	gen := f.gen
	config := h.config
	h.mu.Unlock()

	go h.analyze(f, uri, gen, version, text, config)
}

func (h *Handler) analyze(f *file, uri DocumentURI, gen, version int, text string, config *start.ProjectConfig) {
	ctx := h.ctx
	doc := Analyze(ctx, uri, version, text, config)

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.files[uri] != f || f.gen != gen {
		slog.DebugContext(ctx, "discarding stale analysis", "uri", uri, "version", version)
		return
	}
	f.doc = doc
	if f.pending {
		f.pending = false
		close(f.ready)
	}

	h.publishDiagnostics(ctx, doc)
}

// waitForFile returns the analysis of the latest version of uri, waiting
// for it if needed.
func (h *Handler) waitForFile(ctx context.Context, uri DocumentURI) *Document {
	h.mu.Lock()
	f, ok := h.files[uri]
	if !ok {
		h.mu.Unlock()
		return nil
	}
	ready := f.ready
	h.mu.Unlock()

	select {
	case <-ready:
	case <-ctx.Done():
		return nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if f, ok := h.files[uri]; ok {
		return f.doc
	}
	return nil
}

func (h *Handler) closeFile(uri DocumentURI) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if f, ok := h.files[uri]; ok && f.pending {
		f.pending = false
		close(f.ready)
	}
	delete(h.files, uri)
}

// publishDiagnostics pushes the diagnostics of doc. It is called with h.mu
// held so that publications follow the order of versions.
func (h *Handler) publishDiagnostics(ctx context.Context, doc *Document) {
	if h.server == nil {
		return
	}
	diagnostics := doc.Diagnostics
	if diagnostics == nil {
		diagnostics = []Diagnostic{}
	}
	params := &PublishDiagnosticsParams{
		URI:         doc.URI,
		Version:     doc.Version,
		Diagnostics: diagnostics,
	}
	slog.DebugContext(ctx, "publishing diagnostics", "params", fmt.Sprintf("%# v", kr.Formatter(params)))
	if err := h.server.Notify(ctx, "textDocument/publishDiagnostics", params); err != nil {
		slog.ErrorContext(ctx, "failed to publish diagnostics", "error", err)
	}
}

func (h *Handler) logMessage(ctx context.Context, typ MessageType, message string) {
	h.mu.Lock()
	srv := h.server
	h.mu.Unlock()
	if srv == nil {
		return
	}
	if err := srv.Notify(ctx, "window/logMessage", &LogMessageParams{Type: typ, Message: message}); err != nil {
		slog.WarnContext(ctx, "failed to log message", "error", err)
	}
}

func isWindowsDrivePath(path string) bool {
	if len(path) < 4 {
		return false
	}
	return unicode.IsLetter(rune(path[0])) && path[1] == ':'
}

func isWindowsDriveURI(uri string) bool {
	if len(uri) < 4 {
		return false
	}
	return uri[0] == '/' && unicode.IsLetter(rune(uri[1])) && uri[2] == ':'
}

func fromURI(uri DocumentURI) (string, error) {
	u, err := url.ParseRequestURI(string(uri))
	if err != nil {
		return "", err
	}
	if u.Scheme != "file" {
		return "", fmt.Errorf("only file URIs are supported, got %v", u.Scheme)
	}
	if isWindowsDriveURI(u.Path) {
		u.Path = u.Path[1:]
	}
	return u.Path, nil
}

// ToURI turns a file path into a file:// URI.
func ToURI(path string) DocumentURI {
	if isWindowsDrivePath(path) {
		path = "/" + path
	}
	return DocumentURI((&url.URL{
		Scheme: "file",
		Path:   filepath.ToSlash(path),
	}).String())
}
