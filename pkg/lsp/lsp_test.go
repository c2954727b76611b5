package lsp

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/creachadair/jrpc2"
	"github.com/creachadair/jrpc2/channel"
	"github.com/dagger/testctx"
	"github.com/dagger/testctx/oteltest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	os.Exit(oteltest.Main(m))
}

type ServerSuite struct{}

func TestServer(tT *testing.T) {
	testctx.New(tT,
		oteltest.WithTracing[*testing.T](),
		oteltest.WithLogging[*testing.T](),
	).RunTests(ServerSuite{})
}

type session struct {
	client      *jrpc2.Client
	server      *jrpc2.Server
	diagnostics chan PublishDiagnosticsParams
}

// startSession runs a server in-process and initializes it with root as
// the workspace.
func startSession(ctx context.Context, t *testctx.T, root string) *session {
	s := &session{diagnostics: make(chan PublishDiagnosticsParams, 16)}

	cch, sch := channel.Direct()
	handler := NewHandler(ctx, "test")
	s.server = jrpc2.NewServer(handler, &jrpc2.ServerOptions{AllowPush: true})
	handler.SetServer(s.server)
	s.server.Start(sch)

	s.client = jrpc2.NewClient(cch, &jrpc2.ClientOptions{
		OnNotify: func(req *jrpc2.Request) {
			if req.Method() != "textDocument/publishDiagnostics" {
				return
			}
			var params PublishDiagnosticsParams
			if err := req.UnmarshalParams(&params); err == nil {
				s.diagnostics <- params
			}
		},
	})
	t.Cleanup(func() {
		s.client.Close()
		s.server.Stop()
	})

	var result InitializeResult
	require.NoError(t, s.client.CallResult(ctx, "initialize", InitializeParams{
		RootURI: ToURI(root),
	}, &result))
	require.True(t, result.Capabilities.HoverProvider)
	require.Equal(t, TDSKFull, result.Capabilities.TextDocumentSync)
	require.Equal(t, "start", result.ServerInfo.Name)
	require.NoError(t, s.client.Notify(ctx, "initialized", struct{}{}))
	return s
}

func (s *session) open(ctx context.Context, t *testctx.T, uri DocumentURI, text string) {
	require.NoError(t, s.client.Notify(ctx, "textDocument/didOpen", DidOpenTextDocumentParams{
		TextDocument: TextDocumentItem{URI: uri, LanguageID: "start", Version: 1, Text: text},
	}))
}

func (s *session) change(ctx context.Context, t *testctx.T, uri DocumentURI, version int, text string) {
	require.NoError(t, s.client.Notify(ctx, "textDocument/didChange", DidChangeTextDocumentParams{
		TextDocument:   VersionedTextDocumentIdentifier{URI: uri, Version: version},
		ContentChanges: []TextDocumentContentChangeEvent{{Text: text}},
	}))
}

func (s *session) nextDiagnostics(t *testctx.T) PublishDiagnosticsParams {
	select {
	case params := <-s.diagnostics:
		return params
	case <-time.After(10 * time.Second):
		t.Fatal("timed out waiting for diagnostics")
		return PublishDiagnosticsParams{}
	}
}

func (s *session) hover(ctx context.Context, t *testctx.T, uri DocumentURI, at Position) *Hover {
	rsp, err := s.client.Call(ctx, "textDocument/hover", HoverParams{
		TextDocumentPositionParams{TextDocument: TextDocumentIdentifier{URI: uri}, Position: at},
	})
	require.NoError(t, err)
	var hover *Hover
	require.NoError(t, rsp.UnmarshalResult(&hover))
	return hover
}

func (ServerSuite) TestHover(ctx context.Context, t *testctx.T) {
	root := t.TempDir()
	s := startSession(ctx, t, root)
	uri := ToURI(filepath.Join(root, "main.st"))

	s.open(ctx, t, uri, hoverSource)
	diags := s.nextDiagnostics(t)
	assert.Equal(t, uri, diags.URI)
	assert.Equal(t, 1, diags.Version)
	require.Len(t, diags.Diagnostics, 1)
	assert.Equal(t, SeverityInformation, diags.Diagnostics[0].Severity)

	hover := s.hover(ctx, t, uri, pos(1, 5))
	require.NotNil(t, hover)
	assert.Equal(t, "```start\nN0 := __Type_Nat__\n```\n\n---\n\nDocumentation of N0.", hover.Contents.Value)
	assert.Equal(t, rng(1, 5, 7), *hover.Range)

	hover = s.hover(ctx, t, uri, pos(3, 11))
	require.NotNil(t, hover)
	assert.Equal(t, "```start\na : N0\n```\n\n---\n\nDocumentation of a.", hover.Contents.Value)

	assert.Nil(t, s.hover(ctx, t, uri, pos(0, 0)))
}

func (ServerSuite) TestChangesRepublishDiagnostics(ctx context.Context, t *testctx.T) {
	root := t.TempDir()
	s := startSession(ctx, t, root)
	uri := ToURI(filepath.Join(root, "main.st"))

	s.open(ctx, t, uri, "Definition a := 1.\n")
	diags := s.nextDiagnostics(t)
	assert.Empty(t, diags.Diagnostics)

	s.change(ctx, t, uri, 2, "Definition a := 1.\nEval b.\n")
	diags = s.nextDiagnostics(t)
	assert.Equal(t, 2, diags.Version)
	require.Len(t, diags.Diagnostics, 1)
	assert.Equal(t, SeverityError, diags.Diagnostics[0].Severity)
	assert.Equal(t, 301, diags.Diagnostics[0].Code)
	assert.Equal(t, "Variable b not found in the current scope.", diags.Diagnostics[0].Message)
	assert.Equal(t, rng(1, 5, 6), diags.Diagnostics[0].Range)

	s.change(ctx, t, uri, 3, "Definition a := 1.\nEval a.\n")
	diags = s.nextDiagnostics(t)
	assert.Equal(t, 3, diags.Version)
	require.Len(t, diags.Diagnostics, 1)
	assert.Equal(t, "1", diags.Diagnostics[0].Message)

	hover := s.hover(ctx, t, uri, pos(1, 5))
	require.NotNil(t, hover)
	assert.Contains(t, hover.Contents.Value, "a : __Type_Nat__")
}

func (ServerSuite) TestFormatting(ctx context.Context, t *testctx.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "start.toml"), []byte("[format]\nwidth = 20\n"), 0644))
	s := startSession(ctx, t, root)
	uri := ToURI(filepath.Join(root, "main.st"))

	s.open(ctx, t, uri, "Definition long_name : Nat := 123456789.\nEval   long_name .")
	s.nextDiagnostics(t)

	var edits []TextEdit
	require.NoError(t, s.client.CallResult(ctx, "textDocument/formatting", DocumentFormattingParams{
		TextDocument: TextDocumentIdentifier{URI: uri},
	}, &edits))
	require.Len(t, edits, 1)
	assert.Equal(t, rng(0, 0, 0).Start, edits[0].Range.Start)
	assert.Equal(t, pos(1, 18), edits[0].Range.End)
	assert.Equal(t, "Definition long_name : Nat :=\n  123456789.\nEval long_name.\n", edits[0].NewText)

	s.change(ctx, t, uri, 2, "Eval .")
	s.nextDiagnostics(t)
	require.NoError(t, s.client.CallResult(ctx, "textDocument/formatting", DocumentFormattingParams{
		TextDocument: TextDocumentIdentifier{URI: uri},
	}, &edits))
	assert.Empty(t, edits)
}

func (ServerSuite) TestDefinition(ctx context.Context, t *testctx.T) {
	root := t.TempDir()
	s := startSession(ctx, t, root)
	uri := ToURI(filepath.Join(root, "main.st"))

	s.open(ctx, t, uri, hoverSource)
	s.nextDiagnostics(t)

	var loc *Location
	require.NoError(t, s.client.CallResult(ctx, "textDocument/definition", DocumentDefinitionParams{
		TextDocumentPositionParams{TextDocument: TextDocumentIdentifier{URI: uri}, Position: pos(4, 5)},
	}, &loc))
	require.NotNil(t, loc)
	assert.Equal(t, Location{URI: uri, Range: rng(3, 11, 12)}, *loc)
}

func (ServerSuite) TestCloseForgetsDocument(ctx context.Context, t *testctx.T) {
	root := t.TempDir()
	s := startSession(ctx, t, root)
	uri := ToURI(filepath.Join(root, "main.st"))

	s.open(ctx, t, uri, hoverSource)
	s.nextDiagnostics(t)
	require.NotNil(t, s.hover(ctx, t, uri, pos(1, 5)))

	require.NoError(t, s.client.Notify(ctx, "textDocument/didClose", DidCloseTextDocumentParams{
		TextDocument: TextDocumentIdentifier{URI: uri},
	}))
	assert.Nil(t, s.hover(ctx, t, uri, pos(1, 5)))
}

func (ServerSuite) TestShutdownAndExit(ctx context.Context, t *testctx.T) {
	s := startSession(ctx, t, t.TempDir())

	rsp, err := s.client.Call(ctx, "shutdown", nil)
	require.NoError(t, err)
	var result json.RawMessage
	require.NoError(t, rsp.UnmarshalResult(&result))
	assert.Equal(t, "null", string(result))

	require.NoError(t, s.client.Notify(ctx, "exit", nil))
	done := make(chan error, 1)
	go func() { done <- s.server.Wait() }()
	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("server did not stop after exit")
	}
}

func (ServerSuite) TestUnknownMethod(ctx context.Context, t *testctx.T) {
	s := startSession(ctx, t, t.TempDir())
	_, err := s.client.Call(ctx, "textDocument/completion", nil)
	require.Error(t, err)
	assert.Equal(t, jrpc2.MethodNotFound, jrpc2.ErrorCode(err))
}
