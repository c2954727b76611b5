package lsp

import (
	"context"
	"log/slog"

	"github.com/creachadair/jrpc2"
)

func (h *Handler) handleTextDocumentDidOpen(ctx context.Context, req *jrpc2.Request) (any, error) {
	if !req.HasParams() {
		return nil, jrpc2.Errorf(jrpc2.InvalidParams, "missing parameters")
	}

	var params DidOpenTextDocumentParams
	if err := req.UnmarshalParams(&params); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "document opened", "uri", params.TextDocument.URI, "version", params.TextDocument.Version)
	h.updateFile(params.TextDocument.URI, params.TextDocument.Version, params.TextDocument.Text)
	return nil, nil
}
