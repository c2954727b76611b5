package lsp

import (
	"context"
	"log/slog"

	"github.com/creachadair/jrpc2"
)

func (h *Handler) handleTextDocumentHover(ctx context.Context, req *jrpc2.Request) (any, error) {
	if !req.HasParams() {
		return nil, jrpc2.Errorf(jrpc2.InvalidParams, "missing parameters")
	}

	var params HoverParams
	if err := req.UnmarshalParams(&params); err != nil {
		return nil, err
	}

	doc := h.waitForFile(ctx, params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}

	hover := doc.Hover(params.Position)
	slog.DebugContext(ctx, "hover", "uri", params.TextDocument.URI, "position", params.Position, "found", hover != nil)
	if hover == nil {
		return nil, nil
	}
	return hover, nil
}
