package lsp

import (
	"context"
	"log/slog"

	"github.com/creachadair/jrpc2"

	"github.com/vito/start/pkg/start"
)

func (h *Handler) handleTextDocumentFormatting(ctx context.Context, req *jrpc2.Request) (any, error) {
	if !req.HasParams() {
		return nil, jrpc2.Errorf(jrpc2.InvalidParams, "missing parameters")
	}

	var params DocumentFormattingParams
	if err := req.UnmarshalParams(&params); err != nil {
		return nil, err
	}

	doc := h.waitForFile(ctx, params.TextDocument.URI)
	if doc == nil {
		return nil, jrpc2.Errorf(jrpc2.InvalidParams, "document not found: %v", params.TextDocument.URI)
	}

	width := h.projectConfig().FormatWidth()
	formatted, err := start.FormatSource(start.URISource(string(doc.URI)), doc.Text, width)
	if err != nil {
		// The errors are already published as diagnostics.
		slog.DebugContext(ctx, "not formatting", "uri", doc.URI, "error", err)
		return []TextEdit{}, nil
	}
	if formatted == doc.Text {
		return []TextEdit{}, nil
	}

	return []TextEdit{{
		Range:   doc.FullRange(),
		NewText: formatted,
	}}, nil
}
