package lsp

import (
	"context"

	"github.com/creachadair/jrpc2"
)

func (h *Handler) handleTextDocumentDidChange(ctx context.Context, req *jrpc2.Request) (any, error) {
	if !req.HasParams() {
		return nil, jrpc2.Errorf(jrpc2.InvalidParams, "missing parameters")
	}

	var params DidChangeTextDocumentParams
	if err := req.UnmarshalParams(&params); err != nil {
		return nil, err
	}

	if len(params.ContentChanges) == 0 {
		return nil, nil
	}

	// Full sync: the last change holds the whole text.
	change := params.ContentChanges[len(params.ContentChanges)-1]
	if change.Range != nil {
		return nil, jrpc2.Errorf(jrpc2.InvalidParams, "incremental changes are not supported")
	}
	h.updateFile(params.TextDocument.URI, params.TextDocument.Version, change.Text)
	return nil, nil
}
