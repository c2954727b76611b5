package lsp

import (
	"context"

	"github.com/creachadair/jrpc2"
)

func (h *Handler) handleTextDocumentDefinition(ctx context.Context, req *jrpc2.Request) (any, error) {
	if !req.HasParams() {
		return nil, jrpc2.Errorf(jrpc2.InvalidParams, "missing parameters")
	}

	var params DocumentDefinitionParams
	if err := req.UnmarshalParams(&params); err != nil {
		return nil, err
	}

	doc := h.waitForFile(ctx, params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	if loc := doc.Definition(params.Position); loc != nil {
		return loc, nil
	}
	return nil, nil
}
