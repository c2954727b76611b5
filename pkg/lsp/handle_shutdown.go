package lsp

import (
	"context"
	"log/slog"

	"github.com/creachadair/jrpc2"
)

func (h *Handler) handleShutdown(ctx context.Context, req *jrpc2.Request) (any, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.shutdown = true
	slog.InfoContext(ctx, "shutdown requested", "open", len(h.files))
	return nil, nil
}

func (h *Handler) handleExit(ctx context.Context, req *jrpc2.Request) (any, error) {
	h.mu.Lock()
	srv := h.server
	clean := h.shutdown
	h.mu.Unlock()

	if !clean {
		slog.WarnContext(ctx, "exit without shutdown")
	}
	if srv != nil {
		// Stop waits for running handlers, including this one.
		go srv.Stop()
	}
	return nil, nil
}
