package lsp

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/creachadair/jrpc2"

	"github.com/vito/start/pkg/start"
)

func (h *Handler) handleInitialize(ctx context.Context, req *jrpc2.Request) (any, error) {
	if !req.HasParams() {
		return nil, jrpc2.Errorf(jrpc2.InvalidParams, "missing parameters")
	}

	var params InitializeParams
	if err := req.UnmarshalParams(&params); err != nil {
		return nil, err
	}

	if params.RootURI != "" {
		rootPath, err := fromURI(params.RootURI)
		if err != nil {
			return nil, jrpc2.Errorf(jrpc2.InvalidParams, "root uri: %v", err)
		}
		h.loadWorkspaceConfig(ctx, filepath.Clean(rootPath))
	}

	return InitializeResult{
		Capabilities: ServerCapabilities{
			TextDocumentSync:           TDSKFull,
			HoverProvider:              true,
			DefinitionProvider:         true,
			DocumentFormattingProvider: true,
		},
		ServerInfo: &ServerInfo{
			Name:    "start",
			Version: h.version,
		},
	}, nil
}

// loadWorkspaceConfig picks up start.toml from the workspace root unless a
// configuration was already given on the command line.
func (h *Handler) loadWorkspaceConfig(ctx context.Context, rootPath string) {
	h.mu.Lock()
	h.rootPath = rootPath
	explicit := h.configPath != ""
	h.mu.Unlock()
	if explicit {
		return
	}

	path, config, err := start.FindProjectConfig(rootPath)
	if err != nil {
		slog.WarnContext(ctx, "failed to load project config", "root", rootPath, "error", err)
		h.logMessage(ctx, MessageWarning, err.Error())
		return
	}
	if config == nil {
		return
	}
	if err := config.ApplyEnv(); err != nil {
		slog.WarnContext(ctx, "ignoring environment overrides", "error", err)
		h.logMessage(ctx, MessageWarning, err.Error())
	}
	slog.InfoContext(ctx, "loaded project config", "path", path)

	h.mu.Lock()
	defer h.mu.Unlock()
	h.config = config
	h.configPath = path
}
