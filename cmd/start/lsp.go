package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/creachadair/jrpc2"
	"github.com/creachadair/jrpc2/channel"

	"github.com/vito/start/pkg/ioctx"
	"github.com/vito/start/pkg/lsp"
	"github.com/vito/start/pkg/start"
)

func runLSP(ctx context.Context, cfg Config) error {
	var logDest io.Writer = ioctx.StderrFromContext(ctx)
	if cfg.LSPLogFile != "" {
		logFile, err := os.Create(cfg.LSPLogFile)
		if err != nil {
			return fmt.Errorf("open lsp log: %w", err)
		}
		defer logFile.Close() //nolint:errcheck
		logDest = logFile
	}

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(logDest, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	// Without --config the workspace root given by the client decides.
	if cfg.ConfigFile != "" {
		path, config, err := loadConfig(cfg, "")
		if err != nil {
			return err
		}
		ctx = start.ContextWithProjectConfig(ctx, path, config)
	}

	logger.InfoContext(ctx, "starting LSP server", "version", version)

	handler := lsp.NewHandler(ctx, version)
	srv := jrpc2.NewServer(handler, &jrpc2.ServerOptions{
		AllowPush: true,
		Logger:    func(text string) { logger.Debug(text) },
	})
	handler.SetServer(srv)

	rwc := stdio{
		in:  ioctx.StdinFromContext(ctx),
		out: ioctx.StdoutFromContext(ctx),
	}
	srv.Start(channel.LSP(rwc, rwc))

	logger.InfoContext(ctx, "LSP server closed", "error", srv.Wait())
	return nil
}

// stdio joins the process input and output into the single stream the
// LSP framing expects.
type stdio struct {
	in  io.Reader
	out io.Writer
}

func (s stdio) Read(p []byte) (int, error) {
	return s.in.Read(p)
}

func (s stdio) Write(p []byte) (int, error) {
	return s.out.Write(p)
}

func (s stdio) Close() error {
	if c, ok := s.in.(io.Closer); ok {
		if err := c.Close(); err != nil {
			return err
		}
	}
	if c, ok := s.out.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
