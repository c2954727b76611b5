package main

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/vito/start/pkg/ioctx"
)

func runFile(ctx context.Context, cfg Config, path string) error {
	setupLogging(ioctx.StderrFromContext(ctx), cfg.Debug)

	configPath, config, err := loadConfig(cfg, filepath.Dir(path))
	if err != nil {
		return err
	}
	slog.DebugContext(ctx, "running file", "path", path, "config", configPath)

	d, err := newDriver(ctx, config)
	if err != nil {
		return err
	}
	d.RunFile(ctx, path)

	if code := d.ExitCode(); code != 0 {
		slog.DebugContext(ctx, "run failed", "path", path, "code", code)
		return exitError{code: code}
	}
	return nil
}
