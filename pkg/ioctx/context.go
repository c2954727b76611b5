// Package ioctx carries the standard streams of a command through a context,
// so front-ends can be driven from tests without touching os.Stdin.
package ioctx

import (
	"context"
	"io"
	"strings"
)

type (
	stdinKey  struct{}
	stdoutKey struct{}
	stderrKey struct{}
)

// Streams bundles the three standard streams.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// WithStreams stores every non-nil stream of s in ctx.
func WithStreams(ctx context.Context, s Streams) context.Context {
	if s.In != nil {
		ctx = StdinToContext(ctx, s.In)
	}
	if s.Out != nil {
		ctx = StdoutToContext(ctx, s.Out)
	}
	if s.Err != nil {
		ctx = StderrToContext(ctx, s.Err)
	}
	return ctx
}

// StdinFromContext returns the input stream, or an empty reader.
func StdinFromContext(ctx context.Context) io.Reader {
	if r, ok := ctx.Value(stdinKey{}).(io.Reader); ok {
		return r
	}
	return strings.NewReader("")
}

func StdinToContext(ctx context.Context, r io.Reader) context.Context {
	return context.WithValue(ctx, stdinKey{}, r)
}

// StdoutFromContext returns the output stream, discarding by default.
func StdoutFromContext(ctx context.Context) io.Writer {
	if w, ok := ctx.Value(stdoutKey{}).(io.Writer); ok {
		return w
	}
	return io.Discard
}

func StdoutToContext(ctx context.Context, w io.Writer) context.Context {
	return context.WithValue(ctx, stdoutKey{}, w)
}

// StderrFromContext returns the diagnostics stream, discarding by default.
func StderrFromContext(ctx context.Context) io.Writer {
	if w, ok := ctx.Value(stderrKey{}).(io.Writer); ok {
		return w
	}
	return io.Discard
}

func StderrToContext(ctx context.Context, w io.Writer) context.Context {
	return context.WithValue(ctx, stderrKey{}, w)
}
