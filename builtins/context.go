package builtins

import (
	"context"
	"io"
	"os"
)

type contextKey string

const stdoutKey = contextKey("framevm:stdout")

// WithStdout returns a context that directs print() output to w.
func WithStdout(ctx context.Context, w io.Writer) context.Context {
	return context.WithValue(ctx, stdoutKey, w)
}

// GetStdout returns the writer used by print(). Defaults to os.Stdout.
func GetStdout(ctx context.Context) io.Writer {
	if w, ok := ctx.Value(stdoutKey).(io.Writer); ok && w != nil {
		return w
	}
	return os.Stdout
}
