package start

import (
	"context"
	_ "embed"
)

//go:embed stdlib.st
var stdlibSource string

// StdlibText is the prelude run before user code.
func StdlibText() string {
	return stdlibSource
}

// LoadStdlib runs the prelude under the stdlib source id.
func (d *Driver) LoadStdlib(ctx context.Context) {
	d.RunSource(ctx, StdlibSource(), stdlibSource)
}
