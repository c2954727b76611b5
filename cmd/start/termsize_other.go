//go:build !unix

package main

import "io"

func terminalWidth(io.Writer) (int, bool) {
	return 0, false
}
