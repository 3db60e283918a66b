// Package term reports whether a file descriptor refers to a terminal.
//
// The CLI uses it to decide whether to print prompts and to color error
// highlights.
package term

import "os"

// IsTerminalFile reports whether f is connected to a terminal. A nil file
// is not a terminal.
func IsTerminalFile(f *os.File) bool {
	if f == nil {
		return false
	}
	return IsTerminal(int(f.Fd()))
}
