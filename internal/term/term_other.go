//go:build !linux && !darwin && !dragonfly && !freebsd && !netbsd && !openbsd

package term

// IsTerminal always reports false on platforms without termios.
func IsTerminal(fd int) bool {
	return false
}
