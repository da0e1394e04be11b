package target

import "errors"

var (
	// ErrProcessNotFound is returned when no running process matches the
	// engine's image name.
	ErrProcessNotFound = errors.New("process not found")

	// ErrPortResolutionFailed is returned when the connection table could not
	// be read, e.g. the enumeration tool exited non-zero.
	ErrPortResolutionFailed = errors.New("port resolution failed")

	// ErrPortNotFound is returned when the table was read but holds no
	// loopback socket for the process.
	ErrPortNotFound = errors.New("no loopback port found for process")
)
