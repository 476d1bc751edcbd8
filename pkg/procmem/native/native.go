// Package native provides the per-operating-system primitives used to copy
// memory out of a target process. Each backend exposes the same contract: a
// bounded copy of a byte range that either transfers the whole range or
// fails. Callers never receive a short read.
package native

import (
	"errors"
	"os"
)

// ErrShortRead is returned when the operating system transferred fewer bytes
// than requested. The untransferred tail is treated as unreadable.
var ErrShortRead = errors.New("short read from target process memory")

// ErrBackendDisabled is returned by Attach on platforms where no native
// backend is available in this build.
var ErrBackendDisabled = errors.New("native backend disabled during compilation")

// Reader copies memory out of one target process. Implementations are only
// ever asked for ranges that lie within a single page of the target, and
// must either fill buf completely or return an error.
//
// A Reader references the target process, it does not own it: closing a
// Reader releases only the resources Attach acquired.
type Reader interface {
	// ReadAt copies len(buf) bytes starting at virtual address addr in the
	// target process into buf. On error the contents of buf are unspecified.
	ReadAt(buf []byte, addr uint64) error

	// PID returns the process ID of the target.
	PID() int

	// Close releases the resources held by this Reader.
	Close() error
}

// PageSize returns the system page size. It is queried once and assumed
// stable for the lifetime of the process.
func PageSize() uint64 {
	return uint64(os.Getpagesize())
}
