package procmem

import (
	"bytes"
	"fmt"

	"github.com/shraddhaarora/crashpad/pkg/logflags"
	"github.com/shraddhaarora/crashpad/pkg/procmem/native"
)

// defaultStringChunk is the scan increment used while looking for a string
// terminator. Each increment is further clipped to the containing page, so
// the choice only affects how much is fetched per step, not which failures
// are observable.
const defaultStringChunk = 256

// ProcessMemory provides page-safe access to the memory of one target
// process. It holds no mutable state between calls, so it is safe for
// concurrent use whenever the underlying native.Reader is.
type ProcessMemory struct {
	mem      native.Reader
	pageSize uint64
	log      logflags.Logger
}

// Attach binds a new ProcessMemory to the process identified by pid using
// the native backend for this platform. A failed attach returns no engine;
// there is nothing to re-initialize.
func Attach(pid int) (*ProcessMemory, error) {
	r, err := native.Attach(pid)
	if err != nil {
		return nil, err
	}
	return New(r), nil
}

// New wraps an already attached native.Reader. The reader is referenced,
// not owned; Close releases it.
func New(r native.Reader) *ProcessMemory {
	return newProcessMemory(r, native.PageSize())
}

func newProcessMemory(r native.Reader, pageSize uint64) *ProcessMemory {
	return &ProcessMemory{
		mem:      r,
		pageSize: pageSize,
		log:      logflags.ProcMemLogger(),
	}
}

// PID returns the process ID of the target.
func (p *ProcessMemory) PID() int {
	return p.mem.PID()
}

// Close releases the native reader.
func (p *ProcessMemory) Close() error {
	return p.mem.Close()
}

// Read copies len(buf) bytes starting at virtual address addr in the target
// process into buf.
//
// The request is decomposed into sub-reads confined to single pages of the
// target: the first sub-read runs from addr to the end of its containing
// page, subsequent ones cover a full page each, the last covers the
// remainder. The first failing sub-read fails the whole call; bytes already
// copied are not rolled back, so on error the contents of buf are
// unspecified.
//
// A zero-length buf succeeds unconditionally without touching the target,
// even if addr is invalid.
func (p *ProcessMemory) Read(addr uint64, buf []byte) error {
	size := uint64(len(buf))
	if size == 0 {
		return nil
	}
	if addr+size < addr {
		return fmt.Errorf("read of %d bytes at %#x overflows the address space", size, addr)
	}
	done := uint64(0)
	for done < size {
		cur := addr + done
		chunk := p.pageSize - cur%p.pageSize
		if remaining := size - done; chunk > remaining {
			chunk = remaining
		}
		if err := p.mem.ReadAt(buf[done:done+chunk], cur); err != nil {
			p.log.Debugf("read of %d bytes at %#x: unreadable page %#x: %v", size, addr, cur-cur%p.pageSize, err)
			return fmt.Errorf("read of %d bytes at %#x: page %#x: %w", size, addr, cur-cur%p.pageSize, err)
		}
		done += chunk
	}
	return nil
}

// ReadCString reads a null-terminated string starting at addr. The result
// never includes the terminator. The scan is unbounded by the caller but
// still fails, rather than reading past the mapped region, once it crosses
// into unreadable memory without having found a terminator.
func (p *ProcessMemory) ReadCString(addr uint64) ([]byte, error) {
	return p.readCString(addr, false, 0)
}

// ReadCStringSizeLimited reads a null-terminated string starting at addr,
// consuming at most sizeLimit bytes including the terminator: a string of N
// content bytes needs sizeLimit >= N+1. If no terminator is found within
// sizeLimit bytes the call fails even when that whole prefix is readable.
func (p *ProcessMemory) ReadCStringSizeLimited(addr uint64, sizeLimit uint64) ([]byte, error) {
	return p.readCString(addr, true, sizeLimit)
}

func (p *ProcessMemory) readCString(addr uint64, hasLimit bool, sizeLimit uint64) ([]byte, error) {
	start := addr
	result := make([]byte, 0, defaultStringChunk)
	buf := make([]byte, defaultStringChunk)
	for {
		if hasLimit && sizeLimit == 0 {
			return nil, fmt.Errorf("no string terminator at %#x within size limit", start)
		}
		chunk := uint64(defaultStringChunk)
		// Clip to the containing page so a string that ends just before an
		// unreadable page can still be recovered, and a scan that crosses
		// into one fails exactly at the boundary.
		if toPageEnd := p.pageSize - addr%p.pageSize; chunk > toPageEnd {
			chunk = toPageEnd
		}
		if hasLimit && chunk > sizeLimit {
			chunk = sizeLimit
		}
		if err := p.Read(addr, buf[:chunk]); err != nil {
			return nil, fmt.Errorf("string read at %#x: %w", start, err)
		}
		if i := bytes.IndexByte(buf[:chunk], 0); i >= 0 {
			return append(result, buf[:i]...), nil
		}
		result = append(result, buf[:chunk]...)
		addr += chunk
		if hasLimit {
			sizeLimit -= chunk
		}
	}
}
