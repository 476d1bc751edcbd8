package procmem

import (
	"errors"
	"io"
)

// MemoryReader is like io.ReaderAt, but the offset is a uint64 so that it
// can address all of 64-bit memory. Implementations are all-or-nothing: n
// is len(buf) on success and the error is non-nil otherwise.
type MemoryReader interface {
	ReadMemory(buf []byte, addr uint64) (n int, err error)
}

// ReadMemory makes *ProcessMemory satisfy MemoryReader.
func (p *ProcessMemory) ReadMemory(buf []byte, addr uint64) (int, error) {
	if err := p.Read(addr, buf); err != nil {
		return 0, err
	}
	return len(buf), nil
}

var errNegativeOffset = errors.New("negative offset reading process memory")

type readerAt struct {
	m MemoryReader
}

// ReaderAt adapts a MemoryReader to io.ReaderAt so that target memory can
// be handed to standard library consumers. Addresses above 1<<63-1 are not
// representable as an io offset and fail.
func ReaderAt(m MemoryReader) io.ReaderAt {
	return readerAt{m}
}

func (r readerAt) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, errNegativeOffset
	}
	return r.m.ReadMemory(p, uint64(off))
}

// StreamReader is an io.Reader that walks forward through target memory
// from a starting address.
type StreamReader struct {
	m    MemoryReader
	addr uint64
}

// NewStreamReader returns a StreamReader positioned at addr.
func NewStreamReader(m MemoryReader, addr uint64) *StreamReader {
	return &StreamReader{m: m, addr: addr}
}

func (r *StreamReader) Read(p []byte) (int, error) {
	n, err := r.m.ReadMemory(p, r.addr)
	if err != nil {
		return 0, err
	}
	r.addr += uint64(n)
	return n, nil
}

// Addr returns the address the next Read will start from.
func (r *StreamReader) Addr() uint64 {
	return r.addr
}
