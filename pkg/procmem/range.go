package procmem

import "fmt"

// MemoryRange is a view of a MemoryReader restricted to [base, base+size).
// Accesses outside the window fail before touching the underlying reader.
// Restriction only ever narrows: a sub-range can be carved out of an
// existing range, never widened.
type MemoryRange struct {
	m    MemoryReader
	base uint64
	size uint64
}

// NewMemoryRange restricts m to [base, base+size).
func NewMemoryRange(m MemoryReader, base, size uint64) (*MemoryRange, error) {
	if base+size < base {
		return nil, fmt.Errorf("range of %d bytes at %#x overflows the address space", size, base)
	}
	return &MemoryRange{m: m, base: base, size: size}, nil
}

// Base returns the lowest address of the range.
func (r *MemoryRange) Base() uint64 {
	return r.base
}

// Size returns the length of the range in bytes.
func (r *MemoryRange) Size() uint64 {
	return r.size
}

// contains reports whether [addr, addr+n) lies within the range. Written in
// a form that cannot overflow for addresses near the top of the address
// space.
func (r *MemoryRange) contains(addr, n uint64) bool {
	if n > r.size {
		return false
	}
	return addr >= r.base && addr-r.base <= r.size-n
}

// ReadMemory implements MemoryReader. Zero-length reads succeed regardless
// of addr, matching the engine's contract.
func (r *MemoryRange) ReadMemory(buf []byte, addr uint64) (int, error) {
	if len(buf) == 0 {
		return 0, nil
	}
	if !r.contains(addr, uint64(len(buf))) {
		return 0, fmt.Errorf("read of %d bytes at %#x outside range [%#x, %#x)", len(buf), addr, r.base, r.base+r.size)
	}
	return r.m.ReadMemory(buf, addr)
}

// RestrictTo returns a new MemoryRange covering [base, base+size), which
// must lie entirely within the current range.
func (r *MemoryRange) RestrictTo(base, size uint64) (*MemoryRange, error) {
	if base+size < base {
		return nil, fmt.Errorf("range of %d bytes at %#x overflows the address space", size, base)
	}
	if !r.contains(base, size) {
		return nil, fmt.Errorf("range [%#x, %#x) does not contain [%#x, %#x)", r.base, r.base+r.size, base, base+size)
	}
	return &MemoryRange{m: r.m, base: base, size: size}, nil
}
