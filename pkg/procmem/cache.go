package procmem

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru"
)

// CachedMemory is a read-through page cache over a MemoryReader. It is
// meant for the repeated small structure reads a postmortem inspector
// performs while walking a crashed process: each distinct page is fetched
// from the target once and then served locally until evicted.
//
// Failed page fetches are never cached, and the cache never outlives one
// inspection pass by design of its callers; a target whose memory is still
// changing should not be read through a cache at all.
type CachedMemory struct {
	mem      MemoryReader
	pageSize uint64
	pages    *lru.Cache
}

// NewCachedMemory caches up to maxPages pages of pageSize bytes read from
// mem. pageSize must be a power of two.
func NewCachedMemory(mem MemoryReader, pageSize uint64, maxPages int) (*CachedMemory, error) {
	if pageSize == 0 || pageSize&(pageSize-1) != 0 {
		return nil, fmt.Errorf("page size %d is not a power of two", pageSize)
	}
	pages, err := lru.New(maxPages)
	if err != nil {
		return nil, err
	}
	return &CachedMemory{mem: mem, pageSize: pageSize, pages: pages}, nil
}

// ReadMemory implements MemoryReader with the same all-or-nothing contract
// as the engine itself.
func (c *CachedMemory) ReadMemory(buf []byte, addr uint64) (int, error) {
	size := uint64(len(buf))
	if size == 0 {
		return 0, nil
	}
	if addr+size < addr {
		return 0, fmt.Errorf("read of %d bytes at %#x overflows the address space", size, addr)
	}
	done := uint64(0)
	for done < size {
		cur := addr + done
		page, err := c.page(cur &^ (c.pageSize - 1))
		if err != nil {
			return 0, err
		}
		n := copy(buf[done:], page[cur%c.pageSize:])
		done += uint64(n)
	}
	return len(buf), nil
}

func (c *CachedMemory) page(base uint64) ([]byte, error) {
	if v, ok := c.pages.Get(base); ok {
		return v.([]byte), nil
	}
	page := make([]byte, c.pageSize)
	if _, err := c.mem.ReadMemory(page, base); err != nil {
		return nil, err
	}
	c.pages.Add(base, page)
	return page, nil
}
