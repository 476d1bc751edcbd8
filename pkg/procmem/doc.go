// Package procmem reads byte ranges and null-terminated strings out of the
// virtual address space of a target process, which may be the calling
// process itself or a separate, possibly crashed, process.
//
// Every request is decomposed into sub-reads that never cross a page
// boundary in the target, so a request either succeeds completely or fails
// because some page it touches is unreadable. There are no partial results:
// on failure the caller's buffer contents are unspecified and string reads
// return nothing. An unreadable address can never crash the inspecting
// process.
package procmem
