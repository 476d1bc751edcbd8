package native

import (
	"fmt"
	"os"
	"sync/atomic"

	sys "golang.org/x/sys/unix"

	"github.com/shraddhaarora/crashpad/pkg/logflags"
)

// linuxReader reads target memory with process_vm_readv, falling back to
// pread on /proc/pid/mem when the syscall is unavailable or denied. The
// fallback handle is opened eagerly at attach time so that a target that
// exits later can still be read for as long as the kernel keeps the mapping
// alive.
type linuxReader struct {
	pid int
	mem *os.File

	// noVMRead is set permanently after process_vm_readv reports
	// ENOSYS or EPERM.
	noVMRead atomic.Bool
}

// Attach binds a Reader to the process identified by pid. The target is not
// stopped or otherwise disturbed; this only verifies that its memory can be
// addressed by the current user.
func Attach(pid int) (Reader, error) {
	if pid <= 0 {
		return nil, fmt.Errorf("invalid pid %d", pid)
	}
	mem, err := os.Open(fmt.Sprintf("/proc/%d/mem", pid))
	if err != nil {
		return nil, fmt.Errorf("could not attach to pid %d: %v", pid, err)
	}
	logflags.NativeLogger().Debugf("attached to pid %d", pid)
	return &linuxReader{pid: pid, mem: mem}, nil
}

func (r *linuxReader) ReadAt(buf []byte, addr uint64) error {
	if len(buf) == 0 {
		return nil
	}
	if !r.noVMRead.Load() {
		localIov := []sys.Iovec{{Base: &buf[0], Len: uint64(len(buf))}}
		remoteIov := []sys.RemoteIovec{{Base: uintptr(addr), Len: len(buf)}}
		n, err := sys.ProcessVMReadv(r.pid, localIov, remoteIov, 0)
		switch err {
		case nil:
			if n != len(buf) {
				return ErrShortRead
			}
			return nil
		case sys.ENOSYS, sys.EPERM:
			// Not usable for this target; use /proc/pid/mem from now on.
			r.noVMRead.Store(true)
		default:
			return err
		}
	}
	return r.readAtProcMem(buf, addr)
}

func (r *linuxReader) readAtProcMem(buf []byte, addr uint64) error {
	off := int64(addr)
	if off < 0 {
		// Above the canonical user address range; pread cannot express it.
		return sys.EFAULT
	}
	n, err := r.mem.ReadAt(buf, off)
	if n == len(buf) {
		return nil
	}
	if err != nil {
		return err
	}
	return ErrShortRead
}

func (r *linuxReader) PID() int {
	return r.pid
}

func (r *linuxReader) Close() error {
	return r.mem.Close()
}
