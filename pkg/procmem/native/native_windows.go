package native

import (
	"fmt"

	"golang.org/x/sys/windows"

	"github.com/shraddhaarora/crashpad/pkg/logflags"
)

type windowsReader struct {
	pid      int
	hProcess windows.Handle
}

// Attach binds a Reader to the process identified by pid. The handle is
// opened with the minimal rights needed to read memory.
func Attach(pid int) (Reader, error) {
	if pid <= 0 {
		return nil, fmt.Errorf("invalid pid %d", pid)
	}
	hProcess, err := windows.OpenProcess(windows.PROCESS_VM_READ|windows.PROCESS_QUERY_INFORMATION, false, uint32(pid))
	if err != nil {
		return nil, fmt.Errorf("could not attach to pid %d: %v", pid, err)
	}
	logflags.NativeLogger().Debugf("attached to pid %d", pid)
	return &windowsReader{pid: pid, hProcess: hProcess}, nil
}

func (r *windowsReader) ReadAt(buf []byte, addr uint64) error {
	if len(buf) == 0 {
		return nil
	}
	var count uintptr
	err := windows.ReadProcessMemory(r.hProcess, uintptr(addr), &buf[0], uintptr(len(buf)), &count)
	if err != nil {
		return err
	}
	if count != uintptr(len(buf)) {
		return ErrShortRead
	}
	return nil
}

func (r *windowsReader) PID() int {
	return r.pid
}

func (r *windowsReader) Close() error {
	return windows.CloseHandle(r.hProcess)
}
