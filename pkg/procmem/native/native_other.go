//go:build !linux && !windows

package native

// Attach returns ErrBackendDisabled on platforms without a native read
// backend.
func Attach(pid int) (Reader, error) {
	return nil, ErrBackendDisabled
}
