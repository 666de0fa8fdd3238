//go:build linux || darwin || freebsd || netbsd || openbsd

package httpclient

import "golang.org/x/sys/unix"

// osVersion reports the kernel release, e.g. "6.8.0" or "23.4.0".
func osVersion() string {
	var u unix.Utsname
	if err := unix.Uname(&u); err != nil {
		return ""
	}
	return unix.ByteSliceToString(u.Release[:])
}
