//go:build linux || darwin

package fsutil

import "golang.org/x/sys/unix"

func closeFD(fd int) {
	_ = unix.Close(fd)
}
