package utils

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// IOCtl は記述子に対してioctlを発行する
func IOCtl(fd int, cmd uintptr, arg unsafe.Pointer) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), cmd, uintptr(arg))
	if errno != 0 {
		return errno
	}
	return nil
}

// IOCtlString はioctlで文字列を読み出す。NUL終端までを返す
func IOCtlString(fd int, cmd uintptr, size int) (string, error) {
	buf := make([]byte, size)
	if err := IOCtl(fd, cmd, unsafe.Pointer(&buf[0])); err != nil {
		return "", err
	}
	for i, b := range buf {
		if b == 0 {
			return string(buf[:i]), nil
		}
	}
	return string(buf), nil
}
