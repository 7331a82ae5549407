//go:build linux

package source

import (
	"os"

	"golang.org/x/sys/unix"
)

// adviseSequential tells the kernel the file is read once, front to back.
// Failure only loses the readahead hint.
func adviseSequential(f *os.File) {
	_ = unix.Fadvise(int(f.Fd()), 0, 0, unix.FADV_SEQUENTIAL)
}
