//go:build unix

package segment

import (
	"os"

	"golang.org/x/sys/unix"
)

func mapFile(f *os.File, size int) ([]byte, error) {
	return unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
}

func unmap(mem []byte) error {
	return unix.Munmap(mem)
}

// writeBack is a no-op: the mapping is the file.
func writeBack(*os.File, []byte) error { return nil }
