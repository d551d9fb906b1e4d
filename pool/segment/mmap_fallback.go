//go:build !unix

package segment

import (
	"io"
	"os"
	"unsafe"
)

// mapFile reads the file into an 8-byte aligned heap buffer. Other processes
// only see changes after Sync.
func mapFile(f *os.File, size int) ([]byte, error) {
	words := make([]uint64, (size+7)/8)
	mem := unsafe.Slice((*byte)(unsafe.Pointer(&words[0])), size)
	if _, err := f.ReadAt(mem, 0); err != nil && err != io.EOF {
		return nil, err
	}
	return mem, nil
}

func unmap([]byte) error { return nil }

func writeBack(f *os.File, mem []byte) error {
	if f == nil {
		return nil
	}
	_, err := f.WriteAt(mem, 0)
	return err
}
