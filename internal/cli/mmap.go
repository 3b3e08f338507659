package cli

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// mmapFile maps a file read-only. The returned close func unmaps it;
// the data must not be used afterwards.
func mmapFile(path string) (data []byte, closeFn func(), err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, nil, err
	}

	if info.Size() == 0 {
		return nil, func() {}, nil
	}

	data, err = unix.Mmap(int(f.Fd()), 0, int(info.Size()), unix.PROT_READ, unix.MAP_PRIVATE)
	if err != nil {
		return nil, nil, fmt.Errorf("mmap %s: %w", path, err)
	}

	return data, func() { _ = unix.Munmap(data) }, nil
}
