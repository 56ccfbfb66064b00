//go:build linux || darwin

package mmapdev

import (
	"os"

	"golang.org/x/sys/unix"
)

// unixBacking maps the file into the process address space once and keeps
// it mapped for the life of the Device, following the mapping lifecycle in
// joshuapare/hivekit's hive.Open/Close.
type unixBacking struct {
	data []byte
}

func openBacking(f *os.File, size int64) (backing, error) {
	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, err
	}
	return &unixBacking{data: data}, nil
}

func (b *unixBacking) bytes() []byte { return b.data }

func (b *unixBacking) flush(off, n int) error {
	if n == 0 {
		return nil
	}
	return unix.Msync(b.data[off:off+n], unix.MS_SYNC)
}

func (b *unixBacking) close() error {
	if b.data == nil {
		return nil
	}
	err := unix.Munmap(b.data)
	b.data = nil
	return err
}
