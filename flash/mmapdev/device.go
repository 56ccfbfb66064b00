package mmapdev

import (
	"fmt"
	"os"

	"github.com/jrasband/kflash/flash"
)

// backing abstracts the platform-specific storage strategy: a real mmap on
// linux/darwin, a read-all/write-back buffer everywhere else. Exactly one
// implementation is compiled in, selected by the build tags on
// backing_unix.go and backing_other.go.
type backing interface {
	// bytes returns the live region backing the device. Mutations written
	// through this slice are only durable once flush is called.
	bytes() []byte
	// flush durably persists the half-open byte range [off, off+n) to the
	// underlying file.
	flush(off, n int) error
	// close releases the backing resource.
	close() error
}

// Device is a flash.Device backed by a regular file, so a feature storage
// region survives process restarts. The file must already exist and be
// exactly geo.KFEnd-geo.KFStart bytes long; Create makes one from scratch.
type Device struct {
	geo     flash.Geometry
	f       *os.File
	back    backing
	mapped  bool
	started bool
}

// Create makes a new backing file of the right size, erase-filled, and
// opens it as a Device.
func Create(path string, geo flash.Geometry) (*Device, error) {
	if err := geo.Validate(); err != nil {
		return nil, err
	}
	size := int64(geo.KFEnd - geo.KFStart)

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, fmt.Errorf("mmapdev: create %s: %w", path, err)
	}
	if err := f.Truncate(size); err != nil {
		f.Close()
		return nil, fmt.Errorf("mmapdev: size %s: %w", path, err)
	}
	erased := make([]byte, size)
	for i := range erased {
		erased[i] = flash.ErasedByte
	}
	if _, err := f.WriteAt(erased, 0); err != nil {
		f.Close()
		return nil, fmt.Errorf("mmapdev: erase-fill %s: %w", path, err)
	}
	f.Close()

	return Open(path, geo)
}

// Open maps an existing backing file as a Device. The file must be exactly
// geo.KFEnd-geo.KFStart bytes long.
func Open(path string, geo flash.Geometry) (*Device, error) {
	if err := geo.Validate(); err != nil {
		return nil, err
	}
	wantSize := int64(geo.KFEnd - geo.KFStart)

	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("mmapdev: open %s: %w", path, err)
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("mmapdev: stat %s: %w", path, err)
	}
	if st.Size() != wantSize {
		f.Close()
		return nil, fmt.Errorf("mmapdev: %s is %d bytes, geometry requires %d", path, st.Size(), wantSize)
	}

	back, err := openBacking(f, wantSize)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("mmapdev: map %s: %w", path, err)
	}

	return &Device{geo: geo, f: f, back: back}, nil
}

// Close releases the backing region (unmapping it on linux/darwin) and
// closes the file. Every mutation was already written back when it was
// made, so Close itself writes nothing.
func (d *Device) Close() error {
	err := d.back.close()
	if cerr := d.f.Close(); err == nil {
		err = cerr
	}
	return err
}

func (d *Device) Startup() error {
	d.started = true
	d.mapped = true
	return nil
}

func (d *Device) PageSize() int      { return d.geo.PageSize }
func (d *Device) SubsectorSize() int { return d.geo.SubsectorSize }
func (d *Device) KFStart() uint32    { return d.geo.KFStart }
func (d *Device) KFEnd() uint32      { return d.geo.KFEnd }

func (d *Device) PageBase(a uint32) uint32 {
	return flash.PageBase(a, d.geo.PageSize)
}

func (d *Device) SubsectorBase(a uint32) uint32 {
	return flash.SubsectorBase(a, d.geo.SubsectorSize)
}

func (d *Device) offset(addr uint32, size int) (int, error) {
	if addr < d.geo.KFStart || addr+uint32(size) > d.geo.KFEnd {
		return 0, &flash.OutOfRangeError{Addr: addr, Size: size, Op: "access"}
	}
	return int(addr - d.geo.KFStart), nil
}

func (d *Device) EraseSubsector(addr uint32) error {
	if d.mapped {
		return &flash.ModeError{Op: "erase_subsector", RequiredMode: "programming"}
	}
	if addr != flash.SubsectorBase(addr, d.geo.SubsectorSize) {
		return &flash.NotAlignedError{Addr: addr, Align: d.geo.SubsectorSize, Op: "erase_subsector"}
	}
	off, err := d.offset(addr, d.geo.SubsectorSize)
	if err != nil {
		return err
	}
	data := d.back.bytes()
	for i := off; i < off+d.geo.SubsectorSize; i++ {
		data[i] = flash.ErasedByte
	}
	return d.back.flush(off, d.geo.SubsectorSize)
}

func (d *Device) ProgramPage(addr uint32, data []byte) error {
	if d.mapped {
		return &flash.ModeError{Op: "page_write", RequiredMode: "programming"}
	}
	if len(data) > d.geo.PageSize {
		return &flash.TooLargeError{Len: len(data), PageSize: d.geo.PageSize}
	}
	if addr != flash.PageBase(addr, d.geo.PageSize) {
		return &flash.NotAlignedError{Addr: addr, Align: d.geo.PageSize, Op: "page_write"}
	}
	off, err := d.offset(addr, len(data))
	if err != nil {
		return err
	}
	copy(d.back.bytes()[off:], data)
	return d.back.flush(off, len(data))
}

func (d *Device) EnableMemoryMappedMode() error {
	d.mapped = true
	return nil
}

func (d *Device) DisableMemoryMappedMode() error {
	d.mapped = false
	return nil
}

func (d *Device) Read(addr uint32, p []byte) error {
	if !d.mapped {
		return &flash.ModeError{Op: "read", RequiredMode: "memory-mapped"}
	}
	off, err := d.offset(addr, len(p))
	if err != nil {
		return err
	}
	copy(p, d.back.bytes()[off:off+len(p)])
	return nil
}
