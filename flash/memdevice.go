package flash

// MemDevice is an in-process, pure-Go Device backed by a byte slice sized
// to the geometry's reserved region. It is the reference model of the
// device contract: no mmap, no file descriptor, no persistence across
// process restarts.
type MemDevice struct {
	geo     Geometry
	data    []byte
	mapped  bool
	started bool
}

// NewMemDevice allocates a MemDevice for the given geometry, pre-filled
// with the erased byte pattern. Startup must still be called before use.
func NewMemDevice(geo Geometry) (*MemDevice, error) {
	if err := geo.Validate(); err != nil {
		return nil, err
	}
	data := make([]byte, geo.KFEnd-geo.KFStart)
	for i := range data {
		data[i] = ErasedByte
	}
	return &MemDevice{geo: geo, data: data}, nil
}

func (d *MemDevice) Startup() error {
	d.started = true
	d.mapped = true
	return nil
}

func (d *MemDevice) PageSize() int          { return d.geo.PageSize }
func (d *MemDevice) SubsectorSize() int     { return d.geo.SubsectorSize }
func (d *MemDevice) KFStart() uint32        { return d.geo.KFStart }
func (d *MemDevice) KFEnd() uint32          { return d.geo.KFEnd }
func (d *MemDevice) PageBase(a uint32) uint32      { return PageBase(a, d.geo.PageSize) }
func (d *MemDevice) SubsectorBase(a uint32) uint32 { return SubsectorBase(a, d.geo.SubsectorSize) }

func (d *MemDevice) offset(addr uint32, size int) (int, error) {
	if addr < d.geo.KFStart || addr+uint32(size) > d.geo.KFEnd {
		return 0, &OutOfRangeError{Addr: addr, Size: size, Op: "access"}
	}
	return int(addr - d.geo.KFStart), nil
}

func (d *MemDevice) EraseSubsector(addr uint32) error {
	if d.mapped {
		return &ModeError{Op: "erase_subsector", RequiredMode: "programming"}
	}
	if addr != SubsectorBase(addr, d.geo.SubsectorSize) {
		return &NotAlignedError{Addr: addr, Align: d.geo.SubsectorSize, Op: "erase_subsector"}
	}
	off, err := d.offset(addr, d.geo.SubsectorSize)
	if err != nil {
		return err
	}
	for i := off; i < off+d.geo.SubsectorSize; i++ {
		d.data[i] = ErasedByte
	}
	return nil
}

func (d *MemDevice) ProgramPage(addr uint32, data []byte) error {
	if d.mapped {
		return &ModeError{Op: "page_write", RequiredMode: "programming"}
	}
	if len(data) > d.geo.PageSize {
		return &TooLargeError{Len: len(data), PageSize: d.geo.PageSize}
	}
	if addr != PageBase(addr, d.geo.PageSize) {
		return &NotAlignedError{Addr: addr, Align: d.geo.PageSize, Op: "page_write"}
	}
	off, err := d.offset(addr, len(data))
	if err != nil {
		return err
	}
	copy(d.data[off:], data)
	return nil
}

func (d *MemDevice) EnableMemoryMappedMode() error {
	d.mapped = true
	return nil
}

func (d *MemDevice) DisableMemoryMappedMode() error {
	d.mapped = false
	return nil
}

func (d *MemDevice) Read(addr uint32, p []byte) error {
	if !d.mapped {
		return &ModeError{Op: "read", RequiredMode: "memory-mapped"}
	}
	off, err := d.offset(addr, len(p))
	if err != nil {
		return err
	}
	copy(p, d.data[off:off+len(p)])
	return nil
}
