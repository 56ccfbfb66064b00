package kflash

// withProgrammingMode disables memory-mapped mode, runs fn, then
// re-enables memory-mapped mode regardless of fn's outcome. Re-enabling
// is best-effort: a failure there is logged but never shadows fn's own
// error, per the propagation policy's "device-mode toggling is
// best-effort" rule.
func (k *Kernel) withProgrammingMode(op string, fn func() error) error {
	if err := k.dev.DisableMemoryMappedMode(); err != nil {
		return &DeviceError{Op: op, Err: err}
	}
	err := fn()
	k.enableMemoryMapped(op)
	return err
}

// programSubsector writes data (exactly one subsector's worth) to addr in
// page-sized chunks. The caller must already be in programming mode.
func (k *Kernel) programSubsector(addr uint32, data []byte) error {
	pageSize := k.cfg.PageSize
	for off := 0; off < len(data); off += pageSize {
		end := off + pageSize
		if end > len(data) {
			end = len(data)
		}
		if err := k.dev.ProgramPage(addr+uint32(off), data[off:end]); err != nil {
			return &DeviceError{Op: "program_subsector", Err: err}
		}
	}
	return nil
}

// readSubsector reads subsectorSize bytes starting at addr. The caller
// must already be in memory-mapped mode.
func (k *Kernel) readSubsector(addr uint32) ([]byte, error) {
	buf := make([]byte, k.cfg.SubsectorSize)
	if err := k.dev.Read(addr, buf); err != nil {
		return nil, &DeviceError{Op: "read_subsector", Err: err}
	}
	return buf, nil
}
