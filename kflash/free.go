package kflash

// FreeFeature marks the slot at handle REMOVED. If the slot is not
// currently USED this is a silent no-op, per the State error kind in the
// error taxonomy. The payload subsectors are left dirty; they are
// reclaimed by the next AllocateFeature that chooses this slot.
func (k *Kernel) FreeFeature(handle Handle) error {
	if !handle.valid() {
		return nil
	}
	addr := uint32(handle)

	hdr, err := k.readHeader(addr)
	if err != nil {
		k.cfg.Logger.Error("free: header read failed", "addr", addr, "err", err)
		return err
	}
	if k.classify(hdr) != statusUsed {
		return nil
	}

	hdr.Status = k.cfg.RemovedMagic
	hdr.NbSubsectors = 1
	page := make([]byte, k.cfg.PageSize)
	for i := range page {
		page[i] = byte(erasedMagic & 0xFF)
	}
	copy(page, encodeHeader(hdr))

	err = k.withProgrammingMode("free_feature", func() error {
		if err := k.dev.EraseSubsector(addr); err != nil {
			return &DeviceError{Op: "free_erase", Err: err}
		}
		return k.dev.ProgramPage(addr, page)
	})
	if err != nil {
		k.cfg.Logger.Error("free: failed", "addr", addr, "err", err)
		return err
	}

	if k.nbUsed > 0 {
		k.nbUsed--
	}
	return nil
}
