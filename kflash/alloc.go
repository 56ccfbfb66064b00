package kflash

// AllocateFeature reserves a slot for a feature with the given ROM and RAM
// footprints. It writes only the slot's header page; payload bytes are
// written separately through CopyToROM/FlushCopyToROM.
//
// It returns NoHandle if a precondition fails (configuration, size
// bounds) before any flash is touched, or if no free slot or RAM capacity
// is found after the scan. On success it returns the new slot's handle.
func (k *Kernel) AllocateFeature(sizeROM, sizeRAM uint32) (Handle, error) {
	if k.cfg.MaxFeatures == 0 {
		err := &ConfigurationError{Reason: "max features is 0"}
		k.cfg.Logger.Error("allocate: rejected", "err", err)
		return NoHandle, err
	}
	slotSize := k.slotSize()
	if int(sizeROM)+HeaderSize > slotSize {
		err := &SizeError{Requested: int(sizeROM), Bound: slotSize - HeaderSize, Kind: "rom"}
		k.cfg.Logger.Error("allocate: rejected", "err", err)
		return NoHandle, err
	}
	if sizeRAM > k.cfg.RAMBufferSize {
		err := &SizeError{Requested: int(sizeRAM), Bound: int(k.cfg.RAMBufferSize), Kind: "ram"}
		k.cfg.Logger.Error("allocate: rejected", "err", err)
		return NoHandle, err
	}

	k.refreshCache()

	slotAddr, candidate, candidateStatus, found := k.findFreeSlot()
	if !found {
		err := &CapacityError{Reason: "no free or removed slot available"}
		k.cfg.Logger.Error("allocate: rejected", "err", err)
		return NoHandle, err
	}

	ramAddr, err := k.ramWindow(candidate, candidateStatus, sizeRAM)
	if err != nil {
		k.cfg.Logger.Error("allocate: ram placement failed", "err", err)
		return NoHandle, err
	}

	nbSubsectors, err := k.eraseForPayload(slotAddr, sizeROM)
	if err != nil {
		k.cfg.Logger.Error("allocate: erase failed", "addr", slotAddr, "err", err)
		return NoHandle, err
	}

	hdr := SlotHeader{
		Status:       k.cfg.UsedMagic,
		NbSubsectors: nbSubsectors,
		ROMAddress:   slotAddr + HeaderSize,
		ROMSize:      sizeROM,
		RAMAddress:   ramAddr,
		RAMSize:      sizeRAM,
		FeatureIndex: uint32(k.nbUsed),
	}
	page := make([]byte, k.cfg.PageSize)
	for i := range page {
		page[i] = byte(erasedMagic & 0xFF)
	}
	copy(page, encodeHeader(hdr))

	err = k.withProgrammingMode("allocate_write_header", func() error {
		return k.dev.ProgramPage(slotAddr, page)
	})
	if err != nil {
		k.cfg.Logger.Error("allocate: header program failed", "addr", slotAddr, "err", err)
		return NoHandle, err
	}

	k.lastFeaturePtr = Handle(slotAddr)
	k.nbUsed++
	return Handle(slotAddr), nil
}

// findFreeSlot scans for the first non-USED slot (REMOVED or FREE),
// returning its address, its current header (meaningful only when
// REMOVED), and its status.
func (k *Kernel) findFreeSlot() (addr uint32, hdr SlotHeader, st status, found bool) {
	size := k.slotSize()
	if size == 0 {
		return 0, SlotHeader{}, statusFree, false
	}
	for a := k.cfg.KFStart; a+uint32(size) <= k.cfg.KFEnd; a += uint32(size) {
		h, err := k.readHeader(a)
		if err != nil {
			return 0, SlotHeader{}, statusFree, false
		}
		s := k.classify(h)
		if s != statusUsed {
			return a, h, s, true
		}
	}
	return 0, SlotHeader{}, statusFree, false
}

// eraseForPayload erases every subsector the ROM payload will cover,
// counting how many it touched. It switches to programming mode for the
// erases and restores memory-mapped mode afterwards.
func (k *Kernel) eraseForPayload(slotAddr uint32, sizeROM uint32) (uint32, error) {
	romAddr := slotAddr + HeaderSize
	var count uint32
	err := k.withProgrammingMode("allocate_erase", func() error {
		for addr := slotAddr; addr < romAddr+sizeROM; addr += uint32(k.cfg.SubsectorSize) {
			if err := k.dev.EraseSubsector(addr); err != nil {
				return &DeviceError{Op: "allocate_erase", Err: err}
			}
			count++
		}
		return nil
	})
	return count, err
}
