package kflash

// GetFeatureHandle returns the address of the USED slot whose
// FeatureIndex equals i, or NoHandle if i is out of range. Scanning stops
// at the first FREE slot.
func (k *Kernel) GetFeatureHandle(i uint32) Handle {
	size := k.slotSize()
	if size == 0 {
		return NoHandle
	}
	for addr := k.cfg.KFStart; addr+uint32(size) <= k.cfg.KFEnd; addr += uint32(size) {
		hdr, err := k.readHeader(addr)
		if err != nil {
			k.cfg.Logger.Error("get_feature_handle: read failed", "addr", addr, "err", err)
			return NoHandle
		}
		switch k.classify(hdr) {
		case statusUsed:
			if hdr.FeatureIndex == i {
				return Handle(addr)
			}
		case statusFree:
			return NoHandle
		case statusRemoved:
			continue
		}
	}
	return NoHandle
}

// FeatureAddressROM returns the ROM address stored in handle's slot, iff
// the slot is USED.
func (k *Kernel) FeatureAddressROM(handle Handle) (uint32, bool) {
	hdr, ok := k.usedHeader(handle)
	if !ok {
		return 0, false
	}
	return hdr.ROMAddress, true
}

// FeatureAddressRAM returns the RAM address stored in handle's slot, iff
// the slot is USED.
func (k *Kernel) FeatureAddressRAM(handle Handle) (uint32, bool) {
	hdr, ok := k.usedHeader(handle)
	if !ok {
		return 0, false
	}
	return hdr.RAMAddress, true
}

func (k *Kernel) usedHeader(handle Handle) (SlotHeader, bool) {
	if !handle.valid() {
		return SlotHeader{}, false
	}
	hdr, err := k.readHeader(uint32(handle))
	if err != nil {
		k.cfg.Logger.Error("lookup: read failed", "handle", handle, "err", err)
		return SlotHeader{}, false
	}
	if k.classify(hdr) != statusUsed {
		return SlotHeader{}, false
	}
	return hdr, true
}
