package kflash

// HeaderSize is sizeof(SlotHeader): the fixed 32-byte header persisted at
// the start of every slot. Both the rom_address = slot_start + HeaderSize
// invariant and the size_rom + HeaderSize <= slot_size() precheck use this
// one constant.
const HeaderSize = 32

// slotSize returns floor(region_subsectors / max_features) * subsector_size.
// Zero MaxFeatures yields a zero slot size, which every allocation path
// must reject with a ConfigurationError rather than divide by it.
func (k *Kernel) slotSize() int {
	if k.cfg.MaxFeatures == 0 {
		return 0
	}
	regionSubsectors := int(k.cfg.KFEnd-k.cfg.KFStart) / k.cfg.SubsectorSize
	slots := regionSubsectors / int(k.cfg.MaxFeatures)
	return slots * k.cfg.SubsectorSize
}

// slotCount returns the number of whole slots that fit in the reserved
// region, or 0 if the slot size itself is 0.
func (k *Kernel) slotCount() int {
	size := k.slotSize()
	if size == 0 {
		return 0
	}
	return int(k.cfg.KFEnd-k.cfg.KFStart) / size
}

// MaxPayload returns the largest ROM payload a single slot can hold.
func (k *Kernel) MaxPayload() int {
	size := k.slotSize()
	if size < HeaderSize {
		return 0
	}
	return size - HeaderSize
}

// slotStart returns the absolute address of slot k's header, given its
// 0-based index.
func (k *Kernel) slotStart(index int) uint32 {
	return k.cfg.KFStart + uint32(index*k.slotSize())
}

// slotIndex returns the slot index an address falls within, assuming it
// lies inside the reserved region.
func (k *Kernel) slotIndex(addr uint32) int {
	return int(addr-k.cfg.KFStart) / k.slotSize()
}
