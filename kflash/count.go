package kflash

// AllocatedFeaturesCount walks the slot table, repairing any USED slot
// whose FeatureIndex doesn't match its rank among USED slots so lookups
// by dense index stay deterministic. Scanning stops at the first FREE
// slot. If a flash operation during repair fails, the walk stops early
// and the count reflects whatever was already accepted.
func (k *Kernel) AllocatedFeaturesCount() int {
	k.refreshCache()
	return k.nbUsed
}

// refreshCache performs the scan-and-repair walk and updates nbUsed and
// lastFeaturePtr. AllocateFeature runs it before choosing a slot;
// FreeFeature only decrements nbUsed and does not rescan.
func (k *Kernel) refreshCache() {
	nbUsed := 0
	last := NoHandle

	size := k.slotSize()
	if size == 0 {
		k.nbUsed = 0
		k.lastFeaturePtr = NoHandle
		k.haveCache = true
		return
	}

	for addr := k.cfg.KFStart; addr+uint32(size) <= k.cfg.KFEnd; addr += uint32(size) {
		hdr, err := k.readHeader(addr)
		if err != nil {
			k.cfg.Logger.Error("count: header read failed, stopping scan", "addr", addr, "err", err)
			break
		}

		switch k.classify(hdr) {
		case statusUsed:
			if hdr.FeatureIndex == uint32(nbUsed) {
				last = Handle(addr)
				nbUsed++
				continue
			}
			if err := k.repairFeatureIndex(addr, uint32(nbUsed)); err != nil {
				k.cfg.Logger.Error("count: repair failed, stopping scan", "addr", addr, "err", err)
				goto done
			}
			last = Handle(addr)
			nbUsed++
		case statusRemoved:
			continue
		case statusFree:
			goto done
		}
	}

done:
	k.nbUsed = nbUsed
	k.lastFeaturePtr = last
	k.haveCache = true
}

// repairFeatureIndex rewrites a USED slot's first subsector with a
// corrected FeatureIndex, preserving every other byte.
func (k *Kernel) repairFeatureIndex(addr uint32, want uint32) error {
	scratch, err := k.readSubsector(addr)
	if err != nil {
		return err
	}
	hdr := decodeHeader(scratch[:HeaderSize])
	hdr.FeatureIndex = want
	copy(scratch[:HeaderSize], encodeHeader(hdr))

	return k.withProgrammingMode("repair_feature_index", func() error {
		if err := k.dev.EraseSubsector(addr); err != nil {
			return &DeviceError{Op: "repair_erase", Err: err}
		}
		return k.programSubsector(addr, scratch)
	})
}
