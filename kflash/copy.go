package kflash

// CopyToROM appends len(src) bytes into flash starting at the absolute
// address dest. It tolerates being called repeatedly with contiguous or
// nearly-contiguous destinations, buffering writes until a whole page can
// be programmed, and tolerates a final FlushCopyToROM that commits a
// partially-filled page.
//
// A single call must stay within one slot: dest and dest+len(src) must
// map to the same slot index.
func (k *Kernel) CopyToROM(dest uint32, src []byte) error {
	if err := k.validateCopyDest(dest, len(src)); err != nil {
		k.cfg.Logger.Error("copy_to_rom: rejected", "dest", dest, "err", err)
		return err
	}
	if len(src) == 0 {
		return nil
	}

	if k.pageBuf.hasTarget {
		newOffset := int(dest) - int(k.pageBuf.targetAddr)
		switch {
		case k.pageBuf.writeOffset < newOffset && newOffset < k.cfg.PageSize:
			// caller skipped ahead within the pending page; the skipped
			// range keeps whatever is already in the buffer.
			k.pageBuf.writeOffset = newOffset
		case newOffset == k.pageBuf.writeOffset:
			// perfect continuation.
		default:
			if err := k.flushPending(); err != nil {
				k.cfg.Logger.Error("copy_to_rom: implicit flush failed", "err", err)
				return err
			}
		}
	}

	if err := k.dev.DisableMemoryMappedMode(); err != nil {
		return &DeviceError{Op: "copy_to_rom", Err: err}
	}
	defer k.enableMemoryMapped("copy_to_rom")

	remaining := len(src)
	srcOff := 0
	pageMask := uint32(k.cfg.PageSize - 1)

	for remaining > 0 {
		pageAddr := dest &^ pageMask
		pageOffset := int(dest - pageAddr)
		chunk := k.cfg.PageSize - pageOffset
		if chunk > remaining {
			chunk = remaining
		}

		if !k.pageBuf.hasTarget {
			if pageOffset != 0 {
				if err := k.loadExistingPage(pageAddr); err != nil {
					return err
				}
			} else {
				k.pageBuf.fillErased()
			}
			k.pageBuf.targetAddr = pageAddr
			k.pageBuf.hasTarget = true
		}

		copy(k.pageBuf.buf[pageOffset:pageOffset+chunk], src[srcOff:srcOff+chunk])

		if pageOffset+chunk == k.cfg.PageSize {
			if err := k.dev.ProgramPage(pageAddr, k.pageBuf.buf); err != nil {
				return &DeviceError{Op: "copy_to_rom", Err: err}
			}
			k.pageBuf.clear()
		} else {
			k.pageBuf.writeOffset = pageOffset + chunk
		}

		dest += uint32(chunk)
		srcOff += chunk
		remaining -= chunk
	}
	return nil
}

// FlushCopyToROM commits any buffered partial page. It is a no-op if no
// page is pending.
func (k *Kernel) FlushCopyToROM() error {
	if err := k.flushPending(); err != nil {
		k.cfg.Logger.Error("flush_copy_to_rom: failed", "err", err)
		return err
	}
	return nil
}

func (k *Kernel) flushPending() error {
	if !k.pageBuf.hasTarget {
		return nil
	}
	addr := k.pageBuf.targetAddr
	buf := k.pageBuf.buf
	err := k.withProgrammingMode("flush_copy_to_rom", func() error {
		return k.dev.ProgramPage(addr, buf)
	})
	if err != nil {
		return &DeviceError{Op: "flush_copy_to_rom", Err: err}
	}
	k.pageBuf.clear()
	return nil
}

// loadExistingPage reads pageAddr's current contents into the page
// buffer, briefly switching to memory-mapped mode and back, so bytes
// outside the caller's range survive the eventual program call. The
// caller must already be in programming mode.
func (k *Kernel) loadExistingPage(pageAddr uint32) error {
	if err := k.dev.EnableMemoryMappedMode(); err != nil {
		return &DeviceError{Op: "copy_to_rom_load", Err: err}
	}
	err := k.dev.Read(pageAddr, k.pageBuf.buf)
	if derr := k.dev.DisableMemoryMappedMode(); err == nil {
		err = derr
	}
	if err != nil {
		return &DeviceError{Op: "copy_to_rom_load", Err: err}
	}
	return nil
}

// validateCopyDest enforces the four placement checks: the destination
// and its end lie inside the reserved region, the write doesn't exceed a
// slot's size, and it doesn't cross a slot boundary.
func (k *Kernel) validateCopyDest(dest uint32, size int) error {
	if dest < k.cfg.KFStart || dest >= k.cfg.KFEnd {
		return &PlacementError{Dest: dest, Size: size, Reason: "destination outside reserved region"}
	}
	if dest+uint32(size) > k.cfg.KFEnd {
		return &PlacementError{Dest: dest, Size: size, Reason: "write extends past reserved region"}
	}
	if size > k.slotSize() {
		return &PlacementError{Dest: dest, Size: size, Reason: "write exceeds slot size"}
	}
	if k.slotIndex(dest) != k.slotIndex(dest+uint32(size)) {
		return &PlacementError{Dest: dest, Size: size, Reason: "write crosses a slot boundary"}
	}
	return nil
}
