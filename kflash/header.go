package kflash

import "encoding/binary"

// erasedMagic is the flash's erased 32-bit pattern. It is never compared
// against directly when classifying status: FREE means "matches neither
// magic", not "equals this value", as classify implements it.
const erasedMagic uint32 = 0xFFFFFFFF

// status classifies a slot's persisted status word.
type status int

const (
	statusFree status = iota
	statusUsed
	statusRemoved
)

// SlotHeader is the fixed 32-byte layout persisted at the start of every
// slot. Field order and widths are fixed; reserved pads the struct to a
// 16-byte-aligned payload start.
type SlotHeader struct {
	Status       uint32
	NbSubsectors uint32
	ROMAddress   uint32
	ROMSize      uint32
	RAMAddress   uint32
	RAMSize      uint32
	FeatureIndex uint32
	Reserved     uint32
}

// classify returns the three-valued status of a header's Status word
// given the Kernel's configured magic values. Any bit pattern other than
// the two magics, including the erased pattern, is FREE.
func (k *Kernel) classify(h SlotHeader) status {
	switch h.Status {
	case k.cfg.UsedMagic:
		return statusUsed
	case k.cfg.RemovedMagic:
		return statusRemoved
	default:
		return statusFree
	}
}

// encodeHeader writes h into a HeaderSize-byte little-endian buffer.
func encodeHeader(h SlotHeader) []byte {
	buf := make([]byte, HeaderSize)
	binary.LittleEndian.PutUint32(buf[0:4], h.Status)
	binary.LittleEndian.PutUint32(buf[4:8], h.NbSubsectors)
	binary.LittleEndian.PutUint32(buf[8:12], h.ROMAddress)
	binary.LittleEndian.PutUint32(buf[12:16], h.ROMSize)
	binary.LittleEndian.PutUint32(buf[16:20], h.RAMAddress)
	binary.LittleEndian.PutUint32(buf[20:24], h.RAMSize)
	binary.LittleEndian.PutUint32(buf[24:28], h.FeatureIndex)
	binary.LittleEndian.PutUint32(buf[28:32], h.Reserved)
	return buf
}

// decodeHeader reads a HeaderSize-byte little-endian buffer into a
// SlotHeader. Callers must not trust payload fields of a non-USED header
// for anything except, in the REMOVED case, RAMAddress/RAMSize (the
// reuse rule consults these).
func decodeHeader(buf []byte) SlotHeader {
	return SlotHeader{
		Status:       binary.LittleEndian.Uint32(buf[0:4]),
		NbSubsectors: binary.LittleEndian.Uint32(buf[4:8]),
		ROMAddress:   binary.LittleEndian.Uint32(buf[8:12]),
		ROMSize:      binary.LittleEndian.Uint32(buf[12:16]),
		RAMAddress:   binary.LittleEndian.Uint32(buf[16:20]),
		RAMSize:      binary.LittleEndian.Uint32(buf[20:24]),
		FeatureIndex: binary.LittleEndian.Uint32(buf[24:28]),
		Reserved:     binary.LittleEndian.Uint32(buf[28:32]),
	}
}

// readHeader reads and decodes the header at slot start addr. The caller
// must already be in memory-mapped mode.
func (k *Kernel) readHeader(addr uint32) (SlotHeader, error) {
	buf := make([]byte, HeaderSize)
	if err := k.dev.Read(addr, buf); err != nil {
		return SlotHeader{}, &DeviceError{Op: "read_header", Err: err}
	}
	return decodeHeader(buf), nil
}
