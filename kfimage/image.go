package kfimage

// Image is a fully parsed feature image: the ROM/RAM footprint declared
// in the header line, and every row of ROM payload bytes.
type Image struct {
	// ROMSize is the total ROM payload size the feature needs, passed to
	// Kernel.AllocateFeature.
	ROMSize uint32
	// RAMSize is the RAM window size the feature needs, passed to
	// Kernel.AllocateFeature.
	RAMSize uint32
	// Rows are the payload chunks, in file order (not necessarily sorted
	// by Offset).
	Rows []*Row
}

// Row is a single contiguous chunk of ROM payload bytes, destined for
// Offset bytes into the feature's ROM region.
type Row struct {
	Offset   uint32
	Data     []byte
	Checksum byte
}
