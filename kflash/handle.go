package kflash

// Handle identifies a USED slot by the absolute flash address of its
// header. It is a distinct type, not a bare uint32, so call sites cannot
// confuse a handle with a size or an offset.
type Handle uint32

// NoHandle is the sentinel value meaning "no slot" — returned by
// GetFeatureHandle on a miss and compared against to recognize the
// "no prior allocation" case in the RAM-window rule.
const NoHandle Handle = 0

func (h Handle) valid() bool { return h != NoHandle }
