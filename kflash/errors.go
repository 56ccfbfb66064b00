package kflash

import "fmt"

// ConfigurationError indicates the Kernel was built with a configuration
// that cannot serve any allocation: MaxFeatures == 0.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("kflash: configuration error: %s", e.Reason)
}

// SizeError indicates a requested ROM or RAM size exceeds its bound.
type SizeError struct {
	Requested int
	Bound     int
	Kind      string // "rom" or "ram"
}

func (e *SizeError) Error() string {
	return fmt.Sprintf("kflash: requested %s size %d exceeds bound %d", e.Kind, e.Requested, e.Bound)
}

// CapacityError indicates no free slot was available, or the RAM pool
// would overflow if the requested window were placed.
type CapacityError struct {
	Reason string
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("kflash: capacity exhausted: %s", e.Reason)
}

// PlacementError indicates a copy destination lies outside the reserved
// region or a single call would cross a slot boundary.
type PlacementError struct {
	Dest   uint32
	Size   int
	Reason string
}

func (e *PlacementError) Error() string {
	return fmt.Sprintf("kflash: placement error at 0x%08X (%d bytes): %s", e.Dest, e.Size, e.Reason)
}

// DeviceError wraps an erase or program failure reported by the flash
// driver.
type DeviceError struct {
	Op  string
	Err error
}

func (e *DeviceError) Error() string {
	return fmt.Sprintf("kflash: device error during %s: %v", e.Op, e.Err)
}

func (e *DeviceError) Unwrap() error { return e.Err }

// VerificationError indicates a handle does not point at a USED slot, so
// the requested lookup or mutation has no effect.
type VerificationError struct {
	Handle Handle
	Reason string
}

func (e *VerificationError) Error() string {
	return fmt.Sprintf("kflash: handle 0x%08X invalid: %s", uint32(e.Handle), e.Reason)
}
