package kflash

// InitError classifies why a host failed to initialize a feature after
// installation.
type InitError int

const (
	// ErrCorruptedContent means the ROM payload failed a content check.
	ErrCorruptedContent InitError = iota
	// ErrIncompatibleKernelWrongUID means the feature's target kernel UID
	// doesn't match the running kernel.
	ErrIncompatibleKernelWrongUID
	// ErrIncompatibleKernelWrongAddresses means the feature was linked
	// against different kernel entry point addresses.
	ErrIncompatibleKernelWrongAddresses
	// ErrTooManyInstalled means the host's own feature-table limit was
	// reached (distinct from the allocator's slot capacity).
	ErrTooManyInstalled
	// ErrAlreadyInstalled means an identical feature is already present.
	ErrAlreadyInstalled
	// ErrROMOverlap means the feature's ROM range overlaps another
	// feature's, detected at the host level.
	ErrROMOverlap
	// ErrRAMOverlap means the feature's RAM window overlaps another
	// feature's, detected at the host level.
	ErrRAMOverlap
	// ErrRAMAddressChanged means the feature's RAM window moved since its
	// last initialization (expected to be stable across reinstall).
	ErrRAMAddressChanged
)

// reclaims lists the codes that free the slot automatically: the feature
// is unrecoverable as installed and the slot should be returned to the
// pool for the next install.
var reclaims = map[InitError]bool{
	ErrCorruptedContent:                 true,
	ErrIncompatibleKernelWrongUID:       true,
	ErrIncompatibleKernelWrongAddresses: true,
}

// OnFeatureInitializationError is invoked by the host when feature
// initialization fails. The three content/compatibility codes free the
// slot automatically; every other code is logged but leaves the slot
// intact. Always returns nil.
func (k *Kernel) OnFeatureInitializationError(handle Handle, code InitError) error {
	if reclaims[code] {
		k.cfg.Logger.Info("feature initialization failed, reclaiming slot", "handle", handle, "code", code)
		if err := k.FreeFeature(handle); err != nil {
			k.cfg.Logger.Error("failed to reclaim slot after init error", "handle", handle, "err", err)
		}
		return nil
	}
	k.cfg.Logger.Info("feature initialization failed", "handle", handle, "code", code)
	return nil
}
