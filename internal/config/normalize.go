package config

// Defaults mirrored from flash.DefaultGeometry and kflash's Default*
// constants. Duplicated rather than imported so config stays decoupled
// from the packages it configures.
const (
	defaultPageSize      = 256
	defaultSubsectorSize = 4096
	defaultKFStart       = 0
	defaultKFEnd         = 4 * 1024 * 1024

	defaultUsedMagic    uint32 = 0x181C77E8
	defaultRemovedMagic uint32 = 0x003ADCA7
	defaultRAMBufferSize       = 102400
	defaultRAMAlign            = 256
)

// Normalize fills in zero-valued fields with their defaults. It must be
// called only after Validate and is allowed to mutate cfg.
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	if cfg.Device.PageSize == 0 {
		cfg.Device.PageSize = defaultPageSize
	}
	if cfg.Device.SubsectorSize == 0 {
		cfg.Device.SubsectorSize = defaultSubsectorSize
	}
	if cfg.Device.KFEnd == 0 {
		cfg.Device.KFStart = defaultKFStart
		cfg.Device.KFEnd = defaultKFEnd
	}

	if cfg.Kernel.UsedMagic == 0 {
		cfg.Kernel.UsedMagic = defaultUsedMagic
	}
	if cfg.Kernel.RemovedMagic == 0 {
		cfg.Kernel.RemovedMagic = defaultRemovedMagic
	}
	if cfg.Kernel.RAMBufferSize == 0 {
		cfg.Kernel.RAMBufferSize = defaultRAMBufferSize
	}
	if cfg.Kernel.RAMAlign == 0 {
		cfg.Kernel.RAMAlign = defaultRAMAlign
	}
}
