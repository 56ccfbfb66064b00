package kflash

import (
	"github.com/jrasband/kflash/flash"
)

// Default magic values and pool sizing.
const (
	DefaultUsedMagic    uint32 = 0x181C77E8
	DefaultRemovedMagic uint32 = 0x003ADCA7
	DefaultRAMBufferSize       = 102400
	DefaultRAMAlign            = 256
)

// config holds Kernel-level parameters plus a snapshot of the device's
// geometry, taken once at construction since flash.Device geometry never
// changes for the life of a Kernel.
type config struct {
	MaxFeatures   uint32
	RAMBase       uint32
	RAMBufferSize uint32
	RAMAlign      uint32
	UsedMagic     uint32
	RemovedMagic  uint32
	Logger        Logger

	KFStart       uint32
	KFEnd         uint32
	PageSize      int
	SubsectorSize int
}

// Option configures a Kernel at construction time.
type Option func(*config)

// WithMaxFeatures sets the maximum number of installable features, which
// determines slot size: floor(region_subsectors / max) * subsector_size.
// Required; a Kernel built with MaxFeatures == 0 fails every allocation
// with a ConfigurationError.
func WithMaxFeatures(n uint32) Option {
	return func(c *config) { c.MaxFeatures = n }
}

// WithRAMPool sets the base address and size of the shared RAM window
// pool. Default size is DefaultRAMBufferSize.
func WithRAMPool(base, size uint32) Option {
	return func(c *config) {
		c.RAMBase = base
		c.RAMBufferSize = size
	}
}

// WithRAMAlign sets the alignment each bump-allocated RAM window is
// rounded up to. The pool base is used as given; it is neither aligned
// nor checked against this value. Default is DefaultRAMAlign.
func WithRAMAlign(align uint32) Option {
	return func(c *config) { c.RAMAlign = align }
}

// WithMagics overrides the USED/REMOVED status magic values. The two must
// be distinct from each other and from the erased pattern; New validates
// this.
func WithMagics(used, removed uint32) Option {
	return func(c *config) {
		c.UsedMagic = used
		c.RemovedMagic = removed
	}
}

// WithLogger sets the logger every failing operation reports through.
func WithLogger(logger Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.Logger = logger
		}
	}
}

func defaultConfig() config {
	return config{
		RAMBufferSize: DefaultRAMBufferSize,
		RAMAlign:      DefaultRAMAlign,
		UsedMagic:     DefaultUsedMagic,
		RemovedMagic:  DefaultRemovedMagic,
		Logger:        nopLogger{},
	}
}

// Kernel is the allocator façade: it owns a flash.Device and the derived
// process-wide caches (feature count, last allocated slot) that mutating
// operations refresh from the on-flash slot table rather than trust
// across restarts.
type Kernel struct {
	dev flash.Device
	cfg config

	nbUsed         int
	lastFeaturePtr Handle
	haveCache      bool

	pageBuf pageBuffer
}

// New builds a Kernel over dev, which must already have had Startup
// called successfully. Geometry (page size, subsector size, region
// bounds) is read once from dev; MaxFeatures, RAM pool placement, and
// magic values come from opts.
func New(dev flash.Device, opts ...Option) (*Kernel, error) {
	cfg := defaultConfig()
	cfg.KFStart = dev.KFStart()
	cfg.KFEnd = dev.KFEnd()
	cfg.PageSize = dev.PageSize()
	cfg.SubsectorSize = dev.SubsectorSize()

	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.UsedMagic == cfg.RemovedMagic {
		return nil, &ConfigurationError{Reason: "used and removed magic values must differ"}
	}
	if cfg.UsedMagic == erasedMagic || cfg.RemovedMagic == erasedMagic {
		return nil, &ConfigurationError{Reason: "magic values must not equal the erased pattern"}
	}

	k := &Kernel{dev: dev, cfg: cfg}
	k.pageBuf.buf = make([]byte, cfg.PageSize)
	if err := k.enableMemoryMapped("new"); err != nil {
		return nil, err
	}
	return k, nil
}

// enableMemoryMapped restores memory-mapped mode, logging (but not
// propagating) failure — the device-mode toggle at the end of error paths
// is best-effort per the propagation policy.
func (k *Kernel) enableMemoryMapped(op string) error {
	if err := k.dev.EnableMemoryMappedMode(); err != nil {
		k.cfg.Logger.Error("failed to restore memory-mapped mode", "op", op, "err", err)
		return &DeviceError{Op: op, Err: err}
	}
	return nil
}
