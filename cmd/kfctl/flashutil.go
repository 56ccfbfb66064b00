package main

import (
	"fmt"

	"github.com/jrasband/kflash/flash"
	"github.com/jrasband/kflash/flash/mmapdev"
	"github.com/jrasband/kflash/internal/config"
	"github.com/jrasband/kflash/internal/klog"
	"github.com/jrasband/kflash/kflash"
)

// loadConfig reads --config if set, validates and normalizes it,
// defaulting to a bare config naming imagePath so callers that never set
// --config still get flash.DefaultGeometry and kflash's own defaults.
func loadConfig(imagePath string) (*config.Config, error) {
	if configPath == "" {
		cfg := &config.Config{Device: config.DeviceConfig{Path: imagePath}}
		config.Normalize(cfg)
		return cfg, nil
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	config.Normalize(cfg)
	return cfg, nil
}

func geometryFromConfig(cfg *config.Config) flash.Geometry {
	return flash.Geometry{
		PageSize:      cfg.Device.PageSize,
		SubsectorSize: cfg.Device.SubsectorSize,
		KFStart:       cfg.Device.KFStart,
		KFEnd:         cfg.Device.KFEnd,
	}
}

// openKernel opens imagePath via flash/mmapdev and builds a Kernel on
// top of it, applying any kernel overrides from cfg. Callers must Close
// the returned device when done.
func openKernel(imagePath string, cfg *config.Config) (*mmapdev.Device, *kflash.Kernel, error) {
	geo := geometryFromConfig(cfg)

	dev, err := mmapdev.Open(imagePath, geo)
	if err != nil {
		return nil, nil, fmt.Errorf("open flash image: %w", err)
	}
	if err := dev.Startup(); err != nil {
		dev.Close()
		return nil, nil, fmt.Errorf("device startup: %w", err)
	}

	opts := []kflash.Option{kflash.WithLogger(klog.New())}
	if cfg.Kernel.MaxFeatures != 0 {
		opts = append(opts, kflash.WithMaxFeatures(cfg.Kernel.MaxFeatures))
	}
	if cfg.Kernel.RAMBufferSize != 0 {
		opts = append(opts, kflash.WithRAMPool(cfg.Kernel.RAMBase, cfg.Kernel.RAMBufferSize))
	}
	if cfg.Kernel.RAMAlign != 0 {
		opts = append(opts, kflash.WithRAMAlign(cfg.Kernel.RAMAlign))
	}
	if cfg.Kernel.UsedMagic != 0 && cfg.Kernel.RemovedMagic != 0 {
		opts = append(opts, kflash.WithMagics(cfg.Kernel.UsedMagic, cfg.Kernel.RemovedMagic))
	}

	k, err := kflash.New(dev, opts...)
	if err != nil {
		dev.Close()
		return nil, nil, fmt.Errorf("build kernel: %w", err)
	}
	return dev, k, nil
}
