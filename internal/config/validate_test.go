package config

import "testing"

func TestValidate_AcceptsMinimalConfig(t *testing.T) {
	cfg := &Config{Device: DeviceConfig{Path: "flash.img"}}

	if err := Validate(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_RequiresDevicePath(t *testing.T) {
	cfg := &Config{}

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected error for missing device.path, got nil")
	}
}

func TestValidate_RejectsSubsectorNotMultipleOfPage(t *testing.T) {
	cfg := &Config{Device: DeviceConfig{Path: "flash.img", PageSize: 256, SubsectorSize: 1000}}

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected error for non-multiple subsector size, got nil")
	}
}

func TestValidate_RejectsBackwardsRegion(t *testing.T) {
	cfg := &Config{Device: DeviceConfig{Path: "flash.img", KFStart: 0x2000, KFEnd: 0x1000}}

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected error for kf_start >= kf_end, got nil")
	}
}

func TestValidate_RejectsEqualMagics(t *testing.T) {
	cfg := &Config{
		Device: DeviceConfig{Path: "flash.img"},
		Kernel: KernelConfig{UsedMagic: 0x11111111, RemovedMagic: 0x11111111},
	}

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected error for equal magics, got nil")
	}
}

func TestValidate_RejectsMagicEqualToErasedPattern(t *testing.T) {
	cfg := &Config{
		Device: DeviceConfig{Path: "flash.img"},
		Kernel: KernelConfig{UsedMagic: erasedMagic, RemovedMagic: 0x003ADCA7},
	}

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected error for used_magic == erased pattern, got nil")
	}
}

func TestValidate_RejectsNonPowerOfTwoRAMAlign(t *testing.T) {
	cfg := &Config{
		Device: DeviceConfig{Path: "flash.img"},
		Kernel: KernelConfig{RAMAlign: 100},
	}

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected error for non-power-of-two ram_align, got nil")
	}
}

func TestNormalize_FillsDefaults(t *testing.T) {
	cfg := &Config{Device: DeviceConfig{Path: "flash.img"}}
	Normalize(cfg)

	if cfg.Device.PageSize != defaultPageSize {
		t.Errorf("PageSize = %d, want %d", cfg.Device.PageSize, defaultPageSize)
	}
	if cfg.Device.SubsectorSize != defaultSubsectorSize {
		t.Errorf("SubsectorSize = %d, want %d", cfg.Device.SubsectorSize, defaultSubsectorSize)
	}
	if cfg.Device.KFEnd != defaultKFEnd {
		t.Errorf("KFEnd = 0x%X, want 0x%X", cfg.Device.KFEnd, defaultKFEnd)
	}
	if cfg.Kernel.UsedMagic != defaultUsedMagic {
		t.Errorf("UsedMagic = 0x%X, want 0x%X", cfg.Kernel.UsedMagic, defaultUsedMagic)
	}
	if cfg.Kernel.RAMAlign != defaultRAMAlign {
		t.Errorf("RAMAlign = %d, want %d", cfg.Kernel.RAMAlign, defaultRAMAlign)
	}
}

func TestNormalize_PreservesExplicitValues(t *testing.T) {
	cfg := &Config{
		Device: DeviceConfig{Path: "flash.img", PageSize: 512, SubsectorSize: 8192, KFStart: 0x1000, KFEnd: 0x2000},
		Kernel: KernelConfig{MaxFeatures: 8, RAMAlign: 64},
	}
	Normalize(cfg)

	if cfg.Device.PageSize != 512 {
		t.Errorf("PageSize overwritten: %d", cfg.Device.PageSize)
	}
	if cfg.Device.KFStart != 0x1000 {
		t.Errorf("KFStart overwritten: 0x%X", cfg.Device.KFStart)
	}
	if cfg.Kernel.RAMAlign != 64 {
		t.Errorf("RAMAlign overwritten: %d", cfg.Kernel.RAMAlign)
	}
}
