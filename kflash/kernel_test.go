package kflash

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jrasband/kflash/flash"
)

// newTestKernel builds a Kernel over a MemDevice with a small fixed
// geometry: 256-byte pages, 4 KiB subsectors, room for 4 features (one
// subsector per slot), and a 4 KiB RAM pool aligned to 256 bytes.
func newTestKernel(t *testing.T) (*Kernel, flash.Device) {
	t.Helper()
	geo := flash.Geometry{
		PageSize:      256,
		SubsectorSize: 4096,
		KFStart:       0x1000,
		KFEnd:         0x1000 + 4*4096,
	}
	dev, err := flash.NewMemDevice(geo)
	require.NoError(t, err)
	require.NoError(t, dev.Startup())

	k, err := New(dev,
		WithMaxFeatures(4),
		WithRAMPool(0x20000000, 4096),
		WithRAMAlign(256),
	)
	require.NoError(t, err)
	return k, dev
}

func seqBytes(n int, start byte) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = start + byte(i)
	}
	return b
}

func TestAllocateFeature_MultipleInstallsEnumerateInOrder(t *testing.T) {
	k, _ := newTestKernel(t)

	h0, err := k.AllocateFeature(1000, 500)
	require.NoError(t, err)
	h1, err := k.AllocateFeature(2000, 1000)
	require.NoError(t, err)

	require.Equal(t, 2, k.AllocatedFeaturesCount())
	require.Equal(t, h0, k.GetFeatureHandle(0))
	require.Equal(t, h1, k.GetFeatureHandle(1))

	rom0, ok := k.FeatureAddressROM(h0)
	require.True(t, ok)
	require.Equal(t, uint32(h0)+HeaderSize, rom0)

	ram0, ok := k.FeatureAddressRAM(h0)
	require.True(t, ok)
	ram1, ok := k.FeatureAddressRAM(h1)
	require.True(t, ok)
	require.Equal(t, alignUp(ram0+500, 256), ram1)
}

func TestFreeFeature_ReclaimsIndexForRemainingFeatures(t *testing.T) {
	k, _ := newTestKernel(t)
	h0, err := k.AllocateFeature(1000, 500)
	require.NoError(t, err)
	h1, err := k.AllocateFeature(2000, 1000)
	require.NoError(t, err)

	require.NoError(t, k.FreeFeature(h0))

	require.Equal(t, 1, k.AllocatedFeaturesCount())
	require.Equal(t, h1, k.GetFeatureHandle(0))
}

func TestAllocateFeature_ReinstallReusesFreedRAMWindow(t *testing.T) {
	k, _ := newTestKernel(t)
	h0, err := k.AllocateFeature(1000, 500)
	require.NoError(t, err)
	_, err = k.AllocateFeature(2000, 1000)
	require.NoError(t, err)

	ram0Before, ok := k.FeatureAddressRAM(h0)
	require.True(t, ok)

	require.NoError(t, k.FreeFeature(h0))

	h0b, err := k.AllocateFeature(800, 500)
	require.NoError(t, err)
	require.Equal(t, h0, h0b)

	ram0After, ok := k.FeatureAddressRAM(h0b)
	require.True(t, ok)
	require.Equal(t, ram0Before, ram0After)
}

func TestCopyToROM_StreamsAcrossMultiplePages(t *testing.T) {
	k, dev := newTestKernel(t)
	h0, err := k.AllocateFeature(1000, 500)
	require.NoError(t, err)

	src := seqBytes(300, 1)
	require.NoError(t, k.CopyToROM(uint32(h0)+HeaderSize, src))
	require.NoError(t, k.FlushCopyToROM())

	got := make([]byte, 300)
	require.NoError(t, dev.Read(uint32(h0)+HeaderSize, got))
	require.Equal(t, src, got)
}

func TestCopyToROM_SplitCallsWithoutIntermediateFlush(t *testing.T) {
	k, dev := newTestKernel(t)
	h0, err := k.AllocateFeature(1000, 500)
	require.NoError(t, err)

	a := uint32(h0) + HeaderSize
	src0 := seqBytes(100, 1)
	src1 := seqBytes(100, 101)

	require.NoError(t, k.CopyToROM(a, src0))
	require.NoError(t, k.CopyToROM(a+100, src1))
	require.NoError(t, k.FlushCopyToROM())

	got := make([]byte, 200)
	require.NoError(t, dev.Read(a, got))
	want := append(append([]byte{}, src0...), src1...)
	require.Equal(t, want, got)
}

func TestCopyToROM_RejectsWriteCrossingSlotBoundary(t *testing.T) {
	k, dev := newTestKernel(t)
	_, err := k.AllocateFeature(1000, 500)
	require.NoError(t, err)

	before := make([]byte, 16)
	require.NoError(t, dev.Read(k.cfg.KFStart+4090, before))

	src := seqBytes(16, 0xAA)
	err = k.CopyToROM(k.cfg.KFStart+4090, src)
	require.Error(t, err)
	var placementErr *PlacementError
	require.ErrorAs(t, err, &placementErr)

	after := make([]byte, 16)
	require.NoError(t, dev.Read(k.cfg.KFStart+4090, after))
	require.Equal(t, before, after)
}

func TestAllocateFeature_RejectsZeroMaxFeatures(t *testing.T) {
	geo := flash.Geometry{PageSize: 256, SubsectorSize: 4096, KFStart: 0, KFEnd: 4096 * 4}
	dev, err := flash.NewMemDevice(geo)
	require.NoError(t, err)
	require.NoError(t, dev.Startup())

	k, err := New(dev)
	require.NoError(t, err)

	h, err := k.AllocateFeature(10, 10)
	require.Error(t, err)
	require.Equal(t, NoHandle, h)
	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
}

func TestAllocateFeature_RejectsOversizedROM(t *testing.T) {
	k, _ := newTestKernel(t)
	h, err := k.AllocateFeature(5000, 10)
	require.Error(t, err)
	require.Equal(t, NoHandle, h)
	var sizeErr *SizeError
	require.ErrorAs(t, err, &sizeErr)
}

func TestAllocateFeature_CapacityExhausted(t *testing.T) {
	k, _ := newTestKernel(t)
	for i := 0; i < 4; i++ {
		_, err := k.AllocateFeature(100, 100)
		require.NoError(t, err)
	}
	h, err := k.AllocateFeature(100, 100)
	require.Error(t, err)
	require.Equal(t, NoHandle, h)
	var capErr *CapacityError
	require.ErrorAs(t, err, &capErr)
}

func TestFreeFeature_NoOpOnNonUsedHandle(t *testing.T) {
	k, _ := newTestKernel(t)
	require.NoError(t, k.FreeFeature(NoHandle))
	require.NoError(t, k.FreeFeature(Handle(k.cfg.KFStart)))
}

func TestOnFeatureInitializationError_ReclaimsOnCorruption(t *testing.T) {
	k, _ := newTestKernel(t)
	h0, err := k.AllocateFeature(100, 100)
	require.NoError(t, err)

	require.NoError(t, k.OnFeatureInitializationError(h0, ErrCorruptedContent))
	require.Equal(t, 0, k.AllocatedFeaturesCount())
}

func TestOnFeatureInitializationError_LeavesSlotOnOtherCodes(t *testing.T) {
	k, _ := newTestKernel(t)
	h0, err := k.AllocateFeature(100, 100)
	require.NoError(t, err)

	require.NoError(t, k.OnFeatureInitializationError(h0, ErrAlreadyInstalled))
	require.Equal(t, 1, k.AllocatedFeaturesCount())
}
