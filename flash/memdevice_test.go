package flash

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func testGeometry() Geometry {
	return Geometry{
		PageSize:      64,
		SubsectorSize: 256,
		KFStart:       0x1000,
		KFEnd:         0x1000 + 4*256,
	}
}

func TestMemDevice_StartsErased(t *testing.T) {
	dev, err := NewMemDevice(testGeometry())
	require.NoError(t, err)
	require.NoError(t, dev.Startup())

	buf := make([]byte, 16)
	require.NoError(t, dev.Read(dev.KFStart(), buf))
	for _, b := range buf {
		require.Equal(t, byte(ErasedByte), b)
	}
}

func TestMemDevice_ProgramRequiresProgrammingMode(t *testing.T) {
	dev, err := NewMemDevice(testGeometry())
	require.NoError(t, err)
	require.NoError(t, dev.Startup())

	err = dev.ProgramPage(dev.KFStart(), make([]byte, 64))
	require.Error(t, err)
	var modeErr *ModeError
	require.ErrorAs(t, err, &modeErr)
}

func TestMemDevice_EraseThenProgramRoundtrips(t *testing.T) {
	dev, err := NewMemDevice(testGeometry())
	require.NoError(t, err)
	require.NoError(t, dev.Startup())

	require.NoError(t, dev.DisableMemoryMappedMode())
	require.NoError(t, dev.EraseSubsector(dev.KFStart()))

	payload := make([]byte, 64)
	for i := range payload {
		payload[i] = byte(i)
	}
	require.NoError(t, dev.ProgramPage(dev.KFStart(), payload))
	require.NoError(t, dev.EnableMemoryMappedMode())

	got := make([]byte, 64)
	require.NoError(t, dev.Read(dev.KFStart(), got))
	require.Equal(t, payload, got)
}

func TestMemDevice_EraseLeavesNeighboringSubsectorsIntact(t *testing.T) {
	dev, err := NewMemDevice(testGeometry())
	require.NoError(t, err)
	require.NoError(t, dev.Startup())

	require.NoError(t, dev.DisableMemoryMappedMode())
	second := dev.KFStart() + uint32(dev.SubsectorSize())
	require.NoError(t, dev.ProgramPage(second, []byte{0xAA, 0xBB}))
	require.NoError(t, dev.EraseSubsector(dev.KFStart()))
	require.NoError(t, dev.EnableMemoryMappedMode())

	got := make([]byte, 2)
	require.NoError(t, dev.Read(second, got))
	require.Equal(t, []byte{0xAA, 0xBB}, got)
}

func TestMemDevice_AlignmentEnforced(t *testing.T) {
	dev, err := NewMemDevice(testGeometry())
	require.NoError(t, err)
	require.NoError(t, dev.Startup())
	require.NoError(t, dev.DisableMemoryMappedMode())

	err = dev.EraseSubsector(dev.KFStart() + 1)
	require.Error(t, err)
	var alignErr *NotAlignedError
	require.ErrorAs(t, err, &alignErr)

	err = dev.ProgramPage(dev.KFStart()+1, []byte{0x01})
	require.Error(t, err)
	require.ErrorAs(t, err, &alignErr)
}

func TestMemDevice_ProgramTooLarge(t *testing.T) {
	dev, err := NewMemDevice(testGeometry())
	require.NoError(t, err)
	require.NoError(t, dev.Startup())
	require.NoError(t, dev.DisableMemoryMappedMode())

	err = dev.ProgramPage(dev.KFStart(), make([]byte, dev.PageSize()+1))
	require.Error(t, err)
	var tooLarge *TooLargeError
	require.ErrorAs(t, err, &tooLarge)
}

func TestGeometry_ValidateRejectsBadShapes(t *testing.T) {
	tests := []struct {
		name string
		geo  Geometry
	}{
		{"zero page size", Geometry{PageSize: 0, SubsectorSize: 256, KFStart: 0, KFEnd: 4096}},
		{"non power of two page", Geometry{PageSize: 100, SubsectorSize: 400, KFStart: 0, KFEnd: 4096}},
		{"subsector not multiple of page", Geometry{PageSize: 64, SubsectorSize: 100, KFStart: 0, KFEnd: 4096}},
		{"end before start", Geometry{PageSize: 64, SubsectorSize: 256, KFStart: 4096, KFEnd: 0}},
		{"region not whole subsectors", Geometry{PageSize: 64, SubsectorSize: 256, KFStart: 0, KFEnd: 4000}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Error(t, tt.geo.Validate())
		})
	}
}
