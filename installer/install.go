package installer

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jrasband/kflash/flash"
	"github.com/jrasband/kflash/kfimage"
	"github.com/jrasband/kflash/kflash"
)

// Install allocates a slot for img on kernel, streams every row through
// the copy engine, and optionally verifies the result by reading it back
// from dev. It returns the final Progress (phase "complete") on success.
func Install(kernel *kflash.Kernel, dev flash.Device, img *kfimage.Image, opts ...Option) (Progress, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Logger == nil {
		cfg.Logger = nopLogger{}
	}

	start := time.Now()
	totalRows := len(img.Rows)

	report(cfg, Progress{Phase: PhaseAllocating, TotalRows: totalRows})

	handle, err := kernel.AllocateFeature(img.ROMSize, img.RAMSize)
	if err != nil {
		return Progress{}, fmt.Errorf("installer: allocate: %w", err)
	}
	romBase, ok := kernel.FeatureAddressROM(handle)
	if !ok {
		return Progress{}, fmt.Errorf("installer: allocated handle has no rom address")
	}
	cfg.Logger.Debug("allocated feature", "handle", handle, "rom_base", romBase)

	bytesWritten := 0
	for i, row := range img.Rows {
		if err := writeRow(kernel, romBase, row, cfg.ChunkSize); err != nil {
			return Progress{}, fmt.Errorf("installer: write row %d (offset=0x%08X): %w", i, row.Offset, err)
		}
		bytesWritten += len(row.Data)

		percentage := 0.0
		if totalRows > 0 {
			percentage = (float64(i+1) / float64(totalRows)) * 90
		}
		report(cfg, Progress{
			Phase:        PhaseWriting,
			CurrentRow:   i + 1,
			TotalRows:    totalRows,
			Percentage:   percentage,
			BytesWritten: bytesWritten,
			ElapsedTime:  time.Since(start),
			Handle:       uint32(handle),
		})
	}

	if err := kernel.FlushCopyToROM(); err != nil {
		return Progress{}, fmt.Errorf("installer: flush: %w", err)
	}

	if cfg.VerifyAfterInstall {
		report(cfg, Progress{
			Phase: PhaseVerifying, CurrentRow: totalRows, TotalRows: totalRows,
			Percentage: 95, ElapsedTime: time.Since(start), Handle: uint32(handle),
		})
		if err := verifyRows(dev, romBase, img.Rows); err != nil {
			return Progress{}, err
		}
	}

	final := Progress{
		Phase:        PhaseComplete,
		CurrentRow:   totalRows,
		TotalRows:    totalRows,
		Percentage:   100,
		BytesWritten: bytesWritten,
		ElapsedTime:  time.Since(start),
		Handle:       uint32(handle),
	}
	report(cfg, final)
	cfg.Logger.Info("install complete", "handle", handle, "bytes", bytesWritten, "elapsed", final.ElapsedTime.String())

	return final, nil
}

// Uninstall frees handle's slot, giving cmd/kfctl a call site symmetrical
// with Install.
func Uninstall(kernel *kflash.Kernel, handle kflash.Handle) error {
	if err := kernel.FreeFeature(handle); err != nil {
		return fmt.Errorf("installer: uninstall: %w", err)
	}
	return nil
}

// writeRow streams a row's bytes through CopyToROM, chunking any row
// larger than chunkSize.
func writeRow(kernel *kflash.Kernel, romBase uint32, row *kfimage.Row, chunkSize int) error {
	data := row.Data
	offset := row.Offset
	for len(data) > 0 {
		n := chunkSize
		if n > len(data) {
			n = len(data)
		}
		if err := kernel.CopyToROM(romBase+offset, data[:n]); err != nil {
			return err
		}
		data = data[n:]
		offset += uint32(n)
	}
	return nil
}

// verifyRows reads every row's byte range back through dev's
// memory-mapped read path and compares against the source bytes.
func verifyRows(dev flash.Device, romBase uint32, rows []*kfimage.Row) error {
	for _, row := range rows {
		got := make([]byte, len(row.Data))
		if err := dev.Read(romBase+row.Offset, got); err != nil {
			return fmt.Errorf("installer: verify read at offset 0x%08X: %w", row.Offset, err)
		}
		if !bytes.Equal(got, row.Data) {
			return &VerificationError{Offset: row.Offset, Reason: "readback does not match source bytes"}
		}
	}
	return nil
}

func report(cfg Config, p Progress) {
	if cfg.ProgressCallback != nil {
		cfg.ProgressCallback(p)
	}
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
