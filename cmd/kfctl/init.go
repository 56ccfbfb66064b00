package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jrasband/kflash/flash/mmapdev"
)

var initSize int64

func init() {
	cmd := &cobra.Command{
		Use:   "init <image-file>",
		Short: "Create an erased (0xFF-filled) flash image file",
		Long: `init creates a new flash image file, filled entirely with the
erased byte pattern (0xFF), sized to hold the configured KF region.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(args[0])
		},
	}
	cmd.Flags().Int64Var(&initSize, "size", 0, "override the region size in bytes (default: from --config, or 4 MiB)")
	rootCmd.AddCommand(cmd)
}

func runInit(imagePath string) error {
	cfg, err := loadConfig(imagePath)
	if err != nil {
		return err
	}
	geo := geometryFromConfig(cfg)
	if initSize > 0 {
		geo.KFEnd = geo.KFStart + uint32(initSize)
	}

	dev, err := mmapdev.Create(imagePath, geo)
	if err != nil {
		return fmt.Errorf("create flash image: %w", err)
	}
	defer dev.Close()

	printVerbose("created %s: region [0x%08X, 0x%08X), page=%d subsector=%d\n",
		imagePath, geo.KFStart, geo.KFEnd, geo.PageSize, geo.SubsectorSize)
	fmt.Printf("initialized %s (%d bytes)\n", imagePath, geo.KFEnd-geo.KFStart)
	return nil
}
