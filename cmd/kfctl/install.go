package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jrasband/kflash/installer"
	"github.com/jrasband/kflash/internal/klog"
	"github.com/jrasband/kflash/kfimage"
)

var installNoVerify bool

func init() {
	cmd := &cobra.Command{
		Use:   "install <image-file> <feature-file>",
		Short: "Install a feature image into a flash image's feature store",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInstall(args[0], args[1])
		},
	}
	cmd.Flags().BoolVar(&installNoVerify, "no-verify", false, "skip postinstall readback verification")
	rootCmd.AddCommand(cmd)
}

func runInstall(imagePath, featurePath string) error {
	cfg, err := loadConfig(imagePath)
	if err != nil {
		return err
	}

	img, err := kfimage.Parse(featurePath)
	if err != nil {
		return fmt.Errorf("parse feature file: %w", err)
	}

	dev, kernel, err := openKernel(imagePath, cfg)
	if err != nil {
		return err
	}
	defer dev.Close()

	prog, err := installer.Install(kernel, dev, img,
		installer.WithVerifyAfterInstall(!installNoVerify),
		installer.WithLogger(klog.New()),
		installer.WithProgressCallback(func(p installer.Progress) {
			printVerbose("[%s] %d/%d rows (%.0f%%)\n", p.Phase, p.CurrentRow, p.TotalRows, p.Percentage)
		}),
	)
	if err != nil {
		return fmt.Errorf("install: %w", err)
	}

	fmt.Printf("installed feature handle=%d bytes=%d elapsed=%s\n", prog.Handle, prog.BytesWritten, prog.ElapsedTime)
	return nil
}
