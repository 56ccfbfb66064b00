package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jrasband/kflash/installer"
	"github.com/jrasband/kflash/internal/klog"
	"github.com/jrasband/kflash/kfimage"
)

func init() {
	cmd := &cobra.Command{
		Use:   "reinstall <image-file> <handle> <feature-file>",
		Short: "Free a handle's slot then install a new feature, demonstrating RAM-window reuse",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReinstall(args[0], args[1], args[2])
		},
	}
	rootCmd.AddCommand(cmd)
}

func runReinstall(imagePath, handleArg, featurePath string) error {
	handle, err := parseHandle(handleArg)
	if err != nil {
		return err
	}

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

	if err := installer.Uninstall(kernel, handle); err != nil {
		return fmt.Errorf("free existing handle: %w", err)
	}

	prog, err := installer.Install(kernel, dev, img,
		installer.WithVerifyAfterInstall(true),
		installer.WithLogger(klog.New()),
	)
	if err != nil {
		return fmt.Errorf("install: %w", err)
	}

	fmt.Printf("reinstalled: old handle=%d new handle=%d bytes=%d\n", uint32(handle), prog.Handle, prog.BytesWritten)
	return nil
}
